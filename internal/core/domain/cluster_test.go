package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"", AlgorithmDBSCAN, false},
		{"dbscan", AlgorithmDBSCAN, false},
		{" KMeans ", AlgorithmKMeans, false},
		{"optics", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClusterParams_Float(t *testing.T) {
	p := ClusterParams{"f": 0.5, "i": int64(3), "n": 2, "s": "x"}

	tests := []struct {
		key     string
		want    float64
		wantErr bool
	}{
		{"f", 0.5, false},
		{"i", 3, false},
		{"n", 2, false},
		{"missing", 7, false},
		{"s", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := p.Float(tt.key, 7)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParams)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestClusterParams_Int(t *testing.T) {
	p := ClusterParams{"k": float64(4), "frac": 2.5}

	k, err := p.Int("k", 8)
	require.NoError(t, err)
	assert.Equal(t, 4, k)

	def, err := p.Int("missing", 8)
	require.NoError(t, err)
	assert.Equal(t, 8, def)

	_, err = p.Int("frac", 8)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestClusterParams_Unknown(t *testing.T) {
	p := ClusterParams{"eps": 0.5, "zeta": 1, "alpha": 2}

	assert.Equal(t, []string{"alpha", "zeta"}, p.Unknown("eps", "min_samples"))
	assert.Empty(t, p.Unknown("eps", "zeta", "alpha"))
}

func TestDBSCANParams_ClusterParams(t *testing.T) {
	p := DBSCANParams{Eps: 1.25, MinSamples: 10}.ClusterParams()
	assert.Equal(t, ClusterParams{"eps": 1.25, "min_samples": 10.0}, p)
}

func TestClusterName(t *testing.T) {
	assert.Equal(t, "cluster1 #12", ClusterName(1, 12))
	assert.Equal(t, "cluster3 #1", ClusterName(3, 1))
}

func TestClustering(t *testing.T) {
	c := &Clustering{
		Clusters: []Cluster{
			{Number: 1, Name: "cluster1 #2", Members: []string{"a", "b"}},
			{Number: 2, Name: "cluster2 #1", Members: []string{"c"}},
		},
		Noise: []string{"d"},
	}

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"a", "b", "c"}, c.Members())
	assert.Equal(t, map[string][]string{
		"cluster1 #2": {"a", "b"},
		"cluster2 #1": {"c"},
	}, c.Map())

	var empty *Clustering
	assert.Zero(t, empty.Len())
}

func TestClusterCentroids_Names(t *testing.T) {
	c := ClusterCentroids{"water": {1}, "fire": {0}, "earth": {0.5}}
	assert.Equal(t, []string{"earth", "fire", "water"}, c.Names())
}
