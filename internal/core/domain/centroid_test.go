package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCentroid_Avg(t *testing.T) {
	tm := testModel(t)

	tests := []struct {
		name  string
		words []string
		want  []float64
	}{
		// mean(a, b) = [0.15, 0.45, 0.4]
		{"two words", []string{"a", "b"}, []float64{0, 1, 0.25 / 0.3}},
		// unknown words contribute nothing
		{"unknown ignored", []string{"zzz", "a", "b", "qqq"}, []float64{0, 1, 0.25 / 0.3}},
		// repeated words count with multiplicity: (2a + b) / 3
		{"multiplicity", []string{"a", "a", "b"}, []float64{0, 0.875, 1}},
		{"single word", []string{"c"}, []float64{1, 0, 0.1 / 0.6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ComputeCentroid(tm, tt.words, FlavorAvg)
			require.NoError(t, err)
			got, ok := c.Vector()
			require.True(t, ok)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}
}

func TestComputeCentroid_Exp(t *testing.T) {
	tm := testModel(t)

	// norm(a) = [0, 1/3, 1], norm(b) = [0, 1, 0.4]
	c, err := ComputeCentroid(tm, []string{"a", "b"}, FlavorExp)
	require.NoError(t, err)
	got, _ := c.Vector()
	assert.InDeltaSlice(t, []float64{0, 2.0 / 3, 0.7}, got, 1e-9)
}

func TestComputeCentroid_ExpConstantWordAddsZeros(t *testing.T) {
	tm := testModel(t)

	c, err := ComputeCentroid(tm, []string{"d", "a"}, FlavorExp)
	require.NoError(t, err)
	got, _ := c.Vector()
	assert.InDeltaSlice(t, []float64{0, 1.0 / 6, 0.5}, got, 1e-9)
}

func TestComputeCentroid_AvgDegenerate(t *testing.T) {
	tm := testModel(t)

	c, err := ComputeCentroid(tm, []string{"d"}, FlavorAvg)

	assert.ErrorIs(t, err, ErrDegenerateVector)
	assert.False(t, c.Defined())
}

func TestComputeCentroid_NoKnownWords(t *testing.T) {
	tm := testModel(t)

	for _, flavor := range []CentroidFlavor{FlavorAvg, FlavorExp} {
		c, err := ComputeCentroid(tm, []string{"zzz"}, flavor)
		assert.ErrorIs(t, err, ErrNoKnownWords)
		assert.False(t, c.Defined())

		c, err = ComputeCentroid(tm, nil, flavor)
		assert.ErrorIs(t, err, ErrNoKnownWords)
		assert.False(t, c.Defined())
	}
}

func TestComputeCentroid_UnknownFlavor(t *testing.T) {
	_, err := ComputeCentroid(testModel(t), []string{"a"}, CentroidFlavor("median"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestComputeCentroid_ValuesInUnitRange(t *testing.T) {
	tm := testModel(t)
	words := [][]string{{"a"}, {"b", "c"}, {"a", "b", "c", "c", "d"}, {"c", "c", "a"}}

	for _, flavor := range []CentroidFlavor{FlavorAvg, FlavorExp} {
		for _, w := range words {
			c, err := ComputeCentroid(tm, w, flavor)
			require.NoError(t, err)
			got, _ := c.Vector()
			require.Len(t, got, tm.NumTopics())
			for _, v := range got {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}
}
