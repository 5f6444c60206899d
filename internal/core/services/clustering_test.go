package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/thekla/internal/adapters/driven/clustering/dbscan"
	"github.com/custodia-labs/thekla/internal/adapters/driven/clustering/kmeans"
	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/logger"
)

func newClusteringService() *ClusteringService {
	return NewClusteringService(logger.Discard(), dbscan.New(), kmeans.New())
}

func TestNameClusters(t *testing.T) {
	coll := testCollection(t, map[string][]float64{
		"a": {0, 1}, "b": {1, 0}, "c": {1, 0.1}, "d": {0.5, 0.5},
	})

	res, err := NameClusters(coll, []string{"a", "b", "c", "d"}, []int{-1, 0, 0, 1})
	require.NoError(t, err)

	require.Len(t, res.Clusters, 2)
	assert.Equal(t, domain.Cluster{Number: 1, Name: "cluster1 #2", Members: []string{"b", "c"}}, res.Clusters[0])
	assert.Equal(t, domain.Cluster{Number: 2, Name: "cluster2 #1", Members: []string{"d"}}, res.Clusters[1])
	assert.Equal(t, []string{"a"}, res.Noise)

	want := map[string]int{"a": domain.Unassigned, "b": 1, "c": 1, "d": 2}
	for id, label := range want {
		doc, ok := coll.Get(id)
		require.True(t, ok)
		assert.Equal(t, label, doc.ClusterLabel, id)
	}
}

func TestNameClusters_Errors(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		labels  []int
		wantErr error
	}{
		{"reserved label", []string{"a", "b"}, []int{0, -2}, domain.ErrLabelCollision},
		{"length mismatch", []string{"a", "b"}, []int{0}, domain.ErrDimensionMismatch},
		{"unknown document", []string{"a", "zzz"}, []int{0, 0}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll := testCollection(t, map[string][]float64{"a": {0, 1}, "b": {1, 0}})

			_, err := NameClusters(coll, tt.ids, tt.labels)
			assert.ErrorIs(t, err, tt.wantErr)

			for _, id := range coll.IDs() {
				doc, _ := coll.Get(id)
				assert.Equal(t, domain.Unassigned, doc.ClusterLabel, "labels are validated first")
			}
		})
	}
}

func TestClusteringService_Cluster_DBSCAN(t *testing.T) {
	svc := newClusteringService()
	coll := twoGroups(t)

	res, err := svc.Cluster(context.Background(), coll, domain.AlgorithmDBSCAN,
		domain.ClusterParams{"eps": 0.5, "min_samples": 2.0})
	require.NoError(t, err)

	require.Equal(t, 2, res.Len())
	assert.Equal(t, "cluster1 #3", res.Clusters[0].Name)
	assert.Equal(t, []string{"a", "b", "c"}, res.Clusters[0].Members)
	assert.Equal(t, "cluster2 #3", res.Clusters[1].Name)
	assert.Equal(t, []string{"d", "e", "f"}, res.Clusters[1].Members)
	assert.Empty(t, res.Noise)

	doc, _ := coll.Get("e")
	assert.Equal(t, 2, doc.ClusterLabel)
}

func TestClusteringService_Cluster_DBSCANNoise(t *testing.T) {
	svc := newClusteringService()
	coll := twoGroups(t)

	res, err := svc.Cluster(context.Background(), coll, domain.AlgorithmDBSCAN,
		domain.ClusterParams{"eps": 0.01, "min_samples": 2.0})
	require.NoError(t, err)

	assert.Zero(t, res.Len())
	assert.Len(t, res.Noise, 6)
}

func TestClusteringService_Cluster_KMeans(t *testing.T) {
	svc := newClusteringService()

	res, err := svc.Cluster(context.Background(), twoGroups(t), domain.AlgorithmKMeans,
		domain.ClusterParams{"n_clusters": 2.0, "random_state": 7.0})
	require.NoError(t, err)

	require.Equal(t, 2, res.Len())
	for _, cl := range res.Clusters {
		assert.Len(t, cl.Members, 3)
	}
	assert.Empty(t, res.Noise)
}

func TestClusteringService_Cluster_Errors(t *testing.T) {
	svc := newClusteringService()

	_, err := svc.Cluster(context.Background(), twoGroups(t), domain.Algorithm("spectral"), nil)
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)

	_, err = svc.Cluster(context.Background(), domain.NewCollection(2, domain.FlavorAvg), domain.AlgorithmDBSCAN, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCollection)

	_, err = svc.Cluster(context.Background(), twoGroups(t), domain.AlgorithmDBSCAN,
		domain.ClusterParams{"eps": -1.0})
	assert.ErrorIs(t, err, domain.ErrInvalidParams)

	_, err = svc.Cluster(context.Background(), twoGroups(t), domain.AlgorithmKMeans,
		domain.ClusterParams{"n_clusters": 2.0, "linkage": "ward"})
	assert.ErrorIs(t, err, domain.ErrInvalidParams)
}

func TestClusteringService_ClusterInferred(t *testing.T) {
	svc := newClusteringService()

	res, err := svc.ClusterInferred(context.Background(), twoGroups(t), 1)
	require.NoError(t, err)

	// The inferred radius spans both groups.
	require.Equal(t, 1, res.Len())
	assert.Equal(t, "cluster1 #6", res.Clusters[0].Name)
}

func TestClusteringService_ClusterInferred_Params(t *testing.T) {
	fake := &mockClusterer{labels: []int{0, 0, 0, 1, 1, 1}}
	svc := NewClusteringService(logger.Discard(), fake)
	coll := twoGroups(t)

	_, err := svc.ClusterInferred(context.Background(), coll, 50)
	require.NoError(t, err)

	matrix, _, err := coll.CentroidMatrix()
	require.NoError(t, err)
	want, err := InferDBSCANParams(DistanceMatrix(matrix), 50)
	require.NoError(t, err)
	assert.Equal(t, want.ClusterParams(), fake.params)
	assert.InDelta(t, 3.0, fake.params["min_samples"], 1e-9)
}

func TestClusteringService_ClusterInferred_Errors(t *testing.T) {
	_, err := newClusteringService().ClusterInferred(context.Background(), twoGroups(t), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidParams)

	_, err = NewClusteringService(logger.Discard(), kmeans.New()).ClusterInferred(context.Background(), twoGroups(t), 1)
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
}

func TestClusteringService_LabelCountMismatch(t *testing.T) {
	svc := NewClusteringService(logger.Discard(), &mockClusterer{labels: []int{0}})

	_, err := svc.Cluster(context.Background(), twoGroups(t), domain.AlgorithmDBSCAN, nil)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestClusteringService_Centroids(t *testing.T) {
	svc := newClusteringService()
	coll := testCollection(t, map[string][]float64{"a": {0, 1}, "b": {1, 0}, "c": {0.5, 0.5}})
	clustering := &domain.Clustering{Clusters: []domain.Cluster{
		{Number: 1, Name: "cluster1 #3", Members: []string{"a", "b", "missing"}},
		{Number: 2, Name: "cluster2 #1", Members: []string{"gone"}},
		{Number: 3, Name: "cluster3 #1", Members: []string{"c"}},
	}}

	centroids, err := svc.Centroids(context.Background(), coll, clustering)
	require.NoError(t, err)

	assert.Len(t, centroids, 2)
	assert.Equal(t, []float64{0.5, 0.5}, centroids["cluster1 #3"])
	assert.Equal(t, []float64{0.5, 0.5}, centroids["cluster3 #1"])
	assert.NotContains(t, centroids, "cluster2 #1")
}

func TestClusteringService_Centroids_NoneFound(t *testing.T) {
	svc := newClusteringService()
	coll := testCollection(t, map[string][]float64{"a": {0, 1}})
	clustering := &domain.Clustering{Clusters: []domain.Cluster{
		{Number: 1, Name: "cluster1 #1", Members: []string{"gone"}},
	}}

	_, err := svc.Centroids(context.Background(), coll, clustering)
	assert.ErrorIs(t, err, domain.ErrNoClusters)
}

func TestStage_String(t *testing.T) {
	tests := []struct {
		stage stage
		want  string
	}{
		{stageMatrixBuilt, "build centroid matrix"},
		{stageDistanceComputed, "compute distances"},
		{stageParametersResolved, "resolve parameters"},
		{stageLabelsAssigned, "assign labels"},
		{stageClustersNamed, "name clusters"},
		{stage(99), "unknown stage"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.stage.String())
	}
}
