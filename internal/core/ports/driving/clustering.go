package driving

import (
	"context"

	"github.com/custodia-labs/thekla/internal/core/domain"
)

// ClusteringService groups the documents of a collection.
type ClusteringService interface {
	// Cluster runs algorithm with explicit params.
	Cluster(ctx context.Context, coll *domain.Collection, algorithm domain.Algorithm,
		params domain.ClusterParams) (*domain.Clustering, error)

	// ClusterInferred runs DBSCAN with parameters inferred from the
	// distance distribution; percent is X in min_samples = X% of N.
	ClusterInferred(ctx context.Context, coll *domain.Collection, percent float64) (*domain.Clustering, error)

	// Centroids aggregates the mean centroid of every cluster.
	Centroids(ctx context.Context, coll *domain.Collection, clustering *domain.Clustering) (domain.ClusterCentroids, error)
}
