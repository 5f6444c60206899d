// Package dbscan implements density-based clustering over a precomputed
// distance matrix.
package dbscan

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
)

// Ensure Clusterer implements the interface.
var _ driven.Clusterer = (*Clusterer)(nil)

// Parameter names.
const (
	ParamEps        = "eps"
	ParamMinSamples = "min_samples"
)

// Defaults when a parameter is absent.
const (
	DefaultEps        = 0.5
	DefaultMinSamples = 5
)

const (
	noise     = domain.Unassigned
	unvisited = -2
)

// Clusterer runs DBSCAN.
type Clusterer struct{}

// New creates a DBSCAN clusterer.
func New() *Clusterer {
	return &Clusterer{}
}

// Algorithm returns domain.AlgorithmDBSCAN.
func (c *Clusterer) Algorithm() domain.Algorithm {
	return domain.AlgorithmDBSCAN
}

// Fit labels each row with a 0-based cluster id, or -1 for noise.
func (c *Clusterer) Fit(ctx context.Context, distances *mat.SymDense, params domain.ClusterParams) ([]int, error) {
	if unknown := params.Unknown(ParamEps, ParamMinSamples); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: dbscan does not accept %v", domain.ErrInvalidParams, unknown)
	}
	eps, err := params.Float(ParamEps, DefaultEps)
	if err != nil {
		return nil, err
	}
	minSamples, err := params.Float(ParamMinSamples, DefaultMinSamples)
	if err != nil {
		return nil, err
	}
	if eps < 0 || math.IsNaN(eps) {
		return nil, fmt.Errorf("%w: eps must be >= 0, got %g", domain.ErrInvalidParams, eps)
	}
	if minSamples <= 0 || math.IsNaN(minSamples) {
		return nil, fmt.Errorf("%w: min_samples must be > 0, got %g", domain.ErrInvalidParams, minSamples)
	}
	return Labels(ctx, distances, eps, minSamples)
}

// Labels runs DBSCAN. A row is a core point when at least minSamples rows,
// itself included, lie within eps. Border rows join the first cluster that
// reaches them; all other rows are noise.
func Labels(ctx context.Context, distances *mat.SymDense, eps, minSamples float64) ([]int, error) {
	n := distances.SymmetricDim()
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}

	clusterID := 0
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if labels[i] != unvisited {
			continue
		}

		neighbors := rangeQuery(distances, i, eps)
		if float64(len(neighbors)) < minSamples {
			labels[i] = noise
			continue
		}

		// Start a new cluster.
		labels[i] = clusterID

		// Seed set: neighbors minus point i.
		seed := make([]int, 0, len(neighbors))
		for _, j := range neighbors {
			if j != i {
				seed = append(seed, j)
			}
		}

		for len(seed) > 0 {
			q := seed[0]
			seed = seed[1:]

			if labels[q] == noise {
				labels[q] = clusterID
			}
			if labels[q] != unvisited {
				continue
			}
			labels[q] = clusterID

			qNeighbors := rangeQuery(distances, q, eps)
			if float64(len(qNeighbors)) >= minSamples {
				seed = append(seed, qNeighbors...)
			}
		}
		clusterID++
	}

	return labels, nil
}

// rangeQuery returns the rows within eps of row idx, idx included.
func rangeQuery(distances *mat.SymDense, idx int, eps float64) []int {
	var result []int
	n := distances.SymmetricDim()
	for j := 0; j < n; j++ {
		if distances.At(idx, j) <= eps {
			result = append(result, j)
		}
	}
	return result
}
