package driven

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/custodia-labs/thekla/internal/core/domain"
)

// Clusterer fits a labeling over a precomputed distance matrix.
type Clusterer interface {
	// Algorithm returns the algorithm this clusterer implements.
	Algorithm() domain.Algorithm

	// Fit returns one raw label per matrix row. Labels are opaque group ids;
	// domain.Unassigned (-1) is reserved for noise.
	Fit(ctx context.Context, distances *mat.SymDense, params domain.ClusterParams) ([]int, error)
}
