package services

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/custodia-labs/thekla/internal/core/domain"
)

// epsFactor scales the mean pairwise distance into a DBSCAN radius. The
// generous radius keeps sparse topic spaces from dissolving into noise.
const epsFactor = 4

// InferDBSCANParams derives DBSCAN parameters from a distance matrix:
// min_samples is percent% of N and eps is 4× the mean of all N×N entries,
// rounded to two decimals. It is a pure function of its inputs.
func InferDBSCANParams(distances *mat.SymDense, percent float64) (domain.DBSCANParams, error) {
	if percent <= 0 || math.IsNaN(percent) || math.IsInf(percent, 0) {
		return domain.DBSCANParams{}, fmt.Errorf("%w: infer percent must be positive, got %g",
			domain.ErrInvalidParams, percent)
	}
	n := distances.SymmetricDim()
	if n == 0 {
		return domain.DBSCANParams{}, domain.ErrEmptyCollection
	}

	values := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			values = append(values, distances.At(i, j))
		}
	}
	mean := stat.Mean(values, nil)

	return domain.DBSCANParams{
		Eps:        math.Round(mean*epsFactor*100) / 100,
		MinSamples: percent * float64(n) / 100,
	}, nil
}
