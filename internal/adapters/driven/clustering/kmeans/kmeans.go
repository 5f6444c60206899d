// Package kmeans implements centroid-based partitioning. The rows of the
// distance matrix are the feature vectors, so documents group by their
// distance profile to the whole collection.
package kmeans

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
)

// Ensure Clusterer implements the interface.
var _ driven.Clusterer = (*Clusterer)(nil)

// Parameter names.
const (
	ParamNClusters   = "n_clusters"
	ParamMaxIter     = "max_iter"
	ParamNInit       = "n_init"
	ParamRandomState = "random_state"
	ParamTol         = "tol"
)

// Defaults when a parameter is absent.
const (
	DefaultNClusters = 8
	DefaultMaxIter   = 300
	DefaultNInit     = 10
	DefaultTol       = 1e-4
)

// Clusterer runs k-means with k-means++ seeding.
type Clusterer struct{}

// New creates a k-means clusterer.
func New() *Clusterer {
	return &Clusterer{}
}

// Algorithm returns domain.AlgorithmKMeans.
func (c *Clusterer) Algorithm() domain.Algorithm {
	return domain.AlgorithmKMeans
}

// Options are the validated k-means parameters.
type Options struct {
	K       int
	MaxIter int
	NInit   int
	Seed    uint64
	Tol     float64
}

// ParseOptions validates params and fills defaults.
func ParseOptions(params domain.ClusterParams) (Options, error) {
	if unknown := params.Unknown(ParamNClusters, ParamMaxIter, ParamNInit, ParamRandomState, ParamTol); len(unknown) > 0 {
		return Options{}, fmt.Errorf("%w: kmeans does not accept %v", domain.ErrInvalidParams, unknown)
	}

	var opts Options
	var err error
	if opts.K, err = params.Int(ParamNClusters, DefaultNClusters); err != nil {
		return Options{}, err
	}
	if opts.MaxIter, err = params.Int(ParamMaxIter, DefaultMaxIter); err != nil {
		return Options{}, err
	}
	if opts.NInit, err = params.Int(ParamNInit, DefaultNInit); err != nil {
		return Options{}, err
	}
	seed, err := params.Int(ParamRandomState, 0)
	if err != nil {
		return Options{}, err
	}
	if opts.Tol, err = params.Float(ParamTol, DefaultTol); err != nil {
		return Options{}, err
	}

	switch {
	case opts.K < 1:
		return Options{}, fmt.Errorf("%w: n_clusters must be >= 1, got %d", domain.ErrInvalidParams, opts.K)
	case opts.MaxIter < 1:
		return Options{}, fmt.Errorf("%w: max_iter must be >= 1, got %d", domain.ErrInvalidParams, opts.MaxIter)
	case opts.NInit < 1:
		return Options{}, fmt.Errorf("%w: n_init must be >= 1, got %d", domain.ErrInvalidParams, opts.NInit)
	case seed < 0:
		return Options{}, fmt.Errorf("%w: random_state must be >= 0, got %d", domain.ErrInvalidParams, seed)
	case opts.Tol < 0:
		return Options{}, fmt.Errorf("%w: tol must be >= 0, got %g", domain.ErrInvalidParams, opts.Tol)
	}
	opts.Seed = uint64(seed)
	return opts, nil
}

// Fit partitions the rows into at most n_clusters groups. It never emits
// the noise label.
func (c *Clusterer) Fit(ctx context.Context, distances *mat.SymDense, params domain.ClusterParams) ([]int, error) {
	opts, err := ParseOptions(params)
	if err != nil {
		return nil, err
	}

	n := distances.SymmetricDim()
	points := make([][]float64, n)
	for i := range points {
		points[i] = mat.Row(nil, i, distances)
	}
	return Labels(ctx, points, opts)
}

// Labels runs NInit seeded restarts of Lloyd's algorithm and keeps the
// labeling with the lowest inertia. k is capped at the number of points.
func Labels(ctx context.Context, points [][]float64, opts Options) ([]int, error) {
	n := len(points)
	if n == 0 {
		return nil, nil
	}
	k := min(opts.K, n)
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	var best []int
	bestInertia := math.Inf(1)
	for run := 0; run < opts.NInit; run++ {
		labels, inertia, err := lloyd(ctx, points, seedPlusPlus(points, k, rng), opts)
		if err != nil {
			return nil, err
		}
		if inertia < bestInertia {
			best, bestInertia = labels, inertia
		}
	}
	return best, nil
}

// seedPlusPlus picks k initial centers, each next one with probability
// proportional to its squared distance from the nearest chosen center.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(points[rng.IntN(len(points))]))

	d2 := make([]float64, len(points))
	for len(centers) < k {
		var total float64
		for i, p := range points {
			d := nearestSq(p, centers)
			d2[i] = d
			total += d
		}

		next := rng.IntN(len(points))
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range d2 {
				target -= d
				if target <= 0 && d > 0 {
					next = i
					break
				}
			}
		}
		centers = append(centers, clone(points[next]))
	}
	return centers
}

// lloyd alternates assignment and update until assignments settle, the
// centers move less than Tol, or MaxIter is reached.
func lloyd(ctx context.Context, points, centers [][]float64, opts Options) ([]int, float64, error) {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}
	dim := len(points[0])

	for iter := 0; iter < opts.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		changed := false
		for i, p := range points {
			best := closest(p, centers)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([][]float64, len(centers))
		counts := make([]int, len(centers))
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}

		var shift float64
		for c := range centers {
			// An empty cluster keeps its previous center.
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			shift = math.Max(shift, floats.Distance(centers[c], sums[c], 2))
			centers[c] = sums[c]
		}
		if shift <= opts.Tol {
			for i, p := range points {
				labels[i] = closest(p, centers)
			}
			break
		}
	}

	var inertia float64
	for i, p := range points {
		d := floats.Distance(p, centers[labels[i]], 2)
		inertia += d * d
	}
	return labels, inertia, nil
}

func closest(p []float64, centers [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, center := range centers {
		if d := floats.Distance(p, center, 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func nearestSq(p []float64, centers [][]float64) float64 {
	best := math.Inf(1)
	for _, center := range centers {
		d := floats.Distance(p, center, 2)
		best = math.Min(best, d*d)
	}
	return best
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
