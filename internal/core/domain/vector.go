package domain

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// MinMaxNormalize rescales v linearly into [0, 1] using its own minimum and
// maximum. A constant vector has no range to rescale: the result is all zero
// and the error wraps ErrDegenerateVector so callers can decide what it means.
func MinMaxNormalize(v []float64) ([]float64, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrInvalidInput)
	}

	lo, hi := floats.Min(v), floats.Max(v)
	out := make([]float64, len(v))
	if hi == lo {
		return out, fmt.Errorf("%w: all values equal %g", ErrDegenerateVector, lo)
	}

	span := hi - lo
	for i, x := range v {
		out[i] = (x - lo) / span
	}
	return out, nil
}

// Mean returns the element-wise arithmetic mean of equally sized vectors.
func Mean(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	sum := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		floats.Add(sum, v)
	}
	floats.Scale(1/float64(len(vectors)), sum)
	return sum
}
