package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestDistanceMatrix(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		0, 0,
		3, 4,
		0, 1,
	})

	d := DistanceMatrix(m)

	assert.Equal(t, 3, d.SymmetricDim())
	for i := 0; i < 3; i++ {
		assert.Zero(t, d.At(i, i))
	}
	assert.InDelta(t, 5, d.At(0, 1), 1e-12)
	assert.InDelta(t, 1, d.At(0, 2), 1e-12)
	assert.InDelta(t, math.Sqrt(18), d.At(1, 2), 1e-12)
	assert.Equal(t, d.At(1, 2), d.At(2, 1))
}

func TestDistanceMatrix_SingleRow(t *testing.T) {
	d := DistanceMatrix(mat.NewDense(1, 3, []float64{1, 2, 3}))

	assert.Equal(t, 1, d.SymmetricDim())
	assert.Zero(t, d.At(0, 0))
}
