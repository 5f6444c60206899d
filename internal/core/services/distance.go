package services

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DistanceMatrix returns the symmetric N×N matrix of Euclidean distances
// between the rows of m.
func DistanceMatrix(m *mat.Dense) *mat.SymDense {
	n, _ := m.Dims()
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		a := m.RawRowView(i)
		for j := i + 1; j < n; j++ {
			d.SetSym(i, j, floats.Distance(a, m.RawRowView(j), 2))
		}
	}
	return d
}
