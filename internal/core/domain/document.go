package domain

import (
	"fmt"
	"slices"
)

// Unassigned is the cluster label of a document outside every cluster.
// It is also the raw label clustering algorithms use for noise.
const Unassigned = -1

// CentroidFlavor selects how word topic vectors aggregate into a centroid.
type CentroidFlavor string

// Available centroid flavors.
const (
	// FlavorAvg averages the raw word vectors, then min-max normalises the result.
	FlavorAvg CentroidFlavor = "avg"

	// FlavorExp min-max normalises every word vector first, then averages.
	FlavorExp CentroidFlavor = "exp"
)

// ParseCentroidFlavor validates a flavor name. An empty name selects FlavorAvg.
func ParseCentroidFlavor(s string) (CentroidFlavor, error) {
	switch f := CentroidFlavor(s); f {
	case "":
		return FlavorAvg, nil
	case FlavorAvg, FlavorExp:
		return f, nil
	default:
		return "", fmt.Errorf("%w: centroid computation %q (want avg or exp)", ErrInvalidInput, s)
	}
}

// String returns the string representation.
func (f CentroidFlavor) String() string {
	return string(f)
}

// Centroid is either a length-T topic vector or undefined. A document without
// any known word has an undefined centroid; it is not the zero vector.
type Centroid struct {
	values []float64
}

// DefinedCentroid wraps a vector as a defined centroid.
func DefinedCentroid(values []float64) Centroid {
	return Centroid{values: slices.Clone(values)}
}

// UndefinedCentroid returns the undefined centroid.
func UndefinedCentroid() Centroid {
	return Centroid{}
}

// Defined reports whether the centroid holds a vector.
func (c Centroid) Defined() bool {
	return c.values != nil
}

// Vector returns the centroid values and whether they are defined.
func (c Centroid) Vector() ([]float64, bool) {
	return c.values, c.values != nil
}

// Document is a text file represented by its topic centroid.
type Document struct {
	// ID is the stable identity of the document, usually its absolute path.
	ID string

	// Centroid aggregates the topic vectors of the document's known words.
	Centroid Centroid

	// ClusterLabel is the 1-based cluster number, or Unassigned.
	ClusterLabel int
}

// NewDocument creates an unassigned document.
func NewDocument(id string, centroid Centroid) *Document {
	return &Document{
		ID:           id,
		Centroid:     centroid,
		ClusterLabel: Unassigned,
	}
}

// Assigned reports whether the document belongs to a cluster.
func (d *Document) Assigned() bool {
	return d.ClusterLabel != Unassigned
}

// String returns a short description.
func (d *Document) String() string {
	return fmt.Sprintf("Document %q", d.ID)
}
