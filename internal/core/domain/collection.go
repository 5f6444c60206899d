package domain

import (
	"fmt"
	"maps"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Collection maps document identity to Document. Every document it holds
// has a defined centroid of the collection's dimension.
type Collection struct {
	numTopics int
	flavor    CentroidFlavor
	docs      map[string]*Document
}

// NewCollection creates an empty collection for T-dimensional centroids.
func NewCollection(numTopics int, flavor CentroidFlavor) *Collection {
	return &Collection{
		numTopics: numTopics,
		flavor:    flavor,
		docs:      make(map[string]*Document),
	}
}

// Add inserts doc. Documents with an undefined centroid, or a centroid of
// the wrong length, are rejected.
func (c *Collection) Add(doc *Document) error {
	vec, ok := doc.Centroid.Vector()
	if !ok {
		return fmt.Errorf("%w: %s has no centroid", ErrInvalidInput, doc.ID)
	}
	if len(vec) != c.numTopics {
		return fmt.Errorf("%w: %s centroid has %d values, want %d",
			ErrDimensionMismatch, doc.ID, len(vec), c.numTopics)
	}
	c.docs[doc.ID] = doc
	return nil
}

// Get returns the document with the given identity.
func (c *Collection) Get(id string) (*Document, bool) {
	doc, ok := c.docs[id]
	return doc, ok
}

// Len returns the number of documents.
func (c *Collection) Len() int {
	return len(c.docs)
}

// NumTopics returns the centroid dimension.
func (c *Collection) NumTopics() int {
	return c.numTopics
}

// Flavor returns the centroid flavor the documents were built with.
func (c *Collection) Flavor() CentroidFlavor {
	return c.flavor
}

// IDs returns all identities in ascending order.
func (c *Collection) IDs() []string {
	return slices.Sorted(maps.Keys(c.docs))
}

// CentroidMatrix stacks every centroid as one row of an N×T matrix.
// ids[i] is the identity of the document at row i.
func (c *Collection) CentroidMatrix() (*mat.Dense, []string, error) {
	if len(c.docs) == 0 {
		return nil, nil, ErrEmptyCollection
	}

	ids := c.IDs()
	m := mat.NewDense(len(ids), c.numTopics, nil)
	for i, id := range ids {
		vec, _ := c.docs[id].Centroid.Vector()
		m.SetRow(i, vec)
	}
	return m, ids, nil
}

// ClusterCentroid returns the mean centroid of the identified documents.
// Identities not in the collection are skipped and returned as missing.
func (c *Collection) ClusterCentroid(ids []string) (centroid []float64, missing []string, err error) {
	vectors := make([][]float64, 0, len(ids))
	for _, id := range ids {
		doc, ok := c.docs[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		vec, _ := doc.Centroid.Vector()
		vectors = append(vectors, vec)
	}
	if len(vectors) == 0 {
		return nil, missing, fmt.Errorf("%w: none of %d cluster members are in the collection",
			ErrNotFound, len(ids))
	}
	return Mean(vectors), missing, nil
}

// ResetAssignments marks every document as unassigned.
func (c *Collection) ResetAssignments() {
	for _, doc := range c.docs {
		doc.ClusterLabel = Unassigned
	}
}
