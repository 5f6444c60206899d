package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/thekla/internal/core/domain"
)

// CentroidKey identifies a document centroid computed under one topic model
// and flavor. A changed file produces a different key.
type CentroidKey struct {
	Path    string
	Size    int64
	ModTime time.Time
	Model   string
	Flavor  domain.CentroidFlavor
}

// CentroidCache persists document centroids between runs.
type CentroidCache interface {
	// Get returns the cached centroid, or false on a miss.
	Get(ctx context.Context, key CentroidKey) (domain.Centroid, bool, error)

	// Put stores a defined centroid.
	Put(ctx context.Context, key CentroidKey, centroid domain.Centroid) error

	// Close releases resources.
	Close() error
}
