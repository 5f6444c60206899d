// Package memory provides in-memory implementations of driven port interfaces.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
)

// Ensure CentroidStore implements the interface.
var _ driven.CentroidCache = (*CentroidStore)(nil)

// CentroidStore is an in-memory implementation of driven.CentroidCache.
// It lives as long as the process, which lets repeated runs of a watch
// session skip unchanged documents.
type CentroidStore struct {
	mu        sync.RWMutex
	centroids map[driven.CentroidKey][]float64
}

// NewCentroidStore creates a new in-memory centroid store.
func NewCentroidStore() *CentroidStore {
	return &CentroidStore{
		centroids: make(map[driven.CentroidKey][]float64),
	}
}

// Get returns the centroid stored under key.
func (s *CentroidStore) Get(_ context.Context, key driven.CentroidKey) (domain.Centroid, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values, ok := s.centroids[normalize(key)]
	if !ok {
		return domain.UndefinedCentroid(), false, nil
	}
	return domain.DefinedCentroid(values), true, nil
}

// Put stores a copy of a defined centroid.
func (s *CentroidStore) Put(_ context.Context, key driven.CentroidKey, centroid domain.Centroid) error {
	values, ok := centroid.Vector()
	if !ok {
		return fmt.Errorf("%w: cannot cache an undefined centroid for %s", domain.ErrInvalidInput, key.Path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.centroids[normalize(key)] = slices.Clone(values)
	return nil
}

// Len returns the number of cached centroids.
func (s *CentroidStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.centroids)
}

// Close drops all entries.
func (s *CentroidStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.centroids)
	return nil
}

// normalize strips the monotonic clock reading so equal instants compare
// equal as map keys.
func normalize(key driven.CentroidKey) driven.CentroidKey {
	key.ModTime = key.ModTime.Round(0)
	return key
}
