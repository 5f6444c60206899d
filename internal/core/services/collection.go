package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
	"github.com/custodia-labs/thekla/internal/core/ports/driving"
	"github.com/custodia-labs/thekla/internal/logger"
)

// Ensure CollectionService implements the interface.
var _ driving.CollectionService = (*CollectionService)(nil)

// CollectionService represents documents as topic centroids.
type CollectionService struct {
	source driven.DocumentSource
	cache  driven.CentroidCache
	log    *logger.Logger
}

// NewCollectionService creates a collection service.
// The cache parameter is optional (can be nil).
func NewCollectionService(source driven.DocumentSource, cache driven.CentroidCache, log *logger.Logger) *CollectionService {
	return &CollectionService{
		source: source,
		cache:  cache,
		log:    log,
	}
}

// FromDir builds a collection from every .txt file in dir.
func (s *CollectionService) FromDir(
	ctx context.Context,
	tm *domain.TopicModel,
	dir string,
	flavor domain.CentroidFlavor,
) (*domain.Collection, error) {
	s.log.Info("representing documents from %q with topics..", dir)
	paths, err := s.source.ListDir(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return s.build(ctx, tm, paths, flavor)
}

// FromFiles builds a collection from the given .txt files.
func (s *CollectionService) FromFiles(
	ctx context.Context,
	tm *domain.TopicModel,
	paths []string,
	flavor domain.CentroidFlavor,
) (*domain.Collection, error) {
	s.log.Info("representing %d documents with topics..", len(paths))
	files, err := s.source.ListFiles(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return s.build(ctx, tm, files, flavor)
}

// build adds every document with a defined centroid. Unreadable and empty
// documents are logged and left out.
func (s *CollectionService) build(
	ctx context.Context,
	tm *domain.TopicModel,
	paths []string,
	flavor domain.CentroidFlavor,
) (*domain.Collection, error) {
	coll := domain.NewCollection(tm.NumTopics(), flavor)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		centroid, err := s.centroid(ctx, tm, path, flavor)
		switch {
		case errors.Is(err, domain.ErrNoKnownWords):
			s.log.Debug("Found no known word in file %s", path)
			s.log.Warn("document %q seems to be empty!", path)
			continue
		case errors.Is(err, domain.ErrDegenerateVector):
			s.log.Warn("document %q has a constant topic vector, skipping", path)
			continue
		case err != nil:
			s.log.Warn("skipping document %q: %v", path, err)
			continue
		}

		if err := coll.Add(domain.NewDocument(path, centroid)); err != nil {
			s.log.Warn("skipping document %q: %v", path, err)
		}
	}
	s.log.Info("done, %d of %d documents represented", coll.Len(), len(paths))
	return coll, nil
}

func (s *CollectionService) centroid(
	ctx context.Context,
	tm *domain.TopicModel,
	path string,
	flavor domain.CentroidFlavor,
) (domain.Centroid, error) {
	var key driven.CentroidKey
	if s.cache != nil {
		size, modTime, err := s.source.Stat(ctx, path)
		if err != nil {
			return domain.UndefinedCentroid(), err
		}
		key = driven.CentroidKey{Path: path, Size: size, ModTime: modTime, Model: tm.Fingerprint(), Flavor: flavor}

		cached, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.log.Warn("centroid cache lookup for %q failed: %v", path, err)
		case ok:
			return cached, nil
		}
	}

	words, err := s.source.ReadWords(ctx, path)
	if err != nil {
		return domain.UndefinedCentroid(), err
	}
	centroid, err := domain.ComputeCentroid(tm, words, flavor)
	if err != nil {
		return centroid, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, centroid); err != nil {
			s.log.Warn("centroid cache store for %q failed: %v", path, err)
		}
	}
	return centroid, nil
}
