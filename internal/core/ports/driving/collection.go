package driving

import (
	"context"

	"github.com/custodia-labs/thekla/internal/core/domain"
)

// CollectionService represents documents with a topic model.
type CollectionService interface {
	// FromDir builds a collection from every .txt file in dir.
	FromDir(ctx context.Context, tm *domain.TopicModel, dir string, flavor domain.CentroidFlavor) (*domain.Collection, error)

	// FromFiles builds a collection from the given .txt files.
	FromFiles(ctx context.Context, tm *domain.TopicModel, paths []string, flavor domain.CentroidFlavor) (*domain.Collection, error)
}
