package driven

import (
	"context"

	"github.com/custodia-labs/thekla/internal/core/domain"
)

// TopicModelLoader reads a pretrained topic model.
type TopicModelLoader interface {
	// Load reads the vocabulary (one word per line, line order = id) and the
	// beta matrix (one whitespace-separated row per topic).
	// Fails with domain.ErrTopicModelUnreadable or domain.ErrDimensionMismatch.
	Load(ctx context.Context, vocabPath, betaPath string) (*domain.TopicModel, error)
}
