package driven

import (
	"context"

	"github.com/custodia-labs/thekla/internal/core/domain"
)

// ClusterExporter writes cluster assignments in an evaluation format.
type ClusterExporter interface {
	// Export appends one line per assigned document to path and resets the
	// exported documents to domain.Unassigned. Returns the number written.
	Export(ctx context.Context, path string, pos domain.POS, docs []*domain.Document) (int, error)
}
