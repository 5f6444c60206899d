package driven

import (
	"context"

	"github.com/custodia-labs/thekla/internal/core/domain"
)

// ChartRenderer draws cluster centroids.
type ChartRenderer interface {
	// Format returns the chart format produced.
	Format() domain.ChartFormat

	// Render draws the chart and returns the written file path, if any.
	Render(ctx context.Context, chart domain.Chart) (string, error)
}
