package driving

import (
	"context"

	"github.com/custodia-labs/thekla/internal/core/domain"
)

// RunService executes clustering runs described by config files.
type RunService interface {
	// Run executes one config: load, represent, cluster, export, visualize.
	Run(ctx context.Context, configPath string) (*RunReport, error)

	// RunAll executes every config independently. A failing config does not
	// stop the others; failures are joined into the returned error.
	RunAll(ctx context.Context, configPaths []string) ([]*RunReport, error)
}

// RunReport summarises one completed run.
type RunReport struct {
	// ID uniquely identifies the run in logs.
	ID string

	// ConfigPath is the config that was executed.
	ConfigPath string

	// Title names the clustering.
	Title string

	// Documents is the number of documents with a defined centroid.
	Documents int

	// Clustering is the named cluster result.
	Clustering *domain.Clustering

	// Centroids maps cluster name to its mean centroid.
	Centroids domain.ClusterCentroids

	// DocDir is the document directory the run read, if any.
	DocDir string

	// Exported is the number of semeval lines written to SemevalFile.
	Exported    int
	SemevalFile string

	// ChartPath is the rendered chart file, if any.
	ChartPath string
}
