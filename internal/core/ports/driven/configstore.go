package driven

import "github.com/custodia-labs/thekla/internal/core/domain"

// ConfigLoader reads run configuration and cluster manifests.
// Implementations handle the file format (e.g., TOML) and type conversion.
type ConfigLoader interface {
	// LoadRunConfig reads one run config. Relative paths resolve against
	// the config file's directory.
	LoadRunConfig(path string) (*domain.RunConfig, error)

	// LoadManifest reads a cluster manifest mapping cluster names to
	// absolute document paths.
	LoadManifest(path string) (*domain.Clustering, error)
}
