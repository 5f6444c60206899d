package domain

// Default run settings.
const (
	DefaultInferPercent = 1.0
	DefaultNWords       = 5
)

// RunConfig holds the settings of one clustering run, read from a config file.
// Paths are absolute once loaded.
type RunConfig struct {
	// Path is the config file the settings came from.
	Path string

	// VocabFile and BetaFile locate the topic model.
	VocabFile string
	BetaFile  string

	// DocDir is enumerated for .txt documents when no ClusterFile is given.
	DocDir string

	// Flavor selects the centroid computation.
	Flavor CentroidFlavor

	// Title names the clustering; defaults to the config file name.
	Title string

	// Algorithm is the clustering algorithm to run.
	Algorithm Algorithm

	// Options are explicit algorithm parameters. Nil means infer (DBSCAN only).
	Options ClusterParams

	// InferPercent is X in min_samples = X% of N during DBSCAN inference.
	InferPercent float64

	// ClusterFile is an optional manifest that replaces clustering.
	ClusterFile string

	// ResultDir, NWords and ChartFormat configure the visualization.
	ResultDir   string
	NWords      int
	ChartFormat ChartFormat

	// SemevalFile enables semeval export when non-empty. SemevalPOS is the raw tag.
	SemevalFile string
	SemevalPOS  string
}

// InferOptions reports whether DBSCAN parameters should be inferred.
func (c *RunConfig) InferOptions() bool {
	return c.Algorithm == AlgorithmDBSCAN && c.Options == nil
}
