package domain

// ChartFormat selects a chart renderer.
type ChartFormat string

// Available chart formats.
const (
	ChartSVG      ChartFormat = "svg"
	ChartTerminal ChartFormat = "terminal"
	ChartNone     ChartFormat = "none"
)

// Chart is the data handed to a renderer: one series per cluster, one axis
// per topic.
type Chart struct {
	// Title names the clustering; file renderers derive the file name from it.
	Title string

	// AxisLabels describe each topic, usually its top words joined by newlines.
	AxisLabels []string

	// Series maps cluster name to its centroid.
	Series ClusterCentroids

	// OutputDir is where file renderers write.
	OutputDir string
}
