// Package svg renders cluster centroids as an SVG radar chart: one spoke
// per topic, one filled polygon per cluster.
package svg

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.ChartRenderer = (*Renderer)(nil)

// Chart geometry, in SVG user units.
const (
	size       = 1100
	center     = size / 2
	radius     = 380
	titleY     = 60
	labelGap   = 40
	lineHeight = 18
	fillAlpha  = 0.10
)

// Series colors are cycled in cluster name order.
var palette = []string{"#1f3fbf", "#d62728", "#2ca02c", "#bf3fbf", "#d4b000"}

// Renderer writes {OutputDir}/{Title}.svg.
type Renderer struct{}

// New creates an SVG radar chart renderer.
func New() *Renderer {
	return &Renderer{}
}

// Format returns domain.ChartSVG.
func (r *Renderer) Format() domain.ChartFormat {
	return domain.ChartSVG
}

// Render writes the chart file, creating OutputDir if needed.
func (r *Renderer) Render(ctx context.Context, chart domain.Chart) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if chart.OutputDir == "" {
		return "", fmt.Errorf("%w: svg chart needs an output directory", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(chart.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(chart.OutputDir, FileName(chart.Title))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating chart: %w", err)
	}
	defer f.Close()

	if err := Write(f, chart); err != nil {
		return "", err
	}
	return path, f.Close()
}

// FileName turns a chart title into a file name inside the output
// directory. Path separators become underscores.
func FileName(title string) string {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(title)
	if strings.Trim(name, ". ") == "" {
		name = "chart"
	}
	return name + ".svg"
}

// Write encodes the radar chart to w.
func Write(w io.Writer, chart domain.Chart) error {
	names := chart.Series.Names()
	if len(names) == 0 {
		return fmt.Errorf("%w: nothing to draw", domain.ErrNoClusters)
	}
	axes := len(chart.Series[names[0]])
	for _, name := range names {
		if len(chart.Series[name]) != axes {
			return fmt.Errorf("%w: series %q has %d values, want %d",
				domain.ErrDimensionMismatch, name, len(chart.Series[name]), axes)
		}
	}
	if axes == 0 {
		return fmt.Errorf("%w: series have no values", domain.ErrInvalidInput)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`+"\n",
		size, size, size, size)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="white"/>`+"\n")
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="26" font-weight="bold" text-anchor="middle">%s</text>`+"\n",
		center, titleY, escape(chart.Title))

	rmax := maxValue(chart.Series)
	writeFrame(&b, axes, chart.AxisLabels)
	for i, name := range names {
		writeSeries(&b, chart.Series[name], rmax, palette[i%len(palette)])
	}
	writeLegend(&b, names)

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// angle places axis i of n, counter-clockwise with the first axis at the top.
func angle(i, n int) float64 {
	return math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
}

func point(i, n int, r float64) (float64, float64) {
	a := angle(i, n)
	// SVG y grows downwards.
	return center + r*math.Cos(a), center - r*math.Sin(a)
}

func polygon(values []float64, scale float64) string {
	pts := make([]string, len(values))
	for i, v := range values {
		x, y := point(i, len(values), v*scale)
		pts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
	}
	return strings.Join(pts, " ")
}

func writeFrame(b *strings.Builder, axes int, labels []string) {
	ring := make([]float64, axes)
	for _, frac := range []float64{0.2, 0.4, 0.6, 0.8, 1} {
		for i := range ring {
			ring[i] = frac
		}
		fmt.Fprintf(b, `<polygon points="%s" fill="none" stroke="#bbbbbb" stroke-width="1"/>`+"\n", polygon(ring, radius))
	}

	for i := range axes {
		x, y := point(i, axes, radius)
		fmt.Fprintf(b, `<line x1="%d" y1="%d" x2="%.2f" y2="%.2f" stroke="#bbbbbb" stroke-width="1"/>`+"\n",
			center, center, x, y)

		if i >= len(labels) {
			continue
		}
		lx, ly := point(i, axes, radius+labelGap)
		lines := strings.Split(labels[i], "\n")
		// Center the label block vertically on its anchor.
		top := ly - float64(len(lines)-1)*lineHeight/2
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" font-size="14" text-anchor="%s">`, lx, top, anchor(lx))
		for j, line := range lines {
			dy := 0
			if j > 0 {
				dy = lineHeight
			}
			fmt.Fprintf(b, `<tspan x="%.2f" dy="%d">%s</tspan>`, lx, dy, escape(line))
		}
		b.WriteString("</text>\n")
	}
}

func writeSeries(b *strings.Builder, values []float64, rmax float64, color string) {
	pts := polygon(values, radius/rmax)
	fmt.Fprintf(b, `<polygon points="%s" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="2"/>`+"\n",
		pts, color, fillAlpha, color)
}

func writeLegend(b *strings.Builder, names []string) {
	x, y := size-260, titleY+30
	for i, name := range names {
		color := palette[i%len(palette)]
		fmt.Fprintf(b, `<rect x="%d" y="%d" width="14" height="14" fill="%s"/>`, x, y+i*20, color)
		fmt.Fprintf(b, `<text x="%d" y="%d" font-size="14">%s</text>`+"\n", x+20, y+i*20+12, escape(name))
	}
}

func anchor(x float64) string {
	switch {
	case x < center-1:
		return "end"
	case x > center+1:
		return "start"
	default:
		return "middle"
	}
}

// maxValue is the outer ring value: 1 for normalised centroids, larger
// when a series exceeds it.
func maxValue(series domain.ClusterCentroids) float64 {
	rmax := 1.0
	for _, values := range series {
		for _, v := range values {
			rmax = math.Max(rmax, v)
		}
	}
	return rmax
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
