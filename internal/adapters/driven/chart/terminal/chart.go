// Package terminal renders cluster centroids as horizontal bar charts on a
// terminal, one block per cluster and one bar per topic.
package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.ChartRenderer = (*Renderer)(nil)

const (
	defaultWidth = 80
	minBarWidth  = 10
	valueWidth   = 6
	barRune      = "█"
)

// Renderer writes bar charts to an output stream.
type Renderer struct {
	out    io.Writer
	width  int
	styles styles
}

// New creates a renderer for out. The width follows the terminal when out
// is one, otherwise it is 80 columns.
func New(out io.Writer) *Renderer {
	width := defaultWidth
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	return NewWithWidth(out, width, DefaultTheme())
}

// NewWithWidth creates a renderer with a fixed width and theme.
func NewWithWidth(out io.Writer, width int, theme *Theme) *Renderer {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Renderer{out: out, width: width, styles: newStyles(theme)}
}

// Format returns domain.ChartTerminal.
func (r *Renderer) Format() domain.ChartFormat {
	return domain.ChartTerminal
}

// Render prints the chart. Nothing is written to disk, so the path is empty.
func (r *Renderer) Render(ctx context.Context, chart domain.Chart) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	names := chart.Series.Names()
	if len(names) == 0 {
		return "", fmt.Errorf("%w: nothing to draw", domain.ErrNoClusters)
	}

	labels := make([]string, len(chart.Series[names[0]]))
	labelWidth := 0
	for i := range labels {
		labels[i] = fmt.Sprintf("topic %d", i)
		if i < len(chart.AxisLabels) {
			labels[i] = strings.ReplaceAll(chart.AxisLabels[i], "\n", " ")
		}
		labelWidth = max(labelWidth, lipgloss.Width(labels[i]))
	}

	barWidth := r.width - labelWidth - valueWidth - 2
	if barWidth < minBarWidth {
		barWidth = minBarWidth
		labelWidth = max(1, r.width-barWidth-valueWidth-2)
	}
	labelStyle := r.styles.muted.Width(labelWidth).MaxWidth(labelWidth)

	var b strings.Builder
	b.WriteString(r.styles.title.Render(chart.Title))
	b.WriteString("\n")

	for i, name := range names {
		values := chart.Series[name]
		if len(values) != len(labels) {
			return "", fmt.Errorf("%w: series %q has %d values, want %d",
				domain.ErrDimensionMismatch, name, len(values), len(labels))
		}

		b.WriteString("\n")
		b.WriteString(r.styles.header(i).Render(name))
		b.WriteString("\n")
		for j, v := range values {
			bar := strings.Repeat(barRune, barLength(v, barWidth))
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
				labelStyle.Render(labels[j]), " ",
				r.styles.bar(i).Render(bar), " ",
				r.styles.muted.Render(fmt.Sprintf("%.3f", v)),
			))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(r.out, b.String())
	return "", err
}

// barLength maps a normalised value onto [0, width] cells.
func barLength(v float64, width int) int {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return width
	default:
		return int(v*float64(width) + 0.5)
	}
}
