package terminal

import "github.com/charmbracelet/lipgloss"

// Theme defines the colours of a terminal chart.
type Theme struct {
	// Title colours the chart heading.
	Title lipgloss.Color

	// Muted is for axis labels and values.
	Muted lipgloss.Color

	// Series are cycled across clusters in name order.
	Series []lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Title: lipgloss.Color("#7C3AED"), // Purple
		Muted: lipgloss.Color("#6C7086"), // Medium gray
		Series: []lipgloss.Color{
			lipgloss.Color("#06B6D4"), // Cyan
			lipgloss.Color("#F38BA8"), // Red
			lipgloss.Color("#A6E3A1"), // Green
			lipgloss.Color("#CBA6F7"), // Mauve
			lipgloss.Color("#F9E2AF"), // Yellow
		},
	}
}

type styles struct {
	title lipgloss.Style
	muted lipgloss.Style
	// series holds one bold header style per theme colour.
	series []lipgloss.Style
	bars   []lipgloss.Style
}

func newStyles(t *Theme) styles {
	s := styles{
		title: lipgloss.NewStyle().Foreground(t.Title).Bold(true),
		muted: lipgloss.NewStyle().Foreground(t.Muted),
	}
	for _, c := range t.Series {
		s.series = append(s.series, lipgloss.NewStyle().Foreground(c).Bold(true))
		s.bars = append(s.bars, lipgloss.NewStyle().Foreground(c))
	}
	return s
}

func (s styles) header(i int) lipgloss.Style {
	if len(s.series) == 0 {
		return lipgloss.NewStyle()
	}
	return s.series[i%len(s.series)]
}

func (s styles) bar(i int) lipgloss.Style {
	if len(s.bars) == 0 {
		return lipgloss.NewStyle()
	}
	return s.bars[i%len(s.bars)]
}
