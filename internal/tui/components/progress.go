package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lonelyless/decisionaid/internal/tui/tuistyles"
)

// Gauge displays a fraction between 0 and 1, such as expected uptake
type Gauge struct {
	Label    string
	Fraction float64
	Width    int
	Color    lipgloss.TerminalColor
}

// NewGauge creates a gauge; the fraction is clamped to [0, 1]
func NewGauge(label string, fraction float64) *Gauge {
	return &Gauge{
		Label:    label,
		Fraction: math.Max(0, math.Min(1, fraction)),
		Width:    40,
		Color:    tuistyles.ColorSuccess,
	}
}

// WithWidth sets the bar width
func (g *Gauge) WithWidth(width int) *Gauge {
	g.Width = width
	return g
}

// WithColor sets the colour of the filled part
func (g *Gauge) WithColor(c lipgloss.TerminalColor) *Gauge {
	g.Color = c
	return g
}

// Filled returns the number of filled cells
func (g *Gauge) Filled() int {
	filled := int(math.Round(float64(g.Width) * g.Fraction))
	if filled > g.Width {
		filled = g.Width
	}
	return filled
}

// Render returns the styled gauge
func (g *Gauge) Render() string {
	var content strings.Builder

	if g.Label != "" {
		labelStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorForeground).
			Bold(true)
		content.WriteString(labelStyle.Render(g.Label))
		content.WriteString(" ")
	}

	filled := g.Filled()
	barStyle := lipgloss.NewStyle().Foreground(g.Color)
	emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)

	content.WriteString("[")
	content.WriteString(barStyle.Render(strings.Repeat("█", filled)))
	content.WriteString(emptyStyle.Render(strings.Repeat("░", g.Width-filled)))
	content.WriteString("] ")

	percentStyle := lipgloss.NewStyle().
		Foreground(tuistyles.ColorPrimary).
		Bold(true)
	content.WriteString(percentStyle.Render(fmt.Sprintf("%.1f%%", g.Fraction*100)))

	return content.String()
}
