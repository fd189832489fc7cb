package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lonelyless/decisionaid/internal/tui/tuistyles"
)

// Bar is one labelled value in a BarChart
type Bar struct {
	Label string
	Value float64
	Text  string // shown after the bar; defaults to the value with two decimals
	Color lipgloss.TerminalColor
}

// BarChart draws horizontal bars scaled to the largest value, with an optional
// marker line, e.g. the break-even ratio of 1.0
type BarChart struct {
	Title  string
	Bars   []Bar
	Width  int
	Marker float64 // drawn when positive
}

// NewBarChart creates a new bar chart
func NewBarChart(title string) *BarChart {
	return &BarChart{
		Title: title,
		Width: 40,
	}
}

// AddBar appends a bar
func (c *BarChart) AddBar(b Bar) *BarChart {
	c.Bars = append(c.Bars, b)
	return c
}

// WithWidth sets the maximum bar width
func (c *BarChart) WithWidth(width int) *BarChart {
	c.Width = width
	return c
}

// WithMarker sets the value of the marker line
func (c *BarChart) WithMarker(v float64) *BarChart {
	c.Marker = v
	return c
}

func (c *BarChart) scale() float64 {
	maxValue := c.Marker
	for _, b := range c.Bars {
		maxValue = math.Max(maxValue, b.Value)
	}
	if maxValue <= 0 {
		return 0
	}
	return float64(c.Width) / maxValue
}

// BarLength returns the number of cells drawn for a value
func (c *BarChart) BarLength(v float64) int {
	if v <= 0 {
		return 0
	}
	n := int(math.Round(v * c.scale()))
	if n > c.Width {
		n = c.Width
	}
	return n
}

// Render returns the styled chart
func (c *BarChart) Render() string {
	if len(c.Bars) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	labelWidth := 0
	for _, b := range c.Bars {
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(tuistyles.SectionStyle.Render(c.Title))
		content.WriteString("\n")
	}

	markerAt := -1
	if c.Marker > 0 {
		markerAt = c.BarLength(c.Marker)
	}
	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorSecondary).Width(labelWidth + 1)
	for _, b := range c.Bars {
		color := b.Color
		if color == nil {
			color = tuistyles.ColorPrimary
		}
		n := c.BarLength(b.Value)
		cells := []rune(strings.Repeat("█", n) + strings.Repeat(" ", c.Width-n))
		if markerAt >= 0 && markerAt < len(cells) && markerAt >= n {
			cells[markerAt] = '┊'
		}
		text := b.Text
		if text == "" {
			text = fmt.Sprintf("%.2f", b.Value)
		}
		content.WriteString(labelStyle.Render(b.Label))
		content.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(cells)))
		content.WriteString(" ")
		content.WriteString(text)
		content.WriteString("\n")
	}
	if markerAt >= 0 {
		legend := fmt.Sprintf("┊ marks %.1f", c.Marker)
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(legend))
	}

	return strings.TrimRight(content.String(), "\n")
}
