// Package tuistyles holds the colours and lipgloss styles shared by the TUI
// scenes and components. It has no dependencies on the scenes so both can
// import it.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lonelyless/decisionaid/internal/domain"
)

// Colors
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#1F4E79", Dark: "#7AB8F5"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#5B6C7D", Dark: "#A9B7C6"}
	ColorAccent    = lipgloss.AdaptiveColor{Light: "#B35C00", Dark: "#FFB454"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#1E7B34", Dark: "#6BCB77"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#9A7400", Dark: "#F2C94C"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#FF6B6B"}
	ColorInfo      = lipgloss.AdaptiveColor{Light: "#00758F", Dark: "#56C8D8"}

	ColorForeground = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#E6E6E6"}
	ColorMuted      = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#8A8A8A"}
	ColorBorder     = lipgloss.AdaptiveColor{Light: "#C8C8C8", Dark: "#4A4A4A"}
)

// Base styles
var (
	AppStyle = lipgloss.NewStyle().Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(0)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary).
			MarginTop(1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	ActiveBorderStyle = BorderStyle.BorderForeground(ColorPrimary)

	SelectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	UnselectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorForeground)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	MetricPositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	MetricNegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)

	ParameterLabelStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary)

	ParameterValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	SliderTrackStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	SliderThumbStyle = lipgloss.NewStyle().Foreground(ColorPrimary)

	HelpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Width(12)

	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorForeground)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorDanger)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Italic(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSecondary)

	TableCellStyle = lipgloss.NewStyle().Foreground(ColorForeground)

	TableHighlightStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)
)

// MetricTrendStyle colours a change indicator.
func MetricTrendStyle(isPositive bool) lipgloss.Style {
	if isPositive {
		return MetricPositiveStyle
	}
	return MetricNegativeStyle
}

// TrendIndicator returns the arrow for a change direction.
func TrendIndicator(isPositive bool) string {
	if isPositive {
		return "▲"
	}
	return "▼"
}

// StatusColor maps a value-for-money status to its colour.
func StatusColor(s domain.ValueStatus) lipgloss.TerminalColor {
	switch s {
	case domain.StatusStrong:
		return ColorSuccess
	case domain.StatusBorderline:
		return ColorWarning
	case domain.StatusPoor:
		return ColorDanger
	}
	return ColorMuted
}

// StatusStyle renders a status in its colour.
func StatusStyle(s domain.ValueStatus) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(StatusColor(s))
}
