package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/tui/tuistyles"
)

// ScenarioCard displays a compact overview of a saved scenario
type ScenarioCard struct {
	Name       string
	Subtitle   string   // segment and benefit measure
	Highlights []string // key figures
	Status     domain.ValueStatus
	IsSelected bool
	Width      int
}

// NewScenarioCard creates a new scenario card
func NewScenarioCard(name string) *ScenarioCard {
	return &ScenarioCard{
		Name:  name,
		Width: 50,
	}
}

// WithSubtitle sets the line under the name
func (s *ScenarioCard) WithSubtitle(subtitle string) *ScenarioCard {
	s.Subtitle = subtitle
	return s
}

// WithStatus sets the value-for-money status shown on the card
func (s *ScenarioCard) WithStatus(status domain.ValueStatus) *ScenarioCard {
	s.Status = status
	return s
}

// AddHighlight adds a key figure
func (s *ScenarioCard) AddHighlight(highlight string) *ScenarioCard {
	s.Highlights = append(s.Highlights, highlight)
	return s
}

// SetSelected marks the card as selected
func (s *ScenarioCard) SetSelected(selected bool) *ScenarioCard {
	s.IsSelected = selected
	return s
}

// WithWidth sets the card width
func (s *ScenarioCard) WithWidth(width int) *ScenarioCard {
	s.Width = width
	return s
}

// Render returns the styled scenario card
func (s *ScenarioCard) Render() string {
	var content strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorPrimary)
	content.WriteString(titleStyle.Render(s.Name))
	content.WriteString("\n")

	if s.Subtitle != "" {
		content.WriteString(tuistyles.SubtitleStyle.Render(s.Subtitle))
		content.WriteString("\n")
	}
	if s.Status != "" {
		content.WriteString(tuistyles.StatusStyle(s.Status).Render(string(s.Status)))
		content.WriteString("\n")
	}

	if len(s.Highlights) > 0 {
		content.WriteString("\n")
		highlightStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)
		for _, h := range s.Highlights {
			content.WriteString(highlightStyle.Render("• " + h))
			content.WriteString("\n")
		}
	}

	border := tuistyles.ColorBorder
	if s.IsSelected {
		border = tuistyles.ColorPrimary
	}
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 2).
		Width(s.Width)

	return cardStyle.Render(strings.TrimRight(content.String(), "\n"))
}

// RenderCompact returns a compact single-line version
func (s *ScenarioCard) RenderCompact() string {
	nameStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorPrimary)
	parts := []string{nameStyle.Render(s.Name)}

	if len(s.Highlights) > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("• "+s.Highlights[0]))
	}
	return strings.Join(parts, " ")
}

// ScenarioListCompact renders a compact list for selection menus
func ScenarioListCompact(cards []*ScenarioCard, selectedIndex int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No saved scenarios yet. Press s to save the current configuration.")
	}

	rendered := make([]string, len(cards))
	for i, card := range cards {
		prefix := "  "
		style := tuistyles.UnselectedItemStyle
		if i == selectedIndex {
			prefix = "▸ "
			style = tuistyles.SelectedItemStyle
		}
		rendered[i] = style.Render(fmt.Sprintf("%s%s", prefix, card.RenderCompact()))
	}

	return strings.Join(rendered, "\n")
}
