package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderError()
	}

	var content string
	switch m.currentScene {
	case SceneHome:
		content = m.homeModel.View()
	case SceneParameters:
		content = m.parametersModel.View()
	case SceneScenarios:
		content = m.scenariosModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	// Wrap content with app styling and status bar
	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	titleBar := m.renderTitleBar()
	statusBar := m.renderStatusBar()

	// Title (2) + status (1) + padding (1)
	contentHeight := max(0, m.height-4)

	contentContainer := lipgloss.NewStyle().
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleBar,
		contentContainer,
		statusBar,
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("LonelyLess - Programme Decision Aid")

	crumb := m.currentScene.String()
	if m.result != nil {
		crumb = fmt.Sprintf("%s / %s / %s", crumb, m.result.SegmentLabel, m.result.Definition.Label())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		SubtitleStyle.Render(crumb),
	)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("1", "home"),
		formatShortcut("2", "parameters"),
		formatShortcut("3", "scenarios"),
		formatShortcut("4", "results"),
		formatShortcut("s", "save"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}

	statusText := strings.Join(shortcuts, " • ")

	if m.status != "" {
		note := InfoStyle.Render(m.status)
		width := m.width - lipgloss.Width(statusText) - lipgloss.Width(note) - 4
		statusText = statusText + strings.Repeat(" ", max(1, width)) + note
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

// renderError renders an error message
func (m Model) renderError() string {
	content := ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err.Error()),
	)

	return m.renderApp(BorderStyle.Render(content))
}

// helpSections lists the keyboard shortcuts shown on the help screen
var helpSections = []struct {
	title string
	keys  [][2]string
}{
	{"Navigation", [][2]string{
		{"1", "Home: headline figures for the current configuration"},
		{"2", "Parameters: adjust cost, scale and programme design"},
		{"3", "Scenarios: saved scenarios and the benefit table"},
		{"4", "Results: full breakdown and every benefit measure"},
		{"?", "Show this help"},
		{"esc", "Go back"},
		{"q/ctrl+c", "Quit"},
	}},
	{"Home", [][2]string{
		{"← →", "Change the population segment"},
		{"b", "Change the benefit measure"},
	}},
	{"Parameters", [][2]string{
		{"↑ ↓", "Select a parameter"},
		{"← →", "Adjust the value; results update straight away"},
		{"r", "Reset to the starting design"},
	}},
	{"Scenarios", [][2]string{
		{"s", "Save the current configuration"},
		{"n", "Save with a name"},
		{"enter", "Load the selected scenario"},
	}},
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	var b strings.Builder
	for i, section := range helpSections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(SectionStyle.Render(strings.ToUpper(section.title)))
		b.WriteString("\n")
		for _, k := range section.keys {
			b.WriteString("  ")
			b.WriteString(HelpKeyStyle.Render(k[0]))
			b.WriteString(HelpDescStyle.Render(k[1]))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Uptake comes from pre-estimated preference weights. Costs and benefits are in AUD unless USD display is selected."))
	return BorderStyle.Render(b.String())
}
