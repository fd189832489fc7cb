package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/output"
	"github.com/lonelyless/decisionaid/internal/session"
	"github.com/lonelyless/decisionaid/internal/tui/components"
	"github.com/lonelyless/decisionaid/internal/tui/tuimsg"
	"github.com/lonelyless/decisionaid/internal/tui/tuistyles"
)

var (
	keyTop     = key.NewBinding(key.WithKeys("g"))
	keyBottom  = key.NewBinding(key.WithKeys("G"))
	keyLoad    = key.NewBinding(key.WithKeys("enter"))
	keyName    = key.NewBinding(key.WithKeys("n"))
	keyConfirm = key.NewBinding(key.WithKeys("enter"))
	keyCancel  = key.NewBinding(key.WithKeys("esc"))
)

// ScenariosModel lists the saved scenarios next to the benefit table of the
// session
type ScenariosModel struct {
	scenarios     []session.SavedScenario
	rows          []domain.BenefitTableRow
	cards         []*components.ScenarioCard
	selectedIndex int
	money         output.Money

	naming    bool
	nameInput textinput.Model

	width  int
	height int
}

// NewScenariosModel creates a new scenarios scene model
func NewScenariosModel(assumptions domain.Assumptions) *ScenariosModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. Online pilot, 3 groups"
	ti.CharLimit = 60
	ti.Width = 40

	return &ScenariosModel{
		money:     output.NewMoney(assumptions),
		nameInput: ti,
	}
}

// SetScenarios updates the saved list and the benefit table
func (m *ScenariosModel) SetScenarios(scenarios []session.SavedScenario, rows []domain.BenefitTableRow) {
	m.scenarios = scenarios
	m.rows = rows
	m.cards = make([]*components.ScenarioCard, 0, len(scenarios))

	for _, sc := range scenarios {
		r := sc.Result
		card := components.NewScenarioCard(sc.Name).
			WithWidth(50).
			WithSubtitle(fmt.Sprintf("%s • %s", r.SegmentLabel, r.Definition.Label())).
			WithStatus(r.Status).
			AddHighlight("BCR " + output.FormatRatio(r.Aggregate.BenefitCostRatio)).
			AddHighlight("Uptake " + output.FormatPercentage(r.Choice.UptakeProbability)).
			AddHighlight("Total cost " + m.money.Format(r.Cost.TotalCostAllGroups)).
			AddHighlight("Total benefit " + m.money.FormatNull(r.Aggregate.TotalBenefit))
		m.cards = append(m.cards, card)
	}

	if m.selectedIndex >= len(m.scenarios) {
		m.selectedIndex = max(0, len(m.scenarios)-1)
	}
}

// SetSize updates the scene dimensions
func (m *ScenariosModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Editing reports whether the name prompt has the keyboard
func (m *ScenariosModel) Editing() bool {
	return m.naming
}

// Selected returns the highlighted saved scenario
func (m *ScenariosModel) Selected() (session.SavedScenario, bool) {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.scenarios) {
		return m.scenarios[m.selectedIndex], true
	}
	return session.SavedScenario{}, false
}

// Update handles messages for the scenarios scene
func (m *ScenariosModel) Update(msg tea.Msg) (*ScenariosModel, tea.Cmd) {
	if m.naming {
		return m.updateNaming(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyUp):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(keyMsg, keyDown):
		if m.selectedIndex < len(m.scenarios)-1 {
			m.selectedIndex++
		}
	case key.Matches(keyMsg, keyTop):
		m.selectedIndex = 0
	case key.Matches(keyMsg, keyBottom):
		m.selectedIndex = max(0, len(m.scenarios)-1)
	case key.Matches(keyMsg, keyLoad):
		if sc, ok := m.Selected(); ok {
			return m, func() tea.Msg { return tuimsg.ScenarioLoadMsg{Scenario: sc} }
		}
	case key.Matches(keyMsg, keyName):
		m.naming = true
		m.nameInput.SetValue("")
		return m, m.nameInput.Focus()
	}

	return m, nil
}

func (m *ScenariosModel) updateNaming(msg tea.Msg) (*ScenariosModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keyConfirm):
			name := strings.TrimSpace(m.nameInput.Value())
			m.naming = false
			m.nameInput.Blur()
			return m, func() tea.Msg { return tuimsg.SaveRequestMsg{Name: name} }
		case key.Matches(keyMsg, keyCancel):
			m.naming = false
			m.nameInput.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// View renders the scenarios scene
func (m *ScenariosModel) View() string {
	for i, card := range m.cards {
		card.SetSelected(i == m.selectedIndex)
	}

	listStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Width(40)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorPrimary).
		MarginBottom(1)
	left := listStyle.Render(titleStyle.Render(fmt.Sprintf("Saved scenarios (%d)", len(m.scenarios))) + "\n" +
		components.ScenarioListCompact(m.cards, m.selectedIndex))

	content := left
	if m.selectedIndex < len(m.cards) {
		content = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.cards[m.selectedIndex].Render())
	}

	var b strings.Builder
	b.WriteString(content)
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n\n")

	if m.naming {
		b.WriteString(tuistyles.ParameterLabelStyle.Render("Name for this scenario: "))
		b.WriteString(m.nameInput.View())
		b.WriteString("\n")
		b.WriteString(tuistyles.InfoStyle.Render("Enter save • Esc cancel"))
		return b.String()
	}
	b.WriteString(tuistyles.InfoStyle.Render("↑/k up • ↓/j down • Enter load into parameters • n save with a name • s quick save"))
	return b.String()
}

// renderTable shows the current configuration and every saved scenario side
// by side
func (m *ScenariosModel) renderTable() string {
	if len(m.rows) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(tuistyles.SectionStyle.Render("Benefit table"))
	b.WriteString("\n")
	b.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("%-24s %-14s %8s %16s %16s %7s",
		"Scenario", "Segment", "Uptake", "Total cost", "Total benefit", "BCR")))
	b.WriteString("\n")
	for i, row := range m.rows {
		style := tuistyles.TableCellStyle
		if i == 0 && row.Label == session.CurrentLabel {
			style = tuistyles.TableHighlightStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%-24s %-14s %8s %16s %16s %7s",
			clip(row.Label, 24),
			clip(row.Segment, 14),
			output.FormatPercentage(row.UptakeProbability),
			m.money.Format(row.TotalCost),
			m.money.FormatNull(row.TotalBenefit),
			output.FormatRatio(row.BenefitCostRatio))))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
