package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/output"
	"github.com/lonelyless/decisionaid/internal/tui/components"
	"github.com/lonelyless/decisionaid/internal/tui/tuimsg"
	"github.com/lonelyless/decisionaid/internal/tui/tuistyles"
)

var (
	keyPrevSegment = key.NewBinding(key.WithKeys("left", "["))
	keyNextSegment = key.NewBinding(key.WithKeys("right", "]"))
	keyDefinition  = key.NewBinding(key.WithKeys("b"))
)

// HomeModel is the dashboard: segment and benefit selection plus the headline
// figures of the current configuration
type HomeModel struct {
	segments        []domain.CoefficientSet
	segmentIndex    int
	definitions     []domain.BenefitDefinition
	definitionIndex int

	assumptions domain.Assumptions
	result      *domain.ResultBundle
	reference   *domain.ResultBundle // last saved scenario, for change indicators
	refName     string

	width  int
	height int
}

// NewHomeModel creates a new home scene model over the segments of a table
func NewHomeModel(table *domain.CoefficientTable, assumptions domain.Assumptions) *HomeModel {
	m := &HomeModel{
		definitions: domain.AllBenefitDefinitions(),
		assumptions: assumptions,
	}
	if table != nil {
		m.segments = append(m.segments, table.Segments...)
	}
	return m
}

// SetSelection positions the segment and benefit selectors
func (m *HomeModel) SetSelection(segment string, def domain.BenefitDefinition) {
	for i, s := range m.segments {
		if s.Key == segment {
			m.segmentIndex = i
		}
	}
	for i, d := range m.definitions {
		if d == def {
			m.definitionIndex = i
		}
	}
}

// SetResult updates the figures shown
func (m *HomeModel) SetResult(result *domain.ResultBundle) {
	m.result = result
}

// SetReference sets the saved scenario that changes are measured against
func (m *HomeModel) SetReference(name string, reference *domain.ResultBundle) {
	m.refName = name
	m.reference = reference
}

// SetSize updates the model dimensions
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Segment returns the selected segment key
func (m *HomeModel) Segment() string {
	if len(m.segments) == 0 {
		return ""
	}
	return m.segments[m.segmentIndex].Key
}

// Definition returns the selected benefit definition
func (m *HomeModel) Definition() domain.BenefitDefinition {
	return m.definitions[m.definitionIndex]
}

// Update handles messages for the home scene
func (m *HomeModel) Update(msg tea.Msg) (*HomeModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyPrevSegment):
		if len(m.segments) == 0 {
			return m, nil
		}
		m.segmentIndex = (m.segmentIndex - 1 + len(m.segments)) % len(m.segments)
		return m, m.segmentChanged()

	case key.Matches(keyMsg, keyNextSegment):
		if len(m.segments) == 0 {
			return m, nil
		}
		m.segmentIndex = (m.segmentIndex + 1) % len(m.segments)
		return m, m.segmentChanged()

	case key.Matches(keyMsg, keyDefinition):
		m.definitionIndex = (m.definitionIndex + 1) % len(m.definitions)
		def := m.Definition()
		return m, func() tea.Msg {
			return tuimsg.DefinitionChangedMsg{Definition: def}
		}
	}

	return m, nil
}

func (m *HomeModel) segmentChanged() tea.Cmd {
	segment := m.Segment()
	return func() tea.Msg {
		return tuimsg.SegmentChangedMsg{Segment: segment}
	}
}

// View renders the home dashboard
func (m *HomeModel) View() string {
	var content strings.Builder

	content.WriteString(m.renderSelectors())
	content.WriteString("\n\n")

	if m.result == nil {
		content.WriteString(tuistyles.InfoStyle.Render("Calculating..."))
		return tuistyles.BorderStyle.Render(content.String())
	}

	report := &output.Report{Current: m.result, Assumptions: m.assumptions}
	headline := lipgloss.NewStyle().Width(max(40, m.width-8)).Render(output.Headline(report))
	content.WriteString(headline)
	content.WriteString("\n\n")

	content.WriteString(components.NewGauge("Expected uptake", m.result.Choice.UptakeProbability).
		WithColor(tuistyles.StatusColor(m.result.Status)).
		Render())
	content.WriteString("\n\n")

	content.WriteString(components.MetricGrid(m.metricCards(), m.columns()))
	content.WriteString("\n")

	content.WriteString(tuistyles.SectionStyle.Render("Programme design"))
	content.WriteString("\n")
	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	for _, line := range output.DescribeDesign(m.result.Configuration) {
		content.WriteString(labelStyle.Render("  • "))
		content.WriteString(line)
		content.WriteString("\n")
	}

	return tuistyles.BorderStyle.Render(strings.TrimRight(content.String(), "\n"))
}

func (m *HomeModel) renderSelectors() string {
	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	valueStyle := tuistyles.SelectedItemStyle
	hintStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Italic(true)

	segment := "-"
	if len(m.segments) > 0 {
		segment = m.segments[m.segmentIndex].DisplayName()
	}
	lines := []string{
		labelStyle.Render("Segment:  ") + valueStyle.Render("◂ "+segment+" ▸") + "  " + hintStyle.Render("← → to change"),
		labelStyle.Render("Benefit:  ") + valueStyle.Render(m.Definition().Label()) + "  " + hintStyle.Render("b to change"),
	}
	return strings.Join(lines, "\n")
}

// metricCards builds the headline cards; the ratio and net benefit carry a
// change indicator when a saved scenario is available to compare against
func (m *HomeModel) metricCards() []*components.MetricCard {
	r := m.result
	money := output.NewMoney(m.assumptions)

	bcr := components.NewMetricCard("Benefit-cost ratio", output.FormatRatio(r.Aggregate.BenefitCostRatio)).
		WithValueColor(tuistyles.StatusColor(r.Status)).
		WithDescription(string(r.Status))
	net := components.NewMetricCard("Net benefit", money.FormatNull(r.Aggregate.NetBenefit))

	if ref := m.reference; ref != nil {
		if r.Aggregate.BenefitCostRatio.Valid && ref.Aggregate.BenefitCostRatio.Valid {
			diff := r.Aggregate.BenefitCostRatio.Decimal.Sub(ref.Aggregate.BenefitCostRatio.Decimal)
			bcr.WithTrend(!diff.IsNegative(), fmt.Sprintf("%+.2f vs %s", diff.InexactFloat64(), m.refName))
		}
		if r.Aggregate.NetBenefit.Valid && ref.Aggregate.NetBenefit.Valid {
			diff := r.Aggregate.NetBenefit.Decimal.Sub(ref.Aggregate.NetBenefit.Decimal)
			net.WithTrend(!diff.IsNegative(), money.Format(diff.Abs()))
		}
	}

	return []*components.MetricCard{
		components.NewMetricCard("Expected uptake", output.FormatPercentage(r.Choice.UptakeProbability)),
		components.NewMetricCard("Endorsed participants",
			fmt.Sprintf("%s of %d", r.Reach.EndorsedParticipants.StringFixed(1), r.Reach.TotalParticipants)),
		components.NewMetricCard("Total cost", money.Format(r.Cost.TotalCostAllGroups)).
			WithDescription(money.Format(r.Cost.TotalCostPerGroup) + " per group"),
		components.NewMetricCard("Total benefit", money.FormatNull(r.Aggregate.TotalBenefit)),
		net,
		bcr,
	}
}

func (m *HomeModel) columns() int {
	if m.width >= 90 {
		return 3
	}
	return 2
}
