package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/output"
	"github.com/lonelyless/decisionaid/internal/tui/components"
	"github.com/lonelyless/decisionaid/internal/tui/tuistyles"
)

// ResultsModel shows the full breakdown of the current configuration: the
// choice model, costs by component, and value under every benefit definition
type ResultsModel struct {
	result      *domain.ResultBundle
	definitions []*domain.ResultBundle
	money       output.Money
	width       int
	height      int
}

// NewResultsModel creates a new results scene model
func NewResultsModel(assumptions domain.Assumptions) *ResultsModel {
	return &ResultsModel{money: output.NewMoney(assumptions)}
}

// SetResults updates the results to display
func (m *ResultsModel) SetResults(result *domain.ResultBundle, definitions []*domain.ResultBundle) {
	m.result = result
	m.definitions = definitions
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	// Results scene is read-only
	return m, nil
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.result == nil {
		return tuistyles.BorderStyle.Render(tuistyles.InfoStyle.Render("No results yet. Adjust the parameters to calculate."))
	}

	left := lipgloss.JoinVertical(lipgloss.Left, m.renderChoice(), "", m.renderCosts())
	right := m.renderDefinitions()

	return lipgloss.JoinHorizontal(lipgloss.Top,
		tuistyles.BorderStyle.Render(left),
		"  ",
		tuistyles.BorderStyle.Render(right))
}

func (m *ResultsModel) renderChoice() string {
	c := m.result.Choice
	var b strings.Builder
	b.WriteString(tuistyles.SectionStyle.Render("Uptake (" + m.result.SegmentLabel + ")"))
	b.WriteString("\n")
	writeRow(&b, "Programme utility", fmt.Sprintf("%.4f", c.ProgrammeUtility))
	writeRow(&b, "  design and constant", fmt.Sprintf("%.4f", c.BaseUtility))
	writeRow(&b, "  cost term", fmt.Sprintf("%.4f", c.CostTerm))
	writeRow(&b, "Opt-out utility", fmt.Sprintf("%.4f", c.OptOutUtility))
	writeRow(&b, "Expected uptake", output.FormatPercentage(c.UptakeProbability))
	writeRow(&b, "Opt-out", output.FormatPercentage(c.OptOutProbability))
	return strings.TrimRight(b.String(), "\n")
}

func (m *ResultsModel) renderCosts() string {
	cost := m.result.Cost
	var b strings.Builder
	b.WriteString(tuistyles.SectionStyle.Render(fmt.Sprintf("Costs (%d months)", cost.DurationPeriods)))
	b.WriteString("\n")
	if m.result.Configuration.RegionAdjustment {
		writeRow(&b, "Adjusted unit cost", fmt.Sprintf("%s (x%s)", m.money.Format(cost.AdjustedUnitCost), cost.RegionMultiplier.StringFixed(2)))
	}
	writeRow(&b, "Direct cost per group", m.money.Format(cost.DirectCostPerGroup))
	writeRow(&b, "Opportunity cost per group", m.money.Format(cost.OpportunityCostPerGroup))
	writeRow(&b, "Total cost per group", m.money.Format(cost.TotalCostPerGroup))
	writeRow(&b, "Total cost, all groups", m.money.Format(cost.TotalCostAllGroups))

	if len(cost.Components) > 0 {
		b.WriteString("\n")
		for _, comp := range cost.Components {
			writeRow(&b, fmt.Sprintf("%s (%s)", comp.Label, output.FormatPercentage(comp.Share.InexactFloat64())),
				m.money.Format(comp.AmountPerGroup))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *ResultsModel) renderDefinitions() string {
	var b strings.Builder
	b.WriteString(tuistyles.SectionStyle.Render("Value by benefit measure"))
	b.WriteString("\n")
	b.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("%-24s %16s %16s", "Measure", "Total benefit", "Net benefit")))
	b.WriteString("\n")

	chart := components.NewBarChart("Benefit-cost ratio").WithWidth(30).WithMarker(1)
	for _, d := range m.definitions {
		style := tuistyles.TableCellStyle
		if d.Definition == m.result.Definition {
			style = tuistyles.TableHighlightStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%-24s %16s %16s",
			d.Definition.Label(),
			m.money.FormatNull(d.Aggregate.TotalBenefit),
			m.money.FormatNull(d.Aggregate.NetBenefit))))
		b.WriteString("\n")

		bar := components.Bar{
			Label: d.Definition.Label(),
			Text:  output.FormatRatio(d.Aggregate.BenefitCostRatio),
			Color: tuistyles.StatusColor(d.Status),
		}
		if d.Aggregate.BenefitCostRatio.Valid {
			bar.Value = d.Aggregate.BenefitCostRatio.Decimal.InexactFloat64()
		}
		chart.AddBar(bar)
	}

	b.WriteString("\n")
	b.WriteString(chart.Render())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).
		Render("Measures are alternative views of the same programme and are not added together."))
	return b.String()
}

func writeRow(b *strings.Builder, label, value string) {
	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(34)
	b.WriteString(labelStyle.Render(label))
	b.WriteString(tuistyles.MetricValueStyle.Render(value))
	b.WriteString("\n")
}
