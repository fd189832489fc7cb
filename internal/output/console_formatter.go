package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/lonelyless/decisionaid/internal/domain"
)

// ConsoleFormatter renders the detailed plain-text report.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

var (
	strongColor     = color.New(color.FgGreen, color.Bold)
	borderlineColor = color.New(color.FgYellow, color.Bold)
	poorColor       = color.New(color.FgRed, color.Bold)
	neutralColor    = color.New(color.FgCyan)
)

// StatusText colours a value-for-money status when the terminal supports it.
func StatusText(s domain.ValueStatus) string {
	switch s {
	case domain.StatusStrong:
		return strongColor.Sprint(string(s))
	case domain.StatusBorderline:
		return borderlineColor.Sprint(string(s))
	case domain.StatusPoor:
		return poorColor.Sprint(string(s))
	}
	return neutralColor.Sprint(string(s))
}

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	if r == nil || r.Current == nil {
		return nil, fmt.Errorf("report has no current result")
	}
	var buf bytes.Buffer
	b := r.Current
	cfg := b.Configuration
	m := r.Money()

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, strings.ToUpper(r.Title))
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	if cfg.Name != "" {
		fmt.Fprintf(&buf, "Scenario: %s\n", cfg.Name)
	}
	fmt.Fprintf(&buf, "Segment:  %s\n", b.SegmentLabel)
	fmt.Fprintf(&buf, "Benefit:  %s\n", b.Definition.Label())
	fmt.Fprintf(&buf, "Status:   %s\n", StatusText(b.Status))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, Headline(r))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "PROGRAMME DESIGN")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	for _, line := range DescribeDesign(cfg) {
		fmt.Fprintf(&buf, "  %s\n", line)
	}
	fmt.Fprintf(&buf, "  Unit cost:               %s per participant per month\n", m.Format(cfg.UnitCost))
	if cfg.RegionAdjustment {
		region := cfg.RegionCode
		if region == "" {
			region = "none"
		}
		fmt.Fprintf(&buf, "  Region-adjusted cost:    %s (region %s, x%s)\n",
			m.Format(b.Cost.AdjustedUnitCost), region, b.Cost.RegionMultiplier.StringFixed(2))
	}
	fmt.Fprintf(&buf, "  Participants per group:  %d\n", cfg.ParticipantsPerGroup)
	fmt.Fprintf(&buf, "  Number of groups:        %d\n", cfg.NumberOfGroups)
	fmt.Fprintf(&buf, "  Duration:                %d months\n", b.Cost.DurationPeriods)
	if cfg.IncludeOpportunityCost {
		fmt.Fprintf(&buf, "  Opportunity cost:        included (%s)\n", FormatPercentage(r.Assumptions.OpportunityCostRate.InexactFloat64()))
	} else {
		fmt.Fprintln(&buf, "  Opportunity cost:        excluded")
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "UPTAKE")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	fmt.Fprintf(&buf, "  Expected uptake:         %s\n", FormatPercentage(b.Choice.UptakeProbability))
	fmt.Fprintf(&buf, "  Opt-out:                 %s\n", FormatPercentage(b.Choice.OptOutProbability))
	fmt.Fprintf(&buf, "  Endorsed participants:   %s of %d\n",
		b.Reach.EndorsedParticipants.StringFixed(1), b.Reach.TotalParticipants)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "COSTS")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	fmt.Fprintf(&buf, "  Direct cost per group:      %s\n", m.Format(b.Cost.DirectCostPerGroup))
	fmt.Fprintf(&buf, "  Opportunity cost per group: %s\n", m.Format(b.Cost.OpportunityCostPerGroup))
	fmt.Fprintf(&buf, "  Total cost per group:       %s\n", m.Format(b.Cost.TotalCostPerGroup))
	fmt.Fprintf(&buf, "  Total cost, all groups:     %s\n", m.Format(b.Cost.TotalCostAllGroups))
	if len(b.Cost.Components) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "  %-32s %6s %18s %18s\n", "Component", "Share", "Per group", "Per participant")
		for _, comp := range b.Cost.Components {
			fmt.Fprintf(&buf, "  %-32s %6s %18s %18s\n",
				comp.Label,
				comp.Share.Mul(hundred).StringFixed(0)+"%",
				m.Format(comp.AmountPerGroup),
				m.Format(comp.PerParticipantPerPeriod))
		}
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "BENEFITS AND VALUE")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	if b.Definition.Kind == domain.BenefitWTP {
		fmt.Fprintf(&buf, "  WTP per participant/month:  %s\n", m.FormatNull(b.Benefit.WTPPerParticipantPerPeriod))
		fmt.Fprintf(&buf, "  WTP per group:              %s\n", m.FormatNull(b.Benefit.WTPPerGroup))
	}
	fmt.Fprintf(&buf, "  Total benefit:              %s\n", m.FormatNull(b.Aggregate.TotalBenefit))
	fmt.Fprintf(&buf, "  Net benefit:                %s\n", m.FormatNull(b.Aggregate.NetBenefit))
	fmt.Fprintf(&buf, "  Benefit-cost ratio:         %s\n", FormatRatio(b.Aggregate.BenefitCostRatio))
	if b.EffectiveBenefit.Valid {
		fmt.Fprintf(&buf, "  Uptake-weighted benefit:    %s\n", m.FormatNull(b.EffectiveBenefit))
	}
	fmt.Fprintln(&buf)

	if len(r.Definitions) > 0 {
		fmt.Fprintln(&buf, "BENEFIT DEFINITIONS")
		fmt.Fprintln(&buf, strings.Repeat("-", 81))
		fmt.Fprintf(&buf, "%-26s %16s %16s %8s  %s\n", "Definition", "Total benefit", "Net benefit", "BCR", "Status")
		for _, d := range r.Definitions {
			fmt.Fprintf(&buf, "%-26s %16s %16s %8s  %s\n",
				d.Definition.Label(),
				m.FormatNull(d.Aggregate.TotalBenefit),
				m.FormatNull(d.Aggregate.NetBenefit),
				FormatRatio(d.Aggregate.BenefitCostRatio),
				d.Status)
		}
		fmt.Fprintln(&buf)
	}

	if r.Pooled != nil {
		fmt.Fprintln(&buf, "UPTAKE BY SEGMENT")
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		for _, s := range r.Pooled.Segments {
			fmt.Fprintf(&buf, "  %-30s %8s\n", s.Label, FormatPercentage(s.Choice.UptakeProbability))
		}
		fmt.Fprintf(&buf, "  %-30s %8s\n", "Pooled", FormatPercentage(r.Pooled.UptakeProbability))
		fmt.Fprintf(&buf, "  (%s)\n", r.Pooled.Label)
		fmt.Fprintln(&buf)
	}

	if len(r.Scenarios) > 1 {
		writeScenarioTable(&buf, r.Scenarios, m)
	}

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	for _, a := range DescribeAssumptions(r.Assumptions) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}

	return buf.Bytes(), nil
}

func writeScenarioTable(buf *bytes.Buffer, rows []domain.BenefitTableRow, m Money) {
	fmt.Fprintln(buf, "SCENARIOS")
	fmt.Fprintln(buf, strings.Repeat("-", 81))
	fmt.Fprintf(buf, "%-24s %8s %14s %14s %14s %6s\n", "Scenario", "Uptake", "Total cost", "Benefit", "Net", "BCR")
	for _, row := range rows {
		fmt.Fprintf(buf, "%-24s %8s %14s %14s %14s %6s\n",
			truncate(row.Label, 24),
			FormatPercentage(row.UptakeProbability),
			m.Format(row.TotalCost),
			m.FormatNull(row.TotalBenefit),
			m.FormatNull(row.NetBenefit),
			FormatRatio(row.BenefitCostRatio))
	}
	fmt.Fprintln(buf)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
