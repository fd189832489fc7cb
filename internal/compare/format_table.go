package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("PROGRAMME SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 90) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.Segment != "" {
		sb.WriteString(fmt.Sprintf("Segment: %s | Benefit: %s\n", compSet.Segment, compSet.Definition.Label()))
	}
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 30
	numWidth := 11

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Uptake",
		numWidth, "Total Cost",
		numWidth, "Benefit",
		numWidth, "Net Benefit",
		numWidth, "BCR"))
	sb.WriteString(strings.Repeat("-", 90) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 90) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			sb.WriteString(fmt.Sprintf("  Uptake:           %+.1f pp\n", alt.UptakeDiffFromBase))

			if !alt.CostDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Total Cost:       %s%s (%s%%)\n",
					tf.deltaSymbol(alt.CostDiffFromBase),
					tf.formatDecimal(alt.CostDiffFromBase),
					alt.CostPctFromBase.StringFixed(1)))
			}

			if alt.NetBenefitDiffFromBase.Valid {
				sb.WriteString(fmt.Sprintf("  Net Benefit:      %s%s\n",
					tf.deltaSymbol(alt.NetBenefitDiffFromBase.Decimal),
					tf.formatDecimal(alt.NetBenefitDiffFromBase.Decimal)))
			}

			if alt.BCRDiffFromBase.Valid {
				sb.WriteString(fmt.Sprintf("  BCR:              %s%s\n",
					tf.deltaSymbol(alt.BCRDiffFromBase.Decimal),
					alt.BCRDiffFromBase.Decimal.StringFixed(2)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	bcr := "-"
	if result.BenefitCostRatio.Valid {
		bcr = result.BenefitCostRatio.Decimal.StringFixed(2)
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, fmt.Sprintf("%.1f%%", result.UptakeProbability*100),
		numWidth, tf.formatDecimal(result.TotalCost),
		numWidth, tf.formatNull(result.TotalBenefit),
		numWidth, tf.formatNull(result.NetBenefit),
		numWidth, bcr)
}

// formatDecimal formats an amount for display (in thousands or millions)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) formatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return tf.formatDecimal(d.Decimal)
}

// deltaSymbol returns the sign prefix for a delta; negatives carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return ""
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "BCR n/a"
		if alt.BCRDiffFromBase.Valid {
			switch {
			case alt.BCRDiffFromBase.Decimal.IsPositive():
				change = "BCR +" + alt.BCRDiffFromBase.Decimal.StringFixed(2)
			case alt.BCRDiffFromBase.Decimal.IsNegative():
				change = "BCR " + alt.BCRDiffFromBase.Decimal.StringFixed(2)
			default:
				change = "BCR ="
			}
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
