package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a single solve
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN UNIT COST\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Target:              %s\n", tf.describeTarget(result)))
	sb.WriteString(fmt.Sprintf("Segment:             %s\n", result.Segment))
	sb.WriteString(fmt.Sprintf("Benefit:             %s\n", result.Definition.Label()))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("UNIT COST\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Current:             %s\n", tf.formatCurrency(result.BaseUnitCost)))
	if result.BreakEvenUnitCost != nil {
		sb.WriteString(fmt.Sprintf("Break-even:          %s\n", tf.formatCurrency(*result.BreakEvenUnitCost)))
	} else {
		sb.WriteString("Break-even:          not reachable\n")
	}
	if result.Headroom.Valid {
		sb.WriteString(fmt.Sprintf("Headroom:            %s%s\n",
			tf.deltaSymbol(result.Headroom.Decimal), tf.formatCurrency(result.Headroom.Decimal)))
	}
	sb.WriteString("\n")

	if result.AtBreakEven != nil {
		b := result.AtBreakEven
		sb.WriteString("RESULTS AT BREAK-EVEN\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Uptake:              %.1f%%\n", b.Choice.UptakeProbability*100))
		sb.WriteString(fmt.Sprintf("Total Cost:          %s\n", tf.formatShort(b.Cost.TotalCostAllGroups)))
		if b.Aggregate.BenefitCostRatio.Valid {
			sb.WriteString(fmt.Sprintf("Benefit-Cost Ratio:  %s\n", b.Aggregate.BenefitCostRatio.Decimal.StringFixed(2)))
		}
		sb.WriteString(fmt.Sprintf("Status:              %s\n", b.Status))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatMultiSegment formats per-segment results
func (tf *TableFormatter) FormatMultiSegment(result *MultiSegmentResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN UNIT COST BY SEGMENT\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(fmt.Sprintf("%-20s %15s %15s %12s %12s\n",
		"Segment", "Break-even", "Headroom", "Uptake", "Iterations"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		breakEven, headroom, uptake := "-", "-", "-"
		if res.BreakEvenUnitCost != nil {
			breakEven = tf.formatCurrency(*res.BreakEvenUnitCost)
		}
		if res.Headroom.Valid {
			headroom = tf.deltaSymbol(res.Headroom.Decimal) + tf.formatCurrency(res.Headroom.Decimal)
		}
		if res.AtBreakEven != nil {
			uptake = fmt.Sprintf("%.1f%%", res.AtBreakEven.Choice.UptakeProbability*100)
		}
		sb.WriteString(fmt.Sprintf("%-20s %15s %15s %12s %12d\n",
			tf.truncate(res.Segment, 20), breakEven, headroom, uptake, res.Iterations))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiSegment formats per-segment results as JSON
func (jf *JSONFormatter) FormatMultiSegment(result *MultiSegmentResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v interface{}) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) describeTarget(result *OptimizationResult) string {
	switch result.Target {
	case TargetUptake:
		pct := result.TargetValue.Mul(decimal.NewFromInt(100))
		return fmt.Sprintf("uptake ≥ %s%%", pct.StringFixed(1))
	default:
		return fmt.Sprintf("benefit-cost ratio ≥ %s", result.TargetValue.StringFixed(2))
	}
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
