package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityFormatter defines a formatter for sensitivity analysis
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error)
	Name() string
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct {
	Money Money
}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Points) == 0 {
		return "", fmt.Errorf("no results in analysis")
	}
	m := scf.money()
	param := analysis.Parameter
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "SENSITIVITY ANALYSIS: %s\n", strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
	fmt.Fprintln(&buf, strings.Repeat("=", 65))
	if analysis.ScenarioName != "" {
		fmt.Fprintf(&buf, "Scenario: %s\n", analysis.ScenarioName)
	}
	fmt.Fprintf(&buf, "Segment: %s    Benefit: %s\n", analysis.Segment, analysis.Definition.Label())
	fmt.Fprintf(&buf, "Base Case: %s = %s\n", param.Name, formatParamValue(m, param.Unit, param.BaseValue))
	fmt.Fprintf(&buf, "Range: %s to %s (%d steps)\n",
		formatParamValue(m, param.Unit, param.MinValue),
		formatParamValue(m, param.Unit, param.MaxValue),
		param.Steps)
	fmt.Fprintf(&buf, "Description: %s\n", param.Description)
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-20s %9s %16s %16s %16s %7s\n", "Value", "Uptake", "Total cost", "Benefit", "Net benefit", "BCR")
	fmt.Fprintln(&buf, strings.Repeat("-", 90))
	for _, p := range analysis.Points {
		value := formatParamValue(m, param.Unit, p.Value)
		if p.Value.Equal(param.BaseValue) {
			value += " ← BASE"
		}
		fmt.Fprintf(&buf, "%-20s %9s %16s %16s %16s %7s\n",
			value,
			FormatPercentage(p.UptakeProbability),
			m.Format(p.TotalCost),
			m.FormatNull(p.TotalBenefit),
			m.FormatNull(p.NetBenefit),
			FormatRatio(p.BenefitCostRatio))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "SENSITIVITY:")
	base := analysis.Base
	for _, p := range analysis.Points {
		if p.Value.Equal(param.BaseValue) || param.BaseValue.IsZero() {
			continue
		}
		paramChange := p.Value.Sub(param.BaseValue).Div(param.BaseValue).Mul(hundred)
		if !p.BenefitCostRatio.Valid || !base.BenefitCostRatio.Valid {
			fmt.Fprintf(&buf, "  %+.1f%% %s → BCR not defined\n", paramChange.InexactFloat64(), param.Name)
			continue
		}
		bcrChange := p.BenefitCostRatio.Decimal.Sub(base.BenefitCostRatio.Decimal)
		fmt.Fprintf(&buf, "  %+.1f%% %s → %+.2f BCR (%s)\n",
			paramChange.InexactFloat64(), param.Name, bcrChange.InexactFloat64(), p.Status)
	}
	fmt.Fprintf(&buf, "Maximum elasticity: %s\n", analysis.Summary.MaxElasticity.StringFixed(2))
	if analysis.Summary.BreakEvenCrossed {
		fmt.Fprintln(&buf, "Break-even: BCR crosses 1.0 inside the range")
	}
	fmt.Fprintln(&buf)

	riskEmoji := ""
	switch analysis.Summary.RiskLevel {
	case "LOW":
		riskEmoji = "✅"
	case "MEDIUM":
		riskEmoji = "⚠️"
	case "HIGH":
		riskEmoji = "🔴"
	case "CRITICAL":
		riskEmoji = "🚨"
	}
	fmt.Fprintf(&buf, "RISK LEVEL: %s %s\n", riskEmoji, analysis.Summary.RiskLevel)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "RECOMMENDATIONS:")
	for _, rec := range analysis.Summary.Recommendations {
		fmt.Fprintf(&buf, "  • %s\n", rec)
	}

	return buf.String(), nil
}

func (scf SensitivityConsoleFormatter) money() Money {
	if scf.Money.Currency == "" {
		return NewMoney(domain.DefaultAssumptions())
	}
	return scf.Money
}

func formatParamValue(m Money, unit string, v decimal.Decimal) string {
	switch unit {
	case "currency":
		return m.Format(v)
	case "percent":
		return FormatPercentage(v.InexactFloat64())
	case "count":
		return v.Round(0).String()
	}
	return v.String()
}

// SensitivityCSVFormatter formats sensitivity analysis output as CSV
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Points) == 0 {
		return "", fmt.Errorf("no results in analysis")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"parameter_name", "parameter_value", "uptake", "total_cost", "total_benefit", "net_benefit", "benefit_cost_ratio", "status"}); err != nil {
		return "", err
	}
	for _, p := range analysis.Points {
		if err := w.Write([]string{
			analysis.Parameter.Name,
			p.Value.String(),
			fmt.Sprintf("%.4f", p.UptakeProbability),
			p.TotalCost.StringFixed(2),
			nullCell(p.TotalBenefit, 2),
			nullCell(p.NetBenefit, 2),
			nullCell(p.BenefitCostRatio, 4),
			string(p.Status),
		}); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// SensitivityJSONFormatter formats sensitivity analysis output as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil {
		return "", fmt.Errorf("no analysis to format")
	}
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewSensitivityFormatter creates a sensitivity formatter based on the format name
func NewSensitivityFormatter(format string, m Money) SensitivityFormatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return SensitivityConsoleFormatter{Money: m}
	}
}
