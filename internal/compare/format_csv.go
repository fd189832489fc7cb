package compare

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Design",
		"Uptake",
		"Total Cost",
		"Total Benefit",
		"Net Benefit",
		"BCR",
		"Status",
		"Uptake Diff (pp)",
		"Cost Diff from Base",
		"Cost % Change",
		"Net Benefit Diff",
		"BCR Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		result.Design,
		fmt.Sprintf("%.4f", result.UptakeProbability),
		result.TotalCost.StringFixed(2),
		formatNull(result.TotalBenefit, 2),
		formatNull(result.NetBenefit, 2),
		formatNull(result.BenefitCostRatio, 4),
		string(result.Status),
		fmt.Sprintf("%.2f", result.UptakeDiffFromBase),
		result.CostDiffFromBase.StringFixed(2),
		result.CostPctFromBase.StringFixed(2),
		formatNull(result.NetBenefitDiffFromBase, 2),
		formatNull(result.BCRDiffFromBase, 4),
	}
}

// formatNull leaves undefined values empty
func formatNull(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(places)
}
