package output

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVFormatter writes the benefit table, one row per scenario. Amounts are AUD
// with two decimals; undefined values are empty cells.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Segment", "Definition", "Uptake", "TotalCostPerGroup", "TotalCost", "TotalBenefit", "EffectiveBenefit", "NetBenefit", "BenefitCostRatio", "Status"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range r.Scenarios {
		record := []string{
			row.Label,
			row.Segment,
			row.Definition.String(),
			fmt.Sprintf("%.4f", row.UptakeProbability),
			row.TotalCostPerGroup.StringFixed(2),
			row.TotalCost.StringFixed(2),
			nullCell(row.TotalBenefit, 2),
			nullCell(row.EffectiveBenefit, 2),
			nullCell(row.NetBenefit, 2),
			nullCell(row.BenefitCostRatio, 4),
			string(domain.StatusForBCR(row.BenefitCostRatio)),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nullCell(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(places)
}
