package calculation

import "github.com/lonelyless/decisionaid/internal/domain"

// LabeledResult pairs a result bundle with the label it is shown under.
type LabeledResult struct {
	Label  string
	Result *domain.ResultBundle
}

// BuildBenefitTable lays out the current configuration and saved scenarios side
// by side. Rows whose result is nil are skipped.
func BuildBenefitTable(results []LabeledResult) []domain.BenefitTableRow {
	rows := make([]domain.BenefitTableRow, 0, len(results))
	for _, r := range results {
		if r.Result == nil {
			continue
		}
		b := r.Result
		rows = append(rows, domain.BenefitTableRow{
			Label:             r.Label,
			Segment:           b.SegmentLabel,
			Definition:        b.Definition,
			UptakeProbability: b.Choice.UptakeProbability,
			TotalCostPerGroup: b.Cost.TotalCostPerGroup,
			TotalCost:         b.Cost.TotalCostAllGroups,
			TotalBenefit:      b.Aggregate.TotalBenefit,
			EffectiveBenefit:  b.EffectiveBenefit,
			BenefitCostRatio:  b.Aggregate.BenefitCostRatio,
			NetBenefit:        b.Aggregate.NetBenefit,
		})
	}
	return rows
}
