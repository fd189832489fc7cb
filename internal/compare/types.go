package compare

import (
	"fmt"
	"strings"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string               `json:"scenarioName"`
	Description  string               `json:"description"`
	Result       *domain.ResultBundle `json:"-"`

	// Key Metrics
	Design               string              `json:"design"`
	UptakeProbability    float64             `json:"uptakeProbability"`
	EndorsedParticipants decimal.Decimal     `json:"endorsedParticipants"`
	TotalCost            decimal.Decimal     `json:"totalCost"`
	TotalBenefit         decimal.NullDecimal `json:"totalBenefit"`
	NetBenefit           decimal.NullDecimal `json:"netBenefit"`
	BenefitCostRatio     decimal.NullDecimal `json:"benefitCostRatio"`
	Status               domain.ValueStatus  `json:"status"`

	// Comparison to Base
	UptakeDiffFromBase     float64             `json:"uptakeDiffFromBase"` // percentage points
	CostDiffFromBase       decimal.Decimal     `json:"costDiffFromBase"`
	CostPctFromBase        decimal.Decimal     `json:"costPctFromBase"`
	NetBenefitDiffFromBase decimal.NullDecimal `json:"netBenefitDiffFromBase"`
	BCRDiffFromBase        decimal.NullDecimal `json:"bcrDiffFromBase"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string                   `json:"baseScenarioName"`
	Segment            string                   `json:"segment"`
	Definition         domain.BenefitDefinition `json:"definition"`
	BaseResult         *ComparisonResult        `json:"baseResult"`
	AlternativeResults []ComparisonResult       `json:"alternativeResults"`
	Recommendations    []string                 `json:"recommendations"`
	ConfigPath         string                   `json:"configPath"`
}

// Results returns the base result followed by the alternatives.
func (cs *ComparisonSet) Results() []ComparisonResult {
	out := make([]ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		out = append(out, *cs.BaseResult)
	}
	return append(out, cs.AlternativeResults...)
}

// MetricsCalculator extracts key metrics from result bundles
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics for one result bundle
func (mc *MetricsCalculator) CalculateMetrics(bundle *domain.ResultBundle) ComparisonResult {
	return ComparisonResult{
		ScenarioName:         bundle.Configuration.Name,
		Result:               bundle,
		Design:               designSummary(bundle.Configuration),
		UptakeProbability:    bundle.Choice.UptakeProbability,
		EndorsedParticipants: bundle.Reach.EndorsedParticipants,
		TotalCost:            bundle.Cost.TotalCostAllGroups,
		TotalBenefit:         bundle.Aggregate.TotalBenefit,
		NetBenefit:           bundle.Aggregate.NetBenefit,
		BenefitCostRatio:     bundle.Aggregate.BenefitCostRatio,
		Status:               bundle.Status,
	}
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.UptakeDiffFromBase = (scenario.UptakeProbability - base.UptakeProbability) * 100
	scenario.CostDiffFromBase = scenario.TotalCost.Sub(base.TotalCost)

	if !base.TotalCost.IsZero() {
		scenario.CostPctFromBase = scenario.CostDiffFromBase.
			Div(base.TotalCost).
			Mul(decimal.NewFromInt(100))
	}

	scenario.NetBenefitDiffFromBase = diffNull(scenario.NetBenefit, base.NetBenefit)
	scenario.BCRDiffFromBase = diffNull(scenario.BenefitCostRatio, base.BenefitCostRatio)

	return scenario
}

func diffNull(a, b decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid || !b.Valid {
		return domain.Undefined()
	}
	return domain.Defined(a.Decimal.Sub(b.Decimal))
}

// designSummary is a compact description of the attribute levels, e.g.
// "advanced / certificate / high / online / 30d".
func designSummary(cfg domain.Configuration) string {
	parts := make([]string, 0, len(domain.Dimensions()))
	for _, d := range domain.Dimensions() {
		level := string(cfg.Level(d))
		if d == domain.DimensionResponse {
			level += "d"
		}
		parts = append(parts, level)
	}
	return strings.Join(parts, " / ")
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	// Best value for money
	bestValue := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if greaterNull(alt.BenefitCostRatio, bestValue.BenefitCostRatio) {
			bestValue = alt
		}
	}
	if bestValue != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Best Value: %s has a benefit-cost ratio of %s (%s)",
				bestValue.ScenarioName, bestValue.BenefitCostRatio.Decimal.StringFixed(2), bestValue.Status))
	}

	// Highest expected uptake
	bestUptake := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.UptakeProbability > bestUptake.UptakeProbability {
			bestUptake = alt
		}
	}
	if bestUptake != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Best Uptake: %s raises expected uptake by %.1f percentage points",
				bestUptake.ScenarioName, (bestUptake.UptakeProbability-base.UptakeProbability)*100))
	}

	// Largest net benefit
	bestNet := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if greaterNull(alt.NetBenefit, bestNet.NetBenefit) {
			bestNet = alt
		}
	}
	if bestNet != base && base.NetBenefit.Valid {
		gain := bestNet.NetBenefit.Decimal.Sub(base.NetBenefit.Decimal)
		recommendations = append(recommendations,
			fmt.Sprintf("Best Net Benefit: %s adds %s in net benefit", bestNet.ScenarioName, gain.StringFixed(0)))
	}

	return recommendations
}

// greaterNull reports whether a is defined and exceeds b; any defined value
// beats an undefined one.
func greaterNull(a, b decimal.NullDecimal) bool {
	if !a.Valid {
		return false
	}
	if !b.Valid {
		return true
	}
	return a.Decimal.GreaterThan(b.Decimal)
}
