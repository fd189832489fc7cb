package calculation

import (
	"math"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// maxExponent bounds the argument passed to math.Exp. exp(709.78) is the
// largest finite float64, so anything inside the bound stays finite.
const maxExponent = 700.0

// AdjustedUnitCost applies the region multiplier when region adjustment is on.
// It returns the adjusted cost and the multiplier used.
func AdjustedUnitCost(cfg domain.Configuration, regions domain.RegionTable) (decimal.Decimal, decimal.Decimal) {
	if !cfg.RegionAdjustment {
		return cfg.UnitCost, decimal.NewFromInt(1)
	}
	m, _ := regions.Multiplier(cfg.RegionCode)
	multiplier := decimal.NewFromFloat(m)
	return cfg.UnitCost.Mul(multiplier), multiplier
}

// ComputeChoice evaluates the programme and opt-out utilities and the logit
// probability of taking up the programme.
func ComputeChoice(cfg domain.Configuration, coefficients domain.CoefficientSet, regions domain.RegionTable) domain.ChoiceResult {
	adjustedCost, _ := AdjustedUnitCost(cfg, regions)

	base := coefficients.DesignUtility(cfg)
	costTerm := finite(coefficients.CostWeight) * adjustedCost.InexactFloat64()

	programme := finite(coefficients.ASCProgramme) + base + costTerm
	optOut := finite(coefficients.ASCOptOut)

	uptake := logitProbability(programme, optOut)

	return domain.ChoiceResult{
		BaseUtility:       base,
		CostTerm:          costTerm,
		ProgrammeUtility:  programme,
		OptOutUtility:     optOut,
		UptakeProbability: uptake,
		OptOutProbability: 1 - uptake,
	}
}

// logitProbability returns exp(a) / (exp(a) + exp(b)), evaluated on the
// utility difference so that only very large gaps reach the clamp. Equal
// or NaN utilities give 0.5.
func logitProbability(a, b float64) float64 {
	d := clampExponent(b - a)
	if d >= 0 {
		e := math.Exp(-d)
		return e / (1 + e)
	}
	return 1 / (1 + math.Exp(d))
}

func clampExponent(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x > maxExponent:
		return maxExponent
	case x < -maxExponent:
		return -maxExponent
	}
	return x
}

// finite treats NaN and infinite coefficients as missing.
func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
