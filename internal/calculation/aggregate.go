package calculation

import (
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// Aggregate combines total cost with one total benefit. Net benefit is undefined
// only when the benefit is; the ratio is also undefined when cost is zero.
func Aggregate(cost domain.CostResult, totalBenefit decimal.NullDecimal) domain.CostBenefitResult {
	result := domain.CostBenefitResult{
		TotalBenefit: totalBenefit,
		TotalCost:    cost.TotalCostAllGroups,
	}
	if !totalBenefit.Valid {
		return result
	}
	result.NetBenefit = domain.Defined(totalBenefit.Decimal.Sub(cost.TotalCostAllGroups))
	if cost.TotalCostAllGroups.IsPositive() {
		result.BenefitCostRatio = domain.Defined(totalBenefit.Decimal.Div(cost.TotalCostAllGroups))
	}
	return result
}
