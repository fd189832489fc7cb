package calculation

import (
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

type costShare struct {
	id    string
	label string
	share decimal.Decimal
}

// Illustrative split of direct programme cost.
var costShares = []costShare{
	{id: "facilitator", label: "Facilitators and staff time", share: decimal.NewFromFloat(0.45)},
	{id: "venue", label: "Venue and overheads", share: decimal.NewFromFloat(0.25)},
	{id: "materials", label: "Materials and digital tools", share: decimal.NewFromFloat(0.15)},
	{id: "coordination", label: "Coordination and management", share: decimal.NewFromFloat(0.15)},
}

// ComputeCosts returns direct, opportunity and total costs. Opportunity cost is
// a flat share of direct cost (assumptions.OpportunityCostRate).
func ComputeCosts(cfg domain.Configuration, regions domain.RegionTable, assumptions domain.Assumptions) domain.CostResult {
	adjusted, multiplier := AdjustedUnitCost(cfg, regions)
	periods := cfg.Periods()
	participants := decimal.NewFromInt(int64(cfg.ParticipantsPerGroup))

	direct := adjusted.Mul(participants).Mul(decimal.NewFromInt(int64(periods)))

	opportunity := decimal.Zero
	if cfg.IncludeOpportunityCost {
		opportunity = direct.Mul(assumptions.OpportunityCostRate)
	}

	perGroup := direct.Add(opportunity)
	all := perGroup.Mul(decimal.NewFromInt(int64(cfg.NumberOfGroups)))

	return domain.CostResult{
		AdjustedUnitCost:        adjusted,
		RegionMultiplier:        multiplier,
		DurationPeriods:         periods,
		DirectCostPerGroup:      direct,
		OpportunityCostPerGroup: opportunity,
		TotalCostPerGroup:       perGroup,
		TotalCostAllGroups:      all,
		Components:              costComponents(direct, cfg.ParticipantsPerGroup, periods),
	}
}

func costComponents(direct decimal.Decimal, participants, periods int) []domain.CostComponent {
	units := decimal.NewFromInt(int64(participants * periods))
	components := make([]domain.CostComponent, 0, len(costShares))
	for _, s := range costShares {
		amount := direct.Mul(s.share)
		perUnit := decimal.Zero
		if units.IsPositive() {
			perUnit = amount.Div(units).Round(2)
		}
		components = append(components, domain.CostComponent{
			ID:                      s.id,
			Label:                   s.label,
			Share:                   s.share,
			AmountPerGroup:          amount,
			PerParticipantPerPeriod: perUnit,
		})
	}
	return components
}
