package domain

import "github.com/shopspring/decimal"

// ChoiceResult is the outcome of the two-alternative logit model.
type ChoiceResult struct {
	BaseUtility       float64 `json:"base_utility"`
	CostTerm          float64 `json:"cost_term"`
	ProgrammeUtility  float64 `json:"programme_utility"`
	OptOutUtility     float64 `json:"opt_out_utility"`
	UptakeProbability float64 `json:"uptake_probability"`
	OptOutProbability float64 `json:"opt_out_probability"`
}

// CostComponent is an illustrative share of direct programme cost.
type CostComponent struct {
	ID                      string          `json:"id"`
	Label                   string          `json:"label"`
	Share                   decimal.Decimal `json:"share"`
	AmountPerGroup          decimal.Decimal `json:"amount_per_group"`
	PerParticipantPerPeriod decimal.Decimal `json:"per_participant_per_period"`
}

// CostResult holds the economic cost of a configuration.
type CostResult struct {
	AdjustedUnitCost        decimal.Decimal `json:"adjusted_unit_cost"`
	RegionMultiplier        decimal.Decimal `json:"region_multiplier"`
	DurationPeriods         int             `json:"duration_periods"`
	DirectCostPerGroup      decimal.Decimal `json:"direct_cost_per_group"`
	OpportunityCostPerGroup decimal.Decimal `json:"opportunity_cost_per_group"`
	TotalCostPerGroup       decimal.Decimal `json:"total_cost_per_group"`
	TotalCostAllGroups      decimal.Decimal `json:"total_cost_all_groups"`
	Components              []CostComponent `json:"components"`
}

// BenefitResult holds monetised benefit under one definition. Fields that do not
// apply to the definition are left at zero or invalid.
type BenefitResult struct {
	Definition                 BenefitDefinition   `json:"definition"`
	WTPPerParticipantPerPeriod decimal.NullDecimal `json:"wtp_per_participant_per_period"`
	WTPPerGroup                decimal.NullDecimal `json:"wtp_per_group"`
	TotalWTPAllGroups          decimal.NullDecimal `json:"total_wtp_all_groups"`
	BenefitParticipants        decimal.Decimal     `json:"benefit_participants"`
	QALYGainsTotal             decimal.Decimal     `json:"qaly_gains_total"`
	MonetisedQALYBenefit       decimal.Decimal     `json:"monetised_qaly_benefit"`
	SavingsTotal               decimal.Decimal     `json:"savings_total"`
	TotalBenefit               decimal.NullDecimal `json:"total_benefit"`
}

// CostBenefitResult combines cost with one benefit definition.
type CostBenefitResult struct {
	Definition       BenefitDefinition   `json:"definition"`
	TotalBenefit     decimal.NullDecimal `json:"total_benefit"`
	TotalCost        decimal.Decimal     `json:"total_cost"`
	NetBenefit       decimal.NullDecimal `json:"net_benefit"`
	BenefitCostRatio decimal.NullDecimal `json:"benefit_cost_ratio"`
}

// Reach describes how many people the programme serves.
type Reach struct {
	TotalParticipants    int             `json:"total_participants"`
	EndorsedParticipants decimal.Decimal `json:"endorsed_participants"`
}

// ValueStatus is the headline value-for-money assessment.
type ValueStatus string

// Value statuses
const (
	StatusStrong        ValueStatus = "Strong value for money"
	StatusBorderline    ValueStatus = "Borderline value for money"
	StatusPoor          ValueStatus = "Costs likely exceed benefits"
	StatusNotApplicable ValueStatus = "Not applicable"
)

var (
	strongBCR     = decimal.NewFromFloat(1.5)
	borderlineBCR = decimal.NewFromInt(1)
)

// StatusForBCR classifies a benefit-cost ratio.
func StatusForBCR(bcr decimal.NullDecimal) ValueStatus {
	if !bcr.Valid {
		return StatusNotApplicable
	}
	switch {
	case bcr.Decimal.GreaterThanOrEqual(strongBCR):
		return StatusStrong
	case bcr.Decimal.GreaterThanOrEqual(borderlineBCR):
		return StatusBorderline
	default:
		return StatusPoor
	}
}

// ResultBundle is everything computed for one configuration, segment and benefit definition.
type ResultBundle struct {
	Configuration    Configuration       `json:"configuration"`
	Segment          string              `json:"segment"`
	SegmentLabel     string              `json:"segment_label"`
	Definition       BenefitDefinition   `json:"definition"`
	Choice           ChoiceResult        `json:"choice"`
	Cost             CostResult          `json:"cost"`
	Benefit          BenefitResult       `json:"benefit"`
	Aggregate        CostBenefitResult   `json:"aggregate"`
	Reach            Reach               `json:"reach"`
	EffectiveBenefit decimal.NullDecimal `json:"effective_benefit"` // total benefit weighted by uptake
	Status           ValueStatus         `json:"status"`
}

// Undefined is the "not applicable" value for optional figures.
func Undefined() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

// Defined wraps a value as present.
func Defined(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// SegmentChoice is the choice result for one population segment.
type SegmentChoice struct {
	Segment string       `json:"segment"`
	Label   string       `json:"label"`
	Choice  ChoiceResult `json:"choice"`
}

// PooledLabel marks the pooled view as a convenience figure.
const PooledLabel = "Pooled (simple average across segments, not a statistical estimate)"

// PooledChoice averages uptake across segments. It is an optional view and never
// replaces a per-segment figure.
type PooledChoice struct {
	Label             string          `json:"label"`
	Segments          []SegmentChoice `json:"segments"`
	UptakeProbability float64         `json:"uptake_probability"`
	OptOutProbability float64         `json:"opt_out_probability"`
}

// BenefitTableRow is one line of the benefit comparison across the current
// configuration and saved scenarios.
type BenefitTableRow struct {
	Label             string              `json:"label"`
	Segment           string              `json:"segment"`
	Definition        BenefitDefinition   `json:"definition"`
	UptakeProbability float64             `json:"uptake_probability"`
	TotalCostPerGroup decimal.Decimal     `json:"total_cost_per_group"`
	TotalCost         decimal.Decimal     `json:"total_cost"`
	TotalBenefit      decimal.NullDecimal `json:"total_benefit"`
	EffectiveBenefit  decimal.NullDecimal `json:"effective_benefit"`
	BenefitCostRatio  decimal.NullDecimal `json:"benefit_cost_ratio"`
	NetBenefit        decimal.NullDecimal `json:"net_benefit"`
}
