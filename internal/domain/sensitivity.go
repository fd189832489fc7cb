package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Sensitivity parameter names
const (
	ParamUnitCost              = "unit_cost"
	ParamParticipantsPerGroup  = "participants_per_group"
	ParamNumberOfGroups        = "number_of_groups"
	ParamOpportunityCostRate   = "opportunity_cost_rate"
	ParamValuePerQALY          = "value_per_qaly"
	ParamSavingsPerParticipant = "savings_per_participant"
)

// SensitivityParameter represents a parameter to sweep in sensitivity analysis
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	BaseValue   decimal.Decimal `yaml:"base_value" json:"baseValue"`
	Unit        string          `yaml:"unit" json:"unit"` // "currency", "percent", "count"
	Description string          `yaml:"description" json:"description"`
}

// Validate checks the sweep bounds.
func (p SensitivityParameter) Validate() error {
	if _, ok := knownParameters[p.Name]; !ok {
		return fmt.Errorf("unknown sensitivity parameter %q", p.Name)
	}
	if p.Steps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}
	if p.MinValue.IsNegative() {
		return fmt.Errorf("%s: minimum cannot be negative", p.Name)
	}
	if p.MaxValue.LessThan(p.MinValue) {
		return fmt.Errorf("%s: maximum %s is below minimum %s", p.Name, p.MaxValue, p.MinValue)
	}
	return nil
}

var knownParameters = map[string]SensitivityParameter{
	ParamUnitCost: {
		Name: ParamUnitCost, Unit: "currency",
		Description: "Cost per participant per period",
	},
	ParamParticipantsPerGroup: {
		Name: ParamParticipantsPerGroup, Unit: "count",
		Description: "Participants in each group",
	},
	ParamNumberOfGroups: {
		Name: ParamNumberOfGroups, Unit: "count",
		Description: "Number of groups delivered",
	},
	ParamOpportunityCostRate: {
		Name: ParamOpportunityCostRate, Unit: "percent",
		Description: "Opportunity cost as a share of direct cost",
	},
	ParamValuePerQALY: {
		Name: ParamValuePerQALY, Unit: "currency",
		Description: "Monetary value of one QALY",
	},
	ParamSavingsPerParticipant: {
		Name: ParamSavingsPerParticipant, Unit: "currency",
		Description: "Avoided service cost per endorsed participant",
	},
}

// LookupParameter returns the unit and description of a named parameter with the
// given sweep bounds filled in.
func LookupParameter(name string, min, max, base decimal.Decimal, steps int) (SensitivityParameter, error) {
	p, ok := knownParameters[name]
	if !ok {
		return SensitivityParameter{}, fmt.Errorf("unknown sensitivity parameter %q", name)
	}
	p.MinValue, p.MaxValue, p.BaseValue, p.Steps = min, max, base, steps
	return p, p.Validate()
}

// ParameterNames lists the parameters that can be swept.
func ParameterNames() []string {
	return []string{
		ParamUnitCost,
		ParamParticipantsPerGroup,
		ParamNumberOfGroups,
		ParamOpportunityCostRate,
		ParamValuePerQALY,
		ParamSavingsPerParticipant,
	}
}

// SensitivityPoint is the outcome at one value of the swept parameter.
type SensitivityPoint struct {
	Value             decimal.Decimal     `json:"value"`
	UptakeProbability float64             `json:"uptakeProbability"`
	TotalCost         decimal.Decimal     `json:"totalCost"`
	TotalBenefit      decimal.NullDecimal `json:"totalBenefit"`
	NetBenefit        decimal.NullDecimal `json:"netBenefit"`
	BenefitCostRatio  decimal.NullDecimal `json:"benefitCostRatio"`
	Status            ValueStatus         `json:"status"`
}

// ParameterSensitivityAnalysis is a single-parameter sweep.
type ParameterSensitivityAnalysis struct {
	ScenarioName string               `json:"scenarioName"`
	Segment      string               `json:"segment"`
	Definition   BenefitDefinition    `json:"definition"`
	Parameter    SensitivityParameter `json:"parameter"`
	Base         SensitivityPoint     `json:"base"`
	Points       []SensitivityPoint   `json:"points"`
	Summary      SensitivitySummary   `json:"summary"`
}

// SensitivitySummary provides overall analysis summary
type SensitivitySummary struct {
	MaxElasticity    decimal.Decimal `json:"maxElasticity"` // |%Δ BCR| / |%Δ parameter|
	StatusChanges    bool            `json:"statusChanges"` // the value-for-money status differs across the sweep
	BreakEvenCrossed bool            `json:"breakEvenCrossed"`
	Recommendations  []string        `json:"recommendations"`
	RiskLevel        string          `json:"riskLevel"` // "LOW", "MEDIUM", "HIGH", "CRITICAL"
}

// DetermineRiskLevel grades the sweep by elasticity, escalating when the
// break-even point falls inside the swept range.
func (ss *SensitivitySummary) DetermineRiskLevel() string {
	level := "LOW"
	switch {
	case ss.MaxElasticity.GreaterThanOrEqual(decimal.NewFromInt(2)):
		level = "CRITICAL"
	case ss.MaxElasticity.GreaterThanOrEqual(decimal.NewFromInt(1)):
		level = "HIGH"
	case ss.MaxElasticity.GreaterThanOrEqual(decimal.NewFromFloat(0.5)):
		level = "MEDIUM"
	}
	if ss.BreakEvenCrossed && (level == "LOW" || level == "MEDIUM") {
		level = "HIGH"
	}
	return level
}

// GenerateRecommendations generates recommendations based on sensitivity analysis
func (ss *SensitivitySummary) GenerateRecommendations(param string) []string {
	var recommendations []string

	switch ss.DetermineRiskLevel() {
	case "LOW":
		recommendations = append(recommendations, "Value for money is robust across the tested range")
	case "MEDIUM":
		recommendations = append(recommendations, "Monitor this assumption when finalising the programme budget")
	case "HIGH":
		recommendations = append(recommendations, "Results depend strongly on this assumption")
		recommendations = append(recommendations, "Report results for the low and high values alongside the central case")
	case "CRITICAL":
		recommendations = append(recommendations, "⚠️ Results are highly sensitive to this assumption")
		recommendations = append(recommendations, "Seek better local evidence before committing funds")
	}

	if ss.BreakEvenCrossed {
		recommendations = append(recommendations, "The benefit-cost ratio crosses 1.0 within the tested range")
	}

	switch param {
	case ParamUnitCost:
		recommendations = append(recommendations, "Negotiate unit costs or test a lighter-touch design")
	case ParamParticipantsPerGroup, ParamNumberOfGroups:
		recommendations = append(recommendations, "Scale changes cost and benefit together; check delivery capacity")
	case ParamValuePerQALY, ParamSavingsPerParticipant:
		recommendations = append(recommendations, "Benefit valuation drives the result; state the valuation source")
	case ParamOpportunityCostRate:
		recommendations = append(recommendations, "Document how participant and carer time is valued")
	}

	return recommendations
}
