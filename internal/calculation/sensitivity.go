package calculation

import (
	"context"
	"fmt"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	calculationEngine *CalculationEngine
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer
func NewSensitivityAnalyzer(engine *CalculationEngine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewCalculationEngine()
	}
	return &SensitivityAnalyzer{calculationEngine: engine}
}

// AnalyzeSingleParameter sweeps one parameter between its bounds and reports
// uptake, cost, benefit and BCR at every step.
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	ctx context.Context,
	input *domain.ScenarioInput,
	coefficients domain.CoefficientSet,
	def domain.BenefitDefinition,
	parameter domain.SensitivityParameter,
) (*domain.ParameterSensitivityAnalysis, error) {
	if err := parameter.Validate(); err != nil {
		return nil, err
	}

	base, err := sa.evaluate(input, coefficients, def, parameter.Name, parameter.BaseValue)
	if err != nil {
		return nil, fmt.Errorf("failed to run base case: %w", err)
	}

	values := sa.generateParameterValues(parameter)
	points := make([]domain.SensitivityPoint, 0, len(values))
	for _, value := range values {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		point, err := sa.evaluate(input, coefficients, def, parameter.Name, value)
		if err != nil {
			return nil, fmt.Errorf("failed to run scenario for %s=%s: %w", parameter.Name, value, err)
		}
		points = append(points, point)
	}

	return &domain.ParameterSensitivityAnalysis{
		ScenarioName: input.Name,
		Segment:      coefficients.Key,
		Definition:   def,
		Parameter:    parameter,
		Base:         base,
		Points:       points,
		Summary:      sa.calculateSensitivitySummary(base, points, parameter),
	}, nil
}

// generateParameterValues generates values for a parameter sweep
func (sa *SensitivityAnalyzer) generateParameterValues(param domain.SensitivityParameter) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{param.BaseValue}
	}

	values := make([]decimal.Decimal, 0, param.Steps)
	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	for i := 0; i < param.Steps; i++ {
		values = append(values, param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	return values
}

// evaluate applies one parameter value to a copy of the inputs and computes the result.
func (sa *SensitivityAnalyzer) evaluate(
	input *domain.ScenarioInput,
	coefficients domain.CoefficientSet,
	def domain.BenefitDefinition,
	name string,
	value decimal.Decimal,
) (domain.SensitivityPoint, error) {
	modified := input.DeepCopy()
	engine := sa.calculationEngine

	switch name {
	case domain.ParamUnitCost:
		modified.UnitCost = value
	case domain.ParamParticipantsPerGroup:
		modified.ParticipantsPerGroup = int(value.Round(0).IntPart())
	case domain.ParamNumberOfGroups:
		modified.NumberOfGroups = int(value.Round(0).IntPart())
	case domain.ParamOpportunityCostRate:
		a := engine.Assumptions
		a.OpportunityCostRate = value
		engine = engine.WithAssumptions(a)
	case domain.ParamValuePerQALY:
		a := engine.Assumptions
		a.ValuePerQALY = value
		engine = engine.WithAssumptions(a)
	case domain.ParamSavingsPerParticipant:
		a := engine.Assumptions
		a.SavingsPerParticipant = value
		engine = engine.WithAssumptions(a)
	default:
		return domain.SensitivityPoint{}, fmt.Errorf("unknown sensitivity parameter %q", name)
	}

	bundle, err := engine.RunScenario(modified, coefficients, def)
	if err != nil {
		return domain.SensitivityPoint{}, err
	}
	return domain.SensitivityPoint{
		Value:             value,
		UptakeProbability: bundle.Choice.UptakeProbability,
		TotalCost:         bundle.Cost.TotalCostAllGroups,
		TotalBenefit:      bundle.Aggregate.TotalBenefit,
		NetBenefit:        bundle.Aggregate.NetBenefit,
		BenefitCostRatio:  bundle.Aggregate.BenefitCostRatio,
		Status:            bundle.Status,
	}, nil
}

// calculateSensitivitySummary grades how strongly the BCR responds to the parameter.
func (sa *SensitivityAnalyzer) calculateSensitivitySummary(base domain.SensitivityPoint, points []domain.SensitivityPoint, parameter domain.SensitivityParameter) domain.SensitivitySummary {
	summary := domain.SensitivitySummary{MaxElasticity: decimal.Zero}
	one := decimal.NewFromInt(1)

	above, below := false, false
	for _, p := range points {
		if p.Status != base.Status {
			summary.StatusChanges = true
		}
		if p.BenefitCostRatio.Valid {
			if p.BenefitCostRatio.Decimal.GreaterThanOrEqual(one) {
				above = true
			} else {
				below = true
			}
		}

		if parameter.BaseValue.IsZero() || !p.BenefitCostRatio.Valid || !base.BenefitCostRatio.Valid || base.BenefitCostRatio.Decimal.IsZero() {
			continue
		}
		paramChange := p.Value.Sub(parameter.BaseValue).Div(parameter.BaseValue).Abs()
		if paramChange.IsZero() {
			continue
		}
		bcrChange := p.BenefitCostRatio.Decimal.Sub(base.BenefitCostRatio.Decimal).Div(base.BenefitCostRatio.Decimal).Abs()
		elasticity := bcrChange.Div(paramChange).Round(4)
		if elasticity.GreaterThan(summary.MaxElasticity) {
			summary.MaxElasticity = elasticity
		}
	}

	summary.BreakEvenCrossed = above && below
	summary.RiskLevel = summary.DetermineRiskLevel()
	summary.Recommendations = summary.GenerateRecommendations(parameter.Name)
	return summary
}
