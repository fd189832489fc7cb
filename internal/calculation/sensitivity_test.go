package calculation

import (
	"context"
	"testing"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sensitivityInput() *domain.ScenarioInput {
	return &domain.ScenarioInput{
		Name: "Advanced",
		Attributes: map[domain.Dimension]domain.LevelSelection{
			domain.DimensionTier: {"advanced"},
		},
		UnitCost:               decimal.NewFromInt(100),
		ParticipantsPerGroup:   10,
		NumberOfGroups:         2,
		DurationPeriods:        12,
		IncludeOpportunityCost: true,
	}
}

func TestAnalyzeSingleParameter_UnitCost(t *testing.T) {
	sa := NewSensitivityAnalyzer(NewCalculationEngine())
	param, err := domain.LookupParameter(domain.ParamUnitCost,
		decimal.NewFromInt(50), decimal.NewFromInt(150), decimal.NewFromInt(100), 3)
	require.NoError(t, err)

	analysis, err := sa.AnalyzeSingleParameter(context.Background(), sensitivityInput(), averageSet(), domain.WTPBenefit(), param)
	require.NoError(t, err)

	require.Len(t, analysis.Points, 3)
	assert.True(t, analysis.Points[0].Value.Equal(decimal.NewFromInt(50)))
	assert.True(t, analysis.Points[2].Value.Equal(decimal.NewFromInt(150)))
	assert.True(t, analysis.Points[0].BenefitCostRatio.Decimal.GreaterThan(analysis.Points[2].BenefitCostRatio.Decimal))

	// halving the cost doubles the ratio
	assert.InDelta(t, 2.0, analysis.Summary.MaxElasticity.InexactFloat64(), 0.001)
	assert.False(t, analysis.Summary.BreakEvenCrossed)
	assert.False(t, analysis.Summary.StatusChanges)
	assert.NotEmpty(t, analysis.Summary.Recommendations)
	assert.Equal(t, "average", analysis.Segment)
}

func TestAnalyzeSingleParameter_BreakEvenCrossed(t *testing.T) {
	sa := NewSensitivityAnalyzer(nil)
	param, err := domain.LookupParameter(domain.ParamUnitCost,
		decimal.NewFromInt(1000), decimal.NewFromInt(3000), decimal.NewFromInt(2000), 3)
	require.NoError(t, err)

	analysis, err := sa.AnalyzeSingleParameter(context.Background(), sensitivityInput(), averageSet(), domain.WTPBenefit(), param)
	require.NoError(t, err)

	assert.True(t, analysis.Summary.BreakEvenCrossed)
	assert.True(t, analysis.Summary.StatusChanges)
	assert.Equal(t, domain.StatusStrong, analysis.Points[0].Status)
	assert.Equal(t, domain.StatusPoor, analysis.Points[2].Status)
}

func TestAnalyzeSingleParameter_AssumptionParameter(t *testing.T) {
	engine := NewCalculationEngine()
	sa := NewSensitivityAnalyzer(engine)
	param, err := domain.LookupParameter(domain.ParamValuePerQALY,
		decimal.NewFromInt(25000), decimal.NewFromInt(75000), decimal.NewFromInt(50000), 3)
	require.NoError(t, err)

	analysis, err := sa.AnalyzeSingleParameter(context.Background(), sensitivityInput(), averageSet(), domain.QALYBenefit(domain.QALYModerate), param)
	require.NoError(t, err)

	low := analysis.Points[0].TotalBenefit.Decimal
	high := analysis.Points[2].TotalBenefit.Decimal
	assert.True(t, high.Equal(low.Mul(decimal.NewFromInt(3))), "%s vs %s", high, low)
	assert.True(t, engine.Assumptions.ValuePerQALY.Equal(decimal.NewFromInt(50000)), "engine assumptions are not mutated")
}

func TestAnalyzeSingleParameter_Errors(t *testing.T) {
	sa := NewSensitivityAnalyzer(nil)

	_, err := sa.AnalyzeSingleParameter(context.Background(), sensitivityInput(), averageSet(), domain.WTPBenefit(),
		domain.SensitivityParameter{Name: "colour", Steps: 3})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	param, err := domain.LookupParameter(domain.ParamNumberOfGroups,
		decimal.NewFromInt(1), decimal.NewFromInt(5), decimal.NewFromInt(2), 5)
	require.NoError(t, err)
	_, err = sa.AnalyzeSingleParameter(ctx, sensitivityInput(), averageSet(), domain.WTPBenefit(), param)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateParameterValues(t *testing.T) {
	sa := NewSensitivityAnalyzer(nil)

	values := sa.generateParameterValues(domain.SensitivityParameter{
		MinValue: decimal.NewFromInt(0), MaxValue: decimal.NewFromInt(10), Steps: 5,
	})
	require.Len(t, values, 5)
	assert.True(t, values[1].Equal(decimal.NewFromFloat(2.5)))
	assert.True(t, values[4].Equal(decimal.NewFromInt(10)))

	single := sa.generateParameterValues(domain.SensitivityParameter{BaseValue: decimal.NewFromInt(7), Steps: 1})
	assert.Equal(t, []decimal.Decimal{decimal.NewFromInt(7)}, single)
}
