package calculation

import (
	"errors"
	"testing"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advancedConfig() domain.Configuration {
	cfg := referenceConfig(100, 10, 2, 12)
	cfg.Name = "Advanced"
	cfg.Tier = "advanced"
	cfg.IncludeOpportunityCost = true
	return cfg
}

func TestNewCalculationEngine(t *testing.T) {
	ce := NewCalculationEngine()
	require.NotNil(t, ce)
	assert.NotEmpty(t, ce.Regions)
	assert.IsType(t, NopLogger{}, ce.Logger)

	ce.SetLogger(nil)
	assert.IsType(t, NopLogger{}, ce.Logger)

	logger := &TestLogger{}
	ce.SetLogger(logger)
	assert.Same(t, logger, ce.Logger)
}

func TestNewCalculationEngineWith_NilRegions(t *testing.T) {
	ce := NewCalculationEngineWith(nil, domain.DefaultAssumptions())
	assert.Equal(t, domain.DefaultRegionTable(), ce.Regions)
}

func TestCalculationEngine_WithAssumptionsCopies(t *testing.T) {
	ce := NewCalculationEngine()
	a := domain.DefaultAssumptions()
	a.ValuePerQALY = decimal.NewFromInt(1)

	other := ce.WithAssumptions(a)
	assert.True(t, other.Assumptions.ValuePerQALY.Equal(decimal.NewFromInt(1)))
	assert.True(t, ce.Assumptions.ValuePerQALY.Equal(decimal.NewFromInt(50000)))
}

func TestComputeFullResult_WTP(t *testing.T) {
	ce := NewCalculationEngine()
	cfg := advancedConfig()

	bundle, err := ce.ComputeFullResult(cfg, averageSet(), domain.WTPBenefit())
	require.NoError(t, err)

	assert.Equal(t, "average", bundle.Segment)
	assert.Equal(t, "Average preference model", bundle.SegmentLabel)
	assert.True(t, bundle.Cost.TotalCostAllGroups.Equal(decimal.NewFromInt(28800)))
	require.True(t, bundle.Aggregate.TotalBenefit.Valid)
	assert.True(t, bundle.Aggregate.TotalBenefit.Decimal.Equal(decimal.NewFromInt(600000)))
	require.True(t, bundle.Aggregate.BenefitCostRatio.Valid)
	assert.InDelta(t, 20.8333, bundle.Aggregate.BenefitCostRatio.Decimal.InexactFloat64(), 0.001)
	assert.Equal(t, domain.StatusStrong, bundle.Status)

	assert.Equal(t, 20, bundle.Reach.TotalParticipants)
	p := bundle.Choice.UptakeProbability
	assert.InDelta(t, 20*p, bundle.Reach.EndorsedParticipants.InexactFloat64(), 1e-9)

	require.True(t, bundle.EffectiveBenefit.Valid)
	assert.InDelta(t, 600000*p, bundle.EffectiveBenefit.Decimal.InexactFloat64(), 1e-6)
}

func TestComputeFullResult_QALYHasNoEffectiveBenefit(t *testing.T) {
	ce := NewCalculationEngine()

	bundle, err := ce.ComputeFullResult(advancedConfig(), averageSet(), domain.QALYBenefit(domain.QALYModerate))
	require.NoError(t, err)

	assert.False(t, bundle.EffectiveBenefit.Valid)
	assert.True(t, bundle.Aggregate.TotalBenefit.Valid)
	assert.Equal(t, domain.QALYBenefit(domain.QALYModerate), bundle.Aggregate.Definition)
}

func TestComputeFullResult_ZeroCostWeight(t *testing.T) {
	ce := NewCalculationEngine()
	logger := &TestLogger{}
	ce.SetLogger(logger)

	set := averageSet()
	set.CostWeight = 0

	bundle, err := ce.ComputeFullResult(advancedConfig(), set, domain.WTPBenefit())
	require.NoError(t, err)

	assert.False(t, bundle.Aggregate.NetBenefit.Valid)
	assert.False(t, bundle.Aggregate.BenefitCostRatio.Valid)
	assert.Equal(t, domain.StatusNotApplicable, bundle.Status)
	assert.NotEmpty(t, logger.messages)
}

func TestComputeFullResult_ZeroCostHasNoRatio(t *testing.T) {
	ce := NewCalculationEngine()
	cfg := advancedConfig()
	cfg.UnitCost = decimal.Zero

	bundle, err := ce.ComputeFullResult(cfg, averageSet(), domain.WTPBenefit())
	require.NoError(t, err)

	assert.True(t, bundle.Aggregate.NetBenefit.Valid)
	assert.False(t, bundle.Aggregate.BenefitCostRatio.Valid)
	assert.Equal(t, domain.StatusNotApplicable, bundle.Status)
}

func TestComputeFullResult_InvalidConfiguration(t *testing.T) {
	ce := NewCalculationEngine()
	cfg := advancedConfig()
	cfg.NumberOfGroups = -1

	_, err := ce.ComputeFullResult(cfg, averageSet(), domain.WTPBenefit())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Advanced", verr.Scenario)
}

func TestComputeFullResult_DebugLogging(t *testing.T) {
	ce := NewCalculationEngine()
	ce.Debug = true
	logger := &TestLogger{}
	ce.SetLogger(logger)

	cfg := advancedConfig()
	cfg.RegionAdjustment = true
	cfg.RegionCode = "ZZ"

	_, err := ce.ComputeFullResult(cfg, averageSet(), domain.WTPBenefit())
	require.NoError(t, err)

	var debug, warn int
	for _, m := range logger.messages {
		switch {
		case len(m) > 6 && m[:6] == "DEBUG:":
			debug++
		case len(m) > 5 && m[:5] == "WARN:":
			warn++
		}
	}
	assert.Equal(t, 2, debug)
	assert.Equal(t, 1, warn)
}

func TestComputeAllDefinitions(t *testing.T) {
	ce := NewCalculationEngine()

	bundles, err := ce.ComputeAllDefinitions(advancedConfig(), averageSet())
	require.NoError(t, err)
	require.Len(t, bundles, len(domain.AllBenefitDefinitions()))

	for i, def := range domain.AllBenefitDefinitions() {
		assert.Equal(t, def, bundles[i].Definition)
		assert.True(t, bundles[i].Cost.TotalCostAllGroups.Equal(bundles[0].Cost.TotalCostAllGroups))
		assert.Equal(t, bundles[0].Choice, bundles[i].Choice)
	}
}

func TestRunScenario(t *testing.T) {
	ce := NewCalculationEngine()
	input := &domain.ScenarioInput{
		Name: "Mentored",
		Attributes: map[domain.Dimension]domain.LevelSelection{
			domain.DimensionMentorship: {"high"},
		},
		UnitCost:             decimal.NewFromInt(80),
		ParticipantsPerGroup: 12,
		NumberOfGroups:       3,
	}

	bundle, err := ce.RunScenario(input, averageSet(), domain.WTPBenefit())
	require.NoError(t, err)
	assert.Equal(t, "Mentored", bundle.Configuration.Name)
	assert.Equal(t, 3, bundle.Cost.DurationPeriods)

	input.Attributes[domain.DimensionMentorship] = domain.LevelSelection{"high", "low"}
	_, err = ce.RunScenario(input, averageSet(), domain.WTPBenefit())
	assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))
}

func TestBuildBenefitTable(t *testing.T) {
	ce := NewCalculationEngine()
	current, err := ce.ComputeFullResult(advancedConfig(), averageSet(), domain.WTPBenefit())
	require.NoError(t, err)

	rows := BuildBenefitTable([]LabeledResult{
		{Label: "Current", Result: current},
		{Label: "Missing"},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "Current", rows[0].Label)
	assert.Equal(t, current.Aggregate.BenefitCostRatio, rows[0].BenefitCostRatio)
	assert.Equal(t, current.EffectiveBenefit, rows[0].EffectiveBenefit)
	assert.True(t, rows[0].TotalCostPerGroup.Equal(decimal.NewFromInt(14400)))
}
