package integration

import (
	"testing"

	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/config"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioFile = "../testdata/scenarios.yaml"

// loadReference parses the shared scenario file and resolves the default segment.
func loadReference(t *testing.T) (*domain.ScenarioFile, domain.CoefficientSet) {
	t.Helper()
	file, err := config.NewInputParser().LoadFromFile(scenarioFile)
	require.NoError(t, err)
	table, err := config.LoadCoefficientTable("")
	require.NoError(t, err)
	set, err := table.Resolve(file.Segment)
	require.NoError(t, err)
	return file, set
}

func TestEndToEndCalculation(t *testing.T) {
	file, set := loadReference(t)
	assert.Len(t, file.Scenarios, 2)

	engine := calculation.NewCalculationEngineWith(domain.DefaultRegionTable(), file.Assumptions)
	input, err := file.Scenario("Reference")
	require.NoError(t, err)

	def, err := file.BenefitDefinition()
	require.NoError(t, err)
	result, err := engine.RunScenario(input, set, def)
	require.NoError(t, err)

	assert.True(t, result.Cost.TotalCostAllGroups.Equal(decimal.NewFromInt(28800)), "total cost %s", result.Cost.TotalCostAllGroups)
	require.True(t, result.Aggregate.TotalBenefit.Valid)
	assert.True(t, result.Aggregate.TotalBenefit.Decimal.Equal(decimal.NewFromInt(600000)), "total benefit %s", result.Aggregate.TotalBenefit.Decimal)
	require.True(t, result.Aggregate.BenefitCostRatio.Valid)
	assert.Equal(t, "20.83", result.Aggregate.BenefitCostRatio.Decimal.StringFixed(2))
	assert.Equal(t, domain.StatusStrong, result.Status)
	assert.Equal(t, 20, result.Reach.TotalParticipants)
}

func TestCalculationConsistency(t *testing.T) {
	file, set := loadReference(t)
	engine := calculation.NewCalculationEngineWith(domain.DefaultRegionTable(), file.Assumptions)

	for i := range file.Scenarios {
		input := &file.Scenarios[i]
		t.Run(input.Name, func(t *testing.T) {
			def, err := file.BenefitDefinition()
			require.NoError(t, err)
			first, err := engine.RunScenario(input, set, def)
			require.NoError(t, err)
			second, err := engine.RunScenario(input, set, def)
			require.NoError(t, err)

			assert.Equal(t, first.Choice, second.Choice)
			assert.True(t, first.Cost.TotalCostAllGroups.Equal(second.Cost.TotalCostAllGroups))
			assert.Equal(t, first.Aggregate.BenefitCostRatio, second.Aggregate.BenefitCostRatio)
		})
	}
}

func TestAllBenefitDefinitions(t *testing.T) {
	file, set := loadReference(t)
	engine := calculation.NewCalculationEngineWith(domain.DefaultRegionTable(), file.Assumptions)
	input, err := file.Scenario("")
	require.NoError(t, err)
	cfg, err := input.Build()
	require.NoError(t, err)

	bundles, err := engine.ComputeAllDefinitions(cfg, set)
	require.NoError(t, err)
	require.Len(t, bundles, len(domain.AllBenefitDefinitions()))

	for _, b := range bundles {
		// cost does not depend on the benefit measure
		assert.True(t, b.Cost.TotalCostAllGroups.Equal(bundles[0].Cost.TotalCostAllGroups), "cost under %s", b.Definition)
		assert.InDelta(t, bundles[0].Choice.UptakeProbability, b.Choice.UptakeProbability, 1e-12)
		assert.InDelta(t, 1.0, b.Choice.UptakeProbability+b.Choice.OptOutProbability, 1e-12)
	}
}
