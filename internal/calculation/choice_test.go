package calculation

import (
	"math"
	"testing"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeChoice_AverageSegment(t *testing.T) {
	cfg := referenceConfig(100, 10, 2, 12)
	cfg.Tier = "advanced"

	choice := ComputeChoice(cfg, averageSet(), domain.DefaultRegionTable())

	assert.InDelta(t, 0.7, choice.BaseUtility, 1e-12, "advanced tier plus blended delivery")
	assert.InDelta(t, -0.02, choice.CostTerm, 1e-12)
	assert.InDelta(t, 0.93, choice.ProgrammeUtility, 1e-12)
	assert.Equal(t, -0.5, choice.OptOutUtility)
	assert.InDelta(t, 1/(1+math.Exp(-1.43)), choice.UptakeProbability, 1e-12)
}

func TestComputeChoice_ProbabilityBounds(t *testing.T) {
	sets := []domain.CoefficientSet{
		averageSet(),
		flatSet(0, 0, 0),
		flatSet(500, -500, 0),
		flatSet(-500, 500, 0),
		flatSet(0, 0, -10),
		flatSet(math.NaN(), 0, math.Inf(-1)),
	}
	costs := []int64{0, 1, 50, 100, 1000, 1_000_000}

	for _, set := range sets {
		for _, c := range costs {
			cfg := referenceConfig(c, 10, 1, 3)
			choice := ComputeChoice(cfg, set, nil)
			assert.False(t, math.IsNaN(choice.UptakeProbability))
			assert.GreaterOrEqual(t, choice.UptakeProbability, 0.0)
			assert.LessOrEqual(t, choice.UptakeProbability, 1.0)
			assert.InDelta(t, 1.0, choice.UptakeProbability+choice.OptOutProbability, 1e-12)
		}
	}
}

func TestComputeChoice_MonotoneInCost(t *testing.T) {
	set := averageSet()
	prev := 2.0
	for c := int64(0); c <= 2000; c += 100 {
		cfg := referenceConfig(c, 10, 1, 3)
		cfg.Mentorship = "high"
		p := ComputeChoice(cfg, set, nil).UptakeProbability
		assert.Less(t, p, prev, "uptake must fall as cost rises (cost=%d)", c)
		prev = p
	}
}

func TestComputeChoice_ReferenceLevelsContributeOnlyASCAndCost(t *testing.T) {
	set := flatSet(0.8, -0.3, -0.001)
	set.AttributeWeights = map[domain.Dimension]map[domain.Level]float64{
		domain.DimensionTier: {"frontline": 0, "advanced": 0.9},
	}
	cfg := referenceConfig(250, 10, 1, 3)

	choice := ComputeChoice(cfg, set, nil)
	assert.Equal(t, set.ASCProgramme+choice.CostTerm, choice.ProgrammeUtility)
	assert.Equal(t, set.CostWeight*250, choice.CostTerm)
}

func TestComputeChoice_EqualUtilitiesGiveHalf(t *testing.T) {
	for _, c := range []int64{0, 75, 10_000} {
		choice := ComputeChoice(referenceConfig(c, 5, 1, 3), flatSet(0, 0, 0), nil)
		assert.Equal(t, 0.5, choice.UptakeProbability)
		assert.Equal(t, 0.5, choice.OptOutProbability)
	}
}

func TestComputeChoice_StrongProgrammeConstant(t *testing.T) {
	choice := ComputeChoice(referenceConfig(100, 5, 1, 3), flatSet(10, 0, 0), nil)
	assert.InDelta(t, 1/(1+math.Exp(-10)), choice.UptakeProbability, 1e-12)
	assert.InDelta(t, 0.99995, choice.UptakeProbability, 1e-5)
}

func TestComputeChoice_ExtremeUtilitiesAreClamped(t *testing.T) {
	high := ComputeChoice(referenceConfig(0, 1, 1, 3), flatSet(1e6, 0, 0), nil)
	assert.InDelta(t, 1.0, high.UptakeProbability, 1e-12)

	low := ComputeChoice(referenceConfig(0, 1, 1, 3), flatSet(-1e6, 0, 0), nil)
	assert.InDelta(t, 0.0, low.UptakeProbability, 1e-12)
	assert.False(t, math.IsNaN(low.UptakeProbability))
}

func TestComputeChoice_LargeUtilitiesKeepTheirDifference(t *testing.T) {
	choice := ComputeChoice(referenceConfig(0, 1, 1, 3), flatSet(60, 55, 0), nil)
	assert.InDelta(t, 1/(1+math.Exp(-5)), choice.UptakeProbability, 1e-12)
	assert.InDelta(t, 0.99331, choice.UptakeProbability, 1e-5)
	assert.InDelta(t, 1.0, choice.UptakeProbability+choice.OptOutProbability, 1e-12)
}

func TestComputeChoice_UptakeKeepsFallingAtExtremeCosts(t *testing.T) {
	set := flatSet(0, 0, -0.0002)

	lower := ComputeChoice(referenceConfig(300000, 1, 1, 3), set, nil)
	higher := ComputeChoice(referenceConfig(400000, 1, 1, 3), set, nil)

	assert.InEpsilon(t, math.Exp(-60), lower.UptakeProbability, 1e-9)
	assert.InEpsilon(t, math.Exp(-80), higher.UptakeProbability, 1e-9)
	assert.Less(t, higher.UptakeProbability, lower.UptakeProbability)
	assert.Greater(t, higher.UptakeProbability, 0.0)
}

func TestComputeChoice_UnknownLevelUsesZeroWeight(t *testing.T) {
	known := referenceConfig(100, 10, 1, 3)
	unknown := known
	unknown.Career = "something-new"

	set := averageSet()
	assert.Equal(t,
		ComputeChoice(known, set, nil).UptakeProbability,
		ComputeChoice(unknown, set, nil).UptakeProbability)
}

func TestComputeChoice_RegionAdjustmentRaisesCost(t *testing.T) {
	cfg := referenceConfig(100, 10, 1, 3)
	cfg.RegionCode = "NSW"

	unadjusted := ComputeChoice(cfg, averageSet(), domain.DefaultRegionTable())
	cfg.RegionAdjustment = true
	adjusted := ComputeChoice(cfg, averageSet(), domain.DefaultRegionTable())

	assert.InDelta(t, -0.022, adjusted.CostTerm, 1e-12)
	assert.Less(t, adjusted.UptakeProbability, unadjusted.UptakeProbability)
}

func TestAdjustedUnitCost(t *testing.T) {
	regions := domain.RegionTable{"NSW": 1.10, "QLD": 1.0}

	cfg := referenceConfig(100, 1, 1, 3)
	cfg.RegionCode = "NSW"
	cfg.RegionAdjustment = true
	cost, m := AdjustedUnitCost(cfg, regions)
	assert.True(t, cost.Equal(dec("110.00")), "got %s", cost)
	assert.True(t, m.Equal(dec("1.1")))

	cfg.RegionCode = "QLD"
	cfg.UnitCost = dec("87.35")
	cost, _ = AdjustedUnitCost(cfg, regions)
	assert.True(t, cost.Equal(cfg.UnitCost), "multiplier 1.0 leaves cost unchanged")

	cfg.RegionCode = "UNKNOWN"
	cost, m = AdjustedUnitCost(cfg, regions)
	assert.True(t, cost.Equal(cfg.UnitCost))
	assert.True(t, m.Equal(decimal.NewFromInt(1)))

	cfg.RegionCode = "NSW"
	cfg.RegionAdjustment = false
	cost, _ = AdjustedUnitCost(cfg, regions)
	assert.True(t, cost.Equal(cfg.UnitCost), "adjustment disabled")
}
