package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestScenarioInput_Build_ResolvesLevels(t *testing.T) {
	input := ScenarioInput{
		Name: "Community hubs",
		Attributes: map[Dimension]LevelSelection{
			DimensionTier:     {"Advanced"},
			DimensionDelivery: {"inperson", "inperson"},
		},
		UnitCost:             decimal.NewFromInt(120),
		ParticipantsPerGroup: 12,
		NumberOfGroups:       4,
	}

	cfg, err := input.Build()
	require.NoError(t, err)

	assert.Equal(t, "Community hubs", cfg.Name)
	assert.Equal(t, Level("advanced"), cfg.Tier)
	assert.Equal(t, Level("inperson"), cfg.Delivery)
	assert.Equal(t, Level("certificate"), cfg.Career, "missing dimension falls back to reference level")
	assert.Equal(t, Level("low"), cfg.Mentorship)
	assert.Equal(t, Level("30"), cfg.Response)
	assert.Equal(t, 12, cfg.DurationPeriods, "advanced tier runs for twelve periods")
	assert.Equal(t, 48, cfg.TotalParticipants())
}

func TestScenarioInput_Build_ExplicitDuration(t *testing.T) {
	cfg, err := ScenarioInput{DurationPeriods: 9}.Build()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.DurationPeriods)
}

func TestScenarioInput_Build_RejectsConflicts(t *testing.T) {
	input := ScenarioInput{
		Name: "Conflicted",
		Attributes: map[Dimension]LevelSelection{
			DimensionMentorship: {"low", "high"},
			DimensionDelivery:   {"online", "blended"},
		},
		UnitCost:       decimal.NewFromInt(-5),
		NumberOfGroups: 2,
	}

	_, err := input.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Problems(), 3, "two conflicts and a negative cost are all reported")

	var conflict *ConflictingSelectionError
	require.True(t, errors.As(err, &conflict))
	assert.Len(t, conflict.Levels, 2)
	assert.Contains(t, err.Error(), "Conflicted")
}

func TestScenarioInput_Build_RejectsUnknownDimension(t *testing.T) {
	_, err := ScenarioInput{
		Attributes: map[Dimension]LevelSelection{"colour": {"blue"}},
	}.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestScenarioInput_Build_UnknownLevelIsLenient(t *testing.T) {
	cfg, err := ScenarioInput{
		Attributes: map[Dimension]LevelSelection{DimensionDelivery: {"carrier-pigeon"}},
	}.Build()
	require.NoError(t, err)
	assert.Equal(t, Level("carrier-pigeon"), cfg.Delivery)
}

func TestLevelSelection_UnmarshalYAML(t *testing.T) {
	var input ScenarioInput
	doc := `
name: YAML input
attributes:
  tier: intermediate
  delivery: [online, inperson]
unit_cost: 85.50
participants_per_group: 10
number_of_groups: 3
`
	require.NoError(t, yaml.Unmarshal([]byte(doc), &input))
	assert.Equal(t, LevelSelection{"intermediate"}, input.Attributes[DimensionTier])
	assert.Equal(t, LevelSelection{"online", "inperson"}, input.Attributes[DimensionDelivery])
	assert.True(t, input.UnitCost.Equal(decimal.RequireFromString("85.5")))

	_, err := input.Build()
	var conflict *ConflictingSelectionError
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, DimensionDelivery, conflict.Dimension)
}

func TestScenarioInput_DeepCopy(t *testing.T) {
	original := &ScenarioInput{
		Name:       "Original",
		Attributes: map[Dimension]LevelSelection{DimensionTier: {"advanced"}},
	}
	copied := original.DeepCopy()
	copied.SetLevel(DimensionTier, "frontline")
	copied.SetLevel(DimensionDelivery, "online")

	assert.NotSame(t, original, copied)
	assert.Equal(t, LevelSelection{"advanced"}, original.Attributes[DimensionTier])
	_, ok := original.Attributes[DimensionDelivery]
	assert.False(t, ok)
}

func TestConfiguration_KeyIgnoresName(t *testing.T) {
	a := Configuration{Name: "A", Tier: "advanced", UnitCost: decimal.NewFromInt(50), NumberOfGroups: 2}
	b := a
	b.Name = "B"
	assert.Equal(t, a.Key(), b.Key())

	b.NumberOfGroups = 3
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestConfiguration_InputRoundTrip(t *testing.T) {
	cfg, err := ScenarioInput{
		Name:                   "Online pilot",
		Attributes:             map[Dimension]LevelSelection{DimensionDelivery: {"online"}, DimensionMentorship: {"high"}},
		UnitCost:               decimal.NewFromInt(80),
		RegionCode:             "vic",
		RegionAdjustment:       true,
		ParticipantsPerGroup:   8,
		NumberOfGroups:         3,
		IncludeOpportunityCost: true,
	}.Build()
	require.NoError(t, err)

	rebuilt, err := cfg.Input().Build()
	require.NoError(t, err)
	assert.Equal(t, cfg.Key(), rebuilt.Key())
	assert.Equal(t, "Online pilot", rebuilt.Name)
	assert.Equal(t, "VIC", rebuilt.RegionCode)
}

func TestDurationForTier(t *testing.T) {
	assert.Equal(t, 3, DurationForTier("frontline"))
	assert.Equal(t, 6, DurationForTier("intermediate"))
	assert.Equal(t, 12, DurationForTier("ADVANCED"))
	assert.Equal(t, 3, DurationForTier("unknown"))
}

func TestCoefficientSet_WeightDefaultsToZero(t *testing.T) {
	set := CoefficientSet{
		Key: "test",
		AttributeWeights: map[Dimension]map[Level]float64{
			DimensionTier: {"advanced": 0.5},
		},
	}
	assert.Equal(t, 0.5, set.Weight(DimensionTier, "advanced"))
	assert.Equal(t, 0.5, set.Weight(DimensionTier, " Advanced"))
	assert.Equal(t, 0.0, set.Weight(DimensionTier, "unheard-of"))
	assert.Equal(t, 0.0, set.Weight(DimensionDelivery, "online"))
}

func TestCoefficientTable_Resolve(t *testing.T) {
	table := &CoefficientTable{
		DefaultSegment: "average",
		Segments:       []CoefficientSet{{Key: "average"}, {Key: "supportive"}},
	}
	require.NoError(t, table.Validate())

	set, err := table.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "average", set.Key)

	_, err = table.Resolve("missing")
	assert.Error(t, err)
	assert.Equal(t, []string{"average", "supportive"}, table.Keys())

	dup := &CoefficientTable{Segments: []CoefficientSet{{Key: "a"}, {Key: "a"}}}
	assert.Error(t, dup.Validate())
}

func TestRegionTable_Multiplier(t *testing.T) {
	regions := DefaultRegionTable()

	m, ok := regions.Multiplier("NSW")
	assert.True(t, ok)
	assert.Equal(t, 1.10, m)

	m, ok = regions.Multiplier("ATLANTIS")
	assert.False(t, ok)
	assert.Equal(t, 1.0, m)

	m, _ = regions.Multiplier("")
	assert.Equal(t, 1.0, m)
}

func TestParseBenefitDefinition(t *testing.T) {
	tests := []struct {
		in      string
		want    BenefitDefinition
		wantErr bool
	}{
		{in: "", want: WTPBenefit()},
		{in: "wtp", want: WTPBenefit()},
		{in: "QALY", want: QALYBenefit(QALYModerate)},
		{in: "qaly:high", want: QALYBenefit(QALYHigh)},
		{in: "savings", want: SavingsBenefit()},
		{in: "qaly:extreme", wantErr: true},
		{in: "wtp:low", wantErr: true},
		{in: "happiness", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBenefitDefinition(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllBenefitDefinitions(t *testing.T) {
	defs := AllBenefitDefinitions()
	require.Len(t, defs, 5)
	assert.Equal(t, "wtp", defs[0].String())
	assert.Equal(t, "qaly:low", defs[1].String())
	assert.Equal(t, "savings", defs[4].String())
}

func TestStatusForBCR(t *testing.T) {
	assert.Equal(t, StatusNotApplicable, StatusForBCR(Undefined()))
	assert.Equal(t, StatusStrong, StatusForBCR(Defined(decimal.NewFromFloat(1.5))))
	assert.Equal(t, StatusBorderline, StatusForBCR(Defined(decimal.NewFromInt(1))))
	assert.Equal(t, StatusPoor, StatusForBCR(Defined(decimal.NewFromFloat(0.99))))
}

func TestAssumptions_Validate(t *testing.T) {
	a := DefaultAssumptions()
	require.NoError(t, a.Validate())

	a.OpportunityCostRate = decimal.NewFromFloat(-0.1)
	assert.Error(t, a.Validate())

	b := DefaultAssumptions()
	b.Currency = "EUR"
	assert.Error(t, b.Validate())
}

func TestSensitivitySummary_RiskLevel(t *testing.T) {
	s := SensitivitySummary{MaxElasticity: decimal.NewFromFloat(0.2)}
	assert.Equal(t, "LOW", s.DetermineRiskLevel())

	s.BreakEvenCrossed = true
	assert.Equal(t, "HIGH", s.DetermineRiskLevel())

	s = SensitivitySummary{MaxElasticity: decimal.NewFromFloat(2.5)}
	assert.Equal(t, "CRITICAL", s.DetermineRiskLevel())
	assert.NotEmpty(t, s.GenerateRecommendations(ParamUnitCost))
}

func TestLookupParameter(t *testing.T) {
	p, err := LookupParameter(ParamUnitCost, decimal.NewFromInt(50), decimal.NewFromInt(150), decimal.NewFromInt(100), 5)
	require.NoError(t, err)
	assert.Equal(t, "currency", p.Unit)

	_, err = LookupParameter("weather", decimal.Zero, decimal.NewFromInt(1), decimal.Zero, 2)
	assert.Error(t, err)

	_, err = LookupParameter(ParamUnitCost, decimal.NewFromInt(10), decimal.NewFromInt(5), decimal.Zero, 2)
	assert.Error(t, err)
}
