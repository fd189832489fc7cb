package compare

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/config"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFile() *domain.ScenarioFile {
	return &domain.ScenarioFile{
		Scenarios: []domain.ScenarioInput{
			{
				Name:                 "Community groups",
				UnitCost:             decimal.NewFromInt(100),
				ParticipantsPerGroup: 10,
				NumberOfGroups:       4,
				DurationPeriods:      6,
			},
			{
				Name:  "Mentored",
				Notes: "weekly contact",
				Attributes: map[domain.Dimension]domain.LevelSelection{
					domain.DimensionMentorship: {"high"},
				},
				UnitCost:             decimal.NewFromInt(100),
				ParticipantsPerGroup: 10,
				NumberOfGroups:       4,
				DurationPeriods:      6,
			},
		},
	}
}

func newTestEngine() *CompareEngine {
	return NewCompareEngine(calculation.NewCalculationEngine(), config.DefaultCoefficientTable())
}

func TestCompareEngine_Compare(t *testing.T) {
	ce := newTestEngine()

	set, err := ce.Compare(context.Background(), testFile(), CompareOptions{
		Templates: []string{"online", "cost-minus-20", "high-mentorship"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Community groups", set.BaseScenarioName)
	assert.Equal(t, "average", set.Segment)
	assert.Equal(t, domain.WTPBenefit(), set.Definition)
	require.Len(t, set.AlternativeResults, 3)

	online := set.AlternativeResults[0]
	assert.Equal(t, "Community groups + online", online.ScenarioName)
	assert.Less(t, online.UptakeDiffFromBase, 0.0, "online delivery is less preferred than blended")
	assert.True(t, online.CostDiffFromBase.IsZero())

	cheaper := set.AlternativeResults[1]
	assert.True(t, cheaper.CostDiffFromBase.IsNegative())
	assert.True(t, cheaper.CostPctFromBase.Equal(decimal.NewFromInt(-20)), "got %s", cheaper.CostPctFromBase)
	assert.Greater(t, cheaper.UptakeDiffFromBase, 0.0)

	mentored := set.AlternativeResults[2]
	require.True(t, mentored.BCRDiffFromBase.Valid)
	assert.True(t, mentored.BCRDiffFromBase.Decimal.IsPositive())
	assert.Equal(t, "frontline / certificate / high / blended / 30d", mentored.Design)

	assert.NotEmpty(t, set.Recommendations)
}

func TestCompareEngine_CompareErrors(t *testing.T) {
	ce := newTestEngine()

	_, err := ce.Compare(context.Background(), testFile(), CompareOptions{Templates: []string{"teleport"}})
	assert.Error(t, err)

	_, err = ce.Compare(context.Background(), testFile(), CompareOptions{BaseScenarioName: "missing"})
	assert.Error(t, err)

	_, err = ce.Compare(context.Background(), testFile(), CompareOptions{Segment: "nobody"})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ce.Compare(ctx, testFile(), CompareOptions{Templates: []string{"online"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareEngine_CompareScenarios(t *testing.T) {
	ce := newTestEngine()

	set, err := ce.CompareScenarios(context.Background(), testFile(), "Community groups", []string{"Mentored"},
		CompareOptions{Segment: "supportive", Definition: domain.SavingsBenefit()})
	require.NoError(t, err)

	assert.Equal(t, "supportive", set.Segment)
	require.Len(t, set.AlternativeResults, 1)
	assert.Equal(t, "weekly contact", set.AlternativeResults[0].Description)
	assert.Greater(t, set.AlternativeResults[0].UptakeDiffFromBase, 0.0)

	_, err = ce.CompareScenarios(context.Background(), testFile(), "Community groups", []string{"nope"}, CompareOptions{})
	assert.Error(t, err)
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	calc := NewMetricsCalculator()

	base := ComparisonResult{
		ScenarioName:      "Base",
		UptakeProbability: 0.60,
		TotalCost:         decimal.NewFromInt(10000),
		NetBenefit:        domain.Defined(decimal.NewFromInt(5000)),
		BenefitCostRatio:  domain.Defined(decimal.NewFromFloat(1.5)),
	}
	alt := ComparisonResult{
		ScenarioName:      "Alt",
		UptakeProbability: 0.65,
		TotalCost:         decimal.NewFromInt(12000),
		NetBenefit:        domain.Undefined(),
		BenefitCostRatio:  domain.Defined(decimal.NewFromFloat(1.25)),
	}

	got := calc.CalculateComparison(alt, base)
	assert.InDelta(t, 5.0, got.UptakeDiffFromBase, 1e-9)
	assert.True(t, got.CostDiffFromBase.Equal(decimal.NewFromInt(2000)))
	assert.True(t, got.CostPctFromBase.Equal(decimal.NewFromInt(20)))
	assert.False(t, got.NetBenefitDiffFromBase.Valid)
	assert.True(t, got.BCRDiffFromBase.Decimal.Equal(decimal.NewFromFloat(-0.25)))

	zeroBase := calc.CalculateComparison(alt, ComparisonResult{})
	assert.True(t, zeroBase.CostPctFromBase.IsZero())
}

func TestGenerateRecommendations(t *testing.T) {
	base := &ComparisonResult{
		ScenarioName:      "Base",
		UptakeProbability: 0.5,
		NetBenefit:        domain.Defined(decimal.NewFromInt(1000)),
		BenefitCostRatio:  domain.Undefined(),
		Status:            domain.StatusNotApplicable,
	}
	set := &ComparisonSet{
		BaseResult: base,
		AlternativeResults: []ComparisonResult{
			{ScenarioName: "A", UptakeProbability: 0.7, NetBenefit: domain.Defined(decimal.NewFromInt(900)),
				BenefitCostRatio: domain.Defined(decimal.NewFromFloat(1.2)), Status: domain.StatusBorderline},
			{ScenarioName: "B", UptakeProbability: 0.4, NetBenefit: domain.Defined(decimal.NewFromInt(4000)),
				BenefitCostRatio: domain.Defined(decimal.NewFromFloat(1.8)), Status: domain.StatusStrong},
		},
	}

	recs := GenerateRecommendations(set)
	require.Len(t, recs, 3)
	assert.Contains(t, recs[0], "Best Value: B")
	assert.Contains(t, recs[0], "1.80")
	assert.Contains(t, recs[1], "Best Uptake: A raises expected uptake by 20.0")
	assert.Contains(t, recs[2], "Best Net Benefit: B adds 3000")

	assert.Empty(t, GenerateRecommendations(&ComparisonSet{BaseResult: base}))
}

func sampleSet() *ComparisonSet {
	return &ComparisonSet{
		BaseScenarioName: "Base Scenario",
		Segment:          "average",
		Definition:       domain.WTPBenefit(),
		ConfigPath:       "/path/to/scenario.yaml",
		BaseResult: &ComparisonResult{
			ScenarioName:      "Base Scenario",
			UptakeProbability: 0.62,
			TotalCost:         decimal.NewFromInt(48000),
			TotalBenefit:      domain.Defined(decimal.NewFromInt(96000)),
			NetBenefit:        domain.Defined(decimal.NewFromInt(48000)),
			BenefitCostRatio:  domain.Defined(decimal.NewFromInt(2)),
			Status:            domain.StatusStrong,
		},
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName:           "Alternative 1",
				Description:            "Deliver the programme fully online",
				UptakeProbability:      0.55,
				TotalCost:              decimal.NewFromInt(1250000),
				TotalBenefit:           domain.Undefined(),
				NetBenefit:             domain.Undefined(),
				BenefitCostRatio:       domain.Undefined(),
				Status:                 domain.StatusNotApplicable,
				UptakeDiffFromBase:     -7,
				CostDiffFromBase:       decimal.NewFromInt(1202000),
				CostPctFromBase:        decimal.NewFromFloat(2504.17),
				NetBenefitDiffFromBase: domain.Undefined(),
				BCRDiffFromBase:        domain.Undefined(),
			},
		},
		Recommendations: []string{"Best Uptake: nothing beats the base"},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	out := (&TableFormatter{}).Format(sampleSet())

	for _, want := range []string{
		"PROGRAMME SCENARIO COMPARISON",
		"Base Scenario: Base Scenario",
		"Segment: average",
		"Configuration: /path/to/scenario.yaml",
		"Base Scenario (base)",
		"62.0%",
		"48.0K",
		"1.25M",
		"2.00",
		"Alternative 1",
		"-7.0 pp",
		"RECOMMENDATIONS",
	} {
		assert.Contains(t, out, want)
	}
}

func TestTableFormatter_FormatEmptyAlternatives(t *testing.T) {
	set := sampleSet()
	set.AlternativeResults = nil
	set.Recommendations = nil

	out := (&TableFormatter{}).Format(set)
	assert.Contains(t, out, "Base Scenario")
	assert.NotContains(t, out, "COMPARISON TO BASE")
	assert.NotContains(t, out, "RECOMMENDATIONS")
}

func TestTableFormatter_Helpers(t *testing.T) {
	tf := &TableFormatter{}
	assert.Equal(t, "999", tf.formatDecimal(decimal.NewFromInt(999)))
	assert.Equal(t, "1.5K", tf.formatDecimal(decimal.NewFromInt(1500)))
	assert.Equal(t, "-2.50M", tf.formatDecimal(decimal.NewFromInt(-2500000)))
	assert.Equal(t, "-", tf.formatNull(domain.Undefined()))
	assert.Equal(t, "abcdefg...", tf.truncate("abcdefghijklmnop", 10))

	compact := tf.FormatCompact(sampleSet())
	assert.Equal(t, "Base: Base Scenario | Alternative 1: BCR n/a", compact)
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(sampleSet())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Scenario,Type,Design,Uptake"))
	assert.Contains(t, lines[1], "Base Scenario,base,")
	assert.Contains(t, lines[1], "2.0000")
	assert.Contains(t, lines[2], "Alternative 1,alternative,")
	assert.Contains(t, lines[2], ",,", "undefined figures are empty")
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		out, err := (&JSONFormatter{Pretty: pretty}).Format(sampleSet())
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "Base Scenario", decoded["baseScenarioName"])

		alts := decoded["alternativeResults"].([]interface{})
		alt := alts[0].(map[string]interface{})
		assert.Nil(t, alt["benefitCostRatio"])
	}
}
