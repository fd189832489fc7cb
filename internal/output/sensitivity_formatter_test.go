package output

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

func buildUnitCostSweep(t *testing.T) *domain.ParameterSensitivityAnalysis {
	t.Helper()
	set, err := config.DefaultCoefficientTable().Resolve("")
	require.NoError(t, err)

	input := &domain.ScenarioInput{
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
	param, err := domain.LookupParameter(domain.ParamUnitCost,
		decimal.NewFromInt(50), decimal.NewFromInt(150), decimal.NewFromInt(100), 3)
	require.NoError(t, err)

	analysis, err := calculation.NewSensitivityAnalyzer(nil).AnalyzeSingleParameter(
		context.Background(), input, set, domain.WTPBenefit(), param)
	require.NoError(t, err)
	return analysis
}

func TestSensitivityConsoleFormatter(t *testing.T) {
	analysis := buildUnitCostSweep(t)

	out, err := SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(analysis)
	require.NoError(t, err)

	assert.Contains(t, out, "SENSITIVITY ANALYSIS: UNIT COST")
	assert.Contains(t, out, "Base Case: unit_cost = AUD 100")
	assert.Contains(t, out, "AUD 100 ← BASE")
	assert.Contains(t, out, "-50.0% unit_cost")
	assert.Contains(t, out, "RISK LEVEL:")
	assert.Contains(t, out, "RECOMMENDATIONS:")
	assert.Equal(t, 1, strings.Count(out, "← BASE"))

	_, err = SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(&domain.ParameterSensitivityAnalysis{})
	assert.Error(t, err)
}

func TestSensitivityCSVFormatter(t *testing.T) {
	analysis := buildUnitCostSweep(t)

	out, err := SensitivityCSVFormatter{}.FormatSensitivityAnalysis(analysis)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "parameter_name,parameter_value"))
	assert.True(t, strings.HasPrefix(lines[1], "unit_cost,50,"))
	assert.Contains(t, lines[2], ",28800.00,600000.00,")
}

func TestSensitivityJSONFormatter(t *testing.T) {
	analysis := buildUnitCostSweep(t)

	out, err := SensitivityJSONFormatter{}.FormatSensitivityAnalysis(analysis)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Advanced", decoded["scenarioName"])
	assert.Len(t, decoded["points"], 3)
}

func TestNewSensitivityFormatter(t *testing.T) {
	m := NewMoney(domain.DefaultAssumptions())
	assert.Equal(t, "csv", NewSensitivityFormatter("CSV", m).Name())
	assert.Equal(t, "json", NewSensitivityFormatter("json", m).Name())
	assert.Equal(t, "console", NewSensitivityFormatter("", m).Name())
}
