package integration

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputGeneration(t *testing.T) {
	file, set := loadReference(t)
	engine := calculation.NewCalculationEngineWith(domain.DefaultRegionTable(), file.Assumptions)
	input, err := file.Scenario("")
	require.NoError(t, err)
	def, err := file.BenefitDefinition()
	require.NoError(t, err)
	result, err := engine.RunScenario(input, set, def)
	require.NoError(t, err)

	report := output.NewReport(result, file.Assumptions)
	require.Len(t, report.Scenarios, 1)

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			formatter := output.GetFormatterByName(name)
			require.NotNil(t, formatter)
			data, err := formatter.Format(report)
			require.NoError(t, err, "Should generate %s output", name)
			assert.NotEmpty(t, data)
		})
	}

	t.Run("json round trip", func(t *testing.T) {
		data, err := output.GetFormatterByName("json").Format(report)
		require.NoError(t, err)
		assert.True(t, json.Valid(data))
		assert.True(t, bytes.Contains(data, []byte(`"total_cost_all_groups"`)))
	})
}
