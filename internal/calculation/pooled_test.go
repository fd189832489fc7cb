package calculation

import (
	"testing"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePooled(t *testing.T) {
	table := &domain.CoefficientTable{
		DefaultSegment: "average",
		Segments:       []domain.CoefficientSet{averageSet(), flatSet(0, 0, 0)},
	}
	cfg := referenceConfig(100, 10, 1, 3)

	pooled := ComputePooled(cfg, table, nil)

	require.Len(t, pooled.Segments, 2)
	assert.Equal(t, domain.PooledLabel, pooled.Label)
	assert.Equal(t, 0.5, pooled.Segments[1].Choice.UptakeProbability)

	expected := (pooled.Segments[0].Choice.UptakeProbability + 0.5) / 2
	assert.InDelta(t, expected, pooled.UptakeProbability, 1e-12)
	assert.InDelta(t, 1.0, pooled.UptakeProbability+pooled.OptOutProbability, 1e-12)
}

func TestComputePooled_EmptyTable(t *testing.T) {
	pooled := ComputePooled(referenceConfig(100, 10, 1, 3), nil, nil)
	assert.Empty(t, pooled.Segments)
	assert.Equal(t, 0.0, pooled.UptakeProbability)
}
