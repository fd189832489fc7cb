package breakeven

import (
	"context"
	"errors"
	"testing"

	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/config"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSolver() *Solver {
	return NewDefaultSolver(calculation.NewCalculationEngine(), config.DefaultCoefficientTable())
}

// advancedInput has a total WTP of 600000 and a total cost of 288 x unit cost.
func advancedInput() *domain.ScenarioInput {
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

func TestSolver_BCRTarget(t *testing.T) {
	s := newTestSolver()

	result, err := s.Optimize(context.Background(), OptimizationRequest{
		Input:       advancedInput(),
		Target:      TargetBCR,
		Constraints: DefaultConstraints(TargetBCR),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "average", result.Segment)
	assert.Equal(t, domain.WTPBenefit(), result.Definition)
	require.NotNil(t, result.BreakEvenUnitCost)

	cost := result.BreakEvenUnitCost.InexactFloat64()
	assert.LessOrEqual(t, cost, 2083.34)
	assert.GreaterOrEqual(t, cost, 2083.31)
	assert.True(t, result.BreakEvenUnitCost.Equal(result.BreakEvenUnitCost.Truncate(2)), "reported to the cent")

	require.NotNil(t, result.AtBreakEven)
	bcr := result.AtBreakEven.Aggregate.BenefitCostRatio
	require.True(t, bcr.Valid)
	assert.True(t, bcr.Decimal.GreaterThanOrEqual(decimal.NewFromInt(1)))

	require.True(t, result.Headroom.Valid)
	assert.InDelta(t, cost-100, result.Headroom.Decimal.InexactFloat64(), 1e-9)
	assert.LessOrEqual(t, result.Iterations, DefaultSolverOptions().MaxIterations+1)
}

func TestSolver_UptakeTarget(t *testing.T) {
	s := newTestSolver()

	result, err := s.Optimize(context.Background(), OptimizationRequest{
		Input:       advancedInput(),
		Target:      TargetUptake,
		Constraints: DefaultConstraints(TargetUptake),
	})
	require.NoError(t, err)

	// 0.25 + 0.7 - 0.0002c = -0.5 at c = 7250
	require.NotNil(t, result.BreakEvenUnitCost)
	assert.InDelta(t, 7250, result.BreakEvenUnitCost.InexactFloat64(), 0.02)
	assert.GreaterOrEqual(t, result.AtBreakEven.Choice.UptakeProbability, 0.5)
}

func TestSolver_TargetUnreachable(t *testing.T) {
	s := newTestSolver()
	constraints := DefaultConstraints(TargetUptake)
	constraints.TargetValue = decimal.NewFromFloat(0.99)

	result, err := s.Optimize(context.Background(), OptimizationRequest{
		Input:       advancedInput(),
		Target:      TargetUptake,
		Constraints: constraints,
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Nil(t, result.BreakEvenUnitCost)
	assert.False(t, result.Headroom.Valid)
	assert.Equal(t, 1, result.Iterations)
	assert.Contains(t, result.ConvergenceInfo, "not reachable")
}

func TestSolver_TargetMetAcrossRange(t *testing.T) {
	s := newTestSolver()
	constraints := DefaultConstraints(TargetBCR)
	constraints.MaxUnitCost = decimal.NewFromInt(1000)

	result, err := s.Optimize(context.Background(), OptimizationRequest{
		Input:       advancedInput(),
		Target:      TargetBCR,
		Constraints: constraints,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, result.BreakEvenUnitCost.Equal(decimal.NewFromInt(1000)))
	assert.True(t, result.Headroom.Decimal.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, 2, result.Iterations)
}

func TestSolver_ZeroCostWeightNeverMeetsBCR(t *testing.T) {
	table := &domain.CoefficientTable{Segments: []domain.CoefficientSet{{Key: "flat", ASCProgramme: 1}}}
	s := NewDefaultSolver(calculation.NewCalculationEngine(), table)

	result, err := s.Optimize(context.Background(), OptimizationRequest{
		Input:       advancedInput(),
		Segment:     "flat",
		Target:      TargetBCR,
		Constraints: DefaultConstraints(TargetBCR),
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Nil(t, result.BreakEvenUnitCost)
}

func TestSolver_Errors(t *testing.T) {
	s := newTestSolver()
	ctx := context.Background()

	tests := []struct {
		name string
		req  OptimizationRequest
	}{
		{"nil input", OptimizationRequest{Target: TargetBCR, Constraints: DefaultConstraints(TargetBCR)}},
		{"unknown target", OptimizationRequest{Input: advancedInput(), Target: "joy", Constraints: DefaultConstraints(TargetBCR)}},
		{"inverted range", OptimizationRequest{Input: advancedInput(), Target: TargetBCR, Constraints: Constraints{
			MinUnitCost: decimal.NewFromInt(10), MaxUnitCost: decimal.NewFromInt(5), TargetValue: decimal.NewFromInt(1)}}},
		{"unknown segment", OptimizationRequest{Input: advancedInput(), Segment: "nobody", Target: TargetBCR, Constraints: DefaultConstraints(TargetBCR)}},
		{"invalid input", OptimizationRequest{Input: &domain.ScenarioInput{Name: "bad", NumberOfGroups: -1}, Target: TargetBCR, Constraints: DefaultConstraints(TargetBCR)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Optimize(ctx, tt.req)
			require.Error(t, err)
			var bee *BreakEvenError
			assert.True(t, errors.As(err, &bee), "got %T", err)
		})
	}

	_, err := s.Optimize(ctx, OptimizationRequest{
		Input: &domain.ScenarioInput{Name: "bad", NumberOfGroups: -1}, Target: TargetBCR, Constraints: DefaultConstraints(TargetBCR),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestSolver_ContextCancelled(t *testing.T) {
	s := newTestSolver()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Optimize(ctx, OptimizationRequest{
		Input:       advancedInput(),
		Target:      TargetBCR,
		Constraints: DefaultConstraints(TargetBCR),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolver_OptimizeAcrossSegments(t *testing.T) {
	s := newTestSolver()

	result, err := s.OptimizeAcrossSegments(context.Background(), OptimizationRequest{
		Input:       advancedInput(),
		Target:      TargetBCR,
		Constraints: DefaultConstraints(TargetBCR),
	})
	require.NoError(t, err)

	require.Len(t, result.Results, 3)
	require.NotNil(t, result.MostTolerant)
	require.NotNil(t, result.LeastTolerant)
	assert.True(t, result.MostTolerant.BreakEvenUnitCost.GreaterThanOrEqual(*result.LeastTolerant.BreakEvenUnitCost))
	assert.NotEmpty(t, result.Recommendations)

	segments := make([]string, 0, 3)
	for _, r := range result.Results {
		segments = append(segments, r.Segment)
	}
	assert.Equal(t, []string{"average", "supportive", "conservative"}, segments)

	_, err = NewDefaultSolver(calculation.NewCalculationEngine(), nil).OptimizeAcrossSegments(context.Background(), OptimizationRequest{})
	assert.Error(t, err)
}
