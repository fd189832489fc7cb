package breakeven

import (
	"context"
	"fmt"

	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/transform"
	"github.com/shopspring/decimal"
)

// Solver finds the largest unit cost at which a scenario still meets a target
type Solver struct {
	CalcEngine   *calculation.CalculationEngine
	Coefficients *domain.CoefficientTable
	Options      SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, coefficients *domain.CoefficientTable, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine:   calcEngine,
		Coefficients: coefficients,
		Options:      options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine, coefficients *domain.CoefficientTable) *Solver {
	return NewSolver(calcEngine, coefficients, DefaultSolverOptions())
}

// Optimize bisects on unit cost. Both targets fall as unit cost rises, so the
// search keeps a bracket [feasible, infeasible] and narrows it to the tolerance.
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if req.Input == nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "scenario input is required"}
	}
	if req.Target != TargetBCR && req.Target != TargetUptake {
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
	if err := req.Constraints.Validate(req.Target); err != nil {
		return nil, err
	}

	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}
	if req.Definition.Kind == "" {
		req.Definition = domain.WTPBenefit()
	}

	coefficients, err := s.Coefficients.Resolve(req.Segment)
	if err != nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "unknown segment", Cause: err}
	}

	base, err := s.CalcEngine.RunScenario(req.Input, coefficients, req.Definition)
	if err != nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "failed to calculate base scenario", Cause: err}
	}

	result := &OptimizationResult{
		Target:       req.Target,
		TargetValue:  req.Constraints.TargetValue,
		Segment:      coefficients.Key,
		Definition:   req.Definition,
		BaseUnitCost: req.Input.UnitCost,
		Base:         base,
	}

	evaluate := func(cost decimal.Decimal) (*domain.ResultBundle, bool, error) {
		result.Iterations++
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		default:
		}

		modified, err := transform.ApplyTransforms(req.Input, []transform.ScenarioTransform{
			&transform.SetUnitCost{Amount: cost},
		})
		if err != nil {
			return nil, false, &BreakEvenError{Operation: "optimize", Message: "failed to apply unit cost", Cause: err}
		}
		bundle, err := s.CalcEngine.RunScenario(modified, coefficients, req.Definition)
		if err != nil {
			return nil, false, &BreakEvenError{Operation: "optimize", Message: "failed to calculate scenario", Cause: err}
		}
		return bundle, meetsTarget(req.Target, req.Constraints.TargetValue, bundle), nil
	}

	lo, hi := req.Constraints.MinUnitCost, req.Constraints.MaxUnitCost

	loBundle, ok, err := evaluate(lo)
	if err != nil {
		return nil, err
	}
	if !ok {
		result.ConvergenceInfo = fmt.Sprintf("Target not reachable even at a unit cost of %s", lo.StringFixed(2))
		return result, nil
	}

	hiBundle, ok, err := evaluate(hi)
	if err != nil {
		return nil, err
	}
	if ok {
		result.Success = true
		result.ConvergenceInfo = fmt.Sprintf("Target met across the whole range up to %s", hi.StringFixed(2))
		s.finish(result, hi, hiBundle)
		return result, nil
	}

	best := loBundle
	two := decimal.NewFromInt(2)
	for result.Iterations < req.MaxIterations && hi.Sub(lo).GreaterThan(req.Tolerance) {
		mid := lo.Add(hi).Div(two)
		bundle, ok, err := evaluate(mid)
		if err != nil {
			return nil, err
		}
		if ok {
			lo, best = mid, bundle
		} else {
			hi = mid
		}
	}

	if hi.Sub(lo).GreaterThan(req.Tolerance) {
		result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	} else {
		result.Success = true
		result.ConvergenceInfo = fmt.Sprintf("Binary search converged within %s", req.Tolerance.String())
	}

	// Rounding down keeps the reported cost on the feasible side.
	reported := lo.Truncate(2)
	if !reported.Equal(lo) {
		bundle, ok, err := evaluate(reported)
		if err != nil {
			return nil, err
		}
		if ok {
			best = bundle
		} else {
			reported = lo
		}
	}
	s.finish(result, reported, best)
	return result, nil
}

func (s *Solver) finish(result *OptimizationResult, cost decimal.Decimal, bundle *domain.ResultBundle) {
	result.BreakEvenUnitCost = &cost
	result.AtBreakEven = bundle
	result.Headroom = domain.Defined(cost.Sub(result.BaseUnitCost))
}

// meetsTarget reports whether a result reaches the target. An undefined ratio
// never meets a bcr target.
func meetsTarget(target OptimizationTarget, value decimal.Decimal, bundle *domain.ResultBundle) bool {
	switch target {
	case TargetBCR:
		bcr := bundle.Aggregate.BenefitCostRatio
		return bcr.Valid && bcr.Decimal.GreaterThanOrEqual(value)
	case TargetUptake:
		return bundle.Choice.UptakeProbability >= value.InexactFloat64()
	}
	return false
}
