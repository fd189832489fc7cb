package breakeven

import (
	"fmt"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines which outcome the unit cost is solved against
type OptimizationTarget string

const (
	TargetBCR    OptimizationTarget = "bcr"    // benefit-cost ratio at or above the target value
	TargetUptake OptimizationTarget = "uptake" // uptake probability at or above the target value
)

// ParseTarget converts user text to a target.
func ParseTarget(s string) (OptimizationTarget, error) {
	switch t := OptimizationTarget(s); t {
	case TargetBCR, TargetUptake:
		return t, nil
	case "":
		return TargetBCR, nil
	}
	return "", &BreakEvenError{
		Operation: "parse_target",
		Message:   fmt.Sprintf("unsupported target %q (expected bcr or uptake)", s),
	}
}

// Constraints bound the unit-cost search
type Constraints struct {
	MinUnitCost decimal.Decimal `json:"min_unit_cost"`
	MaxUnitCost decimal.Decimal `json:"max_unit_cost"`

	// Threshold the target metric must reach: a ratio for bcr, a probability for uptake
	TargetValue decimal.Decimal `json:"target_value"`
}

// DefaultConstraints returns sensible default constraints for a target
func DefaultConstraints(target OptimizationTarget) Constraints {
	c := Constraints{
		MinUnitCost: decimal.NewFromFloat(0.01),
		MaxUnitCost: decimal.NewFromInt(10000),
		TargetValue: decimal.NewFromInt(1),
	}
	if target == TargetUptake {
		c.TargetValue = decimal.NewFromFloat(0.5)
	}
	return c
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate(target OptimizationTarget) error {
	if c.MinUnitCost.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_unit_cost cannot be negative",
		}
	}
	if !c.MaxUnitCost.GreaterThan(c.MinUnitCost) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "max_unit_cost must be greater than min_unit_cost",
		}
	}

	switch target {
	case TargetBCR:
		if !c.TargetValue.IsPositive() {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "target benefit-cost ratio must be positive",
			}
		}
	case TargetUptake:
		if !c.TargetValue.IsPositive() || !c.TargetValue.LessThan(decimal.NewFromInt(1)) {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "target uptake must be between 0 and 1",
			}
		}
	}

	return nil
}

// OptimizationRequest defines the parameters for a solve
type OptimizationRequest struct {
	Input         *domain.ScenarioInput
	Segment       string
	Definition    domain.BenefitDefinition
	Target        OptimizationTarget
	Constraints   Constraints
	MaxIterations int             // Maximum solver iterations
	Tolerance     decimal.Decimal // Width of the final unit-cost bracket
}

// OptimizationResult contains the results of a solve
type OptimizationResult struct {
	Target          OptimizationTarget       `json:"target"`
	TargetValue     decimal.Decimal          `json:"target_value"`
	Segment         string                   `json:"segment"`
	Definition      domain.BenefitDefinition `json:"definition"`
	Success         bool                     `json:"success"`
	Iterations      int                      `json:"iterations"`
	ConvergenceInfo string                   `json:"convergence_info"`

	// Largest unit cost that still meets the target; nil when none does
	BreakEvenUnitCost *decimal.Decimal `json:"break_even_unit_cost,omitempty"`
	BaseUnitCost      decimal.Decimal  `json:"base_unit_cost"`

	// Unit cost headroom above the scenario's current cost (negative when the
	// current cost already misses the target)
	Headroom decimal.NullDecimal `json:"headroom"`

	AtBreakEven *domain.ResultBundle `json:"at_break_even,omitempty"`
	Base        *domain.ResultBundle `json:"base,omitempty"`
}

// MultiSegmentResult contains one solve per coefficient segment
type MultiSegmentResult struct {
	Results         []OptimizationResult `json:"results"`
	MostTolerant    *OptimizationResult  `json:"most_tolerant,omitempty"`  // highest break-even unit cost
	LeastTolerant   *OptimizationResult  `json:"least_tolerant,omitempty"` // lowest break-even unit cost
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Convergence tolerance on unit cost
	MaxIterations int             // Maximum iterations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromFloat(0.01), // one cent
		MaxIterations: 60,
	}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
