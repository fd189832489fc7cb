package transform

import (
	"fmt"

	"github.com/lonelyless/decisionaid/internal/domain"
)

// ScenarioTransform defines the interface for all scenario transformations.
// Transforms are composable edits to a scenario input, used by comparison,
// break-even analysis and the interactive parameter screens.
type ScenarioTransform interface {
	// Apply returns a modified copy of base. base is never changed.
	Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error)

	// Name returns a short identifier for this transform (e.g., "set_level").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks the transform parameters against base without applying it.
	Validate(base *domain.ScenarioInput) error
}

// ApplyTransforms applies transforms in order, each receiving the output of the
// previous one. The base input is left untouched.
func ApplyTransforms(base *domain.ScenarioInput, transforms []ScenarioTransform) (*domain.ScenarioInput, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}

	current := base.DeepCopy()
	for i, transform := range transforms {
		if transform == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}

	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}

func requireBase(name string, base *domain.ScenarioInput) error {
	if base == nil {
		return NewTransformError(name, "validate", "base scenario cannot be nil", nil)
	}
	return nil
}
