package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrInvalidConfiguration is matched by every ValidationError via errors.Is.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ValidationError reports a configuration that cannot be computed.
type ValidationError struct {
	Scenario string
	Err      error
}

func (e *ValidationError) Error() string {
	problems := e.Problems()
	parts := make([]string, 0, len(problems))
	for _, p := range problems {
		parts = append(parts, p.Error())
	}
	subject := "configuration"
	if e.Scenario != "" {
		subject = fmt.Sprintf("configuration %q", e.Scenario)
	}
	return fmt.Sprintf("%s is invalid: %s", subject, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidConfiguration) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// Problems returns the individual validation failures.
func (e *ValidationError) Problems() []error {
	var merr *multierror.Error
	if errors.As(e.Err, &merr) {
		return merr.WrappedErrors()
	}
	if e.Err == nil {
		return nil
	}
	return []error{e.Err}
}

// ConflictingSelectionError reports mutually exclusive levels selected together.
type ConflictingSelectionError struct {
	Dimension Dimension
	Levels    []Level
}

func (e *ConflictingSelectionError) Error() string {
	levels := make([]string, 0, len(e.Levels))
	for _, l := range e.Levels {
		levels = append(levels, string(l))
	}
	return fmt.Sprintf("%s: only one level may be selected, got %s",
		e.Dimension.Label(), strings.Join(levels, " and "))
}
