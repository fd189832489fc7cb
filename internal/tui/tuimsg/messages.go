// Package tuimsg holds the messages scenes send to the root model. It lives
// apart from package tui so the scenes can import it.
package tuimsg

import (
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/session"
)

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// InputChangedMsg carries an edited programme design. The root model owns the
// input from here on and recomputes it.
type InputChangedMsg struct {
	Input *domain.ScenarioInput
}

// SegmentChangedMsg selects the population segment used for uptake.
type SegmentChangedMsg struct {
	Segment string
}

// DefinitionChangedMsg selects the benefit definition used for value.
type DefinitionChangedMsg struct {
	Definition domain.BenefitDefinition
}

// ResultComputedMsg is the outcome of a recompute. Definitions holds the same
// configuration under every benefit definition. Seq identifies the request so
// that a late result for an older design can be dropped.
type ResultComputedMsg struct {
	Seq         int
	Result      *domain.ResultBundle
	Definitions []*domain.ResultBundle
	Err         error
}

// ScenarioSavedMsg reports the outcome of saving the current result.
type ScenarioSavedMsg struct {
	Scenario session.SavedScenario
	Err      error
}

// ScenarioLoadMsg asks the root model to load a saved scenario's design back
// into the parameters.
type ScenarioLoadMsg struct {
	Scenario session.SavedScenario
}

// SaveRequestMsg asks the root model to save the current result under a name.
// An empty name takes the session default.
type SaveRequestMsg struct {
	Name string
}
