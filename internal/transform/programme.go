package transform

import (
	"fmt"
	"strings"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// SetLevel selects one level of a programme attribute.
type SetLevel struct {
	Dimension domain.Dimension
	Level     domain.Level
}

func (sl *SetLevel) Name() string { return "set_level" }

func (sl *SetLevel) Description() string {
	return fmt.Sprintf("Set %s to %s", strings.ToLower(sl.Dimension.Label()), sl.Dimension.Describe(sl.Level.Normalize()))
}

func (sl *SetLevel) Validate(base *domain.ScenarioInput) error {
	if err := requireBase(sl.Name(), base); err != nil {
		return err
	}
	if !sl.Dimension.IsKnown() {
		return NewTransformError(sl.Name(), "validate", fmt.Sprintf("unknown dimension %q", sl.Dimension), nil)
	}
	level := sl.Level.Normalize()
	for _, l := range sl.Dimension.Levels() {
		if l == level {
			return nil
		}
	}
	return NewTransformError(sl.Name(), "validate",
		fmt.Sprintf("level %q is not one of %v for %s", sl.Level, sl.Dimension.Levels(), sl.Dimension), nil)
}

func (sl *SetLevel) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.DeepCopy()
	modified.SetLevel(sl.Dimension, sl.Level.Normalize())
	return modified, nil
}

// ScaleUnitCost multiplies the unit cost by a factor.
type ScaleUnitCost struct {
	Factor decimal.Decimal
}

func (sc *ScaleUnitCost) Name() string { return "scale_unit_cost" }

func (sc *ScaleUnitCost) Description() string {
	change := sc.Factor.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	if change.IsNegative() {
		return fmt.Sprintf("Reduce unit cost by %s%%", change.Abs().StringFixed(0))
	}
	return fmt.Sprintf("Increase unit cost by %s%%", change.StringFixed(0))
}

func (sc *ScaleUnitCost) Validate(base *domain.ScenarioInput) error {
	if err := requireBase(sc.Name(), base); err != nil {
		return err
	}
	if sc.Factor.IsNegative() {
		return NewTransformError(sc.Name(), "validate", fmt.Sprintf("factor cannot be negative, got %s", sc.Factor), nil)
	}
	return nil
}

func (sc *ScaleUnitCost) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.DeepCopy()
	modified.UnitCost = base.UnitCost.Mul(sc.Factor).Round(2)
	return modified, nil
}

// SetUnitCost replaces the unit cost.
type SetUnitCost struct {
	Amount decimal.Decimal
}

func (su *SetUnitCost) Name() string { return "set_unit_cost" }

func (su *SetUnitCost) Description() string {
	return fmt.Sprintf("Set unit cost to %s per participant per period", su.Amount.StringFixed(2))
}

func (su *SetUnitCost) Validate(base *domain.ScenarioInput) error {
	if err := requireBase(su.Name(), base); err != nil {
		return err
	}
	if su.Amount.IsNegative() {
		return NewTransformError(su.Name(), "validate", fmt.Sprintf("unit cost cannot be negative, got %s", su.Amount), nil)
	}
	return nil
}

func (su *SetUnitCost) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.DeepCopy()
	modified.UnitCost = su.Amount
	return modified, nil
}

// SetGroups sets the number of groups delivered.
type SetGroups struct {
	Groups int
}

func (sg *SetGroups) Name() string { return "set_groups" }

func (sg *SetGroups) Description() string {
	return fmt.Sprintf("Deliver %d groups", sg.Groups)
}

func (sg *SetGroups) Validate(base *domain.ScenarioInput) error {
	if err := requireBase(sg.Name(), base); err != nil {
		return err
	}
	if sg.Groups < 0 {
		return NewTransformError(sg.Name(), "validate", fmt.Sprintf("groups cannot be negative, got %d", sg.Groups), nil)
	}
	return nil
}

func (sg *SetGroups) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.DeepCopy()
	modified.NumberOfGroups = sg.Groups
	return modified, nil
}

// ScaleGroups multiplies the number of groups.
type ScaleGroups struct {
	Factor int
}

func (sg *ScaleGroups) Name() string { return "scale_groups" }

func (sg *ScaleGroups) Description() string {
	return fmt.Sprintf("Deliver %dx as many groups", sg.Factor)
}

func (sg *ScaleGroups) Validate(base *domain.ScenarioInput) error {
	if err := requireBase(sg.Name(), base); err != nil {
		return err
	}
	if sg.Factor < 0 {
		return NewTransformError(sg.Name(), "validate", fmt.Sprintf("factor cannot be negative, got %d", sg.Factor), nil)
	}
	return nil
}

func (sg *ScaleGroups) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.DeepCopy()
	modified.NumberOfGroups = base.NumberOfGroups * sg.Factor
	return modified, nil
}

// SetParticipants sets the number of participants in each group.
type SetParticipants struct {
	PerGroup int
}

func (sp *SetParticipants) Name() string { return "set_participants" }

func (sp *SetParticipants) Description() string {
	return fmt.Sprintf("Set group size to %d participants", sp.PerGroup)
}

func (sp *SetParticipants) Validate(base *domain.ScenarioInput) error {
	if err := requireBase(sp.Name(), base); err != nil {
		return err
	}
	if sp.PerGroup < 0 {
		return NewTransformError(sp.Name(), "validate", fmt.Sprintf("participants cannot be negative, got %d", sp.PerGroup), nil)
	}
	return nil
}

func (sp *SetParticipants) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.DeepCopy()
	modified.ParticipantsPerGroup = sp.PerGroup
	return modified, nil
}

// SetRegion sets the delivery region and whether its cost multiplier applies.
type SetRegion struct {
	Code   string
	Adjust bool
}

func (sr *SetRegion) Name() string { return "set_region" }

func (sr *SetRegion) Description() string {
	if !sr.Adjust {
		return fmt.Sprintf("Deliver in %s without regional cost adjustment", strings.ToUpper(sr.Code))
	}
	return fmt.Sprintf("Deliver in %s with regional cost adjustment", strings.ToUpper(sr.Code))
}

func (sr *SetRegion) Validate(base *domain.ScenarioInput) error {
	if err := requireBase(sr.Name(), base); err != nil {
		return err
	}
	if sr.Adjust && strings.TrimSpace(sr.Code) == "" {
		return NewTransformError(sr.Name(), "validate", "region code is required when adjusting costs", nil)
	}
	return nil
}

func (sr *SetRegion) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.DeepCopy()
	modified.RegionCode = strings.ToUpper(strings.TrimSpace(sr.Code))
	modified.RegionAdjustment = sr.Adjust
	return modified, nil
}

// SetOpportunityCost turns the opportunity cost on or off.
type SetOpportunityCost struct {
	Include bool
}

func (so *SetOpportunityCost) Name() string { return "set_opportunity_cost" }

func (so *SetOpportunityCost) Description() string {
	if so.Include {
		return "Include opportunity cost"
	}
	return "Exclude opportunity cost"
}

func (so *SetOpportunityCost) Validate(base *domain.ScenarioInput) error {
	return requireBase(so.Name(), base)
}

func (so *SetOpportunityCost) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.DeepCopy()
	modified.IncludeOpportunityCost = so.Include
	return modified, nil
}

// SetDuration fixes the number of periods; zero returns to the tier default.
type SetDuration struct {
	Periods int
}

func (sd *SetDuration) Name() string { return "set_duration" }

func (sd *SetDuration) Description() string {
	if sd.Periods == 0 {
		return "Run for the default duration of the programme tier"
	}
	return fmt.Sprintf("Run for %d months", sd.Periods)
}

func (sd *SetDuration) Validate(base *domain.ScenarioInput) error {
	if err := requireBase(sd.Name(), base); err != nil {
		return err
	}
	if sd.Periods < 0 {
		return NewTransformError(sd.Name(), "validate", fmt.Sprintf("duration cannot be negative, got %d", sd.Periods), nil)
	}
	return nil
}

func (sd *SetDuration) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.DeepCopy()
	modified.DurationPeriods = sd.Periods
	return modified, nil
}
