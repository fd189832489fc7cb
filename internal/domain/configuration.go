package domain

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// LevelSelection is the set of levels ticked for one dimension. In YAML it may be
// written as a single scalar or as a list.
type LevelSelection []Level

// UnmarshalYAML accepts either `online` or `[online, blended]`.
func (s *LevelSelection) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var level string
		if err := value.Decode(&level); err != nil {
			return err
		}
		*s = LevelSelection{Level(level)}
		return nil
	case yaml.SequenceNode:
		var levels []string
		if err := value.Decode(&levels); err != nil {
			return err
		}
		out := make(LevelSelection, 0, len(levels))
		for _, l := range levels {
			out = append(out, Level(l))
		}
		*s = out
		return nil
	default:
		return fmt.Errorf("line %d: attribute level must be a string or a list of strings", value.Line)
	}
}

// MarshalYAML writes single selections as a scalar.
func (s LevelSelection) MarshalYAML() (interface{}, error) {
	if len(s) == 1 {
		return string(s[0]), nil
	}
	out := make([]string, 0, len(s))
	for _, l := range s {
		out = append(out, string(l))
	}
	return out, nil
}

// resolve returns the single distinct level selected, or the reference level when
// nothing was selected. Empty entries are ignored.
func (s LevelSelection) resolve(d Dimension) (Level, error) {
	var distinct []Level
	seen := make(map[Level]bool, len(s))
	for _, l := range s {
		n := l.Normalize()
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		distinct = append(distinct, n)
	}
	switch len(distinct) {
	case 0:
		return d.ReferenceLevel(), nil
	case 1:
		return distinct[0], nil
	default:
		return "", &ConflictingSelectionError{Dimension: d, Levels: distinct}
	}
}

// ScenarioInput is a programme design as entered by a user, before validation.
type ScenarioInput struct {
	Name                   string                       `yaml:"name" json:"name"`
	Notes                  string                       `yaml:"notes,omitempty" json:"notes,omitempty"`
	Attributes             map[Dimension]LevelSelection `yaml:"attributes" json:"attributes"`
	UnitCost               decimal.Decimal              `yaml:"unit_cost" json:"unit_cost"` // per participant per period
	RegionCode             string                       `yaml:"region,omitempty" json:"region,omitempty"`
	RegionAdjustment       bool                         `yaml:"region_adjustment" json:"region_adjustment"`
	ParticipantsPerGroup   int                          `yaml:"participants_per_group" json:"participants_per_group"`
	NumberOfGroups         int                          `yaml:"number_of_groups" json:"number_of_groups"`
	DurationPeriods        int                          `yaml:"duration_periods,omitempty" json:"duration_periods,omitempty"`
	IncludeOpportunityCost bool                         `yaml:"include_opportunity_cost" json:"include_opportunity_cost"`
}

// DeepCopy returns an independent copy of the input.
func (in *ScenarioInput) DeepCopy() *ScenarioInput {
	out := *in
	if in.Attributes != nil {
		out.Attributes = make(map[Dimension]LevelSelection, len(in.Attributes))
		for d, sel := range in.Attributes {
			cp := make(LevelSelection, len(sel))
			copy(cp, sel)
			out.Attributes[d] = cp
		}
	}
	return &out
}

// SetLevel replaces the selection of a dimension with a single level.
func (in *ScenarioInput) SetLevel(d Dimension, l Level) {
	if in.Attributes == nil {
		in.Attributes = make(map[Dimension]LevelSelection)
	}
	in.Attributes[d] = LevelSelection{l}
}

// Build validates the input and returns the immutable Configuration it describes.
// All problems are reported together in a *ValidationError.
func (in ScenarioInput) Build() (Configuration, error) {
	var result *multierror.Error

	cfg := Configuration{
		Name:                   strings.TrimSpace(in.Name),
		Notes:                  strings.TrimSpace(in.Notes),
		UnitCost:               in.UnitCost,
		RegionCode:             strings.ToUpper(strings.TrimSpace(in.RegionCode)),
		RegionAdjustment:       in.RegionAdjustment,
		ParticipantsPerGroup:   in.ParticipantsPerGroup,
		NumberOfGroups:         in.NumberOfGroups,
		DurationPeriods:        in.DurationPeriods,
		IncludeOpportunityCost: in.IncludeOpportunityCost,
	}

	for d := range in.Attributes {
		if !d.IsKnown() {
			result = multierror.Append(result, fmt.Errorf("unknown attribute dimension %q", d))
		}
	}

	levels := make(map[Dimension]Level, len(Dimensions()))
	for _, d := range Dimensions() {
		level, err := in.Attributes[d].resolve(d)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		levels[d] = level
	}
	cfg.Tier = levels[DimensionTier]
	cfg.Career = levels[DimensionCareer]
	cfg.Mentorship = levels[DimensionMentorship]
	cfg.Delivery = levels[DimensionDelivery]
	cfg.Response = levels[DimensionResponse]

	if err := cfg.Validate(); err != nil {
		if merr, ok := err.(*multierror.Error); ok {
			result = multierror.Append(result, merr.Errors...)
		} else {
			result = multierror.Append(result, err)
		}
	}

	if result.ErrorOrNil() != nil {
		return Configuration{}, &ValidationError{Scenario: cfg.Name, Err: result}
	}

	if cfg.DurationPeriods == 0 {
		cfg.DurationPeriods = DurationForTier(cfg.Tier)
	}
	return cfg, nil
}

// Configuration is a validated programme design. It is passed by value and never
// modified after Build; every recompute starts from a new Configuration.
type Configuration struct {
	Name                   string          `json:"name,omitempty"`
	Notes                  string          `json:"notes,omitempty"`
	Tier                   Level           `json:"tier"`
	Career                 Level           `json:"career"`
	Mentorship             Level           `json:"mentorship"`
	Delivery               Level           `json:"delivery"`
	Response               Level           `json:"response"`
	UnitCost               decimal.Decimal `json:"unit_cost"`
	RegionCode             string          `json:"region,omitempty"`
	RegionAdjustment       bool            `json:"region_adjustment"`
	ParticipantsPerGroup   int             `json:"participants_per_group"`
	NumberOfGroups         int             `json:"number_of_groups"`
	DurationPeriods        int             `json:"duration_periods"`
	IncludeOpportunityCost bool            `json:"include_opportunity_cost"`
}

// Level returns the level selected for a dimension.
func (c Configuration) Level(d Dimension) Level {
	switch d {
	case DimensionTier:
		return c.Tier
	case DimensionCareer:
		return c.Career
	case DimensionMentorship:
		return c.Mentorship
	case DimensionDelivery:
		return c.Delivery
	case DimensionResponse:
		return c.Response
	}
	return ""
}

// Input returns a ScenarioInput that builds back to this configuration.
func (c Configuration) Input() *ScenarioInput {
	in := &ScenarioInput{
		Name:                   c.Name,
		Notes:                  c.Notes,
		UnitCost:               c.UnitCost,
		RegionCode:             c.RegionCode,
		RegionAdjustment:       c.RegionAdjustment,
		ParticipantsPerGroup:   c.ParticipantsPerGroup,
		NumberOfGroups:         c.NumberOfGroups,
		DurationPeriods:        c.DurationPeriods,
		IncludeOpportunityCost: c.IncludeOpportunityCost,
	}
	for _, d := range Dimensions() {
		if l := c.Level(d); l != "" {
			in.SetLevel(d, l)
		}
	}
	return in
}

// Periods returns the explicit duration, or the tier default when none is set.
func (c Configuration) Periods() int {
	if c.DurationPeriods > 0 {
		return c.DurationPeriods
	}
	return DurationForTier(c.Tier)
}

// TotalParticipants is participants per group times the number of groups.
func (c Configuration) TotalParticipants() int {
	return c.ParticipantsPerGroup * c.NumberOfGroups
}

// Reference returns a copy of the configuration with every attribute at its
// reference level. Cost and scale are unchanged.
func (c Configuration) Reference() Configuration {
	ref := c
	ref.Tier = DimensionTier.ReferenceLevel()
	ref.Career = DimensionCareer.ReferenceLevel()
	ref.Mentorship = DimensionMentorship.ReferenceLevel()
	ref.Delivery = DimensionDelivery.ReferenceLevel()
	ref.Response = DimensionResponse.ReferenceLevel()
	return ref
}

// Key identifies the configuration's computational content. Name and notes are excluded.
func (c Configuration) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%t|%d|%d|%d|%t",
		c.Tier, c.Career, c.Mentorship, c.Delivery, c.Response,
		c.UnitCost.String(), c.RegionCode, c.RegionAdjustment,
		c.ParticipantsPerGroup, c.NumberOfGroups, c.Periods(), c.IncludeOpportunityCost)
}

// Validate checks the numeric fields. It returns a *multierror.Error listing
// every problem, or nil.
func (c Configuration) Validate() error {
	var result *multierror.Error
	if c.UnitCost.IsNegative() {
		result = multierror.Append(result, fmt.Errorf("unit cost cannot be negative: %s", c.UnitCost))
	}
	if c.ParticipantsPerGroup < 0 {
		result = multierror.Append(result, fmt.Errorf("participants per group cannot be negative: %d", c.ParticipantsPerGroup))
	}
	if c.NumberOfGroups < 0 {
		result = multierror.Append(result, fmt.Errorf("number of groups cannot be negative: %d", c.NumberOfGroups))
	}
	if c.DurationPeriods < 0 {
		result = multierror.Append(result, fmt.Errorf("duration periods must be positive: %d", c.DurationPeriods))
	}
	return result.ErrorOrNil()
}
