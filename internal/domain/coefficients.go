package domain

import (
	"fmt"
	"sort"
)

// CoefficientSet holds the pre-estimated logit weights for one population segment.
// Sets are read-only once loaded.
type CoefficientSet struct {
	Key              string                          `yaml:"key" json:"key"`
	Label            string                          `yaml:"label" json:"label"`
	ASCProgramme     float64                         `yaml:"asc_programme" json:"asc_programme"`
	ASCOptOut        float64                         `yaml:"asc_opt_out" json:"asc_opt_out"`
	AttributeWeights map[Dimension]map[Level]float64 `yaml:"attribute_weights" json:"attribute_weights"`
	CostWeight       float64                         `yaml:"cost_weight" json:"cost_weight"` // utility per currency unit per participant per period
}

// Weight returns the utility of a level. Missing dimensions and levels are
// treated as the reference level and contribute 0.
func (c CoefficientSet) Weight(d Dimension, l Level) float64 {
	levels, ok := c.AttributeWeights[d]
	if !ok {
		return 0
	}
	return levels[l.Normalize()]
}

// DesignUtility sums the attribute weights of the configuration's selected levels.
func (c CoefficientSet) DesignUtility(cfg Configuration) float64 {
	total := 0.0
	for _, d := range Dimensions() {
		total += c.Weight(d, cfg.Level(d))
	}
	return total
}

// DisplayName returns the label, or the key when no label was given.
func (c CoefficientSet) DisplayName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// Validate checks that the set can be addressed and is finite.
func (c CoefficientSet) Validate() error {
	if c.Key == "" {
		return fmt.Errorf("coefficient set key is required")
	}
	for d := range c.AttributeWeights {
		if !d.IsKnown() {
			return fmt.Errorf("coefficient set %s: unknown dimension %q", c.Key, d)
		}
	}
	return nil
}

// CoefficientTable is the ordered collection of population segments.
type CoefficientTable struct {
	DefaultSegment string           `yaml:"default_segment" json:"default_segment"`
	Segments       []CoefficientSet `yaml:"segments" json:"segments"`
}

// Get returns the segment with the given key.
func (t *CoefficientTable) Get(key string) (CoefficientSet, bool) {
	for _, s := range t.Segments {
		if s.Key == key {
			return s, true
		}
	}
	return CoefficientSet{}, false
}

// Resolve returns the named segment, or the default segment for an empty key.
func (t *CoefficientTable) Resolve(key string) (CoefficientSet, error) {
	if key == "" {
		key = t.DefaultSegment
	}
	set, ok := t.Get(key)
	if !ok {
		return CoefficientSet{}, fmt.Errorf("unknown segment %q (available: %v)", key, t.Keys())
	}
	return set, nil
}

// Keys returns the segment keys in table order.
func (t *CoefficientTable) Keys() []string {
	keys := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		keys = append(keys, s.Key)
	}
	return keys
}

// Validate checks every segment and the default segment reference.
func (t *CoefficientTable) Validate() error {
	if len(t.Segments) == 0 {
		return fmt.Errorf("coefficient table has no segments")
	}
	seen := make(map[string]bool, len(t.Segments))
	for _, s := range t.Segments {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Key] {
			return fmt.Errorf("duplicate segment %q", s.Key)
		}
		seen[s.Key] = true
	}
	if t.DefaultSegment != "" && !seen[t.DefaultSegment] {
		return fmt.Errorf("default segment %q is not defined", t.DefaultSegment)
	}
	return nil
}

// RegionTable maps a region code to its cost-of-living multiplier.
type RegionTable map[string]float64

// DefaultRegionTable returns the built-in multipliers used when no table can be loaded.
func DefaultRegionTable() RegionTable {
	return RegionTable{
		"NSW": 1.10,
		"VIC": 1.05,
		"QLD": 1.00,
		"SA":  0.97,
		"WA":  1.08,
		"TAS": 0.95,
		"ACT": 1.12,
		"NT":  1.15,
	}
}

// Multiplier returns the multiplier for a region. Unknown or empty codes return 1.0.
func (r RegionTable) Multiplier(code string) (float64, bool) {
	if code == "" {
		return 1.0, false
	}
	m, ok := r[code]
	if !ok {
		return 1.0, false
	}
	return m, true
}

// Codes returns the region codes sorted alphabetically.
func (r RegionTable) Codes() []string {
	codes := make([]string, 0, len(r))
	for code := range r {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
