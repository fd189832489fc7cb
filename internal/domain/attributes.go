package domain

import "strings"

// Dimension identifies one categorical programme attribute.
type Dimension string

// Programme attribute dimensions
const (
	DimensionTier       Dimension = "tier"       // programme intensity, also sets the default duration
	DimensionCareer     Dimension = "career"     // support pathway
	DimensionMentorship Dimension = "mentorship" // contact frequency
	DimensionDelivery   Dimension = "delivery"   // delivery mode
	DimensionResponse   Dimension = "response"   // time to noticeable impact, in days
)

// Level is a categorical attribute level such as "advanced" or "online".
type Level string

// Normalize lower-cases and trims a level so that "Online " and "online" match.
func (l Level) Normalize() Level {
	return Level(strings.ToLower(strings.TrimSpace(string(l))))
}

type dimensionInfo struct {
	label     string
	reference Level
	levels    []Level
	pretty    map[Level]string
}

var dimensionTable = map[Dimension]dimensionInfo{
	DimensionTier: {
		label:     "Programme intensity",
		reference: "frontline",
		levels:    []Level{"frontline", "intermediate", "advanced"},
		pretty: map[Level]string{
			"frontline":    "light-touch programme",
			"intermediate": "moderate-intensity programme",
			"advanced":     "high-intensity programme",
		},
	},
	DimensionCareer: {
		label:     "Support pathway",
		reference: "certificate",
		levels:    []Level{"certificate", "uniqual", "career_path"},
		pretty: map[Level]string{
			"certificate": "generic community service",
			"uniqual":     "linked with health or social care",
			"career_path": "integrated with health and social care",
		},
	},
	DimensionMentorship: {
		label:     "Support intensity",
		reference: "low",
		levels:    []Level{"low", "medium", "high"},
		pretty: map[Level]string{
			"low":    "lighter-touch contact",
			"medium": "moderate contact and follow-up",
			"high":   "high level of structured contact",
		},
	},
	DimensionDelivery: {
		label:     "Delivery mode",
		reference: "blended",
		levels:    []Level{"blended", "inperson", "online"},
		pretty: map[Level]string{
			"blended":  "blended across home, community and online",
			"inperson": "in-person in community settings",
			"online":   "fully online",
		},
	},
	DimensionResponse: {
		label:     "Time to noticeable impact",
		reference: "30",
		levels:    []Level{"30", "15", "7"},
		pretty: map[Level]string{
			"30": "over a longer period",
			"15": "within 3-6 months",
			"7":  "within around 2 months",
		},
	},
}

// Dimensions returns the attribute dimensions in display order.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionTier,
		DimensionCareer,
		DimensionMentorship,
		DimensionDelivery,
		DimensionResponse,
	}
}

// IsKnown reports whether d is one of the programme dimensions.
func (d Dimension) IsKnown() bool {
	_, ok := dimensionTable[d]
	return ok
}

// Label returns the human readable name of the dimension.
func (d Dimension) Label() string {
	if info, ok := dimensionTable[d]; ok {
		return info.label
	}
	return string(d)
}

// ReferenceLevel returns the zero-utility baseline level of the dimension.
func (d Dimension) ReferenceLevel() Level {
	return dimensionTable[d].reference
}

// Levels returns the known levels of the dimension, reference level first.
func (d Dimension) Levels() []Level {
	levels := dimensionTable[d].levels
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// Describe returns a phrase describing the level, falling back to the raw level.
func (d Dimension) Describe(l Level) string {
	if text, ok := dimensionTable[d].pretty[l]; ok {
		return text
	}
	return string(l)
}

// ParseDimension converts user text to a Dimension.
func ParseDimension(s string) (Dimension, bool) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	return d, d.IsKnown()
}

// DurationForTier returns the number of monthly periods a programme tier runs for.
// Unknown tiers run for the light-touch duration.
func DurationForTier(tier Level) int {
	switch tier.Normalize() {
	case "intermediate":
		return 6
	case "advanced":
		return 12
	default:
		return 3
	}
}
