package calculation

import (
	"fmt"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+fmt.Sprintf(format, args...))
}

// averageSet mirrors the built-in "average" segment.
func averageSet() domain.CoefficientSet {
	return domain.CoefficientSet{
		Key:          "average",
		Label:        "Average preference model",
		ASCProgramme: 0.25,
		ASCOptOut:    -0.5,
		CostWeight:   -0.0002,
		AttributeWeights: map[domain.Dimension]map[domain.Level]float64{
			domain.DimensionTier:       {"frontline": 0, "intermediate": 0.25, "advanced": 0.5},
			domain.DimensionCareer:     {"certificate": 0, "uniqual": 0.1, "career_path": 0.2},
			domain.DimensionMentorship: {"low": 0, "medium": 0.35, "high": 0.6},
			domain.DimensionDelivery:   {"blended": 0.2, "inperson": 0.15, "online": -0.2},
			domain.DimensionResponse:   {"30": 0, "15": 0.3, "7": 0.55},
		},
	}
}

// flatSet has no attribute weights at all.
func flatSet(ascProgramme, ascOptOut, costWeight float64) domain.CoefficientSet {
	return domain.CoefficientSet{
		Key:          "flat",
		ASCProgramme: ascProgramme,
		ASCOptOut:    ascOptOut,
		CostWeight:   costWeight,
	}
}

func referenceConfig(unitCost int64, perGroup, groups, periods int) domain.Configuration {
	return domain.Configuration{
		Tier:                 "frontline",
		Career:               "certificate",
		Mentorship:           "low",
		Delivery:             "blended",
		Response:             "30",
		UnitCost:             decimal.NewFromInt(unitCost),
		ParticipantsPerGroup: perGroup,
		NumberOfGroups:       groups,
		DurationPeriods:      periods,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
