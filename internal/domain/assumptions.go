package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// QALYScenario selects how much health gain each participant is assumed to receive.
type QALYScenario string

// QALY scenarios
const (
	QALYLow      QALYScenario = "low"
	QALYModerate QALYScenario = "moderate"
	QALYHigh     QALYScenario = "high"
)

// QALYScenarios returns the scenarios from least to most optimistic.
func QALYScenarios() []QALYScenario {
	return []QALYScenario{QALYLow, QALYModerate, QALYHigh}
}

// QALYGains holds the QALY gain per participant for each scenario.
type QALYGains struct {
	Low      decimal.Decimal `yaml:"low" json:"low"`
	Moderate decimal.Decimal `yaml:"moderate" json:"moderate"`
	High     decimal.Decimal `yaml:"high" json:"high"`
}

// For returns the gain for a scenario.
func (g QALYGains) For(s QALYScenario) (decimal.Decimal, error) {
	switch s {
	case QALYLow:
		return g.Low, nil
	case QALYModerate:
		return g.Moderate, nil
	case QALYHigh:
		return g.High, nil
	}
	return decimal.Zero, fmt.Errorf("unknown QALY scenario %q", s)
}

// Currency codes supported for display
const (
	CurrencyAUD = "AUD"
	CurrencyUSD = "USD"
)

// Assumptions are the economic constants applied on top of a configuration.
// Fields omitted from a scenario file take the defaults from
// DefaultAssumptions; an explicit zero is kept.
type Assumptions struct {
	OpportunityCostRate   decimal.Decimal `yaml:"opportunity_cost_rate" json:"opportunity_cost_rate"`
	ValuePerQALY          decimal.Decimal `yaml:"value_per_qaly" json:"value_per_qaly"`
	QALYPerParticipant    QALYGains       `yaml:"qaly_per_participant" json:"qaly_per_participant"`
	SavingsPerParticipant decimal.Decimal `yaml:"savings_per_participant" json:"savings_per_participant"`
	BasePopulation        int             `yaml:"base_population,omitempty" json:"base_population,omitempty"` // 0 means all participants
	Currency              string          `yaml:"currency" json:"currency"`
	AUDPerUSD             decimal.Decimal `yaml:"aud_per_usd" json:"aud_per_usd"`
}

// DefaultAssumptions returns the assumption set used when none is configured.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		OpportunityCostRate: decimal.NewFromFloat(0.20),
		ValuePerQALY:        decimal.NewFromInt(50000),
		QALYPerParticipant: QALYGains{
			Low:      decimal.NewFromFloat(0.01),
			Moderate: decimal.NewFromFloat(0.03),
			High:     decimal.NewFromFloat(0.05),
		},
		SavingsPerParticipant: decimal.NewFromInt(1200),
		Currency:              CurrencyAUD,
		AUDPerUSD:             decimal.NewFromFloat(1.5),
	}
}

// Validate checks ranges of the assumption values.
func (a Assumptions) Validate() error {
	if a.OpportunityCostRate.IsNegative() {
		return fmt.Errorf("opportunity cost rate cannot be negative")
	}
	if a.ValuePerQALY.IsNegative() {
		return fmt.Errorf("value per QALY cannot be negative")
	}
	if a.QALYPerParticipant.Low.IsNegative() || a.QALYPerParticipant.Moderate.IsNegative() || a.QALYPerParticipant.High.IsNegative() {
		return fmt.Errorf("QALY gains cannot be negative")
	}
	if a.SavingsPerParticipant.IsNegative() {
		return fmt.Errorf("savings per participant cannot be negative")
	}
	if a.BasePopulation < 0 {
		return fmt.Errorf("base population cannot be negative")
	}
	switch strings.ToUpper(a.Currency) {
	case CurrencyAUD, CurrencyUSD, "":
	default:
		return fmt.Errorf("unsupported currency %q", a.Currency)
	}
	if !a.AUDPerUSD.IsPositive() {
		return fmt.Errorf("exchange rate must be positive")
	}
	return nil
}

// BenefitKind names a way of monetising programme benefit.
type BenefitKind string

// Benefit kinds
const (
	BenefitWTP     BenefitKind = "wtp"
	BenefitQALY    BenefitKind = "qaly"
	BenefitSavings BenefitKind = "savings"
)

// BenefitDefinition selects how total benefit is measured. Scenario is only
// meaningful for BenefitQALY.
type BenefitDefinition struct {
	Kind     BenefitKind  `yaml:"kind" json:"kind"`
	Scenario QALYScenario `yaml:"scenario,omitempty" json:"scenario,omitempty"`
}

// WTPBenefit measures benefit as willingness to pay.
func WTPBenefit() BenefitDefinition { return BenefitDefinition{Kind: BenefitWTP} }

// QALYBenefit measures benefit as monetised QALY gains under a scenario.
func QALYBenefit(s QALYScenario) BenefitDefinition {
	return BenefitDefinition{Kind: BenefitQALY, Scenario: s}
}

// SavingsBenefit measures benefit as avoided service costs.
func SavingsBenefit() BenefitDefinition { return BenefitDefinition{Kind: BenefitSavings} }

// AllBenefitDefinitions lists every definition reported side by side.
func AllBenefitDefinitions() []BenefitDefinition {
	defs := []BenefitDefinition{WTPBenefit()}
	for _, s := range QALYScenarios() {
		defs = append(defs, QALYBenefit(s))
	}
	return append(defs, SavingsBenefit())
}

// Validate checks the kind and, for QALY, the scenario.
func (b BenefitDefinition) Validate() error {
	switch b.Kind {
	case BenefitWTP, BenefitSavings:
		return nil
	case BenefitQALY:
		if _, err := (QALYGains{}).For(b.Scenario); err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("unknown benefit definition %q", b.Kind)
}

func (b BenefitDefinition) String() string {
	if b.Kind == BenefitQALY {
		return fmt.Sprintf("%s:%s", b.Kind, b.Scenario)
	}
	return string(b.Kind)
}

// Label returns a display label for reports.
func (b BenefitDefinition) Label() string {
	switch b.Kind {
	case BenefitWTP:
		return "Willingness to pay"
	case BenefitQALY:
		return fmt.Sprintf("QALY gains (%s)", b.Scenario)
	case BenefitSavings:
		return "Service cost savings"
	}
	return string(b.Kind)
}

// ParseBenefitDefinition parses "wtp", "savings", "qaly" or "qaly:<scenario>".
// An empty string selects WTP.
func ParseBenefitDefinition(s string) (BenefitDefinition, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return WTPBenefit(), nil
	}
	kind, scenario, _ := strings.Cut(s, ":")
	def := BenefitDefinition{Kind: BenefitKind(kind)}
	if def.Kind == BenefitQALY {
		def.Scenario = QALYModerate
		if scenario != "" {
			def.Scenario = QALYScenario(scenario)
		}
	} else if scenario != "" {
		return BenefitDefinition{}, fmt.Errorf("benefit definition %q takes no scenario", kind)
	}
	if err := def.Validate(); err != nil {
		return BenefitDefinition{}, err
	}
	return def, nil
}
