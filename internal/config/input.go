package config

import (
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/hashicorp/go-multierror"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a scenario file from YAML
func (ip *InputParser) LoadFromFile(filename string) (*domain.ScenarioFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	file, err := ip.LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return file, nil
}

// LoadFromBytes parses, fills defaults and validates a scenario document
func (ip *InputParser) LoadFromBytes(data []byte) (*domain.ScenarioFile, error) {
	var file domain.ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// decoded a second time so omitted keys can be told apart from explicit zeros
	var doc struct {
		Assumptions AssumptionsDocument `yaml:"assumptions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	assumptions, err := ApplyAssumptionDefaults(doc.Assumptions)
	if err != nil {
		return nil, err
	}
	file.Assumptions = assumptions

	if err := ip.ValidateScenarioFile(&file); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &file, nil
}

// ValidateScenarioFile validates every scenario and the file-level settings.
// Scenario problems are collected rather than stopping at the first one.
func (ip *InputParser) ValidateScenarioFile(file *domain.ScenarioFile) error {
	if len(file.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}
	if _, err := file.BenefitDefinition(); err != nil {
		return fmt.Errorf("benefit: %w", err)
	}
	if err := file.Assumptions.Validate(); err != nil {
		return fmt.Errorf("assumptions validation failed: %w", err)
	}

	var result *multierror.Error
	names := make(map[string]int, len(file.Scenarios))
	for i, scenario := range file.Scenarios {
		if err := ip.validateScenario(i, scenario, names); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (ip *InputParser) validateScenario(index int, scenario domain.ScenarioInput, names map[string]int) error {
	name := strings.TrimSpace(scenario.Name)
	if name == "" {
		return fmt.Errorf("scenario %d: name is required", index)
	}
	if prev, dup := names[name]; dup {
		return fmt.Errorf("scenario %d: name %q already used by scenario %d", index, name, prev)
	}
	names[name] = index

	if _, err := scenario.Build(); err != nil {
		return fmt.Errorf("scenario %d: %w", index, err)
	}
	return nil
}

// AssumptionsDocument is the assumptions block as written in a scenario file.
// A nil field was omitted; a non-nil zero was set explicitly.
type AssumptionsDocument struct {
	OpportunityCostRate   *decimal.Decimal  `yaml:"opportunity_cost_rate"`
	ValuePerQALY          *decimal.Decimal  `yaml:"value_per_qaly"`
	QALYPerParticipant    QALYGainsDocument `yaml:"qaly_per_participant"`
	SavingsPerParticipant *decimal.Decimal  `yaml:"savings_per_participant"`
	BasePopulation        *int              `yaml:"base_population"`
	Currency              *string           `yaml:"currency"`
	AUDPerUSD             *decimal.Decimal  `yaml:"aud_per_usd"`
}

// QALYGainsDocument is the qaly_per_participant block of a scenario file.
type QALYGainsDocument struct {
	Low      *decimal.Decimal `yaml:"low"`
	Moderate *decimal.Decimal `yaml:"moderate"`
	High     *decimal.Decimal `yaml:"high"`
}

func documentFor(a domain.Assumptions) AssumptionsDocument {
	return AssumptionsDocument{
		OpportunityCostRate: &a.OpportunityCostRate,
		ValuePerQALY:        &a.ValuePerQALY,
		QALYPerParticipant: QALYGainsDocument{
			Low:      &a.QALYPerParticipant.Low,
			Moderate: &a.QALYPerParticipant.Moderate,
			High:     &a.QALYPerParticipant.High,
		},
		SavingsPerParticipant: &a.SavingsPerParticipant,
		BasePopulation:        &a.BasePopulation,
		Currency:              &a.Currency,
		AUDPerUSD:             &a.AUDPerUSD,
	}
}

// ApplyAssumptionDefaults fills every assumption the document omits from
// domain.DefaultAssumptions and normalises the currency code. Values given in
// the document, zero included, are kept.
func ApplyAssumptionDefaults(doc AssumptionsDocument) (domain.Assumptions, error) {
	if err := mergo.Merge(&doc, documentFor(domain.DefaultAssumptions()), mergo.WithoutDereference); err != nil {
		return domain.Assumptions{}, fmt.Errorf("failed to apply assumption defaults: %w", err)
	}
	return domain.Assumptions{
		OpportunityCostRate: *doc.OpportunityCostRate,
		ValuePerQALY:        *doc.ValuePerQALY,
		QALYPerParticipant: domain.QALYGains{
			Low:      *doc.QALYPerParticipant.Low,
			Moderate: *doc.QALYPerParticipant.Moderate,
			High:     *doc.QALYPerParticipant.High,
		},
		SavingsPerParticipant: *doc.SavingsPerParticipant,
		BasePopulation:        *doc.BasePopulation,
		Currency:              strings.ToUpper(*doc.Currency),
		AUDPerUSD:             *doc.AUDPerUSD,
	}, nil
}
