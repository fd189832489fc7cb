package domain

import "fmt"

// ScenarioFile is the top-level document of a scenario YAML file.
type ScenarioFile struct {
	Segment     string          `yaml:"segment,omitempty" json:"segment,omitempty"`
	Benefit     string          `yaml:"benefit,omitempty" json:"benefit,omitempty"`
	Assumptions Assumptions     `yaml:"assumptions" json:"assumptions"`
	Scenarios   []ScenarioInput `yaml:"scenarios" json:"scenarios"`
}

// Scenario returns the scenario with the given name, or the first scenario when
// name is empty.
func (f *ScenarioFile) Scenario(name string) (*ScenarioInput, error) {
	if len(f.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios provided")
	}
	if name == "" {
		return &f.Scenarios[0], nil
	}
	for i := range f.Scenarios {
		if f.Scenarios[i].Name == name {
			return &f.Scenarios[i], nil
		}
	}
	return nil, fmt.Errorf("scenario %q not found", name)
}

// BenefitDefinition parses the file's benefit field.
func (f *ScenarioFile) BenefitDefinition() (BenefitDefinition, error) {
	return ParseBenefitDefinition(f.Benefit)
}
