package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/lonelyless/decisionaid/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/coefficients.yaml
var defaultCoefficientsYAML []byte

// DefaultCoefficientTable returns the built-in segment estimates.
func DefaultCoefficientTable() *domain.CoefficientTable {
	table, err := ParseCoefficientTable(defaultCoefficientsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded coefficient table is invalid: %v", err))
	}
	return table
}

// LoadCoefficientTable reads a coefficient table from a YAML file. An empty
// filename returns the built-in table.
func LoadCoefficientTable(filename string) (*domain.CoefficientTable, error) {
	if filename == "" {
		return DefaultCoefficientTable(), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read coefficient file %s: %w", filename, err)
	}
	table, err := ParseCoefficientTable(data)
	if err != nil {
		return nil, fmt.Errorf("coefficient file %s: %w", filename, err)
	}
	return table, nil
}

// ParseCoefficientTable decodes and validates a coefficient table document.
func ParseCoefficientTable(data []byte) (*domain.CoefficientTable, error) {
	var table domain.CoefficientTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse coefficient YAML: %w", err)
	}
	if table.DefaultSegment == "" && len(table.Segments) > 0 {
		table.DefaultSegment = table.Segments[0].Key
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}
