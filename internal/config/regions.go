package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lonelyless/decisionaid/internal/domain"
)

// LoadRegionTable reads region multipliers from a JSON object of the form
// {"NSW": 1.10, ...}. It always returns a usable table: when the file cannot be
// used the built-in table is returned together with the reason.
func LoadRegionTable(filename string) (domain.RegionTable, error) {
	if filename == "" {
		return domain.DefaultRegionTable(), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.DefaultRegionTable(), fmt.Errorf("using built-in region table: %w", err)
	}
	table, err := ParseRegionTable(data)
	if err != nil {
		return domain.DefaultRegionTable(), fmt.Errorf("using built-in region table: %s: %w", filename, err)
	}
	return table, nil
}

// ParseRegionTable decodes a region multiplier document. Codes are upper-cased.
func ParseRegionTable(data []byte) (domain.RegionTable, error) {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse region JSON: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("region table is empty")
	}
	table := make(domain.RegionTable, len(raw))
	for code, m := range raw {
		if m <= 0 {
			return nil, fmt.Errorf("region %s: multiplier must be positive, got %v", code, m)
		}
		table[strings.ToUpper(strings.TrimSpace(code))] = m
	}
	return table, nil
}
