package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings are process-level options read from the environment. Command-line
// flags take precedence over them.
type Settings struct {
	CoefficientsFile string `env:"LONELYLESS_COEFFICIENTS"`
	RegionsFile      string `env:"LONELYLESS_REGIONS"`
	Currency         string `env:"LONELYLESS_CURRENCY" envDefault:"AUD"`
	Debug            bool   `env:"LONELYLESS_DEBUG"`
}

// LoadSettings parses Settings from the process environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to read environment settings: %w", err)
	}
	return s, nil
}

// LoadSettingsFrom parses Settings from an explicit environment map.
func LoadSettingsFrom(environment map[string]string) (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: environment}); err != nil {
		return Settings{}, fmt.Errorf("failed to read environment settings: %w", err)
	}
	return s, nil
}
