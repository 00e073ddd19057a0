package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/rgehrsitz/paycalc/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default_rates.yaml
var defaultRatesYAML []byte

// DefaultRates returns a fresh copy of the built-in rate set
func DefaultRates() (*domain.RateSet, error) {
	rates, err := ParseRates(defaultRatesYAML)
	if err != nil {
		return nil, fmt.Errorf("built-in rates: %w", err)
	}
	return rates, nil
}

// LoadRates loads a rate set from a YAML file
func LoadRates(filename string) (*domain.RateSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ParseRates(data)
}

// LoadRatesOrDefault loads filename, or the built-in rates when it is empty
func LoadRatesOrDefault(filename string) (*domain.RateSet, error) {
	if filename == "" {
		return DefaultRates()
	}
	return LoadRates(filename)
}

// ParseRates decodes and validates a rate set
func ParseRates(data []byte) (*domain.RateSet, error) {
	var rates domain.RateSet
	if err := yaml.Unmarshal(data, &rates); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := rates.Validate(); err != nil {
		return nil, fmt.Errorf("rate validation failed: %w", err)
	}
	return &rates, nil
}
