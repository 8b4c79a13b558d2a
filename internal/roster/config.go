package roster

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config sizes the rostering problem and selects what to print.
type Config struct {
	Employees int `yaml:"employees"`
	Days      int `yaml:"days"`
	Shifts    int `yaml:"shifts"`
	// ShowSolutions lists the 1-based ordinals of the solutions to print.
	ShowSolutions []int `yaml:"showSolutions"`
	// MaxSolutions bounds the enumeration, 0 for the largest ordinal in
	// ShowSolutions.
	MaxSolutions int `yaml:"maxSolutions"`
}

// DefaultConfig is ten employees on two shifts over fifteen days,
// printing the first five solutions.
func DefaultConfig() Config {
	return Config{
		Employees:     10,
		Days:          15,
		Shifts:        2,
		ShowSolutions: []int{1, 2, 3, 4, 5},
	}
}

// LoadConfig reads a YAML config from path. Missing fields keep their
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading roster config (%s): %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing roster config (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid roster config (%s): %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Employees <= 0 {
		errs = append(errs, fmt.Errorf("employees must be positive, got %d", c.Employees))
	}
	if c.Days <= 0 {
		errs = append(errs, fmt.Errorf("days must be positive, got %d", c.Days))
	}
	if c.Shifts <= 0 {
		errs = append(errs, fmt.Errorf("shifts must be positive, got %d", c.Shifts))
	}
	for _, n := range c.ShowSolutions {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("solution ordinals start at 1, got %d", n))
		}
	}
	if c.MaxSolutions < 0 {
		errs = append(errs, fmt.Errorf("maxSolutions must not be negative, got %d", c.MaxSolutions))
	}
	return errors.Join(errs...)
}

// Limit is the number of solutions to enumerate.
func (c Config) Limit() int {
	if c.MaxSolutions > 0 {
		return c.MaxSolutions
	}
	limit := 0
	for _, n := range c.ShowSolutions {
		limit = max(limit, n)
	}
	return limit
}
