package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bird-bench/mini-dev/pkg/adapter"
	"github.com/bird-bench/mini-dev/pkg/dialect"
)

// OutputFormats lists the accepted values of the output key.
var OutputFormats = []string{"auto", "text", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.SampleValues < 0 {
		errs = append(errs, fmt.Errorf("sample_values must not be negative, got %d", c.SampleValues))
	}
	if _, err := dialect.Get(c.Dialect); err != nil {
		errs = append(errs, err)
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("invalid output %q (available: %s)", c.OutputFormat, strings.Join(OutputFormats, ", ")))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log_format %q (available: text, json)", c.LogFormat))
	}
	if err := ValidateTarget(c.Target); err != nil {
		errs = append(errs, fmt.Errorf("invalid target configuration: %w", err))
	}

	return errors.Join(errs...)
}

// ValidateTarget checks that a configured target names a registered
// adapter. A nil target means the sqlite files under data_dir.
func ValidateTarget(t *adapter.Config) error {
	if t == nil {
		return nil
	}
	if t.Type == "" {
		return errors.New("target type is required")
	}
	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{Type: t.Type, Available: adapter.ListAdapters()}
	}
	return nil
}
