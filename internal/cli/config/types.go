// Package config provides layered configuration for the minidev CLI.
//
// Values are merged from defaults, a minidev.yaml file, MINIDEV_ environment
// variables and explicitly set command-line flags, in increasing order of
// precedence.
package config

import "github.com/bird-bench/mini-dev/pkg/adapter"

// Config holds all CLI configuration options.
type Config struct {
	DataDir      string          `koanf:"data_dir"`
	Dialect      string          `koanf:"dialect"`
	Workers      int             `koanf:"workers"`
	StatePath    string          `koanf:"state_path"`
	OutputFormat string          `koanf:"output"`
	Verbose      bool            `koanf:"verbose"`
	LogFormat    string          `koanf:"log_format"`
	SampleValues int             `koanf:"sample_values"`
	Target       *adapter.Config `koanf:"target"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultDataDir      = "data/dev_databases"
	DefaultDialect      = "sqlite"
	DefaultWorkers      = 12
	DefaultStateFile    = ".minidev/state.db"
	DefaultOutput       = "auto" // TTY=text, otherwise json
	DefaultLogFormat    = "text"
	DefaultSampleValues = 5
)

// Defaults returns a config holding only default values.
func Defaults() *Config {
	return &Config{
		DataDir:      DefaultDataDir,
		Dialect:      DefaultDialect,
		Workers:      DefaultWorkers,
		StatePath:    DefaultStateFile,
		OutputFormat: DefaultOutput,
		LogFormat:    DefaultLogFormat,
		SampleValues: DefaultSampleValues,
	}
}
