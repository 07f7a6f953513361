package config

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bird-bench/mini-dev/internal/testutil"
	"github.com/bird-bench/mini-dev/pkg/adapter"

	// Register adapters used by target validation.
	_ "github.com/bird-bench/mini-dev/pkg/adapters/postgres"
	_ "github.com/bird-bench/mini-dev/pkg/adapters/sqlite"
)

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("data-dir", "", "")
	flags.String("state", "", "")
	flags.String("dialect", "", "")
	flags.Int("workers", 0, "")
	flags.BoolP("verbose", "v", false, "")
	flags.String("db", "", "command option, not configuration")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, DefaultDataDir), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, DefaultStateFile), cfg.StatePath)
	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultSampleValues, cfg.SampleValues)
	assert.Nil(t, cfg.Target)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := testutil.WriteFile(t, dir, "minidev.yaml", `data_dir: bird/dev_databases
dialect: SQLite
workers: 4
output: yaml
target:
  type: Postgres
  host: ${MINIDEV_TEST_HOST}
  password: ${MINIDEV_TEST_UNSET}
  options:
    sslmode: require
`)
	t.Setenv("MINIDEV_TEST_HOST", "db.internal")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "bird", "dev_databases"), cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, cfgPath, GetConfigFileUsed())

	require.NotNil(t, cfg.Target)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, "db.internal", cfg.Target.Host)
	assert.Equal(t, "${MINIDEV_TEST_UNSET}", cfg.Target.Password)
	assert.Equal(t, map[string]string{"sslmode": "require"}, cfg.Target.Options)
}

func TestLoadConfig_FoundUpward(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "minidev.yml", "workers: 3\n")
	nested := filepath.Join(dir, "a", "b")
	testutil.WriteFile(t, nested, "keep", "")
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, filepath.Join(dir, DefaultDataDir), cfg.DataDir)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testutil.WriteFile(t, dir, "minidev.yaml", "workers: 2\ndialect: postgres\ndata_dir: from_file\n")

	t.Run("env overrides file", func(t *testing.T) {
		ResetConfig()
		t.Setenv("MINIDEV_WORKERS", "6")

		cfg, err := LoadConfig(cfgPath, nil)
		require.NoError(t, err)
		assert.Equal(t, 6, cfg.Workers)
		assert.Equal(t, "postgres", cfg.Dialect)
	})

	t.Run("flag overrides env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("MINIDEV_WORKERS", "6")
		flags := newFlags(t)
		require.NoError(t, flags.Set("workers", "9"))

		cfg, err := LoadConfig(cfgPath, flags)
		require.NoError(t, err)
		assert.Equal(t, 9, cfg.Workers)
	})

	t.Run("unset flag keeps env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("MINIDEV_DIALECT", "duckdb")

		cfg, err := LoadConfig(cfgPath, newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "duckdb", cfg.Dialect)
	})

	t.Run("flag paths resolve against working directory", func(t *testing.T) {
		ResetConfig()
		wd := t.TempDir()
		t.Chdir(wd)
		flags := newFlags(t)
		require.NoError(t, flags.Set("data-dir", "local"))
		require.NoError(t, flags.Set("db", "shop"))

		cfg, err := LoadConfig(cfgPath, flags)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(wd, "local"), cfg.DataDir)
		assert.Equal(t, filepath.Join(dir, DefaultStateFile), cfg.StatePath)
	})

	t.Run("nested env key", func(t *testing.T) {
		ResetConfig()
		t.Setenv("MINIDEV_TARGET__TYPE", "postgres")
		t.Setenv("MINIDEV_TARGET__HOST", "pg")

		cfg, err := LoadConfig(cfgPath, nil)
		require.NoError(t, err)
		require.NotNil(t, cfg.Target)
		assert.Equal(t, "pg", cfg.Target.Host)
	})
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errs    []string
	}{
		{"unknown dialect", "dialect: oracle\n", []string{`unknown dialect "oracle"`}},
		{"bad workers", "workers: 0\n", []string{"workers must be at least 1"}},
		{"bad output", "output: html\n", []string{`invalid output "html"`}},
		{"unknown target", "target:\n  type: snowflake\n", []string{"invalid target configuration", "snowflake"}},
		{"empty target type", "target:\n  host: x\n", []string{"target type is required"}},
		{"several problems", "workers: -1\nlog_format: xml\n", []string{"workers", "log_format"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			cfgPath := testutil.WriteFile(t, t.TempDir(), "minidev.yaml", tt.content)

			_, err := LoadConfig(cfgPath, nil)
			require.Error(t, err)
			for _, want := range tt.errs {
				assert.Contains(t, err.Error(), want)
			}
			assert.Nil(t, GetCurrentConfig())
		})
	}

	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidateTarget(t *testing.T) {
	assert.NoError(t, ValidateTarget(nil))
	assert.NoError(t, ValidateTarget(&adapter.Config{Type: "sqlite"}))

	err := ValidateTarget(&adapter.Config{Type: "mongo"})
	var unknown *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Available, "postgres")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single variable", "${TEST_VAR_ONE}", "value_one"},
		{"multiple variables", "${TEST_VAR_ONE}/${TEST_VAR_TWO}", "value_one/value_two"},
		{"unset variable stays as-is", "${UNSET_VARIABLE}", "${UNSET_VARIABLE}"},
		{"no variables", "plain string", "plain string"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	var buf bytes.Buffer
	logger := NewLogger(&buf, &Config{LogFormat: "json", Verbose: true})
	ctx := WithLogger(context.Background(), logger)
	GetLogger(ctx).Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	NewLogger(&buf, &Config{LogFormat: "text"}).Debug("hidden")
	assert.Empty(t, buf.String())
}
