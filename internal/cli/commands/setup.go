// Package commands implements the minidev subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bird-bench/mini-dev/internal/catalog"
	"github.com/bird-bench/mini-dev/internal/cli/config"
	"github.com/bird-bench/mini-dev/internal/cli/output"
	"github.com/bird-bench/mini-dev/pkg/dialect"
	"github.com/bird-bench/mini-dev/pkg/schema"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Dialect  *dialect.Dialect
}

// NewCommandContext builds the dependencies of cmd from the loaded
// configuration.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	d, err := dialect.Get(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
		Dialect:  d,
	}, nil
}

// Catalog creates a catalog over the configured databases.
func (c *CommandContext) Catalog(sampleValues int, descriptions bool) *catalog.Catalog {
	return catalog.New(catalog.Options{
		Locator:      c.Locator(),
		SampleValues: sampleValues,
		Descriptions: descriptions,
		Workers:      c.Cfg.Workers,
		Logger:       c.Logger,
	})
}

// Locator returns the configured database locator.
func (c *CommandContext) Locator() catalog.Locator {
	return catalog.Locator{DataDir: c.Cfg.DataDir, Target: c.Cfg.Target}
}

// LoadEntry reads the schema of dbID. An empty dbID yields a nil entry.
// A database that cannot be read is reported as a warning and yields an
// entry with an empty index.
func (c *CommandContext) LoadEntry(ctx context.Context, dbID string) (*catalog.Entry, error) {
	if dbID == "" {
		return nil, nil
	}
	cat := c.Catalog(0, false)
	defer func() { _ = cat.Close() }()

	e, err := cat.Load(ctx, dbID)
	if err != nil {
		return nil, err
	}
	if !e.Available {
		c.Renderer.Warnf("warning: schema of %s unavailable: %v\n", dbID, e.Err)
	}
	return e, nil
}

// LoadIndex is LoadEntry reduced to the index.
func (c *CommandContext) LoadIndex(ctx context.Context, dbID string) (*schema.Index, error) {
	e, err := c.LoadEntry(ctx, dbID)
	if err != nil || e == nil {
		return nil, err
	}
	return e.Index, nil
}

// getConfig returns the current configuration, or the defaults when none
// was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Defaults()
}

// readInput returns the single argument, or standard input when the
// argument is "-" or missing.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read standard input: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.New("no input given")
	}
	return text, nil
}

// stringRows turns values into one-column table rows.
func stringRows(values []string) [][]any {
	rows := make([][]any, len(values))
	for i, v := range values {
		rows[i] = []any{v}
	}
	return rows
}
