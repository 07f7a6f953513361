package duckdb

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/bird-bench/mini-dev/pkg/adapter"
)

// Params holds DuckDB-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Extensions to load (e.g., "sqlite", "json"). They must already be
	// installed.
	Extensions []string `mapstructure:"extensions"`

	// Settings to apply at session level (e.g., memory_limit, threads)
	Settings map[string]string `mapstructure:"settings"`

	// Attach lists further database files attached read-only under the
	// map key as catalog name.
	Attach map[string]string `mapstructure:"attach"`
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseParams decodes raw into Params. Unknown keys are an error.
func ParseParams(raw map[string]any) (Params, error) {
	var p Params
	if len(raw) == 0 {
		return p, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(raw); err != nil {
		return p, fmt.Errorf("invalid duckdb params: %w", err)
	}

	for _, name := range p.Extensions {
		if !identPattern.MatchString(name) {
			return p, fmt.Errorf("invalid duckdb extension name %q", name)
		}
	}
	for name := range p.Settings {
		if !identPattern.MatchString(name) {
			return p, fmt.Errorf("invalid duckdb setting name %q", name)
		}
	}
	for name := range p.Attach {
		if !identPattern.MatchString(name) {
			return p, fmt.Errorf("invalid duckdb catalog name %q", name)
		}
	}
	return p, nil
}

// statements returns the session statements that apply p, settings in
// name order.
func (p Params) statements() []string {
	var stmts []string
	for _, ext := range p.Extensions {
		stmts = append(stmts, "LOAD "+ext)
	}
	names := make([]string, 0, len(p.Settings))
	for name := range p.Settings {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		stmts = append(stmts, fmt.Sprintf("SET %s = %s", name, quoteLiteral(p.Settings[name])))
	}
	aliases := make([]string, 0, len(p.Attach))
	for alias := range p.Attach {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	for _, alias := range aliases {
		stmts = append(stmts, fmt.Sprintf("ATTACH %s AS %s (READ_ONLY)", quoteLiteral(p.Attach[alias]), alias))
	}
	return stmts
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// applyParams runs the session statements of cfg.Params.
func (a *Adapter) applyParams(ctx context.Context, cfg adapter.Config) error {
	p, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}
	for _, stmt := range p.statements() {
		a.Logger.Debug("applying duckdb param", slog.String("statement", stmt))
		if _, err := a.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply %q: %w", stmt, err)
		}
	}
	return nil
}
