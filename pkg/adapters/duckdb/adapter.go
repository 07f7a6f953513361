// Package duckdb reads catalog snapshots from DuckDB databases.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/bird-bench/mini-dev/pkg/adapter"
	"github.com/bird-bench/mini-dev/pkg/dialect"
	"github.com/bird-bench/mini-dev/pkg/schema"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Adapter implements adapter.Adapter for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return dialect.DuckDB.Name
}

// Connect establishes a connection to DuckDB.
// An empty path opens an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	a.Logger.Debug("opening duckdb database", slog.String("path", path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	if err := a.applyParams(ctx, cfg); err != nil {
		_ = db.Close()
		a.DB = nil
		return err
	}
	return nil
}

// Snapshot reads cfg.Schema (default main) from information_schema.
func (a *Adapter) Snapshot(ctx context.Context, opts adapter.SnapshotOptions) (*schema.Snapshot, error) {
	snap, err := a.SnapshotFromInformationSchema(ctx, dialect.DuckDB, a.Cfg.Schema)
	if err != nil {
		return nil, err
	}
	if err := a.FillSampleValues(ctx, dialect.DuckDB, snap, opts.SampleValues); err != nil {
		return nil, err
	}
	return snap, nil
}

var _ adapter.Adapter = (*Adapter)(nil)
