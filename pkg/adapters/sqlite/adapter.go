// Package sqlite reads catalog snapshots from SQLite database files.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/bird-bench/mini-dev/pkg/adapter"
	"github.com/bird-bench/mini-dev/pkg/dialect"
	"github.com/bird-bench/mini-dev/pkg/schema"

	_ "modernc.org/sqlite" // sqlite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Adapter implements adapter.Adapter for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
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
	return dialect.SQLite.Name
}

// Connect opens cfg.Path read-only. Options["mode"] overrides the open
// mode ("rw" for fixtures that are written after opening).
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	if cfg.Path == "" {
		return errors.New("sqlite adapter requires a path")
	}
	dsn := buildDSN(cfg)

	a.Logger.Debug("opening sqlite database", slog.String("path", cfg.Path))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database %s: %w", cfg.Path, err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

func buildDSN(cfg adapter.Config) string {
	if cfg.Path == MemoryPath {
		return MemoryPath
	}
	mode := "ro"
	if m, ok := cfg.Options["mode"]; ok && m != "" {
		mode = m
	}
	q := url.Values{}
	q.Set("mode", mode)
	return "file:" + cfg.Path + "?" + q.Encode()
}

// Snapshot lists user tables from sqlite_master in catalog order and reads
// their columns with PRAGMA table_info.
func (a *Adapter) Snapshot(ctx context.Context, opts adapter.SnapshotOptions) (*schema.Snapshot, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}

	names, err := a.tableNames(ctx)
	if err != nil {
		return nil, err
	}

	snap := &schema.Snapshot{Database: a.Cfg.Database}
	for _, name := range names {
		cols, err := a.tableInfo(ctx, name)
		if err != nil {
			return nil, err
		}
		snap.Tables = append(snap.Tables, schema.Table{Name: name, Columns: cols})
	}

	if err := a.FillSampleValues(ctx, dialect.SQLite, snap, opts.SampleValues); err != nil {
		return nil, err
	}
	return snap, nil
}

func (a *Adapter) tableNames(ctx context.Context) ([]string, error) {
	rows, err := a.DB.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (a *Adapter) tableInfo(ctx context.Context, table string) ([]schema.Column, error) {
	//nolint:gosec // table names come from sqlite_master and are quoted
	rows, err := a.DB.QueryContext(ctx, "PRAGMA table_info("+dialect.SQLite.QuoteIdentifier(table)+")")
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var cols []schema.Column
	for rows.Next() {
		var (
			cid, notNull, pk int
			col              schema.Column
			def              sql.NullString
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &def, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan columns of %s: %w", table, err)
		}
		col.Nullable = notNull == 0
		col.PrimaryKey = pk > 0
		if def.Valid {
			col.Default = &def.String
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

var _ adapter.Adapter = (*Adapter)(nil)
