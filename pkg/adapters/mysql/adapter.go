// Package mysql reads catalog snapshots from MySQL.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/bird-bench/mini-dev/pkg/adapter"
	"github.com/bird-bench/mini-dev/pkg/dialect"
	"github.com/bird-bench/mini-dev/pkg/schema"
)

// Adapter implements adapter.Adapter for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
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
	return dialect.MySQL.Name
}

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildMySQLDSN(cfg)

	a.Logger.Debug("connecting to mysql", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open mysql connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildMySQLDSN renders cfg with the driver's own DSN formatter.
// Options are passed through as connection parameters.
func buildMySQLDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	mc.DBName = cfg.Database
	if len(cfg.Options) > 0 {
		mc.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

// Snapshot reads the connected database from information_schema. In MySQL
// the schema is the database, so cfg.Schema falls back to cfg.Database.
func (a *Adapter) Snapshot(ctx context.Context, opts adapter.SnapshotOptions) (*schema.Snapshot, error) {
	schemaName := a.Cfg.Schema
	if schemaName == "" {
		schemaName = a.Cfg.Database
	}
	snap, err := a.SnapshotFromInformationSchema(ctx, dialect.MySQL, schemaName)
	if err != nil {
		return nil, err
	}
	if err := a.FillSampleValues(ctx, dialect.MySQL, snap, opts.SampleValues); err != nil {
		return nil, err
	}
	return snap, nil
}

var _ adapter.Adapter = (*Adapter)(nil)
