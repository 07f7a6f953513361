// Package adapter defines how catalog snapshots are read from a database.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves at init time. Import them with a blank identifier:
//
//	import _ "github.com/bird-bench/mini-dev/pkg/adapters/sqlite"
package adapter

import (
	"context"

	"github.com/bird-bench/mini-dev/pkg/schema"
)

// Config holds the connection settings of one catalog target.
type Config struct {
	Type     string            `koanf:"type"`
	Path     string            `koanf:"path"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	Username string            `koanf:"username"`
	Password string            `koanf:"password"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`

	// Params holds engine-specific settings decoded by the adapter.
	Params map[string]any `koanf:"params"`
}

// SnapshotOptions controls what a snapshot reads besides names and types.
type SnapshotOptions struct {
	// SampleValues is the number of most frequent non-null values read per
	// column. Zero skips sampling.
	SampleValues int
}

// Adapter reads the catalog of one database.
type Adapter interface {
	// Connect opens the database described by cfg.
	Connect(ctx context.Context, cfg Config) error

	// Close releases the connection.
	Close() error

	// DialectName names the SQL dialect of the database.
	DialectName() string

	// Snapshot reads every user table with its columns in declaration order.
	Snapshot(ctx context.Context, opts SnapshotOptions) (*schema.Snapshot, error)
}
