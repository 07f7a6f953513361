package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bird-bench/mini-dev/pkg/adapter"
	"github.com/bird-bench/mini-dev/pkg/schema"
)

// ErrDatabaseNotFound is returned when no database exists for a db_id.
var ErrDatabaseNotFound = errors.New("database not found")

// Locator maps a db_id to the connection settings of its database.
//
// Without a target (or with a sqlite target) databases are files laid out
// as DataDir/<id>/<id>.sqlite. Any other target type is used as configured,
// with the db_id as database name when the target does not name one.
type Locator struct {
	DataDir string
	Target  *adapter.Config
}

// Path returns the sqlite file path for id.
func (l Locator) Path(id string) string {
	return filepath.Join(l.DataDir, id, id+".sqlite")
}

// DescriptionDir returns the directory holding the description CSVs of id.
func (l Locator) DescriptionDir(id string) string {
	return filepath.Join(l.DataDir, id, schema.DescriptionDir)
}

// Config returns the adapter configuration for id.
func (l Locator) Config(id string) (adapter.Config, error) {
	if id == "" {
		return adapter.Config{}, fmt.Errorf("%w: empty db_id", ErrDatabaseNotFound)
	}

	if l.Target != nil && l.Target.Type != "" && l.Target.Type != "sqlite" {
		cfg := *l.Target
		if cfg.Database == "" {
			cfg.Database = id
		}
		return cfg, nil
	}

	path := l.Path(id)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return adapter.Config{}, fmt.Errorf("%w: %s (looked for %s)", ErrDatabaseNotFound, id, path)
		}
		return adapter.Config{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	cfg := adapter.Config{Type: "sqlite", Path: path, Database: id}
	if l.Target != nil {
		cfg.Options = l.Target.Options
	}
	return cfg, nil
}

// Discover lists the db_ids under DataDir: every directory not starting
// with a dot, sorted. A database file is not required; missing files show
// up as unavailable entries when loaded.
func (l Locator) Discover() ([]string, error) {
	entries, err := os.ReadDir(l.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", l.DataDir, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}
