package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite" // sqlite driver
)

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// SQLiteDB creates a database file at path and runs stmts against it.
func SQLiteDB(t testing.TB, path string, stmts ...string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

// BirdDatabase lays out dataDir/<id>/<id>.sqlite the way the benchmark
// ships its databases and returns the database path.
func BirdDatabase(t testing.TB, dataDir, id string, stmts ...string) string {
	t.Helper()
	return SQLiteDB(t, filepath.Join(dataDir, id, id+".sqlite"), stmts...)
}
