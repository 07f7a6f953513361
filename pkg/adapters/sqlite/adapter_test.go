package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bird-bench/mini-dev/pkg/adapter"
)

// createFixture writes a small database file and returns its path.
func createFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.sqlite")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for _, stmt := range []string{
		`CREATE TABLE Customers (CustID INTEGER PRIMARY KEY, Name TEXT NOT NULL, City TEXT DEFAULT 'Paris')`,
		`CREATE TABLE "order" (id INTEGER PRIMARY KEY AUTOINCREMENT, CustID INTEGER, note TEXT)`,
		`INSERT INTO Customers VALUES (1, 'Ann', 'Paris'), (2, 'Bob', 'Paris'), (3, 'Cy', 'Lyon'), (4, 'Di', NULL)`,
		`INSERT INTO "order" (CustID, note) VALUES (1, 'a note that is definitely longer than thirty characters')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  adapter.Config
		want string
	}{
		{"read only by default", adapter.Config{Path: "data/db.sqlite"}, "file:data/db.sqlite?mode=ro"},
		{"mode override", adapter.Config{Path: "x.db", Options: map[string]string{"mode": "rwc"}}, "file:x.db?mode=rwc"},
		{"memory", adapter.Config{Path: MemoryPath}, MemoryPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.cfg))
		})
	}
}

func TestAdapter_Connect(t *testing.T) {
	ctx := context.Background()

	adp := New(nil)
	require.Error(t, adp.Connect(ctx, adapter.Config{}))

	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: MemoryPath}))
	assert.True(t, adp.IsConnected())
	assert.Equal(t, "sqlite", adp.DialectName())
	assert.NoError(t, adp.Close())

	missing := filepath.Join(t.TempDir(), "missing.sqlite")
	assert.Error(t, New(nil).Connect(ctx, adapter.Config{Path: missing}), "read-only mode does not create files")
}

func TestAdapter_Snapshot(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: createFixture(t), Database: "shop"}))
	defer func() { _ = adp.Close() }()

	snap, err := adp.Snapshot(ctx, adapter.SnapshotOptions{SampleValues: 2})
	require.NoError(t, err)

	assert.Equal(t, "shop", snap.Database)
	require.Len(t, snap.Tables, 2, "sqlite_sequence is skipped")

	customers := snap.Tables[0]
	assert.Equal(t, "Customers", customers.Name)
	require.Len(t, customers.Columns, 3)

	id := customers.Columns[0]
	assert.Equal(t, "CustID", id.Name)
	assert.Equal(t, "INTEGER", id.Type)
	assert.True(t, id.PrimaryKey)
	assert.Nil(t, id.Default)

	name := customers.Columns[1]
	assert.False(t, name.Nullable)

	city := customers.Columns[2]
	assert.True(t, city.Nullable)
	require.NotNil(t, city.Default)
	assert.Equal(t, "'Paris'", *city.Default)
	assert.Equal(t, []string{"Paris", "Lyon"}, city.SampleValues)

	order := snap.Tables[1]
	assert.Equal(t, "order", order.Name)
	note, ok := order.Column("note")
	require.True(t, ok)
	assert.Equal(t, []string{"a note that is definitely long..."}, note.SampleValues)
}

func TestAdapter_SnapshotWithoutSamples(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: createFixture(t)}))
	defer func() { _ = adp.Close() }()

	snap, err := adp.Snapshot(ctx, adapter.SnapshotOptions{})
	require.NoError(t, err)
	for _, table := range snap.Tables {
		for _, col := range table.Columns {
			assert.Nil(t, col.SampleValues, "%s.%s", table.Name, col.Name)
		}
	}
}

func TestAdapter_NotConnected(t *testing.T) {
	_, err := New(nil).Snapshot(context.Background(), adapter.SnapshotOptions{})
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
}

func TestRegistration(t *testing.T) {
	adp, err := adapter.NewAdapter(adapter.Config{Type: "sqlite"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Adapter{}, adp)
}
