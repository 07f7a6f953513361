package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bird-bench/mini-dev/pkg/adapter"
)

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name      string
		setupPath func(t *testing.T) string
		verify    func(t *testing.T, path string)
	}{
		{
			name: "in-memory",
			setupPath: func(_ *testing.T) string {
				return ""
			},
		},
		{
			name: "file-based",
			setupPath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "test.duckdb")
			},
			verify: func(t *testing.T, path string) {
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "database file was not created")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			dbPath := tt.setupPath(t)
			require.NoError(t, adp.Connect(ctx, adapter.Config{Path: dbPath}))
			defer func() { _ = adp.Close() }()

			if tt.verify != nil {
				tt.verify(t, dbPath)
			}
		})
	}
}

func TestAdapter_Snapshot(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: ":memory:"}))
	defer func() { _ = adp.Close() }()

	for _, stmt := range []string{
		`CREATE TABLE customers (id INTEGER PRIMARY KEY, name VARCHAR NOT NULL, segment VARCHAR DEFAULT 'SME')`,
		`CREATE TABLE orders (id INTEGER, customer_id INTEGER, total DOUBLE)`,
		`INSERT INTO customers VALUES (1, 'ann', 'SME'), (2, 'bob', 'SME'), (3, 'cy', 'LAM')`,
	} {
		_, err := adp.DB.ExecContext(ctx, stmt)
		require.NoError(t, err, stmt)
	}

	snap, err := adp.Snapshot(ctx, adapter.SnapshotOptions{SampleValues: 1})
	require.NoError(t, err)
	require.Len(t, snap.Tables, 2)

	customers, ok := snap.Table("customers")
	require.True(t, ok)
	require.Len(t, customers.Columns, 3)
	assert.Equal(t, "id", customers.Columns[0].Name)
	assert.False(t, customers.Columns[1].Nullable)
	assert.Equal(t, []string{"SME"}, customers.Columns[2].SampleValues)

	orders, ok := snap.Table("orders")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "customer_id", "total"}, []string{
		orders.Columns[0].Name, orders.Columns[1].Name, orders.Columns[2].Name,
	})
}

func TestAdapter_NotConnected(t *testing.T) {
	_, err := New(nil).Snapshot(context.Background(), adapter.SnapshotOptions{})
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
}

func TestAdapter_Registry(t *testing.T) {
	adp, err := adapter.NewAdapter(adapter.Config{Type: "duckdb"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", adp.DialectName())
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		want    Params
		wantErr string
	}{
		{name: "empty"},
		{
			name: "settings are weakly typed",
			raw:  map[string]any{"settings": map[string]any{"threads": 2, "memory_limit": "1GB"}},
			want: Params{Settings: map[string]string{"threads": "2", "memory_limit": "1GB"}},
		},
		{
			name: "extensions and attach",
			raw:  map[string]any{"extensions": []any{"json"}, "attach": map[string]any{"ref": "/data/ref.duckdb"}},
			want: Params{Extensions: []string{"json"}, Attach: map[string]string{"ref": "/data/ref.duckdb"}},
		},
		{
			name:    "unknown key",
			raw:     map[string]any{"secrets": []any{}},
			wantErr: "invalid duckdb params",
		},
		{
			name:    "setting name is checked",
			raw:     map[string]any{"settings": map[string]any{"threads; DROP": "1"}},
			wantErr: "invalid duckdb setting name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParams(tt.raw)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParamsStatements(t *testing.T) {
	p := Params{
		Extensions: []string{"json"},
		Settings:   map[string]string{"threads": "2", "memory_limit": "1GB"},
		Attach:     map[string]string{"ref": "it's.duckdb"},
	}
	assert.Equal(t, []string{
		"LOAD json",
		"SET memory_limit = '1GB'",
		"SET threads = '2'",
		"ATTACH 'it''s.duckdb' AS ref (READ_ONLY)",
	}, p.statements())
}

func TestAdapter_ConnectAppliesSettings(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{
		Params: map[string]any{"settings": map[string]any{"threads": 2}},
	}))
	defer func() { _ = adp.Close() }()

	var threads string
	require.NoError(t, adp.DB.QueryRowContext(ctx, "SELECT current_setting('threads')").Scan(&threads))
	assert.Equal(t, "2", threads)

	bad := New(nil)
	err := bad.Connect(ctx, adapter.Config{Params: map[string]any{"settings": map[string]any{"no_such_setting": "x"}}})
	assert.Error(t, err)
	assert.False(t, bad.IsConnected())
}
