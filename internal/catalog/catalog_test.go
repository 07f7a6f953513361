package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bird-bench/mini-dev/internal/testutil"
	"github.com/bird-bench/mini-dev/pkg/adapter"
)

func setupDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.BirdDatabase(t, dir, "shop",
		`CREATE TABLE Customers (CustID INTEGER PRIMARY KEY, Name TEXT)`,
		`CREATE TABLE Orders (OrderID INTEGER PRIMARY KEY, CustID INTEGER, Total REAL)`,
		`INSERT INTO Customers VALUES (1, 'Ann'), (2, 'Ann'), (3, 'Bob')`,
	)
	testutil.BirdDatabase(t, dir, "school",
		`CREATE TABLE satscores (cds TEXT, AvgScrMath INTEGER)`,
	)
	testutil.WriteFile(t, filepath.Join(dir, "shop", "database_description"), "Customers.csv",
		"original_column_name,column_name,column_description,data_format,value_description\n"+
			"CustID,customer id,unique customer id,integer,\n")
	return dir
}

func TestLocator(t *testing.T) {
	dir := setupDataDir(t)
	loc := Locator{DataDir: dir}

	cfg, err := loc.Config("shop")
	require.NoError(t, err)
	assert.Equal(t, adapter.Config{Type: "sqlite", Path: filepath.Join(dir, "shop", "shop.sqlite"), Database: "shop"}, cfg)
	assert.Equal(t, filepath.Join(dir, "shop", "database_description"), loc.DescriptionDir("shop"))

	_, err = loc.Config("missing")
	assert.ErrorIs(t, err, ErrDatabaseNotFound)

	_, err = loc.Config("")
	assert.ErrorIs(t, err, ErrDatabaseNotFound)
}

func TestLocatorDiscover(t *testing.T) {
	dir := setupDataDir(t)
	testutil.WriteFile(t, filepath.Join(dir, ".cache"), "x", "")
	testutil.WriteFile(t, filepath.Join(dir, "empty"), "README", "")
	testutil.WriteFile(t, dir, "notes.txt", "")

	ids, err := Locator{DataDir: dir}.Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{"empty", "school", "shop"}, ids)

	_, err = Locator{DataDir: filepath.Join(dir, "absent")}.Discover()
	require.Error(t, err)
}

func TestLocatorTarget(t *testing.T) {
	loc := Locator{Target: &adapter.Config{Type: "postgres", Host: "db", Schema: "bird"}}

	cfg, err := loc.Config("shop")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, "shop", cfg.Database)
	assert.Equal(t, "db", cfg.Host)

	loc.Target.Database = "bench"
	cfg, err = loc.Config("shop")
	require.NoError(t, err)
	assert.Equal(t, "bench", cfg.Database)
}

func TestCatalogLoad(t *testing.T) {
	dir := setupDataDir(t)
	c := New(Options{Locator: Locator{DataDir: dir}, Logger: testutil.NewTestLogger(t)})
	defer func() { _ = c.Close() }()

	e, err := c.Load(context.Background(), "shop")
	require.NoError(t, err)
	assert.True(t, e.Available)
	assert.NoError(t, e.Err)
	assert.Equal(t, "shop", e.Snapshot.Database)

	table, column, ok := e.Index.Column("customers", "custid")
	require.True(t, ok)
	assert.Equal(t, "Customers", table)
	assert.Equal(t, "CustID", column)

	again, err := c.Load(context.Background(), "shop")
	require.NoError(t, err)
	assert.Same(t, e, again)
}

func TestCatalogMissingDatabase(t *testing.T) {
	c := New(Options{Locator: Locator{DataDir: t.TempDir()}})

	e, err := c.Load(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.False(t, e.Available)
	assert.True(t, e.IsNotFound())
	assert.True(t, e.Index.Empty())

	ix, ok := c.Index("nowhere")
	require.True(t, ok)
	assert.True(t, ix.Empty())
}

func TestCatalogUnknownTarget(t *testing.T) {
	c := New(Options{Locator: Locator{Target: &adapter.Config{Type: "oracle"}}})

	e, err := c.Load(context.Background(), "shop")
	require.NoError(t, err)
	assert.False(t, e.Available)
	assert.False(t, e.IsNotFound())

	var unknown *adapter.UnknownAdapterError
	assert.ErrorAs(t, e.Err, &unknown)
}

func TestCatalogPreload(t *testing.T) {
	dir := setupDataDir(t)
	c := New(Options{
		Locator:      Locator{DataDir: dir},
		Descriptions: true,
		SampleValues: 2,
		Workers:      2,
		Logger:       testutil.NewTestLogger(t),
	})

	err := c.Preload(context.Background(), []string{"shop", "school", "shop", "", "missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"missing", "school", "shop"}, c.IDs())

	e, ok := c.Entry("shop")
	require.True(t, ok)
	customers, ok := e.Snapshot.Table("customers")
	require.True(t, ok)
	custID, ok := customers.Column("custid")
	require.True(t, ok)
	assert.Equal(t, "unique customer id", custID.Description)
	name, ok := customers.Column("name")
	require.True(t, ok)
	assert.Equal(t, []string{"Ann", "Bob"}, name.SampleValues)

	_, ok = c.Index("unloaded")
	assert.False(t, ok)

	require.NoError(t, c.Close())
	assert.Empty(t, c.IDs())
}

func TestCatalogPreloadCanceled(t *testing.T) {
	dir := setupDataDir(t)
	c := New(Options{Locator: Locator{DataDir: dir}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Preload(ctx, []string{"shop"})
	assert.ErrorIs(t, err, context.Canceled)
	_, ok := c.Entry("shop")
	assert.False(t, ok)
}
