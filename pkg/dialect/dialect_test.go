package dialect

import (
	"testing"

	"github.com/huandu/go-sqlbuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bird-bench/mini-dev/pkg/token"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		want    *Dialect
		wantErr bool
	}{
		{name: "", want: SQLite},
		{name: "sqlite", want: SQLite},
		{name: "SQLite", want: SQLite},
		{name: "postgres", want: Postgres},
		{name: "duckdb", want: DuckDB},
		{name: "mysql", want: MySQL},
		{name: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Get(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				var unknown *UnknownDialectError
				require.ErrorAs(t, err, &unknown)
				assert.Contains(t, unknown.Available, "sqlite")
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.want, d)
		})
	}
}

func TestList(t *testing.T) {
	names := List()
	assert.Subset(t, names, []string{"duckdb", "mysql", "postgres", "sqlite"})
	assert.IsIncreasing(t, names)
}

func TestIdentQuote(t *testing.T) {
	tests := []struct {
		dialect *Dialect
		open    byte
		want    byte
		ok      bool
	}{
		{SQLite, '"', '"', true},
		{SQLite, '`', '`', true},
		{SQLite, '[', ']', true},
		{Postgres, '"', '"', true},
		{Postgres, '`', 0, false},
		{Postgres, '[', 0, false},
		{MySQL, '`', '`', true},
		{MySQL, '"', 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Name+" "+string(tt.open), func(t *testing.T) {
			got, ok := tt.dialect.IdentQuote(tt.open)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupKeyword(t *testing.T) {
	tok, ok := SQLite.LookupKeyword("glob")
	require.True(t, ok)
	assert.Equal(t, token.GLOB, tok)

	_, ok = SQLite.LookupKeyword("ilike")
	assert.False(t, ok, "ilike is not a sqlite keyword")

	tok, ok = Postgres.LookupKeyword("ilike")
	require.True(t, ok)
	assert.Equal(t, token.ILIKE, tok)

	assert.Equal(t, []string{"glob", "isnull", "match", "notnull", "regexp"}, SQLite.Keywords())
}

func TestBuilderPanicsOnUnknownKeyword(t *testing.T) {
	assert.Panics(t, func() {
		NewDialect("broken").Keywords("qualify")
	})
}

func TestCatalogSettings(t *testing.T) {
	assert.Equal(t, "main", SQLite.DefaultSchema)
	assert.Equal(t, sqlbuilder.SQLite, SQLite.Flavor)
	assert.Equal(t, "public", Postgres.DefaultSchema)
	assert.Equal(t, sqlbuilder.PostgreSQL, Postgres.Flavor)
	assert.Equal(t, sqlbuilder.MySQL, MySQL.Flavor)
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"order"`, SQLite.QuoteIdentifier("order"))
	assert.Equal(t, `"a""b"`, Postgres.QuoteIdentifier(`a"b`))
	assert.Equal(t, "`order`", MySQL.QuoteIdentifier("order"))
}
