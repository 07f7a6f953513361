package dialect

import "github.com/huandu/go-sqlbuilder"

// SQLite accepts "x", `x` and [x] identifiers and is the default dialect.
var SQLite = NewDialect("sqlite").
	Quote('"', '"').
	Quote('`', '`').
	Quote('[', ']').
	Keywords("glob", "regexp", "match", "isnull", "notnull").
	Catalog("main", sqlbuilder.SQLite).
	Build()

// Postgres is the PostgreSQL dialect.
var Postgres = NewDialect("postgres").
	Quote('"', '"').
	Keywords("ilike", "lateral", "isnull", "notnull").
	Catalog("public", sqlbuilder.PostgreSQL).
	Build()

// DuckDB accepts $n placeholders, so the PostgreSQL flavor is reused.
var DuckDB = NewDialect("duckdb").
	Quote('"', '"').
	Keywords("ilike", "glob", "lateral").
	Catalog("main", sqlbuilder.PostgreSQL).
	Build()

// MySQL has no default schema; the database name is the schema.
var MySQL = NewDialect("mysql").
	Quote('`', '`').
	Keywords("regexp", "rlike", "lateral").
	Catalog("", sqlbuilder.MySQL).
	Build()

func init() {
	Register(SQLite)
	Register(Postgres)
	Register(DuckDB)
	Register(MySQL)
	SetDefault(SQLite)
}
