// Package dialect describes the lexical and catalog differences between the
// SQL engines the resolver understands.
//
// A dialect decides which characters open a quoted identifier, which
// optional operator keywords are recognised, and how catalog queries are
// rendered (default schema and placeholder flavor). Built-in dialects are
// registered at init time; see builtin.go.
package dialect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/huandu/go-sqlbuilder"

	"github.com/bird-bench/mini-dev/pkg/token"
)

// Dialect is an immutable dialect definition. Build one with NewDialect.
type Dialect struct {
	Name string

	// DefaultSchema is the catalog schema used when a table name carries no
	// schema ("main" for sqlite and duckdb, "public" for postgres).
	DefaultSchema string

	// Flavor renders catalog queries with the right placeholder style.
	Flavor sqlbuilder.Flavor

	quotes   map[byte]byte // opening char -> closing char
	keywords map[string]token.TokenType
}

// IdentQuote returns the closing character for a quoted identifier opened
// by ch, and whether ch opens one in this dialect.
func (d *Dialect) IdentQuote(ch byte) (byte, bool) {
	end, ok := d.quotes[ch]
	return end, ok
}

// LookupKeyword returns the optional keyword token enabled for name.
// name must be lowercase.
func (d *Dialect) LookupKeyword(name string) (token.TokenType, bool) {
	t, ok := d.keywords[name]
	return t, ok
}

// Keywords returns the optional keywords enabled for this dialect, sorted.
func (d *Dialect) Keywords() []string {
	names := make([]string, 0, len(d.keywords))
	for name := range d.keywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// QuoteIdentifier wraps name in the dialect's primary identifier quotes.
func (d *Dialect) QuoteIdentifier(name string) string {
	if _, ok := d.quotes['"']; ok {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *Dialect) String() string {
	return d.Name
}

// Builder assembles a Dialect.
type Builder struct {
	d *Dialect
}

// NewDialect starts a dialect definition.
func NewDialect(name string) *Builder {
	return &Builder{d: &Dialect{
		Name:     strings.ToLower(name),
		Flavor:   sqlbuilder.DefaultFlavor,
		quotes:   make(map[byte]byte),
		keywords: make(map[string]token.TokenType),
	}}
}

// Quote adds an identifier quoting pair such as '"','"' or '[',']'.
func (b *Builder) Quote(open, closing byte) *Builder {
	b.d.quotes[open] = closing
	return b
}

// Keywords enables optional keywords from token.Optional.
// Unknown names panic, since dialects are defined at init time.
func (b *Builder) Keywords(names ...string) *Builder {
	for _, name := range names {
		lower := strings.ToLower(name)
		t, ok := token.Optional[lower]
		if !ok {
			panic(fmt.Sprintf("dialect %s: unknown optional keyword %q", b.d.Name, name))
		}
		b.d.keywords[lower] = t
	}
	return b
}

// Catalog sets the default schema and the query flavor.
func (b *Builder) Catalog(defaultSchema string, flavor sqlbuilder.Flavor) *Builder {
	b.d.DefaultSchema = defaultSchema
	b.d.Flavor = flavor
	return b
}

// Build returns the finished dialect.
func (b *Builder) Build() *Dialect {
	return b.d
}
