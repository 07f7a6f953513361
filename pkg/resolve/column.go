// Package resolve attributes every column reference of a SELECT statement
// to the table it reads from.
//
// Resolution is purely syntactic. Each SELECT block (a *parser.SelectCore)
// is resolved on its own: BuildScope reads the block's FROM and JOIN
// sources, CollectColumns gathers the references written in the block's
// own clauses, and ResolveColumn maps each one through that scope. Nested
// blocks neither see nor contribute bindings. Walk enumerates every block
// of a statement and Resolve unions the per-block results into a
// Footprint.
package resolve

import (
	"slices"
	"strings"
)

// ImplicitTable is rendered in place of the table of a reference whose
// source cannot be decided syntactically.
const ImplicitTable = "<implicit>"

// UnnamedSubquery names the single source of a block when that source is
// a subquery without an alias.
const UnnamedSubquery = "unnamed_subquery"

// RawColumnRef is a column reference as written in the source text.
// Qualifier is empty for unqualified references.
type RawColumnRef struct {
	Qualifier string
	Column    string
}

func (r RawColumnRef) String() string {
	if r.Qualifier == "" {
		return r.Column
	}
	return r.Qualifier + "." + r.Column
}

// Kind tags a ResolvedColumn.
type Kind int

const (
	// Real columns carry a table: a catalog table, a subquery alias or
	// UnnamedSubquery.
	Real Kind = iota
	// Implicit columns are unqualified references in a block with zero or
	// several sources. Table is empty.
	Implicit
)

func (k Kind) String() string {
	if k == Implicit {
		return "implicit"
	}
	return "real"
}

// ResolvedColumn is a column attributed to a table.
type ResolvedColumn struct {
	Kind   Kind
	Table  string
	Column string
}

// RealColumn returns a column attributed to table.
func RealColumn(table, column string) ResolvedColumn {
	return ResolvedColumn{Kind: Real, Table: table, Column: column}
}

// ImplicitColumn returns a column whose table is unknown.
func ImplicitColumn(column string) ResolvedColumn {
	return ResolvedColumn{Kind: Implicit, Column: column}
}

// TableName returns the table component, ImplicitTable for implicit columns.
func (c ResolvedColumn) TableName() string {
	if c.Kind == Implicit {
		return ImplicitTable
	}
	return c.Table
}

// String renders the column as table.column.
func (c ResolvedColumn) String() string {
	return c.TableName() + "." + c.Column
}

// Footprint is the sorted, de-duplicated set of columns a statement reads.
type Footprint []ResolvedColumn

// NewFootprint sorts cols by their rendered form and drops duplicates.
func NewFootprint(cols ...ResolvedColumn) Footprint {
	out := slices.Clone(cols)
	slices.SortFunc(out, func(a, b ResolvedColumn) int {
		return strings.Compare(a.String(), b.String())
	})
	out = slices.CompactFunc(out, func(a, b ResolvedColumn) bool {
		return a.String() == b.String()
	})
	return Footprint(out)
}

// Strings renders every column.
func (f Footprint) Strings() []string {
	out := make([]string, len(f))
	for i, c := range f {
		out[i] = c.String()
	}
	return out
}

// Implicit returns the columns whose table could not be decided.
func (f Footprint) Implicit() []ResolvedColumn {
	var out []ResolvedColumn
	for _, c := range f {
		if c.Kind == Implicit {
			out = append(out, c)
		}
	}
	return out
}
