package resolve

import "github.com/bird-bench/mini-dev/pkg/parser"

// SourceKind distinguishes the sources of a block.
type SourceKind int

const (
	// TableSource is a named table or a table-valued function.
	TableSource SourceKind = iota
	// SubquerySource is a derived table.
	SubquerySource
)

// Source is one immediate FROM or JOIN source of a block.
type Source struct {
	Kind  SourceKind
	Name  string // table name; empty for subqueries
	Alias string
}

// Scope holds the sources of one SELECT block and the qualifier bindings
// they introduce. It never refers to an enclosing or nested block.
type Scope struct {
	bindings map[string]string
	sources  []Source
}

// BuildScope reads the FROM clause of core. A table with an alias binds
// the alias to the table, a table without one binds its own name. A
// subquery binds nothing but still counts as a source. Parenthesised join
// groups contribute their members as if they were written inline. On a
// repeated qualifier the last binding wins.
func BuildScope(core *parser.SelectCore) *Scope {
	s := &Scope{bindings: make(map[string]string)}
	if core != nil {
		s.addFrom(core.From)
	}
	return s
}

func (s *Scope) addFrom(from *parser.FromClause) {
	if from == nil {
		return
	}
	s.addTableRef(from.Source)
	for _, join := range from.Joins {
		s.addTableRef(join.Right)
	}
}

func (s *Scope) addTableRef(ref parser.TableRef) {
	switch t := ref.(type) {
	case *parser.TableName:
		s.addTable(t.Name, t.Alias)
	case *parser.TableFunc:
		s.addTable(t.Name, t.Alias)
	case *parser.DerivedTable:
		s.sources = append(s.sources, Source{Kind: SubquerySource, Alias: t.Alias})
	case *parser.JoinGroup:
		s.addFrom(t.From)
	}
}

func (s *Scope) addTable(name, alias string) {
	if alias != "" {
		s.bindings[alias] = name
	} else {
		s.bindings[name] = name
	}
	s.sources = append(s.sources, Source{Kind: TableSource, Name: name, Alias: alias})
}

// Lookup returns the table bound to qualifier. Matching is exact.
func (s *Scope) Lookup(qualifier string) (string, bool) {
	if s == nil {
		return "", false
	}
	table, ok := s.bindings[qualifier]
	return table, ok
}

// Sources returns the block's sources in FROM order.
func (s *Scope) Sources() []Source {
	if s == nil {
		return nil
	}
	return s.sources
}
