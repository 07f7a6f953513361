package resolve

import (
	"github.com/bird-bench/mini-dev/pkg/dialect"
	"github.com/bird-bench/mini-dev/pkg/parser"
)

// Walk returns every SELECT block reachable from stmt: the cores of the
// body and its set-operation branches, CTE bodies, derived tables and
// join groups in FROM, and subqueries anywhere in an expression. Blocks
// are listed in discovery order, each once.
func Walk(stmt *parser.SelectStmt) []*parser.SelectCore {
	w := &walker{seen: make(map[*parser.SelectCore]struct{})}
	w.stmt(stmt)
	return w.blocks
}

type walker struct {
	seen   map[*parser.SelectCore]struct{}
	blocks []*parser.SelectCore
}

func (w *walker) stmt(stmt *parser.SelectStmt) {
	if stmt == nil {
		return
	}
	if stmt.With != nil {
		for _, cte := range stmt.With.CTEs {
			w.stmt(cte.Select)
		}
	}
	for _, core := range stmt.Cores() {
		w.core(core)
	}
	// Compound ORDER BY names output columns; only its subqueries matter.
	var tail []parser.Expr
	tail = appendOrderBy(tail, stmt.OrderBy)
	tail = append(tail, exprs(stmt.Limit, stmt.Offset)...)
	for _, e := range tail {
		w.expr(e)
	}
}

func (w *walker) core(core *parser.SelectCore) {
	if _, ok := w.seen[core]; ok {
		return
	}
	w.seen[core] = struct{}{}
	w.blocks = append(w.blocks, core)

	w.from(core.From)
	for _, e := range clauseExprs(core) {
		w.expr(e)
	}
	for _, e := range exprs(core.Limit, core.Offset) {
		w.expr(e)
	}
	for _, row := range core.Values {
		for _, e := range exprs(row...) {
			w.expr(e)
		}
	}
}

func (w *walker) from(from *parser.FromClause) {
	if from == nil {
		return
	}
	w.tableRef(from.Source)
	for _, join := range from.Joins {
		w.tableRef(join.Right)
	}
}

func (w *walker) tableRef(ref parser.TableRef) {
	switch t := ref.(type) {
	case *parser.DerivedTable:
		w.stmt(t.Select)
	case *parser.JoinGroup:
		w.from(t.From)
	}
}

func (w *walker) expr(e parser.Expr) {
	sub, nested := children(e)
	for _, child := range sub {
		w.expr(child)
	}
	for _, s := range nested {
		w.stmt(s)
	}
}

// Resolve resolves every block of stmt independently and returns the
// union of the results.
func Resolve(stmt *parser.SelectStmt) Footprint {
	var cols []ResolvedColumn
	for _, core := range Walk(stmt) {
		scope := BuildScope(core)
		for _, ref := range CollectColumns(core) {
			cols = append(cols, ResolveColumn(ref, scope))
		}
	}
	return NewFootprint(cols...)
}

// ResolveSQL parses sql with d and resolves it. A nil dialect selects the
// default one. Parse failures return the parser error and no footprint.
func ResolveSQL(sql string, d *dialect.Dialect) (Footprint, error) {
	stmt, err := parser.ParseWithDialect(sql, d)
	if err != nil {
		return nil, err
	}
	return Resolve(stmt), nil
}
