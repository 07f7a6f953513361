package resolve

import "github.com/bird-bench/mini-dev/pkg/parser"

// children returns the direct sub-expressions of e and the statements
// nested directly in it. The switch covers every expression type of the
// parser's closed AST.
func children(e parser.Expr) ([]parser.Expr, []*parser.SelectStmt) {
	switch e := e.(type) {
	case *parser.ColumnRef, *parser.Literal, *parser.Param, *parser.StarExpr:
		return nil, nil

	case *parser.BinaryExpr:
		return exprs(e.Left, e.Right), nil

	case *parser.UnaryExpr:
		return exprs(e.Expr), nil

	case *parser.FuncCall:
		out := exprs(e.Args...)
		out = appendOrderBy(out, e.OrderBy)
		out = append(out, exprs(e.Filter)...)
		out = appendWindow(out, e.Window)
		return out, nil

	case *parser.CaseExpr:
		out := exprs(e.Operand)
		for _, w := range e.Whens {
			out = append(out, exprs(w.Condition, w.Result)...)
		}
		return append(out, exprs(e.Else)...), nil

	case *parser.CastExpr:
		return exprs(e.Expr), nil

	case *parser.CollateExpr:
		return exprs(e.Expr), nil

	case *parser.InExpr:
		out := exprs(e.Expr)
		out = append(out, exprs(e.Values...)...)
		return out, stmts(e.Query)

	case *parser.BetweenExpr:
		return exprs(e.Expr, e.Low, e.High), nil

	case *parser.IsNullExpr:
		return exprs(e.Expr), nil

	case *parser.IsExpr:
		return exprs(e.Left, e.Right), nil

	case *parser.LikeExpr:
		return exprs(e.Expr, e.Pattern, e.Escape), nil

	case *parser.ParenExpr:
		return exprs(e.Expr), nil

	case *parser.ListExpr:
		return exprs(e.Items...), nil

	case *parser.SubqueryExpr:
		return nil, stmts(e.Select)

	case *parser.ExistsExpr:
		return nil, stmts(e.Select)
	}
	return nil, nil
}

// exprs drops nil entries.
func exprs(in ...parser.Expr) []parser.Expr {
	out := make([]parser.Expr, 0, len(in))
	for _, e := range in {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func stmts(in ...*parser.SelectStmt) []*parser.SelectStmt {
	var out []*parser.SelectStmt
	for _, s := range in {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func appendOrderBy(out []parser.Expr, items []parser.OrderByItem) []parser.Expr {
	for _, item := range items {
		out = append(out, exprs(item.Expr)...)
	}
	return out
}

func appendWindow(out []parser.Expr, spec *parser.WindowSpec) []parser.Expr {
	if spec == nil {
		return out
	}
	out = append(out, exprs(spec.PartitionBy...)...)
	out = appendOrderBy(out, spec.OrderBy)
	if spec.Frame != nil {
		for _, bound := range []*parser.FrameBound{spec.Frame.Start, spec.Frame.End} {
			if bound != nil {
				out = append(out, exprs(bound.Offset)...)
			}
		}
	}
	return out
}

// clauseExprs returns the top-level expressions of the clauses whose
// column references belong to core: the select list, join conditions,
// table function arguments, WHERE, GROUP BY, HAVING, named windows and
// ORDER BY.
func clauseExprs(core *parser.SelectCore) []parser.Expr {
	var out []parser.Expr
	for _, item := range core.Columns {
		out = append(out, exprs(item.Expr)...)
	}
	out = appendFromExprs(out, core.From)
	out = append(out, exprs(core.Where)...)
	out = append(out, exprs(core.GroupBy...)...)
	out = append(out, exprs(core.Having)...)
	for _, w := range core.Windows {
		out = appendWindow(out, w.Spec)
	}
	return appendOrderBy(out, core.OrderBy)
}

func appendFromExprs(out []parser.Expr, from *parser.FromClause) []parser.Expr {
	if from == nil {
		return out
	}
	out = appendSourceExprs(out, from.Source)
	for _, join := range from.Joins {
		out = appendSourceExprs(out, join.Right)
		out = append(out, exprs(join.Condition)...)
	}
	return out
}

func appendSourceExprs(out []parser.Expr, ref parser.TableRef) []parser.Expr {
	switch t := ref.(type) {
	case *parser.TableFunc:
		return append(out, exprs(t.Args...)...)
	case *parser.JoinGroup:
		return appendFromExprs(out, t.From)
	}
	return out
}
