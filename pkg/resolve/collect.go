package resolve

import "github.com/bird-bench/mini-dev/pkg/parser"

// CollectColumns returns the column references written in core's own
// clauses, in source order. References inside nested SELECT statements
// belong to those blocks and are skipped. USING lists, star items and
// VALUES rows produce no references.
func CollectColumns(core *parser.SelectCore) []RawColumnRef {
	if core == nil {
		return nil
	}
	var refs []RawColumnRef
	for _, e := range clauseExprs(core) {
		collectRecursive(e, &refs)
	}
	return refs
}

func collectRecursive(e parser.Expr, refs *[]RawColumnRef) {
	if ref, ok := e.(*parser.ColumnRef); ok {
		*refs = append(*refs, RawColumnRef{Qualifier: ref.Table, Column: ref.Column})
		return
	}
	sub, _ := children(e)
	for _, child := range sub {
		collectRecursive(child, refs)
	}
}
