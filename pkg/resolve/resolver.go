package resolve

// ResolveColumn attributes ref using scope only.
//
// A qualifier bound in scope maps to its table; an unbound qualifier is
// kept as written. An unqualified reference takes the block's source when
// there is exactly one: the table name, the subquery alias, or
// UnnamedSubquery. With zero or several sources it is Implicit.
func ResolveColumn(ref RawColumnRef, scope *Scope) ResolvedColumn {
	if ref.Qualifier != "" {
		if table, ok := scope.Lookup(ref.Qualifier); ok {
			return RealColumn(table, ref.Column)
		}
		return RealColumn(ref.Qualifier, ref.Column)
	}

	sources := scope.Sources()
	if len(sources) != 1 {
		return ImplicitColumn(ref.Column)
	}

	src := sources[0]
	switch {
	case src.Kind == TableSource:
		return RealColumn(src.Name, ref.Column)
	case src.Alias != "":
		return RealColumn(src.Alias, ref.Column)
	default:
		return RealColumn(UnnamedSubquery, ref.Column)
	}
}
