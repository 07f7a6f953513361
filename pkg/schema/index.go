package schema

import "strings"

// Index maps lowercase table names to their canonical casing and, per
// table, lowercase column names to canonical casing. It is immutable after
// NewIndex and safe for concurrent readers. A nil *Index behaves as empty.
type Index struct {
	tables map[string]*indexedTable
	order  []string // lowercase names in catalog order
}

type indexedTable struct {
	name    string
	columns map[string]string
	order   []string // canonical column names in catalog order
}

// NewIndex builds an index from a snapshot. Internal tables whose name
// starts with sqlite_ are skipped. When two names differ only in case the
// first one seen wins.
func NewIndex(s *Snapshot) *Index {
	ix := &Index{tables: make(map[string]*indexedTable)}
	if s == nil {
		return ix
	}

	for _, t := range s.Tables {
		lower := strings.ToLower(t.Name)
		if strings.HasPrefix(lower, "sqlite_") {
			continue
		}
		entry, ok := ix.tables[lower]
		if !ok {
			entry = &indexedTable{name: t.Name, columns: make(map[string]string, len(t.Columns))}
			ix.tables[lower] = entry
			ix.order = append(ix.order, lower)
		}
		for _, c := range t.Columns {
			key := strings.ToLower(c.Name)
			if _, seen := entry.columns[key]; seen {
				continue
			}
			entry.columns[key] = c.Name
			entry.order = append(entry.order, c.Name)
		}
	}

	return ix
}

// Table returns the canonical name of a table.
func (ix *Index) Table(name string) (string, bool) {
	if ix == nil {
		return "", false
	}
	t, ok := ix.tables[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return t.name, true
}

// Column returns the canonical table and column names for a pair.
func (ix *Index) Column(table, column string) (string, string, bool) {
	if ix == nil {
		return "", "", false
	}
	t, ok := ix.tables[strings.ToLower(table)]
	if !ok {
		return "", "", false
	}
	c, ok := t.columns[strings.ToLower(column)]
	if !ok {
		return "", "", false
	}
	return t.name, c, true
}

// Tables returns canonical table names in catalog order.
func (ix *Index) Tables() []string {
	if ix == nil {
		return nil
	}
	names := make([]string, 0, len(ix.order))
	for _, lower := range ix.order {
		names = append(names, ix.tables[lower].name)
	}
	return names
}

// Columns returns the canonical column names of a table in catalog order.
func (ix *Index) Columns(table string) []string {
	if ix == nil {
		return nil
	}
	t, ok := ix.tables[strings.ToLower(table)]
	if !ok {
		return nil
	}
	return append([]string(nil), t.order...)
}

// Len returns the number of tables.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.order)
}

// Empty reports whether the index has no tables, which is how an
// unavailable schema shows up.
func (ix *Index) Empty() bool {
	return ix.Len() == 0
}
