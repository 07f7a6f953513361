// Package normalize maps free-form table.column strings onto the canonical
// casing of a schema index, dropping everything the schema does not know.
package normalize

import (
	"slices"
	"strings"

	"github.com/bird-bench/mini-dev/pkg/resolve"
	"github.com/bird-bench/mini-dev/pkg/schema"
)

// quoteChars are stripped from both ends of the column part.
const quoteChars = "`\"[]"

// Normalizer canonicalizes table.column entries against one index. It
// holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	index *schema.Index
}

// New returns a normalizer for ix. A nil or empty index drops every entry.
func New(ix *schema.Index) *Normalizer {
	return &Normalizer{index: ix}
}

// Entry canonicalizes a single entry. The entry is split on its first dot;
// the column part loses surrounding quote characters and whitespace; both
// parts are looked up case-insensitively. It reports false when the entry
// has no dot or the pair is not in the index.
func (n *Normalizer) Entry(entry string) (string, bool) {
	table, column, ok := strings.Cut(entry, ".")
	if !ok {
		return "", false
	}
	column = strings.TrimSpace(strings.Trim(strings.TrimSpace(column), quoteChars))

	canonicalTable, canonicalColumn, ok := n.index.Column(table, column)
	if !ok {
		return "", false
	}
	return canonicalTable + "." + canonicalColumn, true
}

// Normalize canonicalizes entries and returns the sorted set of the ones
// the index knows.
func (n *Normalizer) Normalize(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if canonical, ok := n.Entry(e); ok {
			out = append(out, canonical)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Footprint canonicalizes a resolved footprint. Implicit columns and
// columns attributed to subqueries are dropped.
func (n *Normalizer) Footprint(fp resolve.Footprint) []string {
	return n.Normalize(fp.Strings())
}

// Display canonicalizes each dotted entry, keeping the trimmed text of
// entries the index does not know. Entries without a dot are skipped. The
// result is sorted and de-duplicated.
func (n *Normalizer) Display(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if !strings.Contains(e, ".") {
			continue
		}
		if canonical, ok := n.Entry(e); ok {
			out = append(out, canonical)
		} else {
			out = append(out, e)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
