// Package suggest tokenizes free-text column suggestions and expands them
// against a schema index.
package suggest

import (
	"slices"
	"strings"

	"github.com/bird-bench/mini-dev/pkg/schema"
)

// separators split suggestion text into tokens.
const separators = ",;\n"

// Split breaks text on commas, semicolons and newlines and returns the
// trimmed, non-empty tokens in order.
func Split(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Dotted returns the tokens that contain at least one dot.
func Dotted(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		if tok = strings.TrimSpace(tok); strings.Contains(tok, ".") {
			out = append(out, tok)
		}
	}
	return out
}

// LiteralPairs returns the lowercased tokens with exactly one dot.
func LiteralPairs(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if strings.Count(tok, ".") == 1 {
			out = append(out, tok)
		}
	}
	return out
}

// Mentions holds the lowercased table and column names found in dotted
// tokens. A token is split on its first dot, so malformed tokens with
// several dots still contribute both parts.
type Mentions struct {
	Tables  map[string]struct{}
	Columns map[string]struct{}
}

// CollectMentions gathers the mention sets of tokens.
func CollectMentions(tokens []string) Mentions {
	m := Mentions{Tables: make(map[string]struct{}), Columns: make(map[string]struct{})}
	for _, tok := range tokens {
		table, column, ok := strings.Cut(strings.ToLower(strings.TrimSpace(tok)), ".")
		if !ok {
			continue
		}
		m.Tables[strings.TrimSpace(table)] = struct{}{}
		m.Columns[strings.TrimSpace(column)] = struct{}{}
	}
	return m
}

// Expand splits text and expands its tokens. See ExpandTokens.
func Expand(text string, ix *schema.Index) []string {
	return ExpandTokens(Split(text), ix)
}

// ExpandTokens returns the literal pairs of tokens together with every
// table.column pair of the index whose table and column were both
// mentioned somewhere in tokens, even in different tokens. Output is
// lowercased, sorted and de-duplicated. Without an index only the literal
// pairs are returned.
func ExpandTokens(tokens []string, ix *schema.Index) []string {
	out := append([]string{}, LiteralPairs(tokens)...)
	mentions := CollectMentions(tokens)

	for _, table := range ix.Tables() {
		lowerTable := strings.ToLower(table)
		if _, ok := mentions.Tables[lowerTable]; !ok {
			continue
		}
		for _, column := range ix.Columns(table) {
			lowerColumn := strings.ToLower(column)
			if _, ok := mentions.Columns[lowerColumn]; ok {
				out = append(out, lowerTable+"."+lowerColumn)
			}
		}
	}

	slices.Sort(out)
	return slices.Compact(out)
}
