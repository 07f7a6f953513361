package evaluate

import (
	"fmt"
	"slices"

	"github.com/bird-bench/mini-dev/pkg/compare"
	"github.com/bird-bench/mini-dev/pkg/dialect"
	"github.com/bird-bench/mini-dev/pkg/normalize"
	"github.com/bird-bench/mini-dev/pkg/resolve"
	"github.com/bird-bench/mini-dev/pkg/schema"
	"github.com/bird-bench/mini-dev/pkg/suggest"
)

// Evaluate scores item against the schema index of its database.
// available tells whether ix was read from a real database; an
// unavailable schema normalizes everything away and is flagged on the
// result. A ground truth that does not parse sets Error and leaves the
// ground truth columns empty.
func Evaluate(item Item, ix *schema.Index, available bool, d *dialect.Dialect) Result {
	r := Result{
		QuestionID:                item.QuestionID,
		DBID:                      item.DBID,
		Question:                  item.Question,
		Evidence:                  item.Evidence,
		Difficulty:                item.Difficulty,
		ExactMatch:                item.ExactMatch,
		PredictedSQL:              item.PredictedSQL,
		GroundTruthSQL:            item.GroundTruthSQL,
		ColumnSuggestions:         []string{},
		ExpandedColumnSuggestions: []string{},
		GroundTruthColumns:        []string{},
		SchemaAvailable:           available,
	}

	n := normalize.New(ix)

	fp, err := resolve.ResolveSQL(item.GroundTruthSQL, d)
	if err != nil {
		r.Error = fmt.Sprintf("ground truth: %v", err)
	} else {
		r.GroundTruthColumns = n.Footprint(fp)
	}

	tokens := []string(item.ColumnSuggestions)
	dotted := suggest.Dotted(tokens)
	r.ColumnSuggestions = n.Display(dotted)

	var original, expanded []string
	if raw := suggest.ExpandTokens(tokens, ix); len(raw) > 0 {
		original = n.Normalize(dotted)
		expanded = n.Normalize(raw)
		r.ExpandedColumnSuggestions = union(original, expanded)
	}

	cmp := compare.All(r.GroundTruthColumns, dotted, original, expanded)
	r.SuggestionMatch = cmp.SuggestionMatch
	r.SuggestionsContain = cmp.SuggestionsContain
	r.ExpandedSuggestionsContain = cmp.ExpandedSuggestionsContain
	return r
}

func union(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.Sort(out)
	return slices.Compact(out)
}
