package evaluate

import (
	"log/slog"
	"strconv"
)

// Summary counts outcomes over a batch of results.
type Summary struct {
	Total             int `json:"total" yaml:"total"`
	Matches           int `json:"matches" yaml:"matches"`
	Contains          int `json:"contains" yaml:"contains"`
	ExpandedContains  int `json:"expanded_contains" yaml:"expanded_contains"`
	Errors            int `json:"errors" yaml:"errors"`
	SchemaUnavailable int `json:"schema_unavailable" yaml:"schema_unavailable"`
}

// Summarize counts results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for i := range results {
		r := &results[i]
		if r.SuggestionMatch {
			s.Matches++
		}
		if r.SuggestionsContain {
			s.Contains++
		}
		if r.ExpandedSuggestionsContain {
			s.ExpandedContains++
		}
		if r.Error != "" {
			s.Errors++
		}
		if !r.SchemaAvailable {
			s.SchemaUnavailable++
		}
	}
	return s
}

// Percent returns n as a percentage of Total, or 0 for an empty batch.
func (s Summary) Percent(n int) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(n) / float64(s.Total) * 100
}

// FormatPercent renders n as a percentage of Total with one decimal.
func (s Summary) FormatPercent(n int) string {
	return strconv.FormatFloat(s.Percent(n), 'f', 1, 64) + "%"
}

// Log writes the summary at info level.
func (s Summary) Log(logger *slog.Logger) {
	logger.Info("suggestion matching summary",
		slog.Int("total", s.Total),
		slog.Int("exact_matches", s.Matches),
		slog.String("exact_match_pct", s.FormatPercent(s.Matches)),
		slog.Int("contains", s.Contains),
		slog.String("contains_pct", s.FormatPercent(s.Contains)),
		slog.Int("expanded_contains", s.ExpandedContains),
		slog.String("expanded_contains_pct", s.FormatPercent(s.ExpandedContains)),
		slog.Int("errors", s.Errors),
		slog.Int("schema_unavailable", s.SchemaUnavailable),
	)
}
