// Package compare checks suggested columns against the columns a ground
// truth query reads. All comparisons are case-insensitive, and an empty
// ground truth or an empty suggestion input never matches.
package compare

import "strings"

type set map[string]struct{}

// lowerSet lowercases the trimmed dotted entries of items.
func lowerSet(items []string) set {
	s := make(set, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if strings.Contains(item, ".") {
			s[strings.ToLower(item)] = struct{}{}
		}
	}
	return s
}

func (s set) containsAll(other set) bool {
	for k := range other {
		if _, ok := s[k]; !ok {
			return false
		}
	}
	return true
}

// ExactMatch reports whether the dotted suggestions equal the ground truth.
func ExactMatch(groundTruth, suggestions []string) bool {
	if len(groundTruth) == 0 || len(suggestions) == 0 {
		return false
	}
	gt, sg := lowerSet(groundTruth), lowerSet(suggestions)
	return len(gt) == len(sg) && sg.containsAll(gt)
}

// Contains reports whether every ground truth column is suggested.
func Contains(groundTruth, suggestions []string) bool {
	if len(groundTruth) == 0 || len(suggestions) == 0 {
		return false
	}
	return lowerSet(suggestions).containsAll(lowerSet(groundTruth))
}

// ExpandedContains reports whether every ground truth column is in the
// union of the normalized suggestions and their normalized expansion.
func ExpandedContains(groundTruth, normalized, expanded []string) bool {
	union := make([]string, 0, len(normalized)+len(expanded))
	union = append(union, normalized...)
	union = append(union, expanded...)
	return Contains(groundTruth, union)
}

// Result holds the three comparison outcomes.
type Result struct {
	SuggestionMatch            bool `json:"suggestion_match" yaml:"suggestion_match"`
	SuggestionsContain         bool `json:"suggestions_contain" yaml:"suggestions_contain"`
	ExpandedSuggestionsContain bool `json:"expanded_suggestions_contain" yaml:"expanded_suggestions_contain"`
}

// All runs the three comparisons.
func All(groundTruth, suggestions, normalized, expanded []string) Result {
	return Result{
		SuggestionMatch:            ExactMatch(groundTruth, suggestions),
		SuggestionsContain:         Contains(groundTruth, suggestions),
		ExpandedSuggestionsContain: ExpandedContains(groundTruth, normalized, expanded),
	}
}
