// Package evaluate scores column suggestions for one benchmark question
// against the columns its ground truth query reads.
package evaluate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bird-bench/mini-dev/pkg/suggest"
)

// Suggestions is the list of suggested table.column tokens. In JSON it is
// either one string separated by commas, semicolons or newlines, or a list
// of strings.
type Suggestions []string

// UnmarshalJSON accepts a string, a list of strings, or null.
func (s *Suggestions) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = suggest.Split(text)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("column_suggestions must be a string or a list of strings: %w", err)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, suggest.Split(item)...)
	}
	*s = out
	return nil
}

// Item is one input record of an evaluation batch. Fields the evaluation
// does not interpret are passed through unchanged.
type Item struct {
	QuestionID        any         `json:"question_id" yaml:"question_id"`
	DBID              string      `json:"db_id" yaml:"db_id"`
	Question          string      `json:"question" yaml:"question"`
	Evidence          string      `json:"evidence" yaml:"evidence"`
	Difficulty        string      `json:"difficulty" yaml:"difficulty"`
	ExactMatch        any         `json:"exact_match" yaml:"exact_match"`
	PredictedSQL      string      `json:"predicted_sql" yaml:"predicted_sql"`
	GroundTruthSQL    string      `json:"ground_truth_sql" yaml:"ground_truth_sql"`
	ColumnSuggestions Suggestions `json:"column_suggestions" yaml:"column_suggestions"`
}

// Result is the scored record. Field order is the output order.
type Result struct {
	QuestionID                 any      `json:"question_id" yaml:"question_id"`
	DBID                       string   `json:"db_id" yaml:"db_id"`
	Question                   string   `json:"question" yaml:"question"`
	Evidence                   string   `json:"evidence" yaml:"evidence"`
	Difficulty                 string   `json:"difficulty" yaml:"difficulty"`
	ExactMatch                 any      `json:"exact_match" yaml:"exact_match"`
	PredictedSQL               string   `json:"predicted_sql" yaml:"predicted_sql"`
	GroundTruthSQL             string   `json:"ground_truth_sql" yaml:"ground_truth_sql"`
	SuggestionMatch            bool     `json:"suggestion_match" yaml:"suggestion_match"`
	SuggestionsContain         bool     `json:"suggestions_contain" yaml:"suggestions_contain"`
	ExpandedSuggestionsContain bool     `json:"expanded_suggestions_contain" yaml:"expanded_suggestions_contain"`
	ColumnSuggestions          []string `json:"column_suggestions" yaml:"column_suggestions"`
	ExpandedColumnSuggestions  []string `json:"expanded_column_suggestions" yaml:"expanded_column_suggestions"`
	GroundTruthColumns         []string `json:"ground_truth_columns" yaml:"ground_truth_columns"`
	SchemaAvailable            bool     `json:"schema_available" yaml:"schema_available"`
	Error                      string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// QuestionKey renders the question id for logs and storage.
func (r *Result) QuestionKey() string {
	return questionKey(r.QuestionID)
}

func questionKey(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
