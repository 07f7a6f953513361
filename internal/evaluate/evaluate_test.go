package evaluate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bird-bench/mini-dev/pkg/dialect"
	"github.com/bird-bench/mini-dev/pkg/schema"
)

func shopIndex() *schema.Index {
	return schema.NewIndex(&schema.Snapshot{Tables: []schema.Table{
		{Name: "Customers", Columns: []schema.Column{{Name: "CustID"}, {Name: "Name"}}},
		{Name: "Orders", Columns: []schema.Column{{Name: "OrderID"}, {Name: "CustID"}, {Name: "Total"}}},
	}})
}

const joinSQL = `SELECT T1.Name FROM Customers AS T1 INNER JOIN Orders AS T2 ON T1.CustID = T2.CustID WHERE T2.Total > 10`

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		item        Item
		want        Result
		errContains string
	}{
		{
			name: "exact match",
			item: Item{
				QuestionID:        7,
				DBID:              "shop",
				GroundTruthSQL:    joinSQL,
				ColumnSuggestions: Suggestions{"customers.custid", "customers.name", "orders.custid", "orders.total"},
			},
			want: Result{
				SuggestionMatch:            true,
				SuggestionsContain:         true,
				ExpandedSuggestionsContain: true,
				ColumnSuggestions:          []string{"Customers.CustID", "Customers.Name", "Orders.CustID", "Orders.Total"},
				ExpandedColumnSuggestions:  []string{"Customers.CustID", "Customers.Name", "Orders.CustID", "Orders.Total"},
			},
		},
		{
			name: "expansion recovers a missing column",
			item: Item{
				DBID:              "shop",
				GroundTruthSQL:    joinSQL,
				ColumnSuggestions: Suggestions{"Customers.Name", "Orders.Total", "Orders.CustID"},
			},
			want: Result{
				ExpandedSuggestionsContain: true,
				ColumnSuggestions:          []string{"Customers.Name", "Orders.CustID", "Orders.Total"},
				ExpandedColumnSuggestions:  []string{"Customers.CustID", "Customers.Name", "Orders.CustID", "Orders.Total"},
			},
		},
		{
			name: "superset suggestions contain but do not match",
			item: Item{
				DBID:              "shop",
				GroundTruthSQL:    `SELECT Name FROM Customers`,
				ColumnSuggestions: Suggestions{"customers.name", "orders.total", "made.up"},
			},
			want: Result{
				SuggestionsContain:         true,
				ExpandedSuggestionsContain: true,
				ColumnSuggestions:          []string{"Customers.Name", "Orders.Total", "made.up"},
				ExpandedColumnSuggestions:  []string{"Customers.Name", "Orders.Total"},
			},
		},
		{
			name: "no suggestions",
			item: Item{DBID: "shop", GroundTruthSQL: `SELECT Name FROM Customers`},
			want: Result{
				ColumnSuggestions:         []string{},
				ExpandedColumnSuggestions: []string{},
			},
		},
		{
			name: "ground truth does not parse",
			item: Item{
				DBID:              "shop",
				GroundTruthSQL:    `DELETE FROM Customers`,
				ColumnSuggestions: Suggestions{"customers.name"},
			},
			want: Result{
				ColumnSuggestions:         []string{"Customers.Name"},
				ExpandedColumnSuggestions: []string{"Customers.Name"},
			},
			errContains: "ground truth:",
		},
	}

	ix := shopIndex()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.item, ix, true, dialect.SQLite)

			assert.True(t, got.SchemaAvailable)
			assert.Equal(t, tt.item.QuestionID, got.QuestionID)
			assert.Equal(t, tt.want.SuggestionMatch, got.SuggestionMatch, "suggestion_match")
			assert.Equal(t, tt.want.SuggestionsContain, got.SuggestionsContain, "suggestions_contain")
			assert.Equal(t, tt.want.ExpandedSuggestionsContain, got.ExpandedSuggestionsContain, "expanded_suggestions_contain")
			assert.Equal(t, tt.want.ColumnSuggestions, got.ColumnSuggestions)
			assert.Equal(t, tt.want.ExpandedColumnSuggestions, got.ExpandedColumnSuggestions)

			if tt.errContains != "" {
				assert.Contains(t, got.Error, tt.errContains)
				assert.Empty(t, got.GroundTruthColumns)
			} else {
				assert.Empty(t, got.Error)
				assert.NotEmpty(t, got.GroundTruthColumns)
			}
		})
	}
}

func TestEvaluateGroundTruthColumns(t *testing.T) {
	got := Evaluate(Item{GroundTruthSQL: joinSQL}, shopIndex(), true, nil)
	assert.Equal(t, []string{"Customers.CustID", "Customers.Name", "Orders.CustID", "Orders.Total"}, got.GroundTruthColumns)
}

func TestEvaluateWithoutSchema(t *testing.T) {
	got := Evaluate(Item{
		DBID:              "gone",
		GroundTruthSQL:    `SELECT name FROM customers`,
		ColumnSuggestions: Suggestions{"customers.name"},
	}, schema.NewIndex(nil), false, dialect.SQLite)

	assert.False(t, got.SchemaAvailable)
	assert.Empty(t, got.GroundTruthColumns)
	assert.Equal(t, []string{"customers.name"}, got.ColumnSuggestions)
	assert.Empty(t, got.ExpandedColumnSuggestions)
	assert.False(t, got.SuggestionMatch)
	assert.False(t, got.SuggestionsContain)
	assert.False(t, got.ExpandedSuggestionsContain)
}

func TestSuggestionsUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Suggestions
	}{
		{"string", `{"column_suggestions": "a.b, c.d;\ne.f"}`, Suggestions{"a.b", "c.d", "e.f"}},
		{"list", `{"column_suggestions": ["a.b", " c.d ", "e.f, g.h"]}`, Suggestions{"a.b", "c.d", "e.f", "g.h"}},
		{"null", `{"column_suggestions": null}`, nil},
		{"absent", `{}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var item Item
			require.NoError(t, json.Unmarshal([]byte(tt.input), &item))
			assert.Equal(t, tt.want, item.ColumnSuggestions)
		})
	}

	var item Item
	err := json.Unmarshal([]byte(`{"column_suggestions": 42}`), &item)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "string or a list of strings")
}

func TestResultFieldOrder(t *testing.T) {
	data, err := json.Marshal(Evaluate(Item{QuestionID: 1, GroundTruthSQL: "SELECT 1"}, shopIndex(), true, nil))
	require.NoError(t, err)

	keys := []string{
		"question_id", "db_id", "question", "evidence", "difficulty", "exact_match",
		"predicted_sql", "ground_truth_sql", "suggestion_match", "suggestions_contain",
		"expanded_suggestions_contain", "column_suggestions", "expanded_column_suggestions",
		"ground_truth_columns", "schema_available",
	}
	last := -1
	for _, key := range keys {
		pos := strings.Index(string(data), `"`+key+`":`)
		require.Greater(t, pos, last, key)
		last = pos
	}
	assert.NotContains(t, string(data), `"error"`)
}

func TestQuestionKey(t *testing.T) {
	assert.Equal(t, "1404", (&Result{QuestionID: float64(1404)}).QuestionKey())
	assert.Equal(t, "12345678", (&Result{QuestionID: float64(12345678)}).QuestionKey())
	assert.Equal(t, "q-1", (&Result{QuestionID: "q-1"}).QuestionKey())
	assert.Equal(t, "9", (&Result{QuestionID: json.Number("9")}).QuestionKey())
	assert.Empty(t, (&Result{}).QuestionKey())
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Result{
		{SuggestionMatch: true, SuggestionsContain: true, ExpandedSuggestionsContain: true, SchemaAvailable: true},
		{SuggestionsContain: true, ExpandedSuggestionsContain: true, SchemaAvailable: true},
		{ExpandedSuggestionsContain: true, SchemaAvailable: true},
		{Error: "ground truth: boom"},
	})

	assert.Equal(t, Summary{Total: 4, Matches: 1, Contains: 2, ExpandedContains: 3, Errors: 1, SchemaUnavailable: 1}, s)
	assert.InDelta(t, 75.0, s.Percent(s.ExpandedContains), 1e-9)
	assert.Equal(t, "25.0%", s.FormatPercent(s.Matches))
	assert.Equal(t, "0.0%", Summary{}.FormatPercent(0))
}
