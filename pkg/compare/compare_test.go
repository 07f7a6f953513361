package compare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bird-bench/mini-dev/pkg/compare"
)

func TestExactMatch(t *testing.T) {
	tests := []struct {
		name        string
		groundTruth []string
		suggestions []string
		want        bool
	}{
		{"equal ignoring case", []string{"Customers.CustID"}, []string{"customers.custid"}, true},
		{"undotted suggestions ignored", []string{"t.a"}, []string{"t.a", "a"}, true},
		{"superset is not a match", []string{"t.a"}, []string{"t.a", "t.b"}, false},
		{"subset is not a match", []string{"t.a", "t.b"}, []string{"t.a"}, false},
		{"empty ground truth", nil, []string{"t.a"}, false},
		{"empty suggestions", []string{"t.a"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compare.ExactMatch(tt.groundTruth, tt.suggestions))
		})
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name        string
		groundTruth []string
		suggestions []string
		want        bool
	}{
		{"superset", []string{"T.A"}, []string{"t.a", "t.b"}, true},
		{"missing column", []string{"t.a", "u.c"}, []string{"t.a", "t.b"}, false},
		{"whitespace trimmed", []string{"t.a"}, []string{"  t.a  "}, true},
		{"empty ground truth", []string{}, []string{"t.a"}, false},
		{"empty suggestions", []string{"t.a"}, []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compare.Contains(tt.groundTruth, tt.suggestions))
		})
	}
}

func TestExpandedContains(t *testing.T) {
	gt := []string{"orders.id", "customers.id"}

	assert.True(t, compare.ExpandedContains(gt, []string{"customers.id"}, []string{"orders.id"}))
	assert.False(t, compare.ExpandedContains(gt, []string{"customers.id"}, nil))
	assert.False(t, compare.ExpandedContains(nil, []string{"customers.id"}, []string{"orders.id"}))
	assert.False(t, compare.ExpandedContains(gt, nil, nil))
}

func TestAll(t *testing.T) {
	got := compare.All(
		[]string{"orders.id", "customers.name"},
		[]string{"orders.id", "customers.name", "customers.id"},
		[]string{"customers.id", "customers.name", "orders.id"},
		[]string{"customers.id", "customers.name", "orders.id"},
	)
	assert.Equal(t, compare.Result{
		SuggestionMatch:            false,
		SuggestionsContain:         true,
		ExpandedSuggestionsContain: true,
	}, got)
}
