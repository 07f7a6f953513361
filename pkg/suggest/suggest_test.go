package suggest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bird-bench/mini-dev/pkg/normalize"
	"github.com/bird-bench/mini-dev/pkg/schema"
	"github.com/bird-bench/mini-dev/pkg/suggest"
)

func shopIndex() *schema.Index {
	return schema.NewIndex(&schema.Snapshot{Tables: []schema.Table{
		{Name: "orders", Columns: []schema.Column{{Name: "id"}, {Name: "total"}}},
		{Name: "customers", Columns: []schema.Column{{Name: "id"}, {Name: "name"}}},
	}})
}

func TestSplit(t *testing.T) {
	got := suggest.Split(" a.b,c.d;\n e.f ,, ;g\n")
	assert.Equal(t, []string{"a.b", "c.d", "e.f", "g"}, got)
	assert.Empty(t, suggest.Split(""))
}

func TestLiteralPairsAndMentions(t *testing.T) {
	tokens := []string{"Orders.ID", "a.b.c", "plain", " customers . name "}

	assert.Equal(t, []string{"orders.id", "customers . name"}, suggest.LiteralPairs(tokens))
	assert.Equal(t, []string{"Orders.ID", "a.b.c", "customers . name"}, suggest.Dotted(tokens))

	m := suggest.CollectMentions(tokens)
	assert.Equal(t, map[string]struct{}{"orders": {}, "a": {}, "customers": {}}, m.Tables)
	assert.Equal(t, map[string]struct{}{"id": {}, "b.c": {}, "name": {}}, m.Columns)
}

func TestExpand(t *testing.T) {
	ix := shopIndex()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no cross product beyond mentions",
			text: "orders.id, customers.id, customers.name",
			want: []string{"customers.id", "customers.name", "orders.id"},
		},
		{
			name: "mentions combine across tokens",
			text: "orders.name; customers.total\ncustomers.id",
			want: []string{"customers.id", "customers.name", "customers.total", "orders.id", "orders.name", "orders.total"},
		},
		{
			name: "case is folded",
			text: "ORDERS.Total, Customers.ID",
			want: []string{"customers.id", "orders.id", "orders.total"},
		},
		{
			name: "malformed tokens feed mentions only",
			text: "orders.x.y, customers.total",
			want: []string{"customers.total", "orders.total"},
		},
		{
			name: "nothing dotted",
			text: "orders, id",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, suggest.Expand(tt.text, ix))
		})
	}
}

func TestExpandWithoutIndex(t *testing.T) {
	assert.Equal(t, []string{"orders.id"}, suggest.Expand("orders.id, a.b.c", nil))
}

func TestExpandIsMonotonic(t *testing.T) {
	ix := shopIndex()
	n := normalize.New(ix)

	for _, text := range []string{
		"orders.id, customers.name",
		"Orders.Total;customers.ID;nonsense.col",
		"customers.`name`, orders . id",
		"",
	} {
		literal := n.Normalize(suggest.LiteralPairs(suggest.Split(text)))
		expanded := n.Normalize(suggest.Expand(text, ix))
		assert.Subset(t, expanded, literal, text)
	}
}
