package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bird-bench/mini-dev/pkg/normalize"
	"github.com/bird-bench/mini-dev/pkg/resolve"
	"github.com/bird-bench/mini-dev/pkg/schema"
)

func testIndex() *schema.Index {
	return schema.NewIndex(&schema.Snapshot{Tables: []schema.Table{
		{Name: "Customers", Columns: []schema.Column{{Name: "CustID"}, {Name: "Name"}}},
		{Name: "frpm", Columns: []schema.Column{{Name: "Free Meal Count (K-12)"}}},
	}})
}

func TestEntry(t *testing.T) {
	n := normalize.New(testIndex())

	tests := []struct {
		name  string
		entry string
		want  string
		ok    bool
	}{
		{"casing round trip", "customers.custid", "Customers.CustID", true},
		{"already canonical", "Customers.CustID", "Customers.CustID", true},
		{"backticks", "customers.`name`", "Customers.Name", true},
		{"double quotes and spaces", `frpm. "Free Meal Count (K-12)" `, "frpm.Free Meal Count (K-12)", true},
		{"brackets", "FRPM.[free meal count (k-12)]", "frpm.Free Meal Count (K-12)", true},
		{"unknown column", "customers.total", "", false},
		{"unknown table", "orders.id", "", false},
		{"no dot", "custid", "", false},
		{"implicit", "<implicit>.custid", "", false},
		{"table part is not stripped", "`customers`.custid", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.Entry(tt.entry)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := normalize.New(testIndex())

	once := n.Normalize([]string{"customers.name", "CUSTOMERS.custid", "customers.Name", "x.y", "nodot"})
	require.Equal(t, []string{"Customers.CustID", "Customers.Name"}, once)
	assert.Equal(t, once, n.Normalize(once))
}

func TestNormalizeWithoutSchema(t *testing.T) {
	for _, ix := range []*schema.Index{nil, schema.NewIndex(nil)} {
		n := normalize.New(ix)
		assert.Empty(t, n.Normalize([]string{"customers.custid"}))
	}
}

func TestFootprint(t *testing.T) {
	n := normalize.New(testIndex())
	fp := resolve.NewFootprint(
		resolve.RealColumn("customers", "custid"),
		resolve.ImplicitColumn("name"),
		resolve.RealColumn("unnamed_subquery", "name"),
	)
	assert.Equal(t, []string{"Customers.CustID"}, n.Footprint(fp))
}

func TestDisplay(t *testing.T) {
	n := normalize.New(testIndex())
	got := n.Display([]string{" customers.custid ", "orders.total", "nodot", "", "Customers.CustID"})
	assert.Equal(t, []string{"Customers.CustID", "orders.total"}, got)
}
