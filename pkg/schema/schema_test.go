package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *Snapshot {
	def := "0"
	return &Snapshot{
		Database: "shop",
		Tables: []Table{
			{Name: "Customers", Columns: []Column{
				{Name: "CustID", Type: "INTEGER", PrimaryKey: true},
				{Name: "Name", Type: "TEXT", Nullable: true, SampleValues: []string{"a", "b", "c", "d", "e", "f"}},
			}},
			{Name: "orders", Columns: []Column{
				{Name: "id", Type: "INTEGER", PrimaryKey: true},
				{Name: "total", Type: "REAL", Nullable: true, Default: &def},
			}},
			{Name: "sqlite_sequence", Columns: []Column{{Name: "name"}, {Name: "seq"}}},
		},
	}
}

func TestIndexLookup(t *testing.T) {
	ix := NewIndex(sampleSnapshot())

	assert.Equal(t, 2, ix.Len())
	assert.False(t, ix.Empty())
	assert.Equal(t, []string{"Customers", "orders"}, ix.Tables())

	name, ok := ix.Table("CUSTOMERS")
	require.True(t, ok)
	assert.Equal(t, "Customers", name)

	table, column, ok := ix.Column("customers", "custid")
	require.True(t, ok)
	assert.Equal(t, "Customers", table)
	assert.Equal(t, "CustID", column)

	_, _, ok = ix.Column("customers", "total")
	assert.False(t, ok)

	_, ok = ix.Table("sqlite_sequence")
	assert.False(t, ok, "internal tables are skipped")

	assert.Equal(t, []string{"id", "total"}, ix.Columns("ORDERS"))
	assert.Nil(t, ix.Columns("missing"))
}

func TestIndexFirstCasingWins(t *testing.T) {
	ix := NewIndex(&Snapshot{Tables: []Table{
		{Name: "Items", Columns: []Column{{Name: "Code"}, {Name: "CODE"}}},
		{Name: "ITEMS", Columns: []Column{{Name: "extra"}}},
	}})

	assert.Equal(t, []string{"Items"}, ix.Tables())
	assert.Equal(t, []string{"Code", "extra"}, ix.Columns("items"))
}

func TestNilIndexIsEmpty(t *testing.T) {
	var ix *Index
	assert.True(t, ix.Empty())
	assert.Nil(t, ix.Tables())
	_, ok := ix.Table("t")
	assert.False(t, ok)

	assert.True(t, NewIndex(nil).Empty())
}

func TestParseDescriptions(t *testing.T) {
	csvText := "original_column_name,column_name,column_description,data_format,value_description\n" +
		"CustID ,customer id,unique id of the customer,integer,\n" +
		"Name,name,\"full name, as written\",text,\"commonsense evidence:\nmay be null\"\n" +
		",,ignored,,\n"

	cols, err := ParseDescriptions(strings.NewReader(csvText))
	require.NoError(t, err)
	assert.Equal(t, map[string]Description{
		"CustID": {Description: "unique id of the customer"},
		"Name":   {Description: "full name, as written", ValueDescription: "commonsense evidence:\nmay be null"},
	}, cols)
}

func TestLoadDescriptionsEncodings(t *testing.T) {
	dir := t.TempDir()

	bom := "\xEF\xBB\xBForiginal_column_name,column_description,value_description\nCustID,the id,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Customers.csv"), []byte(bom), 0o600))

	// "café" in ISO-8859-1 is not valid UTF-8.
	latin := []byte("original_column_name,column_description,value_description\ntotal,caf\xE9 total,\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.csv"), latin, 0o600))

	descs, err := LoadDescriptions(dir)
	require.NoError(t, err)
	assert.Equal(t, "the id", descs["Customers"]["CustID"].Description)
	assert.Equal(t, "café total", descs["orders"]["total"].Description)
}

func TestLoadDescriptionsMissingDir(t *testing.T) {
	descs, err := LoadDescriptions(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, descs)
}

func TestApplyDescriptions(t *testing.T) {
	s := sampleSnapshot()
	s.ApplyDescriptions(Descriptions{
		"customers": {"custid ": {Description: "customer id", ValueDescription: "unique"}},
	})

	table, ok := s.Table("Customers")
	require.True(t, ok)
	col, ok := table.Column("CustID")
	require.True(t, ok)
	assert.Equal(t, "customer id", col.Description)
	assert.Equal(t, "unique", col.ValueDescription)
}

func TestSelect(t *testing.T) {
	selected, err := Select(sampleSnapshot(), []string{"orders.total", "customers.name", "orders.id", "bogus", "orders.nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid column specification "bogus"`)
	assert.Contains(t, err.Error(), `column "nope" not found in table "orders"`)

	require.Len(t, selected.Tables, 2)
	assert.Equal(t, "orders", selected.Tables[0].Name)
	assert.Equal(t, "total", selected.Tables[0].Columns[0].Name)
	assert.Equal(t, "id", selected.Tables[0].Columns[1].Name)
	assert.Equal(t, "Customers", selected.Tables[1].Name)
}

func TestDescribe(t *testing.T) {
	s := sampleSnapshot()
	s.Tables[0].Columns[1].Description = "customer name"

	text, err := Describe(s, []string{"Customers.Name", "orders.total"})
	require.NoError(t, err)

	want := strings.Join([]string{
		"",
		"",
		"Table: Customers",
		"------------------------------",
		"",
		"  Column: Name",
		"    Additional Description: customer name",
		"    Type: TEXT",
		"    Primary Key: False",
		"    Nullable: True",
		"    Default: None",
		"    Sample Values: a, b, c, d, e",
		"",
		"",
		"Table: orders",
		"------------------------------",
		"",
		"  Column: total",
		"    Additional Description: None",
		"    Type: REAL",
		"    Primary Key: False",
		"    Nullable: True",
		"    Default: 0",
	}, "\n")
	assert.Equal(t, want, text)
}

func TestDescribeNothing(t *testing.T) {
	text, err := Describe(sampleSnapshot(), []string{"missing.col"})
	require.Error(t, err)
	assert.Equal(t, "No valid columns found.", text)
}
