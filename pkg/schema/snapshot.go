// Package schema holds catalog snapshots and the case-insensitive lookup
// index built from them.
//
// A Snapshot is what a catalog adapter reads from a database: tables in
// catalog order, each with its columns and optional documentation. An Index
// is the immutable lookup structure the normalizer and the suggestion
// expander consult. Build one Index per database and share it read-only.
package schema

import "strings"

// Snapshot is the catalog of one database.
type Snapshot struct {
	Database string  `json:"database,omitempty" yaml:"database,omitempty"`
	Tables   []Table `json:"tables" yaml:"tables"`
}

// Table is one table with its columns in declaration order.
type Table struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []Column `json:"columns" yaml:"columns"`
}

// Column describes one column. Default holds the declared default
// expression as SQL text and is nil when none is declared.
type Column struct {
	Name             string   `json:"name" yaml:"name"`
	Type             string   `json:"type" yaml:"type"`
	Nullable         bool     `json:"nullable" yaml:"nullable"`
	PrimaryKey       bool     `json:"primary_key" yaml:"primary_key"`
	Default          *string  `json:"default_value" yaml:"default_value"`
	Description      string   `json:"description" yaml:"description"`
	ValueDescription string   `json:"value_description" yaml:"value_description"`
	SampleValues     []string `json:"sample_values" yaml:"sample_values"`
}

// Table returns the table whose name matches name case-insensitively.
func (s *Snapshot) Table(name string) (*Table, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Tables {
		if strings.EqualFold(s.Tables[i].Name, name) {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// Column returns the column whose name matches name case-insensitively.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// ApplyDescriptions copies descriptions onto matching columns. Table and
// column names are matched case-insensitively after trimming.
func (s *Snapshot) ApplyDescriptions(descs Descriptions) {
	if s == nil || len(descs) == 0 {
		return
	}
	byTable := make(map[string]map[string]Description, len(descs))
	for table, cols := range descs {
		lowered := make(map[string]Description, len(cols))
		for col, d := range cols {
			lowered[strings.ToLower(strings.TrimSpace(col))] = d
		}
		byTable[strings.ToLower(strings.TrimSpace(table))] = lowered
	}

	for i := range s.Tables {
		cols, ok := byTable[strings.ToLower(s.Tables[i].Name)]
		if !ok {
			continue
		}
		for j := range s.Tables[i].Columns {
			col := &s.Tables[i].Columns[j]
			if d, ok := cols[strings.ToLower(col.Name)]; ok {
				col.Description = d.Description
				col.ValueDescription = d.ValueDescription
			}
		}
	}
}
