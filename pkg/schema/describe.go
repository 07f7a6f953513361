package schema

import (
	"errors"
	"fmt"
	"strings"
)

// MaxSampleValues is the number of sample values rendered per column.
const MaxSampleValues = 5

// Select returns a snapshot restricted to the given table.column specs,
// keeping the order in which they are given. No specs selects everything.
// Specs that are malformed or name unknown tables or columns are skipped
// and reported in the joined error.
func Select(s *Snapshot, specs []string) (*Snapshot, error) {
	if s == nil {
		return &Snapshot{}, nil
	}
	if len(specs) == 0 {
		return s, nil
	}

	out := &Snapshot{Database: s.Database}
	positions := make(map[string]int)
	var errs []error

	for _, spec := range specs {
		tableName, columnName, ok := strings.Cut(spec, ".")
		if !ok {
			errs = append(errs, fmt.Errorf("invalid column specification %q, expected table.column", spec))
			continue
		}
		table, ok := s.Table(tableName)
		if !ok {
			errs = append(errs, fmt.Errorf("table %q not found (available: %s)", tableName, strings.Join(tableNames(s), ", ")))
			continue
		}
		column, ok := table.Column(columnName)
		if !ok {
			errs = append(errs, fmt.Errorf("column %q not found in table %q", columnName, table.Name))
			continue
		}

		pos, seen := positions[table.Name]
		if !seen {
			pos = len(out.Tables)
			positions[table.Name] = pos
			out.Tables = append(out.Tables, Table{Name: table.Name})
		}
		out.Tables[pos].Columns = append(out.Tables[pos].Columns, *column)
	}

	return out, errors.Join(errs...)
}

func tableNames(s *Snapshot) []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return names
}

// Describe renders the column information block for the selected columns.
// The error reports skipped specs; the text is valid either way.
func Describe(s *Snapshot, specs []string) (string, error) {
	selected, err := Select(s, specs)
	return Format(selected), err
}

// Format renders every table and column of s in the column information
// layout shown to a model when it asks about columns.
func Format(s *Snapshot) string {
	if s == nil || countColumns(s) == 0 {
		return "No valid columns found."
	}

	var b strings.Builder
	for _, t := range s.Tables {
		if len(t.Columns) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n\nTable: %s\n", t.Name)
		b.WriteString(strings.Repeat("-", 30))
		b.WriteString("\n")

		for _, c := range t.Columns {
			fmt.Fprintf(&b, "\n  Column: %s\n", c.Name)
			if c.Description != "" && c.Description != c.Name {
				fmt.Fprintf(&b, "    Additional Description: %s\n", c.Description)
			} else {
				b.WriteString("    Additional Description: None\n")
			}
			fmt.Fprintf(&b, "    Type: %s\n", c.Type)
			fmt.Fprintf(&b, "    Primary Key: %s\n", pyBool(c.PrimaryKey))
			fmt.Fprintf(&b, "    Nullable: %s\n", pyBool(c.Nullable))
			def := "None"
			if c.Default != nil {
				def = *c.Default
			}
			fmt.Fprintf(&b, "    Default: %s\n", def)

			if len(c.SampleValues) > 0 {
				samples := c.SampleValues
				if len(samples) > MaxSampleValues {
					samples = samples[:MaxSampleValues]
				}
				fmt.Fprintf(&b, "    Sample Values: %s\n", strings.Join(samples, ", "))
			}
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func countColumns(s *Snapshot) int {
	n := 0
	for _, t := range s.Tables {
		n += len(t.Columns)
	}
	return n
}

// pyBool renders booleans the way the prompt format has always shown them.
func pyBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
