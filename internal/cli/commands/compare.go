package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bird-bench/mini-dev/internal/evaluate"
	"github.com/bird-bench/mini-dev/pkg/suggest"
)

// CompareOptions holds options for the compare command.
type CompareOptions struct {
	DBID        string
	SQL         string
	Suggestions string
}

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	opts := &CompareOptions{}

	cmd := &cobra.Command{
		Use:   "compare --db ID --sql SQL --suggestions TEXT",
		Short: "Score column suggestions against a ground-truth query",
		Long: `Score one set of column suggestions against the columns a ground-truth
query reads, the same way evaluate scores every item of a file.

Three outcomes are reported: exact match of the suggestions, whether the
suggestions contain every ground-truth column, and whether the expanded
suggestions do.`,
		Example: `  minidev compare --db shop \
    --sql "SELECT T1.name FROM customers AS T1 JOIN orders AS T2 ON T1.id = T2.customer_id" \
    --suggestions "customers.name, customers.id, orders.customer_id"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DBID, "db", "", "Database id")
	cmd.Flags().StringVar(&opts.SQL, "sql", "", "Ground-truth SQL")
	cmd.Flags().StringVar(&opts.Suggestions, "suggestions", "", "Column suggestions separated by commas, semicolons or newlines")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("sql")

	return cmd
}

func runCompare(cmd *cobra.Command, opts *CompareOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if strings.TrimSpace(opts.SQL) == "" {
		return errors.New("--sql must not be empty")
	}

	entry, err := cc.LoadEntry(cmd.Context(), opts.DBID)
	if err != nil {
		return err
	}

	item := evaluate.Item{
		DBID:              opts.DBID,
		GroundTruthSQL:    opts.SQL,
		ColumnSuggestions: suggest.Split(opts.Suggestions),
	}
	r := evaluate.Evaluate(item, entry.Index, entry.Available, cc.Dialect)

	if cc.Renderer.Structured() {
		return cc.Renderer.Encode(r)
	}

	cc.Renderer.Table([]string{"Field", "Value"}, [][]any{
		{"ground truth columns", strings.Join(r.GroundTruthColumns, ", ")},
		{"suggestions", strings.Join(r.ColumnSuggestions, ", ")},
		{"expanded suggestions", strings.Join(r.ExpandedColumnSuggestions, ", ")},
		{"exact match", cc.Renderer.Bool(r.SuggestionMatch)},
		{"contains", cc.Renderer.Bool(r.SuggestionsContain)},
		{"expanded contains", cc.Renderer.Bool(r.ExpandedSuggestionsContain)},
	})
	if r.Error != "" {
		cc.Renderer.Warnf("error: %s\n", r.Error)
	}
	return nil
}
