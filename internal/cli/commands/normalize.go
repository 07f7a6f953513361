package commands

import (
	"github.com/spf13/cobra"

	"github.com/bird-bench/mini-dev/pkg/normalize"
	"github.com/bird-bench/mini-dev/pkg/suggest"
)

type normalizeOutput struct {
	DBID    string   `json:"db_id" yaml:"db_id"`
	Columns []string `json:"columns" yaml:"columns"`
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand() *cobra.Command {
	var dbID string

	cmd := &cobra.Command{
		Use:   "normalize --db ID ENTRY... | -",
		Short: "Canonicalize table.column entries against a schema",
		Long: `Map table.column entries onto the casing of a database schema.

Entries the schema does not know are dropped. The result is sorted and
de-duplicated. With "-" the entries are read from standard input and may
be separated by commas, semicolons or newlines.`,
		Example: `  minidev normalize --db shop Orders.TOTAL "customers.` + "`name`" + `"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			entries := args
			if len(args) == 1 && args[0] == "-" {
				text, err := readInput(cmd, args)
				if err != nil {
					return err
				}
				entries = suggest.Split(text)
			}

			ix, err := cc.LoadIndex(cmd.Context(), dbID)
			if err != nil {
				return err
			}
			out := normalizeOutput{DBID: dbID, Columns: normalize.New(ix).Normalize(entries)}

			if cc.Renderer.Structured() {
				return cc.Renderer.Encode(out)
			}
			for _, c := range out.Columns {
				cc.Renderer.Println(c)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbID, "db", "", "Database id")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}
