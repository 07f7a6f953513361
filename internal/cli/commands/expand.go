package commands

import (
	"github.com/spf13/cobra"

	"github.com/bird-bench/mini-dev/pkg/normalize"
	"github.com/bird-bench/mini-dev/pkg/suggest"
)

type expandOutput struct {
	DBID       string   `json:"db_id" yaml:"db_id"`
	Literal    []string `json:"literal" yaml:"literal"`
	Expanded   []string `json:"expanded" yaml:"expanded"`
	Normalized []string `json:"normalized" yaml:"normalized"`
}

// NewExpandCommand creates the expand command.
func NewExpandCommand() *cobra.Command {
	var dbID string

	cmd := &cobra.Command{
		Use:   "expand --db ID [TEXT|-]",
		Short: "Expand column suggestions across mentioned tables",
		Long: `Expand free-form column suggestions.

Every table mentioned in the suggestions is paired with every column
mentioned, and the pairs the schema knows are kept. The literal pairs of
the input are always part of the expansion.`,
		Example: `  minidev expand --db shop "orders.id, customers.name"`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			ix, err := cc.LoadIndex(cmd.Context(), dbID)
			if err != nil {
				return err
			}

			tokens := suggest.Split(text)
			expanded := suggest.ExpandTokens(tokens, ix)
			n := normalize.New(ix)
			out := expandOutput{
				DBID:       dbID,
				Literal:    suggest.LiteralPairs(tokens),
				Expanded:   expanded,
				Normalized: n.Normalize(append(suggest.Dotted(tokens), expanded...)),
			}

			if cc.Renderer.Structured() {
				return cc.Renderer.Encode(out)
			}
			for _, c := range out.Normalized {
				cc.Renderer.Println(c)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbID, "db", "", "Database id")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}
