package commands

import (
	"github.com/spf13/cobra"

	"github.com/bird-bench/mini-dev/pkg/normalize"
	"github.com/bird-bench/mini-dev/pkg/resolve"
)

// ResolveOptions holds options for the resolve command.
type ResolveOptions struct {
	DBID string
	Raw  bool
}

type resolveOutput struct {
	DBID     string   `json:"db_id,omitempty" yaml:"db_id,omitempty"`
	Columns  []string `json:"columns" yaml:"columns"`
	Implicit int      `json:"implicit" yaml:"implicit"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	opts := &ResolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve [SQL|-]",
		Short: "List the columns a SELECT statement reads",
		Long: `Resolve every column reference of a SELECT statement to its table.

Unqualified references in a block with several sources are reported
under <implicit>. With --db the result is normalized against the schema
of that database: casing follows the schema and unknown columns are
dropped. Use --raw to keep the syntactic result.`,
		Example: `  # Resolve a statement
  minidev resolve "SELECT name FROM customers"

  # Normalize against a BIRD database, reading SQL from stdin
  cat query.sql | minidev resolve --db california_schools -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DBID, "db", "", "Database id to normalize against")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "Skip normalization even when --db is given")

	return cmd
}

func runResolve(cmd *cobra.Command, args []string, opts *ResolveOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	sql, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	fp, err := resolve.ResolveSQL(sql, cc.Dialect)
	if err != nil {
		return err
	}

	out := resolveOutput{DBID: opts.DBID, Columns: fp.Strings(), Implicit: len(fp.Implicit())}
	if opts.DBID != "" && !opts.Raw {
		ix, err := cc.LoadIndex(cmd.Context(), opts.DBID)
		if err != nil {
			return err
		}
		out.Columns = normalize.New(ix).Footprint(fp)
	}

	if cc.Renderer.Structured() {
		return cc.Renderer.Encode(out)
	}
	for _, c := range out.Columns {
		cc.Renderer.Println(c)
	}
	return nil
}
