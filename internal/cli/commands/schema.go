package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bird-bench/mini-dev/internal/cli/output"
	"github.com/bird-bench/mini-dev/pkg/schema"
)

// NewSchemaCommand creates the schema command group.
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect database schemas",
	}
	cmd.AddCommand(newSchemaExtractCommand(), newSchemaDescribeCommand())
	return cmd
}

// SchemaExtractOptions holds options for schema extract.
type SchemaExtractOptions struct {
	Format string
	Out    string
}

func newSchemaExtractCommand() *cobra.Command {
	opts := &SchemaExtractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [DB_ID...]",
		Short: "Dump the column schema of databases",
		Long: `Read tables, columns, sample values and column descriptions of each
database and write them as one document keyed by database id.

Without ids every database under the data directory is extracted. A
database that cannot be read is written with no tables.`,
		Example: `  minidev schema extract --out database_columns_schema.json
  minidev schema extract --format yaml california_schools`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaExtract(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "json", "Document format (json|yaml)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Output file (default: stdout)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runSchemaExtract(cmd *cobra.Command, ids []string, opts *SchemaExtractOptions) error {
	encode := output.EncodeJSON
	switch opts.Format {
	case "json":
	case "yaml":
		encode = output.EncodeYAML
	default:
		return fmt.Errorf("invalid format %q (expected json or yaml)", opts.Format)
	}

	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		if ids, err = cc.Locator().Discover(); err != nil {
			return err
		}
	}

	cat := cc.Catalog(cc.Cfg.SampleValues, true)
	defer func() { _ = cat.Close() }()
	if err := cat.Preload(cmd.Context(), ids); err != nil {
		return err
	}

	doc := make(map[string]*schema.Snapshot, len(ids))
	for _, id := range cat.IDs() {
		e, _ := cat.Entry(id)
		snap := e.Snapshot
		if snap == nil {
			snap = &schema.Snapshot{Database: id}
		}
		if snap.Tables == nil {
			snap.Tables = []schema.Table{}
		}
		doc[id] = snap
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.Out != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Out), 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(opts.Out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.Out, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	if err := encode(w, doc); err != nil {
		return err
	}
	if opts.Out != "" {
		cc.Logger.Info("schema written", slog.String("path", opts.Out), slog.Int("databases", len(doc)))
	}
	return nil
}

func newSchemaDescribeCommand() *cobra.Command {
	var dbID string

	cmd := &cobra.Command{
		Use:   "describe --db ID [TABLE.COLUMN...]",
		Short: "Describe columns of a database",
		Long: `Print the column information block for the given columns: type, sample
values and descriptions. Without columns every column is described.
Unknown columns are reported on stderr and skipped.`,
		Example: `  minidev schema describe --db california_schools schools.County frpm.CDSCode`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			cat := cc.Catalog(cc.Cfg.SampleValues, true)
			defer func() { _ = cat.Close() }()
			e, err := cat.Load(cmd.Context(), dbID)
			if err != nil {
				return err
			}
			if !e.Available {
				return fmt.Errorf("schema of %s unavailable: %w", dbID, e.Err)
			}

			text, err := schema.Describe(e.Snapshot, args)
			if err != nil {
				cc.Renderer.Warnf("warning: %v\n", err)
			}
			cc.Renderer.Println(text)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbID, "db", "", "Database id")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}
