package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bird-bench/mini-dev/internal/batch"
	"github.com/bird-bench/mini-dev/internal/evaluate"
	"github.com/bird-bench/mini-dev/internal/state"
)

// EvaluateOptions holds options for the evaluate command.
type EvaluateOptions struct {
	Input   string
	Out     string
	Workers int
	Watch   bool
	Record  bool
}

type evaluateOutput struct {
	Input   string           `json:"input" yaml:"input"`
	Output  string           `json:"output" yaml:"output"`
	RunID   string           `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Summary evaluate.Summary `json:"summary" yaml:"summary"`
}

// NewEvaluateCommand creates the evaluate command.
func NewEvaluateCommand() *cobra.Command {
	opts := &EvaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate INPUT",
		Short: "Score column suggestions of a prediction file",
		Long: `Evaluate every item of a JSON array or JSONL file of predictions.

For each item the columns read by its ground-truth SQL are resolved and
normalized against the item's database, then compared with the item's
column suggestions. Items are written back with the evaluation fields
added, in input order. A summary is printed when done.

With --watch the file is evaluated again each time it changes. With
--record the run and its results are stored in the state database.`,
		Example: `  # Evaluate into predictions_evaluated.json
  minidev evaluate predictions.json

  # Explicit output path, 4 workers, recorded in the state database
  minidev evaluate predictions.jsonl -o out/results.jsonl --workers 4 --record`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			return runEvaluate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Output path (default: <input>_evaluated.<ext>)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Number of concurrent evaluations (default: from config)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Evaluate again whenever the input changes")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "Record the run in the state database")

	return cmd
}

// DefaultOutputPath places the results next to input, with _evaluated
// appended to the file stem.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_evaluated" + ext
}

func runEvaluate(cmd *cobra.Command, opts *EvaluateOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if opts.Out == "" {
		opts.Out = DefaultOutputPath(opts.Input)
	}
	workers := cc.Cfg.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}

	cat := cc.Catalog(0, false)
	defer func() { _ = cat.Close() }()

	e := &evaluation{
		cc:     cc,
		opts:   opts,
		runner: &batch.Runner{Catalog: cat, Dialect: cc.Dialect, Workers: workers, Logger: cc.Logger},
	}
	if opts.Record {
		store := state.NewSQLiteStore(cc.Logger)
		if err := store.Open(cmd.Context(), cc.Cfg.StatePath); err != nil {
			return fmt.Errorf("failed to open state database: %w", err)
		}
		defer func() { _ = store.Close() }()
		e.store = store
	}

	if err := e.run(cmd.Context()); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}

	cc.Logger.Info("watching for changes", slog.String("path", opts.Input))
	return batch.Watch(cmd.Context(), opts.Input, batch.DefaultDebounce, cc.Logger, e.run)
}

// evaluation is one configured evaluate invocation. run may be called
// repeatedly; schemas stay cached in the runner's catalog between calls.
type evaluation struct {
	cc     *CommandContext
	opts   *EvaluateOptions
	store  state.Store
	runner *batch.Runner
}

func (e *evaluation) run(ctx context.Context) error {
	start := time.Now()

	items, err := batch.ReadItems(e.opts.Input)
	if err != nil {
		return err
	}
	e.cc.Logger.Info("evaluating", slog.String("input", e.opts.Input), slog.Int("items", len(items)))

	var run *state.Run
	if e.store != nil {
		if run, err = e.store.CreateRun(ctx, e.opts.Input); err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
	}

	results, err := e.runner.Run(ctx, items)
	if err == nil {
		err = batch.WriteResults(e.opts.Out, results)
	}
	summary := evaluate.Summarize(results)

	if run != nil {
		if recErr := e.record(ctx, run.ID, results, summary, err); recErr != nil {
			e.cc.Logger.Warn("failed to record results", slog.String("run_id", run.ID), slog.Any("error", recErr))
		}
	}
	if err != nil {
		return err
	}

	summary.Log(e.cc.Logger)
	e.cc.Logger.Debug("evaluation finished", slog.Duration("elapsed", time.Since(start)))

	out := evaluateOutput{Input: e.opts.Input, Output: e.opts.Out, Summary: summary}
	if run != nil {
		out.RunID = run.ID
	}
	return e.render(out)
}

func (e *evaluation) record(ctx context.Context, runID string, results []evaluate.Result, summary evaluate.Summary, runErr error) error {
	// The run context may already be canceled; the outcome is still stored.
	ctx = context.WithoutCancel(ctx)
	if runErr != nil {
		return e.store.CompleteRun(ctx, runID, state.RunStatusFailed, summary)
	}
	if err := e.store.SaveResults(ctx, runID, results); err != nil {
		return err
	}
	return e.store.CompleteRun(ctx, runID, state.RunStatusCompleted, summary)
}

func (e *evaluation) render(out evaluateOutput) error {
	r := e.cc.Renderer
	if r.Structured() {
		return r.Encode(out)
	}

	s := out.Summary
	r.Table([]string{"Metric", "Count", "Percent"}, [][]any{
		{"exact match", s.Matches, s.FormatPercent(s.Matches)},
		{"contains", s.Contains, s.FormatPercent(s.Contains)},
		{"expanded contains", s.ExpandedContains, s.FormatPercent(s.ExpandedContains)},
		{"errors", s.Errors, s.FormatPercent(s.Errors)},
		{"schema unavailable", s.SchemaUnavailable, s.FormatPercent(s.SchemaUnavailable)},
	})
	r.Printf("%d items written to %s\n", s.Total, out.Output)
	if out.RunID != "" {
		r.Printf("recorded as run %s\n", out.RunID)
	}
	return nil
}
