package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bird-bench/mini-dev/internal/state"
)

const defaultRunsLimit = 20

type runDetail struct {
	Run     *state.Run           `json:"run" yaml:"run"`
	Results []state.ResultRecord `json:"results" yaml:"results"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [RUN_ID]",
		Short: "List recorded evaluation runs",
		Long: `List evaluation runs recorded with evaluate --record, most recent first.

Given a run id, show that run and the outcome of each of its questions.`,
		Example: `  minidev runs
  minidev runs --limit 5 --output json
  minidev runs 6f1c2e4a-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			store := state.NewSQLiteStore(cc.Logger)
			if err := store.Open(cmd.Context(), cc.Cfg.StatePath); err != nil {
				return fmt.Errorf("failed to open state database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if len(args) == 1 {
				return showRun(cmd, cc, store, args[0])
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if cc.Renderer.Structured() {
				return cc.Renderer.Encode(runs)
			}
			if len(runs) == 0 {
				cc.Renderer.Println("No runs recorded.")
				return nil
			}

			title := cases.Title(language.English)
			rows := make([][]any, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []any{
					r.ID,
					r.StartedAt.Local().Format(time.DateTime),
					title.String(string(r.Status)),
					r.InputPath,
					r.Total,
					r.Matches,
					r.Contains,
					r.ExpandedContains,
					r.Errors,
				})
			}
			cc.Renderer.Table([]string{"ID", "Started", "Status", "Input", "Total", "Match", "Contains", "Expanded", "Errors"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultRunsLimit, "Maximum number of runs to list (0 for all)")

	return cmd
}

func showRun(cmd *cobra.Command, cc *CommandContext, store state.Store, id string) error {
	run, err := store.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	results, err := store.GetResults(cmd.Context(), id)
	if err != nil {
		return err
	}

	if cc.Renderer.Structured() {
		return cc.Renderer.Encode(runDetail{Run: run, Results: results})
	}

	cc.Renderer.Heading(fmt.Sprintf("Run %s (%s): %s", run.ID, run.Status, run.InputPath))
	rows := make([][]any, 0, len(results))
	for _, r := range results {
		rows = append(rows, []any{
			r.QuestionID,
			r.DBID,
			r.SuggestionMatch,
			r.SuggestionsContain,
			r.ExpandedSuggestionsContain,
			strings.Join(r.GroundTruthColumns, ", "),
			r.Error,
		})
	}
	cc.Renderer.Table([]string{"Question", "DB", "Match", "Contains", "Expanded", "Ground truth", "Error"}, rows)
	return nil
}
