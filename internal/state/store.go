// Package state records evaluation runs in a SQLite database so results of
// earlier runs can be listed and compared.
package state

import (
	"context"
	"time"

	"github.com/bird-bench/mini-dev/internal/evaluate"
)

// RunStatus is the lifecycle state of an evaluation run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded evaluation of an input file.
type Run struct {
	ID          string     `json:"id" yaml:"id"`
	InputPath   string     `json:"input_path" yaml:"input_path"`
	Status      RunStatus  `json:"status" yaml:"status"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`

	Total            int `json:"total" yaml:"total"`
	Matches          int `json:"matches" yaml:"matches"`
	Contains         int `json:"contains" yaml:"contains"`
	ExpandedContains int `json:"expanded_contains" yaml:"expanded_contains"`
	Errors           int `json:"errors" yaml:"errors"`
}

// ResultRecord is the stored outcome of one question in a run.
type ResultRecord struct {
	RunID                      string   `json:"run_id" yaml:"run_id"`
	QuestionID                 string   `json:"question_id" yaml:"question_id"`
	DBID                       string   `json:"db_id" yaml:"db_id"`
	SuggestionMatch            bool     `json:"suggestion_match" yaml:"suggestion_match"`
	SuggestionsContain         bool     `json:"suggestions_contain" yaml:"suggestions_contain"`
	ExpandedSuggestionsContain bool     `json:"expanded_suggestions_contain" yaml:"expanded_suggestions_contain"`
	GroundTruthColumns         []string `json:"ground_truth_columns" yaml:"ground_truth_columns"`
	Error                      string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Store persists evaluation runs.
type Store interface {
	CreateRun(ctx context.Context, inputPath string) (*Run, error)
	SaveResults(ctx context.Context, runID string, results []evaluate.Result) error
	CompleteRun(ctx context.Context, runID string, status RunStatus, summary evaluate.Summary) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	GetResults(ctx context.Context, runID string) ([]ResultRecord, error)
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
