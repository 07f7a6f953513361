package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bird-bench/mini-dev/internal/evaluate"
)

const runColumns = `id, input_path, status, started_at, completed_at, total, matches, contains, expanded_contains, errors`

// CreateRun records the start of an evaluation of inputPath.
func (s *SQLiteStore) CreateRun(ctx context.Context, inputPath string) (*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	run := &Run{
		ID:        generateID(),
		InputPath: inputPath,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("creating run", slog.String("id", run.ID), slog.String("input", inputPath))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO eval_runs (id, input_path, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.InputPath, string(run.Status), formatTime(run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// SaveResults stores the per-question outcomes of a run in one
// transaction, keeping their order.
func (s *SQLiteStore) SaveResults(ctx context.Context, runID string, results []evaluate.Result) (err error) {
	if s.db == nil {
		return errNotOpened
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO eval_results (
			run_id, position, question_id, db_id, suggestion_match, suggestions_contain,
			expanded_suggestions_contain, ground_truth_columns, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range results {
		r := &results[i]
		columns, err := json.Marshal(r.GroundTruthColumns)
		if err != nil {
			return fmt.Errorf("failed to encode ground truth columns: %w", err)
		}
		var errMsg *string
		if r.Error != "" {
			errMsg = &r.Error
		}
		if _, err := stmt.ExecContext(ctx,
			runID, i, r.QuestionKey(), r.DBID,
			boolInt(r.SuggestionMatch), boolInt(r.SuggestionsContain), boolInt(r.ExpandedSuggestionsContain),
			string(columns), errMsg,
		); err != nil {
			return fmt.Errorf("failed to save result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}
	return nil
}

// CompleteRun marks a run finished and stores its summary counts.
func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, status RunStatus, summary evaluate.Summary) error {
	if s.db == nil {
		return errNotOpened
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE eval_runs
		SET status = ?, completed_at = ?, total = ?, matches = ?, contains = ?, expanded_contains = ?, errors = ?
		WHERE id = ?`,
		string(status), formatTime(time.Now()), summary.Total, summary.Matches, summary.Contains,
		summary.ExpandedContains, summary.Errors, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM eval_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM eval_runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetResults returns the stored outcomes of a run in input order.
func (s *SQLiteStore) GetResults(ctx context.Context, runID string) ([]ResultRecord, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, db_id, suggestion_match, suggestions_contain,
		       expanded_suggestions_contain, ground_truth_columns, error
		FROM eval_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []ResultRecord
	for rows.Next() {
		rec := ResultRecord{RunID: runID}
		var (
			match, contain, expanded int
			columns                  string
			errMsg                   sql.NullString
		)
		if err := rows.Scan(&rec.QuestionID, &rec.DBID, &match, &contain, &expanded, &columns, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		rec.SuggestionMatch = match != 0
		rec.SuggestionsContain = contain != 0
		rec.ExpandedSuggestionsContain = expanded != 0
		rec.Error = errMsg.String
		if err := json.Unmarshal([]byte(columns), &rec.GroundTruthColumns); err != nil {
			return nil, fmt.Errorf("failed to decode ground truth columns: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run               Run
		status, startedAt string
		completedAt       sql.NullString
	)
	if err := row.Scan(&run.ID, &run.InputPath, &status, &startedAt, &completedAt,
		&run.Total, &run.Matches, &run.Contains, &run.ExpandedContains, &run.Errors); err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)

	t, err := parseTime(startedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
	}
	run.StartedAt = t
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at %q: %w", completedAt.String, err)
		}
		run.CompletedAt = &t
	}
	return &run, nil
}
