package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/bird-bench/mini-dev/internal/catalog"
	"github.com/bird-bench/mini-dev/internal/evaluate"
	"github.com/bird-bench/mini-dev/pkg/dialect"
)

// DefaultWorkers is the evaluation pool size.
const DefaultWorkers = 12

// progressEvery is how many completed items pass between progress logs.
const progressEvery = 10

// Runner evaluates items against a shared catalog.
type Runner struct {
	Catalog *catalog.Catalog
	Dialect *dialect.Dialect
	Workers int
	Logger  *slog.Logger
}

// Run pre-loads the schema of every distinct database, then evaluates
// items concurrently. Results are in input order. A failing item yields a
// result with Error set and never stops the others; only cancellation of
// ctx aborts the run.
func (r *Runner) Run(ctx context.Context, items []evaluate.Item) ([]evaluate.Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := r.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	ids := make([]string, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].DBID)
	}
	if err := r.Catalog.Preload(ctx, ids); err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}

	logger.Info("processing items", slog.Int("items", len(items)), slog.Int("workers", workers))

	results := make([]evaluate.Result, len(items))
	var completed atomic.Int64

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = r.evaluateOne(ctx, logger, items[i])
			if n := completed.Add(1); n%progressEvery == 0 {
				logger.Info("progress", slog.Int64("completed", n), slog.Int("total", len(items)))
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) evaluateOne(ctx context.Context, logger *slog.Logger, item evaluate.Item) (res evaluate.Result) {
	defer func() {
		if p := recover(); p != nil {
			res = failed(item, fmt.Errorf("panic: %v", p))
			logger.Warn("item failed", slog.Any("question_id", item.QuestionID), slog.String("db_id", item.DBID), slog.Any("error", p))
		}
	}()

	entry, err := r.Catalog.Load(ctx, item.DBID)
	if err != nil {
		return failed(item, err)
	}

	res = evaluate.Evaluate(item, entry.Index, entry.Available, r.Dialect)
	if res.Error != "" {
		logger.Warn("item failed", slog.Any("question_id", item.QuestionID), slog.String("db_id", item.DBID), slog.String("error", res.Error))
	}
	return res
}

func failed(item evaluate.Item, err error) evaluate.Result {
	return evaluate.Result{
		QuestionID:                item.QuestionID,
		DBID:                      item.DBID,
		Question:                  item.Question,
		Evidence:                  item.Evidence,
		Difficulty:                item.Difficulty,
		ExactMatch:                item.ExactMatch,
		PredictedSQL:              item.PredictedSQL,
		GroundTruthSQL:            item.GroundTruthSQL,
		ColumnSuggestions:         []string{},
		ExpandedColumnSuggestions: []string{},
		GroundTruthColumns:        []string{},
		Error:                     err.Error(),
	}
}
