// Package catalog caches one schema index per database for the lifetime
// of a batch run.
//
// Indexes are built ahead of parallel work with Preload and then shared
// read-only. A database that cannot be found or read still gets an entry:
// an empty index flagged as unavailable, so one bad db_id never aborts a
// run.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/bird-bench/mini-dev/pkg/adapter"
	"github.com/bird-bench/mini-dev/pkg/schema"

	_ "github.com/bird-bench/mini-dev/pkg/adapters/sqlite" // default catalog adapter
)

// DefaultWorkers bounds concurrent database reads during Preload.
const DefaultWorkers = 4

// Options configures a Catalog.
type Options struct {
	Locator Locator

	// SampleValues is passed to each adapter snapshot. Zero skips sampling.
	SampleValues int

	// Descriptions loads database_description CSVs onto sqlite snapshots.
	Descriptions bool

	// Workers bounds Preload concurrency. Zero means DefaultWorkers.
	Workers int

	Logger *slog.Logger
}

// Entry is the cached catalog of one database.
type Entry struct {
	ID        string
	Snapshot  *schema.Snapshot
	Index     *schema.Index
	Available bool

	// Err explains why the database is unavailable.
	Err error
}

// Catalog is a db_id keyed cache of schema indexes. It is safe for
// concurrent use.
type Catalog struct {
	opts   Options
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]*Entry
	loads   singleflight.Group
}

// New creates an empty catalog.
func New(opts Options) *Catalog {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Catalog{
		opts:    opts,
		logger:  logger,
		entries: make(map[string]*Entry),
	}
}

// Close drops every cached entry.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
	return nil
}

// Index returns the index of a loaded database. The index of an
// unavailable database is empty but present.
func (c *Catalog) Index(id string) (*schema.Index, bool) {
	e, ok := c.Entry(id)
	if !ok {
		return nil, false
	}
	return e.Index, true
}

// Entry returns the cached entry of id without loading it.
func (c *Catalog) Entry(id string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	return e, ok
}

// IDs returns the loaded db_ids, sorted.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Load returns the entry of id, reading the database on first use.
// Concurrent loads of the same id share one read. The only error is the
// context's; database failures are recorded on the entry.
func (c *Catalog) Load(ctx context.Context, id string) (*Entry, error) {
	if e, ok := c.Entry(id); ok {
		return e, nil
	}

	v, err, _ := c.loads.Do(id, func() (any, error) {
		if e, ok := c.Entry(id); ok {
			return e, nil
		}
		e := c.read(ctx, id)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[id] = e
		c.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Entry), nil
}

// Preload loads every distinct non-empty id concurrently.
func (c *Catalog) Preload(ctx context.Context, ids []string) error {
	distinct := slices.Clone(ids)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)
	distinct = slices.DeleteFunc(distinct, func(id string) bool { return id == "" })

	c.logger.Info("pre-loading schemas", slog.Int("databases", len(distinct)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for _, id := range distinct {
		g.Go(func() error {
			e, err := c.Load(gctx, id)
			if err != nil {
				return err
			}
			if e.Available {
				c.logger.Info("loaded schema", slog.String("db_id", id), slog.Int("columns", e.Index.Len()))
			} else {
				c.logger.Warn("no schema found", slog.String("db_id", id), slog.Any("error", e.Err))
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Catalog) read(ctx context.Context, id string) *Entry {
	snap, err := c.snapshot(ctx, id)
	if err != nil {
		return &Entry{ID: id, Index: schema.NewIndex(nil), Err: err}
	}
	return &Entry{ID: id, Snapshot: snap, Index: schema.NewIndex(snap), Available: true}
}

func (c *Catalog) snapshot(ctx context.Context, id string) (*schema.Snapshot, error) {
	cfg, err := c.opts.Locator.Config(id)
	if err != nil {
		return nil, err
	}

	adp, err := adapter.NewAdapter(cfg, c.logger)
	if err != nil {
		return nil, err
	}
	if err := adp.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", id, err)
	}
	defer func() { _ = adp.Close() }()

	snap, err := adp.Snapshot(ctx, adapter.SnapshotOptions{SampleValues: c.opts.SampleValues})
	if err != nil {
		return nil, fmt.Errorf("reading catalog of %s: %w", id, err)
	}
	snap.Database = id

	if c.opts.Descriptions && cfg.Type == "sqlite" {
		descs, err := schema.LoadDescriptions(c.opts.Locator.DescriptionDir(id))
		if err != nil {
			c.logger.Warn("some column descriptions could not be read", slog.String("db_id", id), slog.Any("error", err))
		}
		snap.ApplyDescriptions(descs)
	}
	return snap, nil
}

// IsNotFound reports whether the entry is unavailable because its
// database does not exist.
func (e *Entry) IsNotFound() bool {
	return e != nil && errors.Is(e.Err, ErrDatabaseNotFound)
}
