package bench

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Harness sequences the eight trials: four categories, driver path then ORM
// path, strictly one at a time so no trial's load bleeds into another's
// timing.
type Harness struct {
	driver Factory
	orm    Factory
	opts   Options
	logger *slog.Logger
}

// New builds a harness over explicitly constructed path factories. Nothing is
// read from the environment here; connectivity arrives fully wired so the
// harness stays testable with stub paths.
func New(driver, orm Factory, opts Options, logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Harness{
		driver: driver,
		orm:    orm,
		opts:   opts,
		logger: logger,
	}
}

// Run executes all trials and assembles the comparison rows. It fails fast
// with no rows if either path cannot reach the database; after that point a
// database error only invalidates the category it happened in.
func (h *Harness) Run(ctx context.Context) (*Run, error) {
	for _, f := range []Factory{h.driver, h.orm} {
		if err := h.probe(ctx, f); err != nil {
			return nil, fmt.Errorf("%s connectivity, %w", f.Label, err)
		}
	}

	h.logger.Info("benchmark start",
		slog.Int("seed_rows", h.opts.SeedRows),
		slog.Int("ops", h.opts.Ops),
		slog.Int("workers", h.opts.Workers),
	)

	rows := make([]ComparisonRow, 0, 2*len(Categories()))
	for _, cat := range Categories() {
		driver := h.trial(ctx, h.driver, cat)
		orm := h.trial(ctx, h.orm, cat)

		rows = append(rows, compareTrials(cat, driver, orm)...)
	}

	return &Run{Opts: h.opts, Rows: rows}, nil
}

func (h *Harness) probe(ctx context.Context, f Factory) error {
	p, err := f.New(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	return p.Ping(ctx)
}

// trial runs one path through one category on a fresh pool. Setup (reset,
// seed) happens outside the timed window; only Do is measured, from dispatch
// to the last worker's exit.
func (h *Harness) trial(ctx context.Context, f Factory, cat Category) Trial {
	method := fmt.Sprintf("%s %s", f.Label, cat)

	fail := func(stage string, err error) Trial {
		h.logger.Warn("trial failed",
			slog.String("method", method),
			slog.String("stage", stage),
			slog.String("error", err.Error()),
		)
		return Trial{Method: method, Err: fmt.Errorf("%s, %w", stage, err)}
	}

	p, err := f.New(ctx)
	if err != nil {
		return fail("open path", err)
	}
	defer p.Close()

	if err := p.Reset(ctx); err != nil {
		return fail("reset", err)
	}
	if cat.needsSeed() && h.opts.SeedRows > 0 {
		if err := p.Seed(ctx, h.opts.SeedRows); err != nil {
			return fail("seed", err)
		}
	}

	start := time.Now()
	err = p.Do(ctx, cat, h.opts)
	elapsed := time.Since(start)

	// No operations dispatched, nothing to time.
	if h.opts.Ops <= 0 {
		elapsed = 0
	}

	if err != nil {
		return fail("run", err)
	}

	h.logger.Info("trial finished",
		slog.String("method", method),
		slog.Duration("duration", elapsed),
	)

	return Trial{Method: method, Duration: elapsed}
}
