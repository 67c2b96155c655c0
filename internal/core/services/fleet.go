package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
	"github.com/tapsight-labs/possync/internal/core/ports/driving"
	"github.com/tapsight-labs/possync/internal/logger"
)

// Fleet fans a single-date run out across every configured bar. Bars are
// independent provider accounts, so they run concurrently; within a bar the
// orchestrator still serialises every provider request.
type Fleet struct {
	orch     driving.Orchestrator
	bars     []string
	notifier driven.Notifier
	limit    int
}

// NewFleet creates a fleet runner over the given bar ids. A nil notifier
// disables summaries; limit caps concurrent bars (0 means all at once).
func NewFleet(orch driving.Orchestrator, bars []string, notifier driven.Notifier, limit int) *Fleet {
	sorted := make([]string, len(bars))
	copy(sorted, bars)
	sort.Strings(sorted)
	return &Fleet{orch: orch, bars: sorted, notifier: notifier, limit: limit}
}

// BarOutcome is one bar's result within a fleet run. Exactly one of Result
// or Err is set: Err means the bar's run failed before any phase started.
type BarOutcome struct {
	BarID  string
	Result *domain.RunResult
	Err    error
}

// SyncDay runs one business date for every bar and returns the per-bar
// outcomes in bar-id order. A bar's failure never affects its siblings;
// the returned error is only the context's, for cancellation.
func (f *Fleet) SyncDay(ctx context.Context, date domain.Date, categories []domain.Category) ([]BarOutcome, error) {
	outcomes := make([]BarOutcome, len(f.bars))

	g, gctx := errgroup.WithContext(ctx)
	if f.limit > 0 {
		g.SetLimit(f.limit)
	}

	var mu sync.Mutex
	for i, barID := range f.bars {
		i, barID := i, barID
		g.Go(func() error {
			result, err := f.orch.RunDay(gctx, barID, date, categories)
			mu.Lock()
			outcomes[i] = BarOutcome{BarID: barID, Result: result, Err: err}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}

	f.notify(ctx, date, outcomes)
	return outcomes, ctx.Err()
}

// notify sends a one-line-per-bar summary. Delivery failures are logged
// and dropped.
func (f *Fleet) notify(ctx context.Context, date domain.Date, outcomes []BarOutcome) {
	if f.notifier == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "possync %s:", date)
	for _, out := range outcomes {
		if out.Err != nil {
			fmt.Fprintf(&b, "\n%s: failed: %v", out.BarID, out.Err)
			continue
		}
		fmt.Fprintf(&b, "\n%s: %d collected, %d processed, %d errors",
			out.BarID, out.Result.TotalCollected, out.Result.TotalProcessed, out.Result.ErrorCount())
	}

	if err := f.notifier.Notify(ctx, b.String()); err != nil {
		logger.Warn("Notify failed: %v", err)
	}
}
