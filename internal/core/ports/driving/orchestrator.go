package driving

import (
	"context"

	"github.com/tapsight-labs/possync/internal/core/domain"
)

// Orchestrator drives POS synchronisation runs.
// Runs are idempotent: re-invoking the same date or range is always safe
// because every write is an upsert on natural identity, so the trigger
// surface is free to "retry" simply by calling again.
type Orchestrator interface {
	// RunDay collects then processes one business date across the given
	// categories (nil means all). Collection is strictly sequential with
	// randomized inter-request delays. A fatal auth failure returns an
	// error with no phases attempted; per-category failures are recorded
	// in the result and never abort the run.
	RunDay(ctx context.Context, barID string, date domain.Date, categories []domain.Category) (*domain.RunResult, error)

	// RunRange backfills the inclusive [from, to] window. With opts.PlanFirst
	// the backfill planner skips dates whose normalised rows already exist.
	RunRange(ctx context.Context, barID string, from, to domain.Date, categories []domain.Category, opts RangeOptions) (*domain.BackfillResult, error)
}

// RangeOptions tunes a range run.
type RangeOptions struct {
	// PlanFirst consults the backfill planner and skips dates already
	// normalised for every requested category.
	PlanFirst bool

	// DeferProcessing collects the whole range first and runs processing
	// once at the end instead of per day.
	DeferProcessing bool
}

// Planner computes backfill plans.
type Planner interface {
	// FindMissingDates returns every date in the inclusive window lacking
	// normalised rows for the category, sorted ascending.
	FindMissingDates(ctx context.Context, barID string, category domain.Category, from, to domain.Date) ([]domain.Date, error)
}

// Scheduler manages background tasks like the recurring POS sync.
type Scheduler interface {
	// Start begins running scheduled tasks.
	// Blocks until context is cancelled or an error occurs.
	Start(ctx context.Context) error

	// Stop gracefully stops all running tasks.
	Stop() error
}
