package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
	"github.com/tapsight-labs/possync/internal/core/ports/driving"
	"github.com/tapsight-labs/possync/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.Orchestrator = (*Orchestrator)(nil)

// Orchestrator drives one bar's synchronisation runs.
//
// Collection is strictly sequential — the provider's session and rate
// limits are shared per-account state that parallel requests would trip —
// with a randomized delay between provider calls. Per-category failures
// are recorded and never stop the remaining categories; only a failed
// login aborts a run.
type Orchestrator struct {
	accounts  map[string]domain.ProviderAccount
	provider  driven.ProviderClient
	rawStore  driven.RawStore
	delay     driven.DelayPolicy
	collector *Collector
	processor *Processor
	planner   *Planner
}

// NewOrchestrator creates an orchestrator over the given ports.
// The accounts map keys bars by id; delay paces provider requests.
func NewOrchestrator(
	accounts map[string]domain.ProviderAccount,
	provider driven.ProviderClient,
	rawStore driven.RawStore,
	factStore driven.FactStore,
	registry driven.NormaliserRegistry,
	delay driven.DelayPolicy,
) *Orchestrator {
	return &Orchestrator{
		accounts:  accounts,
		provider:  provider,
		rawStore:  rawStore,
		delay:     delay,
		collector: NewCollector(provider, rawStore),
		processor: NewProcessor(rawStore, factStore, registry),
		planner:   NewPlanner(factStore),
	}
}

// Planner exposes the backfill planner built over the same fact store.
func (o *Orchestrator) Planner() driving.Planner {
	return o.planner
}

// RunDay collects then processes one business date.
func (o *Orchestrator) RunDay(
	ctx context.Context,
	barID string,
	date domain.Date,
	categories []domain.Category,
) (*domain.RunResult, error) {
	session, account, err := o.login(ctx, barID)
	if err != nil {
		return nil, err
	}

	if len(categories) == 0 {
		categories = domain.AllCategories
	}

	result := o.runDay(ctx, session, account.BarID, date, categories, false)
	return result, nil
}

// login resolves the account and authenticates. Any failure here is fatal
// to the run: no phases are attempted without a session.
func (o *Orchestrator) login(ctx context.Context, barID string) (domain.Session, domain.ProviderAccount, error) {
	account, ok := o.accounts[barID]
	if !ok {
		return domain.Session{}, account, fmt.Errorf("%w: %q", domain.ErrUnknownBar, barID)
	}
	if err := account.Validate(); err != nil {
		return domain.Session{}, account, err
	}

	session, err := o.provider.Login(ctx, account)
	if err != nil {
		return domain.Session{}, account, fmt.Errorf("login bar %s: %w", barID, err)
	}

	logger.Info("Authenticated bar %s", barID)
	return session, account, nil
}

// collected ties a category to its raw record for the processing phase.
type collected struct {
	category  domain.Category
	rawID     string
	processed bool
}

// runDay executes the collection and processing phases for one date using
// an established session. With deferProcessing the processing phase is
// left empty; the caller settles it later over the whole range.
func (o *Orchestrator) runDay(
	ctx context.Context,
	session domain.Session,
	barID string,
	date domain.Date,
	categories []domain.Category,
	deferProcessing bool,
) *domain.RunResult {
	result := &domain.RunResult{
		RunID: ulid.Make().String(),
		BarID: barID,
		Date:  date,
	}

	pending := o.collectPhase(ctx, session, date, categories, result)

	if !deferProcessing {
		o.processPhase(ctx, pending, result)
	}

	return result
}

// collectPhase runs the sequential collection loop and returns the raw
// records available for processing.
func (o *Orchestrator) collectPhase(
	ctx context.Context,
	session domain.Session,
	date domain.Date,
	categories []domain.Category,
	result *domain.RunResult,
) []collected {
	start := time.Now()
	var pending []collected
	requested := 0

	for _, category := range categories {
		// Existence short-circuit: a stored record means this pair was
		// already fetched in a previous invocation; never re-fetch it.
		existing, err := o.rawStore.FindRaw(ctx, result.BarID, category, date)
		switch {
		case err == nil:
			logger.Info("Skipping %s/%s for %s: raw report already stored", result.BarID, category, date)
			result.Skipped = append(result.Skipped, category)
			pending = append(pending, collected{category: category, rawID: existing.ID, processed: existing.Processed})
			continue
		case !errors.Is(err, domain.ErrNotFound):
			result.Collection.AddError(category, err)
			continue
		}

		// Pace actual provider requests, never before the first one.
		if requested > 0 {
			if err := o.delay.Wait(ctx); err != nil {
				result.Collection.AddError(category, err)
				continue
			}
		}
		requested++

		res, err := o.collector.Collect(ctx, session, result.BarID, category, date)
		if err != nil {
			logger.Warn("Collection failed for %s/%s on %s: %v", result.BarID, category, date, err)
			result.Collection.AddError(category, err)
			continue
		}

		result.Collection.AddSuccess(category, res.RecordCount)
		result.TotalCollected += res.RecordCount
		pending = append(pending, collected{category: category, rawID: res.RawID})
	}

	result.Collection.Duration = time.Since(start)
	return pending
}

// processPhase normalises every pending raw record, isolating failures
// per category. Records already processed in an earlier run are settled
// and not re-processed.
func (o *Orchestrator) processPhase(ctx context.Context, pending []collected, result *domain.RunResult) {
	start := time.Now()

	for _, item := range pending {
		if item.processed {
			continue
		}

		res, err := o.processor.Process(ctx, item.rawID)
		if err != nil {
			logger.Warn("Processing failed for %s/%s on %s: %v", result.BarID, item.category, result.Date, err)
			result.Processing.AddError(item.category, err)
			continue
		}

		result.Processing.AddSuccess(item.category, res.InsertedRecords)
		result.TotalProcessed += res.InsertedRecords
	}

	result.Processing.Duration = time.Since(start)
}
