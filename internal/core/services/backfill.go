package services

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driving"
	"github.com/tapsight-labs/possync/internal/logger"
)

// RunRange backfills the inclusive [from, to] window for one bar.
//
// Login happens once; the session serves the whole range. Days run oldest
// first with an inter-day delay so a sustained backfill does not look like
// a burst to the provider. With opts.PlanFirst the planner drops dates
// whose fact rows already exist, per category, so re-invoking a partially
// finished backfill only touches what is still missing.
func (o *Orchestrator) RunRange(
	ctx context.Context,
	barID string,
	from, to domain.Date,
	categories []domain.Category,
	opts driving.RangeOptions,
) (*domain.BackfillResult, error) {
	days, err := domain.DateRange(from, to)
	if err != nil {
		return nil, err
	}

	session, account, err := o.login(ctx, barID)
	if err != nil {
		return nil, err
	}

	if len(categories) == 0 {
		categories = domain.AllCategories
	}

	result := &domain.BackfillResult{
		RunID: ulid.Make().String(),
		BarID: account.BarID,
		From:  from,
		To:    to,
	}
	start := time.Now()

	var missing map[domain.Category]map[domain.Date]bool
	if opts.PlanFirst {
		missing, err = o.plan(ctx, account.BarID, categories, from, to)
		if err != nil {
			return nil, err
		}
	}

	ranDay := false
	for _, day := range days {
		wanted := categories
		if opts.PlanFirst {
			wanted = filterMissing(categories, missing, day)
			if len(wanted) == 0 {
				result.DaysSkipped = append(result.DaysSkipped, day)
				continue
			}
		}

		// Inter-day pause, skipped before the first active day.
		if ranDay {
			if err := o.delay.Wait(ctx); err != nil {
				result.Duration = time.Since(start)
				return result, err
			}
		}
		ranDay = true

		logger.Info("Backfilling %s for %s (%d categories)", day, account.BarID, len(wanted))
		result.Days = append(result.Days, o.runDay(ctx, session, account.BarID, day, wanted, opts.DeferProcessing))
	}

	if opts.DeferProcessing {
		if err := o.settleDeferred(ctx, account.BarID, categories, from, to, result); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// plan computes the per-category missing-date sets for the window.
func (o *Orchestrator) plan(
	ctx context.Context,
	barID string,
	categories []domain.Category,
	from, to domain.Date,
) (map[domain.Category]map[domain.Date]bool, error) {
	missing := make(map[domain.Category]map[domain.Date]bool, len(categories))
	for _, category := range categories {
		dates, err := o.planner.FindMissingDates(ctx, barID, category, from, to)
		if err != nil {
			return nil, err
		}
		set := make(map[domain.Date]bool, len(dates))
		for _, d := range dates {
			set[d] = true
		}
		missing[category] = set
	}
	return missing, nil
}

// filterMissing keeps the categories still lacking rows for the day.
func filterMissing(
	categories []domain.Category,
	missing map[domain.Category]map[domain.Date]bool,
	day domain.Date,
) []domain.Category {
	var wanted []domain.Category
	for _, category := range categories {
		if missing[category][day] {
			wanted = append(wanted, category)
		}
	}
	return wanted
}

// settleDeferred runs the processing phase once over everything collected
// (now or earlier) and still unprocessed within the window, attaching each
// outcome to its day's result.
func (o *Orchestrator) settleDeferred(
	ctx context.Context,
	barID string,
	categories []domain.Category,
	from, to domain.Date,
	result *domain.BackfillResult,
) error {
	raws, err := o.rawStore.ListUnprocessed(ctx, barID)
	if err != nil {
		return err
	}

	wanted := make(map[domain.Category]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	byDate := make(map[domain.Date]*domain.RunResult, len(result.Days))
	for _, day := range result.Days {
		byDate[day.Date] = day
	}

	for _, raw := range raws {
		if !wanted[raw.Category] || raw.ReportDate.Before(from) || raw.ReportDate.After(to) {
			continue
		}

		day, ok := byDate[raw.ReportDate]
		if !ok {
			day = &domain.RunResult{RunID: ulid.Make().String(), BarID: barID, Date: raw.ReportDate}
			byDate[raw.ReportDate] = day
			result.Days = append(result.Days, day)
		}

		res, err := o.processor.Process(ctx, raw.ID)
		if err != nil {
			day.Processing.AddError(raw.Category, err)
			continue
		}
		day.Processing.AddSuccess(raw.Category, res.InsertedRecords)
		day.TotalProcessed += res.InsertedRecords
	}

	return nil
}
