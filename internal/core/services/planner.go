package services

import (
	"context"
	"fmt"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
	"github.com/tapsight-labs/possync/internal/core/ports/driving"
)

// Ensure Planner implements the interface.
var _ driving.Planner = (*Planner)(nil)

// Planner computes backfill plans against the normalised store.
// Presence in the fact tables is the canonical "date is done" signal: a
// raw record that was never processed still counts as a gap, so strict
// backfill re-drives it through processing.
type Planner struct {
	factStore driven.FactStore
}

// NewPlanner creates a planner.
func NewPlanner(factStore driven.FactStore) *Planner {
	return &Planner{factStore: factStore}
}

// FindMissingDates returns every date in the inclusive [from, to] window
// lacking normalised rows for the category, sorted ascending so backfill
// proceeds chronologically and a partial run leaves a contiguous prefix.
// Gaps are tracked per category: another category's rows for a date do not
// make that date "done" here.
func (p *Planner) FindMissingDates(
	ctx context.Context,
	barID string,
	category domain.Category,
	from, to domain.Date,
) ([]domain.Date, error) {
	window, err := domain.DateRange(from, to)
	if err != nil {
		return nil, err
	}

	present, err := p.factStore.DistinctDates(ctx, barID, category, from, to)
	if err != nil {
		return nil, fmt.Errorf("query existing dates: %w", err)
	}

	done := make(map[domain.Date]struct{}, len(present))
	for _, d := range present {
		done[d] = struct{}{}
	}

	missing := make([]domain.Date, 0, len(window))
	for _, d := range window {
		if _, ok := done[d]; !ok {
			missing = append(missing, d)
		}
	}

	return missing, nil
}
