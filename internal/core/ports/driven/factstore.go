package driven

import (
	"context"

	"github.com/tapsight-labs/possync/internal/core/domain"
)

// FactStore persists normalised fact rows.
// Every write is an upsert on the row's natural business key, so
// re-processing a raw report replaces its rows instead of duplicating them.
type FactStore interface {
	UpsertSaleItems(ctx context.Context, rows []domain.SaleItem) error
	UpsertPayments(ctx context.Context, rows []domain.Payment) error
	UpsertHourlyRevenue(ctx context.Context, rows []domain.HourlyRevenue) error
	UpsertStaffShifts(ctx context.Context, rows []domain.StaffShift) error
	UpsertCoverCounts(ctx context.Context, rows []domain.CoverCount) error
	UpsertStockLevels(ctx context.Context, rows []domain.StockLevel) error

	// DistinctDates returns the report dates that already have normalised
	// rows for the category within the inclusive [from, to] window, sorted
	// ascending. This is the canonical "is this date done" source for the
	// backfill planner: a raw report that was never processed still counts
	// as missing.
	DistinctDates(ctx context.Context, barID string, category domain.Category, from, to domain.Date) ([]domain.Date, error)
}
