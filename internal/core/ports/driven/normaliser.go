package driven

import (
	"context"

	"github.com/tapsight-labs/possync/internal/core/domain"
)

// Normaliser transforms one category's raw payload into fact rows.
// Implementations decode defensively: a missing or null source field takes
// a documented default, and a malformed row is skipped and counted, never
// aborting the rest of the batch.
type Normaliser interface {
	// Category returns the report category this normaliser handles.
	Category() domain.Category

	// Normalise maps a raw report payload into a fact batch.
	// The error return is reserved for payloads that are unreadable as a
	// whole (not valid JSON, wrong shape); row-level problems surface via
	// FactBatch.Skipped.
	Normalise(ctx context.Context, raw *domain.RawReport) (*FactBatch, error)
}

// NormaliserRegistry selects the normaliser for a category.
type NormaliserRegistry interface {
	// ForCategory returns the registered normaliser.
	// Returns domain.ErrInvalidInput if the category has none.
	ForCategory(category domain.Category) (Normaliser, error)
}

// FactBatch holds the normalised rows produced from one raw report.
// Exactly one slice is populated, matching the report's category.
type FactBatch struct {
	SaleItems     []domain.SaleItem
	Payments      []domain.Payment
	HourlyRevenue []domain.HourlyRevenue
	StaffShifts   []domain.StaffShift
	CoverCounts   []domain.CoverCount
	StockLevels   []domain.StockLevel

	// Skipped counts malformed rows dropped during normalisation.
	Skipped int
}

// Len returns the number of rows in the batch.
func (b *FactBatch) Len() int {
	return len(b.SaleItems) + len(b.Payments) + len(b.HourlyRevenue) +
		len(b.StaffShifts) + len(b.CoverCounts) + len(b.StockLevels)
}
