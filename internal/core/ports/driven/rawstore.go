package driven

import (
	"context"

	"github.com/tapsight-labs/possync/internal/core/domain"
)

// RawStore persists raw provider payloads.
// Writes are conflict-ignore upserts on (bar_id, category, report_date):
// the first successful fetch for a date wins and re-saving is a no-op, so
// callers can re-invoke collection at any time.
type RawStore interface {
	// SaveRaw stores a raw report. Returns the stored record: if a record
	// already existed for the key, the existing record is returned and
	// inserted is false.
	SaveRaw(ctx context.Context, report domain.RawReport) (stored *domain.RawReport, inserted bool, err error)

	// GetRaw retrieves a raw report by id.
	// Returns domain.ErrNotFound if the record does not exist.
	GetRaw(ctx context.Context, id string) (*domain.RawReport, error)

	// FindRaw retrieves the raw report stored for the key, if any.
	// Returns domain.ErrNotFound when no record exists. This backs the
	// orchestrator's existence short-circuit: an existing record skips
	// re-collection, and its id lets a resumed run finish processing.
	FindRaw(ctx context.Context, barID string, category domain.Category, date domain.Date) (*domain.RawReport, error)

	// MarkProcessed flips the processed flag after normalised rows are
	// durably committed.
	MarkProcessed(ctx context.Context, id string) error

	// ListUnprocessed returns raw reports not yet normalised for a bar,
	// oldest report date first.
	ListUnprocessed(ctx context.Context, barID string) ([]domain.RawReport, error)
}
