package domain

import "time"

// SourceColibri identifies the Colibri POS provider.
// Raw reports are keyed by source so a second provider can coexist later.
const SourceColibri = "colibri"

// RawReport is an immutable stored copy of one category's payload for one
// business date, prior to normalisation. At most one record exists per
// (bar_id, category, report_date); the store enforces this with a
// conflict-ignore upsert so the first successful fetch for a date wins and
// re-collection is always a no-op.
type RawReport struct {
	// ID is the unique identifier for the record.
	ID string

	// Source identifies the POS provider that produced the payload.
	Source string

	// BarID identifies the venue (one provider account per bar).
	BarID string

	// Category is the report category.
	Category Category

	// ReportDate is the business date the payload covers.
	ReportDate Date

	// Payload is the provider response body, stored verbatim as JSON.
	Payload []byte

	// RecordCount is a best-effort count of rows in the payload
	// (list length when the payload is a list, else 1).
	RecordCount int

	// Processed flips to true once normalised rows are durably committed.
	// The record is retained afterwards as an audit trail.
	Processed bool

	// CreatedAt is when the record was first stored.
	CreatedAt time.Time
}
