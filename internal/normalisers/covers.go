package normalisers

import (
	"context"
	"encoding/json"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
)

// Ensure Covers implements the interface.
var _ driven.Normaliser = (*Covers)(nil)

// Covers normalises the covers (seated guests) report.
type Covers struct{}

// NewCovers creates the covers normaliser.
func NewCovers() *Covers {
	return &Covers{}
}

// Category returns the report category this normaliser handles.
func (n *Covers) Category() domain.Category {
	return domain.CategoryCovers
}

type coversRow struct {
	Period    *string  `json:"periodo"`
	Covers    *float64 `json:"couverts"`
	AvgTicket *float64 `json:"ticket_medio"`
}

// Normalise maps the payload into CoverCount rows.
func (n *Covers) Normalise(_ context.Context, raw *domain.RawReport) (*driven.FactBatch, error) {
	rows, err := decodeRows(raw.Payload)
	if err != nil {
		return nil, err
	}

	batch := &driven.FactBatch{}
	for _, msg := range rows {
		var row coversRow
		if err := json.Unmarshal(msg, &row); err != nil {
			batch.Skipped++
			continue
		}

		batch.CoverCounts = append(batch.CoverCounts, domain.CoverCount{
			BarID:      raw.BarID,
			ReportDate: raw.ReportDate,
			Period:     str(row.Period, "all_day"),
			Covers:     integer(row.Covers, 0),
			AvgTicket:  num(row.AvgTicket, 0),
		})
	}

	return batch, nil
}
