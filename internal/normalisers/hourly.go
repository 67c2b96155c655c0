package normalisers

import (
	"context"
	"encoding/json"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
)

// Ensure Hourly implements the interface.
var _ driven.Normaliser = (*Hourly)(nil)

// Hourly normalises the revenue-by-hour report.
type Hourly struct{}

// NewHourly creates the hourly revenue normaliser.
func NewHourly() *Hourly {
	return &Hourly{}
}

// Category returns the report category this normaliser handles.
func (n *Hourly) Category() domain.Category {
	return domain.CategoryHourly
}

type hourlyRow struct {
	Hour       *float64 `json:"hora"`
	Revenue    *float64 `json:"faturamento"`
	OrderCount *float64 `json:"num_pedidos"`
}

// Normalise maps the payload into HourlyRevenue rows.
func (n *Hourly) Normalise(_ context.Context, raw *domain.RawReport) (*driven.FactBatch, error) {
	rows, err := decodeRows(raw.Payload)
	if err != nil {
		return nil, err
	}

	batch := &driven.FactBatch{}
	for _, msg := range rows {
		var row hourlyRow
		if err := json.Unmarshal(msg, &row); err != nil {
			batch.Skipped++
			continue
		}
		// Hour is the upsert key within the date.
		if row.Hour == nil || *row.Hour < 0 || *row.Hour > 23 {
			batch.Skipped++
			continue
		}

		batch.HourlyRevenue = append(batch.HourlyRevenue, domain.HourlyRevenue{
			BarID:      raw.BarID,
			ReportDate: raw.ReportDate,
			Hour:       int(*row.Hour),
			Revenue:    num(row.Revenue, 0),
			OrderCount: integer(row.OrderCount, 0),
		})
	}

	return batch, nil
}
