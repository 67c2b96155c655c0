package normalisers

import (
	"context"
	"encoding/json"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
)

// Ensure Payments implements the interface.
var _ driven.Normaliser = (*Payments)(nil)

// Payments normalises the payments report.
type Payments struct{}

// NewPayments creates the payments normaliser.
func NewPayments() *Payments {
	return &Payments{}
}

// Category returns the report category this normaliser handles.
func (n *Payments) Category() domain.Category {
	return domain.CategoryPayments
}

type paymentRow struct {
	TransactionID *string  `json:"num_transacao"`
	Sequence      *float64 `json:"seq"`
	Method        *string  `json:"forma_pagamento"`
	Amount        *float64 `json:"valor"`
	Tip           *float64 `json:"gorjeta"`
}

// Normalise maps the payload into Payment rows.
func (n *Payments) Normalise(_ context.Context, raw *domain.RawReport) (*driven.FactBatch, error) {
	rows, err := decodeRows(raw.Payload)
	if err != nil {
		return nil, err
	}

	batch := &driven.FactBatch{}
	for _, msg := range rows {
		var row paymentRow
		if err := json.Unmarshal(msg, &row); err != nil {
			batch.Skipped++
			continue
		}
		if row.TransactionID == nil {
			batch.Skipped++
			continue
		}

		batch.Payments = append(batch.Payments, domain.Payment{
			BarID:         raw.BarID,
			TransactionID: *row.TransactionID,
			Sequence:      integer(row.Sequence, 1),
			Method:        str(row.Method, "unknown"),
			Amount:        num(row.Amount, 0),
			Tip:           num(row.Tip, 0),
			ReportDate:    raw.ReportDate,
		})
	}

	return batch, nil
}
