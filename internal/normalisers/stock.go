package normalisers

import (
	"context"
	"encoding/json"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
)

// Ensure Stock implements the interface.
var _ driven.Normaliser = (*Stock)(nil)

// Stock normalises the product/stock status report.
type Stock struct{}

// NewStock creates the stock normaliser.
func NewStock() *Stock {
	return &Stock{}
}

// Category returns the report category this normaliser handles.
func (n *Stock) Category() domain.Category {
	return domain.CategoryStock
}

type stockRow struct {
	ProductCode *string  `json:"cod_produto"`
	ProductName *string  `json:"produto"`
	Unit        *string  `json:"unidade"`
	OnHand      *float64 `json:"saldo"`
	UnitCost    *float64 `json:"custo_unitario"`
}

// Normalise maps the payload into StockLevel rows.
func (n *Stock) Normalise(_ context.Context, raw *domain.RawReport) (*driven.FactBatch, error) {
	rows, err := decodeRows(raw.Payload)
	if err != nil {
		return nil, err
	}

	batch := &driven.FactBatch{}
	for _, msg := range rows {
		var row stockRow
		if err := json.Unmarshal(msg, &row); err != nil {
			batch.Skipped++
			continue
		}
		if row.ProductCode == nil {
			batch.Skipped++
			continue
		}

		batch.StockLevels = append(batch.StockLevels, domain.StockLevel{
			BarID:       raw.BarID,
			ReportDate:  raw.ReportDate,
			ProductCode: *row.ProductCode,
			ProductName: str(row.ProductName, "unknown"),
			Unit:        str(row.Unit, "un"),
			OnHand:      num(row.OnHand, 0),
			UnitCost:    num(row.UnitCost, 0),
		})
	}

	return batch, nil
}
