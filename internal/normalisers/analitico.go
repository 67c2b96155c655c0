package normalisers

import (
	"context"
	"encoding/json"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
)

// Ensure Analitico implements the interface.
var _ driven.Normaliser = (*Analitico)(nil)

// Analitico normalises the itemized sales report.
type Analitico struct{}

// NewAnalitico creates the itemized sales normaliser.
func NewAnalitico() *Analitico {
	return &Analitico{}
}

// Category returns the report category this normaliser handles.
func (n *Analitico) Category() domain.Category {
	return domain.CategoryAnalitico
}

// analiticoRow mirrors one provider row. Every field is optional on the
// wire; required fields are checked after decode.
type analiticoRow struct {
	TransactionID *string  `json:"num_transacao"`
	LineID        *float64 `json:"num_linha"`
	ProductCode   *string  `json:"cod_produto"`
	ProductName   *string  `json:"produto"`
	GroupName     *string  `json:"grupo"`
	Quantity      *float64 `json:"qtde"`
	UnitPrice     *float64 `json:"vr_unitario"`
	GrossTotal    *float64 `json:"vr_bruto"`
	Discount      *float64 `json:"vr_desconto"`
	NetTotal      *float64 `json:"vr_liquido"`
}

// Normalise maps the payload into SaleItem rows.
func (n *Analitico) Normalise(_ context.Context, raw *domain.RawReport) (*driven.FactBatch, error) {
	rows, err := decodeRows(raw.Payload)
	if err != nil {
		return nil, err
	}

	batch := &driven.FactBatch{}
	for _, msg := range rows {
		var row analiticoRow
		if err := json.Unmarshal(msg, &row); err != nil {
			batch.Skipped++
			continue
		}
		// Transaction and line identity are the upsert key; a row without
		// them cannot be stored idempotently.
		if row.TransactionID == nil || row.LineID == nil {
			batch.Skipped++
			continue
		}

		batch.SaleItems = append(batch.SaleItems, domain.SaleItem{
			BarID:         raw.BarID,
			TransactionID: *row.TransactionID,
			LineID:        int(*row.LineID),
			ProductCode:   str(row.ProductCode, ""),
			ProductName:   str(row.ProductName, "unknown"),
			GroupName:     str(row.GroupName, ""),
			Quantity:      num(row.Quantity, 0),
			UnitPrice:     num(row.UnitPrice, 0),
			GrossTotal:    num(row.GrossTotal, 0),
			Discount:      num(row.Discount, 0),
			NetTotal:      num(row.NetTotal, 0),
			ReportDate:    raw.ReportDate,
		})
	}

	return batch, nil
}
