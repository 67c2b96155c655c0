package normalisers

import (
	"context"
	"encoding/json"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
)

// Ensure StaffTime implements the interface.
var _ driven.Normaliser = (*StaffTime)(nil)

// StaffTime normalises the staff clock-in/clock-out report.
type StaffTime struct{}

// NewStaffTime creates the staff time normaliser.
func NewStaffTime() *StaffTime {
	return &StaffTime{}
}

// Category returns the report category this normaliser handles.
func (n *StaffTime) Category() domain.Category {
	return domain.CategoryStaffTime
}

type staffRow struct {
	EmployeeID    *string  `json:"cod_funcionario"`
	EmployeeName  *string  `json:"funcionario"`
	Role          *string  `json:"funcao"`
	Shift         *string  `json:"turno"`
	ClockIn       *string  `json:"entrada"`
	ClockOut      *string  `json:"saida"`
	WorkedMinutes *float64 `json:"minutos_trabalhados"`
}

// Normalise maps the payload into StaffShift rows.
func (n *StaffTime) Normalise(_ context.Context, raw *domain.RawReport) (*driven.FactBatch, error) {
	rows, err := decodeRows(raw.Payload)
	if err != nil {
		return nil, err
	}

	batch := &driven.FactBatch{}
	for _, msg := range rows {
		var row staffRow
		if err := json.Unmarshal(msg, &row); err != nil {
			batch.Skipped++
			continue
		}
		if row.EmployeeID == nil {
			batch.Skipped++
			continue
		}

		batch.StaffShifts = append(batch.StaffShifts, domain.StaffShift{
			BarID:         raw.BarID,
			EmployeeID:    *row.EmployeeID,
			EmployeeName:  str(row.EmployeeName, "unknown"),
			Role:          str(row.Role, ""),
			ReportDate:    raw.ReportDate,
			Shift:         str(row.Shift, "default"),
			ClockIn:       str(row.ClockIn, ""),
			ClockOut:      str(row.ClockOut, ""),
			WorkedMinutes: integer(row.WorkedMinutes, 0),
		})
	}

	return batch, nil
}
