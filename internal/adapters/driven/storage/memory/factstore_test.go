package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapsight-labs/possync/internal/core/domain"
)

func TestFactStore_UpsertSaleItems_ReplacesOnNaturalKey(t *testing.T) {
	store := NewFactStore()
	ctx := context.Background()

	err := store.UpsertSaleItems(ctx, []domain.SaleItem{
		{BarID: "bar-1", TransactionID: "tx-1", LineID: 1, ProductName: "Caipirinha", NetTotal: 28, ReportDate: "2025-02-01"},
	})
	require.NoError(t, err)

	// Re-processing yields the same key with corrected values.
	err = store.UpsertSaleItems(ctx, []domain.SaleItem{
		{BarID: "bar-1", TransactionID: "tx-1", LineID: 1, ProductName: "Caipirinha", NetTotal: 25, ReportDate: "2025-02-01"},
	})
	require.NoError(t, err)

	require.Len(t, store.saleItems, 1)
	for _, row := range store.saleItems {
		assert.Equal(t, 25.0, row.NetTotal)
	}
}

func TestFactStore_DistinctDates_FiltersWindowAndBar(t *testing.T) {
	store := NewFactStore()
	ctx := context.Background()

	err := store.UpsertPayments(ctx, []domain.Payment{
		{BarID: "bar-1", TransactionID: "tx-1", Sequence: 1, Method: "credito", Amount: 50, ReportDate: "2025-02-01"},
		{BarID: "bar-1", TransactionID: "tx-2", Sequence: 1, Method: "pix", Amount: 30, ReportDate: "2025-02-03"},
		{BarID: "bar-1", TransactionID: "tx-3", Sequence: 1, Method: "dinheiro", Amount: 20, ReportDate: "2025-01-15"},
		{BarID: "bar-2", TransactionID: "tx-4", Sequence: 1, Method: "credito", Amount: 10, ReportDate: "2025-02-02"},
	})
	require.NoError(t, err)

	dates, err := store.DistinctDates(ctx, "bar-1", domain.CategoryPayments, "2025-02-01", "2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{"2025-02-01", "2025-02-03"}, dates)
}

func TestFactStore_DistinctDates_PerCategory(t *testing.T) {
	store := NewFactStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertHourlyRevenue(ctx, []domain.HourlyRevenue{
		{BarID: "bar-1", ReportDate: "2025-02-01", Hour: 20, Revenue: 1200},
	}))
	require.NoError(t, store.UpsertCoverCounts(ctx, []domain.CoverCount{
		{BarID: "bar-1", ReportDate: "2025-02-02", Period: "jantar", Covers: 80},
	}))

	hourly, err := store.DistinctDates(ctx, "bar-1", domain.CategoryHourly, "2025-02-01", "2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{"2025-02-01"}, hourly)

	covers, err := store.DistinctDates(ctx, "bar-1", domain.CategoryCovers, "2025-02-01", "2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{"2025-02-02"}, covers)

	// Raw-only categories have no normalised rows yet.
	stock, err := store.DistinctDates(ctx, "bar-1", domain.CategoryStock, "2025-02-01", "2025-02-28")
	require.NoError(t, err)
	assert.Empty(t, stock)
}

func TestFactStore_DistinctDates_UnknownCategory(t *testing.T) {
	store := NewFactStore()

	_, err := store.DistinctDates(context.Background(), "bar-1", domain.Category("nope"), "2025-02-01", "2025-02-28")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFactStore_UpsertStaffShifts_And_StockLevels(t *testing.T) {
	store := NewFactStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertStaffShifts(ctx, []domain.StaffShift{
		{BarID: "bar-1", EmployeeID: "emp-9", ReportDate: "2025-02-01", Shift: "noite", WorkedMinutes: 480},
		{BarID: "bar-1", EmployeeID: "emp-9", ReportDate: "2025-02-01", Shift: "noite", WorkedMinutes: 510},
	}))
	require.Len(t, store.staffShifts, 1)

	require.NoError(t, store.UpsertStockLevels(ctx, []domain.StockLevel{
		{BarID: "bar-1", ReportDate: "2025-02-01", ProductCode: "p-1", OnHand: 12},
		{BarID: "bar-1", ReportDate: "2025-02-01", ProductCode: "p-2", OnHand: 3},
	}))
	require.Len(t, store.stockLevels, 2)
}
