package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapsight-labs/possync/internal/adapters/driven/storage/memory"
	"github.com/tapsight-labs/possync/internal/core/domain"
)

func TestPlanner_FindMissingDates(t *testing.T) {
	factStore := memory.NewFactStore()
	ctx := context.Background()

	// Only 2025-02-01 has normalised sales rows.
	require.NoError(t, factStore.UpsertSaleItems(ctx, []domain.SaleItem{
		{BarID: "bar-1", TransactionID: "tx-1", LineID: 1, ReportDate: "2025-02-01"},
	}))

	planner := NewPlanner(factStore)
	missing, err := planner.FindMissingDates(ctx, "bar-1", domain.CategoryAnalitico, "2025-01-31", "2025-02-02")
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{"2025-01-31", "2025-02-02"}, missing)
}

func TestPlanner_FindMissingDates_PerCategory(t *testing.T) {
	factStore := memory.NewFactStore()
	ctx := context.Background()

	// Payments rows for a date do not make the sales report "done".
	require.NoError(t, factStore.UpsertPayments(ctx, []domain.Payment{
		{BarID: "bar-1", TransactionID: "tx-1", Sequence: 1, ReportDate: "2025-02-01"},
	}))

	planner := NewPlanner(factStore)
	missing, err := planner.FindMissingDates(ctx, "bar-1", domain.CategoryAnalitico, "2025-02-01", "2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{"2025-02-01"}, missing)
}

func TestPlanner_FindMissingDates_NothingMissing(t *testing.T) {
	factStore := memory.NewFactStore()
	ctx := context.Background()

	require.NoError(t, factStore.UpsertCoverCounts(ctx, []domain.CoverCount{
		{BarID: "bar-1", ReportDate: "2025-02-01", Period: "jantar", Covers: 40},
	}))

	planner := NewPlanner(factStore)
	missing, err := planner.FindMissingDates(ctx, "bar-1", domain.CategoryCovers, "2025-02-01", "2025-02-01")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestPlanner_FindMissingDates_InvalidWindow(t *testing.T) {
	planner := NewPlanner(memory.NewFactStore())

	_, err := planner.FindMissingDates(context.Background(), "bar-1", domain.CategoryAnalitico, "2025-02-02", "2025-02-01")
	assert.Error(t, err)
}
