package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driving"
)

func TestOrchestrator_RunRange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.orch.RunRange(ctx, "bar-1", "2025-02-01", "2025-02-03",
		[]domain.Category{domain.CategoryAnalitico}, driving.RangeOptions{})
	require.NoError(t, err)

	require.Len(t, result.Days, 3)
	assert.Equal(t, domain.Date("2025-02-01"), result.Days[0].Date)
	assert.Equal(t, domain.Date("2025-02-03"), result.Days[2].Date)
	assert.Empty(t, result.DaysSkipped)
	assert.Zero(t, result.ErrorCount())
	assert.NotEmpty(t, result.RunID)

	// One login for the whole range, one fetch per day.
	assert.Equal(t, 1, f.provider.loginCalls)
	assert.Equal(t, 3, f.provider.fetchCount())
}

func TestOrchestrator_RunRange_InvalidWindow(t *testing.T) {
	f := newFixture()

	_, err := f.orch.RunRange(context.Background(), "bar-1", "2025-02-03", "2025-02-01", nil, driving.RangeOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.provider.loginCalls)
}

func TestOrchestrator_RunRange_PlanFirstSkipsDoneDates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// 2025-02-02 already has normalised sales rows.
	require.NoError(t, f.factStore.UpsertSaleItems(ctx, []domain.SaleItem{
		{BarID: "bar-1", TransactionID: "tx-0", LineID: 1, ReportDate: "2025-02-02"},
	}))

	result, err := f.orch.RunRange(ctx, "bar-1", "2025-02-01", "2025-02-03",
		[]domain.Category{domain.CategoryAnalitico}, driving.RangeOptions{PlanFirst: true})
	require.NoError(t, err)

	assert.Equal(t, []domain.Date{"2025-02-02"}, result.DaysSkipped)
	require.Len(t, result.Days, 2)
	assert.Equal(t, domain.Date("2025-02-01"), result.Days[0].Date)
	assert.Equal(t, domain.Date("2025-02-03"), result.Days[1].Date)
	assert.Equal(t, 2, f.provider.fetchCount())
}

func TestOrchestrator_RunRange_PlanFirstPerCategory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Sales are done for the date; payments are not. Only payments should
	// be fetched.
	require.NoError(t, f.factStore.UpsertSaleItems(ctx, []domain.SaleItem{
		{BarID: "bar-1", TransactionID: "tx-0", LineID: 1, ReportDate: "2025-02-01"},
	}))

	result, err := f.orch.RunRange(ctx, "bar-1", "2025-02-01", "2025-02-01",
		[]domain.Category{domain.CategoryAnalitico, domain.CategoryPayments}, driving.RangeOptions{PlanFirst: true})
	require.NoError(t, err)

	require.Len(t, result.Days, 1)
	assert.Equal(t, []domain.Category{domain.CategoryPayments}, f.provider.fetchCalls)
}

func TestOrchestrator_RunRange_DelaysBetweenDays(t *testing.T) {
	f := newFixture()

	_, err := f.orch.RunRange(context.Background(), "bar-1", "2025-02-01", "2025-02-03",
		[]domain.Category{domain.CategoryHourly}, driving.RangeOptions{})
	require.NoError(t, err)

	// One request per day plus two inter-day pauses; never before the
	// first day.
	assert.Equal(t, 2, *f.delays)
}

func TestOrchestrator_RunRange_DeferProcessing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.orch.RunRange(ctx, "bar-1", "2025-02-01", "2025-02-02",
		[]domain.Category{domain.CategoryCovers}, driving.RangeOptions{DeferProcessing: true})
	require.NoError(t, err)

	require.Len(t, result.Days, 2)
	for _, day := range result.Days {
		assert.Len(t, day.Collection.Successes, 1)
		assert.Len(t, day.Processing.Successes, 1)
	}

	// Everything ended up processed despite the deferral.
	unprocessed, err := f.rawStore.ListUnprocessed(ctx, "bar-1")
	require.NoError(t, err)
	assert.Empty(t, unprocessed)
}

func TestOrchestrator_RunRange_LoginFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.provider.loginErr = domain.ErrNoSession

	result, err := f.orch.RunRange(context.Background(), "bar-1", "2025-02-01", "2025-02-03", nil, driving.RangeOptions{})
	assert.ErrorIs(t, err, domain.ErrNoSession)
	assert.Nil(t, result)
}
