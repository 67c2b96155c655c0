package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapsight-labs/possync/internal/adapters/driven/storage/memory"
	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/normalisers"
)

func seedRaw(t *testing.T, rawStore *memory.RawStore, id string, category domain.Category, payload []byte) {
	t.Helper()
	_, _, err := rawStore.SaveRaw(context.Background(), domain.RawReport{
		ID:         id,
		Source:     domain.SourceColibri,
		BarID:      "bar-1",
		Category:   category,
		ReportDate: "2025-02-01",
		Payload:    payload,
	})
	require.NoError(t, err)
}

func TestProcessor_Process(t *testing.T) {
	rawStore := memory.NewRawStore()
	factStore := memory.NewFactStore()
	processor := NewProcessor(rawStore, factStore, normalisers.NewRegistry())
	ctx := context.Background()

	seedRaw(t, rawStore, "raw-1", domain.CategoryAnalitico, payloadFor(domain.CategoryAnalitico))

	res, err := processor.Process(ctx, "raw-1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.InsertedRecords)
	assert.Zero(t, res.SkippedRecords)

	// The raw record is flagged only after the rows are committed.
	raw, err := rawStore.GetRaw(ctx, "raw-1")
	require.NoError(t, err)
	assert.True(t, raw.Processed)

	dates, err := factStore.DistinctDates(ctx, "bar-1", domain.CategoryAnalitico, "2025-02-01", "2025-02-01")
	require.NoError(t, err)
	assert.Len(t, dates, 1)
}

func TestProcessor_Process_Reprocess(t *testing.T) {
	rawStore := memory.NewRawStore()
	factStore := memory.NewFactStore()
	processor := NewProcessor(rawStore, factStore, normalisers.NewRegistry())
	ctx := context.Background()

	seedRaw(t, rawStore, "raw-1", domain.CategoryPayments, payloadFor(domain.CategoryPayments))

	first, err := processor.Process(ctx, "raw-1")
	require.NoError(t, err)

	// Same record again: rows upsert onto the same keys.
	second, err := processor.Process(ctx, "raw-1")
	require.NoError(t, err)
	assert.Equal(t, first.InsertedRecords, second.InsertedRecords)

	dates, err := factStore.DistinctDates(ctx, "bar-1", domain.CategoryPayments, "2025-02-01", "2025-02-01")
	require.NoError(t, err)
	assert.Len(t, dates, 1)
}

func TestProcessor_Process_MalformedRowsSkipped(t *testing.T) {
	rawStore := memory.NewRawStore()
	factStore := memory.NewFactStore()
	processor := NewProcessor(rawStore, factStore, normalisers.NewRegistry())
	ctx := context.Background()

	payload := []byte(`[
		{"num_transacao":"tx-1","num_linha":1,"produto":"Chopp","qtde":2,"vr_liquido":30},
		{"produto":"sem transacao"},
		"not an object"
	]`)
	seedRaw(t, rawStore, "raw-1", domain.CategoryAnalitico, payload)

	res, err := processor.Process(ctx, "raw-1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.InsertedRecords)
	assert.Equal(t, 2, res.SkippedRecords)
	assert.Equal(t, 3, res.TotalRecords)
}

func TestProcessor_Process_UnknownRaw(t *testing.T) {
	processor := NewProcessor(memory.NewRawStore(), memory.NewFactStore(), normalisers.NewRegistry())

	_, err := processor.Process(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
