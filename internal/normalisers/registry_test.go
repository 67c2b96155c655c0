package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapsight-labs/possync/internal/core/domain"
)

func TestNewRegistry_CoversAllCategories(t *testing.T) {
	r := NewRegistry()

	for _, c := range domain.AllCategories {
		n, err := r.ForCategory(c)
		require.NoError(t, err, "category %s", c)
		assert.Equal(t, c, n.Category())
	}
}

func TestRegistry_UnknownCategory(t *testing.T) {
	r := NewRegistry()

	_, err := r.ForCategory(domain.Category("bogus"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPayments_Normalise(t *testing.T) {
	payload := `[
		{"num_transacao":"T1","seq":1,"forma_pagamento":"credito","valor":120.5,"gorjeta":12},
		{"num_transacao":"T2","valor":45},
		{"seq":3,"valor":9.9}
	]`

	batch, err := NewPayments().Normalise(context.Background(), rawReport(domain.CategoryPayments, payload))
	require.NoError(t, err)

	require.Len(t, batch.Payments, 2)
	assert.Equal(t, 1, batch.Skipped)

	assert.Equal(t, "credito", batch.Payments[0].Method)
	assert.InDelta(t, 12, batch.Payments[0].Tip, 0.001)

	// Defaults for absent fields.
	assert.Equal(t, 1, batch.Payments[1].Sequence)
	assert.Equal(t, "unknown", batch.Payments[1].Method)
}

func TestHourly_Normalise(t *testing.T) {
	payload := `[
		{"hora":18,"faturamento":830.5,"num_pedidos":41},
		{"hora":25,"faturamento":1},
		{"faturamento":99}
	]`

	batch, err := NewHourly().Normalise(context.Background(), rawReport(domain.CategoryHourly, payload))
	require.NoError(t, err)

	require.Len(t, batch.HourlyRevenue, 1)
	assert.Equal(t, 2, batch.Skipped)
	assert.Equal(t, 18, batch.HourlyRevenue[0].Hour)
	assert.Equal(t, 41, batch.HourlyRevenue[0].OrderCount)
}

func TestStaffTime_Normalise(t *testing.T) {
	payload := `[
		{"cod_funcionario":"F7","funcionario":"Ana","funcao":"bartender","turno":"noite","entrada":"18:00","saida":"02:00","minutos_trabalhados":480},
		{"funcionario":"sem id"}
	]`

	batch, err := NewStaffTime().Normalise(context.Background(), rawReport(domain.CategoryStaffTime, payload))
	require.NoError(t, err)

	require.Len(t, batch.StaffShifts, 1)
	assert.Equal(t, 1, batch.Skipped)
	assert.Equal(t, "F7", batch.StaffShifts[0].EmployeeID)
	assert.Equal(t, 480, batch.StaffShifts[0].WorkedMinutes)
}

func TestCovers_Normalise(t *testing.T) {
	payload := `[{"periodo":"jantar","couverts":120,"ticket_medio":87.3},{"couverts":15}]`

	batch, err := NewCovers().Normalise(context.Background(), rawReport(domain.CategoryCovers, payload))
	require.NoError(t, err)

	require.Len(t, batch.CoverCounts, 2)
	assert.Equal(t, "jantar", batch.CoverCounts[0].Period)
	assert.Equal(t, "all_day", batch.CoverCounts[1].Period)
}

func TestStock_Normalise(t *testing.T) {
	payload := `[
		{"cod_produto":"P10","produto":"IPA 500ml","unidade":"un","saldo":43,"custo_unitario":8.2},
		{"produto":"sem codigo"}
	]`

	batch, err := NewStock().Normalise(context.Background(), rawReport(domain.CategoryStock, payload))
	require.NoError(t, err)

	require.Len(t, batch.StockLevels, 1)
	assert.Equal(t, 1, batch.Skipped)
	assert.Equal(t, "P10", batch.StockLevels[0].ProductCode)
	assert.InDelta(t, 43, batch.StockLevels[0].OnHand, 0.001)
}
