package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "valid", input: "2025-02-01", want: "2025-02-01"},
		{name: "leap day", input: "2024-02-29", want: "2024-02-29"},
		{name: "invalid layout", input: "01/02/2025", wantErr: true},
		{name: "invalid day", input: "2025-02-30", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_Next(t *testing.T) {
	assert.Equal(t, Date("2025-02-01"), Date("2025-01-31").Next())
	assert.Equal(t, Date("2025-01-01"), Date("2024-12-31").Next())
	assert.Equal(t, Date("2024-02-29"), Date("2024-02-28").Next())
}

func TestDate_Ordering(t *testing.T) {
	assert.True(t, Date("2025-01-31").Before("2025-02-01"))
	assert.True(t, Date("2025-02-02").After("2025-02-01"))
	assert.False(t, Date("2025-02-01").Before("2025-02-01"))
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2025, 2, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, Date("2025-02-01"), DateOf(ts))
}

func TestDateRange(t *testing.T) {
	days, err := DateRange("2025-01-31", "2025-02-02")
	require.NoError(t, err)
	assert.Equal(t, []Date{"2025-01-31", "2025-02-01", "2025-02-02"}, days)
}

func TestDateRange_SingleDay(t *testing.T) {
	days, err := DateRange("2025-02-01", "2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, []Date{"2025-02-01"}, days)
}

func TestDateRange_Inverted(t *testing.T) {
	_, err := DateRange("2025-02-02", "2025-02-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
