package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapsight-labs/possync/internal/core/domain"
)

// mockNotifier captures delivered messages.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (m *mockNotifier) Notify(_ context.Context, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, message)
	return nil
}

func TestFleet_SyncDay_AllBars(t *testing.T) {
	runner := newMockDayRunner()
	fleet := NewFleet(runner, []string{"bar-2", "bar-1"}, nil, 0)

	outcomes, err := fleet.SyncDay(context.Background(), "2025-02-01", nil)
	require.NoError(t, err)

	// Outcomes come back in bar-id order regardless of input order.
	require.Len(t, outcomes, 2)
	assert.Equal(t, "bar-1", outcomes[0].BarID)
	assert.Equal(t, "bar-2", outcomes[1].BarID)
	assert.NoError(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)
}

func TestFleet_SyncDay_BarFailureIsIsolated(t *testing.T) {
	runner := newMockDayRunner()
	runner.runErr["bar-1"] = domain.ErrNoSession

	fleet := NewFleet(runner, []string{"bar-1", "bar-2"}, nil, 0)

	outcomes, err := fleet.SyncDay(context.Background(), "2025-02-01", nil)
	require.NoError(t, err)

	require.Len(t, outcomes, 2)
	assert.ErrorIs(t, outcomes[0].Err, domain.ErrNoSession)
	assert.NoError(t, outcomes[1].Err)
	assert.NotNil(t, outcomes[1].Result)
}

func TestFleet_SyncDay_Notifies(t *testing.T) {
	runner := newMockDayRunner()
	runner.runErr["bar-2"] = domain.ErrNoSession
	notifier := &mockNotifier{}

	fleet := NewFleet(runner, []string{"bar-1", "bar-2"}, notifier, 0)

	_, err := fleet.SyncDay(context.Background(), "2025-02-01", nil)
	require.NoError(t, err)

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "2025-02-01")
	assert.Contains(t, notifier.messages[0], "bar-1: 0 collected")
	assert.Contains(t, notifier.messages[0], "bar-2: failed")
}

func TestFleet_SyncDay_NotifierFailureIsDropped(t *testing.T) {
	runner := newMockDayRunner()
	notifier := &mockNotifier{err: context.DeadlineExceeded}

	fleet := NewFleet(runner, []string{"bar-1"}, notifier, 0)

	_, err := fleet.SyncDay(context.Background(), "2025-02-01", nil)
	assert.NoError(t, err)
}

func TestFleet_SyncDay_ConcurrencyLimit(t *testing.T) {
	runner := newMockDayRunner()
	fleet := NewFleet(runner, []string{"bar-1", "bar-2", "bar-3"}, nil, 1)

	outcomes, err := fleet.SyncDay(context.Background(), "2025-02-01", nil)
	require.NoError(t, err)
	assert.Len(t, outcomes, 3)
	assert.Equal(t, 3, runner.callCount())
}
