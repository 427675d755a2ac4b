package connectivity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trimspace/backend/internal/apperrors"
)

func connectivityErr() error {
	return apperrors.E(apperrors.KindConnectivity, "owners.list", errors.New("connection refused"))
}

func TestMonitor_StartsConnected(t *testing.T) {
	m := NewMonitor(time.Minute, nil)
	assert.Equal(t, StateConnected, m.State())
	assert.True(t, m.IsConnected())
}

func TestObserve_ConnectivityErrorDegrades(t *testing.T) {
	m := NewMonitor(time.Minute, nil)
	m.Observe(connectivityErr())
	assert.Equal(t, StateDegraded, m.State())
	assert.False(t, m.IsConnected())
}

func TestObserve_TerminalErrorIgnored(t *testing.T) {
	m := NewMonitor(time.Minute, nil)
	m.Observe(apperrors.Validationf("ledger.toggle", "missing post id"))
	m.Observe(errors.New("schema violation"))
	assert.Equal(t, StateConnected, m.State())
}

func TestObserve_NilIgnored(t *testing.T) {
	m := NewMonitor(time.Minute, nil)
	m.Observe(nil)
	assert.Equal(t, StateConnected, m.State())
}

func TestObserveSuccess_Restores(t *testing.T) {
	m := NewMonitor(time.Minute, nil)
	m.Observe(connectivityErr())
	require.Equal(t, StateDegraded, m.State())

	m.ObserveSuccess()
	assert.Equal(t, StateConnected, m.State())
}

func TestAutoClear_RestoresWithoutSuccess(t *testing.T) {
	m := NewMonitor(20*time.Millisecond, nil)
	m.Observe(connectivityErr())
	require.Equal(t, StateDegraded, m.State())

	assert.Eventually(t, m.IsConnected, time.Second, 5*time.Millisecond)
}

func TestSubscribe_PublishesTransitions(t *testing.T) {
	m := NewMonitor(time.Minute, nil)
	events, cancel := m.Subscribe()
	defer cancel()

	m.Observe(connectivityErr())
	// A second error while degraded must not publish again.
	m.Observe(connectivityErr())
	m.ObserveSuccess()

	assert.Equal(t, EventLost, <-events)
	assert.Equal(t, EventRestored, <-events)
	select {
	case ev := <-events:
		t.Fatalf("unexpected extra event %q", ev)
	default:
	}
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	m := NewMonitor(time.Minute, nil)
	events, cancel := m.Subscribe()
	cancel()
	_, open := <-events
	assert.False(t, open)
}
