package connectivity

import (
	"sync"
	"time"

	"github.com/trimspace/backend/internal/apperrors"
	"go.uber.org/zap"
)

// State is the monitor's current view of backend reachability.
type State string

const (
	StateConnected State = "connected"
	StateDegraded  State = "degraded"
)

// Event is a transition published to subscribers.
type Event string

const (
	EventLost     Event = "lost"
	EventRestored Event = "restored"
)

const DefaultAutoClear = 5 * time.Second

// Monitor tracks a heuristic connectivity state from the classified errors of
// backend calls. It is a passive observer, not a network probe: a
// connectivity-class error flips it to degraded, any subsequent success (or a
// timed auto-clear) flips it back. Best-effort only.
type Monitor struct {
	mu        sync.Mutex
	state     State
	autoClear time.Duration
	clearTmr  *time.Timer
	subs      map[int]chan Event
	nextSub   int
	logger    *zap.Logger
}

// NewMonitor creates a Monitor in the connected state. autoClear <= 0 uses
// DefaultAutoClear.
func NewMonitor(autoClear time.Duration, logger *zap.Logger) *Monitor {
	if autoClear <= 0 {
		autoClear = DefaultAutoClear
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		state:     StateConnected,
		autoClear: autoClear,
		subs:      make(map[int]chan Event),
		logger:    logger,
	}
}

// Observe inspects a failed backend call. Only connectivity-class errors
// affect the state; terminal errors say nothing about reachability.
func (m *Monitor) Observe(err error) {
	if err == nil || apperrors.KindOf(err) != apperrors.KindConnectivity {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armAutoClearLocked()
	if m.state == StateDegraded {
		return
	}
	m.state = StateDegraded
	m.logger.Warn("backend connectivity lost", zap.Error(err))
	m.publishLocked(EventLost)
}

// ObserveSuccess records a successful backend call, restoring the connected
// state if it was degraded.
func (m *Monitor) ObserveSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restoreLocked("success")
}

// State returns the current connectivity state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsConnected reports whether the monitor currently believes the backend is
// reachable.
func (m *Monitor) IsConnected() bool {
	return m.State() == StateConnected
}

// Subscribe returns a channel of lost/restored transitions and a cancel
// function releasing it. Events are dropped, not blocked on, when a
// subscriber falls behind.
func (m *Monitor) Subscribe() (<-chan Event, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	ch := make(chan Event, 4)
	m.subs[id] = ch
	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
	}
}

func (m *Monitor) armAutoClearLocked() {
	if m.clearTmr != nil {
		m.clearTmr.Stop()
	}
	m.clearTmr = time.AfterFunc(m.autoClear, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.restoreLocked("auto-clear")
	})
}

func (m *Monitor) restoreLocked(reason string) {
	if m.clearTmr != nil {
		m.clearTmr.Stop()
		m.clearTmr = nil
	}
	if m.state == StateConnected {
		return
	}
	m.state = StateConnected
	m.logger.Info("backend connectivity restored", zap.String("reason", reason))
	m.publishLocked(EventRestored)
}

func (m *Monitor) publishLocked(ev Event) {
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
