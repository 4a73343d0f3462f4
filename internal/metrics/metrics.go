package metrics

import (
	"sync"
	"time"

	"github.com/angeloszaimis/circuit-guard/internal/circuitbreaker"
)

type Metrics struct {
	mutex          sync.RWMutex
	successes      map[string]int64
	failures       map[string]int64
	stateChanges   map[string]int64
	currentState   map[string]circuitbreaker.State
	lastTransition map[string]time.Time
	startTime      time.Time
}

type Snapshot struct {
	Uptime        time.Duration             `json:"uptime"`
	DroppedEvents int64                     `json:"dropped_events"`
	Breakers      map[string]BreakerMetrics `json:"breakers"`
}

type BreakerMetrics struct {
	Successes      int64                `json:"successes"`
	Failures       int64                `json:"failures"`
	StateChanges   int64                `json:"state_changes"`
	CurrentState   circuitbreaker.State `json:"current_state"`
	LastTransition time.Time            `json:"last_transition"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		successes:      make(map[string]int64),
		failures:       make(map[string]int64),
		stateChanges:   make(map[string]int64),
		currentState:   make(map[string]circuitbreaker.State),
		lastTransition: make(map[string]time.Time),
		startTime:      time.Now(),
	}
}

func (m *Metrics) RecordSuccess(breaker string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.successes[breaker]++
	m.touchLocked(breaker)
}

func (m *Metrics) RecordFailure(breaker string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.failures[breaker]++
	m.touchLocked(breaker)
}

func (m *Metrics) RecordStateChange(breaker string, to circuitbreaker.State, at time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.stateChanges[breaker]++
	m.currentState[breaker] = to
	m.lastTransition[breaker] = at
}

// touchLocked makes sure a breaker that has only seen call outcomes still
// shows up in the snapshot with its initial closed state.
func (m *Metrics) touchLocked(breaker string) {
	if _, ok := m.currentState[breaker]; !ok {
		m.currentState[breaker] = circuitbreaker.StateClosed
	}
}

func (m *Metrics) Snapshot(dropped int64) Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	breakers := make(map[string]BreakerMetrics, len(m.currentState))
	for name, state := range m.currentState {
		breakers[name] = BreakerMetrics{
			Successes:      m.successes[name],
			Failures:       m.failures[name],
			StateChanges:   m.stateChanges[name],
			CurrentState:   state,
			LastTransition: m.lastTransition[name],
		}
	}

	return Snapshot{
		Uptime:        time.Since(m.startTime),
		DroppedEvents: dropped,
		Breakers:      breakers,
	}
}
