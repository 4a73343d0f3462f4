package circuitbreaker

import (
	"context"
	"sync"
	"time"
)

type State int

const (
	StateClosed   State = iota // Normal operation
	StateOpen                  // Rejecting calls without attempting them
	StateHalfOpen              // Probing recovery with one call
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF-OPEN"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON encodes the state by name so stats endpoints stay readable.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Operation is the unit of work a breaker protects.
type Operation func(ctx context.Context) (any, error)

const (
	DefaultFailureThreshold = 5
	DefaultRecoveryTimeout  = 30 * time.Second
	DefaultMonitoringPeriod = 60 * time.Second
)

// Config configures a CircuitBreaker. Zero fields fall back to defaults.
type Config struct {
	// Name identifies the breaker in stats, errors and observer events.
	Name string

	// FailureThreshold is the failure count that trips the breaker open.
	FailureThreshold int

	// RecoveryTimeout is how long the breaker stays open before the next
	// call is admitted as a recovery probe.
	RecoveryTimeout time.Duration

	// MonitoringPeriod is accepted for forward compatibility with a
	// sliding-window policy. Counters are currently cumulative since
	// creation or the last Reset.
	MonitoringPeriod time.Duration

	// ExpectedErrors classifies errors that are not the dependency's
	// fault. Expected errors are still returned to the caller but never
	// count toward the failure threshold or change state.
	ExpectedErrors func(error) bool

	// Observers receive state changes and call outcomes.
	Observers []Observer

	// Clock is the time source. Tests inject a fake one.
	Clock Clock
}

// CircuitBreaker guards calls to a single unreliable dependency.
// Safe for concurrent use.
type CircuitBreaker struct {
	name             string
	failureThreshold int
	recoveryTimeout  time.Duration
	monitoringPeriod time.Duration
	expected         func(error) bool
	observers        []Observer
	clock            Clock

	mutex         sync.Mutex
	state         State
	failures      int
	successes     int
	totalRequests int64
	lastFailure   time.Time
	lastSuccess   time.Time
	nextAttempt   time.Time
}

func New(cfg Config) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultFailureThreshold
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = DefaultRecoveryTimeout
	}
	if cfg.MonitoringPeriod <= 0 {
		cfg.MonitoringPeriod = DefaultMonitoringPeriod
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}

	return &CircuitBreaker{
		name:             cfg.Name,
		failureThreshold: cfg.FailureThreshold,
		recoveryTimeout:  cfg.RecoveryTimeout,
		monitoringPeriod: cfg.MonitoringPeriod,
		expected:         cfg.ExpectedErrors,
		observers:        cfg.Observers,
		clock:            cfg.Clock,
		state:            StateClosed,
	}
}

// Execute runs op under the breaker's admission policy.
//
// While the breaker is open and the recovery timeout has not lapsed, op is
// never invoked and an *OpenError carrying a stats snapshot is returned.
// Otherwise op runs and its result or error is returned to the caller
// unchanged; the breaker only records the outcome.
func (cb *CircuitBreaker) Execute(ctx context.Context, op Operation) (any, error) {
	if err := cb.admit(); err != nil {
		return nil, err
	}

	result, err := op(ctx)
	if err != nil {
		cb.recordFailure(err)
		return nil, err
	}

	cb.recordSuccess()
	return result, nil
}

// admit decides whether the next call may proceed. The whole
// read-decide-mutate sequence holds the lock so two concurrent callers can
// never both claim the half-open probe slot.
func (cb *CircuitBreaker) admit() error {
	cb.mutex.Lock()
	cb.totalRequests++

	if cb.state == StateOpen {
		now := cb.clock.Now()
		if now.Before(cb.nextAttempt) {
			stats := cb.snapshotLocked(now)
			cb.mutex.Unlock()
			return &OpenError{Breaker: cb.name, Stats: stats}
		}

		cb.state = StateHalfOpen
		cb.mutex.Unlock()
		cb.notifyStateChange(StateOpen, StateHalfOpen)
		return nil
	}

	cb.mutex.Unlock()
	return nil
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mutex.Lock()
	cb.successes++
	cb.lastSuccess = cb.clock.Now()

	from := cb.state
	if cb.state == StateHalfOpen {
		cb.failures = 0
		cb.state = StateClosed
	}
	to := cb.state
	cb.mutex.Unlock()

	cb.notifySuccess()
	if from != to {
		cb.notifyStateChange(from, to)
	}
}

func (cb *CircuitBreaker) recordFailure(err error) {
	if cb.expected != nil && cb.expected(err) {
		return
	}

	cb.mutex.Lock()
	now := cb.clock.Now()
	cb.failures++
	cb.lastFailure = now

	from := cb.state
	if cb.state == StateHalfOpen || cb.failures >= cb.failureThreshold {
		cb.state = StateOpen
		cb.nextAttempt = now.Add(cb.recoveryTimeout)
	}
	to := cb.state
	cb.mutex.Unlock()

	cb.notifyFailure(err)
	if from != to {
		cb.notifyStateChange(from, to)
	}
}

func (cb *CircuitBreaker) Name() string {
	return cb.name
}

func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// IsHealthy reports whether the breaker is closed.
func (cb *CircuitBreaker) IsHealthy() bool {
	return cb.State() == StateClosed
}

// FailureRate returns failures as a percentage of total requests,
// or 0 when no request has been made yet.
func (cb *CircuitBreaker) FailureRate() float64 {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.failureRateLocked()
}

// Stats returns an immutable snapshot of the breaker's counters and state.
func (cb *CircuitBreaker) Stats() Stats {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.snapshotLocked(cb.clock.Now())
}

// Reset returns the breaker to its initial closed state with all counters
// and timestamps zeroed.
func (cb *CircuitBreaker) Reset() {
	cb.mutex.Lock()
	from := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
	cb.totalRequests = 0
	cb.lastFailure = time.Time{}
	cb.lastSuccess = time.Time{}
	cb.nextAttempt = time.Time{}
	cb.mutex.Unlock()

	if from != StateClosed {
		cb.notifyStateChange(from, StateClosed)
	}
}

// ForceState jumps directly to a state. Intended for test harnesses.
// Forcing open starts a fresh recovery window.
func (cb *CircuitBreaker) ForceState(state State) {
	cb.mutex.Lock()
	from := cb.state
	cb.state = state
	if state == StateOpen {
		cb.nextAttempt = cb.clock.Now().Add(cb.recoveryTimeout)
	}
	cb.mutex.Unlock()

	if from != state {
		cb.notifyStateChange(from, state)
	}
}

func (cb *CircuitBreaker) failureRateLocked() float64 {
	if cb.totalRequests == 0 {
		return 0
	}
	return float64(cb.failures) / float64(cb.totalRequests) * 100
}

func (cb *CircuitBreaker) snapshotLocked(now time.Time) Stats {
	var uptime time.Duration
	if !cb.lastSuccess.IsZero() {
		uptime = now.Sub(cb.lastSuccess)
	}

	return Stats{
		State:           cb.state,
		Failures:        cb.failures,
		Successes:       cb.successes,
		TotalRequests:   cb.totalRequests,
		LastFailureTime: cb.lastFailure,
		LastSuccessTime: cb.lastSuccess,
		Uptime:          uptime,
		FailureRate:     cb.failureRateLocked(),
	}
}

func (cb *CircuitBreaker) notifyStateChange(from, to State) {
	for _, o := range cb.observers {
		o.StateChanged(cb.name, from, to)
	}
}

func (cb *CircuitBreaker) notifySuccess() {
	for _, o := range cb.observers {
		o.CallSucceeded(cb.name)
	}
}

func (cb *CircuitBreaker) notifyFailure(err error) {
	for _, o := range cb.observers {
		o.CallFailed(cb.name, err)
	}
}
