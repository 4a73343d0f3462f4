package circuitbreaker

import (
	"context"
	"fmt"
	"sync"
)

// Registry is a name-indexed collection of independent circuit breakers.
// Construct one explicitly and pass it to whatever needs name-based lookup;
// there is no package-level instance.
type Registry struct {
	mutex    sync.RWMutex
	breakers map[string]*CircuitBreaker
}

func NewRegistry() *Registry {
	return &Registry{
		breakers: make(map[string]*CircuitBreaker),
	}
}

// Register inserts cb under name, replacing any previous entry.
func (r *Registry) Register(name string, cb *CircuitBreaker) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.breakers[name] = cb
}

// Get returns the breaker registered under name. It never constructs a
// default; unknown names report false.
func (r *Registry) Get(name string) (*CircuitBreaker, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	cb, ok := r.breakers[name]
	return cb, ok
}

// Execute runs op through the breaker registered under name. An unknown
// name fails with ErrBreakerNotFound, which is never an ErrOpen rejection.
func (r *Registry) Execute(ctx context.Context, name string, op Operation) (any, error) {
	cb, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrBreakerNotFound)
	}
	return cb.Execute(ctx, op)
}

// AllStats returns a snapshot per registered breaker, keyed by name.
func (r *Registry) AllStats() map[string]Stats {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stats := make(map[string]Stats, len(r.breakers))
	for name, cb := range r.breakers {
		stats[name] = cb.Stats()
	}
	return stats
}

// HealthStatus reports, per breaker, whether it is closed.
func (r *Registry) HealthStatus() map[string]bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	health := make(map[string]bool, len(r.breakers))
	for name, cb := range r.breakers {
		health[name] = cb.IsHealthy()
	}
	return health
}

// ResetAll resets every registered breaker to its initial closed state.
func (r *Registry) ResetAll() {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, cb := range r.breakers {
		cb.Reset()
	}
}
