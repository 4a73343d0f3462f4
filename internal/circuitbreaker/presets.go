package circuitbreaker

import "time"

// Option overrides a single preset default. Options are applied in order,
// so caller-supplied values win over the preset.
type Option func(*Config)

func WithFailureThreshold(n int) Option {
	return func(cfg *Config) {
		cfg.FailureThreshold = n
	}
}

func WithRecoveryTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.RecoveryTimeout = d
	}
}

func WithMonitoringPeriod(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.MonitoringPeriod = d
	}
}

func WithExpectedErrors(predicate func(error) bool) Option {
	return func(cfg *Config) {
		cfg.ExpectedErrors = predicate
	}
}

func WithObserver(o Observer) Option {
	return func(cfg *Config) {
		cfg.Observers = append(cfg.Observers, o)
	}
}

func WithClock(clock Clock) Option {
	return func(cfg *Config) {
		cfg.Clock = clock
	}
}

// NewForAPI builds a breaker tuned for a remote HTTP API: 4xx responses
// are the caller's fault and never trip the breaker.
func NewForAPI(name string, opts ...Option) *CircuitBreaker {
	cfg := Config{
		Name:             name,
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		ExpectedErrors:   IsClientError,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return New(cfg)
}

// NewForDatabase builds a breaker tuned for a database: it trips fast
// because database failures cascade quickly, and validation rejections
// are not counted against it.
func NewForDatabase(name string, opts ...Option) *CircuitBreaker {
	cfg := Config{
		Name:             name,
		FailureThreshold: 3,
		RecoveryTimeout:  60 * time.Second,
		ExpectedErrors:   IsValidation,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return New(cfg)
}

// NewForExternalService builds a breaker tuned for a flaky third-party
// service: more tolerant of transient failures, and rate-limit responses
// (HTTP 429) reflect caller behavior rather than service health.
func NewForExternalService(name string, opts ...Option) *CircuitBreaker {
	cfg := Config{
		Name:             name,
		FailureThreshold: 10,
		RecoveryTimeout:  120 * time.Second,
		ExpectedErrors:   IsRateLimited,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return New(cfg)
}
