// Package metrics aggregates circuit breaker activity for observability.
//
// A Collector subscribes to breakers as an observer and forwards events
// through a buffered channel to a background goroutine, so bookkeeping
// never adds latency to a protected call. The aggregated snapshot is
// served as JSON via Handler.
package metrics
