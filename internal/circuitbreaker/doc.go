// Package circuitbreaker implements the circuit breaker pattern for
// protecting calls to unreliable dependencies.
//
// A circuit breaker stops calls to a failing dependency for a cooldown
// period instead of letting every caller pay the cost of a doomed attempt.
// It has three states:
//
//   - CLOSED: Normal operation, calls pass through
//   - OPEN: Dependency failing, calls rejected immediately
//   - HALF-OPEN: Testing recovery with a single probe call
//
// Usage:
//
//	cb := circuitbreaker.NewForAPI("billing")
//	result, err := cb.Execute(ctx, func(ctx context.Context) (any, error) {
//	    return client.FetchInvoice(ctx, id)
//	})
//	if circuitbreaker.IsOpen(err) {
//	    // Rejected without attempting the call; fall back or retry later.
//	}
//
// Breakers for several dependencies can be grouped in a Registry and
// addressed by name:
//
//	registry := circuitbreaker.NewRegistry()
//	registry.Register("billing", cb)
//	result, err := registry.Execute(ctx, "billing", op)
package circuitbreaker
