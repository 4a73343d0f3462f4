package circuitbreaker

import "context"

// Do runs fn through cb and returns its typed result.
func Do[T any](ctx context.Context, cb *CircuitBreaker, fn func(context.Context) (T, error)) (T, error) {
	result, err := cb.Execute(ctx, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	value, _ := result.(T)
	return value, nil
}

// Wrap lifts fn into a function that is always executed through cb.
func Wrap[T any](cb *CircuitBreaker, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return Do(ctx, cb, fn)
	}
}
