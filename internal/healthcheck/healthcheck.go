package healthcheck

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/angeloszaimis/circuit-guard/internal/circuitbreaker"
)

// Probe periodically issues HTTP GET requests against a dependency's
// health endpoint through its circuit breaker. Failed probes feed the
// breaker's counters; while the breaker is open the probe itself is
// fast-failed, and once the recovery timeout lapses the next tick becomes
// the half-open recovery probe.
func Probe(
	ctx context.Context,
	cb *circuitbreaker.CircuitBreaker,
	healthURL string,
	interval time.Duration,
	logger *slog.Logger,
) {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Health probe stopped",
				slog.String("breaker", cb.Name()),
				slog.String("url", healthURL))
			return

		case <-ticker.C:
			_, err := cb.Execute(ctx, func(ctx context.Context) (any, error) {
				return nil, check(ctx, client, healthURL)
			})

			if circuitbreaker.IsOpen(err) {
				logger.Debug("Probe skipped, circuit open",
					slog.String("breaker", cb.Name()))
				continue
			}
			if err != nil {
				logger.Warn("Dependency unhealthy",
					slog.String("breaker", cb.Name()),
					slog.String("url", healthURL),
					slog.Any("err", err))
			}
		}
	}
}

// check maps non-2xx responses to *circuitbreaker.HTTPError so the
// breaker's expected-error predicate can classify them.
func check(ctx context.Context, client *http.Client, healthURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return err
	}

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &circuitbreaker.HTTPError{StatusCode: res.StatusCode}
	}

	return nil
}
