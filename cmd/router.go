package main

import (
	"encoding/json"
	"net/http"

	"github.com/angeloszaimis/circuit-guard/internal/circuitbreaker"
	"github.com/angeloszaimis/circuit-guard/internal/metrics"
)

func setupRouter(registry *circuitbreaker.Registry, collector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler(registry))
	mux.HandleFunc("/stats", statsHandler(registry))
	mux.HandleFunc("/metrics", collector.Handler())

	return mux
}

// healthHandler reports per-breaker health. The response is 503 when any
// breaker is not closed, so load balancers can steer away from an
// instance whose dependencies are failing.
func healthHandler(registry *circuitbreaker.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := registry.HealthStatus()

		status := http.StatusOK
		for _, healthy := range health {
			if !healthy {
				status = http.StatusServiceUnavailable
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(health)
	}
}

func statsHandler(registry *circuitbreaker.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(registry.AllStats()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
