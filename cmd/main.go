package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angeloszaimis/circuit-guard/config"
	"github.com/angeloszaimis/circuit-guard/internal/circuitbreaker"
	"github.com/angeloszaimis/circuit-guard/internal/healthcheck"
	"github.com/angeloszaimis/circuit-guard/internal/httpserver"
	"github.com/angeloszaimis/circuit-guard/internal/metrics"
	"github.com/angeloszaimis/circuit-guard/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collector := metrics.NewCollector(256, log)
	collector.Start(ctx)

	registry, err := buildRegistry(cfg, log, collector)
	if err != nil {
		log.Error("Failed to build breaker registry", slog.Any("err", err))
		os.Exit(1)
	}

	startProbes(ctx, cfg, registry, log)

	mux := setupRouter(registry, collector)

	srv, err := httpserver.New(cfg.Server.Address, mux)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("circuit-guard started",
		slog.String("address", cfg.Server.Address),
		slog.Int("breakers", len(cfg.Breakers)))

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func buildRegistry(cfg *config.Config, log *slog.Logger, collector *metrics.Collector) (*circuitbreaker.Registry, error) {
	registry := circuitbreaker.NewRegistry()

	for _, bc := range cfg.Breakers {
		cb, err := buildBreaker(bc, collector, circuitbreaker.NewLogObserver(log))
		if err != nil {
			return nil, err
		}
		registry.Register(bc.Name, cb)

		log.Info("Registered circuit breaker",
			slog.String("name", bc.Name),
			slog.String("kind", bc.Kind))
	}

	return registry, nil
}

func buildBreaker(bc config.BreakerConfig, observers ...circuitbreaker.Observer) (*circuitbreaker.CircuitBreaker, error) {
	var opts []circuitbreaker.Option
	for _, o := range observers {
		opts = append(opts, circuitbreaker.WithObserver(o))
	}

	if bc.FailureThreshold > 0 {
		opts = append(opts, circuitbreaker.WithFailureThreshold(bc.FailureThreshold))
	}
	if bc.RecoveryTimeout != "" {
		d, err := time.ParseDuration(bc.RecoveryTimeout)
		if err != nil {
			return nil, fmt.Errorf("breaker %q: invalid recovery timeout: %w", bc.Name, err)
		}
		opts = append(opts, circuitbreaker.WithRecoveryTimeout(d))
	}
	if bc.MonitoringPeriod != "" {
		d, err := time.ParseDuration(bc.MonitoringPeriod)
		if err != nil {
			return nil, fmt.Errorf("breaker %q: invalid monitoring period: %w", bc.Name, err)
		}
		opts = append(opts, circuitbreaker.WithMonitoringPeriod(d))
	}

	switch bc.Kind {
	case config.KindAPI:
		return circuitbreaker.NewForAPI(bc.Name, opts...), nil
	case config.KindDatabase:
		return circuitbreaker.NewForDatabase(bc.Name, opts...), nil
	case config.KindExternal:
		return circuitbreaker.NewForExternalService(bc.Name, opts...), nil
	default:
		return nil, fmt.Errorf("breaker %q: unknown kind %q", bc.Name, bc.Kind)
	}
}

func startProbes(ctx context.Context, cfg *config.Config, registry *circuitbreaker.Registry, log *slog.Logger) {
	interval, err := time.ParseDuration(cfg.HealthCheck.Interval)
	if err != nil {
		interval = 10 * time.Second
	}

	for _, bc := range cfg.Breakers {
		if bc.HealthURL == "" {
			continue
		}

		cb, ok := registry.Get(bc.Name)
		if !ok {
			continue
		}

		go healthcheck.Probe(ctx, cb, bc.HealthURL, interval, log)

		log.Info("Started health probe",
			slog.String("name", bc.Name),
			slog.String("url", bc.HealthURL),
			slog.Duration("interval", interval))
	}
}
