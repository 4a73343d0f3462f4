package metrics_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/circuit-guard/internal/circuitbreaker"
	"github.com/angeloszaimis/circuit-guard/internal/metrics"
)

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		ctx       context.Context
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		log := slog.New(slog.NewTextHandler(os.Stdout, nil))
		collector = metrics.NewCollector(64, log)
		ctx, cancel = context.WithCancel(context.Background())
		collector.Start(ctx)
	})

	AfterEach(func() {
		cancel()
	})

	It("should aggregate observed call outcomes", func() {
		collector.CallSucceeded("api")
		collector.CallSucceeded("api")
		collector.CallFailed("api", errors.New("boom"))

		Eventually(func() int64 {
			return collector.Snapshot().Breakers["api"].Successes
		}).Should(Equal(int64(2)))
		Eventually(func() int64 {
			return collector.Snapshot().Breakers["api"].Failures
		}).Should(Equal(int64(1)))
	})

	It("should aggregate observed state changes", func() {
		collector.StateChanged("db", circuitbreaker.StateClosed, circuitbreaker.StateOpen)

		Eventually(func() circuitbreaker.State {
			return collector.Snapshot().Breakers["db"].CurrentState
		}).Should(Equal(circuitbreaker.StateOpen))
	})

	It("should collect events from a breaker it observes", func() {
		cb := circuitbreaker.New(circuitbreaker.Config{
			Name:             "watched",
			FailureThreshold: 2,
			RecoveryTimeout:  time.Second,
			Observers:        []circuitbreaker.Observer{collector},
		})

		cb.Execute(ctx, func(ctx context.Context) (any, error) {
			return nil, errors.New("boom")
		})
		cb.Execute(ctx, func(ctx context.Context) (any, error) {
			return nil, errors.New("boom")
		})

		Eventually(func() int64 {
			return collector.Snapshot().Breakers["watched"].Failures
		}).Should(Equal(int64(2)))
		Eventually(func() circuitbreaker.State {
			return collector.Snapshot().Breakers["watched"].CurrentState
		}).Should(Equal(circuitbreaker.StateOpen))
	})

	Describe("Handler", func() {
		It("should serve the snapshot as JSON", func() {
			collector.CallSucceeded("api")
			Eventually(func() int64 {
				return collector.Snapshot().Breakers["api"].Successes
			}).Should(Equal(int64(1)))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			collector.Handler()(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
			Expect(rec.Body.String()).To(ContainSubstring(`"api"`))
			Expect(rec.Body.String()).To(ContainSubstring(`"CLOSED"`))
		})
	})
})
