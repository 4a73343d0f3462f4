package circuitbreaker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/circuit-guard/internal/circuitbreaker"
)

var _ = Describe("Registry", func() {
	var (
		registry *circuitbreaker.Registry
		clock    *fakeClock
		ctx      context.Context
	)

	newBreaker := func(name string) *circuitbreaker.CircuitBreaker {
		return circuitbreaker.New(circuitbreaker.Config{
			Name:             name,
			FailureThreshold: 2,
			RecoveryTimeout:  time.Second,
			Clock:            clock,
		})
	}

	BeforeEach(func() {
		ctx = context.Background()
		clock = newFakeClock()
		registry = circuitbreaker.NewRegistry()
	})

	Describe("Register and Get", func() {
		It("should return the registered breaker", func() {
			cb := newBreaker("api")
			registry.Register("api", cb)

			got, ok := registry.Get("api")
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(cb))
		})

		It("should not construct a default for unknown names", func() {
			_, ok := registry.Get("unknown")
			Expect(ok).To(BeFalse())
		})

		It("should replace an existing entry on re-register", func() {
			first := newBreaker("api")
			second := newBreaker("api")
			registry.Register("api", first)
			registry.Register("api", second)

			got, _ := registry.Get("api")
			Expect(got).To(BeIdenticalTo(second))
		})
	})

	Describe("Execute", func() {
		It("should delegate to the named breaker", func() {
			registry.Register("api", newBreaker("api"))

			result, err := registry.Execute(ctx, "api", succeedingOp)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal("ok"))
		})

		It("should fail with a not-found error for unknown names", func() {
			_, err := registry.Execute(ctx, "unknown", succeedingOp)
			Expect(errors.Is(err, circuitbreaker.ErrBreakerNotFound)).To(BeTrue())
		})

		It("should keep not-found distinct from an open rejection", func() {
			_, err := registry.Execute(ctx, "unknown", succeedingOp)
			Expect(circuitbreaker.IsOpen(err)).To(BeFalse())
		})

		It("should not touch other breakers on a failed lookup", func() {
			registry.Register("api", newBreaker("api"))
			registry.Execute(ctx, "unknown", succeedingOp)

			stats := registry.AllStats()
			Expect(stats["api"].TotalRequests).To(BeZero())
		})

		It("should surface an open rejection from the named breaker", func() {
			cb := newBreaker("db")
			registry.Register("db", cb)
			registry.Execute(ctx, "db", failingOp)
			registry.Execute(ctx, "db", failingOp)

			_, err := registry.Execute(ctx, "db", succeedingOp)
			Expect(circuitbreaker.IsOpen(err)).To(BeTrue())
		})
	})

	Describe("AllStats", func() {
		It("should aggregate stats keyed by name", func() {
			registry.Register("api", newBreaker("api"))
			registry.Register("db", newBreaker("db"))

			registry.Execute(ctx, "api", succeedingOp)
			registry.Execute(ctx, "db", failingOp)

			stats := registry.AllStats()
			Expect(stats).To(HaveLen(2))
			Expect(stats["api"].Successes).To(Equal(1))
			Expect(stats["db"].Failures).To(Equal(1))
		})
	})

	Describe("HealthStatus", func() {
		It("should report per-breaker health", func() {
			registry.Register("api", newBreaker("api"))
			registry.Register("db", newBreaker("db"))

			registry.Execute(ctx, "db", failingOp)
			registry.Execute(ctx, "db", failingOp)

			health := registry.HealthStatus()
			Expect(health["api"]).To(BeTrue())
			Expect(health["db"]).To(BeFalse())
		})
	})

	Describe("ResetAll", func() {
		It("should reset every registered breaker", func() {
			registry.Register("api", newBreaker("api"))
			registry.Register("db", newBreaker("db"))

			registry.Execute(ctx, "api", failingOp)
			registry.Execute(ctx, "api", failingOp)
			registry.Execute(ctx, "db", failingOp)

			registry.ResetAll()

			for name, stats := range registry.AllStats() {
				Expect(stats.State).To(Equal(circuitbreaker.StateClosed), name)
				Expect(stats.TotalRequests).To(BeZero(), name)
			}
		})
	})

	Describe("Concurrent access", func() {
		It("should handle concurrent registration and execution safely", func() {
			const goroutines = 50

			var wg sync.WaitGroup
			wg.Add(goroutines * 2)

			for i := 0; i < goroutines; i++ {
				name := fmt.Sprintf("dep-%d", i%5)
				go func(name string) {
					defer wg.Done()
					registry.Register(name, newBreaker(name))
				}(name)
				go func(name string) {
					defer wg.Done()
					registry.Execute(ctx, name, succeedingOp)
				}(name)
			}

			wg.Wait()
			Expect(registry.AllStats()).To(HaveLen(5))
		})
	})
})
