package circuitbreaker_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/circuit-guard/internal/circuitbreaker"
)

var _ = Describe("Wrap", func() {
	var (
		cb    *circuitbreaker.CircuitBreaker
		clock *fakeClock
		ctx   context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		clock = newFakeClock()
		cb = circuitbreaker.New(circuitbreaker.Config{
			Name:             "wrapped",
			FailureThreshold: 1,
			RecoveryTimeout:  time.Second,
			Clock:            clock,
		})
	})

	Describe("Do", func() {
		It("should return the typed result", func() {
			n, err := circuitbreaker.Do(ctx, cb, func(ctx context.Context) (int, error) {
				return 42, nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(42))
		})

		It("should return the zero value alongside an error", func() {
			n, err := circuitbreaker.Do(ctx, cb, func(ctx context.Context) (int, error) {
				return 7, errBoom
			})
			Expect(err).To(MatchError(errBoom))
			Expect(n).To(BeZero())
		})
	})

	Describe("Wrap", func() {
		It("should protect every invocation of the lifted function", func() {
			invocations := 0
			fetch := circuitbreaker.Wrap(cb, func(ctx context.Context) (string, error) {
				invocations++
				return "", errBoom
			})

			_, err := fetch(ctx)
			Expect(err).To(MatchError(errBoom))
			Expect(cb.State()).To(Equal(circuitbreaker.StateOpen))

			_, err = fetch(ctx)
			Expect(circuitbreaker.IsOpen(err)).To(BeTrue())
			Expect(invocations).To(Equal(1))
		})

		It("should pass results through once the breaker recovers", func() {
			fetch := circuitbreaker.Wrap(cb, func(ctx context.Context) (string, error) {
				return "recovered", nil
			})

			cb.ForceState(circuitbreaker.StateOpen)
			clock.Advance(time.Second)

			value, err := fetch(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("recovered"))
			Expect(cb.State()).To(Equal(circuitbreaker.StateClosed))
		})
	})
})
