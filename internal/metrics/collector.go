package metrics

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/angeloszaimis/circuit-guard/internal/circuitbreaker"
)

type EventType string

const (
	EventStateChanged  EventType = "state_changed"
	EventCallSucceeded EventType = "call_succeeded"
	EventCallFailed    EventType = "call_failed"
)

type MetricEvent struct {
	Type      EventType
	Timestamp time.Time
	Breaker   string
	From      circuitbreaker.State
	To        circuitbreaker.State
}

// Collector aggregates breaker events on a background goroutine. It
// implements circuitbreaker.Observer, so it can be attached to any number
// of breakers; emission never blocks the breaker's call path.
type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	logger  *slog.Logger
	dropped atomic.Int64
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

// StateChanged implements circuitbreaker.Observer.
func (c *Collector) StateChanged(name string, from, to circuitbreaker.State) {
	c.emit(MetricEvent{
		Type:      EventStateChanged,
		Timestamp: time.Now(),
		Breaker:   name,
		From:      from,
		To:        to,
	})
}

// CallSucceeded implements circuitbreaker.Observer.
func (c *Collector) CallSucceeded(name string) {
	c.emit(MetricEvent{
		Type:      EventCallSucceeded,
		Timestamp: time.Now(),
		Breaker:   name,
	})
}

// CallFailed implements circuitbreaker.Observer.
func (c *Collector) CallFailed(name string, err error) {
	c.emit(MetricEvent{
		Type:      EventCallFailed,
		Timestamp: time.Now(),
		Breaker:   name,
	})
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot(c.dropped.Load())
}

func (c *Collector) emit(event MetricEvent) {
	select {
	case c.eventCh <- event:
	default:
		// Dropping is preferable to stalling a protected call.
		c.dropped.Add(1)
	}
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventStateChanged:
		c.metrics.RecordStateChange(event.Breaker, event.To, event.Timestamp)

	case EventCallSucceeded:
		c.metrics.RecordSuccess(event.Breaker)

	case EventCallFailed:
		c.metrics.RecordFailure(event.Breaker)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}
