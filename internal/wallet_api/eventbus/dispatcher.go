// Package eventbus publishes ledger events off the request path.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/platform/messaging/producers"
	"github.com/wallet-ledger/internal/platform/metrics"
)

// DefaultPublishTimeout bounds a single publish attempt
const DefaultPublishTimeout = 10 * time.Second

// Config tunes the dispatcher pool
type Config struct {
	PoolSize       int
	PublishTimeout time.Duration
}

// Dispatcher publishes events on an ants worker pool. A failed publish is forwarded to the
// dead-letter topic; neither outcome is reported back to the caller.
type Dispatcher struct {
	publisher producers.EventPublisher
	dlq       producers.DeadLetterPublisher
	pool      *ants.Pool
	metrics   metrics.Collector
	timeout   time.Duration
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a dispatcher. dlq and collector may be nil.
func NewDispatcher(logger *slog.Logger, publisher producers.EventPublisher, dlq producers.DeadLetterPublisher, collector metrics.Collector, cfg Config) (*Dispatcher, error) {
	pool, err := ants.NewPool(cfg.PoolSize)
	if err != nil {
		return nil, err
	}
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultPublishTimeout
	}

	return &Dispatcher{
		publisher: publisher,
		dlq:       dlq,
		pool:      pool,
		metrics:   collector,
		timeout:   cfg.PublishTimeout,
		logger:    logger.With("component", "event_dispatcher"),
	}, nil
}

// Dispatch builds the event and queues it for publishing. The request context only
// contributes its correlation id; publishing outlives the request.
func (d *Dispatcher) Dispatch(ctx context.Context, eventType shared.EventType, aggregateID string, payload interface{}) {
	event, err := shared.NewLedgerEvent(eventType, aggregateID, payload)
	if err != nil {
		d.logger.Error("Failed to build ledger event", "event_type", eventType, "aggregate_id", aggregateID, "error", err)
		d.metrics.RecordEventDispatch(string(eventType), false)
		return
	}
	event.CorrelationID = shared.CorrelationIDFrom(ctx)

	publishCtx := context.WithoutCancel(ctx)

	d.wg.Add(1)
	err = d.pool.Submit(func() {
		defer d.wg.Done()
		d.publish(publishCtx, event)
	})
	if err != nil {
		d.wg.Done()
		d.logger.Error("Failed to submit ledger event to worker pool",
			"event_id", event.EventID.String(),
			"event_type", eventType,
			"error", err,
		)
		d.deadLetter(publishCtx, event, err)
		d.metrics.RecordEventDispatch(string(eventType), false)
	}
}

func (d *Dispatcher) publish(ctx context.Context, event *shared.LedgerEvent) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	logger := d.logger.With("event_id", event.EventID.String(), "event_type", event.Type)
	if event.CorrelationID != "" {
		logger = logger.With("correlation_id", event.CorrelationID)
	}

	if err := d.publisher.PublishEvent(ctx, event); err != nil {
		logger.Error("Failed to publish ledger event", "error", err)
		d.deadLetter(ctx, event, err)
		d.metrics.RecordEventDispatch(string(event.Type), false)
		return
	}

	logger.Debug("Ledger event published", "aggregate_id", event.AggregateID)
	d.metrics.RecordEventDispatch(string(event.Type), true)
}

func (d *Dispatcher) deadLetter(ctx context.Context, event *shared.LedgerEvent, cause error) {
	if d.dlq == nil {
		return
	}
	value, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("Failed to marshal ledger event for DLQ", "event_id", event.EventID.String(), "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	err = d.dlq.PublishToDLQ(ctx, event.AggregateID, value, cause.Error())
	switch {
	case err == nil:
		d.logger.Warn("Ledger event sent to DLQ", "event_id", event.EventID.String(), "reason", cause.Error())
	case errors.Is(err, producers.ErrDLQDisabled):
		d.logger.Debug("DLQ disabled, ledger event dropped", "event_id", event.EventID.String())
	default:
		d.logger.Error("Failed to publish ledger event to DLQ", "event_id", event.EventID.String(), "error", err)
	}
}

// Shutdown waits for queued events, then releases the pool
func (d *Dispatcher) Shutdown() {
	d.logger.Info("Shutting down event dispatcher", "running_workers", d.pool.Running())
	d.wg.Wait()
	d.pool.Release()
}

// Running returns the number of running workers in the pool.
func (d *Dispatcher) Running() int {
	return d.pool.Running()
}

// NoopDispatcher drops every event; used when Kafka is disabled
type NoopDispatcher struct {
	logger *slog.Logger
}

// NewNoopDispatcher creates a dispatcher that only logs at debug level
func NewNoopDispatcher(logger *slog.Logger) *NoopDispatcher {
	return &NoopDispatcher{logger: logger.With("component", "event_dispatcher")}
}

func (d *NoopDispatcher) Dispatch(ctx context.Context, eventType shared.EventType, aggregateID string, payload interface{}) {
	d.logger.Debug("Event publishing disabled, dropping event", "event_type", eventType, "aggregate_id", aggregateID)
}
