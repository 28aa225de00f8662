package kvstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"github.com/wallet-ledger/internal/platform/metrics"
)

// BreakerSettings configures ResilientStore
type BreakerSettings struct {
	Timeout          time.Duration // Per-operation timeout, zero disables it
	MaxRequests      uint32        // Requests allowed through while half-open
	Interval         time.Duration // Closed-state window after which counts reset
	OpenTimeout      time.Duration // Open-state duration before probing again
	FailureThreshold uint32        // Consecutive failures that trip the breaker
}

// ResilientStore wraps a Store with an operation timeout, a circuit breaker and metrics
type ResilientStore struct {
	store   Store
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	metrics metrics.Collector
	logger  *slog.Logger
}

// NewResilientStore wraps store. A nil collector disables metrics.
func NewResilientStore(logger *slog.Logger, store Store, settings BreakerSettings, collector metrics.Collector) *ResilientStore {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	logger = logger.With("component", "kvstore", "backend", store.Name())

	rs := &ResilientStore{
		store:   store,
		timeout: settings.Timeout,
		metrics: collector,
		logger:  logger,
	}

	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	rs.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        store.Name(),
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A missing key is an answer and a cancelled caller says nothing about the backend
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrKeyNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())

			var state metrics.CircuitState
			switch to {
			case gobreaker.StateClosed:
				state = metrics.CircuitClosed
			case gobreaker.StateHalfOpen:
				state = metrics.CircuitHalfOpen
			case gobreaker.StateOpen:
				state = metrics.CircuitOpen
			}
			rs.metrics.RecordCircuitState(name, state)
		},
	})

	logger.Info("resilient store initialized",
		"timeout", settings.Timeout,
		"max_requests", settings.MaxRequests,
		"failure_threshold", threshold,
	)

	return rs
}

func (rs *ResilientStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := rs.execute(ctx, "get", key, func(ctx context.Context) error {
		var err error
		value, err = rs.store.Get(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (rs *ResilientStore) Set(ctx context.Context, key string, value []byte) error {
	return rs.execute(ctx, "set", key, func(ctx context.Context) error {
		return rs.store.Set(ctx, key, value)
	})
}

func (rs *ResilientStore) Remove(ctx context.Context, key string) error {
	return rs.execute(ctx, "remove", key, func(ctx context.Context) error {
		return rs.store.Remove(ctx, key)
	})
}

func (rs *ResilientStore) Clear(ctx context.Context) error {
	return rs.execute(ctx, "clear", "", func(ctx context.Context) error {
		return rs.store.Clear(ctx)
	})
}

func (rs *ResilientStore) Name() string { return rs.store.Name() }

func (rs *ResilientStore) Close() error { return rs.store.Close() }

// State returns the current breaker state
func (rs *ResilientStore) State() gobreaker.State {
	return rs.cb.State()
}

func (rs *ResilientStore) execute(ctx context.Context, op, key string, fn func(ctx context.Context) error) error {
	start := time.Now()

	if rs.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rs.timeout)
		defer cancel()
	}

	_, err := rs.cb.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})

	duration := time.Since(start)
	rs.metrics.RecordStoreOperation(rs.store.Name(), op, err == nil || errors.Is(err, ErrKeyNotFound), duration)

	switch {
	case err == nil, errors.Is(err, ErrKeyNotFound):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		rs.logger.Warn("circuit breaker open - request rejected", "operation", op, "key", key)
		return ErrCircuitOpen
	case errors.Is(err, context.Canceled):
		rs.logger.Debug("operation cancelled by caller", "operation", op, "key", key)
		return err
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		rs.logger.Warn("operation timeout", "operation", op, "key", key, "timeout", rs.timeout, "elapsed", duration)
		return ErrTimeout
	default:
		rs.logger.Error("store operation failed", "operation", op, "key", key, "duration", duration, "error", err)
		return err
	}
}
