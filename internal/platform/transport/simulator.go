// Package transport simulates the remote API the wallet would talk to: every call waits
// for an artificial delay and may fail at random. Endpoints are labels for logging only.
package transport

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/platform/metrics"
)

// Defaults applied when no configuration is given
const (
	DefaultDelay       = time.Second
	DefaultFailureRate = 0.05
)

// Response is the envelope returned by every simulated call. Data is always empty;
// the calling service fills in its own payload.
type Response = shared.Envelope[any]

// Options tunes a Simulator
type Options struct {
	Delay       time.Duration
	FailureRate float64
	// Rand returns a value in [0,1); nil uses math/rand/v2
	Rand func() float64
	// Sleep waits for d or until ctx is done; nil uses a timer
	Sleep func(ctx context.Context, d time.Duration) error
}

// CallOption overrides a single call
type CallOption func(*callOptions)

type callOptions struct {
	delay    time.Duration
	hasDelay bool
}

// WithDelay overrides the default delay for one call
func WithDelay(d time.Duration) CallOption {
	return func(o *callOptions) {
		o.delay = d
		o.hasDelay = true
	}
}

// Simulator is the fault-injecting stand-in for an HTTP client
type Simulator struct {
	logger      *slog.Logger
	metrics     metrics.Collector
	delay       time.Duration
	failureRate float64
	sleep       func(ctx context.Context, d time.Duration) error

	mu   sync.Mutex
	rand func() float64
}

// NewSimulator creates a simulator. A nil collector disables metrics.
func NewSimulator(logger *slog.Logger, opts Options, collector metrics.Collector) *Simulator {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	s := &Simulator{
		logger:      logger.With("component", "transport"),
		metrics:     collector,
		delay:       opts.Delay,
		failureRate: opts.FailureRate,
		sleep:       opts.Sleep,
		rand:        opts.Rand,
	}
	if s.sleep == nil {
		s.sleep = sleepContext
	}
	if s.rand == nil {
		s.rand = rand.Float64
	}
	return s
}

func (s *Simulator) Get(ctx context.Context, endpoint string, opts ...CallOption) Response {
	return s.Call(ctx, "GET", endpoint, nil, opts...)
}

func (s *Simulator) Post(ctx context.Context, endpoint string, body interface{}, opts ...CallOption) Response {
	return s.Call(ctx, "POST", endpoint, body, opts...)
}

func (s *Simulator) Put(ctx context.Context, endpoint string, body interface{}, opts ...CallOption) Response {
	return s.Call(ctx, "PUT", endpoint, body, opts...)
}

func (s *Simulator) Delete(ctx context.Context, endpoint string, opts ...CallOption) Response {
	return s.Call(ctx, "DELETE", endpoint, nil, opts...)
}

// Call waits for the delay, then succeeds or fails with the configured probability.
// The body is never inspected.
func (s *Simulator) Call(ctx context.Context, method, endpoint string, body interface{}, opts ...CallOption) Response {
	co := callOptions{delay: s.delay}
	for _, opt := range opts {
		opt(&co)
	}

	start := time.Now()
	s.logger.Debug("simulated call started", "method", method, "endpoint", endpoint, "delay", co.delay)

	if err := s.sleep(ctx, co.delay); err != nil {
		s.metrics.RecordTransportCall(method, false, time.Since(start))
		s.logger.Debug("simulated call aborted", "method", method, "endpoint", endpoint, "error", err)
		return shared.Fail[any](err)
	}

	if s.shouldFail() {
		s.metrics.RecordTransportCall(method, false, time.Since(start))
		s.logger.Warn("simulated network failure", "method", method, "endpoint", endpoint)
		return shared.Fail[any](shared.ErrTransportFault{Method: method, Endpoint: endpoint})
	}

	s.metrics.RecordTransportCall(method, true, time.Since(start))
	return shared.Empty[any]()
}

func (s *Simulator) shouldFail() bool {
	if s.failureRate <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand() < s.failureRate
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
