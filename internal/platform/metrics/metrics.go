// Package metrics defines the collector used by the ledger components and its
// Prometheus and no-op implementations.
package metrics

import (
	"time"
)

// Collector receives measurements from the ledger components
type Collector interface {
	// Simulated transport
	RecordTransportCall(method string, success bool, duration time.Duration)

	// Key-value store
	RecordStoreOperation(backend, operation string, success bool, duration time.Duration)
	RecordCircuitState(backend string, state CircuitState)

	// Ledger operations
	RecordTransfer(outcome string, amount float64)
	RecordMoneyRequestTransition(status string)

	// Event streaming
	RecordEventDispatch(eventType string, success bool)
	RecordAuditEvent(eventType string, outcome string)
}

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// String returns the string representation of the circuit state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Outcomes recorded for transfers and audited events
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
)

// NoOpCollector discards every measurement
type NoOpCollector struct{}

func (NoOpCollector) RecordTransportCall(method string, success bool, duration time.Duration) {}

func (NoOpCollector) RecordStoreOperation(backend, operation string, success bool, duration time.Duration) {
}

func (NoOpCollector) RecordCircuitState(backend string, state CircuitState) {}

func (NoOpCollector) RecordTransfer(outcome string, amount float64) {}

func (NoOpCollector) RecordMoneyRequestTransition(status string) {}

func (NoOpCollector) RecordEventDispatch(eventType string, success bool) {}

func (NoOpCollector) RecordAuditEvent(eventType string, outcome string) {}
