package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector implements Collector with Prometheus vectors
type PrometheusCollector struct {
	registry *prometheus.Registry

	transportCalls   *prometheus.CounterVec
	transportLatency *prometheus.HistogramVec

	storeOperations *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec
	circuitState    *prometheus.GaugeVec
	circuitOpens    *prometheus.CounterVec

	transfers       *prometheus.CounterVec
	transferAmounts prometheus.Histogram
	requestChanges  *prometheus.CounterVec

	eventDispatches *prometheus.CounterVec
	auditEvents     *prometheus.CounterVec
}

// NewPrometheusCollector creates a collector registered on its own registry
func NewPrometheusCollector(namespace string) (*PrometheusCollector, error) {
	pc := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
		transportCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transport_calls_total",
				Help:      "Simulated transport calls by method and outcome",
			},
			[]string{"method", "success"},
		),
		transportLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transport_call_duration_seconds",
				Help:      "Simulated transport call duration including injected delay",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 3, 5},
			},
			[]string{"method"},
		),
		storeOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Key-value store operations by backend, operation and outcome",
			},
			[]string{"backend", "operation", "success"},
		),
		storeLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_operation_duration_seconds",
				Help:      "Key-value store operation duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend", "operation"},
		),
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "store_circuit_state",
				Help:      "Circuit breaker state per backend (0=closed, 1=open, 2=half-open)",
			},
			[]string{"backend"},
		),
		circuitOpens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_circuit_opens_total",
				Help:      "Times the store circuit breaker opened",
			},
			[]string{"backend"},
		),
		transfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_total",
				Help:      "Processed transfers by outcome",
			},
			[]string{"outcome"},
		),
		transferAmounts: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transfer_amount",
				Help:      "Amounts of completed transfers",
				Buckets:   prometheus.ExponentialBuckets(1, 10, 7),
			},
		),
		requestChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "money_request_transitions_total",
				Help:      "Money request state transitions by resulting status",
			},
			[]string{"status"},
		),
		eventDispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_events_dispatched_total",
				Help:      "Ledger events handed to the event stream",
			},
			[]string{"type", "success"},
		),
		auditEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_events_total",
				Help:      "Ledger events handled by the auditor",
			},
			[]string{"type", "outcome"},
		),
	}

	collectors := []prometheus.Collector{
		pc.transportCalls,
		pc.transportLatency,
		pc.storeOperations,
		pc.storeLatency,
		pc.circuitState,
		pc.circuitOpens,
		pc.transfers,
		pc.transferAmounts,
		pc.requestChanges,
		pc.eventDispatches,
		pc.auditEvents,
	}
	for _, c := range collectors {
		if err := pc.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return pc, nil
}

// Handler serves the collector's registry in the Prometheus exposition format
func (pc *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(pc.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (pc *PrometheusCollector) Registry() *prometheus.Registry {
	return pc.registry
}

func (pc *PrometheusCollector) RecordTransportCall(method string, success bool, duration time.Duration) {
	pc.transportCalls.WithLabelValues(method, strconv.FormatBool(success)).Inc()
	pc.transportLatency.WithLabelValues(method).Observe(duration.Seconds())
}

func (pc *PrometheusCollector) RecordStoreOperation(backend, operation string, success bool, duration time.Duration) {
	pc.storeOperations.WithLabelValues(backend, operation, strconv.FormatBool(success)).Inc()
	pc.storeLatency.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

func (pc *PrometheusCollector) RecordCircuitState(backend string, state CircuitState) {
	pc.circuitState.WithLabelValues(backend).Set(float64(state))
	if state == CircuitOpen {
		pc.circuitOpens.WithLabelValues(backend).Inc()
	}
}

func (pc *PrometheusCollector) RecordTransfer(outcome string, amount float64) {
	pc.transfers.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		pc.transferAmounts.Observe(amount)
	}
}

func (pc *PrometheusCollector) RecordMoneyRequestTransition(status string) {
	pc.requestChanges.WithLabelValues(status).Inc()
}

func (pc *PrometheusCollector) RecordEventDispatch(eventType string, success bool) {
	pc.eventDispatches.WithLabelValues(eventType, strconv.FormatBool(success)).Inc()
}

func (pc *PrometheusCollector) RecordAuditEvent(eventType string, outcome string) {
	pc.auditEvents.WithLabelValues(eventType, outcome).Inc()
}
