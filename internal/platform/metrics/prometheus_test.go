package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Collector = (*PrometheusCollector)(nil)
	_ Collector = NoOpCollector{}
)

func TestPrometheusCollector_Records(t *testing.T) {
	pc, err := NewPrometheusCollector("test_wallet")
	require.NoError(t, err)

	pc.RecordTransportCall("POST", true, 2*time.Second)
	pc.RecordTransportCall("POST", false, time.Second)
	pc.RecordTransportCall("GET", true, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(pc.transportCalls.WithLabelValues("POST", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pc.transportCalls.WithLabelValues("POST", "false")))

	pc.RecordStoreOperation("memory", "get", true, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(pc.storeOperations.WithLabelValues("memory", "get", "true")))

	pc.RecordCircuitState("redis", CircuitOpen)
	pc.RecordCircuitState("redis", CircuitHalfOpen)
	assert.Equal(t, 2.0, testutil.ToFloat64(pc.circuitState.WithLabelValues("redis")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pc.circuitOpens.WithLabelValues("redis")))

	pc.RecordTransfer(OutcomeSuccess, 5000)
	pc.RecordTransfer(OutcomeFailure, 10)
	assert.Equal(t, 1.0, testutil.ToFloat64(pc.transfers.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pc.transfers.WithLabelValues(OutcomeFailure)))

	pc.RecordMoneyRequestTransition("completed")
	pc.RecordEventDispatch("transfer.completed", true)
	pc.RecordAuditEvent("transfer.completed", OutcomeDuplicate)
	assert.Equal(t, 1.0, testutil.ToFloat64(pc.auditEvents.WithLabelValues("transfer.completed", OutcomeDuplicate)))
}

func TestPrometheusCollector_Handler(t *testing.T) {
	pc, err := NewPrometheusCollector("test_wallet")
	require.NoError(t, err)
	pc.RecordTransfer(OutcomeSuccess, 42)

	rec := httptest.NewRecorder()
	pc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "test_wallet_transfers_total"))
}

func TestCircuitState_String(t *testing.T) {
	assert.Equal(t, "closed", CircuitClosed.String())
	assert.Equal(t, "open", CircuitOpen.String())
	assert.Equal(t, "half-open", CircuitHalfOpen.String())
	assert.Equal(t, "unknown", CircuitState(9).String())
}
