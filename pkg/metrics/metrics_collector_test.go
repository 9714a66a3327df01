package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector_Counters(t *testing.T) {
	m := NewMetricsCollector(prometheus.NewRegistry())

	m.RecordCheckout("book", "created")
	m.RecordCheckout("book", "created")
	m.RecordConfirmation("bank", "already_processed")
	m.RecordHTTPRequest("GET", "/health", 204, time.Millisecond, 0)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.checkoutsTotal.WithLabelValues("book", "created")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.confirmationsTotal.WithLabelValues("bank", "already_processed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/health", "2xx")))
}

func TestMetricsCollector_NilSafe(t *testing.T) {
	var m *MetricsCollector
	assert.NotPanics(t, func() {
		m.RecordCheckout("course", "failed")
		m.RecordCache("analytics", true)
		m.RecordEvent("payment.confirmed")
	})
}

func TestGetStatusCategory(t *testing.T) {
	cases := map[int]string{200: "2xx", 302: "3xx", 404: "4xx", 502: "5xx", 0: "unknown"}
	for status, want := range cases {
		assert.Equal(t, want, getStatusCategory(status))
	}
}
