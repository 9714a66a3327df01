package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
// 所有方法对 nil 接收者安全，便于单元测试不注入指标
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 缓存指标
	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	// 业务指标
	checkoutsTotal       *prometheus.CounterVec
	confirmationsTotal   *prometheus.CounterVec
	gatewayFailuresTotal *prometheus.CounterVec
	progressUpdatesTotal *prometheus.CounterVec
	commissionsTotal     *prometheus.CounterVec
	eventsPublishedTotal *prometheus.CounterVec
}

// NewMetricsCollector 创建指标收集器并注册到 reg
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(reg)
	return &MetricsCollector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		cacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_prefix"},
		),

		cacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_prefix"},
		),

		checkoutsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkouts_total",
				Help: "Checkout attempts by product type and result",
			},
			[]string{"product_type", "result"},
		),

		confirmationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_confirmations_total",
				Help: "Payment confirmations by channel and outcome",
			},
			[]string{"channel", "outcome"},
		),

		gatewayFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_gateway_failures_total",
				Help: "Failed payment gateway calls after retries",
			},
			[]string{"channel"},
		),

		progressUpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lesson_progress_updates_total",
				Help: "Lesson progress mutations by kind",
			},
			[]string{"kind"},
		),

		commissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commissions_created_total",
				Help: "Commission snapshots by result",
			},
			[]string{"result"},
		),

		eventsPublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domain_events_published_total",
				Help: "Domain events published by name",
			},
			[]string{"event"},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint string, status int, duration time.Duration, responseSize int) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, endpoint, getStatusCategory(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	if responseSize > 0 {
		m.httpResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
	}
}

// RecordCache 记录缓存命中情况
func (m *MetricsCollector) RecordCache(keyPrefix string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHitsTotal.WithLabelValues(keyPrefix).Inc()
	} else {
		m.cacheMissesTotal.WithLabelValues(keyPrefix).Inc()
	}
}

// RecordCheckout result: created / reused / failed
func (m *MetricsCollector) RecordCheckout(productType, result string) {
	if m == nil {
		return
	}
	m.checkoutsTotal.WithLabelValues(productType, result).Inc()
}

// RecordConfirmation outcome: paid / already_processed / amount_mismatch / error
func (m *MetricsCollector) RecordConfirmation(channel, outcome string) {
	if m == nil {
		return
	}
	m.confirmationsTotal.WithLabelValues(channel, outcome).Inc()
}

func (m *MetricsCollector) RecordGatewayFailure(channel string) {
	if m == nil {
		return
	}
	m.gatewayFailuresTotal.WithLabelValues(channel).Inc()
}

func (m *MetricsCollector) RecordProgressUpdate(kind string) {
	if m == nil {
		return
	}
	m.progressUpdatesTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsCollector) RecordCommission(result string) {
	if m == nil {
		return
	}
	m.commissionsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsCollector) RecordEvent(name string) {
	if m == nil {
		return
	}
	m.eventsPublishedTotal.WithLabelValues(name).Inc()
}

// getStatusCategory 获取状态分类
func getStatusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
