// Package metrics provides Prometheus metrics for the mayday dispatch service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the mayday service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics - one submission flowing through the stage chain
	callsProcessed    prometheus.Counter
	callsFailed       *prometheus.CounterVec
	stageDuration     *prometheus.HistogramVec
	eventsByCategory  *prometheus.CounterVec
	synthesisFailures prometheus.Counter

	// Event log metrics
	storeAppends      prometheus.Counter
	storeAppendErrors prometheus.Counter
	storeQueryLatency prometheus.Histogram
	storedEvents      prometheus.Gauge

	// Broadcast hub metrics
	wsConnections      prometheus.Gauge
	broadcastDelivered prometheus.Counter
	broadcastDropped   prometheus.Counter
	publishLatency     prometheus.Histogram

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mayday",
		subsystem:        "dispatch",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.callsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "calls_processed_total",
		Help:      "Total number of submissions fully processed into events",
	})

	m.callsFailed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "calls_failed_total",
		Help:      "Total number of submissions aborted, labeled by failing stage",
	}, []string{"stage"})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_duration_ms",
		Help:      "Pipeline stage duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"stage"})

	m.eventsByCategory = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_by_category_total",
		Help:      "Total events produced, labeled by emergency category",
	}, []string{"category"})

	m.synthesisFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "synthesis_failures_total",
		Help:      "Total speech synthesis failures (non-fatal; event ships without audio)",
	})

	m.storeAppends = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_appends_total",
		Help:      "Total events appended to the event log",
	})

	m.storeAppendErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_append_errors_total",
		Help:      "Total event log append failures (durability degraded, pipeline continues)",
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_ms",
		Help:      "Event log read latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storedEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_events",
		Help:      "Number of events currently held by the event log",
	})

	m.wsConnections = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ws_connections",
		Help:      "Number of currently registered observer connections",
	})

	m.broadcastDelivered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "broadcast_delivered_total",
		Help:      "Total per-connection deliveries attempted successfully",
	})

	m.broadcastDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "broadcast_dropped_total",
		Help:      "Total per-connection deliveries dropped (slow or dead observer)",
	})

	m.publishLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "publish_latency_ms",
		Help:      "Hub publish fan-out latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Total errors by component and error type",
	}, []string{"component", "error_type"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "Total HTTP errors by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_ms",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// Pipeline helpers.

// RecordCallProcessed increments the processed-submissions counter.
func RecordCallProcessed() {
	globalManager.callsProcessed.Inc()
}

// RecordCallFailed increments the failed-submissions counter for a stage.
func RecordCallFailed(stage string) {
	globalManager.callsFailed.WithLabelValues(stage).Inc()
}

// RecordStageDuration records how long one pipeline stage took.
func RecordStageDuration(stage string, durationMs float64) {
	globalManager.stageDuration.WithLabelValues(stage).Observe(durationMs)
}

// RecordEventCategory increments the per-category event counter.
func RecordEventCategory(category string) {
	globalManager.eventsByCategory.WithLabelValues(category).Inc()
}

// RecordSynthesisFailure increments the non-fatal synthesis failure counter.
func RecordSynthesisFailure() {
	globalManager.synthesisFailures.Inc()
}

// Event log helpers.

// RecordStoreAppend increments the append counter.
func RecordStoreAppend() {
	globalManager.storeAppends.Inc()
}

// RecordStoreAppendError increments the append failure counter.
func RecordStoreAppendError() {
	globalManager.storeAppendErrors.Inc()
}

// RecordStoreQueryLatency records an event log read latency.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// UpdateStoredEvents sets the stored-events gauge.
func UpdateStoredEvents(count int) {
	globalManager.storedEvents.Set(float64(count))
}

// Broadcast hub helpers.

// UpdateWSConnections sets the live observer connection gauge.
func UpdateWSConnections(count int) {
	globalManager.wsConnections.Set(float64(count))
}

// RecordBroadcastDelivered increments the delivery counter.
func RecordBroadcastDelivered() {
	globalManager.broadcastDelivered.Inc()
}

// RecordBroadcastDropped increments the dropped-delivery counter.
func RecordBroadcastDropped() {
	globalManager.broadcastDropped.Inc()
}

// RecordPublishLatency records one publish fan-out latency.
func RecordPublishLatency(latencyMs float64) {
	globalManager.publishLatency.Observe(latencyMs)
}

// HTTP helpers.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Error helpers.

// RecordErrorByComponent increments the per-component error counter.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint increments the per-endpoint error counter.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System helpers.

// UpdateSystemMemoryUsage sets the allocated-memory gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry for serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
