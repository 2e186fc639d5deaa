// Package metrics provides Prometheus metrics for the event board service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the event board.
type Manager struct {
	namespace       string
	subsystem       string
	renderBuckets   []float64
	httpBuckets     []float64
	refreshInterval time.Duration
	registry        prometheus.Registerer

	// Board
	renders          prometheus.Counter
	renderSkipped    prometheus.Counter
	renderLatency    prometheus.Histogram
	renderedItems    prometheus.Gauge
	recordsTotal     prometheus.Gauge
	filterChanges    *prometheus.CounterVec
	mutations        *prometheus.CounterVec
	importFailures   prometheus.Counter
	animationsQueued prometheus.Counter
	animationsCancel prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "eventboard",
		subsystem:       "board",
		renderBuckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		httpBuckets:     []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
		refreshInterval: defaultRefreshInterval,
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval reports how often gauges should be refreshed by callers.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	auto := promauto.With(m.registry)

	m.renders = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "renders_total",
		Help:      "Total number of completed board renders",
	})

	m.renderSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "renders_skipped_total",
		Help:      "Renders skipped because the display surface was absent",
	})

	m.renderLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_latency_milliseconds",
		Help:      "Time spent producing and writing board markup",
		Buckets:   m.renderBuckets,
	})

	m.renderedItems = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rendered_items",
		Help:      "Number of items written by the last render",
	})

	m.recordsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records",
		Help:      "Number of event records held in memory",
	})

	m.filterChanges = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "filter_changes_total",
		Help:      "Filter selections by value",
	}, []string{"filter"})

	m.mutations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "mutations_total",
		Help:      "Administrative mutations by operation and result",
	}, []string{"op", "result"})

	m.importFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "import_failures_total",
		Help:      "Rejected import documents",
	})

	m.animationsQueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "animation_tasks_scheduled_total",
		Help:      "Entrance animation tasks scheduled",
	})

	m.animationsCancel = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "animation_tasks_cancelled_total",
		Help:      "Pending animation tasks cancelled by a newer render",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.httpBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "HTTP error responses by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines",
	})
}

// RecordRender records a completed render and its size.
func RecordRender(items int, latencyMs float64) {
	globalManager.renders.Inc()
	globalManager.renderedItems.Set(float64(items))
	globalManager.renderLatency.Observe(latencyMs)
}

// RecordRenderSkipped counts a render that found no display surface.
func RecordRenderSkipped() {
	globalManager.renderSkipped.Inc()
}

// UpdateRecords sets the number of records held by the board.
func UpdateRecords(count int) {
	globalManager.recordsTotal.Set(float64(count))
}

// RecordFilterChange counts a filter selection.
func RecordFilterChange(filter string) {
	globalManager.filterChanges.WithLabelValues(filter).Inc()
}

// RecordMutation counts an administrative mutation. result is "ok" or "not_found".
func RecordMutation(op, result string) {
	globalManager.mutations.WithLabelValues(op, result).Inc()
}

// RecordImportFailure counts a rejected import document.
func RecordImportFailure() {
	globalManager.importFailures.Inc()
}

// RecordAnimationScheduled counts scheduled animation tasks.
func RecordAnimationScheduled(n int) {
	globalManager.animationsQueued.Add(float64(n))
}

// RecordAnimationCancelled counts cancelled animation tasks.
func RecordAnimationCancelled(n int) {
	globalManager.animationsCancel.Add(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the current heap allocation.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// Configure rebuilds the global manager from opts on a fresh registry. It is
// meant for process startup, before any handler or recorder runs; values
// recorded earlier are dropped.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	opts = append(opts[:len(opts):len(opts)], WithRegistry(registry))
	globalManager = NewManager(opts...)
	customRegistry = registry
}

// RefreshInterval reports the global manager's gauge refresh interval.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
