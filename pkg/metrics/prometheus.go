// Package metrics provides Prometheus metrics for the launch dashboard service.
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

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	renderBuckets    []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Dataset Metrics - what was loaded at startup
	datasetRecords prometheus.Gauge
	datasetMissing *prometheus.GaugeVec

	// Chart Metrics - recomputations triggered by control changes
	chartComputations *prometheus.CounterVec
	filterLatency     prometheus.Histogram
	renderLatency     *prometheus.HistogramVec
	renderErrors      *prometheus.CounterVec

	// Session Metrics
	sessionsActive  prometheus.Gauge
	sessionsCreated prometheus.Counter
	sessionsEvicted prometheus.Counter
	sessionUpdates  prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System Performance Metrics
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
		namespace:        "launchdash",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		renderBuckets:    []float64{1, 5, 10, 25, 50, 100, 250, 500},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.NewRegistry(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// name applies the configured metric prefix.
func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.datasetRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_records"),
		Help:        "Number of launch records loaded at startup",
		ConstLabels: labels,
	})

	m.datasetMissing = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_missing_values"),
		Help:        "Number of records whose numeric column was blank or not a number",
		ConstLabels: labels,
	}, []string{"column"})

	m.chartComputations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("chart_computations_total"),
		Help:        "Chart specifications computed, by chart and output format",
		ConstLabels: labels,
	}, []string{"chart", "format"})

	m.filterLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("filter_latency_milliseconds"),
		Help:        "Time spent filtering and aggregating records for one chart",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		ConstLabels: labels,
	})

	m.renderLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("render_latency_milliseconds"),
		Help:        "Time spent rendering a chart image",
		Buckets:     m.renderBuckets,
		ConstLabels: labels,
	}, []string{"chart"})

	m.renderErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("render_errors_total"),
		Help:        "Chart images that failed to render",
		ConstLabels: labels,
	}, []string{"chart"})

	m.sessionsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("sessions_active"),
		Help:        "Dashboard sessions currently held in memory",
		ConstLabels: labels,
	})

	m.sessionsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("sessions_created_total"),
		Help:        "Dashboard sessions created",
		ConstLabels: labels,
	})

	m.sessionsEvicted = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("sessions_evicted_total"),
		Help:        "Sessions dropped because the session store was full",
		ConstLabels: labels,
	})

	m.sessionUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("session_updates_total"),
		Help:        "Filter state changes applied to sessions",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_type_total"),
			Help:        "Errors by type and severity",
			ConstLabels: labels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_endpoint_total"),
			Help:        "Errors by endpoint, method and error type",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("error_latency_milliseconds"),
			Help:        "Latency of operations that ended in an error",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// Enabled reports whether recording is switched on for this manager.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval returns how often gauges sourced from polling should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// RefreshInterval returns the refresh interval of the global manager.
func RefreshInterval() time.Duration { return globalManager.refreshInterval }

// Dataset Metrics Functions.

// UpdateDatasetRecords sets the number of loaded launch records.
func UpdateDatasetRecords(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetRecords.Set(float64(count))
}

// UpdateDatasetMissing sets the number of missing values in a numeric column.
func UpdateDatasetMissing(column string, count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetMissing.WithLabelValues(column).Set(float64(count))
}

// Chart Metrics Functions.

// RecordChartComputation increments the chart computation counter.
func RecordChartComputation(chart, format string) {
	if !globalManager.enabled {
		return
	}
	globalManager.chartComputations.WithLabelValues(chart, format).Inc()
}

// RecordFilterLatency records filter and aggregation time in milliseconds.
func RecordFilterLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.filterLatency.Observe(latencyMs)
}

// RecordRenderLatency records chart image rendering time in milliseconds.
func RecordRenderLatency(chart string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.renderLatency.WithLabelValues(chart).Observe(latencyMs)
}

// RecordRenderError increments the render error counter.
func RecordRenderError(chart string) {
	if !globalManager.enabled {
		return
	}
	globalManager.renderErrors.WithLabelValues(chart).Inc()
}

// Session Metrics Functions.

// UpdateActiveSessions sets the number of live sessions.
func UpdateActiveSessions(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.sessionsActive.Set(float64(count))
}

// RecordSessionCreated increments the created sessions counter.
func RecordSessionCreated() {
	if !globalManager.enabled {
		return
	}
	globalManager.sessionsCreated.Inc()
}

// RecordSessionEvicted increments the evicted sessions counter.
func RecordSessionEvicted() {
	if !globalManager.enabled {
		return
	}
	globalManager.sessionsEvicted.Inc()
}

// RecordSessionUpdate increments the session update counter.
func RecordSessionUpdate() {
	if !globalManager.enabled {
		return
	}
	globalManager.sessionUpdates.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// SetEnabled switches recording of the global metrics on or off. Call it
// before serving; it is not synchronized with recorders.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// Enabled reports whether the global metrics are recorded.
func Enabled() bool { return globalManager.enabled }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
