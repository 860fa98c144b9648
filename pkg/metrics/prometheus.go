// Package metrics provides Prometheus metrics for the aocbot service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the aocbot service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Slack surface
	commands     *prometheus.CounterVec
	interactions *prometheus.CounterVec
	slackCalls   *prometheus.CounterVec

	// Leaderboard data
	aocFetches        *prometheus.CounterVec
	aocFetchLatency   prometheus.Histogram
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	renderLatency     *prometheus.HistogramVec
	snapshotMembers   prometheus.Gauge
	lastRefreshUnix   prometheus.Gauge
	refreshRuns       *prometheus.CounterVec
	participants      prometheus.Gauge
	startOverrides    prometheus.Counter
	repositoryLatency *prometheus.HistogramVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec
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
		namespace:        "aocbot",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.commands = auto.NewCounterVec(
		m.counterOpts("slash_commands_total", "Total number of /aoc slash commands by subcommand"),
		[]string{"command"},
	)
	m.interactions = auto.NewCounterVec(
		m.counterOpts("interactions_total", "Total number of Slack interaction payloads by type"),
		[]string{"type"},
	)
	m.slackCalls = auto.NewCounterVec(
		m.counterOpts("slack_api_calls_total", "Total number of Slack Web API calls by method and outcome"),
		[]string{"method", "outcome"},
	)

	m.aocFetches = auto.NewCounterVec(
		m.counterOpts("aoc_fetch_total", "Total number of private leaderboard fetches by outcome"),
		[]string{"outcome"},
	)
	m.aocFetchLatency = auto.NewHistogram(
		m.histogramOpts("aoc_fetch_latency_milliseconds", "Private leaderboard fetch latency in milliseconds"),
	)
	m.cacheHits = auto.NewCounter(m.counterOpts("snapshot_cache_hits_total", "Snapshot cache hits"))
	m.cacheMisses = auto.NewCounter(m.counterOpts("snapshot_cache_misses_total", "Snapshot cache misses"))
	m.renderLatency = auto.NewHistogramVec(
		m.histogramOpts("render_latency_milliseconds", "Time spent computing and rendering a view"),
		[]string{"view"},
	)
	m.snapshotMembers = auto.NewGauge(m.gaugeOpts("snapshot_members", "Members in the last fetched snapshot"))
	m.lastRefreshUnix = auto.NewGauge(m.gaugeOpts("snapshot_last_refresh_unix", "Unix time of the last successful snapshot refresh"))
	m.refreshRuns = auto.NewCounterVec(
		m.counterOpts("refresh_runs_total", "Scheduled snapshot refresh runs by outcome"),
		[]string{"outcome"},
	)
	m.participants = auto.NewGauge(m.gaugeOpts("participants_registered", "Number of registered participants"))
	m.startOverrides = auto.NewCounter(m.counterOpts("start_overrides_recorded_total", "Manual day start times recorded"))
	m.repositoryLatency = auto.NewHistogramVec(
		m.histogramOpts("repository_latency_milliseconds", "Repository operation latency in milliseconds"),
		[]string{"operation"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors"),
		[]string{"component", "error_type"},
	)
}

// RecordCommand increments the slash command counter.
func RecordCommand(command string) {
	globalManager.commands.WithLabelValues(command).Inc()
}

// RecordInteraction increments the interaction counter.
func RecordInteraction(kind string) {
	globalManager.interactions.WithLabelValues(kind).Inc()
}

// RecordSlackCall records a Slack Web API call.
func RecordSlackCall(method, outcome string) {
	globalManager.slackCalls.WithLabelValues(method, outcome).Inc()
}

// RecordAOCFetch records a private leaderboard fetch and its latency.
func RecordAOCFetch(outcome string, latencyMs float64) {
	globalManager.aocFetches.WithLabelValues(outcome).Inc()
	globalManager.aocFetchLatency.Observe(latencyMs)
}

// RecordCacheHit increments the snapshot cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the snapshot cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordRenderLatency records how long a view took to build.
func RecordRenderLatency(view string, latencyMs float64) {
	globalManager.renderLatency.WithLabelValues(view).Observe(latencyMs)
}

// UpdateSnapshotMembers sets the member count of the last snapshot.
func UpdateSnapshotMembers(count int) {
	globalManager.snapshotMembers.Set(float64(count))
}

// UpdateLastRefresh sets the time of the last successful refresh.
func UpdateLastRefresh(unix int64) {
	globalManager.lastRefreshUnix.Set(float64(unix))
}

// RecordRefreshRun increments the scheduled refresh counter.
func RecordRefreshRun(outcome string) {
	globalManager.refreshRuns.WithLabelValues(outcome).Inc()
}

// UpdateParticipants sets the registered participant count.
func UpdateParticipants(count int) {
	globalManager.participants.Set(float64(count))
}

// RecordStartOverride increments the manual start counter.
func RecordStartOverride() {
	globalManager.startOverrides.Inc()
}

// RecordRepositoryLatency records a repository operation latency.
func RecordRepositoryLatency(operation string, latencyMs float64) {
	globalManager.repositoryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
