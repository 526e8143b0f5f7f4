package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the rankings pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Ingest
	rowsIngested   *prometheus.CounterVec
	rowsFiltered   *prometheus.CounterVec
	fieldFallbacks *prometheus.CounterVec

	// Scoring and ranking
	playersRanked      *prometheus.GaugeVec
	sampleFloorApplied *prometheus.CounterVec

	// Pipeline
	pipelineRuns      *prometheus.CounterVec
	pipelineDuration  prometheus.Histogram
	refreshErrors     prometheus.Counter
	snapshotPublished prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ecc",
		subsystem:        "rankings",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsIngested = m.counterVec("rows_ingested_total",
		"Raw rows accepted into a pipeline run", "discipline", "division")
	m.rowsFiltered = m.counterVec("rows_filtered_total",
		"Raw rows dropped before normalization", "discipline", "reason")
	m.fieldFallbacks = m.counterVec("field_fallbacks_total",
		"Fields replaced by their default during normalization", "discipline", "field")
	m.sampleFloorApplied = m.counterVec("sample_floor_applied_total",
		"Batches scored with the sample factor floor", "discipline")
	m.pipelineRuns = m.counterVec("pipeline_runs_total",
		"Pipeline runs by outcome", "outcome")
	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")

	m.playersRanked = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "players_ranked",
		Help:        "Players on the latest leaderboard of each discipline",
		ConstLabels: m.constLabels,
	}, []string{"discipline"})

	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "pipeline_duration_seconds",
		Help:        "Wall time of one load, rank and publish cycle",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.refreshErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_errors_total",
		Help:        "Refresh cycles that failed to load their sources",
		ConstLabels: m.constLabels,
	})

	m.snapshotPublished = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_published_unix",
		Help:        "Unix time of the last published snapshot",
		ConstLabels: m.constLabels,
	})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250},
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// RowsIngested adds n accepted rows for a discipline and division.
func (m *Manager) RowsIngested(discipline, division string, n int) {
	if m.enabled && n > 0 {
		m.rowsIngested.WithLabelValues(discipline, division).Add(float64(n))
	}
}

// RowsFiltered adds n dropped rows for a discipline and reason.
func (m *Manager) RowsFiltered(discipline, reason string, n int) {
	if m.enabled && n > 0 {
		m.rowsFiltered.WithLabelValues(discipline, reason).Add(float64(n))
	}
}

// FieldFallback counts one defaulted field.
func (m *Manager) FieldFallback(discipline, field string) {
	if m.enabled {
		m.fieldFallbacks.WithLabelValues(discipline, field).Inc()
	}
}

// PlayersRanked sets the leaderboard size of a discipline.
func (m *Manager) PlayersRanked(discipline string, n int) {
	if m.enabled {
		m.playersRanked.WithLabelValues(discipline).Set(float64(n))
	}
}

// SampleFloorApplied counts one floored batch.
func (m *Manager) SampleFloorApplied(discipline string) {
	if m.enabled {
		m.sampleFloorApplied.WithLabelValues(discipline).Inc()
	}
}

// PipelineRun counts one run with its outcome and duration.
func (m *Manager) PipelineRun(ok bool, seconds float64) {
	if !m.enabled {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.pipelineRuns.WithLabelValues(outcome).Inc()
	m.pipelineDuration.Observe(seconds)
}

// RefreshError counts one failed refresh.
func (m *Manager) RefreshError() {
	if m.enabled {
		m.refreshErrors.Inc()
	}
}

// SnapshotPublished records the publish time of the latest snapshot.
func (m *Manager) SnapshotPublished(unix int64) {
	if m.enabled {
		m.snapshotPublished.Set(float64(unix))
	}
}

// HTTPRequest records one served request.
func (m *Manager) HTTPRequest(endpoint, method string, status int, durationMs float64) {
	if !m.enabled {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(durationMs)
}

// Default returns the global manager.
func Default() *Manager {
	return globalManager
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
