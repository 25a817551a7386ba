// Package monitoring provides Prometheus metrics for the service.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcome labels
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeEmpty       = "empty"
	OutcomeParse       = "parse_error"
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Business metrics
	generationsTotal      *prometheus.CounterVec
	generationDuration    *prometheus.HistogramVec
	sessionsStartedTotal  prometheus.Counter
	sessionsClosedTotal   *prometheus.CounterVec
	recipesConfirmedTotal prometheus.Counter
	imageAttachmentsTotal *prometheus.CounterVec

	// System metrics
	liveSessions prometheus.Gauge
}

// NewMetricsCollector creates a metrics collector with its own
// registry, so tests can build collectors without colliding.
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &MetricsCollector{
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),

		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_generations_total",
				Help: "Total recipe generation calls by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		generationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recipe_generation_duration_seconds",
				Help:    "Recipe generation call duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"kind"},
		),
		sessionsStartedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "generation_sessions_started_total",
				Help: "Total generation sessions started",
			},
		),
		sessionsClosedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generation_sessions_closed_total",
				Help: "Total generation sessions closed by reason",
			},
			[]string{"reason"},
		),
		recipesConfirmedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "recipes_confirmed_total",
				Help: "Total candidates confirmed into recipes",
			},
		),
		imageAttachmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_image_attachments_total",
				Help: "Total image attachment attempts by outcome",
			},
			[]string{"outcome"},
		),

		liveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "generation_sessions_live",
				Help: "Generation sessions currently held in memory",
			},
		),
	}
}

// Handler returns the scrape endpoint for this collector's registry.
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served HTTP request.
func (m *MetricsCollector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.httpRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// RecordGeneration records one provider call. Kind is "first" or
// "variation", outcome one of the Outcome constants.
func (m *MetricsCollector) RecordGeneration(kind, outcome string, duration time.Duration) {
	m.generationsTotal.WithLabelValues(kind, outcome).Inc()
	m.generationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordSessionStarted records a new session.
func (m *MetricsCollector) RecordSessionStarted() {
	m.sessionsStartedTotal.Inc()
}

// RecordSessionClosed records a session ending with the given reason.
func (m *MetricsCollector) RecordSessionClosed(reason string) {
	m.sessionsClosedTotal.WithLabelValues(reason).Inc()
}

// RecordRecipeConfirmed records a persisted recipe.
func (m *MetricsCollector) RecordRecipeConfirmed() {
	m.recipesConfirmedTotal.Inc()
}

// RecordImageAttachment records one image attachment attempt.
func (m *MetricsCollector) RecordImageAttachment(ok bool) {
	outcome := OutcomeOK
	if !ok {
		outcome = "failed"
	}
	m.imageAttachmentsTotal.WithLabelValues(outcome).Inc()
}

// SetLiveSessions updates the live session gauge.
func (m *MetricsCollector) SetLiveSessions(n int) {
	m.liveSessions.Set(float64(n))
}
