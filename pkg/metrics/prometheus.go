// Package metrics provides Prometheus metrics for the eventory service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  *prometheus.Registry

	// Evaluation metrics.
	evaluationPasses   prometheus.Counter
	evaluationDuration prometheus.Histogram
	instancesByState   *prometheus.GaugeVec

	// Schedule store metrics.
	scheduleUpserts prometheus.Counter
	scheduleClears  prometheus.Counter
	scheduleRecords prometheus.Gauge

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Calendar feed metrics.
	icsFeedsServed prometheus.Counter
	icsFeedEvents  prometheus.Gauge
}

// Global metrics manager on a private registry so default Go collectors do
// not leak into the exposition.
var globalManager *Manager                    //nolint:gochecknoglobals // singleton metrics manager
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // private registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "eventory",
		subsystem: "engine",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initCollectors()
	return m
}

func (m *Manager) initCollectors() {
	factory := promauto.With(m.registry)

	m.evaluationPasses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_passes_total",
		Help:      "Number of full evaluation passes over the event catalog.",
	})
	m.evaluationDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of one evaluation pass.",
		Buckets:   m.buckets,
	})
	m.instancesByState = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "instances",
		Help:      "Event instances produced by the last evaluation pass, by state.",
	}, []string{"state"})

	m.scheduleUpserts = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "schedule_upserts_total",
		Help:      "Schedule records written through the upsert contract.",
	})
	m.scheduleClears = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "schedule_clears_total",
		Help:      "Schedule records explicitly cleared with day/time \".\".",
	})
	m.scheduleRecords = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "schedule_records",
		Help:      "Schedule records currently persisted.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration by endpoint, method and status.",
		Buckets:   m.buckets,
	}, []string{"endpoint", "method", "status"})

	m.icsFeedsServed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ics",
		Name:      "feeds_served_total",
		Help:      "iCalendar feed downloads served.",
	})
	m.icsFeedEvents = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "ics",
		Name:      "feed_events",
		Help:      "VEVENT components in the most recently generated feed.",
	})
}

// Handler returns the exposition handler for the global registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// Package-level helpers over the global manager.

// RecordEvaluationPass increments the pass counter and observes its duration.
func RecordEvaluationPass(seconds float64) {
	globalManager.evaluationPasses.Inc()
	globalManager.evaluationDuration.Observe(seconds)
}

// UpdateInstanceStates publishes per-state instance counts from the last pass.
func UpdateInstanceStates(active, expired, upcoming, unscheduled int) {
	globalManager.instancesByState.WithLabelValues("active").Set(float64(active))
	globalManager.instancesByState.WithLabelValues("expired").Set(float64(expired))
	globalManager.instancesByState.WithLabelValues("upcoming").Set(float64(upcoming))
	globalManager.instancesByState.WithLabelValues("unscheduled").Set(float64(unscheduled))
}

// RecordScheduleUpsert counts one persisted schedule write.
func RecordScheduleUpsert() { globalManager.scheduleUpserts.Inc() }

// RecordScheduleClear counts one explicit schedule clear.
func RecordScheduleClear() { globalManager.scheduleClears.Inc() }

// UpdateScheduleRecords publishes the current store size.
func UpdateScheduleRecords(n int) { globalManager.scheduleRecords.Set(float64(n)) }

// RecordHTTPRequest counts one request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, status string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(seconds)
}

// RecordICSFeed counts one served feed and the number of events in it.
func RecordICSFeed(events int) {
	globalManager.icsFeedsServed.Inc()
	globalManager.icsFeedEvents.Set(float64(events))
}
