package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// BookingsTotal counts written bookings by initial status.
	BookingsTotal *prometheus.CounterVec

	// ConflictsTotal counts rejected proposals by kind (booking, availability).
	ConflictsTotal *prometheus.CounterVec

	// StatusChangesTotal counts booking status transitions.
	StatusChangesTotal *prometheus.CounterVec

	// LockWaitsTotal counts booking lock outcomes (acquired, busy).
	LockWaitsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes request latency by route and status class.
	HTTPRequestDuration *prometheus.HistogramVec

	// JobRunsTotal counts scheduler job runs by job and result.
	JobRunsTotal *prometheus.CounterVec
}

// New creates the collectors on a dedicated registry
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		BookingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bookings_created_total",
				Help:      "Total number of bookings created",
			},
			[]string{"status"},
		),

		ConflictsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conflicts_total",
				Help:      "Total number of proposals rejected for overlapping an existing interval",
			},
			[]string{"kind"},
		),

		StatusChangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "booking_status_changes_total",
				Help:      "Total number of booking status transitions",
			},
			[]string{"from", "to"},
		),

		LockWaitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "booking_lock_total",
				Help:      "Booking lock attempts by outcome",
			},
			[]string{"outcome"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5},
			},
			[]string{"method", "route", "status"},
		),

		JobRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "job_runs_total",
				Help:      "Scheduled job runs by result",
			},
			[]string{"job", "result"},
		),
	}
}

// Handler exposes the registry for scraping
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IncBookingCreated(status string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncConflict(kind string) {
	if m == nil {
		return
	}
	m.ConflictsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncStatusChange(from, to string) {
	if m == nil {
		return
	}
	m.StatusChangesTotal.WithLabelValues(from, to).Inc()
}

// AddStatusChanges records n transitions at once, as bulk updates do
func (m *Metrics) AddStatusChanges(from, to string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.StatusChangesTotal.WithLabelValues(from, to).Add(float64(n))
}

func (m *Metrics) IncLock(outcome string) {
	if m == nil {
		return
	}
	m.LockWaitsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}

func (m *Metrics) IncJobRun(job, result string) {
	if m == nil {
		return
	}
	m.JobRunsTotal.WithLabelValues(job, result).Inc()
}
