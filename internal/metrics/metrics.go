// Package metrics exposes Prometheus collectors for searches, strategy
// fallbacks and HTTP traffic. A nil *Metrics records nothing.
package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "outofschool"

// Search outcomes
const (
	OutcomeSuccess    = "success"
	OutcomeInvalid    = "invalid"
	OutcomeStorage    = "storage_error"
	OutcomeConfig     = "config_error"
	OutcomeCancelled  = "cancelled"
	OutcomeOtherError = "error"
)

// Metrics holds all Prometheus collectors of the service
type Metrics struct {
	registry *prometheus.Registry

	// Search metrics
	SearchesTotal   *prometheus.CounterVec
	SearchDuration  *prometheus.HistogramVec
	SelectionsTotal *prometheus.CounterVec
	FallbacksTotal  *prometheus.CounterVec
	BreakerState    *prometheus.GaugeVec

	// Index metrics
	IndexDocuments prometheus.Gauge
	ReindexTotal   *prometheus.CounterVec

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of executed searches by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),

		// Buckets: 5ms .. 5s
		SearchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Duration of count and page queries of one search",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"strategy"},
		),

		SelectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "strategy_selections_total",
				Help:      "Total number of strategy selections by strategy and reason",
			},
			[]string{"strategy", "reason"},
		),

		FallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "strategy_fallbacks_total",
				Help:      "Total number of searches retried on the alternate strategy",
			},
			[]string{"from", "to"},
		),

		// 0 closed, 1 half-open, 2 open
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Current circuit breaker state",
			},
			[]string{"name"},
		),

		IndexDocuments: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_documents",
				Help:      "Number of workshops in the search index after the last rebuild",
			},
		),

		ReindexTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "index_rebuilds_total",
				Help:      "Total number of index rebuilds by outcome",
			},
			[]string{"outcome"},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// WatchDB exports the connection pool statistics of db under the given name
func (m *Metrics) WatchDB(db *sql.DB, name string) {
	if m == nil || db == nil {
		return
	}
	m.registry.MustRegister(collectors.NewDBStatsCollector(db, name))
}

// Registry returns the registry all collectors are registered with
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordSearch records one search on a strategy
func (m *Metrics) RecordSearch(strategy, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(strategy, outcome).Inc()
	m.SearchDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordSelection records a strategy decision
func (m *Metrics) RecordSelection(strategy, reason string) {
	if m == nil {
		return
	}
	m.SelectionsTotal.WithLabelValues(strategy, reason).Inc()
}

// RecordFallback records a search retried on the alternate strategy
func (m *Metrics) RecordFallback(from, to string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(from, to).Inc()
}

// SetBreakerState publishes a circuit breaker state
func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordReindex records an index rebuild and the resulting document count
func (m *Metrics) RecordReindex(outcome string, documents int) {
	if m == nil {
		return
	}
	m.ReindexTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.IndexDocuments.Set(float64(documents))
	}
}

// RecordRequest records one served HTTP request
func (m *Metrics) RecordRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
