// Package metrics exposes Prometheus counters for searches and exports.
//
// Every Metrics value owns its registry, so several instances (one per test)
// never collide. All methods are safe on a nil *Metrics and do nothing,
// which lets callers treat metrics as optional.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nao1215/darkcti/internal/model"
)

const namespace = "darkcti"

// Rejection reasons recorded by SearchRejected.
const (
	ReasonEmptyQuery    = "empty_query"
	ReasonInProgress    = "in_progress"
	ReasonNotConfigured = "provider_not_configured"
)

// Metrics holds the collectors of one darkcti process.
type Metrics struct {
	registry *prometheus.Registry

	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	rejected       *prometheus.CounterVec
	inFlight       prometheus.Gauge
	exports        *prometheus.CounterVec
	matchedIOCs    prometheus.Histogram
}

// New creates Metrics with a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		searches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Completed searches by resulting risk level",
			},
			[]string{"risk_level"},
		),
		searchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Wall time of a search including phase delays",
				Buckets:   []float64{0.1, 0.5, 1, 2, 4, 8, 16},
			},
		),
		rejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_rejected_total",
				Help:      "Searches refused before starting",
			},
			[]string{"reason"},
		),
		inFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "searches_in_flight",
				Help:      "Searches currently running",
			},
		),
		exports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Reports exported by format",
			},
			[]string{"format"},
		),
		matchedIOCs: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "matched_iocs",
				Help:      "Number of IOCs per search result",
				Buckets:   prometheus.LinearBuckets(1, 1, 8),
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer returns the registry backing m.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// SearchStarted marks a search as running.
func (m *Metrics) SearchStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

// SearchFinished records a finished search. result is nil when the search
// failed.
func (m *Metrics) SearchFinished(result *model.SearchResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	if result == nil {
		return
	}
	m.searches.WithLabelValues(result.RiskLevel.String()).Inc()
	m.searchDuration.Observe(elapsed.Seconds())
	m.matchedIOCs.Observe(float64(len(result.IOCs)))
}

// SearchRejected counts a search refused for reason.
func (m *Metrics) SearchRejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

// ExportWritten counts an exported report.
func (m *Metrics) ExportWritten(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}
