// Package metrics exposes Prometheus collectors for the ingestion pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"civic_ingest/internal/model"
)

// Namespace prefixes every metric name.
const Namespace = "civic_ingest"

// Metrics holds the pipeline collectors and their registry.
type Metrics struct {
	registry *prometheus.Registry

	PostsScanned  *prometheus.CounterVec
	PostsImported *prometheus.CounterVec
	PostsRejected *prometheus.CounterVec
	RunActive     prometheus.Gauge
	SinkErrors    prometheus.Counter
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PostsScanned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "posts_scanned_total",
			Help:      "Posts dequeued for scanning, by source.",
		}, []string{"source"}),
		PostsImported: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "posts_imported_total",
			Help:      "Posts approved and appended to the complaint store.",
		}, []string{"department", "urgency"}),
		PostsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "posts_rejected_total",
			Help:      "Posts rejected as fake, by reason. A post with several reasons counts once per reason.",
		}, []string{"reason"}),
		RunActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "run_active",
			Help:      "1 while an ingestion run is in progress.",
		}),
		SinkErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "sink_errors_total",
			Help:      "Failed appends of approved records.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RunStarted marks a run as active.
func (m *Metrics) RunStarted() { m.RunActive.Set(1) }

// RunFinished marks the run as done.
func (m *Metrics) RunFinished() { m.RunActive.Set(0) }

// PostScanned counts a dequeued post.
func (m *Metrics) PostScanned(post model.RawPost) {
	m.PostsScanned.WithLabelValues(string(post.Source)).Inc()
}

// PostImported counts an approved post.
func (m *Metrics) PostImported(rec model.ComplaintRecord) {
	m.PostsImported.WithLabelValues(rec.Department, string(rec.Urgency)).Inc()
}

// PostRejected counts a fake post under each of its reasons.
func (m *Metrics) PostRejected(v model.Verdict) {
	for _, r := range v.Reasons {
		m.PostsRejected.WithLabelValues(r).Inc()
	}
}

// SinkFailed counts a failed append.
func (m *Metrics) SinkFailed() { m.SinkErrors.Inc() }
