// Package metrics exposes Prometheus instrumentation for document
// processing and search.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for one service instance.
type Metrics struct {
	SearchesTotal    *prometheus.CounterVec
	SearchDuration   *prometheus.HistogramVec
	IndexBuildsTotal prometheus.Counter
	SegmentsIndexed  *prometheus.GaugeVec
	DocumentsTotal   prometheus.Gauge
}

// New registers the collectors with reg and returns them. Pass
// prometheus.DefaultRegisterer outside of tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pincite",
			Name:      "searches_total",
			Help:      "Searches executed, by mode.",
		}, []string{"mode"}),

		SearchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pincite",
			Name:      "search_duration_seconds",
			Help:      "Search latency, by mode.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),

		IndexBuildsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pincite",
			Name:      "index_builds_total",
			Help:      "Search index builds and rebuilds.",
		}),

		SegmentsIndexed: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pincite",
			Name:      "segments_indexed",
			Help:      "Segments in the current index, by document.",
		}, []string{"document_id"}),

		DocumentsTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "pincite",
			Name:      "documents_total",
			Help:      "Documents known to the registry.",
		}),
	}
}
