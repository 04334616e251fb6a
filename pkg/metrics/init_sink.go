package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSinkMetrics() {
	r.SinkRowsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "centrality_sink_rows_total",
			Help: "Result rows written to the sink by metric",
		},
		[]string{"metric"},
	)

	r.SinkWriteDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "centrality_sink_write_duration_seconds",
			Help:    "Time to persist one run's results",
			Buckets: []float64{0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)
}
