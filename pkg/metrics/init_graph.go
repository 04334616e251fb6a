package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "centrality_graph_nodes",
			Help: "Number of nodes in the loaded graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "centrality_graph_edges",
			Help: "Number of undirected edges in the loaded graph",
		},
	)

	r.LoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "centrality_load_duration_seconds",
			Help:    "Time to read and parse an edge list",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.LoadSkippedLines = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "centrality_load_skipped_lines_total",
			Help: "Malformed edge-list lines skipped during loading",
		},
	)

	r.LoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "centrality_loads_total",
			Help: "Edge-list loads by status",
		},
		[]string{"status"},
	)

	r.SymmetryRepairsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "centrality_symmetry_repairs_total",
			Help: "Adjacency entries added to repair asymmetric input",
		},
	)
}
