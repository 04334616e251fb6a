package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initComputeMetrics() {
	r.ComputationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "centrality_computations_total",
			Help: "Centrality computations by metric and status",
		},
		[]string{"metric", "status"},
	)

	r.ComputationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "centrality_computation_duration_seconds",
			Help:    "Centrality computation duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 1.0, 10.0, 60.0, 300.0, 1800.0},
		},
		[]string{"metric"},
	)

	r.ComputationsRunning = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "centrality_computations_running",
			Help: "Centrality computations currently in progress",
		},
	)

	// Runtime resource use, sampled after each run.
	r.GoRoutines = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "centrality_goroutines",
			Help: "Number of goroutines after the last run",
		},
	)

	r.MemoryAllocBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "centrality_memory_alloc_bytes",
			Help: "Heap bytes allocated after the last run",
		},
	)

	r.MemorySysBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "centrality_memory_sys_bytes",
			Help: "Bytes obtained from the OS after the last run",
		},
	)
}
