package metrics

import (
	"runtime"
	"time"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

// RecordLoad records one edge-list load
func (r *Registry) RecordLoad(nodes, edges, skipped int, duration time.Duration, err error) {
	r.LoadsTotal.WithLabelValues(status(err)).Inc()
	r.LoadDuration.Observe(duration.Seconds())
	if err != nil {
		return
	}
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
	r.LoadSkippedLines.Add(float64(skipped))
}

// RecordRepair records adjacency entries added by symmetry repair
func (r *Registry) RecordRepair(added int) {
	r.SymmetryRepairsTotal.Add(float64(added))
}

// StartComputation marks a computation as running. The returned function
// records its outcome and must be called exactly once.
func (r *Registry) StartComputation(metric string) func(err error) time.Duration {
	start := time.Now()
	r.ComputationsRunning.Inc()

	return func(err error) time.Duration {
		elapsed := time.Since(start)
		r.ComputationsRunning.Dec()
		r.ComputationsTotal.WithLabelValues(metric, status(err)).Inc()
		if err == nil {
			r.ComputationDuration.WithLabelValues(metric).Observe(elapsed.Seconds())
		}
		return elapsed
	}
}

// RecordSinkWrite records rows persisted for one run
func (r *Registry) RecordSinkWrite(rowsByMetric map[string]int, duration time.Duration) {
	for metric, rows := range rowsByMetric {
		r.SinkRowsTotal.WithLabelValues(metric).Add(float64(rows))
	}
	r.SinkWriteDuration.Observe(duration.Seconds())
}

// UpdateSystemMetrics samples goroutine and heap statistics
func (r *Registry) UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
