package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-centrality/pkg/algorithms"
	"github.com/dd0wney/cluso-centrality/pkg/graph"
	"github.com/dd0wney/cluso-centrality/pkg/logging"
	"github.com/dd0wney/cluso-centrality/pkg/metrics"
	"github.com/dd0wney/cluso-centrality/pkg/parallel"
)

// Result holds the fully materialized output of one run. Maps for metrics
// that were not requested are nil.
type Result struct {
	RunID       uuid.UUID
	Nodes       int
	Edges       int
	Degree      map[uint64]int
	Closeness   map[uint64]float64
	Betweenness map[uint64]float64
	Durations   map[Metric]time.Duration
}

// Runner computes centrality metrics over a read-only graph.
type Runner struct {
	logger  logging.Logger
	metrics *metrics.Registry
	workers int
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithMetrics sets the Prometheus registry. The default is a private one.
func WithMetrics(m *metrics.Registry) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithWorkers bounds how many metrics are computed at once. Zero means one
// worker per requested metric.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewNopLogger()
	}
	if r.metrics == nil {
		r.metrics = metrics.NewRegistry()
	}
	r.logger = r.logger.With(logging.Component("engine"))
	return r
}

// Run computes the selected metrics. Each metric is an independent pure
// function of g, so they run concurrently on a worker pool while each
// metric's per-source loop stays sequential. A context deadline stops
// closeness and betweenness between source iterations.
func (r *Runner) Run(ctx context.Context, g graph.Graph, selected []Metric) (*Result, error) {
	res := &Result{
		RunID:     uuid.New(),
		Nodes:     g.NodeCount(),
		Edges:     g.EdgeCount(),
		Durations: make(map[Metric]time.Duration, len(selected)),
	}
	logger := r.logger.With(logging.RunID(res.RunID.String()))
	logger.Info("computing centrality",
		logging.Nodes(res.Nodes),
		logging.Edges(res.Edges),
		logging.Any("metrics", selected),
	)

	workers := r.workers
	if workers <= 0 {
		workers = len(selected)
	}
	pool, err := parallel.NewWorkerPool(workers, logger)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	for _, m := range selected {
		m := m
		pool.Submit(func() error {
			elapsed, err := r.compute(ctx, logger, g, m, res)
			mu.Lock()
			res.Durations[m] = elapsed
			mu.Unlock()
			return err
		})
	}

	if err := pool.Wait(); err != nil {
		return nil, fmt.Errorf("centrality run %s failed: %w", res.RunID, err)
	}

	r.metrics.UpdateSystemMetrics()
	return res, nil
}

// compute runs one metric and stores it in the field of res that only this
// metric writes.
func (r *Runner) compute(ctx context.Context, logger logging.Logger, g graph.Graph, m Metric, res *Result) (time.Duration, error) {
	timer := logging.StartTimer(logger, "metric computed", logging.Metric(string(m)))
	done := r.metrics.StartComputation(string(m))

	var err error
	switch m {
	case Degree:
		res.Degree = algorithms.DegreeCentrality(g)
	case Closeness:
		res.Closeness, err = algorithms.ClosenessCentralityContext(ctx, g)
	case Betweenness:
		res.Betweenness, err = algorithms.BetweennessCentralityContext(ctx, g)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownMetric, m)
	}

	done(err)
	if err != nil {
		return timer.EndError(err), fmt.Errorf("%s: %w", m, err)
	}
	return timer.End(), nil
}
