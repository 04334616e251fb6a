package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
	"github.com/dd0wney/cluso-centrality/pkg/logging"
)

// Symmetry policies
const (
	SymmetryIgnore = "ignore"
	SymmetryRepair = "repair"
	SymmetryReject = "reject"
)

// Load reads the edge list at location, logging and recording the outcome.
func (r *Runner) Load(ctx context.Context, location string, srcOpts graph.SourceOptions, loadOpts graph.LoadOptions) (graph.Graph, error) {
	start := time.Now()
	g, stats, err := graph.LoadFrom(ctx, location, srcOpts, loadOpts)
	elapsed := time.Since(start)

	if err != nil {
		r.metrics.RecordLoad(0, 0, 0, elapsed, err)
		r.logger.Error("failed to load graph", logging.Source(location), logging.Error(err))
		return nil, err
	}

	r.metrics.RecordLoad(g.NodeCount(), g.EdgeCount(), stats.SkippedLines, elapsed, nil)
	if stats.SkippedLines > 0 {
		r.logger.Warn("skipped malformed edge-list lines",
			logging.Source(location),
			logging.Count(stats.SkippedLines),
			logging.Int("first_line", stats.FirstSkipped),
		)
	}
	r.logger.Info("graph loaded",
		logging.Source(location),
		logging.Nodes(g.NodeCount()),
		logging.Edges(g.EdgeCount()),
		logging.Latency(elapsed),
	)
	return g, nil
}

// ApplySymmetryPolicy enforces policy on g. "ignore" returns g unchecked,
// "repair" returns a symmetrized copy, "reject" fails with the
// *graph.AsymmetryError from graph.CheckSymmetry.
func (r *Runner) ApplySymmetryPolicy(g graph.Graph, policy string) (graph.Graph, error) {
	switch policy {
	case SymmetryIgnore, "":
		return g, nil
	case SymmetryRepair:
		repaired, added := graph.Symmetrize(g)
		r.metrics.RecordRepair(added)
		if added > 0 {
			r.logger.Warn("repaired asymmetric adjacency", logging.Count(added))
		}
		return repaired, nil
	case SymmetryReject:
		if err := graph.CheckSymmetry(g); err != nil {
			r.logger.Error("rejected asymmetric graph", logging.Error(err))
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown symmetry policy %q", policy)
	}
}
