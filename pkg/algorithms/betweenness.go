package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

// dependencyState is the private working state of Brandes' algorithm for one
// source at a time. It is reset between sources rather than reallocated; a
// concurrent runner would give each worker its own.
type dependencyState struct {
	*traversal
	// sigma counts shortest paths from the source. Stored as float64, as the
	// accumulation divides by it; exact up to 2^53 paths.
	sigma []float64
	pred  [][]int32
	delta []float64
}

func newDependencyState(idx *nodeIndex) *dependencyState {
	n := idx.len()
	return &dependencyState{
		traversal: newTraversal(idx),
		sigma:     make([]float64, n),
		pred:      make([][]int32, n),
		delta:     make([]float64, n),
	}
}

// accumulate runs both Brandes phases from source and adds each node's
// dependency into totals. The source itself receives nothing.
func (st *dependencyState) accumulate(source int32, totals []float64) {
	// Phase 1: BFS counting shortest paths and recording predecessors.
	st.sigma[source] = 1
	st.visit(source, 0)
	for head := 0; head < len(st.order); head++ {
		v := st.order[head]
		next := st.dist[v] + 1
		for _, w := range st.idx.adj[v] {
			if !st.reached[w] {
				st.visit(w, next)
			}
			if st.dist[w] == next {
				st.sigma[w] += st.sigma[v]
				st.pred[w] = append(st.pred[w], v)
			}
		}
	}

	// Phase 2: replay finalization order backwards so every successor of w
	// is settled before w passes its dependency on.
	for i := len(st.order) - 1; i >= 0; i-- {
		w := st.order[i]
		for _, v := range st.pred[w] {
			st.delta[v] += (st.sigma[v] / st.sigma[w]) * (1.0 + st.delta[w])
		}
		if w != source {
			totals[w] += st.delta[w]
		}
	}

	st.reset()
}

func (st *dependencyState) reset() {
	for _, v := range st.order {
		st.sigma[v] = 0
		st.delta[v] = 0
		st.pred[v] = st.pred[v][:0]
	}
	st.traversal.reset()
}

// BetweennessCentrality computes betweenness centrality for every node with
// Brandes' algorithm. Scores are raw pair counts for an undirected graph:
// the per-source sums are halved because each unordered pair is seen from
// both endpoints. Every node in g gets an entry.
func BetweennessCentrality(g graph.Graph) map[uint64]float64 {
	betweenness, _ := BetweennessCentralityContext(context.Background(), g)
	return betweenness
}

// BetweennessCentralityContext is BetweennessCentrality with cancellation
// checked before each source node's pass.
func BetweennessCentralityContext(ctx context.Context, g graph.Graph) (map[uint64]float64, error) {
	idx := newNodeIndex(g)
	st := newDependencyState(idx)

	totals := make([]float64, idx.len())
	for source := 0; source < idx.keys; source++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st.accumulate(int32(source), totals)
	}

	betweenness := make(map[uint64]float64, idx.keys)
	for i := 0; i < idx.keys; i++ {
		betweenness[idx.ids[i]] = totals[i] / 2.0
	}
	return betweenness, nil
}
