package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

// DegreeCentrality returns the length of every node's neighbor list.
// Duplicate entries are counted, mirroring how the edges were recorded.
func DegreeCentrality(g graph.Graph) map[uint64]int {
	degree := make(map[uint64]int, len(g))
	for nodeID, neighbors := range g {
		degree[nodeID] = len(neighbors)
	}
	return degree
}

// ClosenessCentrality scores every node as 1 / (sum of hop distances to the
// nodes it can reach), or 0 when it reaches nothing.
//
// This is the inverse-sum convention, not (n-1)/sum: scores are only
// comparable within one graph.
func ClosenessCentrality(g graph.Graph) map[uint64]float64 {
	closeness, _ := ClosenessCentralityContext(context.Background(), g)
	return closeness
}

// ClosenessCentralityContext is ClosenessCentrality with cancellation checked
// before each source node's search.
func ClosenessCentralityContext(ctx context.Context, g graph.Graph) (map[uint64]float64, error) {
	idx := newNodeIndex(g)
	t := newTraversal(idx)

	closeness := make(map[uint64]float64, idx.keys)
	for source := 0; source < idx.keys; source++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t.run(int32(source))
		if total := t.distanceSum(); total > 0 {
			closeness[idx.ids[source]] = 1.0 / float64(total)
		} else {
			closeness[idx.ids[source]] = 0.0
		}
		t.reset()
	}

	return closeness, nil
}
