package algorithms

import (
	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

// traversal is the reusable working state of one breadth-first search over a
// nodeIndex. Visitation is tracked by reached, never by a distance sentinel.
type traversal struct {
	idx     *nodeIndex
	reached []bool
	dist    []int32
	// order holds nodes in the order they were dequeued. It is also the FIFO
	// frontier: head marks the next node to expand.
	order []int32
}

func newTraversal(idx *nodeIndex) *traversal {
	n := idx.len()
	return &traversal{
		idx:     idx,
		reached: make([]bool, n),
		dist:    make([]int32, n),
		order:   make([]int32, 0, n),
	}
}

// visit marks w reached at the given distance and enqueues it.
func (t *traversal) visit(w, d int32) {
	t.reached[w] = true
	t.dist[w] = d
	t.order = append(t.order, w)
}

// run computes hop distances from source to every reachable node.
func (t *traversal) run(source int32) {
	t.visit(source, 0)
	for head := 0; head < len(t.order); head++ {
		v := t.order[head]
		for _, w := range t.idx.adj[v] {
			if !t.reached[w] {
				t.visit(w, t.dist[v]+1)
			}
		}
	}
}

// distanceSum returns the sum of distances from the last source.
func (t *traversal) distanceSum() int64 {
	var total int64
	for _, v := range t.order {
		total += int64(t.dist[v])
	}
	return total
}

// reset clears state touched by the last run in time proportional to the
// number of nodes it reached.
func (t *traversal) reset() {
	for _, v := range t.order {
		t.reached[v] = false
	}
	t.order = t.order[:0]
}

// ShortestPathLengths returns the hop distance from source to every node
// reachable from it, including source itself at distance 0. Unreachable nodes
// have no entry. A source without neighbors, or absent from g, yields
// {source: 0}. Neighbor IDs missing from g's key set are reachable but lead
// nowhere further.
func ShortestPathLengths(g graph.Graph, source uint64) map[uint64]int {
	if len(g[source]) == 0 {
		return map[uint64]int{source: 0}
	}

	idx := newNodeIndex(g)
	t := newTraversal(idx)
	t.run(idx.pos[source])

	distances := make(map[uint64]int, len(t.order))
	for _, v := range t.order {
		distances[idx.ids[v]] = int(t.dist[v])
	}
	return distances
}
