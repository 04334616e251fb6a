package algorithms

import (
	"slices"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

// nodeIndex is a dense, read-only view of a graph built once per computation.
// Positions [0, keys) hold the graph's key set in ascending ID order; any
// neighbor IDs absent from the key set follow, also ascending, and have no
// adjacency of their own.
type nodeIndex struct {
	ids  []uint64
	keys int
	pos  map[uint64]int32
	adj  [][]int32
}

func newNodeIndex(g graph.Graph) *nodeIndex {
	ids := g.NodeIDs()
	keys := len(ids)

	pos := make(map[uint64]int32, keys)
	for i, id := range ids {
		pos[id] = int32(i)
	}

	var dangling []uint64
	for _, id := range ids[:keys] {
		for _, w := range g[id] {
			if _, ok := pos[w]; !ok {
				pos[w] = -1
				dangling = append(dangling, w)
			}
		}
	}
	slices.Sort(dangling)
	for _, id := range dangling {
		pos[id] = int32(len(ids))
		ids = append(ids, id)
	}

	adj := make([][]int32, len(ids))
	for i, id := range ids[:keys] {
		neighbors := g[id]
		row := make([]int32, len(neighbors))
		for j, w := range neighbors {
			row[j] = pos[w]
		}
		adj[i] = row
	}

	return &nodeIndex{ids: ids, keys: keys, pos: pos, adj: adj}
}

func (x *nodeIndex) len() int {
	return len(x.ids)
}
