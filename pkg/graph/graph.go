package graph

import (
	"slices"
)

// Graph is an undirected graph stored as an adjacency mapping from node ID to
// the ordered list of its neighbor IDs. Every edge u-v appears in both lists.
//
// Algorithms treat a Graph as read-only shared state. Only loaders and the
// repair helpers in this package mutate one.
type Graph map[uint64][]uint64

// New returns an empty graph.
func New() Graph {
	return make(Graph)
}

// AddNode ensures id is present in the key set, with no neighbors if new.
func (g Graph) AddNode(id uint64) {
	if _, ok := g[id]; !ok {
		g[id] = nil
	}
}

// AddEdge records the undirected edge u-v by appending to both adjacency lists.
// Duplicate edges are kept; a self-loop appends u to its own list twice.
func (g Graph) AddEdge(u, v uint64) {
	g[u] = append(g[u], v)
	g[v] = append(g[v], u)
}

// Neighbors returns the adjacency list of id. A node absent from the key set
// has no neighbors.
func (g Graph) Neighbors(id uint64) []uint64 {
	return g[id]
}

// Has reports whether id is in the key set.
func (g Graph) Has(id uint64) bool {
	_, ok := g[id]
	return ok
}

// NodeIDs returns the key set in ascending order.
func (g Graph) NodeIDs() []uint64 {
	ids := make([]uint64, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// NodeCount returns the number of nodes in the key set.
func (g Graph) NodeCount() int {
	return len(g)
}

// EdgeCount returns the number of undirected edges, counting duplicates.
func (g Graph) EdgeCount() int {
	entries := 0
	for _, neighbors := range g {
		entries += len(neighbors)
	}
	return entries / 2
}

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	out := make(Graph, len(g))
	for id, neighbors := range g {
		out[id] = slices.Clone(neighbors)
	}
	return out
}
