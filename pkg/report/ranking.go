package report

import (
	"container/heap"
)

// RankedNode is a node with its score for one metric.
type RankedNode struct {
	NodeID uint64  `json:"node_id" yaml:"node_id"`
	Score  float64 `json:"score" yaml:"score"`
}

// ranksBelow reports whether a orders after b: lower score, or the same
// score and a larger node ID.
func ranksBelow(a, b RankedNode) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.NodeID > b.NodeID
}

// rankedNodeHeap is a min-heap whose root is the lowest-ranked node kept.
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int           { return len(h) }
func (h rankedNodeHeap) Less(i, j int) bool { return ranksBelow(h[i], h[j]) }
func (h rankedNodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *rankedNodeHeap) Push(x any) {
	*h = append(*h, x.(RankedNode))
}

func (h *rankedNodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// Rank returns the k highest-scoring nodes, highest first, with ties broken
// by ascending node ID. k <= 0 returns every node.
// Time complexity: O(n log k)
func Rank(scores map[uint64]float64, k int) []RankedNode {
	if k <= 0 || k > len(scores) {
		k = len(scores)
	}
	if k == 0 {
		return nil
	}

	h := make(rankedNodeHeap, 0, k)
	for nodeID, score := range scores {
		rn := RankedNode{NodeID: nodeID, Score: score}
		if h.Len() < k {
			heap.Push(&h, rn)
		} else if ranksBelow(h[0], rn) {
			h[0] = rn
			heap.Fix(&h, 0)
		}
	}

	// Popping yields ascending rank order, so fill from the back.
	result := make([]RankedNode, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedNode)
	}
	return result
}

// RankDegree ranks integer degrees the same way Rank does.
func RankDegree(degrees map[uint64]int, k int) []RankedNode {
	scores := make(map[uint64]float64, len(degrees))
	for id, d := range degrees {
		scores[id] = float64(d)
	}
	return Rank(scores, k)
}
