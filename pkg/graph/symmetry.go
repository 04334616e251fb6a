package graph

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// maxReportedPairs caps the pairs listed by AsymmetryError.
const maxReportedPairs = 10

// Pair is an ordered adjacency entry: V appears in the neighbor list of U.
type Pair struct {
	U, V uint64
}

// AsymmetryError reports adjacency entries without a matching back-entry.
type AsymmetryError struct {
	// Pairs holds the first offending entries in ascending order.
	Pairs []Pair
	// Total is the number of offending entries.
	Total int
}

func (e *AsymmetryError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "graph is not symmetric: %d adjacency entries lack a back-edge", e.Total)
	for i, p := range e.Pairs {
		if i == 0 {
			b.WriteString(" (")
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d->%d", p.U, p.V)
	}
	if len(e.Pairs) > 0 {
		if e.Total > len(e.Pairs) {
			b.WriteString(", ...")
		}
		b.WriteString(")")
	}
	return b.String()
}

// missingBackEdges returns, for every entry u->v occurring more often than
// v->u, how many back-entries v->u are missing.
func missingBackEdges(g Graph) map[Pair]int {
	counts := make(map[Pair]int)
	for u, neighbors := range g {
		for _, v := range neighbors {
			counts[Pair{U: u, V: v}]++
		}
	}

	missing := make(map[Pair]int)
	for p, c := range counts {
		if back := counts[Pair{U: p.V, V: p.U}]; back < c {
			missing[p] = c - back
		}
	}
	return missing
}

func sortedPairs(m map[Pair]int) []Pair {
	pairs := make([]Pair, 0, len(m))
	for p := range m {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, func(a, b Pair) int {
		if c := cmp.Compare(a.U, b.U); c != 0 {
			return c
		}
		return cmp.Compare(a.V, b.V)
	})
	return pairs
}

// CheckSymmetry returns an *AsymmetryError if some neighbor entry u->v has no
// matching v->u, counting duplicates. A neighbor absent from the key set is
// always asymmetric.
func CheckSymmetry(g Graph) error {
	missing := missingBackEdges(g)
	if len(missing) == 0 {
		return nil
	}

	total := 0
	for _, c := range missing {
		total += c
	}

	pairs := sortedPairs(missing)
	if len(pairs) > maxReportedPairs {
		pairs = pairs[:maxReportedPairs]
	}
	return &AsymmetryError{Pairs: pairs, Total: total}
}

// Symmetrize returns a copy of g with every missing back-entry appended, so
// that the result satisfies CheckSymmetry. Dangling neighbors become keys.
// The second return value is the number of entries added.
func Symmetrize(g Graph) (Graph, int) {
	out := g.Clone()
	missing := missingBackEdges(g)

	added := 0
	for _, p := range sortedPairs(missing) {
		for i := 0; i < missing[p]; i++ {
			out[p.V] = append(out[p.V], p.U)
			added++
		}
	}
	return out, added
}
