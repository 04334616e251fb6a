package report

import (
	"time"

	"github.com/dd0wney/cluso-centrality/pkg/engine"
)

// Section is the ranked output of one metric.
type Section struct {
	Metric   string        `json:"metric" yaml:"metric"`
	Duration time.Duration `json:"duration_ns" yaml:"duration"`
	Top      []RankedNode  `json:"top" yaml:"top"`
}

// Report is the presentation form of an engine result.
type Report struct {
	RunID    string    `json:"run_id" yaml:"run_id"`
	Nodes    int       `json:"nodes" yaml:"nodes"`
	Edges    int       `json:"edges" yaml:"edges"`
	TopK     int       `json:"top_k" yaml:"top_k"`
	Sections []Section `json:"metrics" yaml:"metrics"`
}

// Build ranks every computed metric of res, keeping the top k nodes of each.
// A node known to another metric but missing from betweenness is ranked with
// betweenness 0.
func Build(res *engine.Result, k int) *Report {
	rep := &Report{
		RunID: res.RunID.String(),
		Nodes: res.Nodes,
		Edges: res.Edges,
		TopK:  k,
	}

	for _, m := range engine.AllMetrics {
		var top []RankedNode
		switch m {
		case engine.Degree:
			if res.Degree == nil {
				continue
			}
			top = RankDegree(res.Degree, k)
		case engine.Closeness:
			if res.Closeness == nil {
				continue
			}
			top = Rank(res.Closeness, k)
		case engine.Betweenness:
			if res.Betweenness == nil {
				continue
			}
			top = Rank(withMissingAsZero(res), k)
		}

		rep.Sections = append(rep.Sections, Section{
			Metric:   string(m),
			Duration: res.Durations[m],
			Top:      top,
		})
	}
	return rep
}

func withMissingAsZero(res *engine.Result) map[uint64]float64 {
	scores := make(map[uint64]float64, len(res.Betweenness))
	for id, s := range res.Betweenness {
		scores[id] = s
	}
	for id := range res.Degree {
		if _, ok := scores[id]; !ok {
			scores[id] = 0
		}
	}
	for id := range res.Closeness {
		if _, ok := scores[id]; !ok {
			scores[id] = 0
		}
	}
	return scores
}
