package engine

import (
	"errors"
	"fmt"
)

// Metric names a centrality measure.
type Metric string

const (
	Degree      Metric = "degree"
	Closeness   Metric = "closeness"
	Betweenness Metric = "betweenness"
)

// AllMetrics lists every metric in presentation order.
var AllMetrics = []Metric{Degree, Closeness, Betweenness}

// ErrUnknownMetric is returned for an unrecognized metric name.
var ErrUnknownMetric = errors.New("unknown metric")

// ParseMetrics converts names to metrics, dropping duplicates and keeping
// presentation order.
func ParseMetrics(names []string) ([]Metric, error) {
	want := make(map[Metric]bool, len(names))
	for _, name := range names {
		m := Metric(name)
		switch m {
		case Degree, Closeness, Betweenness:
			want[m] = true
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
		}
	}

	out := make([]Metric, 0, len(want))
	for _, m := range AllMetrics {
		if want[m] {
			out = append(out, m)
		}
	}
	return out, nil
}
