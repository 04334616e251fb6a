// Package health exposes liveness and readiness probes for a centrality run.
package health

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Status of a probe or of one check within it.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Probe selects which set of checks an endpoint evaluates.
type Probe int

const (
	// Live reports whether the run is still making progress.
	Live Probe = iota
	// Ready reports whether there is a loaded graph to work on.
	Ready
)

// Result is the outcome of one check.
type Result struct {
	Name    string         `json:"name"`
	Status  Status         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// CheckFunc produces a Result; Name is filled in by the Checker.
type CheckFunc func() Result

// Report is the JSON body served by a probe endpoint.
type Report struct {
	Status  Status    `json:"status"`
	Time    time.Time `json:"time"`
	Elapsed string    `json:"elapsed"`
	Checks  []Result  `json:"checks"`
}

// Checker holds named checks per probe.
type Checker struct {
	mu      sync.RWMutex
	checks  map[Probe]map[string]CheckFunc
	started time.Time
}

// NewChecker creates an empty Checker.
func NewChecker() *Checker {
	return &Checker{
		checks:  map[Probe]map[string]CheckFunc{Live: {}, Ready: {}},
		started: time.Now(),
	}
}

// Add registers fn under name for probe p, replacing any previous check.
func (c *Checker) Add(p Probe, name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.checks[p] == nil {
		c.checks[p] = make(map[string]CheckFunc)
	}
	c.checks[p][name] = fn
}

// Evaluate runs every check of probe p. The probe is unhealthy if any check
// is. Checks are reported in name order.
func (c *Checker) Evaluate(p Probe) Report {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	rep := Report{
		Status:  StatusHealthy,
		Time:    now,
		Elapsed: now.Sub(c.started).Round(time.Millisecond).String(),
	}

	for name, fn := range c.checks[p] {
		res := fn()
		res.Name = name
		if res.Status != StatusHealthy {
			rep.Status = StatusUnhealthy
		}
		rep.Checks = append(rep.Checks, res)
	}
	sort.Slice(rep.Checks, func(i, j int) bool { return rep.Checks[i].Name < rep.Checks[j].Name })

	return rep
}

// Handler serves probe p as JSON: 200 when healthy, 503 otherwise.
func (c *Checker) Handler(p Probe) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rep := c.Evaluate(p)

		w.Header().Set("Content-Type", "application/json")
		if rep.Status == StatusHealthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(rep)
	})
}
