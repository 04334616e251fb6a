package health

import (
	"sync"
	"time"
)

// Phase is a stage of a centrality run.
type Phase string

const (
	PhaseStarting  Phase = "starting"
	PhaseLoading   Phase = "loading"
	PhaseComputing Phase = "computing"
	PhaseReporting Phase = "reporting"
	PhaseDone      Phase = "done"
	PhaseFailed    Phase = "failed"
)

// RunState tracks the phase of the current run.
type RunState struct {
	mu      sync.RWMutex
	phase   Phase
	err     error
	changed time.Time
}

// NewRunState returns a state in PhaseStarting.
func NewRunState() *RunState {
	return &RunState{phase: PhaseStarting, changed: time.Now()}
}

// Set moves the run to phase.
func (s *RunState) Set(phase Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = phase
	s.changed = time.Now()
}

// Fail marks the run failed with err.
func (s *RunState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseFailed
	s.err = err
	s.changed = time.Now()
}

// Phase returns the current phase.
func (s *RunState) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Progress is a liveness check: unhealthy once the run has failed. Its
// details carry the phase and how long the run has been in it.
func (s *RunState) Progress() CheckFunc {
	return func() Result {
		s.mu.RLock()
		defer s.mu.RUnlock()

		res := Result{
			Status: StatusHealthy,
			Details: map[string]any{
				"phase":       string(s.phase),
				"in_phase_ms": time.Since(s.changed).Milliseconds(),
			},
		}
		if s.phase == PhaseFailed {
			res.Status = StatusUnhealthy
			if s.err != nil {
				res.Message = s.err.Error()
			}
		}
		return res
	}
}

// GraphLoaded is a readiness check: healthy once loading has finished and
// the run has not failed.
func (s *RunState) GraphLoaded() CheckFunc {
	return func() Result {
		switch s.Phase() {
		case PhaseStarting, PhaseLoading:
			return Result{Status: StatusUnhealthy, Message: "graph not loaded"}
		case PhaseFailed:
			return Result{Status: StatusUnhealthy, Message: "run failed"}
		default:
			return Result{Status: StatusHealthy}
		}
	}
}
