package agent

import (
	"sync"
	"time"
)

// Stats are the agent's cumulative counters. Monotonically
// non-decreasing for the process lifetime.
type Stats struct {
	TotalRuns      int64 `json:"totalRuns"`
	EmailsSent     int64 `json:"emailsSent"`
	PostsProcessed int64 `json:"postsProcessed"`
}

// Snapshot is a point-in-time copy of the run state for /status.
type Snapshot struct {
	Running bool       `json:"running"`
	LastRun *time.Time `json:"lastRun"`
	Stats   Stats      `json:"stats"`
}

// RunState records whether the agent is active, the last successful
// run, and cumulative counters. Constructed explicitly and injected so
// tests can hold independent instances.
type RunState struct {
	mu      sync.Mutex
	running bool
	lastRun *time.Time
	stats   Stats
}

func NewRunState() *RunState {
	return &RunState{}
}

// TryActivate flips the running flag on. It reports false, without
// side effects, when the agent was already active.
func (s *RunState) TryActivate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *RunState) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

func (s *RunState) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RecordCycle marks a successful cycle: bumps the run counter, adds
// the fetched-post count, and stamps the last-run time.
func (s *RunState) RecordCycle(posts int) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalRuns++
	s.stats.PostsProcessed += int64(posts)
	s.lastRun = &now
}

func (s *RunState) RecordEmailSent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.EmailsSent++
}

func (s *RunState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{Running: s.running, Stats: s.stats}
	if s.lastRun != nil {
		t := *s.lastRun
		snap.LastRun = &t
	}
	return snap
}
