package session

import (
	"errors"
	"sync"
	"time"
)

// ErrAlreadyFinished is returned when Finish is called on a finished session
var ErrAlreadyFinished = errors.New("session already finished")

// State is the lifecycle state of a Session
type State int

const (
	// StateRunning means tests are still executing
	StateRunning State = iota
	// StateFinished is terminal; the outcome has been computed
	StateFinished
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Session accumulates result records while the host runner executes tests.
// It transitions Running -> Finished exactly once.
//
// Record may be called from the goroutine reading the host's event stream while
// another goroutine reads Snapshot for progress display, so access is guarded.
type Session struct {
	mu      sync.Mutex
	start   time.Time
	state   State
	stats   Stats
	outcome Outcome
}

// New starts a session at the given time
func New(start time.Time) *Session {
	return &Session{
		start: start,
		state: StateRunning,
		stats: make(Stats),
	}
}

// Start returns the session start time
func (s *Session) Start() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start
}

// SetStart overrides the start time while the session is running.
// Replayed streams use the timestamp of their first event.
func (s *Session) SetStart(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		s.start = t
	}
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Record adds a result record. Records arriving after Finish are dropped.
func (s *Session) Record(r ResultRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return
	}
	s.stats[r.Category] = append(s.stats[r.Category], r)
}

// Stats returns a copy of the records grouped by category
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Stats, len(s.stats))
	for cat, records := range s.stats {
		out[cat] = append([]ResultRecord(nil), records...)
	}
	return out
}

// Snapshot returns the current counts without finishing the session
func (s *Session) Snapshot() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CountCalls(s.stats)
}

// Finish transitions the session to Finished and returns its outcome.
// Duration is measured from the session start to now.
func (s *Session) Finish(status ExitStatus, now time.Time) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateFinished {
		return s.outcome, ErrAlreadyFinished
	}

	duration := now.Sub(s.start)
	if duration < 0 {
		duration = 0
	}

	s.outcome = Outcome{
		Status:   status,
		Counts:   CountCalls(s.stats),
		Duration: duration,
	}
	s.state = StateFinished
	return s.outcome, nil
}

// Outcome returns the finished outcome; ok is false while the session is running
func (s *Session) Outcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome, s.state == StateFinished
}
