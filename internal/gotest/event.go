// Package gotest adapts `go test -json` (test2json) output to session result
// records. It can decode a captured stream or run the host runner as a child
// process.
package gotest

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/testnotifier/testnotifier/internal/session"
)

// Actions emitted by test2json
const (
	ActionStart       = "start"
	ActionRun         = "run"
	ActionPause       = "pause"
	ActionCont        = "cont"
	ActionPass        = "pass"
	ActionBench       = "bench"
	ActionFail        = "fail"
	ActionOutput      = "output"
	ActionSkip        = "skip"
	ActionBuildOutput = "build-output"
	ActionBuildFail   = "build-fail"
)

// TestEvent represents a single event from go test -json output.
type TestEvent struct {
	Time        time.Time `json:"Time"`
	Action      string    `json:"Action"`
	Package     string    `json:"Package"`
	ImportPath  string    `json:"ImportPath"`
	Test        string    `json:"Test"`
	Elapsed     float64   `json:"Elapsed"`
	Output      string    `json:"Output"`
	FailedBuild string    `json:"FailedBuild"`
}

// PackageLevel reports whether the event describes a package rather than a test
func (e TestEvent) PackageLevel() bool {
	return e.Test == ""
}

// ElapsedDuration converts the Elapsed seconds to a duration
func (e TestEvent) ElapsedDuration() time.Duration {
	return time.Duration(e.Elapsed * float64(time.Second))
}

// pkg returns the package the event belongs to. Build events carry an
// ImportPath instead of a Package.
func (e TestEvent) pkg() string {
	if e.Package != "" {
		return e.Package
	}
	return e.ImportPath
}

// DecodeEvent parses one line of go test -json output.
// ok is false for lines that are not test2json objects (interleaved plain
// output from the go command or wrapper tools).
func DecodeEvent(line []byte) (TestEvent, bool) {
	trimmed := strings.TrimSpace(string(line))
	if !strings.HasPrefix(trimmed, "{") {
		return TestEvent{}, false
	}
	var ev TestEvent
	if err := json.Unmarshal([]byte(trimmed), &ev); err != nil {
		return TestEvent{}, false
	}
	if ev.Action == "" {
		return TestEvent{}, false
	}
	return ev, true
}

// packageState tracks per-package outcomes needed to classify the package's
// own terminal event
type packageState struct {
	failedTests int
}

// Classifier maps test2json events to result records. It is stateful: a
// package-level failure is only an error when none of the package's tests
// failed.
type Classifier struct {
	packages map[string]*packageState
}

// NewClassifier creates an empty classifier
func NewClassifier() *Classifier {
	return &Classifier{packages: make(map[string]*packageState)}
}

func (c *Classifier) state(pkg string) *packageState {
	st, ok := c.packages[pkg]
	if !ok {
		st = &packageState{}
		c.packages[pkg] = st
	}
	return st
}

// Classify returns the record for ev, or false when the event carries no outcome.
func (c *Classifier) Classify(ev TestEvent) (session.ResultRecord, bool) {
	rec := session.ResultRecord{
		Name:    ev.Test,
		Package: ev.pkg(),
		Elapsed: ev.ElapsedDuration(),
	}

	switch ev.Action {
	case ActionBuildFail:
		rec.Category = session.CategoryError
		rec.Phase = session.PhaseCall
		return rec, true
	case ActionPass, ActionFail, ActionSkip:
	default:
		return session.ResultRecord{}, false
	}

	st := c.state(rec.Package)

	if !ev.PackageLevel() {
		rec.Phase = session.PhaseCall
		switch ev.Action {
		case ActionPass:
			rec.Category = session.CategoryPassed
		case ActionFail:
			rec.Category = session.CategoryFailed
			st.failedTests++
		case ActionSkip:
			rec.Category = session.CategoryDeselected
		}
		return rec, true
	}

	// Package summaries are kept for listings but not counted, except for a
	// failure that no test accounts for: build errors, TestMain failures,
	// panics outside a test and timeouts.
	rec.Phase = session.PhaseTeardown
	switch ev.Action {
	case ActionPass:
		rec.Category = session.CategoryPassed
	case ActionSkip:
		rec.Category = session.CategoryDeselected
	case ActionFail:
		rec.Category = session.CategoryFailed
		if st.failedTests == 0 && ev.FailedBuild == "" {
			rec.Category = session.CategoryError
			rec.Phase = session.PhaseCall
		}
	}
	return rec, true
}
