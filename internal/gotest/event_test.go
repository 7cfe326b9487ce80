package gotest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testnotifier/testnotifier/internal/session"
)

func TestDecodeEvent(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		line   string
		wantOK bool
		want   TestEvent
	}{
		"test pass": {
			line:   `{"Time":"2024-03-01T10:00:00Z","Action":"pass","Package":"p","Test":"TestA","Elapsed":0.5}`,
			wantOK: true,
			want: TestEvent{
				Time:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
				Action:  "pass",
				Package: "p",
				Test:    "TestA",
				Elapsed: 0.5,
			},
		},
		"leading whitespace": {
			line:   `   {"Action":"run","Package":"p","Test":"TestA"}`,
			wantOK: true,
			want:   TestEvent{Action: "run", Package: "p", Test: "TestA"},
		},
		"build event": {
			line:   `{"ImportPath":"p [p.test]","Action":"build-fail"}`,
			wantOK: true,
			want:   TestEvent{ImportPath: "p [p.test]", Action: "build-fail"},
		},
		"plain text":          {line: "ok  \tp\t0.01s", wantOK: false},
		"broken json":         {line: `{"Action":"pass"`, wantOK: false},
		"json without action": {line: `{"Package":"p"}`, wantOK: false},
		"empty":               {line: "", wantOK: false},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ev, ok := DecodeEvent([]byte(tt.line))
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, tt.want.Time.Equal(ev.Time))
				ev.Time = tt.want.Time
				assert.Equal(t, tt.want, ev)
			}
		})
	}
}

func TestTestEvent_ElapsedDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1500*time.Millisecond, TestEvent{Elapsed: 1.5}.ElapsedDuration())
	assert.Equal(t, time.Duration(0), TestEvent{}.ElapsedDuration())
}

func TestClassifier(t *testing.T) {
	t.Parallel()

	type want struct {
		ok       bool
		category session.Category
		phase    session.Phase
	}

	tests := map[string]struct {
		prior []TestEvent
		event TestEvent
		want  want
	}{
		"test pass": {
			event: TestEvent{Action: ActionPass, Package: "p", Test: "TestA"},
			want:  want{true, session.CategoryPassed, session.PhaseCall},
		},
		"test fail": {
			event: TestEvent{Action: ActionFail, Package: "p", Test: "TestA"},
			want:  want{true, session.CategoryFailed, session.PhaseCall},
		},
		"test skip is deselected": {
			event: TestEvent{Action: ActionSkip, Package: "p", Test: "TestA"},
			want:  want{true, session.CategoryDeselected, session.PhaseCall},
		},
		"package pass is teardown": {
			event: TestEvent{Action: ActionPass, Package: "p"},
			want:  want{true, session.CategoryPassed, session.PhaseTeardown},
		},
		"package skip is teardown": {
			event: TestEvent{Action: ActionSkip, Package: "p"},
			want:  want{true, session.CategoryDeselected, session.PhaseTeardown},
		},
		"package fail without failed tests is an error": {
			prior: []TestEvent{{Action: ActionPass, Package: "p", Test: "TestA"}},
			event: TestEvent{Action: ActionFail, Package: "p"},
			want:  want{true, session.CategoryError, session.PhaseCall},
		},
		"package fail after a failed test is teardown": {
			prior: []TestEvent{{Action: ActionFail, Package: "p", Test: "TestA"}},
			event: TestEvent{Action: ActionFail, Package: "p"},
			want:  want{true, session.CategoryFailed, session.PhaseTeardown},
		},
		"failed test in another package does not mask error": {
			prior: []TestEvent{{Action: ActionFail, Package: "q", Test: "TestA"}},
			event: TestEvent{Action: ActionFail, Package: "p"},
			want:  want{true, session.CategoryError, session.PhaseCall},
		},
		"package fail after build failure is teardown": {
			event: TestEvent{Action: ActionFail, Package: "p", FailedBuild: "p [p.test]"},
			want:  want{true, session.CategoryFailed, session.PhaseTeardown},
		},
		"build-fail is an error": {
			event: TestEvent{Action: ActionBuildFail, ImportPath: "p [p.test]"},
			want:  want{true, session.CategoryError, session.PhaseCall},
		},
		"run carries no outcome":    {event: TestEvent{Action: ActionRun, Package: "p", Test: "TestA"}},
		"output carries no outcome": {event: TestEvent{Action: ActionOutput, Package: "p"}},
		"pause carries no outcome":  {event: TestEvent{Action: ActionPause, Package: "p", Test: "TestA"}},
		"bench carries no outcome":  {event: TestEvent{Action: ActionBench, Package: "p", Test: "BenchmarkA"}},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := NewClassifier()
			for _, ev := range tt.prior {
				c.Classify(ev)
			}

			rec, ok := c.Classify(tt.event)
			require.Equal(t, tt.want.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.want.category, rec.Category)
			assert.Equal(t, tt.want.phase, rec.Phase)
			assert.Equal(t, tt.event.Test, rec.Name)
		})
	}
}

func TestClassifier_BuildEventUsesImportPath(t *testing.T) {
	t.Parallel()

	rec, ok := NewClassifier().Classify(TestEvent{Action: ActionBuildFail, ImportPath: "p [p.test]"})
	require.True(t, ok)
	assert.Equal(t, "p [p.test]", rec.Package)
}
