// Package runner tests the run and report commands end to end with a recording sender.
// Related: internal/cli/runner/run.go, internal/cli/runner/report.go
// Tags: cli, run, report, notifications, exit-codes
package runner

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testnotifier/testnotifier/internal/cli/shared"
	clierrors "github.com/testnotifier/testnotifier/internal/errors"
	"github.com/testnotifier/testnotifier/internal/history"
	"github.com/testnotifier/testnotifier/internal/lifecycle"
	"github.com/testnotifier/testnotifier/internal/notify"
	"github.com/testnotifier/testnotifier/internal/session"
	"github.com/testnotifier/testnotifier/internal/summary"
	"github.com/testnotifier/testnotifier/internal/testutil"
)

// recordingSender records notifications and the config they were built from
type recordingSender struct {
	*testutil.MockSender
	cfg notify.Config
}

// useRecordingSender swaps the package sender factory. Tests using it must not
// run in parallel.
func useRecordingSender(t *testing.T) *recordingSender {
	t.Helper()
	rec := &recordingSender{MockSender: testutil.NewMockSender()}
	orig := newSender
	newSender = func(cfg notify.Config) lifecycle.NotificationSender {
		rec.cfg = cfg
		return rec
	}
	t.Cleanup(func() { newSender = orig })
	return rec
}

// isolate keeps the user config, dotenv file and environment out of the test
func isolate(t *testing.T) string {
	t.Helper()
	return testutil.IsolateEnv(t)
}

func newTestRoot(stdin string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	root := &cobra.Command{Use: "testnotifier", SilenceUsage: true, SilenceErrors: true}
	root.AddGroup(&cobra.Group{ID: shared.GroupTesting, Title: "Testing:"})
	shared.RegisterGlobalFlags(root.PersistentFlags())
	Register(root)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	return root, &stdout, &stderr
}

func writeEvents(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	return testutil.WriteLines(t, filepath.Join(dir, "events.jsonl"), lines...)
}

const (
	evPassA = `{"Time":"2024-03-01T10:00:00Z","Action":"pass","Package":"p","Test":"TestA","Elapsed":0.1}`
	evPassB = `{"Time":"2024-03-01T10:00:01Z","Action":"pass","Package":"p","Test":"TestB","Elapsed":0.1}`
	evOutC  = `{"Time":"2024-03-01T10:00:01.5Z","Action":"output","Package":"p","Test":"TestC","Output":"    c_test.go:9: nope\n"}`
	evFailC = `{"Time":"2024-03-01T10:00:02Z","Action":"fail","Package":"p","Test":"TestC","Elapsed":0.1}`
	evPkg   = `{"Time":"2024-03-01T10:00:02.5Z","Action":"fail","Package":"p","Elapsed":2.5}`
)

func TestReport(t *testing.T) {
	tests := map[string]struct {
		lines      []string
		extraArgs  []string
		wantTitle  string
		wantBody   string
		wantKind   summary.Kind
		wantCode   int
		wantStdout string
	}{
		"passing stream": {
			lines:     []string{evPassA, evPassB},
			wantTitle: "go test",
			wantBody:  "Success - 2 Passed in 1.00s",
			wantKind:  summary.KindPass,
			wantCode:  0,
		},
		"failing stream prints failure output": {
			lines:      []string{evPassA, evPassB, evOutC, evFailC, evPkg},
			wantTitle:  "go test",
			wantBody:   "2 Passed 1 Failed in 2.50s",
			wantKind:   summary.KindFail,
			wantCode:   1,
			wantStdout: "--- FAIL: TestC (p)\n    c_test.go:9: nope\n",
		},
		"interrupted": {
			lines:     []string{evPassA, evPassB},
			extraArgs: []string{"--interrupted"},
			wantTitle: "go test - interrupted",
			wantBody:  "2 Passed in 1.00s",
			wantKind:  summary.KindInterrupt,
			wantCode:  130,
		},
		"explicit start": {
			lines:     []string{evPassB},
			extraArgs: []string{"--start", "2024-03-01T09:59:58Z"},
			wantTitle: "go test",
			wantBody:  "Success - 1 Passed in 3.00s",
			wantKind:  summary.KindPass,
		},
		"empty stream": {
			lines:     []string{`{"Action":"skip","Package":"q"}`},
			wantTitle: "go test",
			wantBody:  "No tests ran in 0.00s",
			wantKind:  summary.KindZero,
		},
		"custom title flag": {
			lines:     []string{evPassA},
			extraArgs: []string{"--notifier-onpass-title", "green"},
			wantTitle: "green",
			wantBody:  "Success - 1 Passed in 0.00s",
			wantKind:  summary.KindPass,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			rec := useRecordingSender(t)
			path := writeEvents(t, dir, tt.lines...)

			root, stdout, stderr := newTestRoot("")
			args := append([]string{"report"}, tt.extraArgs...)
			root.SetArgs(append(args, path))
			err := root.Execute()

			assert.Equal(t, tt.wantCode, shared.ExitCode(err), "err: %v", err)
			require.Equal(t, 1, rec.GetCallCount())
			assert.Equal(t, testutil.CallRecord{Title: tt.wantTitle, Message: tt.wantBody, Kind: tt.wantKind}, rec.GetCalls()[0])
			assert.Contains(t, stderr.String(), tt.wantBody)
			assert.Equal(t, tt.wantStdout, stdout.String())
		})
	}
}

func TestReport_ConfigFlagsReachSender(t *testing.T) {
	isolate(t)
	rec := useRecordingSender(t)

	root, _, _ := newTestRoot(evPassA + "\n")
	root.SetArgs([]string{"report", "--notifier-type", "both", "--notifier-timeout", "2s", "--notifier-skip-ci",
"-"})
	require.NoError(t, root.Execute())

	assert.Equal(t, notify.OutputBoth, rec.cfg.Type)
	assert.Equal(t, 2*time.Second, rec.cfg.Timeout)
	assert.True(t, rec.cfg.SkipCI)
}

func TestReport_NotifierDisabled(t *testing.T) {
	isolate(t)
	rec := useRecordingSender(t)

	root, _, stderr := newTestRoot(evPassA + "\n")
	root.SetArgs([]string{"report", "--notifier=false"})
	require.NoError(t, root.Execute())

	rec.AssertNotCalled(t)
	assert.Contains(t, stderr.String(), "1 Passed", "the summary line is printed regardless")
}

func TestReport_RecordsHistory(t *testing.T) {
	dir := isolate(t)
	useRecordingSender(t)
	path := writeEvents(t, dir, evPassA, evPassB, evOutC, evFailC, evPkg)

	root, _, _ := newTestRoot("")
	root.SetArgs([]string{"report", path})
	require.Error(t, root.Execute())

	h, err := history.LoadHistory(filepath.Join(dir, "state", "testnotifier"))
	require.NoError(t, err)
	require.Len(t, h.Entries, 1)
	e := h.Entries[0]
	assert.Equal(t, "report", e.Command)
	assert.Equal(t, "fail", e.Kind)
	assert.Equal(t, "2 Passed 1 Failed in 2.50s", e.Message)
	assert.Equal(t, 2, e.Passed)
	assert.Equal(t, 1, e.Failed)
	assert.Equal(t, 1, e.ExitCode)
	assert.Equal(t, "2.5s", e.Duration)
	assert.True(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Equal(e.Timestamp))
}

func TestReport_NoHistory(t *testing.T) {
	dir := isolate(t)
	useRecordingSender(t)

	root, _, _ := newTestRoot(evPassA + "\n")
	root.SetArgs([]string{"report", "--no-history"})
	require.NoError(t, root.Execute())

	assert.NoFileExists(t, filepath.Join(dir, "state", "testnotifier", history.HistoryFileName))
}

func TestReport_Errors(t *testing.T) {
	tests := map[string]struct {
		args         []string
		wantCategory clierrors.ErrorCategory
	}{
		"missing input": {
			args:         []string{"report", "does-not-exist.jsonl"},
			wantCategory: clierrors.Prerequisite,
		},
		"bad start": {
			args:         []string{"report", "--start", "yesterday"},
			wantCategory: clierrors.Argument,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			rec := useRecordingSender(t)

			root, _, _ := newTestRoot("")
			root.SetArgs(tt.args)
			err := root.Execute()

			cliErr := clierrors.AsCLIError(err)
			require.NotNil(t, cliErr, "err: %v", err)
			assert.Equal(t, tt.wantCategory, cliErr.Category)
			rec.AssertNotCalled(t)
		})
	}
}

// TestHelperProcess is not a real test. It stands in for go test -json when
// re-executed by the run command tests.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("RUNNER_HELPER_PROCESS") != "1" {
		return
	}
	fmt.Fprintln(os.Stdout, `{"Action":"run","Package":"p","Test":"TestA"}`)
	fmt.Fprintln(os.Stdout, `{"Action":"pass","Package":"p","Test":"TestA","Elapsed":0.01}`)
	if os.Getenv("HELPER_FAIL") == "1" {
		fmt.Fprintln(os.Stdout, `{"Action":"output","Package":"p","Test":"TestB","Output":"    b_test.go:3: broken\n"}`)
		fmt.Fprintln(os.Stdout, `{"Action":"fail","Package":"p","Test":"TestB","Elapsed":0.01}`)
		os.Exit(1)
	}
	os.Exit(0)
}

func TestRun(t *testing.T) {
	tests := map[string]struct {
		fail     bool
		wantCode int
		wantKind summary.Kind
		wantBody string
		wantOut  string
	}{
		"passing": {
			wantCode: 0,
			wantKind: summary.KindPass,
			wantBody: "1 Passed",
		},
		"failing": {
			fail:     true,
			wantCode: 1,
			wantKind: summary.KindFail,
			wantBody: "1 Passed 1 Failed",
			wantOut:  "--- FAIL: TestB (p)\n    b_test.go:3: broken\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			rec := useRecordingSender(t)
			t.Setenv("RUNNER_HELPER_PROCESS", "1")
			t.Setenv("HELPER_FAIL", map[bool]string{true: "1", false: "0"}[tt.fail])

			cfgPath := filepath.Join(dir, "config.yml")
			command := strconv.Quote(os.Args[0]) + " -test.run=^TestHelperProcess$"
			require.NoError(t, os.WriteFile(cfgPath, []byte("test_command: '"+command+"'\n"), 0o644))

			root, stdout, _ := newTestRoot("")
			root.SetArgs([]string{"run", "--config", cfgPath})
			err := root.Execute()

			assert.Equal(t, tt.wantCode, shared.ExitCode(err), "err: %v", err)
			require.Equal(t, 1, rec.GetCallCount())
			assert.Equal(t, tt.wantKind, rec.GetCalls()[0].Kind)
			assert.Contains(t, rec.GetCalls()[0].Message, tt.wantBody)
			assert.Equal(t, tt.wantOut, stdout.String())
		})
	}
}

func TestRun_CommandNotFound(t *testing.T) {
	dir := isolate(t)
	useRecordingSender(t)

	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("test_command: testnotifier-missing-binary -json\n"), 0o644))

	root, _, _ := newTestRoot("")
	root.SetArgs([]string{"run", "--config", cfgPath})
	err := root.Execute()

	cliErr := clierrors.AsCLIError(err)
	require.NotNil(t, cliErr, "err: %v", err)
	assert.Equal(t, clierrors.Prerequisite, cliErr.Category)
	assert.Contains(t, cliErr.Message, "testnotifier-missing-binary")
}

func TestSessionSpan(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(2 * time.Second)

	start, end := sessionSpan(time.Time{}, t0, t1)
	assert.Equal(t, t0, start)
	assert.Equal(t, t1, end)

	start, end = sessionSpan(t0.Add(-time.Second), t0, t1)
	assert.Equal(t, t0.Add(-time.Second), start)
	assert.Equal(t, t1, end)

	start, end = sessionSpan(t1.Add(time.Second), t0, t1)
	assert.Equal(t, start, end, "an end before the start collapses to zero duration")

	start, end = sessionSpan(time.Time{}, time.Time{}, time.Time{})
	assert.False(t, start.IsZero())
	assert.Equal(t, start, end)
}

func TestStatusFromCounts(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		counts session.Counts
		want   session.ExitStatus
	}{
		"empty":       {counts: session.Counts{}, want: session.ExitNoTestsCollected},
		"only passes": {counts: session.Counts{session.CategoryPassed: 2}, want: session.ExitOK},
		"only skips":  {counts: session.Counts{session.CategoryDeselected: 2}, want: session.ExitOK},
		"failure":     {counts: session.Counts{session.CategoryPassed: 2, session.CategoryFailed: 1}, want: session.ExitTestsFailed},
		"error":       {counts: session.Counts{session.CategoryError: 1}, want: session.ExitTestsFailed},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, statusFromCounts(tt.counts))
		})
	}
}
