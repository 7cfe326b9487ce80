package util

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testnotifier/testnotifier/internal/cli/shared"
	clierrors "github.com/testnotifier/testnotifier/internal/errors"
	"github.com/testnotifier/testnotifier/internal/history"
	"github.com/testnotifier/testnotifier/internal/progress"
	"github.com/testnotifier/testnotifier/internal/testutil"
)

func seedHistory(t *testing.T) string {
	t.Helper()
	dir := testutil.IsolateEnv(t)
	stateDir := filepath.Join(dir, "state", "testnotifier")

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	w := history.NewWriter(stateDir, history.DefaultMaxEntries)
	for i, e := range []history.Entry{
		{ID: "s1", Command: "run", Kind: "pass", Message: "Success - 3 Passed in 1.00s", Duration: "1s"},
		{ID: "s2", Command: "run", Kind: "fail", Message: "2 Passed 1 Failed in 2.00s", ExitCode: 1, Duration: "2s"},
		{ID: "s3", Command: "report", Kind: "interrupt", Message: "1 Passed in 0.50s", ExitCode: 130, Duration: "500ms"},
	} {
		e.Timestamp = start.Add(time.Duration(i) * time.Minute)
		_, err := w.Record(e)
		require.NoError(t, err)
	}
	return stateDir
}

func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "testnotifier", SilenceErrors: true, SilenceUsage: true}
	root.AddGroup(&cobra.Group{ID: shared.GroupTesting, Title: "Testing:"})
	Register(root)
	return root
}

func runHistoryCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newTestRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"history"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestHistoryCommand(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantIDs []string
		wantOut string
	}{
		"all sessions": {
			wantIDs: []string{"s1", "s2", "s3"},
		},
		"limit": {
			args:    []string{"-n", "1"},
			wantIDs: []string{"s3"},
		},
		"by kind": {
			args:    []string{"--kind", "fail"},
			wantIDs: []string{"s2"},
			wantOut: "2 Passed 1 Failed in 2.00s",
		},
		"no match": {
			args:    []string{"--kind", "zero"},
			wantOut: "No sessions with outcome 'zero'.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			seedHistory(t)

			out, err := runHistoryCmd(t, tt.args...)
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(out), "\n")
			if len(tt.wantIDs) > 0 {
				require.Len(t, lines, len(tt.wantIDs))
				for i, id := range tt.wantIDs {
					assert.Contains(t, lines[i], "  "+id+" ")
				}
			}
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestHistoryCommand_Clear(t *testing.T) {
	stateDir := seedHistory(t)

	out, err := runHistoryCmd(t, "--clear")
	require.NoError(t, err)
	assert.Equal(t, "History cleared.\n", out)

	h, err := history.LoadHistory(stateDir)
	require.NoError(t, err)
	assert.Empty(t, h.Entries)

	out, err = runHistoryCmd(t)
	require.NoError(t, err)
	assert.Equal(t, "No history available.\n", out)
}

func TestHistoryCommand_InvalidFlags(t *testing.T) {
	tests := map[string]struct {
		args []string
	}{
		"negative limit": {args: []string{"--limit=-1"}},
		"unknown kind":   {args: []string{"--kind", "flaky"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			seedHistory(t)

			_, err := runHistoryCmd(t, tt.args...)
			cliErr := clierrors.AsCLIError(err)
			require.NotNil(t, cliErr, "err: %v", err)
			assert.Equal(t, clierrors.Argument, cliErr.Category)
		})
	}
}

func TestDisplayEntries(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	displayEntries(&out, []history.Entry{{
		ID:        "20240301_100000_beef",
		Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local),
		Command:   "run",
		Kind:      "pass",
		Message:   "Success - 3 Passed in 1.00s",
		Duration:  "1s",
	}}, progress.TerminalCapabilities{})

	line := out.String()
	assert.True(t, strings.HasPrefix(line, "2024-03-01 10:00:00  20240301_100000_beef"))
	assert.Contains(t, line, "pass       run     exit=0    1s        Success - 3 Passed in 1.00s\n")
	assert.NotContains(t, line, "\x1b[")
}
