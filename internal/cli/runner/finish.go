package runner

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/testnotifier/testnotifier/internal/cli/shared"
	"github.com/testnotifier/testnotifier/internal/config"
	"github.com/testnotifier/testnotifier/internal/gotest"
	"github.com/testnotifier/testnotifier/internal/history"
	"github.com/testnotifier/testnotifier/internal/lifecycle"
	"github.com/testnotifier/testnotifier/internal/notify"
	"github.com/testnotifier/testnotifier/internal/progress"
	"github.com/testnotifier/testnotifier/internal/session"
	"github.com/testnotifier/testnotifier/internal/summary"
)

// newSender builds the notification sender for a session. Tests replace it.
var newSender = func(cfg notify.Config) lifecycle.NotificationSender {
	return notify.NewHandler(cfg)
}

// sessionEnv bundles what a command needs to drive and report one session
type sessionEnv struct {
	cfg     *config.Configuration
	plugin  *lifecycle.Plugin
	display *progress.Display
}

func newSessionEnv(cmd *cobra.Command, cfg *config.Configuration) *sessionEnv {
	errOut := cmd.ErrOrStderr()
	return &sessionEnv{
		cfg:     cfg,
		plugin:  lifecycle.NewPlugin(cfg.Titles(), newSender(cfg.NotifyConfig())),
		display: progress.NewDisplay(progress.CapabilitiesFor(errOut), errOut),
	}
}

// finish prints the captured failures and the summary line. The summary line
// is shown even when notifications are disabled.
func (e *sessionEnv) finish(cmd *cobra.Command, outcome session.Outcome, failures []gotest.Failure) summary.Message {
	e.display.Stop()

	out := cmd.OutOrStdout()
	for _, f := range failures {
		printFailure(out, f)
	}

	msg, _ := summary.Summarize(outcome, summary.Config{Enabled: true, Titles: e.cfg.Titles().Titles})
	e.display.Summary(msg)
	return msg
}

// record appends the finished session to the history file unless --no-history is set
func (e *sessionEnv) record(cmd *cobra.Command, s *session.Session, outcome session.Outcome, msg summary.Message, exitCode int) {
	if off, _ := cmd.Flags().GetBool("no-history"); off {
		return
	}
	stateDir, err := history.DefaultStateDir()
	if err != nil {
		log.Printf("[history] %v", err)
		return
	}
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir, _ = os.Getwd()
	}
	history.NewWriter(stateDir, history.DefaultMaxEntries).Log(history.Entry{
		Timestamp:  s.Start(),
		Command:    cmd.Name(),
		Dir:        dir,
		Kind:       string(msg.Kind),
		Title:      msg.Title,
		Message:    msg.Body,
		Passed:     outcome.Counts.Get(session.CategoryPassed),
		Failed:     outcome.Counts.Get(session.CategoryFailed),
		Errors:     outcome.Counts.Get(session.CategoryError),
		Deselected: outcome.Counts.Get(session.CategoryDeselected),
		ExitCode:   exitCode,
		Duration:   outcome.Duration.String(),
	})
}

func addHistoryFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("no-history", false, "Do not record this session in the history file")
}

func printFailure(w io.Writer, f gotest.Failure) {
	heading := "--- FAIL: " + f.Test
	if f.Test == "" {
		heading = "--- ERROR: " + f.Package
	} else if f.Package != "" {
		heading += " (" + f.Package + ")"
	}
	fmt.Fprintln(w, heading)
	if f.Output != "" {
		fmt.Fprint(w, f.Output)
		if !strings.HasSuffix(f.Output, "\n") {
			fmt.Fprintln(w)
		}
	}
}

// exitCodeFor maps a finished session to the command's exit code
func exitCodeFor(outcome session.Outcome, msg summary.Message) int {
	switch {
	case outcome.Interrupted():
		return shared.ExitInterrupted
	case msg.Failed():
		return shared.ExitFailure
	default:
		return shared.ExitSuccess
	}
}
