package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/testnotifier/testnotifier/internal/cli/shared"
	clierrors "github.com/testnotifier/testnotifier/internal/errors"
	"github.com/testnotifier/testnotifier/internal/gotest"
	"github.com/testnotifier/testnotifier/internal/lifecycle"
	"github.com/testnotifier/testnotifier/internal/session"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [flags] [file|-]",
		Short: "Summarize a captured go test -json stream and notify",
		Long: `Read a go test -json event stream from a file or stdin, summarize it and send
one desktop notification.

The session starts at the first event's time (or --start) and ends at the last
event's time. Exits 1 when the session failed and 130 when it is marked as
interrupted.`,
		Example: `  # Pipe go test into testnotifier
  go test -json ./... | testnotifier report

  # Replay a captured stream
  go test -json ./... > events.jsonl
  testnotifier report events.jsonl

  # Report a run that was cut short
  testnotifier report --interrupted events.jsonl`,
		Args:    cobra.MaximumNArgs(1),
		GroupID: shared.GroupTesting,
		RunE:    runReport,
	}
	cmd.Flags().Bool("interrupted", false, "Mark the session as interrupted")
	cmd.Flags().String("start", "", "Session start time (RFC3339); defaults to the first event's time")
	addHistoryFlag(cmd)
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}

	var start time.Time
	if v, _ := cmd.Flags().GetString("start"); v != "" {
		start, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return clierrors.InvalidStartTime(v)
		}
	}
	interrupted, _ := cmd.Flags().GetBool("interrupted")

	in, closeInput, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer closeInput()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := newSessionEnv(cmd, cfg)
	s := session.New(time.Now())
	collector := gotest.NewCollector(s)
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		collector.Output = cmd.OutOrStdout()
	} else {
		collector.KeepFailures = true
	}

	outcome, runErr := lifecycle.Run(ctx, env.plugin, s, func(ctx context.Context) (session.ExitStatus, error) {
		if err := collector.Collect(ctx, in); err != nil {
			return session.ExitInternalError, err
		}
		first, last := collector.TimeSpan()
		begin, end := sessionSpan(start, first, last)
		s.SetStart(begin)
		env.plugin.SetClock(func() time.Time { return end })

		if interrupted {
			return session.ExitInterrupted, nil
		}
		return statusFromCounts(s.Snapshot()), nil
	})
	msg := env.finish(cmd, outcome, collector.Failures())

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return clierrors.Wrap(runErr, clierrors.Runtime, "Check that the input is go test -json output")
	}
	code := exitCodeFor(outcome, msg)
	env.record(cmd, s, outcome, msg, code)
	if code != shared.ExitSuccess {
		return shared.NewExitError(code)
	}
	return nil
}

// openInput returns the event stream named by args ("-" or nothing means stdin)
func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, clierrors.ReportInputNotFound(args[0])
		}
		return nil, nil, clierrors.Wrap(err, clierrors.Prerequisite)
	}
	return f, func() { f.Close() }, nil
}

// sessionSpan picks the session start and end. An explicit start wins over
// the first event time; a stream without timestamps has zero duration.
func sessionSpan(explicit, first, last time.Time) (time.Time, time.Time) {
	start := explicit
	if start.IsZero() {
		start = first
	}
	if start.IsZero() {
		start = time.Now()
	}
	end := last
	if end.IsZero() || end.Before(start) {
		end = start
	}
	return start, end
}

// statusFromCounts derives the exit status of a replayed session
func statusFromCounts(counts session.Counts) session.ExitStatus {
	switch {
	case counts.Get(session.CategoryFailed) > 0 || counts.Get(session.CategoryError) > 0:
		return session.ExitTestsFailed
	case counts.Total() == 0:
		return session.ExitNoTestsCollected
	default:
		return session.ExitOK
	}
}
