package util

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/testnotifier/testnotifier/internal/cli/shared"
	clierrors "github.com/testnotifier/testnotifier/internal/errors"
	"github.com/testnotifier/testnotifier/internal/history"
	"github.com/testnotifier/testnotifier/internal/progress"
	"github.com/testnotifier/testnotifier/internal/summary"
)

var validKinds = []string{
	string(summary.KindPass), string(summary.KindFail),
	string(summary.KindZero), string(summary.KindInterrupt),
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View past test sessions",
		Long: `View a log of finished test sessions with start time, command, outcome,
exit code, duration and the notification message.

Sessions are stored in $XDG_STATE_HOME/testnotifier/history.yaml
(~/.local/state/testnotifier/history.yaml); the newest 200 are kept.`,
		Example: `  # Last 10 sessions
  testnotifier history -n 10

  # Only failing sessions
  testnotifier history --kind fail

  # Start over
  testnotifier history --clear`,
		Args:    cobra.NoArgs,
		GroupID: shared.GroupTesting,
		RunE:    runHistory,
	}
	cmd.Flags().IntP("limit", "n", 0, "Limit to last N entries (most recent)")
	cmd.Flags().String("kind", "", "Filter by outcome (pass, fail, zero, interrupt)")
	cmd.Flags().Bool("clear", false, "Clear all history")
	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.OutOrStdout()

	if limit < 0 {
		return clierrors.NewArgumentError(fmt.Sprintf("limit must be positive, got %d", limit))
	}
	if kind != "" && !validKind(kind) {
		return clierrors.NewArgumentError(fmt.Sprintf("unknown kind %q", kind), "Use one of: pass, fail, zero, interrupt")
	}

	stateDir, err := history.DefaultStateDir()
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	if clearFlag {
		if err := history.ClearHistory(stateDir); err != nil {
			return clierrors.Wrap(err, clierrors.Runtime)
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	file, err := history.LoadHistory(stateDir)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	entries := history.Filter(file.Entries, kind, limit)
	if len(entries) == 0 {
		if kind != "" {
			fmt.Fprintf(out, "No sessions with outcome '%s'.\n", kind)
		} else {
			fmt.Fprintln(out, "No history available.")
		}
		return nil
	}

	displayEntries(out, entries, progress.CapabilitiesFor(out))
	return nil
}

func validKind(kind string) bool {
	for _, k := range validKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// displayEntries formats and displays history entries, one per line
func displayEntries(w io.Writer, entries []history.Entry, caps progress.TerminalCapabilities) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)
	for _, c := range []*color.Color{green, yellow, red, cyan} {
		if caps.SupportsColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, e := range entries {
		kindColor := yellow
		switch summary.Kind(e.Kind) {
		case summary.KindPass:
			kindColor = green
		case summary.KindFail:
			kindColor = red
		}
		exitColor := green
		if e.ExitCode != 0 {
			exitColor = red
		}

		fmt.Fprintf(w, "%s  %-20s  %s  %-6s  exit=%s  %-8s  %s\n",
			cyan.Sprint(e.Timestamp.Local().Format("2006-01-02 15:04:05")),
			e.ID,
			kindColor.Sprintf("%-9s", e.Kind),
			e.Command,
			exitColor.Sprintf("%-3d", e.ExitCode),
			e.Duration,
			e.Message,
		)
	}
}
