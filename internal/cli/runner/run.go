package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
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

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] [-- go test args...]",
		Short: "Run go test and send a desktop notification when it finishes",
		Long: `Run the configured test command (default: go test -json), show live counts
while it runs and send one desktop notification summarizing the session.

Arguments after -- are passed to the test command. The exit code is the test
command's exit code, or 130 when the run was interrupted.`,
		Example: `  # Run all tests in the module
  testnotifier run -- ./...

  # Pass flags to go test
  testnotifier run -- -run TestParser -count=1 ./internal/...

  # Stream test output instead of the spinner
  testnotifier run -v -- ./...

  # Custom titles for this run only
  testnotifier run --notifier-onfail-title "tests broke" -- ./...`,
		GroupID: shared.GroupTesting,
		RunE:    runTests,
	}
	cmd.Flags().String("dir", "", "Working directory for the test command")
	addHistoryFlag(cmd)
	return cmd
}

func runTests(cmd *cobra.Command, args []string) error {
	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}

	runner, err := gotest.NewRunner(cfg.TestCommand)
	if err != nil {
		return clierrors.InvalidTestCommand(cfg.TestCommand, err)
	}
	runner.Dir, _ = cmd.Flags().GetString("dir")
	runner.Stderr = cmd.ErrOrStderr()

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
		collector.OnRecord = env.display.Record
		env.display.Start()
	}

	var result gotest.Result
	outcome, runErr := lifecycle.Run(ctx, env.plugin, s, func(ctx context.Context) (session.ExitStatus, error) {
		var err error
		result, err = runner.Run(ctx, collector, args)
		return result.Status, err
	})
	msg := env.finish(cmd, outcome, collector.Failures())

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		if errors.Is(runErr, exec.ErrNotFound) {
			return clierrors.TestCommandNotFound(runner.Command(nil)[0])
		}
		return clierrors.TestRunFailed(runErr, result.Stderr)
	}

	code := exitCodeFor(outcome, msg)
	if !outcome.Interrupted() && result.ExitCode > 0 {
		code = result.ExitCode
	}
	env.record(cmd, s, outcome, msg, code)
	if code != shared.ExitSuccess {
		return shared.NewExitError(code)
	}
	return nil
}
