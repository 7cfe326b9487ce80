package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testnotifier/testnotifier/internal/cli/shared"
	"github.com/testnotifier/testnotifier/internal/health"
	"github.com/testnotifier/testnotifier/internal/notify"
	"github.com/testnotifier/testnotifier/internal/progress"
)

// healthSender probes the notification tools; nil uses the platform sender
var healthSender notify.Sender

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Aliases: []string{"doc"},
		Short:   "Check the test command and notification tools (doc)",
		Long: `Run health checks to verify that testnotifier can run tests and deliver notifications.

This command checks for:
  - the configured test command (default: go) on PATH
  - the platform's visual notification tool, when notifier_type is visual or both
  - the platform's sound player, when notifier_type is sound or both
  - the custom sound file, when notifier_sound_file is set

Each check displays a checkmark if passed or an X with the problem if failed.`,
		Example: `  # Check everything before relying on notifications
  testnotifier doctor

  # Check a different notifier type
  testnotifier doctor --notifier-type both`,
		Args:    cobra.NoArgs,
		GroupID: shared.GroupConfiguration,
		RunE:    runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}

	report := health.RunHealthChecks(health.Options{
		TestCommand: cfg.TestCommand,
		Notify:      cfg.NotifyConfig(),
		Sender:      healthSender,
	})

	out := cmd.OutOrStdout()
	fmt.Fprint(out, health.FormatReport(report, progress.SelectSymbols(progress.CapabilitiesFor(out))))
	if !report.Passed {
		return shared.NewExitError(shared.ExitFailure)
	}
	return nil
}
