// Package cli provides the Cobra-based command tree of testnotifier.
// It wires the test commands (run, report, history), configuration management
// (config, doctor) and version under one root with shared global flags.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/testnotifier/testnotifier/internal/cli/config"
	"github.com/testnotifier/testnotifier/internal/cli/runner"
	"github.com/testnotifier/testnotifier/internal/cli/shared"
	"github.com/testnotifier/testnotifier/internal/cli/util"
	clierrors "github.com/testnotifier/testnotifier/internal/errors"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupTesting       = shared.GroupTesting
	GroupConfiguration = shared.GroupConfiguration
)

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "testnotifier",
		Short: "Desktop notifications for go test",
		Long: `testnotifier runs go test (or reads its -json output) and sends one desktop
notification when the session ends, titled by outcome: no tests, all passed,
failures, or interrupted.

Config files: ~/.config/testnotifier/config.yml, .testnotifier.yml,
TESTNOTIFIER_* environment variables and --notifier-* flags.`,
		Example: `  # Run the module's tests and get notified
  testnotifier run -- ./...

  # Summarize an existing go test -json stream
  go test -json ./... | testnotifier report

  # Show the effective configuration
  testnotifier config show

  # Check that notifications can be delivered
  testnotifier doctor`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			debug, _ := cmd.Flags().GetBool("debug")
			shared.SetupLogging(debug, cmd.ErrOrStderr())
		},
	}

	rootCmd.AddGroup(&cobra.Group{ID: GroupTesting, Title: "Testing:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})
	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	shared.RegisterGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			"Run '"+cmd.CommandPath()+" --help' for the list of flags")
	})

	runner.Register(rootCmd)
	config.Register(rootCmd)
	util.Register(rootCmd)
	return rootCmd
}

// Execute runs the root command and prints any error to stderr
func Execute() error {
	err := NewRootCmd().Execute()
	shared.ReportError(os.Stderr, err)
	return err
}
