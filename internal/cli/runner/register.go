// Package runner provides the commands that drive a test session:
// run executes go test, report replays a captured event stream.
package runner

import (
	"github.com/spf13/cobra"
)

// Register adds the session commands to the root command.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newReportCmd())
}
