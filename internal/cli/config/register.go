// Package config provides CLI commands for testnotifier configuration management.
// Includes: config show, get, set, init, keys, and doctor
package config

import (
	"github.com/spf13/cobra"
)

// Register adds the config command tree and doctor to the root command.
// This function is called from the root CLI package during initialization.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDoctorCmd())
}
