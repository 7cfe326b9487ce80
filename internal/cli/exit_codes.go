package cli

import (
	"github.com/testnotifier/testnotifier/internal/cli/shared"
)

// Exit codes for the testnotifier CLI (re-exported from shared)
const (
	// ExitSuccess indicates the session passed or no tests ran
	ExitSuccess = shared.ExitSuccess

	// ExitFailure indicates failing tests or a runtime error
	ExitFailure = shared.ExitFailure

	// ExitUsage indicates invalid command arguments or flags
	ExitUsage = shared.ExitUsage

	// ExitInterrupted indicates the session was interrupted
	ExitInterrupted = shared.ExitInterrupted
)

// NewExitError creates a new exit error with the given code (re-exported from shared).
func NewExitError(code int) error {
	return shared.NewExitError(code)
}

// ExitCode returns the exit code from an error (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
