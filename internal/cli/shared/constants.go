// Package shared provides constants, flags and helpers used across CLI subpackages.
// This package has no dependencies on other CLI packages to avoid circular imports.
package shared

import (
	"errors"
	"fmt"

	clierrors "github.com/testnotifier/testnotifier/internal/errors"
)

// Command group IDs for organizing help output
const (
	GroupTesting       = "testing"
	GroupConfiguration = "configuration"
)

// Exit codes for CLI commands
const (
	ExitSuccess = 0
	// ExitFailure covers failed tests and runtime errors
	ExitFailure = 1
	// ExitUsage covers invalid arguments and flags
	ExitUsage = 2
	// ExitInterrupted follows the shell convention for SIGINT (128+2)
	ExitInterrupted = 130
)

// exitError is a custom error type that carries an exit code.
// It is returned when the message has already been shown to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// IsExitError reports whether err only carries an exit code
func IsExitError(err error) bool {
	var e *exitError
	return errors.As(err, &e)
}

// ExitCode returns the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil && cliErr.Category != clierrors.Argument {
		return ExitFailure
	}
	// Uncategorised errors come from cobra's argument and flag parsing.
	return ExitUsage
}
