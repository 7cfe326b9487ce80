// Package errors provides categorized CLI errors with usage hints and remediation steps.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies a CLI error for display
type ErrorCategory int

const (
	// Argument covers invalid or missing command-line arguments
	Argument ErrorCategory = iota
	// Configuration covers config files, environment and dotenv problems
	Configuration
	// Prerequisite covers missing tools or input files
	Prerequisite
	// Runtime covers failures while running or replaying a test session
	Runtime
)

// String returns the heading shown above the error message
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is an error with a category, optional usage line and remediation steps
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Usage       string
	Remediation []string
	cause       error
}

func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error, if any
func (e *CLIError) Unwrap() error {
	return e.cause
}

// NewArgumentError creates an Argument error
func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Remediation: remediation}
}

// NewArgumentErrorWithUsage creates an Argument error that shows the correct usage
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Usage: usage, Remediation: remediation}
}

// NewConfigError creates a Configuration error
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Configuration, Message: message, Remediation: remediation}
}

// NewPrerequisiteError creates a Prerequisite error
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Prerequisite, Message: message, Remediation: remediation}
}

// NewRuntimeError creates a Runtime error
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Runtime, Message: message, Remediation: remediation}
}

// Wrap converts err into a CLIError of the given category. Returns nil for a nil error.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: err.Error(), Remediation: remediation, cause: err}
}

// WrapWithMessage wraps err with a leading message ("message: err").
// Returns nil for a nil error.
func WrapWithMessage(err error, category ErrorCategory, message string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category: category,
		Message:  fmt.Sprintf("%s: %s", message, err.Error()),
		cause:    err,
	}
}

// IsCLIError reports whether err is or wraps a CLIError
func IsCLIError(err error) bool {
	var cliErr *CLIError
	return errors.As(err, &cliErr)
}

// AsCLIError returns the CLIError in err's chain, or nil
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
