package errors

import (
	"fmt"
	"strings"
)

// TestCommandNotFound reports that the configured test command is not installed
func TestCommandNotFound(command string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("test command not found: %s", command),
		"Install Go from https://go.dev/dl/ and make sure 'go' is on your PATH",
		"Or point test_command at your runner: testnotifier config set test_command \"<cmd>\"",
	)
}

// InvalidTestCommand reports a test_command that cannot be split into words
func InvalidTestCommand(command string, err error) *CLIError {
	cliErr := WrapWithMessage(err, Configuration, fmt.Sprintf("invalid test_command %q", command))
	cliErr.Remediation = []string{
		"Check the quoting in test_command",
		"Run 'testnotifier config show' to see where the value comes from",
	}
	return cliErr
}

// ConfigFileNotFound reports an explicit --config path that does not exist
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Create it with: testnotifier config init",
		"Or drop --config to use .testnotifier.yml and the user config",
	)
}

// ConfigParseError reports a config file or environment value that failed to load
func ConfigParseError(path string, err error) *CLIError {
	cliErr := WrapWithMessage(err, Configuration, fmt.Sprintf("failed to load configuration (%s)", path))
	cliErr.Remediation = []string{
		"Fix the reported line or key",
		"Check TESTNOTIFIER_* environment variables and your .env file",
	}
	return cliErr
}

// EnvFileError reports a dotenv file that could not be loaded
func EnvFileError(path string, err error) *CLIError {
	cliErr := WrapWithMessage(err, Configuration, fmt.Sprintf("cannot load env file %s", path))
	cliErr.Remediation = []string{"Check the path passed to --env-file"}
	return cliErr
}

// UnknownConfigKey reports a key that is not part of the configuration
func UnknownConfigKey(key string, known []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown configuration key: %s", key),
		"testnotifier config set <key> <value>",
		"Known keys: "+strings.Join(known, ", "),
	)
}

// ReportInputNotFound reports a missing event stream file for 'report'
func ReportInputNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("event stream not found: %s", path),
		"Capture one with: go test -json ./... > events.jsonl",
		"Or pipe it in: go test -json ./... | testnotifier report -",
	)
}

// InvalidStartTime reports a --start value that is not RFC3339
func InvalidStartTime(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid --start time %q", value),
		"testnotifier report --start 2024-03-01T10:00:00Z [file|-]",
		"Use RFC3339 format, including the timezone offset",
	)
}

// TestRunFailed reports a host runner that could not be run to completion
func TestRunFailed(err error, stderrTail []string) *CLIError {
	cliErr := WrapWithMessage(err, Runtime, "test run failed")
	if len(stderrTail) > 0 {
		cliErr.Remediation = append(cliErr.Remediation, "Last output:\n    "+strings.Join(stderrTail, "\n    "))
	}
	cliErr.Remediation = append(cliErr.Remediation, "Re-run with --debug for details")
	return cliErr
}
