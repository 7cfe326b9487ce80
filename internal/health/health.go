// Package health checks that the tools testnotifier depends on are available:
// the configured test command and the platform notification tools.
package health

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/testnotifier/testnotifier/internal/notify"
	"github.com/testnotifier/testnotifier/internal/progress"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.Passed = false
	}
}

// Options are the inputs to RunHealthChecks
type Options struct {
	// TestCommand is the configured test_command line
	TestCommand string
	// Notify is the effective notification configuration
	Notify notify.Config
	// Sender probes the platform tools; nil uses notify.NewSender()
	Sender notify.Sender
	// LookPath resolves executables; nil uses exec.LookPath
	LookPath func(string) (string, error)
}

// RunHealthChecks runs all health checks and returns a report
func RunHealthChecks(opts Options) *HealthReport {
	if opts.Sender == nil {
		opts.Sender = notify.NewSender()
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}

	report := &HealthReport{
		Checks: make([]CheckResult, 0, 4),
		Passed: true,
	}
	report.add(CheckTestCommand(opts.TestCommand, opts.LookPath))

	if !opts.Notify.Enabled {
		report.add(CheckResult{Name: "Notifications", Passed: true, Message: "disabled by configuration"})
		return report
	}

	outputType := opts.Notify.Type
	if outputType == "" {
		outputType = notify.OutputVisual
	}
	if outputType == notify.OutputVisual || outputType == notify.OutputBoth {
		report.add(CheckVisual(opts.Sender))
	}
	if outputType == notify.OutputSound || outputType == notify.OutputBoth {
		report.add(CheckSound(opts.Sender))
	}
	if opts.Notify.SoundFile != "" {
		report.add(CheckSoundFile(opts.Notify.SoundFile))
	}
	return report
}

// CheckTestCommand checks that the first word of the test command is on PATH
func CheckTestCommand(commandLine string, lookPath func(string) (string, error)) CheckResult {
	const name = "Test command"
	words, err := shellwords.Parse(commandLine)
	if err != nil {
		return CheckResult{Name: name, Message: fmt.Sprintf("cannot parse %q: %v", commandLine, err)}
	}
	if len(words) == 0 {
		words = []string{"go"}
	}
	path, err := lookPath(words[0])
	if err != nil {
		return CheckResult{Name: name, Message: fmt.Sprintf("%s not found in PATH", words[0])}
	}
	return CheckResult{Name: name, Passed: true, Message: path}
}

// CheckVisual checks that the platform can show a visual notification
func CheckVisual(sender notify.Sender) CheckResult {
	const name = "Visual notifications"
	if sender.VisualAvailable() {
		return CheckResult{Name: name, Passed: true, Message: "available"}
	}
	return CheckResult{Name: name, Message: "unavailable: " + visualRequirement(notify.Platform())}
}

// CheckSound checks that the platform can play a notification sound
func CheckSound(sender notify.Sender) CheckResult {
	const name = "Sound notifications"
	if sender.SoundAvailable() {
		return CheckResult{Name: name, Passed: true, Message: "available"}
	}
	return CheckResult{Name: name, Message: "unavailable: " + soundRequirement(notify.Platform())}
}

// CheckSoundFile checks that the custom sound file exists and has a supported format
func CheckSoundFile(path string) CheckResult {
	const name = "Sound file"
	if notify.ValidateSoundFile(path) == "" {
		return CheckResult{Name: name, Message: fmt.Sprintf("%s is missing or not a supported audio file", path)}
	}
	return CheckResult{Name: name, Passed: true, Message: path}
}

func visualRequirement(platform string) string {
	switch platform {
	case "darwin":
		return "install terminal-notifier or make sure osascript is on PATH"
	case "linux":
		return "install notify-send (libnotify) and run inside a graphical session"
	case "windows":
		return "powershell is required"
	default:
		return "no notification tool is known for " + platform
	}
}

func soundRequirement(platform string) string {
	switch platform {
	case "darwin":
		return "afplay is required"
	case "linux":
		return "install paplay (pulseaudio-utils)"
	case "windows":
		return "powershell is required"
	default:
		return "no sound tool is known for " + platform
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport, symbols progress.ProgressSymbols) string {
	var b strings.Builder
	for _, check := range report.Checks {
		mark := symbols.Checkmark
		if !check.Passed {
			mark = symbols.Failure
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return b.String()
}
