package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// FormatError renders a CLIError with colours for terminal output
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	heading := color.New(color.FgRed, color.Bold).SprintFunc()
	label := color.New(color.FgCyan).SprintFunc()
	step := color.New(color.FgYellow).SprintFunc()
	return format(err, heading, label, step)
}

// FormatErrorPlain renders a CLIError without colours
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	plain := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return format(err, plain, plain, plain)
}

func format(err *CLIError, heading, label, step func(a ...interface{}) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", heading(err.Category.String()), err.Message)

	if err.Usage != "" {
		fmt.Fprintf(&b, "\n%s\n  %s\n", label("Usage:"), err.Usage)
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&b, "\n%s\n", label("To fix this:"))
		for i, r := range err.Remediation {
			fmt.Fprintf(&b, "  %s %s\n", step(fmt.Sprintf("%d.", i+1)), r)
		}
	}
	return b.String()
}

// PrintError writes a formatted CLIError to stderr
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError writes a formatted CLIError to w.
// Colour is used only when fatih/color considers the output a terminal.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	if color.NoColor {
		fmt.Fprint(w, FormatErrorPlain(err))
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FormatSimpleError renders any error under the given category heading
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return FormatErrorPlain(cliErr)
	}
	return FormatErrorPlain(&CLIError{Category: category, Message: err.Error()})
}
