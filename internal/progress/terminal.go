package progress

import (
	"io"
	"os"

	"golang.org/x/term"
)

// DetectTerminalCapabilities detects the features of the terminal behind f.
// NO_COLOR disables colour and TESTNOTIFIER_ASCII=1 forces ASCII symbols.
func DetectTerminalCapabilities(f *os.File) TerminalCapabilities {
	isTTY := f != nil && term.IsTerminal(int(f.Fd()))

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("TESTNOTIFIER_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = w
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// CapabilitiesFor detects terminal features when w is a real file.
// Any other writer gets a plain, colourless, ASCII terminal.
func CapabilitiesFor(w io.Writer) TerminalCapabilities {
	if f, ok := w.(*os.File); ok {
		return DetectTerminalCapabilities(f)
	}
	return TerminalCapabilities{}
}

// SelectSymbols returns the appropriate symbol set based on terminal capabilities
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return ProgressSymbols{
			Checkmark:  "✓",
			Failure:    "✗",
			Notice:     "!",
			SpinnerSet: 14, // ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
		}
	}

	return ProgressSymbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		Notice:     "[--]",
		SpinnerSet: 9, // | / - \
	}
}
