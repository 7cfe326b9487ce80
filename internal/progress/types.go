// Package progress renders live test counts on the terminal while a session runs
// and the coloured summary line once it finishes.
package progress

// TerminalCapabilities encapsulates detected terminal features
type TerminalCapabilities struct {
	// IsTTY indicates whether the progress stream is a terminal (vs pipe/redirect)
	IsTTY bool
	// SupportsColor indicates whether terminal supports ANSI color codes
	SupportsColor bool
	// SupportsUnicode indicates whether terminal supports Unicode characters
	SupportsUnicode bool
	// Width is the terminal width in columns (0 if unknown/pipe)
	Width int
}

// ProgressSymbols defines the character set for visual indicators
type ProgressSymbols struct {
	// Checkmark marks a passing session ("✓" or "[OK]")
	Checkmark string
	// Failure marks a failing session ("✗" or "[FAIL]")
	Failure string
	// Notice marks an interrupted or empty session ("!" or "[--]")
	Notice string
	// SpinnerSet is the index into spinner.CharSets
	SpinnerSet int
}
