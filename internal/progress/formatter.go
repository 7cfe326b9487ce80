package progress

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/testnotifier/testnotifier/internal/session"
	"github.com/testnotifier/testnotifier/internal/summary"
)

// formatCounts renders live counts for the spinner suffix, e.g. "12 passed, 1 failed".
// Zero categories are left out except passed, which is always shown.
func formatCounts(counts session.Counts) string {
	parts := []string{fmt.Sprintf("%d passed", counts.Get(session.CategoryPassed))}
	if n := counts.Get(session.CategoryFailed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", n))
	}
	if n := counts.Get(session.CategoryError); n > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", n))
	}
	if n := counts.Get(session.CategoryDeselected); n > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", n))
	}
	return strings.Join(parts, ", ")
}

// truncate shortens s to width columns, leaving room for the spinner glyph
func truncate(s string, width int) string {
	limit := width - 4
	if width <= 0 || limit <= 0 || len([]rune(s)) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-1]) + "…"
}

// markFor returns the symbol and colour attribute for a summary kind
func markFor(kind summary.Kind, symbols ProgressSymbols) (string, color.Attribute) {
	switch kind {
	case summary.KindPass:
		return symbols.Checkmark, color.FgGreen
	case summary.KindFail:
		return symbols.Failure, color.FgRed
	default:
		return symbols.Notice, color.FgYellow
	}
}

// paint applies attr to s when colour is supported
func paint(s string, attr color.Attribute, supportsColor bool) string {
	c := color.New(attr, color.Bold)
	if supportsColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}
