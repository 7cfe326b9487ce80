// Package summary turns a finished test session into the title and message of a
// desktop notification.
//
// Summarize is a pure function: it reads the outcome and the configured titles and
// returns at most one Message. Dispatching the message is the caller's concern.
package summary

import (
	"fmt"
	"strings"

	"github.com/testnotifier/testnotifier/internal/session"
)

// Kind identifies which classification branch produced a message
type Kind string

const (
	// KindInterrupt is used when the session was interrupted
	KindInterrupt Kind = "interrupt"
	// KindZero is used when no tests ran
	KindZero Kind = "zero"
	// KindPass is used when every executed test passed
	KindPass Kind = "pass"
	// KindFail is used when any test failed or errored
	KindFail Kind = "fail"
)

// Titles holds the notification title for each outcome kind
type Titles struct {
	OnZero      string
	OnPass      string
	OnFail      string
	OnInterrupt string
}

// For returns the title configured for kind
func (t Titles) For(kind Kind) string {
	switch kind {
	case KindInterrupt:
		return t.OnInterrupt
	case KindZero:
		return t.OnZero
	case KindPass:
		return t.OnPass
	default:
		return t.OnFail
	}
}

// Config is the read-only notification configuration consulted by Summarize
type Config struct {
	Enabled bool
	Titles  Titles
}

// Message is a composed notification
type Message struct {
	Title string
	Body  string
	Kind  Kind
}

// Failed reports whether the message describes a failing session
func (m Message) Failed() bool {
	return m.Kind == KindFail
}

// labels maps each category to its display label.
// Deselected tests are displayed as "Skipped".
var labels = map[session.Category]string{
	session.CategoryPassed:     "Passed",
	session.CategoryFailed:     "Failed",
	session.CategoryError:      "Error(s)",
	session.CategoryDeselected: "Skipped",
}

// Label returns the display label for a category
func Label(cat session.Category) string {
	return labels[cat]
}

// Summarize classifies the outcome and composes its notification.
// It returns false when notifications are disabled.
//
// Classification order, first match wins:
//  1. interrupted status
//  2. no counted tests
//  3. passed > 0 with no failures or errors
//  4. anything else
func Summarize(outcome session.Outcome, cfg Config) (Message, bool) {
	if !cfg.Enabled {
		return Message{}, false
	}

	counts := outcome.Counts
	var kind Kind
	var body string

	switch {
	case outcome.Interrupted():
		kind = KindInterrupt
		body = Fragments(counts)
	case counts.Total() == 0:
		kind = KindZero
		body = "No tests ran"
	case counts.Get(session.CategoryPassed) > 0 &&
		counts.Get(session.CategoryFailed) == 0 &&
		counts.Get(session.CategoryError) == 0:
		kind = KindPass
		body = fmt.Sprintf("Success - %d Passed", counts.Get(session.CategoryPassed))
	default:
		kind = KindFail
		body = Fragments(counts)
	}

	body += fmt.Sprintf(" in %.2fs", outcome.Seconds())

	return Message{
		Title: cfg.Titles.For(kind),
		Body:  body,
		Kind:  kind,
	}, true
}

// Fragments renders the non-zero categories as "{count} {Label}" joined by a space,
// in the fixed category order.
func Fragments(counts session.Counts) string {
	parts := make([]string, 0, len(session.Categories))
	for _, cat := range session.Categories {
		if part := fragment(counts.Get(cat), cat); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

func fragment(count int, cat session.Category) string {
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("%d %s", count, Label(cat))
}
