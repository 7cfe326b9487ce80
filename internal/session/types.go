// Package session models a single test session as reported by the host test runner:
// per-test result records, the per-category counts derived from them, and the
// finished outcome handed to the summarizer.
//
// Nothing in this package persists beyond one invocation. Records flow one way:
// ResultRecord -> Counts -> Outcome.
package session

import "time"

// Category is the classification the host runner assigned to a result
type Category string

const (
	// CategoryPassed marks a test that ran and passed
	CategoryPassed Category = "passed"
	// CategoryFailed marks a test that ran and failed
	CategoryFailed Category = "failed"
	// CategoryError marks a failure outside a test body (build, TestMain, panic)
	CategoryError Category = "error"
	// CategoryDeselected marks a test that did not run (skipped)
	CategoryDeselected Category = "deselected"
)

// Categories lists the tracked categories in reporting order.
// The order is significant: message fragments are emitted in this order.
var Categories = []Category{
	CategoryPassed,
	CategoryFailed,
	CategoryError,
	CategoryDeselected,
}

// Phase is the stage of a test's lifecycle a record belongs to
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseCall     Phase = "call"
	PhaseTeardown Phase = "teardown"
)

// ResultRecord is one test outcome as reported by the host runner
type ResultRecord struct {
	// Name is the test name (e.g., "TestFoo/sub"); empty for package-level records
	Name string
	// Package is the import path of the package under test
	Package string
	// Phase is the lifecycle stage; only PhaseCall records are counted
	Phase Phase
	// Category is the host's classification of the outcome
	Category Category
	// Elapsed is the runtime reported by the host
	Elapsed time.Duration
}

// Counted reports whether the record contributes to Counts
func (r ResultRecord) Counted() bool {
	return r.Phase == PhaseCall
}

// Stats groups result records by category, mirroring the host runner's own grouping.
// A category missing from the map is equivalent to an empty group.
type Stats map[Category][]ResultRecord

// Counts maps each category to the number of counted records in it.
// Missing categories read as zero.
type Counts map[Category]int

// Get returns the count for c, zero when absent
func (c Counts) Get(cat Category) int {
	return c[cat]
}

// Total sums the four tracked categories
func (c Counts) Total() int {
	total := 0
	for _, cat := range Categories {
		total += c[cat]
	}
	return total
}

// CountCalls derives Counts from stats, counting only records in the call phase
func CountCalls(stats Stats) Counts {
	counts := make(Counts, len(Categories))
	for _, cat := range Categories {
		n := 0
		for _, r := range stats[cat] {
			if r.Counted() {
				n++
			}
		}
		counts[cat] = n
	}
	return counts
}

// ExitStatus is the final status of a session
type ExitStatus int

const (
	// ExitOK indicates all tests passed
	ExitOK ExitStatus = iota
	// ExitTestsFailed indicates at least one test failed
	ExitTestsFailed
	// ExitInterrupted indicates the session was aborted before natural completion
	ExitInterrupted
	// ExitInternalError indicates the host runner itself failed
	ExitInternalError
	// ExitUsageError indicates the host runner was invoked incorrectly
	ExitUsageError
	// ExitNoTestsCollected indicates no tests were found
	ExitNoTestsCollected
)

// String returns the string representation of ExitStatus
func (s ExitStatus) String() string {
	switch s {
	case ExitOK:
		return "ok"
	case ExitTestsFailed:
		return "tests_failed"
	case ExitInterrupted:
		return "interrupted"
	case ExitInternalError:
		return "internal_error"
	case ExitUsageError:
		return "usage_error"
	case ExitNoTestsCollected:
		return "no_tests_collected"
	default:
		return "unknown"
	}
}

// Outcome is the finished state of a session. It is created once by Session.Finish.
type Outcome struct {
	Status   ExitStatus
	Counts   Counts
	Duration time.Duration
}

// Interrupted reports whether the session was aborted
func (o Outcome) Interrupted() bool {
	return o.Status == ExitInterrupted
}

// Seconds returns the duration as floating-point seconds
func (o Outcome) Seconds() float64 {
	return o.Duration.Seconds()
}
