package gotest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/testnotifier/testnotifier/internal/session"
)

// maxLineSize bounds a single test2json line. Output events for tests that
// print large blobs can exceed bufio's 64 KiB default.
const maxLineSize = 1024 * 1024

// Collector feeds a test2json stream into a session
type Collector struct {
	session    *session.Session
	classifier *Classifier

	// Output receives test output text (the Output field of output events and
	// any non-JSON lines). Nil discards it.
	Output io.Writer

	// OnRecord is invoked for every result record after it is added to the session.
	OnRecord func(session.ResultRecord)

	// KeepFailures buffers output per test and keeps it for tests that fail
	// or error. Use it when Output is not shown live.
	KeepFailures bool

	mu        sync.Mutex
	events    int
	firstTime time.Time
	lastTime  time.Time
	pending   map[string]*strings.Builder
	failures  []Failure
}

// Failure is the captured output of a failed or errored test
type Failure struct {
	Package  string
	Test     string
	Category session.Category
	Output   string
}

// NewCollector creates a collector writing records into s
func NewCollector(s *session.Session) *Collector {
	return &Collector{
		session:    s,
		classifier: NewClassifier(),
	}
}

// Collect reads events from r until EOF or ctx is cancelled.
// Malformed lines are passed through as output and never fail the stream.
func (c *Collector) Collect(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		ev, ok := DecodeEvent(line)
		if !ok {
			c.write(string(line) + "\n")
			continue
		}
		c.Handle(ev)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading test events: %w", err)
	}
	return nil
}

// Handle processes a single decoded event
func (c *Collector) Handle(ev TestEvent) {
	c.mu.Lock()
	c.events++
	if !ev.Time.IsZero() {
		if c.firstTime.IsZero() {
			c.firstTime = ev.Time
		}
		c.lastTime = ev.Time
	}
	c.mu.Unlock()

	switch ev.Action {
	case ActionOutput, ActionBuildOutput:
		c.write(ev.Output)
		c.buffer(ev)
		return
	}

	rec, ok := c.classifier.Classify(ev)
	if !ok {
		return
	}
	c.settle(ev, rec)
	log.Printf("[gotest] %s %s %s (%s)", rec.Category, rec.Package, rec.Name, rec.Phase)

	c.session.Record(rec)
	if c.OnRecord != nil {
		c.OnRecord(rec)
	}
}

// Events returns the number of decoded events seen so far
func (c *Collector) Events() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events
}

// TimeSpan returns the timestamps of the first and last timestamped events.
// Both are zero when no event carried a time.
func (c *Collector) TimeSpan() (first, last time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.firstTime, c.lastTime
}

// Failures returns the captured output of failed and errored tests in the
// order they finished. Empty unless KeepFailures is set.
func (c *Collector) Failures() []Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Failure(nil), c.failures...)
}

func outputKey(ev TestEvent) string {
	return ev.pkg() + "\x00" + ev.Test
}

func (c *Collector) buffer(ev TestEvent) {
	if !c.KeepFailures || ev.Output == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		c.pending = make(map[string]*strings.Builder)
	}
	key := outputKey(ev)
	b, ok := c.pending[key]
	if !ok {
		b = &strings.Builder{}
		c.pending[key] = b
	}
	b.WriteString(ev.Output)
}

// settle keeps the buffered output of a counted failure and drops everything else
func (c *Collector) settle(ev TestEvent, rec session.ResultRecord) {
	if !c.KeepFailures {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := outputKey(ev)
	b, ok := c.pending[key]
	delete(c.pending, key)

	failed := rec.Category == session.CategoryFailed || rec.Category == session.CategoryError
	if !rec.Counted() || !failed {
		return
	}
	f := Failure{Package: rec.Package, Test: rec.Name, Category: rec.Category}
	if ok {
		f.Output = b.String()
	}
	c.failures = append(c.failures, f)
}

func (c *Collector) write(s string) {
	if c.Output == nil || s == "" {
		return
	}
	if _, err := io.WriteString(c.Output, s); err != nil {
		log.Printf("[gotest] writing output: %v", err)
	}
}
