package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/testnotifier/testnotifier/internal/session"
	"github.com/testnotifier/testnotifier/internal/summary"
)

const spinnerDelay = 100 * time.Millisecond

// Display shows live counts while tests run and a summary line at the end
type Display struct {
	capabilities TerminalCapabilities
	symbols      ProgressSymbols
	out          io.Writer

	mu      sync.Mutex
	spinner *spinner.Spinner
	counts  session.Counts
}

// NewDisplay creates a display writing to out with the given terminal capabilities
func NewDisplay(caps TerminalCapabilities, out io.Writer) *Display {
	return &Display{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		out:          out,
		counts:       session.Counts{},
	}
}

// Start begins the spinner. Nothing is animated when the output is not a terminal.
func (d *Display) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.capabilities.IsTTY || d.spinner != nil {
		return
	}
	d.spinner = spinner.New(spinner.CharSets[d.symbols.SpinnerSet], spinnerDelay)
	d.spinner.Writer = d.out
	if f, ok := d.out.(*os.File); ok {
		d.spinner.WriterFile = f
	}
	d.spinner.Suffix = " " + d.suffix()
	d.spinner.Start()
}

// Record counts a result record. Only call-phase records move the counters.
// It has the signature of gotest.Collector.OnRecord.
func (d *Display) Record(r session.ResultRecord) {
	if !r.Counted() {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.counts[r.Category]++
	if d.spinner != nil {
		d.spinner.Lock()
		d.spinner.Suffix = " " + d.suffix()
		d.spinner.Unlock()
	}
}

// Counts returns a copy of the live counters
func (d *Display) Counts() session.Counts {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(session.Counts, len(d.counts))
	for k, v := range d.counts {
		out[k] = v
	}
	return out
}

// Stop halts the spinner and clears its line
func (d *Display) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}

// Summary stops the spinner and prints the composed message as one line,
// coloured by outcome: green for pass, red for fail, yellow otherwise.
func (d *Display) Summary(msg summary.Message) {
	d.Stop()

	mark, attr := markFor(msg.Kind, d.symbols)
	line := msg.Body
	if msg.Title != "" {
		line = msg.Title + ": " + msg.Body
	}
	fmt.Fprintf(d.out, "%s %s\n",
		paint(mark, attr, d.capabilities.SupportsColor),
		paint(line, attr, d.capabilities.SupportsColor))
}

func (d *Display) suffix() string {
	return truncate("Running tests: "+formatCounts(d.counts), d.capabilities.Width)
}
