package gotest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
	"golang.org/x/sync/errgroup"

	"github.com/testnotifier/testnotifier/internal/session"
)

// DefaultCommand is the host runner invocation used when none is configured
const DefaultCommand = "go test -json"

// ErrEmptyCommand is returned for a test command with no words
var ErrEmptyCommand = errors.New("test command is empty")

// stderrTail is how many trailing stderr lines are kept for error reports
const stderrTail = 20

// Result is the outcome of running the host test command
type Result struct {
	// Status is the session exit status derived from the process outcome
	Status session.ExitStatus
	// ExitCode is the child's exit code (-1 when it never started)
	ExitCode int
	// Stderr holds the last lines the child wrote to stderr
	Stderr []string
}

// Runner executes the host test command and streams its events into a Collector
type Runner struct {
	command []string

	// Dir is the working directory of the child; empty means the current one
	Dir string
	// Stderr receives the child's stderr as it is produced; nil discards it
	Stderr io.Writer
	// WaitDelay bounds how long to wait for the child after an interrupt
	WaitDelay time.Duration
}

// NewRunner parses commandLine with shell quoting rules
func NewRunner(commandLine string) (*Runner, error) {
	if strings.TrimSpace(commandLine) == "" {
		commandLine = DefaultCommand
	}
	words, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("parsing test command %q: %w", commandLine, err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyCommand
	}
	return &Runner{command: words, WaitDelay: 5 * time.Second}, nil
}

// Command returns the full argv for the given extra arguments
func (r *Runner) Command(extra []string) []string {
	argv := append([]string(nil), r.command...)
	argv = ensureJSON(argv)
	return append(argv, extra...)
}

// ensureJSON inserts -json after "go test" when the command is the plain go
// tool and the flag is missing. Wrapper tools are left untouched.
func ensureJSON(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}
	base := strings.TrimSuffix(filepath.Base(argv[0]), ".exe")
	if base != "go" || argv[1] != "test" {
		return argv
	}
	for _, a := range argv[2:] {
		if a == "-json" || a == "--json" || strings.HasPrefix(a, "-json=") {
			return argv
		}
	}
	out := make([]string, 0, len(argv)+1)
	out = append(out, argv[:2]...)
	out = append(out, "-json")
	return append(out, argv[2:]...)
}

// Run starts the test command, pumps stdout into c and stderr into r.Stderr
// concurrently, and maps the process outcome to a session exit status.
// Cancelling ctx interrupts the child; the remaining events are still collected.
func (r *Runner) Run(ctx context.Context, c *Collector, extra []string) (Result, error) {
	argv := r.Command(extra)
	log.Printf("[gotest] running %s", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = os.Environ()
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = r.WaitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{Status: session.ExitInternalError, ExitCode: -1}, fmt.Errorf("creating stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{Status: session.ExitInternalError, ExitCode: -1}, fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return Result{Status: session.ExitUsageError, ExitCode: -1}, fmt.Errorf("starting %s: %w", argv[0], err)
		}
		return Result{Status: session.ExitInternalError, ExitCode: -1}, fmt.Errorf("starting %s: %w", argv[0], err)
	}

	// Events emitted while the child shuts down after an interrupt still count.
	collectCtx := context.WithoutCancel(ctx)
	tail := newLineTail(stderrTail)

	var g errgroup.Group
	g.Go(func() error {
		return c.Collect(collectCtx, stdout)
	})
	g.Go(func() error {
		return pumpStderr(stderr, r.Stderr, tail)
	})
	pumpErr := g.Wait()
	waitErr := cmd.Wait()

	result := Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stderr:   tail.lines(),
	}
	result.Status = classifyExit(ctx.Err() != nil, result.ExitCode, c.session.Snapshot())

	if pumpErr != nil && !errors.Is(pumpErr, os.ErrClosed) {
		log.Printf("[gotest] reading child output: %v", pumpErr)
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) && ctx.Err() == nil {
		return result, fmt.Errorf("waiting for %s: %w", argv[0], waitErr)
	}
	return result, nil
}

// classifyExit maps a finished child to a session exit status
func classifyExit(interrupted bool, exitCode int, counts session.Counts) session.ExitStatus {
	switch {
	case interrupted:
		return session.ExitInterrupted
	case exitCode == 0 && counts.Total() == 0:
		return session.ExitNoTestsCollected
	case exitCode == 0:
		return session.ExitOK
	case exitCode == 2:
		return session.ExitUsageError
	case counts.Get(session.CategoryFailed) > 0 || counts.Get(session.CategoryError) > 0:
		return session.ExitTestsFailed
	default:
		return session.ExitInternalError
	}
}

func pumpStderr(r io.Reader, w io.Writer, tail *lineTail) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		tail.add(line)
		if w != nil {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

// lineTail keeps the last n lines written to it
type lineTail struct {
	n   int
	buf []string
}

func newLineTail(n int) *lineTail {
	return &lineTail{n: n}
}

func (t *lineTail) add(line string) {
	t.buf = append(t.buf, line)
	if len(t.buf) > t.n {
		t.buf = t.buf[len(t.buf)-t.n:]
	}
}

func (t *lineTail) lines() []string {
	return append([]string(nil), t.buf...)
}
