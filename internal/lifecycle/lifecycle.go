// Package lifecycle connects a test session to the summarizer and the
// notification sender.
//
// A Plugin is constructed once per session and receives the two host
// callbacks in order: SessionFinish with the final exit status, then
// TerminalSummary which finishes the session and dispatches at most one
// notification. No process-wide state is kept.
package lifecycle

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/testnotifier/testnotifier/internal/session"
	"github.com/testnotifier/testnotifier/internal/summary"
)

// ErrAlreadySummarized is returned when TerminalSummary runs a second time
var ErrAlreadySummarized = errors.New("session already summarized")

// Plugin holds per-session hook state
type Plugin struct {
	config summary.Config
	sender NotificationSender
	clock  func() time.Time

	mu         sync.Mutex
	status     session.ExitStatus
	statusSet  bool
	summarized bool
}

// NewPlugin creates a plugin for one session. A nil sender computes the
// summary without dispatching it.
func NewPlugin(config summary.Config, sender NotificationSender) *Plugin {
	return &Plugin{
		config: config,
		sender: sender,
		clock:  time.Now,
	}
}

// SetClock replaces the time source used to measure the session duration
func (p *Plugin) SetClock(clock func() time.Time) {
	p.clock = clock
}

// Config returns the summary configuration
func (p *Plugin) Config() summary.Config {
	return p.config
}

// SessionFinish records the host's final exit status. The first call wins.
func (p *Plugin) SessionFinish(status session.ExitStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.statusSet {
		return
	}
	p.status = status
	p.statusSet = true
}

// Status returns the recorded exit status (ExitOK before SessionFinish)
func (p *Plugin) Status() session.ExitStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// TerminalSummary finishes s with the recorded status, composes the summary
// and dispatches it when notifications are enabled. It fires exactly once.
func (p *Plugin) TerminalSummary(s *session.Session) (session.Outcome, error) {
	p.mu.Lock()
	if p.summarized {
		p.mu.Unlock()
		outcome, _ := s.Outcome()
		return outcome, ErrAlreadySummarized
	}
	p.summarized = true
	status := p.status
	p.mu.Unlock()

	outcome, err := s.Finish(status, p.clock())
	if err != nil {
		return outcome, err
	}

	msg, ok := summary.Summarize(outcome, p.config)
	if !ok {
		log.Printf("[lifecycle] notifications disabled, skipping dispatch")
		return outcome, nil
	}
	notify(p.sender, msg)
	return outcome, nil
}

// Run drives a whole session: it executes fn, records its exit status and
// summarizes. If ctx is cancelled by the time fn returns, the session is
// reported as interrupted regardless of the status fn returned.
//
// The error from fn is returned unchanged.
func Run(ctx context.Context, p *Plugin, s *session.Session, fn func(context.Context) (session.ExitStatus, error)) (session.Outcome, error) {
	if err := ctx.Err(); err != nil {
		p.SessionFinish(session.ExitInterrupted)
		outcome, _ := p.TerminalSummary(s)
		return outcome, err
	}

	status, fnErr := fn(ctx)
	if ctx.Err() != nil {
		status = session.ExitInterrupted
	}
	p.SessionFinish(status)

	outcome, err := p.TerminalSummary(s)
	if fnErr != nil {
		return outcome, fnErr
	}
	return outcome, err
}

// notify safely calls the sender with panic recovery
func notify(sender NotificationSender, msg summary.Message) {
	if sender == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[lifecycle] notification sender panicked: %v", r)
		}
	}()
	sender.Notify(msg.Title, msg.Body, msg.Kind)
}
