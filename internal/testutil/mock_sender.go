package testutil

import (
	"strings"
	"sync"
	"testing"

	"github.com/testnotifier/testnotifier/internal/summary"
)

// CallRecord is one Notify call seen by MockSender
type CallRecord struct {
	Title   string
	Message string
	Kind    summary.Kind
}

// MockSender records notifications instead of dispatching them.
// It satisfies lifecycle.NotificationSender.
type MockSender struct {
	mu    sync.Mutex
	calls []CallRecord
}

// NewMockSender creates an empty recording sender
func NewMockSender() *MockSender {
	return &MockSender{}
}

// Notify records the call
func (m *MockSender) Notify(title, message string, kind summary.Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, CallRecord{Title: title, Message: message, Kind: kind})
}

// GetCalls returns a copy of all recorded calls
func (m *MockSender) GetCalls() []CallRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CallRecord(nil), m.calls...)
}

// GetCallCount returns the number of recorded calls
func (m *MockSender) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// AssertCalled fails the test unless exactly one notification of kind was
// sent and its message contains messageSubstring.
func (m *MockSender) AssertCalled(t *testing.T, kind summary.Kind, messageSubstring string) {
	t.Helper()
	calls := m.GetCalls()
	if len(calls) != 1 {
		t.Errorf("expected exactly one notification, got %d: %+v", len(calls), calls)
		return
	}
	if calls[0].Kind != kind {
		t.Errorf("expected a %s notification, got %s", kind, calls[0].Kind)
	}
	if !strings.Contains(calls[0].Message, messageSubstring) {
		t.Errorf("expected message containing %q, got %q", messageSubstring, calls[0].Message)
	}
}

// AssertNotCalled fails the test if any notification was sent
func (m *MockSender) AssertNotCalled(t *testing.T) {
	t.Helper()
	if n := m.GetCallCount(); n != 0 {
		t.Errorf("expected no notifications, got %d: %+v", n, m.GetCalls())
	}
}

// Reset clears all recorded calls
func (m *MockSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
