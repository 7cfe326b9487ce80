package notify

import (
	"errors"
	"sync"
	"time"
)

// MockSender records all Sender calls and allows configuring return values.
type MockSender struct {
	mu sync.Mutex

	VisualError     error
	SoundError      error
	visualAvailable bool
	soundAvailable  bool
	delay           time.Duration

	VisualCalls []Notification
	SoundCalls  []string
}

// NewMockSender creates a mock sender with all outputs available and no errors
func NewMockSender() *MockSender {
	return &MockSender{
		visualAvailable: true,
		soundAvailable:  true,
	}
}

// WithVisualError configures the mock to return an error on SendVisual
func (m *MockSender) WithVisualError(err error) *MockSender {
	m.VisualError = err
	return m
}

// WithSoundError configures the mock to return an error on SendSound
func (m *MockSender) WithSoundError(err error) *MockSender {
	m.SoundError = err
	return m
}

// WithVisualAvailable configures whether visual notifications are available
func (m *MockSender) WithVisualAvailable(available bool) *MockSender {
	m.visualAvailable = available
	return m
}

// WithDelay makes every send block for d
func (m *MockSender) WithDelay(d time.Duration) *MockSender {
	m.delay = d
	return m
}

func (m *MockSender) SendVisual(n Notification) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VisualCalls = append(m.VisualCalls, n)
	return m.VisualError
}

func (m *MockSender) SendSound(soundFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SoundCalls = append(m.SoundCalls, soundFile)
	return m.SoundError
}

func (m *MockSender) VisualAvailable() bool { return m.visualAvailable }
func (m *MockSender) SoundAvailable() bool  { return m.soundAvailable }

// Visual returns a copy of the recorded visual notifications
func (m *MockSender) Visual() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.VisualCalls...)
}

// Sound returns a copy of the recorded sound files
func (m *MockSender) Sound() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.SoundCalls...)
}

var (
	ErrMockVisual = errors.New("mock visual notification error")
	ErrMockSound  = errors.New("mock sound notification error")
)
