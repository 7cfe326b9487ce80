package notify

import (
	"time"

	"github.com/testnotifier/testnotifier/internal/summary"
)

// NotificationType represents the type of notification event
type NotificationType string

const (
	// TypeSuccess indicates a passing session
	TypeSuccess NotificationType = "success"
	// TypeFailure indicates failed or errored tests
	TypeFailure NotificationType = "failure"
	// TypeInfo indicates an interrupted or empty session
	TypeInfo NotificationType = "info"
)

// TypeFor maps a summary kind to the notification type used for urgency
func TypeFor(kind summary.Kind) NotificationType {
	switch kind {
	case summary.KindPass:
		return TypeSuccess
	case summary.KindFail:
		return TypeFailure
	default:
		return TypeInfo
	}
}

// OutputType represents the notification output type
type OutputType string

const (
	// OutputSound sends only an audible notification
	OutputSound OutputType = "sound"
	// OutputVisual sends only a visual notification
	OutputVisual OutputType = "visual"
	// OutputBoth sends both sound and visual notifications
	OutputBoth OutputType = "both"
)

// ValidOutputType checks if the given string is a valid output type
func ValidOutputType(s string) bool {
	switch OutputType(s) {
	case OutputSound, OutputVisual, OutputBoth:
		return true
	default:
		return false
	}
}

// DefaultTimeout bounds a single dispatch
const DefaultTimeout = 5 * time.Second

// Config holds delivery preferences. The titles live in summary.Titles;
// this only covers how a composed message reaches the desktop.
type Config struct {
	// Enabled is the master switch (the --notifier option)
	Enabled bool

	// Type selects sound, visual or both (default: visual)
	Type OutputType

	// SoundFile is an optional custom sound file path
	SoundFile string

	// Timeout bounds how long Notify waits for the OS tools (default: 5s)
	Timeout time.Duration

	// SkipCI suppresses notifications when a CI environment is detected
	SkipCI bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Type:    OutputVisual,
		Timeout: DefaultTimeout,
	}
}

// Notification represents a single notification to dispatch
type Notification struct {
	// Title is the notification title (e.g., "go test")
	Title string

	// Message is the notification body (e.g., "2 Passed 1 Failed in 2.00s")
	Message string

	// NotificationType drives urgency on platforms that support it
	NotificationType NotificationType
}

// NewNotification creates a new Notification with the given parameters
func NewNotification(title, message string, notificationType NotificationType) Notification {
	return Notification{
		Title:            title,
		Message:          message,
		NotificationType: notificationType,
	}
}
