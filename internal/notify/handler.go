package notify

import (
	"context"
	"log"
	"os"

	"github.com/testnotifier/testnotifier/internal/summary"
)

// Handler dispatches composed session summaries through a Sender according
// to the delivery configuration.
type Handler struct {
	config Config
	sender Sender
}

// NewHandler creates a handler using the platform sender.
// If notifications are disabled in config, Notify is a no-op.
func NewHandler(config Config) *Handler {
	return &Handler{
		config: config,
		sender: NewSender(),
	}
}

// NewHandlerWithSender creates a handler with a custom sender (for testing).
func NewHandlerWithSender(config Config, sender Sender) *Handler {
	return &Handler{
		config: config,
		sender: sender,
	}
}

// Config returns the handler's delivery configuration
func (h *Handler) Config() Config {
	return h.config
}

// Enabled reports whether Notify would dispatch anything
func (h *Handler) Enabled() bool {
	if !h.config.Enabled {
		return false
	}
	if h.config.SkipCI && isCI() {
		log.Printf("[notify] CI environment detected, skipping notification")
		return false
	}
	return true
}

// ciVars are environment variables set by common CI providers
var ciVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_URL",
	"BUILDKITE",
	"DRONE",
	"TEAMCITY_VERSION",
	"TF_BUILD",            // Azure DevOps
	"BITBUCKET_PIPELINES", // Bitbucket
	"CODEBUILD_BUILD_ID",  // AWS CodeBuild
}

// isCI checks for common CI environment variables
func isCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// Notify sends one notification for a finished session.
// Delivery is best-effort: failures are logged and never returned.
func (h *Handler) Notify(title, message string, kind summary.Kind) {
	if !h.Enabled() {
		return
	}
	h.dispatch(NewNotification(title, message, TypeFor(kind)))
}

// dispatch sends a notification asynchronously and waits at most the
// configured timeout. A slow notification daemon never holds up exit for
// longer than that.
func (h *Handler) dispatch(n Notification) {
	timeout := h.config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.send(n)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("[notify] notification timed out after %s", timeout)
	}
}

// send delivers n based on the configured output type
func (h *Handler) send(n Notification) {
	outputType := h.config.Type
	if outputType == "" {
		outputType = OutputVisual
	}

	if outputType == OutputVisual || outputType == OutputBoth {
		if !h.sender.VisualAvailable() {
			log.Printf("[notify] no visual notification tool available on %s", Platform())
		}
		if err := h.sender.SendVisual(n); err != nil {
			log.Printf("[notify] visual notification failed: %v", err)
		}
	}
	if outputType == OutputSound || outputType == OutputBoth {
		if err := h.sender.SendSound(h.config.SoundFile); err != nil {
			log.Printf("[notify] sound notification failed: %v", err)
		}
	}
}
