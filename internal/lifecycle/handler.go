package lifecycle

import "github.com/testnotifier/testnotifier/internal/summary"

// NotificationSender delivers a composed summary.
// This interface is satisfied by *notify.Handler but defined separately so the
// lifecycle package does not depend on platform notification code.
type NotificationSender interface {
	// Notify sends one notification. Delivery is best-effort; implementations
	// must not block indefinitely.
	//   - title: the configured title for kind
	//   - message: the composed body, e.g. "2 Passed 1 Failed in 2.00s"
	//   - kind: which classification branch produced the message
	Notify(title, message string, kind summary.Kind)
}
