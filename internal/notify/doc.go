// Package notify delivers test session summaries to the desktop.
//
// Notifications go through native OS tools via os/exec, so the binary stays
// CGO_ENABLED=0 compatible:
//
//   - macOS: osascript for visual notifications, afplay for sound
//   - Linux: notify-send for visual notifications, paplay for sound
//   - Windows: PowerShell for toast notifications and sound
//
// Missing tools degrade to a silent no-op. Delivery is best-effort: errors are
// logged under the [notify] prefix and never reach the caller.
//
// # Usage
//
//	handler := notify.NewHandler(notify.Config{Enabled: true, Type: notify.OutputVisual})
//	handler.Notify("go test", "Success - 3 Passed in 1.23s", summary.KindPass)
package notify
