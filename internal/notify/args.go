package notify

import (
	"fmt"
	"strings"
)

// appName identifies the sender to desktop notification daemons
const appName = "testnotifier"

// notifySendArgs builds the notify-send argument list for n
func notifySendArgs(n Notification) []string {
	urgency := "normal"
	icon := "dialog-information"
	switch n.NotificationType {
	case TypeFailure:
		urgency = "critical"
		icon = "dialog-error"
	case TypeSuccess:
		icon = "emblem-default"
	}
	return []string{"-a", appName, "-u", urgency, "-i", icon, n.Title, n.Message}
}

// terminalNotifierArgs builds the terminal-notifier argument list for n
func terminalNotifierArgs(n Notification) []string {
	return []string{"-title", n.Title, "-message", n.Message, "-group", appName}
}

// osascriptArgs builds the AppleScript display notification call for n
func osascriptArgs(n Notification) []string {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`,
		escapeForAppleScript(n.Message), escapeForAppleScript(n.Title))
	return []string{"-e", script}
}

// escapeForAppleScript escapes a value for a double-quoted AppleScript string.
// Only backslash and double quote are special there; everything else,
// control characters included, is passed through as is.
func escapeForAppleScript(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c == '\\' || c == '"' {
			b.WriteRune('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// toastScript builds the PowerShell toast script for n
func toastScript(n Notification) string {
	return fmt.Sprintf(`
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$textNodes = $template.GetElementsByTagName('text')
$textNodes.Item(0).AppendChild($template.CreateTextNode('%s')) | Out-Null
$textNodes.Item(1).AppendChild($template.CreateTextNode('%s')) | Out-Null
$toast = [Windows.UI.Notifications.ToastNotification]::new($template)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('%s').Show($toast)
`, escapeForPowerShell(n.Title), escapeForPowerShell(n.Message), appName)
}

// escapeForPowerShell escapes a value for a single-quoted PowerShell string,
// where a quote is written twice and backticks and $ are literal
func escapeForPowerShell(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
