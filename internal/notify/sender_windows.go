//go:build windows

package notify

import (
	"fmt"
	"os/exec"
)

// windowsSender implements Sender for Windows using PowerShell
type windowsSender struct {
	available bool
}

func newWindowsSender() Sender {
	return &windowsSender{available: toolAvailable("powershell")}
}

func newDarwinSender() Sender { return &noopSender{} }
func newLinuxSender() Sender  { return &noopSender{} }

// SendVisual shows a toast notification
func (s *windowsSender) SendVisual(n Notification) error {
	if !s.available {
		return nil
	}
	return powershell(toastScript(n))
}

// SendSound plays a custom sound file, or a short beep when none is configured
func (s *windowsSender) SendSound(soundFile string) error {
	if !s.available {
		return nil
	}

	validated := ValidateSoundFile(soundFile)
	script := "[Console]::Beep(800, 200)"
	if validated != "" {
		script = fmt.Sprintf(`
$player = New-Object System.Media.SoundPlayer
$player.SoundLocation = '%s'
$player.PlaySync()
`, escapeForPowerShell(validated))
	}
	return powershell(script)
}

func (s *windowsSender) VisualAvailable() bool { return s.available }
func (s *windowsSender) SoundAvailable() bool  { return s.available }

func powershell(script string) error {
	return exec.Command("powershell", "-ExecutionPolicy", "Bypass", "-NoProfile", "-Command", script).Run()
}
