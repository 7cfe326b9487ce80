//go:build linux

package notify

import (
	"os"
	"os/exec"
)

// linuxSender implements Sender for Linux using notify-send and paplay
type linuxSender struct {
	visualAvailable bool
	soundAvailable  bool
}

func newLinuxSender() Sender {
	return &linuxSender{
		visualAvailable: toolAvailable("notify-send") && hasDisplay(),
		soundAvailable:  toolAvailable("paplay"),
	}
}

func newDarwinSender() Sender  { return &noopSender{} }
func newWindowsSender() Sender { return &noopSender{} }

// hasDisplay checks for an X11 or Wayland session
func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// SendVisual sends a visual notification using notify-send
func (s *linuxSender) SendVisual(n Notification) error {
	if !s.visualAvailable {
		return nil
	}
	return exec.Command("notify-send", notifySendArgs(n)...).Run()
}

// SendSound plays a custom sound using paplay. Linux has no default sound.
func (s *linuxSender) SendSound(soundFile string) error {
	if !s.soundAvailable {
		return nil
	}
	validated := ValidateSoundFile(soundFile)
	if validated == "" {
		return nil
	}
	return exec.Command("paplay", validated).Run()
}

func (s *linuxSender) VisualAvailable() bool { return s.visualAvailable }
func (s *linuxSender) SoundAvailable() bool  { return s.soundAvailable }
