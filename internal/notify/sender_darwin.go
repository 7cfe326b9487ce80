//go:build darwin

package notify

import "os/exec"

// DefaultMacOSSound is the default notification sound on macOS
const DefaultMacOSSound = "/System/Library/Sounds/Glass.aiff"

// darwinSender implements Sender for macOS. It prefers terminal-notifier when
// installed and falls back to osascript.
type darwinSender struct {
	terminalNotifier bool
	visualAvailable  bool
	soundAvailable   bool
}

func newDarwinSender() Sender {
	tn := toolAvailable("terminal-notifier")
	return &darwinSender{
		terminalNotifier: tn,
		visualAvailable:  tn || toolAvailable("osascript"),
		soundAvailable:   toolAvailable("afplay"),
	}
}

func newLinuxSender() Sender   { return &noopSender{} }
func newWindowsSender() Sender { return &noopSender{} }

// SendVisual posts to Notification Center
func (s *darwinSender) SendVisual(n Notification) error {
	if !s.visualAvailable {
		return nil
	}
	if s.terminalNotifier {
		return exec.Command("terminal-notifier", terminalNotifierArgs(n)...).Run()
	}
	return exec.Command("osascript", osascriptArgs(n)...).Run()
}

// SendSound plays a sound using afplay
func (s *darwinSender) SendSound(soundFile string) error {
	if !s.soundAvailable {
		return nil
	}
	validated := ValidateSoundFile(soundFile)
	if validated == "" {
		validated = DefaultMacOSSound
	}
	return exec.Command("afplay", validated).Run()
}

func (s *darwinSender) VisualAvailable() bool { return s.visualAvailable }
func (s *darwinSender) SoundAvailable() bool  { return s.soundAvailable }
