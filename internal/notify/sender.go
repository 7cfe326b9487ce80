package notify

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Sender delivers one session summary through the desktop's native tools.
// Implementations never block on user interaction; Handler bounds each call
// with notifier_timeout.
type Sender interface {
	// SendVisual shows the summary title and body as a desktop notification
	SendVisual(n Notification) error

	// SendSound plays notifier_sound_file. An empty or invalid file means the
	// platform default: Glass.aiff on macOS, a console beep on Windows and
	// silence on Linux.
	SendSound(soundFile string) error

	// VisualAvailable reports whether the visual tool was found on PATH.
	// doctor reports it; Handler skips the visual send when false.
	VisualAvailable() bool

	// SoundAvailable reports whether a sound player was found on PATH
	SoundAvailable() bool
}

// NewSender returns the sender for the running OS
func NewSender() Sender {
	return senderFor(runtime.GOOS)
}

// senderFor picks the sender for goos. Only the sender compiled for the
// running OS is real; the others resolve to noopSender.
func senderFor(goos string) Sender {
	switch goos {
	case "darwin":
		return newDarwinSender()
	case "linux":
		return newLinuxSender()
	case "windows":
		return newWindowsSender()
	default:
		return &noopSender{}
	}
}

// Platform returns the current operating system name
func Platform() string {
	return runtime.GOOS
}

// toolAvailable checks if a command-line tool is available in PATH
func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// noopSender drops every notification. Sessions on platforms without a
// known notification tool still get their summary line on the terminal.
type noopSender struct{}

func (s *noopSender) SendVisual(_ Notification) error { return nil }
func (s *noopSender) SendSound(_ string) error        { return nil }
func (s *noopSender) VisualAvailable() bool           { return false }
func (s *noopSender) SoundAvailable() bool            { return false }

// supportedAudioExtensions lists the notifier_sound_file formats every
// platform player (afplay, paplay, SoundPlayer) is tried with
var supportedAudioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".aiff": true,
	".aif":  true,
	".ogg":  true,
	".flac": true,
	".m4a":  true,
}

// ValidateSoundFile resolves notifier_sound_file for playback. It returns the
// path when the file exists with a supported extension, and "" otherwise so
// the sender falls back to the platform default. Config validation rejects a
// missing file up front; this check covers files removed after startup.
func ValidateSoundFile(soundFile string) string {
	if soundFile == "" {
		return ""
	}

	info, err := os.Stat(soundFile)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[notify] warning: custom sound file not found: %s, falling back to default", soundFile)
		} else {
			log.Printf("[notify] warning: cannot access custom sound file %s: %v, falling back to default", soundFile, err)
		}
		return ""
	}

	if info.IsDir() {
		log.Printf("[notify] warning: sound path is a directory, not a file: %s, falling back to default", soundFile)
		return ""
	}

	ext := strings.ToLower(filepath.Ext(soundFile))
	if !supportedAudioExtensions[ext] {
		log.Printf("[notify] warning: unsupported audio format '%s' for file: %s, falling back to default", ext, soundFile)
		return ""
	}

	return soundFile
}
