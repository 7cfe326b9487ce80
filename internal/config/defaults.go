package config

// Default titles. The zero, pass and fail outcomes share one title; an
// interrupted session is called out explicitly.
const (
	DefaultTitle          = "go test"
	DefaultInterruptTitle = "go test - interrupted"
)

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"notifier":                   true,
		"notifier_onzero_title":      DefaultTitle,
		"notifier_onpass_title":      DefaultTitle,
		"notifier_onfail_title":      DefaultTitle,
		"notifier_oninterrupt_title": DefaultInterruptTitle,
		"notifier_type":              "visual",
		"notifier_sound_file":        "",
		"notifier_timeout":           "5s",
		"notifier_skip_ci":           false,
		"test_command":               "go test -json",
	}
}

// GetDefaultConfigTemplate returns a commented YAML config file with every
// known key set to its default
func GetDefaultConfigTemplate() string {
	return `# testnotifier configuration
# Priority: flags > TESTNOTIFIER_* environment > project file > user file > defaults

# Notifications
notifier: true                                # Master switch for desktop notifications
notifier_onzero_title: "go test"              # Title when no tests ran
notifier_onpass_title: "go test"              # Title when all executed tests passed
notifier_onfail_title: "go test"              # Title when any test failed or errored
notifier_oninterrupt_title: "go test - interrupted"  # Title when the run was interrupted

# Delivery
notifier_type: visual                         # visual, sound, or both
notifier_sound_file: ""                       # Custom sound file (wav, mp3, aiff, ogg, flac, m4a)
notifier_timeout: 5s                          # Upper bound on a single dispatch
notifier_skip_ci: false                       # Suppress notifications when CI is detected

# Host runner
test_command: "go test -json"                 # Command used by 'testnotifier run'
`
}
