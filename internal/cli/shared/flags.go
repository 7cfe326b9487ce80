package shared

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/testnotifier/testnotifier/internal/config"
	"github.com/testnotifier/testnotifier/internal/notify"
)

// notifierFlag maps a command-line flag to the config key it overrides
type notifierFlag struct {
	key   string
	name  string
	usage string
	def   interface{}
}

// notifierFlags lists the registrar options followed by the delivery options
var notifierFlags = []notifierFlag{
	{key: "notifier", name: "notifier", usage: "Enable desktop notifications", def: true},
	{key: "notifier_onzero_title", name: "notifier-onzero-title", usage: "Notification title when no tests ran", def: config.DefaultTitle},
	{key: "notifier_onpass_title", name: "notifier-onpass-title", usage: "Notification title when all executed tests passed", def: config.DefaultTitle},
	{key: "notifier_onfail_title", name: "notifier-onfail-title", usage: "Notification title when any test failed or errored", def: config.DefaultTitle},
	{key: "notifier_oninterrupt_title", name: "notifier-oninterrupt-title", usage: "Notification title when the session was interrupted", def: config.DefaultInterruptTitle},
	{key: "notifier_type", name: "notifier-type", usage: "Notification output: visual, sound, or both", def: string(notify.OutputVisual)},
	{key: "notifier_sound_file", name: "notifier-sound-file", usage: "Custom sound file for sound notifications", def: ""},
	{key: "notifier_timeout", name: "notifier-timeout", usage: "Upper bound on a single notification dispatch", def: notify.DefaultTimeout},
	{key: "notifier_skip_ci", name: "notifier-skip-ci", usage: "Suppress notifications when CI is detected", def: false},
}

// RegisterGlobalFlags adds the persistent flags shared by every command
func RegisterGlobalFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", config.DefaultProjectFile, "Path to the project config file (YAML or JSON)")
	fs.String("env-file", config.DefaultEnvFile, "Dotenv file loaded into the environment before config")
	fs.BoolP("debug", "d", false, "Enable debug logging")
	fs.BoolP("verbose", "v", false, "Stream test output instead of showing progress")
	RegisterNotifierFlags(fs)
}

// RegisterNotifierFlags adds the notifier options to fs
func RegisterNotifierFlags(fs *pflag.FlagSet) {
	for _, f := range notifierFlags {
		switch d := f.def.(type) {
		case bool:
			fs.Bool(f.name, d, f.usage)
		case string:
			fs.String(f.name, d, f.usage)
		case time.Duration:
			fs.Duration(f.name, d, f.usage)
		}
	}
}

// FlagOverrides returns the config values of the notifier flags the user set.
// Flags left at their defaults do not override lower layers.
func FlagOverrides(fs *pflag.FlagSet) map[string]interface{} {
	out := make(map[string]interface{})
	for _, f := range notifierFlags {
		if fs.Lookup(f.name) == nil || !fs.Changed(f.name) {
			continue
		}
		var (
			v   interface{}
			err error
		)
		switch f.def.(type) {
		case bool:
			v, err = fs.GetBool(f.name)
		case string:
			v, err = fs.GetString(f.name)
		case time.Duration:
			v, err = fs.GetDuration(f.name)
		}
		if err == nil {
			out[f.key] = v
		}
	}
	return out
}
