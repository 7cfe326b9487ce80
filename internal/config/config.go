package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/testnotifier/testnotifier/internal/notify"
	"github.com/testnotifier/testnotifier/internal/summary"
)

// EnvPrefix is the prefix of environment variables that override config keys
const EnvPrefix = "TESTNOTIFIER_"

// DefaultProjectFile is the project config file looked up in the working directory
const DefaultProjectFile = ".testnotifier.yml"

// Configuration represents the testnotifier configuration
type Configuration struct {
	Notifier         bool   `koanf:"notifier" yaml:"notifier"`
	OnZeroTitle      string `koanf:"notifier_onzero_title" yaml:"notifier_onzero_title"`
	OnPassTitle      string `koanf:"notifier_onpass_title" yaml:"notifier_onpass_title"`
	OnFailTitle      string `koanf:"notifier_onfail_title" yaml:"notifier_onfail_title"`
	OnInterruptTitle string `koanf:"notifier_oninterrupt_title" yaml:"notifier_oninterrupt_title"`

	NotifierType      notify.OutputType `koanf:"notifier_type" yaml:"notifier_type" validate:"omitempty,oneof=visual sound both"`
	NotifierSoundFile string            `koanf:"notifier_sound_file" yaml:"notifier_sound_file"`
	NotifierTimeout   time.Duration     `koanf:"notifier_timeout" yaml:"notifier_timeout"`
	NotifierSkipCI    bool              `koanf:"notifier_skip_ci" yaml:"notifier_skip_ci"`

	TestCommand string `koanf:"test_command" yaml:"test_command"`
}

// LoadOptions selects the files and overrides used by Load
type LoadOptions struct {
	// ProjectPath is the project config file. Empty means DefaultProjectFile.
	ProjectPath string
	// RequireProject makes a missing project file an error (set for an explicit --config)
	RequireProject bool
	// SkipUser disables the user config file
	SkipUser bool
	// Overrides are applied last, typically from command-line flags the user set
	Overrides map[string]interface{}
}

// Load resolves the configuration.
// Priority: Overrides > Environment variables > Project config > User config > Defaults
func Load(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if !opts.SkipUser {
		userPath, err := UserConfigPath()
		if err == nil {
			if err := loadFile(k, userPath, false); err != nil {
				return nil, fmt.Errorf("failed to load user config: %w", err)
			}
		}
	}

	projectPath := opts.ProjectPath
	if projectPath == "" {
		projectPath = DefaultProjectFile
	}
	if err := loadFile(k, projectPath, opts.RequireProject); err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	for key, value := range opts.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting %s: %w", key, err)
		}
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateStruct(&cfg, projectPath); err != nil {
		return nil, err
	}
	cfg.NotifierSoundFile = expandHomePath(cfg.NotifierSoundFile)
	if err := ValidateConfigValues(&cfg, projectPath); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadFile merges path into k. A missing file is skipped unless required.
func loadFile(k *koanf.Koanf, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return err
	}

	parser := parserFor(path)
	if _, ok := parser.(*YAMLParser); ok {
		if err := ValidateYAMLSyntax(path); err != nil {
			return err
		}
	}

	log.Printf("[config] loading %s", path)
	return k.Load(file.Provider(path), parser)
}

// parserFor picks the koanf parser from the file extension. YAML is the default.
func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}
	return NewYAMLParser()
}

// validateStruct runs the struct tag rules and reports the first failure by config key
func validateStruct(cfg *Configuration, filePath string) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("koanf")
	})
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fmt.Sprintf("failed '%s' rule", fe.Tag())
		if fe.Tag() == "oneof" {
			msg = "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
		}
		return &ValidationError{FilePath: filePath, Field: fe.Field(), Message: msg}
	}
	return fmt.Errorf("config validation failed: %w", err)
}

// envTransform converts environment variable names to config keys
// Example: TESTNOTIFIER_NOTIFIER_ONPASS_TITLE -> notifier_onpass_title
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// UserConfigPath returns the user-level config file, honouring XDG_CONFIG_HOME
func UserConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "testnotifier", "config.yml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "testnotifier", "config.yml"), nil
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// Titles returns the summary configuration for the lifecycle plugin
func (c *Configuration) Titles() summary.Config {
	return summary.Config{
		Enabled: c.Notifier,
		Titles: summary.Titles{
			OnZero:      c.OnZeroTitle,
			OnPass:      c.OnPassTitle,
			OnFail:      c.OnFailTitle,
			OnInterrupt: c.OnInterruptTitle,
		},
	}
}

// NotifyConfig returns the delivery settings for the notification handler
func (c *Configuration) NotifyConfig() notify.Config {
	nc := notify.DefaultConfig()
	nc.Enabled = c.Notifier
	if c.NotifierType != "" {
		nc.Type = c.NotifierType
	}
	nc.SoundFile = c.NotifierSoundFile
	if c.NotifierTimeout > 0 {
		nc.Timeout = c.NotifierTimeout
	}
	nc.SkipCI = c.NotifierSkipCI
	return nc
}

// Values returns the configuration keyed by config key, in display form
func (c *Configuration) Values() map[string]interface{} {
	return map[string]interface{}{
		"notifier":                   c.Notifier,
		"notifier_onzero_title":      c.OnZeroTitle,
		"notifier_onpass_title":      c.OnPassTitle,
		"notifier_onfail_title":      c.OnFailTitle,
		"notifier_oninterrupt_title": c.OnInterruptTitle,
		"notifier_type":              string(c.NotifierType),
		"notifier_sound_file":        c.NotifierSoundFile,
		"notifier_timeout":           c.NotifierTimeout.String(),
		"notifier_skip_ci":           c.NotifierSkipCI,
		"test_command":               c.TestCommand,
	}
}
