package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeDuration
	TypeString
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeDuration:
		return "duration"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Config key (e.g., "notifier_type")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"notifier": {
		Path:        "notifier",
		Type:        TypeBool,
		Description: "Enable desktop notifications at the end of a test session",
		Default:     true,
	},
	"notifier_onzero_title": {
		Path:        "notifier_onzero_title",
		Type:        TypeString,
		Description: "Notification title when no tests ran",
		Default:     DefaultTitle,
	},
	"notifier_onpass_title": {
		Path:        "notifier_onpass_title",
		Type:        TypeString,
		Description: "Notification title when all executed tests passed",
		Default:     DefaultTitle,
	},
	"notifier_onfail_title": {
		Path:        "notifier_onfail_title",
		Type:        TypeString,
		Description: "Notification title when any test failed or errored",
		Default:     DefaultTitle,
	},
	"notifier_oninterrupt_title": {
		Path:        "notifier_oninterrupt_title",
		Type:        TypeString,
		Description: "Notification title when the session was interrupted",
		Default:     DefaultInterruptTitle,
	},
	"notifier_type": {
		Path:          "notifier_type",
		Type:          TypeEnum,
		AllowedValues: []string{"visual", "sound", "both"},
		Description:   "Notification output type",
		Default:       "visual",
	},
	"notifier_sound_file": {
		Path:        "notifier_sound_file",
		Type:        TypeString,
		Description: "Custom sound file played for sound notifications",
		Default:     "",
	},
	"notifier_timeout": {
		Path:        "notifier_timeout",
		Type:        TypeDuration,
		Description: "Upper bound on a single notification dispatch (e.g., 5s)",
		Default:     "5s",
	},
	"notifier_skip_ci": {
		Path:        "notifier_skip_ci",
		Type:        TypeBool,
		Description: "Suppress notifications when a CI environment is detected",
		Default:     false,
	},
	"test_command": {
		Path:        "test_command",
		Type:        TypeString,
		Description: "Command line used by 'testnotifier run'",
		Default:     "go test -json",
	},
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeDuration:
		return parseDurationValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseDurationValue parses and validates a duration value.
func parseDurationValue(value string) (ParsedValue, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid duration: %q (examples: 5m, 1h30m, 10s)", value)
	}
	return ParsedValue{Raw: value, Parsed: d.String(), Type: TypeDuration}, nil
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}

// SortedKeys returns the known keys in alphabetical order
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
