// Package history keeps a log of finished test sessions.
package history

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// HistoryFileName is the name of the history file.
	HistoryFileName = "history.yaml"
	// BackupSuffix is the suffix for backup files when corruption is detected.
	BackupSuffix = ".backup"
	// DefaultMaxEntries is how many sessions are retained.
	DefaultMaxEntries = 200
)

// Entry is one finished test session.
type Entry struct {
	// ID is unique per session, in YYYYMMDD_HHMMSS_xxxx format.
	ID string `yaml:"id"`
	// Timestamp is when the session started.
	Timestamp time.Time `yaml:"timestamp"`
	// Command is the testnotifier command that produced the session (run or report).
	Command string `yaml:"command"`
	// Dir is the working directory of the session.
	Dir string `yaml:"dir,omitempty"`
	// Kind is the summary classification: interrupt, zero, pass or fail.
	Kind string `yaml:"kind"`
	// Title and Message are the composed notification.
	Title   string `yaml:"title"`
	Message string `yaml:"message"`

	Passed     int `yaml:"passed"`
	Failed     int `yaml:"failed"`
	Errors     int `yaml:"errors"`
	Deselected int `yaml:"deselected"`

	// ExitCode is the exit code testnotifier returned for the session.
	ExitCode int `yaml:"exit_code"`
	// Duration is the session duration in Go duration format (e.g., "2.5s").
	Duration string `yaml:"duration"`
}

// HistoryFile represents the YAML file containing all history entries.
type HistoryFile struct {
	// Entries is ordered oldest first.
	Entries []Entry `yaml:"entries"`
}

// DefaultStateDir returns the directory holding the history file:
// $XDG_STATE_HOME/testnotifier, or ~/.local/state/testnotifier.
func DefaultStateDir() (string, error) {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "testnotifier"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "state", "testnotifier"), nil
}

// GenerateID creates an identifier from the session start and a random suffix.
func GenerateID(start time.Time) (string, error) {
	var suffix [2]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", fmt.Errorf("generating random suffix: %w", err)
	}
	return start.Format("20060102_150405") + "_" + hex.EncodeToString(suffix[:]), nil
}

// LoadHistory loads the history file from the given state directory.
// Returns empty history if file doesn't exist.
// Handles corrupted files by backing them up and creating a fresh history.
func LoadHistory(stateDir string) (*HistoryFile, error) {
	historyPath := filepath.Join(stateDir, HistoryFileName)

	data, err := os.ReadFile(historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &HistoryFile{Entries: []Entry{}}, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history HistoryFile
	if err := yaml.Unmarshal(data, &history); err != nil {
		if backupErr := backupCorruptedFile(historyPath); backupErr != nil {
			return nil, fmt.Errorf("backing up corrupted history file: %w", backupErr)
		}
		return &HistoryFile{Entries: []Entry{}}, nil
	}

	if history.Entries == nil {
		history.Entries = []Entry{}
	}
	return &history, nil
}

// backupCorruptedFile renames a corrupted file with a .backup suffix.
func backupCorruptedFile(path string) error {
	if err := os.Rename(path, path+BackupSuffix); err != nil {
		return fmt.Errorf("renaming corrupted file to backup: %w", err)
	}
	return nil
}

// SaveHistory saves the history file to the given state directory using atomic writes.
// Creates parent directories if needed.
func SaveHistory(stateDir string, history *HistoryFile) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	historyPath := filepath.Join(stateDir, HistoryFileName)
	tmpPath := historyPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp history file: %w", err)
	}
	if err := os.Rename(tmpPath, historyPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp history file: %w", err)
	}
	return nil
}

// ClearHistory removes all entries from the history file.
func ClearHistory(stateDir string) error {
	return SaveHistory(stateDir, &HistoryFile{Entries: []Entry{}})
}

// Filter selects entries by kind and keeps the last limit of them.
// An empty kind matches everything; limit <= 0 keeps all matches.
func Filter(entries []Entry, kind string, limit int) []Entry {
	var out []Entry
	for _, e := range entries {
		if kind != "" && e.Kind != kind {
			continue
		}
		out = append(out, e)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
