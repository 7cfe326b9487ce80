package history

import (
	"fmt"
	"log"
)

// Writer appends sessions to the history file with pruning.
type Writer struct {
	// StateDir is the directory containing the history file.
	StateDir string
	// MaxEntries is the maximum number of entries to retain.
	MaxEntries int
}

// NewWriter creates a new history writer.
func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{
		StateDir:   stateDir,
		MaxEntries: maxEntries,
	}
}

// Record appends entry, assigning an ID when it has none, and prunes the
// oldest entries beyond MaxEntries. It returns the stored entry's ID.
func (w *Writer) Record(entry Entry) (string, error) {
	if entry.ID == "" {
		id, err := GenerateID(entry.Timestamp)
		if err != nil {
			return "", err
		}
		entry.ID = id
	}

	history, err := LoadHistory(w.StateDir)
	if err != nil {
		return "", fmt.Errorf("loading history: %w", err)
	}

	history.Entries = append(history.Entries, entry)
	if w.MaxEntries > 0 && len(history.Entries) > w.MaxEntries {
		excess := len(history.Entries) - w.MaxEntries
		history.Entries = history.Entries[excess:]
	}

	if err := SaveHistory(w.StateDir, history); err != nil {
		return "", fmt.Errorf("saving history: %w", err)
	}
	return entry.ID, nil
}

// Log records entry. Failures are logged and otherwise ignored.
func (w *Writer) Log(entry Entry) {
	if _, err := w.Record(entry); err != nil {
		log.Printf("[history] failed to record session: %v", err)
	}
}
