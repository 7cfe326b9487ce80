// Package testutil provides test helpers shared by testnotifier's package tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// IsolateEnv points the user config and state directories into a fresh temp
// dir and clears every TESTNOTIFIER_* variable for the duration of the test.
// It returns the temp dir. Tests using it cannot run in parallel.
//
// Layout:
//
//	<dir>/config  XDG_CONFIG_HOME
//	<dir>/state   XDG_STATE_HOME
func IsolateEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, kv := range os.Environ() {
		if k, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, "TESTNOTIFIER_") {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
	}
	return dir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteLines writes lines joined by newlines, with a trailing newline.
func WriteLines(t *testing.T, path string, lines ...string) string {
	t.Helper()
	return WriteFile(t, path, strings.Join(lines, "\n")+"\n")
}
