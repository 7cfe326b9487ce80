// Package config tests configuration loading, layering, and environment variable overrides.
// Related: internal/config/config.go
// Tags: config, loading, layering, env-vars, yaml, json, precedence
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testnotifier/testnotifier/internal/notify"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoad_Defaults changes the working directory, so it cannot run in parallel.
func TestLoad_Defaults(t *testing.T) {
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(originalWd)

	tmpDir := t.TempDir()
	require.NoError(t, os.Chdir(tmpDir))
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.True(t, cfg.Notifier)
	assert.Equal(t, "go test", cfg.OnZeroTitle)
	assert.Equal(t, "go test", cfg.OnPassTitle)
	assert.Equal(t, "go test", cfg.OnFailTitle)
	assert.Equal(t, "go test - interrupted", cfg.OnInterruptTitle)
	assert.Equal(t, notify.OutputVisual, cfg.NotifierType)
	assert.Equal(t, 5*time.Second, cfg.NotifierTimeout)
	assert.False(t, cfg.NotifierSkipCI)
	assert.Equal(t, "go test -json", cfg.TestCommand)
}

func TestLoad_ProjectFile(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name    string
		content string
	}{
		"yaml": {
			name: "config.yml",
			content: `notifier_onpass_title: "all green"
notifier_type: both
notifier_timeout: 2s
`,
		},
		"json": {
			name:    "config.json",
			content: `{"notifier_onpass_title": "all green", "notifier_type": "both", "notifier_timeout": "2s"}`,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, t.TempDir(), tt.name, tt.content)
			cfg, err := Load(LoadOptions{ProjectPath: path, SkipUser: true})
			require.NoError(t, err)
			assert.Equal(t, "all green", cfg.OnPassTitle)
			assert.Equal(t, "go test", cfg.OnFailTitle, "unset keys keep defaults")
			assert.Equal(t, notify.OutputBoth, cfg.NotifierType)
			assert.Equal(t, 2*time.Second, cfg.NotifierTimeout)
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "testnotifier"), 0o755))
	writeFile(t, filepath.Join(tmpDir, "testnotifier"), "config.yml", `notifier_onzero_title: user
notifier_onpass_title: user
notifier_onfail_title: user
notifier_oninterrupt_title: user
`)
	project := writeFile(t, tmpDir, "project.yml", `notifier_onpass_title: project
notifier_onfail_title: project
notifier_oninterrupt_title: project
`)
	t.Setenv("TESTNOTIFIER_NOTIFIER_ONFAIL_TITLE", "env")
	t.Setenv("TESTNOTIFIER_NOTIFIER_ONINTERRUPT_TITLE", "env")

	cfg, err := Load(LoadOptions{
		ProjectPath: project,
		Overrides:   map[string]interface{}{"notifier_oninterrupt_title": "flag"},
	})
	require.NoError(t, err)
	assert.Equal(t, "user", cfg.OnZeroTitle)
	assert.Equal(t, "project", cfg.OnPassTitle)
	assert.Equal(t, "env", cfg.OnFailTitle)
	assert.Equal(t, "flag", cfg.OnInterruptTitle)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TESTNOTIFIER_NOTIFIER", "false")
	t.Setenv("TESTNOTIFIER_NOTIFIER_SKIP_CI", "true")
	t.Setenv("TESTNOTIFIER_NOTIFIER_TIMEOUT", "750ms")

	cfg, err := Load(LoadOptions{ProjectPath: filepath.Join(t.TempDir(), "missing.yml"), SkipUser: true})
	require.NoError(t, err)
	assert.False(t, cfg.Notifier)
	assert.True(t, cfg.NotifierSkipCI)
	assert.Equal(t, 750*time.Millisecond, cfg.NotifierTimeout)
}

func TestLoad_EmptyTitleAccepted(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "config.yml", `notifier_onpass_title: ""`+"\n")
	cfg, err := Load(LoadOptions{ProjectPath: path, SkipUser: true})
	require.NoError(t, err)
	assert.Equal(t, "", cfg.OnPassTitle)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content   string
		wantField string
		wantLine  int
	}{
		"invalid notifier type": {
			content:   "notifier_type: loud\n",
			wantField: "notifier_type",
		},
		"missing sound file": {
			content:   "notifier_sound_file: /definitely/not/here.wav\n",
			wantField: "notifier_sound_file",
		},
		"negative timeout": {
			content:   "notifier_timeout: -1s\n",
			wantField: "notifier_timeout",
		},
		"empty test command": {
			content:   "test_command: \"  \"\n",
			wantField: "test_command",
		},
		"yaml syntax error": {
			content:  "notifier: true\n  notifier_type: visual\n",
			wantLine: 2,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, t.TempDir(), "config.yml", tt.content)
			_, err := Load(LoadOptions{ProjectPath: path, SkipUser: true})
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, verr.Field)
			}
			if tt.wantLine != 0 {
				assert.Equal(t, tt.wantLine, verr.Line)
			}
		})
	}
}

func TestLoad_RequireProject(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.yml")

	_, err := Load(LoadOptions{ProjectPath: missing, SkipUser: true})
	assert.NoError(t, err)

	_, err = Load(LoadOptions{ProjectPath: missing, SkipUser: true, RequireProject: true})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_ExpandsSoundFileHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, home, "ding.wav", "RIFF")

	path := writeFile(t, t.TempDir(), "config.yml", "notifier_sound_file: ~/ding.wav\n")
	cfg, err := Load(LoadOptions{ProjectPath: path, SkipUser: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "ding.wav"), cfg.NotifierSoundFile)
}

func TestUserConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err := UserConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "testnotifier", "config.yml"), path)

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/someone")
	path, err = UserConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/someone", ".config", "testnotifier", "config.yml"), path)
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "notifier_onpass_title", envTransform("TESTNOTIFIER_NOTIFIER_ONPASS_TITLE"))
	assert.Equal(t, "notifier", envTransform("TESTNOTIFIER_NOTIFIER"))
}

func TestConfiguration_Conversions(t *testing.T) {
	t.Parallel()

	cfg := &Configuration{
		Notifier:         true,
		OnZeroTitle:      "zero",
		OnPassTitle:      "pass",
		OnFailTitle:      "fail",
		OnInterruptTitle: "int",
		NotifierType:     notify.OutputSound,
		NotifierTimeout:  0,
		NotifierSkipCI:   true,
		TestCommand:      "go test -json",
	}

	sc := cfg.Titles()
	assert.True(t, sc.Enabled)
	assert.Equal(t, "zero", sc.Titles.OnZero)
	assert.Equal(t, "pass", sc.Titles.OnPass)
	assert.Equal(t, "fail", sc.Titles.OnFail)
	assert.Equal(t, "int", sc.Titles.OnInterrupt)

	nc := cfg.NotifyConfig()
	assert.True(t, nc.Enabled)
	assert.Equal(t, notify.OutputSound, nc.Type)
	assert.Equal(t, notify.DefaultTimeout, nc.Timeout, "zero timeout falls back to the default")
	assert.True(t, nc.SkipCI)

	values := cfg.Values()
	assert.Equal(t, "0s", values["notifier_timeout"])
	assert.Equal(t, "sound", values["notifier_type"])
	assert.Len(t, values, len(KnownKeys))
}
