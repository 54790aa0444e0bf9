package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTOML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write toml: %v", err)
	}
	return path
}

// isolate points the default config path at an empty directory.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FLASHCARDS_CONFIG", "")
}

const validTOML = `
[log]
level = "debug"
format = "json"

[game]
deck = "english"
max_cards = 15
loop_count = 2
range = "3-9"
selection = "squares"
focus = "slow"
mode = "endless-3"
direction = "reverse"

[scoring]
level_points = [2, 4, 6, 8, 10]
close_adjustment = -2
language_bonus = 3
time_bonus = 4
time_bonus_secs = 2.5
`

func TestLoad_ValidTOML(t *testing.T) {
	isolate(t)
	path := writeTOML(t, t.TempDir(), validTOML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Game.Deck != "english" {
		t.Errorf("Game.Deck = %q, want %q", cfg.Game.Deck, "english")
	}
	if cfg.Game.MaxCards != 15 {
		t.Errorf("Game.MaxCards = %d, want 15", cfg.Game.MaxCards)
	}
	if cfg.Game.Mode != "endless-3" {
		t.Errorf("Game.Mode = %q, want %q", cfg.Game.Mode, "endless-3")
	}
	assert.Equal(t, []int{2, 4, 6, 8, 10}, cfg.Scoring.LevelPoints)

	sc := cfg.Scoring.Scoring()
	assert.Equal(t, 10, sc.LevelPoints[5])
	assert.Equal(t, -2, sc.CloseAdjustment)
	assert.Equal(t, 2500*time.Millisecond, sc.TimeBonusThreshold)
}

func TestLoad_EnvOverridesTOML(t *testing.T) {
	isolate(t)
	path := writeTOML(t, t.TempDir(), validTOML)
	t.Setenv("FLASHCARDS_MAX_CARDS", "7")
	t.Setenv("FLASHCARDS_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Game.MaxCards != 7 {
		t.Errorf("Game.MaxCards = %d, want 7 (ENV override)", cfg.Game.MaxCards)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_ConfigEnvVar(t *testing.T) {
	isolate(t)
	path := writeTOML(t, t.TempDir(), validTOML)
	t.Setenv("FLASHCARDS_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "english", cfg.Game.Deck)
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	isolate(t)
	path := writeTOML(t, t.TempDir(), "[game]\ndeck = \"spanish\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Game.Deck = "spanish"
	assert.Equal(t, want, *cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("Load() should fail for a missing explicit file")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad log level", map[string]string{"FLASHCARDS_LOG_LEVEL": "loud"}, "log.level"},
		{"bad log format", map[string]string{"FLASHCARDS_LOG_FORMAT": "xml"}, "log.format"},
		{"bad deck", map[string]string{"FLASHCARDS_DECK": "../etc"}, "deck"},
		{"zero max cards", map[string]string{"FLASHCARDS_MAX_CARDS": "-1"}, "max_cards"},
		{"bad range", map[string]string{"FLASHCARDS_RANGE": "9-x"}, "range"},
		{"bad mode", map[string]string{"FLASHCARDS_MODE": "sprint"}, "mode"},
		{"bad focus", map[string]string{"FLASHCARDS_FOCUS": "lazy"}, "focus"},
		{"short level table", map[string]string{"FLASHCARDS_LEVEL_POINTS": "1,2"}, "level_points"},
		{"decreasing level table", map[string]string{"FLASHCARDS_LEVEL_POINTS": "5,4,3,2,1"}, "level_points"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Session(t *testing.T) {
	cfg := Default()
	sc, err := cfg.Session()
	require.NoError(t, err)

	assert.Equal(t, 10, sc.MaxCards)
	assert.Equal(t, 3, sc.LoopCount)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, sc.Range.Sorted())
	assert.Equal(t, 5*time.Second, sc.Scoring.TimeBonusThreshold)

	settings, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, "all", settings.Selection.String())
}

func TestWriteDefault(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	require.NoError(t, WriteDefault(path, false))

	var decoded Config
	_, err := toml.DecodeFile(path, &decoded)
	require.NoError(t, err)
	assert.Equal(t, Default(), decoded)

	err = WriteDefault(path, false)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "already exists"))

	require.NoError(t, WriteDefault(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "flashcards", "config.toml"), DefaultPath())
}
