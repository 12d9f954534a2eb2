package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typetrainer/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, cfg)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "config.toml", "[practice]\nlevl = \"easy\"\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "levl")
}

func TestResolveDefaults(t *testing.T) {
	s, err := Resolve(FileConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLevel, s.Level)
	assert.Equal(t, 100*time.Millisecond, s.StatsInterval)
	assert.Equal(t, DefaultMaxHistoryItems, s.MaxHistoryItems)
	assert.Equal(t, []string{"beginner", "easy", "medium", "hard", "expert", "master"}, s.LevelIDs())
	assert.Equal(t, model.Threshold{MinWPM: 60, MinAccuracy: 85}, s.Stars[3])
	assert.Equal(t, DefaultLayout, s.Layout)
	assert.True(t, s.ShowKeyboard)
}

func TestResolveOverrides(t *testing.T) {
	textsPath := writeFile(t, "texts.txt", "alpha beta\n\n  gamma delta  \n")
	path := writeFile(t, "config.toml", `
[practice]
level = "custom"
stats-interval-ms = 250
layout = "en"
keyboard = false

[storage]
max-history-items = 5
key-prefix = "tt_"

[rating.stars.5]
min-wpm = 120

[levels.easy]
target-wpm = 30

[levels.custom]
name = "Custom"
texts = ["one two"]
texts-file = "`+filepath.ToSlash(textsPath)+`"
`)
	fc, err := LoadConfig(path)
	require.NoError(t, err)
	s, err := Resolve(fc)
	require.NoError(t, err)

	assert.Equal(t, "custom", s.Level)
	assert.Equal(t, 250*time.Millisecond, s.StatsInterval)
	assert.Equal(t, 5, s.MaxHistoryItems)
	assert.Equal(t, "tt_", s.KeyPrefix)
	assert.Equal(t, "en", s.Layout)
	assert.False(t, s.ShowKeyboard)
	assert.Equal(t, model.Threshold{MinWPM: 120, MinAccuracy: 95}, s.Stars[5])

	easy, ok := s.LevelByID("easy")
	require.True(t, ok)
	assert.Equal(t, 30, easy.TargetWPM)
	assert.Equal(t, 8, easy.MaxErrors)
	assert.Len(t, easy.Texts, 3)

	custom, ok := s.LevelByID("custom")
	require.True(t, ok)
	assert.Equal(t, "Custom", custom.Name)
	assert.Equal(t, []string{"one two", "alpha beta", "gamma delta"}, custom.Texts)
	assert.Equal(t, "custom", s.LevelIDs()[len(s.LevelIDs())-1])
}

func TestResolveValidation(t *testing.T) {
	intPtr := func(v int) *int { return &v }
	strPtr := func(v string) *string { return &v }

	tests := []struct {
		name string
		fc   FileConfig
		want string
	}{
		{"unknown level", FileConfig{Practice: PracticeConfig{Level: strPtr("nope")}}, "unknown level"},
		{"zero interval", FileConfig{Practice: PracticeConfig{StatsIntervalMs: intPtr(0)}}, "stats-interval-ms"},
		{"zero history", FileConfig{Storage: StorageConfig{MaxHistoryItems: intPtr(0)}}, "max-history-items"},
		{"bad star key", FileConfig{Rating: RatingConfig{Stars: map[string]StarConfig{"6": {}}}}, "rating.stars"},
		{"bad accuracy", FileConfig{Rating: RatingConfig{Stars: map[string]StarConfig{"2": {MinAccuracy: intPtr(101)}}}}, "min-accuracy"},
		{"new level without texts", FileConfig{Levels: map[string]LevelConfig{"empty": {}}}, "has no texts"},
		{"unknown layout", FileConfig{Practice: PracticeConfig{Layout: strPtr("dvorak")}}, "unknown keyboard layout"},
		{"text too long", FileConfig{Practice: PracticeConfig{MaxTextLength: intPtr(5)}}, "max-text-length"},
		{"missing texts file", FileConfig{Levels: map[string]LevelConfig{"x": {TextsFile: strPtr(filepath.Join(os.TempDir(), "missing-typetrainer.txt"))}}}, "failed to load texts"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.fc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDefaultTemplateDecodes(t *testing.T) {
	var fc FileConfig
	meta, err := toml.Decode(DefaultTemplate(), &fc)
	require.NoError(t, err)
	assert.Empty(t, meta.Undecoded())
	assert.Equal(t, FileConfig{}, fc)
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	assert.Equal(t, filepath.Join("/cfg", "typetrainer", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/data", "typetrainer", "typetrainer.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join("/state", "typetrainer", "typetrainer.log"), DefaultLogPath())
}
