// Package config provides configuration defaults, TOML parsing and XDG paths.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig         `toml:"practice"`
	Storage  StorageConfig          `toml:"storage"`
	Rating   RatingConfig           `toml:"rating"`
	Levels   map[string]LevelConfig `toml:"levels"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Level           *string  `toml:"level"`
	StatsIntervalMs *int     `toml:"stats-interval-ms"`
	MaxTextLength   *int     `toml:"max-text-length"`
	FocusWeak       *bool    `toml:"focus-weak"`
	WeakTop         *int     `toml:"weak-top"`
	WeakFactor      *float64 `toml:"weak-factor"`
	WeakWindow      *int     `toml:"weak-window"`
	Layout          *string  `toml:"layout"`
	Keyboard        *bool    `toml:"keyboard"`
}

// StorageConfig maps persistence settings.
type StorageConfig struct {
	MaxHistoryItems *int    `toml:"max-history-items"`
	KeyPrefix       *string `toml:"key-prefix"`
	DBPath          *string `toml:"db-path"`
}

// RatingConfig maps the star thresholds, keyed "1".."5".
type RatingConfig struct {
	Stars map[string]StarConfig `toml:"stars"`
}

// StarConfig is one star threshold.
type StarConfig struct {
	MinWPM      *int `toml:"min-wpm"`
	MinAccuracy *int `toml:"min-accuracy"`
}

// LevelConfig overrides or adds a difficulty level.
type LevelConfig struct {
	Name        *string  `toml:"name"`
	Description *string  `toml:"description"`
	TargetWPM   *int     `toml:"target-wpm"`
	MaxErrors   *int     `toml:"max-errors"`
	Texts       []string `toml:"texts"`
	TextsFile   *string  `toml:"texts-file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
