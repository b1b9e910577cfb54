// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Quiz  QuizConfig  `toml:"quiz"`
	Table TableConfig `toml:"table"`
}

// QuizConfig maps quiz-related settings.
type QuizConfig struct {
	List    *string `toml:"list"`
	Length  *int    `toml:"length"`
	Endless *bool   `toml:"endless"`
	Plain   *bool   `toml:"plain"`
}

// TableConfig maps word table settings for freshly created lists.
type TableConfig struct {
	ScoreInertia *int `toml:"score-inertia"`
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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
