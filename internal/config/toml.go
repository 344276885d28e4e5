// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	OCR      OCRConfig      `toml:"ocr"`
	Dataset  DatasetConfig  `toml:"dataset"`
}

// PracticeConfig maps stroke validation settings.
type PracticeConfig struct {
	HitRatio       *float64 `toml:"hit-ratio"`
	CorridorWidth  *float64 `toml:"corridor-width"`
	CheckDirection *bool    `toml:"check-direction"`
	StrictOrder    *bool    `toml:"strict-order"`
	AutoAdvance    *bool    `toml:"auto-advance"`
	DueMode        *int     `toml:"due-mode"`
}

// OCRConfig maps recognizer client settings.
type OCRConfig struct {
	URL *string `toml:"url"`
}

// DatasetConfig maps handwriting sample capture settings.
type DatasetConfig struct {
	Capture *bool   `toml:"capture"`
	Dir     *string `toml:"dir"`
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
