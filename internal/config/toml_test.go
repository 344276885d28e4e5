package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg.Practice.HitRatio != nil || cfg.OCR.URL != nil {
		t.Fatalf("missing config produced values: %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("empty path accepted")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[practice]
hit-ratio = 0.75
corridor-width = 14.0
check-direction = false
strict-order = false
auto-advance = true
due-mode = 3

[ocr]
url = "http://localhost:9999"

[dataset]
capture = true
dir = "/tmp/samples"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Practice.HitRatio == nil || *cfg.Practice.HitRatio != 0.75 {
		t.Fatalf("hit-ratio = %v", cfg.Practice.HitRatio)
	}
	if cfg.Practice.CorridorWidth == nil || *cfg.Practice.CorridorWidth != 14.0 {
		t.Fatalf("corridor-width = %v", cfg.Practice.CorridorWidth)
	}
	if cfg.Practice.CheckDirection == nil || *cfg.Practice.CheckDirection {
		t.Fatalf("check-direction = %v", cfg.Practice.CheckDirection)
	}
	if cfg.Practice.DueMode == nil || *cfg.Practice.DueMode != 3 {
		t.Fatalf("due-mode = %v", cfg.Practice.DueMode)
	}
	if cfg.OCR.URL == nil || *cfg.OCR.URL != "http://localhost:9999" {
		t.Fatalf("ocr url = %v", cfg.OCR.URL)
	}
	if cfg.Dataset.Capture == nil || !*cfg.Dataset.Capture {
		t.Fatalf("capture = %v", cfg.Dataset.Capture)
	}
	if cfg.Dataset.Dir == nil || *cfg.Dataset.Dir != "/tmp/samples" {
		t.Fatalf("dataset dir = %v", cfg.Dataset.Dir)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nhit-ratio = 0.5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Practice.HitRatio == nil || *cfg.Practice.HitRatio != 0.5 {
		t.Fatalf("hit-ratio = %v", cfg.Practice.HitRatio)
	}
	if cfg.Practice.CorridorWidth != nil {
		t.Fatal("unset value should stay nil")
	}
}
