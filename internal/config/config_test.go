package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()

	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() fails validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, false},
		{"zero qso count", func(c *Config) { c.Session.QSOCount = 0 }, false},
		{"qso count too high", func(c *Config) { c.Session.QSOCount = 101 }, false},
		{"bad verbosity", func(c *Config) { c.Session.Verbosity = "verbose" }, false},
		{"threshold over one", func(c *Config) { c.Scoring.FuzzyThreshold = 1.5 }, false},
		{"bad audio mode", func(c *Config) { c.Audio.Mode = "vinyl" }, false},
		{"speech without key", func(c *Config) { c.Audio.Mode = "speech" }, false},
		{"speech with key", func(c *Config) {
			c.Audio.Mode = "speech"
			c.Audio.OpenAIAPIKey = "sk-test"
		}, true},
		{"wpm too low", func(c *Config) { c.Audio.WPM = 2 }, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate returned no error")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = 9100

[session]
qso_count = 10
verbosity = "chatty"
seed = 42

[audio]
wpm = 25
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile error: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Session.QSOCount != 10 || cfg.Session.Verbosity != "chatty" || cfg.Session.Seed != 42 {
		t.Errorf("session = %+v, want overridden values", cfg.Session)
	}
	if cfg.Audio.WPM != 25 {
		t.Errorf("wpm = %d, want 25", cfg.Audio.WPM)
	}
	// Untouched sections keep their defaults.
	if cfg.Scoring.FuzzyThreshold != 0.8 {
		t.Errorf("fuzzy threshold = %v, want default 0.8", cfg.Scoring.FuzzyThreshold)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("LoadFromFile returned no error for missing file")
	}
}

func TestLoadFromFileInvalidValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[session]
qso_count = 500
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("LoadFromFile returned no error for invalid qso_count")
	}
}
