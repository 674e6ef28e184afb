// Package config loads and validates the trainer's TOML configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/yegors/qso-trainer/internal/qso"
)

// Config is the top-level configuration tree.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
	Session SessionConfig `toml:"session"`
	Scoring ScoringConfig `toml:"scoring"`
	Audio   AudioConfig   `toml:"audio"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// LoggingConfig holds the logger settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// SessionConfig holds the default practice session parameters.
type SessionConfig struct {
	QSOCount  int    `toml:"qso_count"`
	Verbosity string `toml:"verbosity"`
	Region1   string `toml:"region1"`
	Region2   string `toml:"region2"`
	Seed      int64  `toml:"seed"`
}

// ScoringConfig holds the answer-matching parameters.
type ScoringConfig struct {
	FuzzyThreshold float64 `toml:"fuzzy_threshold"`
	PartialCredit  bool    `toml:"partial_credit"`
	CaseSensitive  bool    `toml:"case_sensitive"`
}

// AudioConfig selects and tunes the playback mode.
type AudioConfig struct {
	// Mode is "morse" or "speech".
	Mode          string  `toml:"mode"`
	WPM           int     `toml:"wpm"`
	ToneFrequency float64 `toml:"tone_frequency"`
	SampleRate    int     `toml:"sample_rate"`
	OpenAIAPIKey  string  `toml:"openai_api_key"`
	SpeechModel   string  `toml:"speech_model"`
	SpeechVoice   string  `toml:"speech_voice"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			CORSOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Session: SessionConfig{
			QSOCount:  5,
			Verbosity: string(qso.VerbosityMedium),
		},
		Scoring: ScoringConfig{
			FuzzyThreshold: 0.8,
			PartialCredit:  true,
			CaseSensitive:  false,
		},
		Audio: AudioConfig{
			Mode:          "morse",
			WPM:           20,
			ToneFrequency: 600,
			SampleRate:    44100,
		},
	}
}

// LoadFromFile reads a TOML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks all field constraints.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Session.QSOCount < qso.MinBatchCount || c.Session.QSOCount > qso.MaxBatchCount {
		return &qso.InvalidCountError{Count: c.Session.QSOCount}
	}
	if _, err := qso.ParseVerbosity(c.Session.Verbosity); err != nil {
		return err
	}
	if c.Scoring.FuzzyThreshold < 0.0 || c.Scoring.FuzzyThreshold > 1.0 {
		return fmt.Errorf("fuzzy threshold must be between 0.0 and 1.0, got %v", c.Scoring.FuzzyThreshold)
	}
	switch c.Audio.Mode {
	case "morse", "speech":
	default:
		return fmt.Errorf("invalid audio mode: %q", c.Audio.Mode)
	}
	if c.Audio.Mode == "speech" && c.Audio.OpenAIAPIKey == "" {
		return fmt.Errorf("speech audio mode requires openai_api_key")
	}
	if c.Audio.WPM < 5 || c.Audio.WPM > 60 {
		return fmt.Errorf("wpm must be between 5 and 60, got %d", c.Audio.WPM)
	}
	return nil
}
