package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration for the volcast daemon.
//
// This is intentionally user-facing and stable-ish. Keep defaults and validation
// centralized so the rest of the code can assume a well-formed config.
//
// Design goals:
// - Make the config file the primary configuration surface.
// - Keep flags for small overrides and for environments where a file is awkward.
// - Config is read once at startup; changing it requires a restart.
type Config struct {
	// Server is the websocket listener configuration.
	Server ServerFileConfig `yaml:"server"`

	// Polling controls out-of-band change detection against the OS mixer.
	Polling PollingConfig `yaml:"polling"`

	// Autostart controls registration of the daemon as a login item.
	Autostart AutostartConfig `yaml:"autostart"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

type ServerFileConfig struct {
	Port int `yaml:"port"`
}

type PollingConfig struct {
	Enabled    bool `yaml:"enabled"`
	IntervalMS int  `yaml:"interval_ms"`
}

type AutostartConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
// Keep this aligned with constants.go defaults and current CLI defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerFileConfig{
			Port: defaultPort,
		},
		Polling: PollingConfig{
			Enabled:    true,
			IntervalMS: defaultPollIntervalMS,
		},
		Autostart: AutostartConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfigFile reads and parses a YAML config file.
//
// Notes:
//   - The file must be valid YAML.
//   - Unknown fields are rejected (helps catch typos) via KnownFields(true).
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Ensure there's no trailing garbage (only whitespace/comments are allowed after the document).
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides applies overrides from flags on top of a loaded config.
//
// Flags pass pointers; each override is only applied if the pointer is non-nil.
// Keeping the override mechanism separate makes it easy to evolve flags without
// proliferating conditionals all over main.go.
type FlagOverrides struct {
	Port           *int
	PollingEnabled *bool
	PollIntervalMS *int
	Autostart      *bool
	LogLevel       *string
}

// Apply merges the overrides into cfg. If an override pointer is nil, it is ignored.
// If the pointer is non-nil, the value is applied (even if it is a zero value).
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.Port != nil {
		cfg.Server.Port = *o.Port
	}
	if o.PollingEnabled != nil {
		cfg.Polling.Enabled = *o.PollingEnabled
	}
	if o.PollIntervalMS != nil {
		cfg.Polling.IntervalMS = *o.PollIntervalMS
	}
	if o.Autostart != nil {
		cfg.Autostart.Enabled = *o.Autostart
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// Validate checks config invariants and returns a user-friendly error.
// This is intended to be called after defaults + file + overrides are applied.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("server.port must be between 1 and 65535")
	}
	if c.Polling.IntervalMS <= 0 {
		return errors.New("polling.interval_ms must be > 0")
	}
	if c.Logging.Level == "" {
		return errors.New("logging.level must not be empty")
	}
	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// PollInterval returns the polling cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Polling.IntervalMS) * time.Millisecond
}

// ExpandPath expands a leading "~" in a path using $HOME.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	if p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
