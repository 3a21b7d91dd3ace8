// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/gobang-foundation/gobang/lib/logging"
	"github.com/gobang-foundation/gobang/lib/protocol"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "GOBANG_CONFIG"

// Config is the match configuration.
type Config struct {
	// BoardSize is announced to both engines with START.
	// Default: 15
	BoardSize int `yaml:"board_size" json:"board_size"`

	// TimeoutTurn is the per-move budget announced with
	// INFO timeout_turn.
	// Default: 10s
	TimeoutTurn string `yaml:"timeout_turn" json:"timeout_turn"`

	// TimeoutMatch is the whole-match budget announced with
	// INFO timeout_match. Empty or zero means it is not announced.
	TimeoutMatch string `yaml:"timeout_match" json:"timeout_match"`

	// EnforceTimeout makes the arbiter end the match when the engine
	// holding the turn stays silent past TimeoutTurn plus TimeoutGrace.
	// Engines are trusted to keep their own budget otherwise.
	// Default: false
	EnforceTimeout bool `yaml:"enforce_timeout" json:"enforce_timeout"`

	// TimeoutGrace is added to TimeoutTurn when enforcing, to absorb
	// scheduling and pty latency.
	// Default: 1s
	TimeoutGrace string `yaml:"timeout_grace" json:"timeout_grace"`

	// ShutdownGrace is how long an engine gets between SIGTERM and
	// SIGKILL when the match ends.
	// Default: 3s
	ShutdownGrace string `yaml:"shutdown_grace" json:"shutdown_grace"`

	// LogLevel is one of debug, info, warn, error.
	// Default: info
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Record, if set, is the path the match record is written to when
	// the match ends. A .zst or .lz4 suffix selects compression.
	Record string `yaml:"record" json:"record"`

	// Engines lists the two engine commands, first player first. Used
	// when no engines are given on the command line.
	Engines []EngineConfig `yaml:"engines" json:"engines"`
}

// EngineConfig is one engine command.
type EngineConfig struct {
	// Program is the executable, resolved through PATH when it has no
	// slash.
	Program string `yaml:"program" json:"program"`

	// Args follow the program name in the engine's argument vector.
	Args []string `yaml:"args" json:"args"`
}

// Argv returns the engine's complete argument vector.
func (e EngineConfig) Argv() []string {
	return append([]string{e.Program}, e.Args...)
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BoardSize:     protocol.DefaultBoardSize,
		TimeoutTurn:   protocol.DefaultTurnTimeout.String(),
		TimeoutGrace:  "1s",
		ShutdownGrace: "3s",
		LogLevel:      "info",
	}
}

// Load loads the file named by GOBANG_CONFIG, or returns Default when
// the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path on top of the
// defaults and expands variables in engine commands. It does not
// validate; call Validate once command-line overrides are applied.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// loadFile merges a single configuration file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return json.Unmarshal(jsonc.ToJSON(data), c)
	default:
		return yaml.Unmarshal(data, c)
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in engine
// commands and the record path.
func (c *Config) expandVariables() {
	c.Record = expandVars(c.Record)
	for i := range c.Engines {
		c.Engines[i].Program = expandVars(c.Engines[i].Program)
		for j := range c.Engines[i].Args {
			c.Engines[i].Args[j] = expandVars(c.Engines[i].Args[j])
		}
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.BoardSize <= 0 {
		errs = append(errs, fmt.Errorf("board_size must be positive, got %d", c.BoardSize))
	}

	durations := []struct {
		name     string
		value    string
		required bool
	}{
		{"timeout_turn", c.TimeoutTurn, true},
		{"timeout_match", c.TimeoutMatch, false},
		{"timeout_grace", c.TimeoutGrace, false},
		{"shutdown_grace", c.ShutdownGrace, false},
	}
	for _, field := range durations {
		if field.value == "" {
			if field.required {
				errs = append(errs, fmt.Errorf("%s is required", field.name))
			}
			continue
		}
		duration, err := time.ParseDuration(field.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field.name, err))
			continue
		}
		if duration < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", field.name, field.value))
		}
	}
	if c.EnforceTimeout && parseDuration(c.TimeoutTurn) <= 0 {
		errs = append(errs, fmt.Errorf("enforce_timeout requires a positive timeout_turn"))
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	if len(c.Engines) != 0 && len(c.Engines) != 2 {
		errs = append(errs, fmt.Errorf("engines must list exactly 2 engines, got %d", len(c.Engines)))
	}
	for i, engine := range c.Engines {
		if engine.Program == "" {
			errs = append(errs, fmt.Errorf("engines[%d].program is required", i))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Settings returns what is announced to the engines. Call after
// Validate.
func (c *Config) Settings() protocol.Settings {
	return protocol.Settings{
		BoardSize:    c.BoardSize,
		TurnTimeout:  parseDuration(c.TimeoutTurn),
		MatchTimeout: parseDuration(c.TimeoutMatch),
	}
}

// TurnDeadline returns how long the engine holding the turn may stay
// silent before the arbiter ends the match, or zero when the timeout is
// not enforced. Call after Validate.
func (c *Config) TurnDeadline() time.Duration {
	if !c.EnforceTimeout {
		return 0
	}
	return parseDuration(c.TimeoutTurn) + parseDuration(c.TimeoutGrace)
}

// ShutdownGraceDuration returns ShutdownGrace parsed. Call after
// Validate.
func (c *Config) ShutdownGraceDuration() time.Duration {
	return parseDuration(c.ShutdownGrace)
}

// parseDuration parses a validated duration; empty means zero.
func parseDuration(value string) time.Duration {
	duration, _ := time.ParseDuration(value)
	return duration
}
