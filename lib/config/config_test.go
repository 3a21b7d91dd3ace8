// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gobang-foundation/gobang/lib/protocol"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}

	if got, want := string(cfg.Settings().Handshake()), "START 15\nINFO timeout_turn 10000\n"; got != want {
		t.Errorf("default handshake = %q, want %q", got, want)
	}
	if cfg.TurnDeadline() != 0 {
		t.Errorf("TurnDeadline() = %v, want 0 when not enforcing", cfg.TurnDeadline())
	}
	if cfg.ShutdownGraceDuration() != 3*time.Second {
		t.Errorf("ShutdownGraceDuration() = %v, want 3s", cfg.ShutdownGraceDuration())
	}
}

func TestLoad_WithoutGobangConfig(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.BoardSize != protocol.DefaultBoardSize {
		t.Errorf("expected board_size=%d, got %d", protocol.DefaultBoardSize, cfg.BoardSize)
	}
}

func TestLoad_WithGobangConfig(t *testing.T) {
	path := writeConfig(t, "match.yaml", "board_size: 19\n")
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.BoardSize != 19 {
		t.Errorf("expected board_size=19, got %d", cfg.BoardSize)
	}
	// Unset fields keep their defaults.
	if cfg.TimeoutTurn != "10s" {
		t.Errorf("expected timeout_turn=10s, got %s", cfg.TimeoutTurn)
	}
}

func TestLoadFile_YAML(t *testing.T) {
	t.Setenv("GOBANG_TEST_ENGINES", "/opt/engines")
	path := writeConfig(t, "match.yml", `
board_size: 20
timeout_turn: 5s
timeout_match: 3m
enforce_timeout: true
timeout_grace: 500ms
record: ${GOBANG_TEST_ENGINES}/match.gbr.zst
engines:
  - program: ${GOBANG_TEST_ENGINES}/alpha
  - program: ${GOBANG_TEST_MISSING:-beta}
    args: [--depth, "6"]
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}

	settings := cfg.Settings()
	if settings.BoardSize != 20 || settings.TurnTimeout != 5*time.Second || settings.MatchTimeout != 3*time.Minute {
		t.Errorf("Settings() = %+v", settings)
	}
	if cfg.TurnDeadline() != 5500*time.Millisecond {
		t.Errorf("TurnDeadline() = %v, want 5.5s", cfg.TurnDeadline())
	}

	if cfg.Record != "/opt/engines/match.gbr.zst" {
		t.Errorf("record = %q, want /opt/engines/match.gbr.zst", cfg.Record)
	}

	if len(cfg.Engines) != 2 {
		t.Fatalf("expected 2 engines, got %d", len(cfg.Engines))
	}
	if cfg.Engines[0].Program != "/opt/engines/alpha" {
		t.Errorf("engines[0].program = %q, want /opt/engines/alpha", cfg.Engines[0].Program)
	}
	if got := strings.Join(cfg.Engines[1].Argv(), " "); got != "beta --depth 6" {
		t.Errorf("engines[1] argv = %q, want %q", got, "beta --depth 6")
	}
}

func TestLoadFile_JSONC(t *testing.T) {
	path := writeConfig(t, "match.jsonc", `{
  // Renju-sized board.
  "board_size": 15,
  "timeout_turn": "30s",
  "engines": [
    {"program": "pbrain-a"},
    {"program": "pbrain-b", "args": ["-q"]}, // trailing comma
  ],
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if cfg.Settings().TurnTimeout != 30*time.Second {
		t.Errorf("TurnTimeout = %v, want 30s", cfg.Settings().TurnTimeout)
	}
	if cfg.Engines[1].Args[0] != "-q" {
		t.Errorf("engines[1].args = %v, want [-q]", cfg.Engines[1].Args)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := writeConfig(t, "match.yaml", "board_size: [unterminated\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("GOBANG_TEST_A", "first")
	t.Setenv("GOBANG_TEST_B", "second")

	tests := []struct {
		input    string
		expected string
	}{
		{input: "${GOBANG_TEST_A}/${GOBANG_TEST_B}", expected: "first/second"},
		{input: "${GOBANG_TEST_UNSET:-default}", expected: "default"},
		{input: "${GOBANG_TEST_A:-default}", expected: "first"},
		{input: "${GOBANG_TEST_UNSET}", expected: ""},
		{input: "no variables here", expected: "no variables here"},
	}

	for _, tt := range tests {
		if result := expandVars(tt.input); result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "zero board",
			modify:  func(c *Config) { c.BoardSize = 0 },
			wantErr: "board_size must be positive",
		},
		{
			name:    "bad turn timeout",
			modify:  func(c *Config) { c.TimeoutTurn = "ten seconds" },
			wantErr: "timeout_turn",
		},
		{
			name:    "missing turn timeout",
			modify:  func(c *Config) { c.TimeoutTurn = "" },
			wantErr: "timeout_turn is required",
		},
		{
			name:    "negative grace",
			modify:  func(c *Config) { c.ShutdownGrace = "-1s" },
			wantErr: "shutdown_grace must not be negative",
		},
		{
			name: "enforce with zero timeout",
			modify: func(c *Config) {
				c.EnforceTimeout = true
				c.TimeoutTurn = "0s"
			},
			wantErr: "enforce_timeout requires a positive timeout_turn",
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "log_level",
		},
		{
			name:    "one engine",
			modify:  func(c *Config) { c.Engines = []EngineConfig{{Program: "a"}} },
			wantErr: "exactly 2 engines",
		},
		{
			name:    "empty program",
			modify:  func(c *Config) { c.Engines = []EngineConfig{{Program: "a"}, {}} },
			wantErr: "engines[1].program is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
