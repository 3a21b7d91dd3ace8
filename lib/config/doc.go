// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides match configuration loading for the arbiter.
//
// Configuration is loaded from a single file specified by:
//   - the --config flag passed to gobang-arbiter, or
//   - the GOBANG_CONFIG environment variable.
//
// When neither is set the built-in defaults apply, which reproduce the
// classic setup: a 15x15 board and a 10 second move budget.
//
// Files ending in .json or .jsonc are parsed as JSON with comments and
// trailing commas allowed. Anything else is parsed as YAML.
//
// Durations are strings in time.ParseDuration syntax ("10s", "1m30s").
// Engine program paths, their arguments, and the record path may
// reference ${VAR} and ${VAR:-default}, expanded from the environment.
//
// Example:
//
//	board_size: 15
//	timeout_turn: 10s
//	timeout_match: 5m
//	enforce_timeout: true
//	timeout_grace: 2s
//	shutdown_grace: 3s
//	record: ${HOME}/matches/latest.gbr.zst
//	engines:
//	  - program: ${ENGINES}/pbrain-alpha
//	  - program: ${ENGINES}/pbrain-beta
//	    args: [--depth, "6"]
package config
