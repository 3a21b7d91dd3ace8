// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

// Gobang-arbiter runs a five-in-a-row match between two engine
// programs. Each engine runs on its own pseudo-terminal; the arbiter
// relays moves between them and connects the current player to this
// process's terminal.
//
// Usage:
//
//	gobang-arbiter [flags] <engine0> <engine1> [engine-args...]
//
// Engine 0 moves first. Both engines are started with the same
// trailing arguments. Without positional engines, the engines listed in
// the config file are used.
//
// Engine output that is not a move appears on stdout unchanged. Lines
// typed on stdin go to the engine whose move is awaited. Logs go to
// stderr.
//
// Exit status is 0 when the match ends because an engine or the
// terminal closed, or on SIGINT/SIGTERM. It is 1 when an engine cannot
// be started, a write fails, or an enforced turn deadline passes.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/gobang-foundation/gobang/arbiter"
	"github.com/gobang-foundation/gobang/lib/clock"
	"github.com/gobang-foundation/gobang/lib/config"
	"github.com/gobang-foundation/gobang/lib/logging"
	"github.com/gobang-foundation/gobang/lib/process"
	"github.com/gobang-foundation/gobang/lib/record"
	"github.com/gobang-foundation/gobang/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

// invocation is a parsed command line merged over the config file.
type invocation struct {
	config   *config.Config
	commands [2]arbiter.EngineCommand

	showVersion bool
}

func run(args []string) error {
	inv, err := parseArgs(args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if inv.showVersion {
		fmt.Printf("gobang-arbiter %s\n", version.Full())
		return nil
	}

	level, err := logging.ParseLevel(inv.config.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(level).With("component", "arbiter")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return playMatch(ctx, inv, logger)
}

func playMatch(ctx context.Context, inv *invocation, logger *slog.Logger) error {
	cfg := inv.config
	clk := clock.Real()

	engines, err := arbiter.Launch(inv.commands, arbiter.LaunchEngine, clk, cfg.ShutdownGraceDuration())
	if err != nil {
		return err
	}
	for _, engine := range engines {
		logger.Info("engine started",
			"engine", engine.Index,
			"pid", engine.PID,
			"program", inv.commands[engine.Index].Program,
		)
	}

	settings := cfg.Settings()
	options := arbiter.Options{
		Input:         os.Stdin,
		Output:        os.Stdout,
		Settings:      settings,
		TurnDeadline:  cfg.TurnDeadline(),
		ShutdownGrace: cfg.ShutdownGraceDuration(),
		Clock:         clk,
		Logger:        logger,
	}

	var match *record.Record
	if cfg.Record != "" {
		argv := [2][]string{engineArgv(inv.commands[0]), engineArgv(inv.commands[1])}
		match = record.New(settings, argv, clk.Now())
		match.SetTurnDeadline(cfg.TurnDeadline())
		options.Observer = match
	}

	relay := arbiter.New(engines, options)
	outcome, runErr := relay.Run(ctx)
	relay.Close()

	logger.Info("match finished",
		"reason", outcome.Reason.String(),
		"moves", outcome.Moves,
		"turn", outcome.Turn,
	)

	if match != nil {
		match.Finish(clk.Now(), outcome.Reason.String(), runErr)
		digest, err := record.WriteFile(cfg.Record, match)
		if err != nil {
			logger.Error("writing match record failed", "path", cfg.Record, "error", err)
			if runErr == nil {
				runErr = err
			}
		} else {
			logger.Info("match record written", "path", cfg.Record, "digest", digest.String())
		}
	}

	if outcome.Reason == arbiter.ReasonInterrupted {
		logger.Info("interrupted")
		return nil
	}
	return runErr
}

func engineArgv(command arbiter.EngineCommand) []string {
	if len(command.Argv) > 0 {
		return command.Argv
	}
	return []string{command.Program}
}

// parseArgs parses the command line, loads the config file, and applies
// flags given explicitly on top of it.
func parseArgs(args []string) (*invocation, error) {
	var (
		configPath     string
		boardSize      int
		timeoutTurn    string
		timeoutMatch   string
		enforceTimeout bool
		timeoutGrace   string
		shutdownGrace  string
		logLevel       string
		recordPath     string
		showVersion    bool
	)

	flagSet := pflag.NewFlagSet("gobang-arbiter", pflag.ContinueOnError)
	// Everything after the first engine belongs to the engines.
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&configPath, "config", "", "match config file (YAML, or JSON with comments); default $"+config.EnvironmentVariable)
	flagSet.IntVar(&boardSize, "board-size", 0, "board side length announced with START (default 15)")
	flagSet.StringVar(&timeoutTurn, "timeout-turn", "", "per-move budget announced to the engines (default 10s)")
	flagSet.StringVar(&timeoutMatch, "timeout-match", "", "whole-match budget announced to the engines")
	flagSet.BoolVar(&enforceTimeout, "enforce-timeout", false, "end the match when the player to move exceeds the turn budget")
	flagSet.StringVar(&timeoutGrace, "timeout-grace", "", "slack added to the turn budget when enforcing (default 1s)")
	flagSet.StringVar(&shutdownGrace, "shutdown-grace", "", "time between SIGTERM and SIGKILL when stopping engines (default 3s)")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn, or error (default info)")
	flagSet.StringVar(&recordPath, "record", "", "write the match record here (.zst or .lz4 suffix compresses)")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	flagSet.Usage = func() { printUsage(flagSet) }

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if showVersion {
		return &invocation{showVersion: true}, nil
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if flagSet.Changed("board-size") {
		cfg.BoardSize = boardSize
	}
	if flagSet.Changed("timeout-turn") {
		cfg.TimeoutTurn = timeoutTurn
	}
	if flagSet.Changed("timeout-match") {
		cfg.TimeoutMatch = timeoutMatch
	}
	if flagSet.Changed("enforce-timeout") {
		cfg.EnforceTimeout = enforceTimeout
	}
	if flagSet.Changed("timeout-grace") {
		cfg.TimeoutGrace = timeoutGrace
	}
	if flagSet.Changed("shutdown-grace") {
		cfg.ShutdownGrace = shutdownGrace
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flagSet.Changed("record") {
		cfg.Record = recordPath
	}

	positional := flagSet.Args()
	switch len(positional) {
	case 0:
	case 1:
		return nil, fmt.Errorf("two engines are required, got only %q", positional[0])
	default:
		shared := positional[2:]
		cfg.Engines = []config.EngineConfig{
			{Program: positional[0], Args: shared},
			{Program: positional[1], Args: shared},
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if len(cfg.Engines) != 2 {
		return nil, fmt.Errorf("no engines: pass two engine programs or list them under engines in the config file")
	}

	inv := &invocation{config: cfg}
	for index, engine := range cfg.Engines {
		inv.commands[index] = arbiter.EngineCommand{Program: engine.Program, Argv: engine.Argv()}
	}
	return inv, nil
}

func printUsage(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Run a gobang match between two engines.

Usage:
  gobang-arbiter [flags] <engine0> <engine1> [engine-args...]

Engine 0 moves first. Both engines receive the same engine-args.

Examples:
  # Two engines on the default 15x15 board with a 10s move budget
  gobang-arbiter ./pbrain-alpha ./pbrain-beta

  # Larger board, enforced 5s budget, compressed match record
  gobang-arbiter --board-size 19 --timeout-turn 5s --enforce-timeout \
      --record match.gbr.zst ./pbrain-alpha ./pbrain-beta

  # Engines and settings from a config file
  gobang-arbiter --config match.yaml

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
