// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

// Gobang-test-engine is a deterministic engine for exercising the
// arbiter. It speaks the engine side of the protocol on stdin and
// stdout:
//
//	START <size>       reply OK
//	INFO <key> <value> ignored
//	BEGIN              play the first move
//	TURN <row>,<col>   record the opponent's stone and reply with a move
//	END                exit
//
// It plays the centre if it is free and otherwise the first free cell
// in row-major order. It exits after --max-moves of its own moves, at
// end of input, or on END.
//
// Usage:
//
//	gobang-arbiter gobang-test-engine gobang-test-engine --max-moves 5
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/gobang-foundation/gobang/lib/process"
	"github.com/gobang-foundation/gobang/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

func run(args []string) error {
	var (
		maxMoves    int
		think       string
		showVersion bool
	)
	flagSet := pflag.NewFlagSet("gobang-test-engine", pflag.ContinueOnError)
	flagSet.IntVar(&maxMoves, "max-moves", 0, "exit after playing this many moves (0: no limit)")
	flagSet.StringVar(&think, "think", "0s", "wait this long before each move")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Printf("gobang-test-engine %s\n", version.Info())
		return nil
	}

	engine, err := newEngine(os.Stdout, maxMoves, think)
	if err != nil {
		return err
	}
	return engine.run(os.Stdin)
}
