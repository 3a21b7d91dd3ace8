// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"strconv"
	"time"
)

// Command names.
const (
	CommandStart = "START"
	CommandInfo  = "INFO"
	CommandBegin = "BEGIN"
	CommandTurn  = "TURN"
	CommandEnd   = "END"
)

// INFO keys understood by engines.
const (
	InfoTurnTimeout  = "timeout_turn"
	InfoMatchTimeout = "timeout_match"
)

// DefaultBoardSize is the standard 15x15 board.
const DefaultBoardSize = 15

// DefaultTurnTimeout is the per-move budget advertised when none is
// configured.
const DefaultTurnTimeout = 10 * time.Second

// Settings is the configuration announced to both engines before the
// game starts.
type Settings struct {
	// BoardSize is the side length of the square board.
	BoardSize int

	// TurnTimeout is the per-move time budget.
	TurnTimeout time.Duration

	// MatchTimeout is the whole-match budget per engine. Zero means it
	// is not announced.
	MatchTimeout time.Duration
}

// DefaultSettings returns a 15x15 board with a 10 second move budget.
func DefaultSettings() Settings {
	return Settings{
		BoardSize:   DefaultBoardSize,
		TurnTimeout: DefaultTurnTimeout,
	}
}

// Handshake returns the initialization sequence sent to each engine:
// START, then INFO timeout_turn, then INFO timeout_match when set.
func (s Settings) Handshake() []byte {
	handshake := Start(s.BoardSize)
	handshake = append(handshake, Info(InfoTurnTimeout, milliseconds(s.TurnTimeout))...)
	if s.MatchTimeout > 0 {
		handshake = append(handshake, Info(InfoMatchTimeout, milliseconds(s.MatchTimeout))...)
	}
	return handshake
}

// Start returns "START <size>\n".
func Start(size int) []byte {
	return []byte(CommandStart + " " + strconv.Itoa(size) + "\n")
}

// Info returns "INFO <key> <value>\n".
func Info(key, value string) []byte {
	return []byte(CommandInfo + " " + key + " " + value + "\n")
}

// Begin returns "BEGIN\n".
func Begin() []byte {
	return []byte(CommandBegin + "\n")
}

// Turn returns "TURN <row>,<column>\n".
func Turn(move Move) []byte {
	return []byte(CommandTurn + " " + move.String() + "\n")
}

func milliseconds(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}
