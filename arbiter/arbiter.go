// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package arbiter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gobang-foundation/gobang/lib/clock"
	"github.com/gobang-foundation/gobang/lib/logging"
	"github.com/gobang-foundation/gobang/lib/protocol"
)

// State is the match lifecycle state.
type State int

const (
	Initializing State = iota
	AwaitingFirstMove
	Relaying
	Terminated
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case AwaitingFirstMove:
		return "awaiting-first-move"
	case Relaying:
		return "relaying"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Reason is why a match ended.
type Reason int

const (
	// ReasonTerminalClosed: the supervising input reached end of
	// stream.
	ReasonTerminalClosed Reason = iota

	// ReasonEngineExited: the engine holding the turn hung up.
	ReasonEngineExited

	// ReasonInterrupted: the context passed to Run was cancelled.
	ReasonInterrupted

	// ReasonTurnTimeout: the engine holding the turn stayed silent
	// past the enforced deadline.
	ReasonTurnTimeout

	// ReasonChannelFault: a read, write, or poll failed.
	ReasonChannelFault
)

func (r Reason) String() string {
	switch r {
	case ReasonTerminalClosed:
		return "terminal closed"
	case ReasonEngineExited:
		return "engine exited"
	case ReasonInterrupted:
		return "interrupted"
	case ReasonTurnTimeout:
		return "turn timeout"
	case ReasonChannelFault:
		return "channel fault"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Outcome summarizes a finished match.
type Outcome struct {
	Reason Reason

	// Engine is the engine the reason refers to, or -1 when it refers
	// to neither.
	Engine int

	// Turn is the index of the engine holding the turn when the match
	// ended.
	Turn int

	// Moves is the number of moves relayed.
	Moves int
}

// TurnTimeoutError reports that the engine holding the turn did not
// move within the enforced deadline.
type TurnTimeoutError struct {
	Engine   int
	Deadline time.Duration
}

func (e *TurnTimeoutError) Error() string {
	return fmt.Sprintf("engine %d did not move within %s", e.Engine, e.Deadline)
}

// MoveObserver is told about every relayed move, after the turn has
// passed and before the opponent is sent the move. elapsed is measured
// from the start of the mover's turn. lib/record.Record implements it.
type MoveObserver interface {
	ObserveMove(engine int, move protocol.Move, elapsed time.Duration)
}

// Options configures an Arbiter.
type Options struct {
	// Input is the supervising input. Bytes read from it go to the
	// engine holding the turn. Required.
	Input *os.File

	// Output receives engine output that is not a relayed move.
	// Required.
	Output io.Writer

	// Settings is announced to both engines before the game starts.
	Settings protocol.Settings

	// TurnDeadline ends the match when the engine holding the turn has
	// not moved this long after its turn began. Zero disables
	// enforcement.
	TurnDeadline time.Duration

	// ShutdownGrace is how long Close waits between SIGTERM and SIGKILL
	// for each engine.
	ShutdownGrace time.Duration

	// Clock measures turn deadlines and shutdown grace. Default: real
	// time.
	Clock clock.Clock

	// Logger receives lifecycle events. Default: discarded.
	Logger *slog.Logger

	// Observer, if set, is told about every relayed move.
	Observer MoveObserver
}

// Arbiter relays one match between two engines.
type Arbiter struct {
	engines [2]*Engine

	input   *os.File
	inputFD int
	output  io.Writer

	settings      protocol.Settings
	turnDeadline  time.Duration
	shutdownGrace time.Duration
	clock         clock.Clock
	logger        *slog.Logger
	observer      MoveObserver

	state       State
	turn        int
	moves       int
	turnStarted time.Time

	buffer []byte
}

// New returns an Arbiter for engines, which must both be started and
// not yet written to. Engine 0 moves first.
func New(engines [2]*Engine, options Options) *Arbiter {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = logging.Discard()
	}
	return &Arbiter{
		engines:       engines,
		input:         options.Input,
		inputFD:       int(options.Input.Fd()),
		output:        options.Output,
		settings:      options.Settings,
		turnDeadline:  options.TurnDeadline,
		shutdownGrace: options.ShutdownGrace,
		clock:         options.Clock,
		logger:        options.Logger,
		observer:      options.Observer,
		state:         Initializing,
		buffer:        make([]byte, 4096),
	}
}

// State returns the current lifecycle state.
func (a *Arbiter) State() State {
	return a.state
}

// Turn returns the index of the engine whose move is awaited.
func (a *Arbiter) Turn() int {
	return a.turn
}

// Close stops both engines and reaps their processes. Call after Run
// returns.
func (a *Arbiter) Close() {
	a.state = Terminated
	for _, engine := range a.engines {
		err := engine.Stop(a.clock, a.shutdownGrace)
		a.logger.Debug("engine stopped",
			"engine", engine.Index,
			"pid", engine.PID,
			"status", exitStatus(err),
		)
	}
}

func exitStatus(err error) string {
	if err == nil {
		return "exited"
	}
	return err.Error()
}
