// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gobang-foundation/gobang/lib/protocol"
)

// FormatVersion is written into every record.
const FormatVersion = 1

// Record is one match.
type Record struct {
	Version  int       `cbor:"version"`
	Started  time.Time `cbor:"started"`
	Finished time.Time `cbor:"finished"`

	BoardSize          int   `cbor:"board_size"`
	TurnTimeoutMillis  int64 `cbor:"timeout_turn_ms"`
	MatchTimeoutMillis int64 `cbor:"timeout_match_ms,omitempty"`
	TurnDeadlineMillis int64 `cbor:"turn_deadline_ms,omitempty"`

	Engines [2]Engine `cbor:"engines"`
	Moves   []Move    `cbor:"moves"`

	// Reason is how the match ended, in the arbiter's words.
	Reason string `cbor:"reason,omitempty"`

	// Error is set when the match ended with an error.
	Error string `cbor:"error,omitempty"`
}

// Engine is how one side was started.
type Engine struct {
	Argv []string `cbor:"argv"`
}

// Move is one relayed move.
type Move struct {
	Engine int `cbor:"engine"`
	Row    int `cbor:"row"`
	Column int `cbor:"column"`

	// ElapsedMillis is the time from the start of the mover's turn to
	// the move.
	ElapsedMillis int64 `cbor:"elapsed_ms"`
}

// New starts a record for a match between the engines run with argv.
func New(settings protocol.Settings, argv [2][]string, started time.Time) *Record {
	return &Record{
		Version:            FormatVersion,
		Started:            started.UTC(),
		BoardSize:          settings.BoardSize,
		TurnTimeoutMillis:  settings.TurnTimeout.Milliseconds(),
		MatchTimeoutMillis: settings.MatchTimeout.Milliseconds(),
		Engines:            [2]Engine{{Argv: argv[0]}, {Argv: argv[1]}},
		Moves:              []Move{},
	}
}

// SetTurnDeadline records the enforced per-turn deadline.
func (r *Record) SetTurnDeadline(deadline time.Duration) {
	r.TurnDeadlineMillis = deadline.Milliseconds()
}

// ObserveMove appends a relayed move.
func (r *Record) ObserveMove(engine int, move protocol.Move, elapsed time.Duration) {
	r.Moves = append(r.Moves, Move{
		Engine:        engine,
		Row:           move.Row,
		Column:        move.Column,
		ElapsedMillis: elapsed.Milliseconds(),
	})
}

// Finish records how the match ended. err may be nil.
func (r *Record) Finish(finished time.Time, reason string, err error) {
	r.Finished = finished.UTC()
	r.Reason = reason
	if err != nil {
		r.Error = err.Error()
	}
}

// Duration is the wall time of the match.
func (r *Record) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// WriteText writes a human-readable listing of the match.
func (r *Record) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "started   %s\n", r.Started.Format(time.RFC3339))
	fmt.Fprintf(&b, "board     %dx%d\n", r.BoardSize, r.BoardSize)
	fmt.Fprintf(&b, "turn      %s\n", time.Duration(r.TurnTimeoutMillis)*time.Millisecond)
	if r.MatchTimeoutMillis > 0 {
		fmt.Fprintf(&b, "match     %s\n", time.Duration(r.MatchTimeoutMillis)*time.Millisecond)
	}
	for index, engine := range r.Engines {
		fmt.Fprintf(&b, "engine %d  %s\n", index, strings.Join(engine.Argv, " "))
	}
	for number, move := range r.Moves {
		fmt.Fprintf(&b, "%4d  engine %d  %d,%d  %s\n",
			number+1, move.Engine, move.Row, move.Column,
			time.Duration(move.ElapsedMillis)*time.Millisecond)
	}
	if r.Reason != "" {
		fmt.Fprintf(&b, "ended     %s after %s\n", r.Reason, r.Duration().Round(time.Millisecond))
	}
	if r.Error != "" {
		fmt.Fprintf(&b, "error     %s\n", r.Error)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
