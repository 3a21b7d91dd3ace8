// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

// Package arbiter runs a match between two gobang engines.
//
// Each engine is a separate process on its own pseudo-terminal (see
// lib/launcher). The engines never see each other: the arbiter reads a
// move from the engine holding the turn, flips the turn, and tells the
// other engine about it with a TURN command. Everything else an engine
// prints goes to the supervising output unchanged, and everything typed
// on the supervising input goes to the engine holding the turn
// unchanged, so an operator can watch the match and inject commands by
// hand.
//
// A match moves through four states:
//
//	Initializing       START and INFO sent to both engines
//	AwaitingFirstMove  BEGIN sent to engine 0 only, no move relayed yet
//	Relaying           at least one move relayed
//	Terminated         an input reached end of stream, a write failed,
//	                   the context was cancelled, or an enforced turn
//	                   deadline passed
//
// The relay loop is single-threaded. It blocks in poll(2) on exactly
// three descriptors: the supervising input, the primary of the engine
// holding the turn, and an internal wake pipe used for cancellation.
// The other engine's descriptor is never polled; whatever it prints
// while waiting stays in its pty until its turn comes.
//
// Engine output is split into lines with protocol.LineBuffer, which
// holds a move split across two reads until it is complete. Only a
// complete line from the engine holding the turn can be a move. If one
// read carries two moves, the second arrives after the turn has already
// passed to the opponent, so it is forwarded as text rather than sent
// back to the engine that produced it.
//
// The per-move time budget is announced to the engines but not enforced
// unless [Options.TurnDeadline] is set. Enforcement is an extension:
// the engines are trusted to keep their own budget by default.
//
// [Run] never writes to an engine after end of stream. Call [Arbiter.Close]
// afterwards to stop and reap both engine processes.
package arbiter
