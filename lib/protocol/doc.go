// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol implements the line-oriented text protocol spoken
// between the arbiter and gobang engines.
//
// The arbiter sends, in order:
//
//	START 15                  board size, once per engine
//	INFO timeout_turn 10000   per-move budget in milliseconds, once per engine
//	BEGIN                     to the first engine only
//	TURN 7,7                  the opponent's last move, once per relayed move
//
// An engine answers with lines. A line consisting of exactly two
// base-10 integers separated by a comma ("7,7") is a move. Every other
// line is opaque status text.
//
// Engines run under a pseudo-terminal, whose output processing turns
// "\n" into "\r\n". [ParseMove] therefore accepts one optional carriage
// return before the line feed.
//
// [LineBuffer] splits engine output into lines across read boundaries.
// A trailing fragment that could still grow into a move is held until
// more bytes arrive, so "7," followed by "7\n" in the next read is one
// move rather than two pieces of text. A fragment that cannot become a
// move is released immediately, so prompts without a line feed are not
// delayed. The rest of a released fragment's line is never a move, even
// when it arrives in a later read looking like one.
package protocol
