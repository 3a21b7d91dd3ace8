// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import "bytes"

// MaxPendingLine bounds how many bytes of an unterminated move-like
// fragment are held between reads. Longer fragments are released as
// text; no real move line is this long.
const MaxPendingLine = 64

// LineBuffer splits a byte stream into lines across read boundaries.
// The zero value is ready to use.
type LineBuffer struct {
	pending []byte

	// midLine is set once an unterminated fragment has been released:
	// the stream is inside a line until the next "\n".
	midLine bool
}

// Line is one piece of the stream returned by [LineBuffer.Feed].
type Line struct {
	Bytes []byte

	// Whole reports that Bytes is an entire line, from its start through
	// its "\n". It is false for a released fragment and for the rest of
	// that fragment's line.
	Whole bool
}

// Move parses the line as a move. Only a whole, terminated line can be
// one.
func (l Line) Move() (Move, bool) {
	if !l.Whole || !Complete(l.Bytes) {
		return Move{}, false
	}
	return ParseMove(l.Bytes)
}

// Feed appends data and returns every line that is ready, in stream
// order. Complete lines keep their "\n". A trailing fragment is held
// while it could still become a move and is released otherwise; the
// rest of a released fragment's line comes back as text. Concatenating every returned slice, plus a final Flush, reproduces the
// input exactly.
func (b *LineBuffer) Feed(data []byte) []Line {
	b.pending = append(b.pending, data...)

	var lines []Line
	for {
		index := bytes.IndexByte(b.pending, '\n')
		if index < 0 {
			break
		}
		lines = append(lines, Line{Bytes: bytes.Clone(b.pending[:index+1]), Whole: !b.midLine})
		b.pending = b.pending[index+1:]
		b.midLine = false
	}

	if len(b.pending) > 0 && (b.midLine || len(b.pending) > MaxPendingLine || !isMovePrefix(b.pending)) {
		lines = append(lines, Line{Bytes: bytes.Clone(b.pending)})
		b.pending = nil
		b.midLine = true
	}
	// Drop the reference to the consumed prefix.
	b.pending = bytes.Clone(b.pending)
	return lines
}

// Flush returns the held fragment, if any, and empties the buffer.
func (b *LineBuffer) Flush() []byte {
	fragment := b.pending
	b.pending = nil
	b.midLine = false
	return fragment
}

// Pending returns the number of bytes held.
func (b *LineBuffer) Pending() int {
	return len(b.pending)
}

// Complete reports whether line ends in a line feed.
func Complete(line []byte) bool {
	return len(line) > 0 && line[len(line)-1] == '\n'
}
