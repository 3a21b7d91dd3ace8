// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bytes"
	"strings"
	"testing"
)

func feedAll(buffer *LineBuffer, reads ...string) []string {
	var lines []string
	for _, read := range reads {
		lines = append(lines, texts(buffer.Feed([]byte(read)))...)
	}
	return lines
}

func texts(lines []Line) []string {
	var result []string
	for _, line := range lines {
		result = append(result, string(line.Bytes))
	}
	return result
}

func TestLineBufferCompleteLines(t *testing.T) {
	var buffer LineBuffer
	got := feedAll(&buffer, "OK\nMESSAGE hi\n7,7\n")
	want := []string{"OK\n", "MESSAGE hi\n", "7,7\n"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("lines = %q, want %q", got, want)
	}
	if buffer.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", buffer.Pending())
	}
}

func TestLineBufferHoldsSplitMove(t *testing.T) {
	var buffer LineBuffer

	if lines := buffer.Feed([]byte("7,")); len(lines) != 0 {
		t.Fatalf("first half released %q, want it held", texts(lines))
	}
	if buffer.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", buffer.Pending())
	}

	lines := buffer.Feed([]byte("7\r\n"))
	if len(lines) != 1 || string(lines[0].Bytes) != "7,7\r\n" {
		t.Fatalf("lines = %q, want one joined move line", texts(lines))
	}
	if _, ok := lines[0].Move(); !ok {
		t.Errorf("joined line %q does not parse as a move", lines[0].Bytes)
	}
}

func TestLineBufferReleasesTextFragment(t *testing.T) {
	var buffer LineBuffer
	lines := buffer.Feed([]byte("MESSAGE 7,7\nInput coordinate: "))
	want := []string{"MESSAGE 7,7\n", "Input coordinate: "}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", texts(lines), want)
	}
	for i := range want {
		if string(lines[i].Bytes) != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i].Bytes, want[i])
		}
	}
	if lines[1].Whole {
		t.Errorf("fragment %q reported whole", lines[1].Bytes)
	}
}

func TestLineBufferHeldPrefixBecomesText(t *testing.T) {
	var buffer LineBuffer
	got := feedAll(&buffer, "7", " stones\n")
	if len(got) != 1 || got[0] != "7 stones\n" {
		t.Errorf("lines = %q, want [\"7 stones\\n\"]", got)
	}
}

func TestLineBufferReleasesOverlongFragment(t *testing.T) {
	var buffer LineBuffer
	fragment := strings.Repeat("1", MaxPendingLine+1)
	lines := buffer.Feed([]byte(fragment))
	if len(lines) != 1 || string(lines[0].Bytes) != fragment {
		t.Fatalf("overlong fragment not released: %q", texts(lines))
	}
	if lines[0].Whole {
		t.Error("overlong fragment reported whole")
	}
}

func TestLineBufferFlush(t *testing.T) {
	var buffer LineBuffer
	buffer.Feed([]byte("OK\n3,"))
	if got := string(buffer.Flush()); got != "3," {
		t.Errorf("Flush() = %q, want %q", got, "3,")
	}
	if got := buffer.Flush(); got != nil {
		t.Errorf("second Flush() = %q, want nil", got)
	}
}

// The rest of a line whose start was released as text is never a
// move, however the reads split it.
func TestLineBufferTailOfReleasedLineIsText(t *testing.T) {
	tests := []struct {
		name  string
		reads []string
	}{
		{"text fragment", []string{"MESSAGE best ", "3,4\n"}},
		{"overlong digits", []string{strings.Repeat("1", MaxPendingLine+1), "3,4\n"}},
		{"tail split again", []string{"MESSAGE best ", "3,", "4\r\n"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buffer LineBuffer
			var output bytes.Buffer
			for _, read := range test.reads {
				for _, line := range buffer.Feed([]byte(read)) {
					if move, ok := line.Move(); ok {
						t.Errorf("%q parsed as move %v", line.Bytes, move)
					}
					output.Write(line.Bytes)
				}
			}
			if want := strings.Join(test.reads, ""); output.String() != want {
				t.Errorf("output %q, want %q", output.String(), want)
			}
			if buffer.Pending() != 0 {
				t.Errorf("Pending() = %d, want 0", buffer.Pending())
			}
		})
	}
}

// A line feed ends the released line; the next line can be a move again.
func TestLineBufferMoveAfterReleasedLine(t *testing.T) {
	var buffer LineBuffer
	buffer.Feed([]byte("thinking"))
	lines := buffer.Feed([]byte("...\n7,7\n"))
	if len(lines) != 2 {
		t.Fatalf("lines = %q, want 2", texts(lines))
	}
	if _, ok := lines[0].Move(); ok {
		t.Errorf("tail %q parsed as a move", lines[0].Bytes)
	}
	if move, ok := lines[1].Move(); !ok || move != (Move{Row: 7, Column: 7}) {
		t.Errorf("Move() of %q = %v, %v, want 7,7", lines[1].Bytes, move, ok)
	}
}

func TestLineBufferFlushEndsReleasedLine(t *testing.T) {
	var buffer LineBuffer
	buffer.Feed([]byte("prompt> "))
	buffer.Flush()
	lines := buffer.Feed([]byte("7,7\n"))
	if len(lines) != 1 || !lines[0].Whole {
		t.Errorf("lines = %q, want one whole line", texts(lines))
	}
}

// Pass-through must be lossless whatever the read boundaries are.
func TestLineBufferLosslessAcrossSplits(t *testing.T) {
	stream := "OK\r\nMESSAGE thinking\r\n7,7\r\nDEBUG depth 4\r\n-1,12\r\nprompt> "
	for split := 0; split <= len(stream); split++ {
		var buffer LineBuffer
		var output bytes.Buffer
		for _, line := range buffer.Feed([]byte(stream[:split])) {
			output.Write(line.Bytes)
		}
		for _, line := range buffer.Feed([]byte(stream[split:])) {
			output.Write(line.Bytes)
		}
		output.Write(buffer.Flush())
		if output.String() != stream {
			t.Fatalf("split at %d: output %q, want %q", split, output.String(), stream)
		}
	}
}

// A move split at any byte must come out as exactly one complete line.
func TestLineBufferMoveSplitAnywhere(t *testing.T) {
	move := "10,11\r\n"
	for split := 1; split < len(move); split++ {
		var buffer LineBuffer
		lines := append(buffer.Feed([]byte(move[:split])), buffer.Feed([]byte(move[split:]))...)
		if len(lines) != 1 {
			t.Fatalf("split at %d produced %d lines: %q", split, len(lines), texts(lines))
		}
		got, ok := lines[0].Move()
		if !ok || got != (Move{Row: 10, Column: 11}) {
			t.Errorf("split at %d: Move() of %q = %+v, %v", split, lines[0].Bytes, got, ok)
		}
	}
}
