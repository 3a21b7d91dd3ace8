// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bytes"
	"strconv"
)

// Move is a stone placement. The relay does not range-check it; the
// engines and the referee own board bounds.
type Move struct {
	Row    int
	Column int
}

// String formats the move as "row,column".
func (m Move) String() string {
	return strconv.Itoa(m.Row) + "," + strconv.Itoa(m.Column)
}

// ParseMove reports whether line is a move: exactly two base-10
// integers separated by a comma, each with an optional sign. One
// trailing "\n" and then one trailing "\r" are ignored. Whitespace
// anywhere else makes the line text.
func ParseMove(line []byte) (Move, bool) {
	body := bytes.TrimSuffix(line, []byte("\n"))
	body = bytes.TrimSuffix(body, []byte("\r"))

	rowText, columnText, found := bytes.Cut(body, []byte(","))
	if !found {
		return Move{}, false
	}
	row, err := strconv.Atoi(string(rowText))
	if err != nil {
		return Move{}, false
	}
	column, err := strconv.Atoi(string(columnText))
	if err != nil {
		return Move{}, false
	}
	return Move{Row: row, Column: column}, true
}

// isMovePrefix reports whether fragment, which holds no line feed, can
// still be extended into a move line.
func isMovePrefix(fragment []byte) bool {
	const (
		expectSignOrDigit = iota
		expectDigit
		inNumber
		done
	)
	state := expectSignOrDigit
	commas := 0
	for _, b := range fragment {
		switch {
		case state == done:
			return false
		case b == '+' || b == '-':
			if state != expectSignOrDigit {
				return false
			}
			state = expectDigit
		case b >= '0' && b <= '9':
			state = inNumber
		case b == ',':
			if state != inNumber || commas > 0 {
				return false
			}
			commas++
			state = expectSignOrDigit
		case b == '\r':
			if state != inNumber || commas == 0 {
				return false
			}
			state = done
		default:
			return false
		}
	}
	return true
}
