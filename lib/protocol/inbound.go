// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is one line received by an engine, split into its name and
// the rest of the line.
type Command struct {
	// Name is upper-cased ("TURN", "START").
	Name string

	// Args is the remainder after the name with surrounding space
	// removed.
	Args string
}

// ParseCommand splits an engine-side input line. It returns false for a
// blank line.
func ParseCommand(line string) (Command, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, false
	}
	name, args, _ := strings.Cut(line, " ")
	return Command{
		Name: strings.ToUpper(name),
		Args: strings.TrimSpace(args),
	}, true
}

// Int parses Args as a single integer, as carried by START.
func (c Command) Int() (int, error) {
	value, err := strconv.Atoi(c.Args)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer argument %q", c.Name, c.Args)
	}
	return value, nil
}

// Move parses Args as "row,column", as carried by TURN.
func (c Command) Move() (Move, error) {
	move, ok := ParseMove([]byte(c.Args))
	if !ok {
		return Move{}, fmt.Errorf("%s: invalid move %q", c.Name, c.Args)
	}
	return move, nil
}

// Info splits INFO arguments into key and value.
func (c Command) Info() (key, value string) {
	key, value, _ = strings.Cut(c.Args, " ")
	return key, strings.TrimSpace(value)
}
