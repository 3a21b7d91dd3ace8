// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/gobang-foundation/gobang/lib/protocol"
)

type engine struct {
	out      io.Writer
	maxMoves int
	think    time.Duration

	size   int
	stones map[protocol.Move]bool
	played int
}

func newEngine(out io.Writer, maxMoves int, think string) (*engine, error) {
	if maxMoves < 0 {
		return nil, fmt.Errorf("--max-moves must not be negative, got %d", maxMoves)
	}
	duration, err := time.ParseDuration(think)
	if err != nil {
		return nil, fmt.Errorf("--think: %w", err)
	}
	return &engine{
		out:      out,
		maxMoves: maxMoves,
		think:    duration,
		size:     protocol.DefaultBoardSize,
		stones:   make(map[protocol.Move]bool),
	}, nil
}

// run handles commands until END, the move limit, or end of input.
func (e *engine) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		command, ok := protocol.ParseCommand(scanner.Text())
		if !ok {
			continue
		}
		done, err := e.handle(command)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return scanner.Err()
}

// handle answers one command. Reports true when the engine should exit.
func (e *engine) handle(command protocol.Command) (bool, error) {
	switch command.Name {
	case protocol.CommandStart:
		size, err := command.Int()
		if err != nil || size <= 0 {
			return false, e.reply("ERROR unsupported board size %q", command.Args)
		}
		e.size = size
		clear(e.stones)
		return false, e.reply("OK")

	case protocol.CommandInfo:
		return false, nil

	case protocol.CommandBegin:
		return e.play()

	case protocol.CommandTurn:
		move, err := command.Move()
		if err != nil {
			return false, e.reply("ERROR %v", err)
		}
		e.stones[move] = true
		return e.play()

	case protocol.CommandEnd:
		return true, nil

	default:
		return false, e.reply("UNKNOWN %s", command.Name)
	}
}

// play places a stone and prints the move.
func (e *engine) play() (bool, error) {
	move, ok := e.choose()
	if !ok {
		return false, e.reply("ERROR board is full")
	}
	if e.think > 0 {
		time.Sleep(e.think)
	}
	e.stones[move] = true
	e.played++
	if err := e.reply("%s", move); err != nil {
		return false, err
	}
	return e.maxMoves > 0 && e.played >= e.maxMoves, nil
}

// choose returns the centre if free, else the first free cell in
// row-major order.
func (e *engine) choose() (protocol.Move, bool) {
	centre := protocol.Move{Row: e.size / 2, Column: e.size / 2}
	if !e.stones[centre] {
		return centre, true
	}
	for row := 0; row < e.size; row++ {
		for column := 0; column < e.size; column++ {
			move := protocol.Move{Row: row, Column: column}
			if !e.stones[move] {
				return move, true
			}
		}
	}
	return protocol.Move{}, false
}

func (e *engine) reply(format string, args ...any) error {
	_, err := fmt.Fprintf(e.out, format+"\n", args...)
	return err
}
