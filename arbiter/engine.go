// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package arbiter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/gobang-foundation/gobang/lib/clock"
	"github.com/gobang-foundation/gobang/lib/launcher"
	"github.com/gobang-foundation/gobang/lib/protocol"
)

// EngineCommand is how to start one engine.
type EngineCommand struct {
	// Program is the executable, resolved through PATH when it has no
	// slash.
	Program string

	// Argv is the complete argument vector, argv[0] included. Empty
	// means []string{Program}.
	Argv []string
}

// Spawner starts the engine for one side. [LaunchEngine] is the
// production implementation.
type Spawner func(index int, command EngineCommand) (*Engine, error)

// Engine is the arbiter's handle on one engine process: its pty
// primary and the bytes of an unfinished line carried between reads.
type Engine struct {
	// Index is 0 for the engine that moves first, 1 for the other.
	Index int

	// PID is the engine's process id, or 0 when the engine is not a
	// child of this process.
	PID int

	file    *os.File
	fd      int
	lines   protocol.LineBuffer
	process *launcher.Process
}

// NewEngine wraps an already-connected descriptor. The arbiter reads
// and writes it directly, so file is switched to blocking mode.
func NewEngine(index, pid int, file *os.File) *Engine {
	return &Engine{
		Index: index,
		PID:   pid,
		file:  file,
		fd:    int(file.Fd()),
	}
}

// LaunchEngine starts command on a new pty. It is the default
// [Spawner].
func LaunchEngine(index int, command EngineCommand) (*Engine, error) {
	process, err := launcher.Start(command.Program, command.Argv)
	if err != nil {
		return nil, fmt.Errorf("launch engine %d (%s): %w", index, command.Program, err)
	}
	engine := NewEngine(index, process.PID, process.Primary)
	engine.process = process
	return engine, nil
}

// Launch starts engine 0 and then engine 1 with spawn. If either fails,
// engines already started are stopped and the error is returned; no
// engine has been written to at that point.
func Launch(commands [2]EngineCommand, spawn Spawner, clk clock.Clock, grace time.Duration) ([2]*Engine, error) {
	var engines [2]*Engine
	for index, command := range commands {
		engine, err := spawn(index, command)
		if err != nil {
			for _, started := range engines[:index] {
				_ = started.Stop(clk, grace)
			}
			return [2]*Engine{}, err
		}
		engines[index] = engine
	}
	return engines, nil
}

// Stop closes the engine's descriptor and, for a launched engine,
// terminates and reaps the process. Returns the process's wait error.
func (e *Engine) Stop(clk clock.Clock, grace time.Duration) error {
	if e.process != nil {
		return e.process.Stop(clk, grace)
	}
	if err := e.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}

// read performs one read. End of stream is io.EOF; a pty primary
// reports the child's hang-up as EIO, which is end of stream too. A
// non-blocking descriptor with nothing to read returns 0 and no error,
// leaving the wait to the caller's poll.
func (e *Engine) read(buffer []byte) (int, error) {
	for {
		count, err := unix.Read(e.fd, buffer)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, nil
		case err == unix.EIO:
			return 0, io.EOF
		case err != nil:
			return 0, fmt.Errorf("read from engine %d: %w", e.Index, err)
		case count == 0:
			return 0, io.EOF
		}
		return count, nil
	}
}

// write sends data in a single write. A short write is an error: a
// half-delivered command would leave the engines out of step.
func (e *Engine) write(data []byte) error {
	count, err := unix.Write(e.fd, data)
	if err != nil {
		return fmt.Errorf("write to engine %d: %w", e.Index, err)
	}
	if count != len(data) {
		return fmt.Errorf("write to engine %d: %w (%d of %d bytes)", e.Index, io.ErrShortWrite, count, len(data))
	}
	return nil
}
