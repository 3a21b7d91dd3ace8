// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package arbiter

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sys/unix"

	"github.com/gobang-foundation/gobang/lib/protocol"
)

// deadlineRecheck caps each poll while a turn deadline is enforced, so
// the deadline is re-read from the clock at least this often.
const deadlineRecheck = 250 * time.Millisecond

// Run plays the match: it sends the handshake to both engines, BEGIN to
// engine 0, and then relays until an input reaches end of stream, a
// write fails, ctx is cancelled, or an enforced turn deadline passes.
//
// End of stream on the supervising input or on the engine holding the
// turn is a normal end and returns a nil error. Cancellation returns
// ctx.Err(). A missed deadline returns a *TurnTimeoutError. Run does
// not stop the engines; call Close.
func (a *Arbiter) Run(ctx context.Context) (Outcome, error) {
	if err := a.initialize(); err != nil {
		return a.finish(ReasonChannelFault, -1), err
	}

	wakeFD, stopWatch, err := watchContext(ctx)
	if err != nil {
		return a.finish(ReasonChannelFault, -1), err
	}
	defer stopWatch()

	pollFDs := make([]unix.PollFd, 3)
	for {
		active := a.engines[a.turn]
		pollFDs[0] = unix.PollFd{Fd: int32(a.inputFD), Events: unix.POLLIN}
		pollFDs[1] = unix.PollFd{Fd: int32(active.fd), Events: unix.POLLIN}
		pollFDs[2] = unix.PollFd{Fd: int32(wakeFD), Events: unix.POLLIN}

		_, err := unix.Poll(pollFDs, a.pollTimeout())
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return a.finish(ReasonChannelFault, -1), fmt.Errorf("poll: %w", err)
		}

		if pollFDs[2].Revents != 0 {
			a.logger.Info("match interrupted", "turn", a.turn, "moves", a.moves)
			if err := a.flushEngines(); err != nil {
				return a.finish(ReasonChannelFault, -1), err
			}
			return a.finish(ReasonInterrupted, -1), ctx.Err()
		}
		for _, pollFD := range pollFDs[:2] {
			if pollFD.Revents&unix.POLLNVAL != 0 {
				return a.finish(ReasonChannelFault, -1), fmt.Errorf("poll: descriptor %d is not open", pollFD.Fd)
			}
		}

		if readable(pollFDs[0].Revents) {
			closed, err := a.relayInput(active)
			if err != nil {
				return a.finish(ReasonChannelFault, -1), err
			}
			if closed {
				a.logger.Info("terminal input closed", "turn", a.turn, "moves", a.moves)
				return a.finish(ReasonTerminalClosed, -1), a.flushEngines()
			}
		}

		if readable(pollFDs[1].Revents) {
			closed, err := a.relayEngine(active)
			if err != nil {
				return a.finish(ReasonChannelFault, active.Index), err
			}
			if closed {
				a.logger.Info("engine closed its terminal", "engine", active.Index, "moves", a.moves)
				return a.finish(ReasonEngineExited, active.Index), a.flushEngines()
			}
		}

		if a.turnExpired() {
			a.logger.Warn("turn deadline passed",
				"engine", a.turn,
				"deadline", a.turnDeadline,
				"moves", a.moves,
			)
			if err := a.flushEngines(); err != nil {
				return a.finish(ReasonChannelFault, a.turn), err
			}
			return a.finish(ReasonTurnTimeout, a.turn), &TurnTimeoutError{Engine: a.turn, Deadline: a.turnDeadline}
		}
	}
}

// initialize sends the handshake to both engines, then BEGIN to engine
// 0. The turn clock starts once BEGIN is written.
func (a *Arbiter) initialize() error {
	a.state = Initializing
	handshake := a.settings.Handshake()
	for _, engine := range a.engines {
		if err := engine.write(handshake); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
	}
	a.logger.Info("engines initialized",
		"board_size", a.settings.BoardSize,
		"timeout_turn", a.settings.TurnTimeout,
		"engine_0", a.engines[0].PID,
		"engine_1", a.engines[1].PID,
	)

	a.state = AwaitingFirstMove
	a.turn = 0
	if err := a.engines[0].write(protocol.Begin()); err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	a.turnStarted = a.clock.Now()
	return nil
}

// relayInput forwards one read of supervising input to the engine
// holding the turn. Reports true at end of stream.
func (a *Arbiter) relayInput(active *Engine) (bool, error) {
	for {
		count, err := unix.Read(a.inputFD, a.buffer)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return false, nil
		case err == unix.EIO:
			return true, nil
		case err != nil:
			return false, fmt.Errorf("read terminal input: %w", err)
		case count == 0:
			return true, nil
		}
		return false, active.write(a.buffer[:count])
	}
}

// relayEngine handles one read from the engine holding the turn.
// Reports true at end of stream.
func (a *Arbiter) relayEngine(engine *Engine) (bool, error) {
	count, err := engine.read(a.buffer)
	if err == io.EOF {
		return true, nil
	}
	if err != nil || count == 0 {
		return false, err
	}

	for _, line := range engine.lines.Feed(a.buffer[:count]) {
		if err := a.handleLine(engine, line); err != nil {
			return false, err
		}
	}
	return false, nil
}

// handleLine relays line as a move if it is one from the engine holding
// the turn, and writes it to the output otherwise.
func (a *Arbiter) handleLine(engine *Engine, line protocol.Line) error {
	if move, ok := line.Move(); ok {
		if engine.Index == a.turn {
			return a.relayMove(engine, move)
		}
		a.logger.Warn("move after turn passed, forwarding as text",
			"engine", engine.Index,
			"move", move.String(),
		)
	}
	return a.writeOutput(line.Bytes)
}

// relayMove passes the turn to the opponent and sends it the move. The
// turn flips before the write, so the command can only reach the
// engine that did not produce it.
func (a *Arbiter) relayMove(from *Engine, move protocol.Move) error {
	now := a.clock.Now()
	elapsed := now.Sub(a.turnStarted)

	a.state = Relaying
	a.turn = 1 - from.Index
	a.moves++
	a.turnStarted = now
	if a.observer != nil {
		a.observer.ObserveMove(from.Index, move, elapsed)
	}

	a.logger.Debug("move relayed",
		"from", from.Index,
		"to", a.turn,
		"move", move.String(),
		"number", a.moves,
		"elapsed", elapsed,
	)
	return a.engines[a.turn].write(protocol.Turn(move))
}

// flushEngines writes the fragments still held in both engines' line
// buffers: the previous mover's first, since its bytes were read before
// the turn passed.
func (a *Arbiter) flushEngines() error {
	for _, engine := range []*Engine{a.engines[1-a.turn], a.engines[a.turn]} {
		if fragment := engine.lines.Flush(); len(fragment) > 0 {
			if err := a.writeOutput(fragment); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Arbiter) writeOutput(data []byte) error {
	count, err := a.output.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if count != len(data) {
		return fmt.Errorf("write output: %w (%d of %d bytes)", io.ErrShortWrite, count, len(data))
	}
	return nil
}

// pollTimeout returns the poll timeout in milliseconds: -1 (block) when
// no deadline is enforced, otherwise the time left in the turn capped
// at deadlineRecheck.
func (a *Arbiter) pollTimeout() int {
	if a.turnDeadline <= 0 {
		return -1
	}
	remaining := a.turnStarted.Add(a.turnDeadline).Sub(a.clock.Now())
	if remaining <= 0 {
		return 0
	}
	remaining = min(remaining, deadlineRecheck)
	return int((remaining + time.Millisecond - 1) / time.Millisecond)
}

func (a *Arbiter) turnExpired() bool {
	if a.turnDeadline <= 0 {
		return false
	}
	return !a.clock.Now().Before(a.turnStarted.Add(a.turnDeadline))
}

func (a *Arbiter) finish(reason Reason, engine int) Outcome {
	a.state = Terminated
	return Outcome{
		Reason: reason,
		Engine: engine,
		Turn:   a.turn,
		Moves:  a.moves,
	}
}

func readable(revents int16) bool {
	return revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0
}

// watchContext returns the read end of a pipe that becomes readable
// when ctx is done, so cancellation can wake poll(2). stop releases the
// pipe and the watcher goroutine.
func watchContext(ctx context.Context) (int, func(), error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return -1, nil, fmt.Errorf("create wake pipe: %w", err)
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		select {
		case <-ctx.Done():
			_, _ = unix.Write(fds[1], []byte{0})
		case <-done:
		}
	}()

	stop := func() {
		close(done)
		<-finished
		unix.Close(fds[0])
		unix.Close(fds[1])
	}
	return fds[0], stop, nil
}
