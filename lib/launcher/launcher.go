// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/gobang-foundation/gobang/lib/clock"
)

var (
	// ErrAllocate reports that the pty pair could not be opened,
	// granted, or unlocked.
	ErrAllocate = errors.New("allocate pseudo-terminal")

	// ErrTerminal reports that the secondary's attributes could not be
	// read or changed.
	ErrTerminal = errors.New("configure pseudo-terminal")

	// ErrStart reports that the child could not be forked or exec'd.
	ErrStart = errors.New("start process")
)

// Process is a program running on the secondary side of a pty.
type Process struct {
	// PID is the child's process id. The child is a session leader, so
	// it is also the process group id.
	PID int

	// Primary is the parent's side of the pty. Bytes written to it are
	// the child's standard input; the child's standard output and error
	// are read from it.
	Primary *os.File

	command *exec.Cmd
	exited  chan struct{}
	waitErr error

	stopOnce sync.Once
}

// Start runs program with argv as its complete argument vector
// (argv[0] included) on a new pty. An empty argv runs the program with
// argv[0] = program. program is resolved through PATH when it contains
// no slash.
//
// Errors wrap [ErrAllocate], [ErrTerminal], or [ErrStart]. On error
// nothing is left open.
func Start(program string, argv []string) (*Process, error) {
	primary, secondary, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocate, err)
	}

	if err := DisableEcho(secondary); err != nil {
		secondary.Close()
		primary.Close()
		return nil, fmt.Errorf("%w: %w", ErrTerminal, err)
	}

	command := exec.Command(program)
	if len(argv) > 0 {
		command.Args = argv
	}
	command.Stdin = secondary
	command.Stdout = secondary
	command.Stderr = secondary
	command.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0, // fd 0 in child = secondary
	}

	if err := command.Start(); err != nil {
		secondary.Close()
		primary.Close()
		return nil, fmt.Errorf("%w %s: %w", ErrStart, program, err)
	}
	// The child holds its own copies on fds 0, 1 and 2. Keeping ours
	// open would hide the hang-up when the child exits.
	secondary.Close()

	process := &Process{
		PID:     command.Process.Pid,
		Primary: primary,
		command: command,
		exited:  make(chan struct{}),
	}
	go func() {
		process.waitErr = command.Wait()
		close(process.exited)
	}()
	return process, nil
}

// DisableEcho clears ECHO in the local modes of the terminal behind
// file.
func DisableEcho(file *os.File) error {
	fd := int(file.Fd())
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("get terminal attributes: %w", err)
	}
	termios.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("set terminal attributes: %w", err)
	}
	return nil
}

// Exited is closed once the child has been reaped.
func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

// Stop ends the child. It closes the primary, which hangs up the
// child's controlling terminal, sends SIGTERM to the child's process
// group, and escalates to SIGKILL if the child has not exited after
// grace on clk. Returns the child's wait error once it has been reaped.
// Safe to call more than once.
func (p *Process) Stop(clk clock.Clock, grace time.Duration) error {
	p.stopOnce.Do(func() {
		p.Primary.Close()

		select {
		case <-p.exited:
			return
		default:
		}

		p.signalGroup(syscall.SIGTERM)
		select {
		case <-p.exited:
		case <-clk.After(grace):
			p.signalGroup(syscall.SIGKILL)
			<-p.exited
		}
	})
	<-p.exited
	return p.waitErr
}

// signalGroup signals every process in the child's group. Errors are
// ignored: the group may already be gone.
func (p *Process) signalGroup(signal syscall.Signal) {
	_ = syscall.Kill(-p.PID, signal)
}
