// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

// Package launcher starts a program on its own pseudo-terminal.
//
// Engines are ordinary line-buffered CLI programs. Binding their
// standard streams to a pty secondary makes them flush every line as if
// a person were typing at them, and gives the caller a single primary
// descriptor to read their output from and write their input to.
//
// [Start] allocates the pair, turns off local echo on the secondary,
// and starts the program as a session leader with the secondary as its
// controlling terminal. Echo must be off before the child runs: with
// echo on, every command written to the primary would be read straight
// back as if the engine had printed it, and a relayed "TURN 7,7" would
// look like engine output.
//
// The parent keeps only the primary. [Process.Stop] closes it, signals
// the engine's process group, and reaps the child.
package launcher
