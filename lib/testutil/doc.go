// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Gobang packages.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls.
//
// [SocketPair] creates a connected pair of stream sockets wrapped in
// *os.File. The arbiter polls and reads engine descriptors directly, so
// tests stand in for an engine's pty primary with one end of a socket
// pair and play the engine on the other end. [ReadUntil] and
// [RequireSilent] read the peer end with deadlines.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
