// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// SocketPair returns both ends of a connected AF_UNIX stream socket
// pair. Both files are non-blocking and registered with the runtime
// poller, so read deadlines work on them. Both are closed when the test
// completes.
func SocketPair(t *testing.T) (local, remote *os.File) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	local = os.NewFile(uintptr(fds[0]), "socketpair-local")
	remote = os.NewFile(uintptr(fds[1]), "socketpair-remote")
	t.Cleanup(func() {
		local.Close()
		remote.Close()
	})
	return local, remote
}

// ReadUntil reads from file until the accumulated bytes contain
// expected, or fails the test once timeout expires. Returns everything
// read.
func ReadUntil(t *testing.T, file *os.File, expected string, timeout time.Duration) string {
	t.Helper()
	deadline := time.Now().Add(timeout)
	if err := file.SetReadDeadline(deadline); err != nil {
		t.Fatalf("set read deadline on %s: %v", file.Name(), err)
	}
	defer file.SetReadDeadline(time.Time{})

	var collected strings.Builder
	buffer := make([]byte, 1024)
	for !strings.Contains(collected.String(), expected) {
		count, err := file.Read(buffer)
		collected.Write(buffer[:count])
		if err != nil && !strings.Contains(collected.String(), expected) {
			t.Fatalf("reading %s while waiting for %q: %v (collected: %q)",
				file.Name(), expected, err, collected.String())
		}
	}
	return collected.String()
}

// RequireSilent fails the test if any byte can be read from file within
// window. End of stream counts as silence.
func RequireSilent(t *testing.T, file *os.File, window time.Duration) {
	t.Helper()
	if err := file.SetReadDeadline(time.Now().Add(window)); err != nil {
		t.Fatalf("set read deadline on %s: %v", file.Name(), err)
	}
	defer file.SetReadDeadline(time.Time{})

	buffer := make([]byte, 1024)
	count, err := file.Read(buffer)
	if count > 0 {
		t.Fatalf("expected no data on %s, read %q", file.Name(), buffer[:count])
	}
	if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) && !errors.Is(err, io.EOF) {
		t.Fatalf("reading %s: %v", file.Name(), err)
	}
}
