// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// The arbiter measures turn deadlines and the launcher measures the
// shutdown grace period through a Clock instead of calling the time
// package directly. Production code uses Real(); tests use Fake(),
// which only moves when Advance is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go func() { <-c.After(time.Second); close(done) }()
//	c.WaitForTimers(1)
//	c.Advance(time.Second)
package clock
