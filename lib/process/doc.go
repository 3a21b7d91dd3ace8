// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for Gobang binaries.
//
// Both binaries follow the same shape: main calls run, and a non-nil
// error from run is reported through [Fatal]. Fatal writes directly to
// stderr because it may run before the structured logger exists, and
// because stdout of the arbiter is the supervising output stream that
// must only ever carry engine text.
package process
