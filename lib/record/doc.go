// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

// Package record captures a match as data: the settings announced to
// the engines, each engine's command line, every relayed move with the
// time the mover took, and how the match ended.
//
// A [Record] is filled in while the match runs (the arbiter reports
// moves through [Record.ObserveMove]) and written once at the end with
// [WriteFile]. The file is deterministic CBOR (see lib/codec),
// optionally compressed:
//
//	match.gbr       uncompressed
//	match.gbr.zst   zstd
//	match.gbr.lz4   LZ4 frame
//
// [ReadFile] detects compression from the content, not the name.
//
// Every record has a [Digest]: a keyed BLAKE3 hash of its uncompressed
// CBOR encoding. Two files with the same digest hold the same match
// regardless of how they are compressed.
package record
