// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Gobang's standard CBOR encoding configuration.
//
// Match records (see lib/record) are stored as CBOR. The encoder uses
// Core Deterministic Encoding (RFC 8949 §4.2): sorted map keys,
// smallest integer encoding, no indefinite-length items. The same
// match always produces identical bytes, so a record's digest
// identifies it.
//
// Timestamps are encoded as RFC 3339 text with nanoseconds, so records
// written on different hosts compare equal after a round trip.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types that are only ever stored as CBOR use `cbor` struct tags.
package codec
