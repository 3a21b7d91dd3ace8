// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gobang-foundation/gobang/lib/protocol"
	"github.com/gobang-foundation/gobang/lib/record"
)

func writeSample(t *testing.T, name string) (string, record.Digest) {
	t.Helper()
	started := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	match := record.New(protocol.DefaultSettings(), [2][]string{{"alpha"}, {"beta"}}, started)
	match.ObserveMove(0, protocol.Move{Row: 7, Column: 7}, 50*time.Millisecond)
	match.Finish(started.Add(time.Second), "terminal closed", nil)

	path := filepath.Join(t.TempDir(), name)
	digest, err := record.WriteFile(path, match)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path, digest
}

func TestShowListing(t *testing.T) {
	path, digest := writeSample(t, "match.gbr.zst")

	var out strings.Builder
	if err := run([]string{path}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	if !strings.HasPrefix(text, digest.String()+"  "+path+"\n") {
		t.Errorf("output does not start with the digest line:\n%s", text)
	}
	if !strings.Contains(text, "   1  engine 0  7,7  50ms\n") {
		t.Errorf("output missing the move:\n%s", text)
	}
}

func TestShowDiagnostic(t *testing.T) {
	path, _ := writeSample(t, "match.gbr.lz4")

	var out strings.Builder
	if err := run([]string{"--diagnostic", path}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), `"moves"`) {
		t.Errorf("diagnostic output missing moves:\n%s", out.String())
	}
}

func TestRunErrors(t *testing.T) {
	var out strings.Builder
	if err := run(nil, &out); err == nil {
		t.Error("expected usage error with no files")
	}
	if err := run([]string{filepath.Join(t.TempDir(), "absent.gbr")}, &out); err == nil {
		t.Error("expected error for a missing file")
	}
}
