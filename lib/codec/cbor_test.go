// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type sampleMove struct {
	Engine int       `cbor:"engine"`
	Row    int       `cbor:"row"`
	Column int       `cbor:"column"`
	Note   string    `cbor:"note,omitempty"`
	At     time.Time `cbor:"at"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleMove{
		Engine: 1,
		Row:    7,
		Column: -3,
		At:     time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC),
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleMove
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.At.Equal(original.At) {
		t.Errorf("timestamp roundtrip: got %v, want %v", decoded.At, original.At)
	}
	decoded.At = original.At
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]int{"row": 7, "column": 8, "engine": 0}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestOmitemptyRespected(t *testing.T) {
	with, err := Marshal(sampleMove{Note: "forced"})
	if err != nil {
		t.Fatal(err)
	}
	without, err := Marshal(sampleMove{})
	if err != nil {
		t.Fatal(err)
	}
	if len(without) >= len(with) {
		t.Errorf("omitempty not effective: without=%d bytes, with=%d bytes", len(without), len(with))
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var move sampleMove
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &move); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestDecoderReadsSequence(t *testing.T) {
	var stream []byte
	for row := 0; row < 3; row++ {
		data, err := Marshal(sampleMove{Row: row})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		stream = append(stream, data...)
	}

	decoder := NewDecoder(bytes.NewReader(stream))
	for row := 0; row < 3; row++ {
		var move sampleMove
		if err := decoder.Decode(&move); err != nil {
			t.Fatalf("Decode %d: %v", row, err)
		}
		if move.Row != row {
			t.Errorf("item %d: row = %d", row, move.Row)
		}
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(sampleMove{Row: 7, Column: 8})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"row"`) || !strings.Contains(notation, "7") {
		t.Errorf("notation %q does not contain the row", notation)
	}
}
