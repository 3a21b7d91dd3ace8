// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"

	"github.com/gobang-foundation/gobang/lib/codec"
)

// Compression is how a record file is compressed.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// CompressionFor picks the compression for path from its extension:
// .zst or .zstd for zstd, .lz4 for LZ4, anything else uncompressed.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// detectCompression identifies compressed content by its frame magic.
func detectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use with
// EncodeAll and DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("record: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("record: zstd decoder initialization failed: " + err.Error())
	}
}

func compress(data []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil
	case CompressionLZ4:
		var buffer bytes.Buffer
		writer := lz4.NewWriter(&buffer)
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buffer.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported compression %v", compression)
	}
}

func decompress(data []byte) ([]byte, error) {
	switch detectCompression(data) {
	case CompressionZstd:
		decoded, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return decoded, nil
	case CompressionLZ4:
		decoded, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		return decoded, nil
	default:
		return data, nil
	}
}

// Digest is the keyed BLAKE3 hash of a record's CBOR encoding.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// digestKey separates record digests from any other BLAKE3 use. It is
// the ASCII domain name zero-padded to 32 bytes. Changing it changes
// every digest.
var digestKey = [32]byte{
	'g', 'o', 'b', 'a', 'n', 'g', '.', 'r', 'e', 'c', 'o', 'r', 'd', 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

func digestOf(encoded []byte) Digest {
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("record: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(encoded)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// Encode returns the record's CBOR encoding and its digest.
func Encode(record *Record) ([]byte, Digest, error) {
	encoded, err := codec.Marshal(record)
	if err != nil {
		return nil, Digest{}, fmt.Errorf("encode record: %w", err)
	}
	return encoded, digestOf(encoded), nil
}

// WriteFile writes record to path, compressed according to
// [CompressionFor]. The file is written to a temporary name in the
// same directory and renamed into place, so a reader never sees a
// partial record.
func WriteFile(path string, record *Record) (Digest, error) {
	encoded, digest, err := Encode(record)
	if err != nil {
		return Digest{}, err
	}
	data, err := compress(encoded, CompressionFor(path))
	if err != nil {
		return Digest{}, err
	}

	temporary, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return Digest{}, fmt.Errorf("write record: %w", err)
	}
	_, writeErr := temporary.Write(data)
	closeErr := temporary.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		os.Remove(temporary.Name())
		return Digest{}, fmt.Errorf("write record %s: %w", temporary.Name(), err)
	}
	if err := os.Rename(temporary.Name(), path); err != nil {
		os.Remove(temporary.Name())
		return Digest{}, fmt.Errorf("write record: %w", err)
	}
	return digest, nil
}

// ReadFile reads a record written by WriteFile and returns it with its
// digest.
func ReadFile(path string) (*Record, Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Digest{}, fmt.Errorf("read record: %w", err)
	}
	encoded, err := decompress(data)
	if err != nil {
		return nil, Digest{}, fmt.Errorf("read record %s: %w", path, err)
	}

	var record Record
	if err := codec.Unmarshal(encoded, &record); err != nil {
		return nil, Digest{}, fmt.Errorf("read record %s: %w", path, err)
	}
	if record.Version != FormatVersion {
		return nil, Digest{}, fmt.Errorf("read record %s: unsupported format version %d", path, record.Version)
	}
	return &record, digestOf(encoded), nil
}
