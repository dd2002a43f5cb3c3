// SPDX-License-Identifier: MIT
package codec_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lowrank/internal/codec"
	"github.com/katalvlaran/lowrank/internal/synth"
	"github.com/katalvlaran/lowrank/rsvd"
)

func factors(t *testing.T) *rsvd.Factors {
	t.Helper()
	m, err := synth.Gaussian(30, 20, 1)
	require.NoError(t, err)
	f, err := rsvd.Decompose(m, 5, rsvd.WithSeed(1))
	require.NoError(t, err)
	return f
}

func compress(t *testing.T, raw []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(raw, nil)
}

func TestRoundTrip(t *testing.T) {
	f := factors(t)
	blob, err := codec.Encode(f)
	require.NoError(t, err)

	got, err := codec.Decode(blob)
	require.NoError(t, err)
	require.Equal(t, f.S, got.S)
	require.Equal(t, f.U.RawData(), got.U.RawData())
	require.Equal(t, f.VT.RawData(), got.VT.RawData())

	path := filepath.Join(t.TempDir(), "f.lrf")
	require.NoError(t, codec.WriteFile(path, f))
	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	fromFile, err := codec.Read(fh)
	require.NoError(t, err)
	require.Equal(t, f.S, fromFile.S)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := codec.Decode([]byte("not zstd at all"))
	require.Error(t, err)

	blob, err := codec.Encode(factors(t))
	require.NoError(t, err)
	dec, err := zstd.NewReader(bytes.NewReader(blob))
	require.NoError(t, err)
	defer dec.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(dec)
	require.NoError(t, err)
	plain := buf.Bytes()

	header := func(rows, cols, rank uint32) []byte {
		h := []byte("LRF1")
		h = binary.LittleEndian.AppendUint32(h, rows)
		h = binary.LittleEndian.AppendUint32(h, cols)
		return binary.LittleEndian.AppendUint32(h, rank)
	}

	tests := map[string][]byte{
		"empty":          {},
		"bad magic":      append([]byte("XRF1"), plain[4:]...),
		"truncated body": plain[:len(plain)-8],
		"zero rank":      header(2, 2, 0),
		"rank too large": append(header(1, 1, 2), make([]byte, 8*6)...),
		"huge shape":     header(1<<31, 1<<31, 1),
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Decode(compress(t, raw))
			require.ErrorIs(t, err, codec.ErrFormat)
		})
	}

	_, err = codec.Encode(nil)
	require.Error(t, err)
}
