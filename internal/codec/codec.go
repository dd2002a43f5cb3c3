// SPDX-License-Identifier: MIT

// Package codec stores rsvd.Factors as zstd-compressed little-endian blobs.
//
// Layout before compression:
//
//	magic "LRF1" | rows u32 | cols u32 | rank u32 | S[rank] | U[rows*rank] | VT[rank*cols]
//
// Floats are IEEE-754 binary64, row-major.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"

	"github.com/klauspost/compress/zstd"

	"github.com/katalvlaran/lowrank/matrix"
	"github.com/katalvlaran/lowrank/rsvd"
)

// ErrFormat reports a blob that decompresses but is not a factors record.
var ErrFormat = errors.New("codec: malformed factors blob")

var magic = [4]byte{'L', 'R', 'F', '1'}

const headerSize = len(magic) + 3*4

var encoder *zstd.Encoder = func() *zstd.Encoder {
	encoder, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(runtime.NumCPU()),
	)
	if err != nil {
		panic(err)
	}
	return encoder
}()

var decoder *zstd.Decoder = func() *zstd.Decoder {
	decoder, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(runtime.NumCPU()),
	)
	if err != nil {
		panic(err)
	}
	return decoder
}()

// Encode serializes and compresses f.
func Encode(f *rsvd.Factors) ([]byte, error) {
	if f == nil || f.U == nil || f.VT == nil {
		return nil, fmt.Errorf("codec: encode: %w", matrix.ErrNilMatrix)
	}
	rows, cols := f.Dims()
	rank := f.Rank()
	raw := make([]byte, 0, headerSize+8*(rank+rows*rank+rank*cols))
	raw = append(raw, magic[:]...)
	raw = binary.LittleEndian.AppendUint32(raw, uint32(rows))
	raw = binary.LittleEndian.AppendUint32(raw, uint32(cols))
	raw = binary.LittleEndian.AppendUint32(raw, uint32(rank))
	raw = appendFloats(raw, f.S)
	raw = appendFloats(raw, f.U.RawData())
	raw = appendFloats(raw, f.VT.RawData())

	return encoder.EncodeAll(raw, nil), nil
}

// Decode reverses Encode.
func Decode(in []byte) (*rsvd.Factors, error) {
	raw, err := decoder.DecodeAll(in, nil)
	if err != nil {
		return nil, fmt.Errorf("codec: decode: %w", err)
	}
	if len(raw) < headerSize || [4]byte(raw[:4]) != magic {
		return nil, ErrFormat
	}
	rows := int(binary.LittleEndian.Uint32(raw[4:]))
	cols := int(binary.LittleEndian.Uint32(raw[8:]))
	rank := int(binary.LittleEndian.Uint32(raw[12:]))
	body := raw[headerSize:]
	if rows > len(body) || cols > len(body) {
		return nil, ErrFormat
	}
	if rank < 1 || rank > min(rows, cols) || len(body) != 8*(rank+rows*rank+rank*cols) {
		return nil, ErrFormat
	}

	s, body := readFloats(body, rank)
	ud, body := readFloats(body, rows*rank)
	vtd, _ := readFloats(body, rank*cols)
	u, err := matrix.NewDenseFrom(rows, rank, ud)
	if err != nil {
		return nil, fmt.Errorf("codec: decode U: %w", err)
	}
	vt, err := matrix.NewDenseFrom(rank, cols, vtd)
	if err != nil {
		return nil, fmt.Errorf("codec: decode VT: %w", err)
	}

	return rsvd.NewFactors(u, s, vt)
}

// WriteFile encodes f into path.
func WriteFile(path string, f *rsvd.Factors) error {
	out, err := Encode(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// Read decodes factors from r.
func Read(r io.Reader) (*rsvd.Factors, error) {
	in, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("codec: read: %w", err)
	}
	return Decode(in)
}

func appendFloats(dst []byte, v []float64) []byte {
	for _, x := range v {
		dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(x))
	}
	return dst
}

func readFloats(src []byte, n int) ([]float64, []byte) {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(src[8*i:]))
	}
	return out, src[8*n:]
}
