// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic test fixtures and utilities for the kernels.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lowrank/matrix"
)

// hide wraps any Matrix to hide its concrete type from type assertions.
// Implementation:
//   - Embed matrix.Matrix to forward all methods.
//
// Behavior highlights:
//   - Forces the AsDense fallback (copy through At) in code under test.
//
// AI-Hints:
//   - Wrap ONLY the operand you want to de-opt; keep the other one *Dense.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t *testing.T, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		t.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}

	return m
}

// NewFilledDense builds an r×c *Dense from row-major vals or fails the test.
// Implementation:
//   - Stage 1: len(vals) must equal r*c.
//   - Stage 2: copy into a fresh buffer (the caller's slice is not aliased).
func NewFilledDense(t *testing.T, r, c int, vals []float64) *matrix.Dense {
	t.Helper()
	if len(vals) != r*c {
		t.Fatalf("NewFilledDense: len(vals)=%d, want %d", len(vals), r*c)
	}
	m, err := matrix.NewDenseFrom(r, c, append([]float64(nil), vals...))
	if err != nil {
		t.Fatalf("NewDenseFrom(%d,%d): %v", r, c, err)
	}

	return m
}

// RandFilledDense returns an r×c *Dense with uniform values in [-1, 1).
// Determinism:
//   - Fixed seed gives identical data across runs.
func RandFilledDense(t *testing.T, r, c int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	vals := make([]float64, r*c)
	for i := range vals {
		vals[i] = 2*rng.Float64() - 1
	}

	return NewFilledDense(t, r, c, vals)
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	if err != nil {
		t.Fatalf("At(%d,%d): %v", i, j, err)
	}

	return v
}

// CompareExact asserts m equals want element-wise (bitwise float equality).
func CompareExact(t *testing.T, want [][]float64, m matrix.Matrix) {
	t.Helper()
	if m.Rows() != len(want) {
		t.Fatalf("rows: want %d, got %d", len(want), m.Rows())
	}
	for i := range want {
		if m.Cols() != len(want[i]) {
			t.Fatalf("cols: want %d, got %d", len(want[i]), m.Cols())
		}
		for j := range want[i] {
			if got := MustAt(t, m, i, j); got != want[i][j] {
				t.Fatalf("at [%d,%d]: want %v, got %v", i, j, want[i][j], got)
			}
		}
	}
}

// CompareClose asserts AllClose(a, b, rtol, atol).
func CompareClose(t *testing.T, a, b matrix.Matrix, rtol, atol float64) {
	t.Helper()
	ok, err := matrix.AllClose(a, b, rtol, atol)
	if err != nil {
		t.Fatalf("AllClose: %v", err)
	}
	if !ok {
		t.Fatalf("matrices differ beyond rtol=%g atol=%g:\n%v\nvs\n%v", rtol, atol, a, b)
	}
}

// AssertErrorIs fails unless errors.Is(err, target).
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("want %v; got %v", target, err)
	}
}

// ExpectPanicMessage asserts that fn panics with exactly msg.
func ExpectPanicMessage(t *testing.T, msg string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic %q, got none", msg)
		}
		if s, ok := r.(string); !ok || s != msg {
			t.Fatalf("panic: want %q, got %v", msg, r)
		}
	}()
	fn()
}

// --- property helpers ---

// propOrthonormalCols asserts QᵀQ ≈ I (c×c) within delta.
func propOrthonormalCols(t *testing.T, Q matrix.Matrix, delta float64) {
	t.Helper()
	QtQ, err := matrix.MulTransA(Q, Q)
	if err != nil {
		t.Fatalf("MulTransA(Q, Q): %v", err)
	}
	propIdentity(t, QtQ, delta)
}

// propOrthonormalRows asserts VT·VTᵀ ≈ I within delta.
func propOrthonormalRows(t *testing.T, VT matrix.Matrix, delta float64) {
	t.Helper()
	V, err := matrix.Transpose(VT)
	if err != nil {
		t.Fatalf("Transpose(VT): %v", err)
	}
	propOrthonormalCols(t, V, delta)
}

func propIdentity(t *testing.T, m matrix.Matrix, delta float64) {
	t.Helper()
	var want float64
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			want = 0
			if i == j {
				want = 1
			}
			if v := MustAt(t, m, i, j); math.Abs(v-want) > delta {
				t.Fatalf("at [%d,%d]: want |%.6g-%.6g|<=%.1e", i, j, v, want, delta)
			}
		}
	}
}

// propNonIncreasing asserts s is non-negative and sorted descending.
func propNonIncreasing(t *testing.T, s []float64) {
	t.Helper()
	for i, v := range s {
		if v < 0 {
			t.Fatalf("s[%d]=%g is negative", i, v)
		}
		if i > 0 && v > s[i-1] {
			t.Fatalf("s[%d]=%g > s[%d]=%g", i, v, i-1, s[i-1])
		}
	}
}

// propReconstructionSVD asserts A ≈ U·diag(s)·VT within (rtol, atol).
func propReconstructionSVD(t *testing.T, A, U matrix.Matrix, s []float64, VT matrix.Matrix, rtol, atol float64) {
	t.Helper()
	US, err := matrix.ScaleCols(U, s)
	if err != nil {
		t.Fatalf("ScaleCols: %v", err)
	}
	R, err := matrix.Mul(US, VT)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	CompareClose(t, R, A, rtol, atol)
}

// mustDense allocates an r×c *Dense for benchmarks.
func mustDense(b *testing.B, r, c int) *matrix.Dense {
	b.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		b.Fatal(err)
	}
	return m
}

// fillDenseRand fills d with uniform values in [-1, 1) from a fixed seed.
func fillDenseRand(b *testing.B, d *matrix.Dense, seed int64) {
	b.Helper()
	rng := rand.New(rand.NewSource(seed))
	data := d.RawData()
	for i := range data {
		data[i] = 2*rng.Float64() - 1
	}
}
