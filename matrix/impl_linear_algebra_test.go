// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lowrank/matrix"
	"github.com/stretchr/testify/require"
)

// TestMul_Known2x3x2 checks a hand-computed product on both fast and fallback paths.
func TestMul_Known2x3x2(t *testing.T) {
	A := NewFilledDense(t, 2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	B := NewFilledDense(t, 3, 2, []float64{
		7, 8,
		9, 10,
		11, 12,
	})
	want := [][]float64{{58, 64}, {139, 154}}

	got, err := matrix.Mul(A, B)
	require.NoError(t, err)
	CompareExact(t, want, got)

	got, err = matrix.Mul(hide{A}, B)
	require.NoError(t, err)
	CompareExact(t, want, got)
}

// TestMul_DimensionMismatch ensures a.Cols != b.Rows is rejected.
func TestMul_DimensionMismatch(t *testing.T) {
	_, err := matrix.Mul(MustDense(t, 2, 3), MustDense(t, 2, 3))
	AssertErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.Mul(nil, MustDense(t, 2, 3))
	AssertErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestMulTransA_MatchesTransposeThenMul verifies aᵀb without forming aᵀ.
func TestMulTransA_MatchesTransposeThenMul(t *testing.T) {
	A := RandFilledDense(t, 7, 4, 11)
	B := RandFilledDense(t, 7, 3, 12)

	got, err := matrix.MulTransA(A, B)
	require.NoError(t, err)
	require.Equal(t, 4, got.Rows())
	require.Equal(t, 3, got.Cols())

	At, err := matrix.Transpose(A)
	require.NoError(t, err)
	want, err := matrix.Mul(At, B)
	require.NoError(t, err)
	CompareClose(t, got, want, 1e-12, 1e-12)

	_, err = matrix.MulTransA(A, MustDense(t, 6, 3))
	AssertErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestTranspose_Involution checks (Aᵀ)ᵀ = A and that A is not mutated.
func TestTranspose_Involution(t *testing.T) {
	A := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	At, err := matrix.Transpose(A)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, At)

	Att, err := matrix.Transpose(At)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, Att)
	CompareExact(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, A)
}

// TestSub covers element-wise difference and shape checks.
func TestSub(t *testing.T) {
	A := NewFilledDense(t, 2, 2, []float64{5, 6, 7, 8})
	B := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})

	D, err := matrix.Sub(A, hide{B})
	require.NoError(t, err)
	CompareExact(t, [][]float64{{4, 4}, {4, 4}}, D)

	_, err = matrix.Sub(A, MustDense(t, 2, 3))
	AssertErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestScaleCols checks m·diag(s) and the length contract.
func TestScaleCols(t *testing.T) {
	A := NewFilledDense(t, 2, 3, []float64{1, 1, 1, 2, 2, 2})

	S, err := matrix.ScaleCols(A, []float64{1, 10, 100})
	require.NoError(t, err)
	CompareExact(t, [][]float64{{1, 10, 100}, {2, 20, 200}}, S)
	CompareExact(t, [][]float64{{1, 1, 1}, {2, 2, 2}}, A) // input untouched

	_, err = matrix.ScaleCols(A, []float64{1, 2})
	AssertErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.ScaleCols(A, []float64{1, math.MaxFloat64, 1})
	AssertErrorIs(t, err, matrix.ErrNaNInf)
}

// TestFrobeniusNorm covers a 3-4-5 triangle and overflow-safe scaling.
func TestFrobeniusNorm(t *testing.T) {
	n, err := matrix.FrobeniusNorm(NewFilledDense(t, 1, 2, []float64{3, 4}))
	require.NoError(t, err)
	require.InDelta(t, 5.0, n, 1e-15)

	big := 1e300
	n, err = matrix.FrobeniusNorm(NewFilledDense(t, 2, 1, []float64{big, big}))
	require.NoError(t, err)
	require.False(t, math.IsInf(n, 0))
	require.InEpsilon(t, big*math.Sqrt2, n, 1e-15)

	n, err = matrix.FrobeniusNorm(MustDense(t, 3, 3))
	require.NoError(t, err)
	require.Zero(t, n)
}

// TestAllClose checks both tolerances.
func TestAllClose(t *testing.T) {
	A := NewFilledDense(t, 1, 2, []float64{1, 100})
	B := NewFilledDense(t, 1, 2, []float64{1 + 1e-10, 100 + 1e-7})

	ok, err := matrix.AllClose(A, B, 1e-8, 1e-9)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = matrix.AllClose(A, B, 0, 1e-9)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = matrix.AllClose(A, MustDense(t, 2, 1), 0, 0)
	AssertErrorIs(t, err, matrix.ErrDimensionMismatch)
}
