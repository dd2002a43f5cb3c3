// SPDX-License-Identifier: MIT
// Package matrix provides the dense products and norms the factorizations and
// the low-rank decomposer are built from: Mul, MulTransA, Transpose, Sub,
// ScaleCols, FrobeniusNorm and AllClose. All functions perform strict
// fail-fast validation and return clear errors on dimension mismatches.
//
// Purpose:
//   - Declare canonical linear-algebra kernels used across the module.
//   - Define operation tags and shared constants for determinism and error reporting.
//
// Notes:
//   - Inputs are never mutated; every kernel allocates a fresh *Dense result.
//   - Non-*Dense operands are materialized once via AsDense (fallback path).

package matrix

import (
	"fmt"
	"math"
)

// NormZero is the additive identity for norm and accumulation operations.
const NormZero = 0.0

// ZeroSum is the initial sum value for dot products and similar.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMul       = "Mul"
	opMulTransA = "MulTransA"
	opTranspose = "Transpose"
	opSub       = "Sub"
	opScaleCols = "ScaleCols"
	opFrobenius = "FrobeniusNorm"
	opAllClose  = "AllClose"
	opQR        = "QR"
	opLU        = "LU"
	opSVD       = "SVD"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// The wrapper keeps a stable "Op: underlying" shape for uniform reporting across facades.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
//
// AI-Hints:
//   - Always gate calls with `if err != nil { return nil, matrixErrorf(tag, err) }`.
//   - Keep `tag` to the canonical constants to simplify log/search pipelines.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul computes the matrix product a × b.
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b). Allocate result Dense(a.Rows, b.Cols).
//   - Stage 2: i-k-j loop over flat slices (row of b streamed per a[i,k]).
//
// Behavior highlights:
//   - Zero entries of a are skipped (cheap for sparse-ish sketches).
//   - Deterministic accumulation order.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
//
// AI-Hints:
//   - If you can keep A as *Dense and cache-friendly by rows, you unlock the best path here.
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := AsDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := AsDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := da.r, da.c, db.c
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k                            int
		av                                 float64
		rowOffsetA, rowOffsetB, rowOffsetR int
	)
	for i = 0; i < aRows; i++ {
		rowOffsetA = i * aCols
		rowOffsetR = i * bCols
		for k = 0; k < aCols; k++ {
			av = da.data[rowOffsetA+k]
			if av == 0 {
				continue // skip zero for performance
			}
			rowOffsetB = k * bCols
			for j = 0; j < bCols; j++ {
				res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// MulTransA computes aᵀ × b without materializing aᵀ.
// Implementation:
//   - Stage 1: validate a.Rows == b.Rows.
//   - Stage 2: k-i-j loop: row k of a scatters into rows of the result.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*n*c), Space O(n*c) for a r×n, b r×c.
func MulTransA(a, b Matrix) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opMulTransA, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opMulTransA, err)
	}
	if a.Rows() != b.Rows() {
		return nil, matrixErrorf(opMulTransA, ErrDimensionMismatch)
	}
	da, err := AsDense(a)
	if err != nil {
		return nil, matrixErrorf(opMulTransA, err)
	}
	db, err := AsDense(b)
	if err != nil {
		return nil, matrixErrorf(opMulTransA, err)
	}

	rows, aCols, bCols := da.r, da.c, db.c
	res, err := NewDense(aCols, bCols)
	if err != nil {
		return nil, matrixErrorf(opMulTransA, err)
	}
	var (
		i, j, k    int
		av         float64
		baseA      int
		baseB      int
		baseResult int
	)
	for k = 0; k < rows; k++ {
		baseA = k * aCols
		baseB = k * bCols
		for i = 0; i < aCols; i++ {
			av = da.data[baseA+i]
			if av == 0 {
				continue
			}
			baseResult = i * bCols
			for j = 0; j < bCols; j++ {
				res.data[baseResult+j] += av * db.data[baseB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Implementation:
//   - Stage 1: ValidateNotNil(m). Allocate Dense(cols, rows).
//   - Stage 2: data[i*cols + j] → res.data[j*rows + i].
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
//
// AI-Hints:
//   - If you only need Aᵀ·B, prefer MulTransA instead of forming Aᵀ.
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	dm, err := AsDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := dm.r, dm.c
	res, err := NewDense(cols, rows) // dims flipped
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j, baseSrc int
	for i = 0; i < rows; i++ {
		baseSrc = i * cols
		for j = 0; j < cols; j++ {
			res.data[j*rows+i] = dm.data[baseSrc+j]
		}
	}

	return res, nil
}

// Sub computes element-wise a − b into a fresh Dense.
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Sub(a, b Matrix) (*Dense, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	da, err := AsDense(a)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	db, err := AsDense(b)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	res := da.clone()
	for idx := range res.data {
		res.data[idx] -= db.data[idx]
	}

	return res, nil
}

// ScaleCols returns m·diag(scale): column j multiplied by scale[j].
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch when len(scale) != m.Cols().
//   - ErrNaNInf when a product overflows (or scale holds NaN/Inf).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
//
// AI-Hints:
//   - U·diag(S) for a reconstruction is ScaleCols(U, S) followed by Mul(…, VT).
func ScaleCols(m Matrix, scale []float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}
	if len(scale) != m.Cols() {
		return nil, matrixErrorf(opScaleCols, ErrDimensionMismatch)
	}
	dm, err := AsDense(m)
	if err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}
	res := dm.clone()
	if err = res.Apply(func(_, j int, v float64) float64 { return v * scale[j] }); err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}

	return res, nil
}

// FrobeniusNorm returns sqrt(Σ m[i,j]²), computed with scaling to avoid
// overflow on large entries.
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c), Space O(1).
func FrobeniusNorm(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opFrobenius, err)
	}
	dm, err := AsDense(m)
	if err != nil {
		return 0, matrixErrorf(opFrobenius, err)
	}

	return norm2(dm.data), nil
}

// AllClose reports whether |a−b| ≤ atol + rtol·|b| holds element-wise.
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(1).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	da, err := AsDense(a)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	db, err := AsDense(b)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	for idx, av := range da.data {
		bv := db.data[idx]
		if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
			return false, nil
		}
	}

	return true, nil
}

// norm2 is the overflow-safe Euclidean norm of a flat vector (LAPACK dnrm2 scheme).
func norm2(x []float64) float64 {
	scale, ssq := NormZero, 1.0
	for _, v := range x {
		if v == 0 {
			continue
		}
		av := math.Abs(v)
		if scale < av {
			ssq = 1 + ssq*(scale/av)*(scale/av)
			scale = av
		} else {
			ssq += (av / scale) * (av / scale)
		}
	}

	return scale * math.Sqrt(ssq)
}
