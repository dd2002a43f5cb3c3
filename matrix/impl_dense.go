// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//   - Share the backing slice with BLAS/LAPACK-style libraries via NewDenseFrom/RawData
//     so that adapters never copy on the hot path.
//   - Enforce a numeric policy (optional rejection of NaN/Inf) from a single source of truth.
//
// AI-Hints:
//   - Prefer fast-paths on *Dense in hot algebra (see impl_linear_algebra.go): operate on the flat data slice directly.
//   - Use Slice(r0,r1,c0,c1) to materialize a truncated block (copy) with independent lifetime.
//   - DefaultValidateNaNInf is on; insert only finite values unless you explicitly disable upstream.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); Slice: O(r'*c').

package matrix

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt    = "At"    // method tag used in error wrappers
	ctxSet   = "Set"   // method tag used in error wrappers
	ctxApply = "Apply" // method tag used in error wrappers
	ctxSlice = "Slice" // ctor tag for Dense.Slice
	ctxFrom  = "NewDenseFrom"
)

// ---------- Formatting literals  ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// Implementation:
//   - Stage 1: format "Dense.<method>(row,col): %w".
//
// Complexity:
//   - Time O(1), Space O(1).
//
// AI-Hints:
//   - Prefer to wrap at the nearest detection site for precise coordinates.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
//   - validateNaNInf enables optional NaN/Inf rejection in Set (policy default from options.go).
type Dense struct {
	r, c           int       // row and column counts (>0)
	data           []float64 // contiguous row-major storage (len == r*c)
	validateNaNInf bool      // numeric guard: reject NaN/Inf in Set when true
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil) // *Dense implements our public Matrix interface
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
// Implementation:
//   - Stage 1: validate rows>0 && cols>0; else ErrInvalidDimensions.
//   - Stage 2: allocate zero-filled buffer and initialize policy from defaults.
//
// Behavior highlights:
//   - No panics on user errors; returns sentinel errors.
//   - Public constructor forbids empty dimensions to avoid accidental 0×0 matrices.
//
// Errors:
//   - ErrInvalidDimensions (shape contract violation).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	// Validate shape.
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	// Allocate a contiguous flat buffer; make() zero-fills it deterministically.
	buf := make([]float64, rows*cols)

	return &Dense{
		r:              rows,
		c:              cols,
		data:           buf,
		validateNaNInf: DefaultValidateNaNInf,
	}, nil
}

// NewDenseFrom wraps an existing row-major buffer without copying.
// Implementation:
//   - Stage 1: validate rows>0 && cols>0; else ErrInvalidDimensions.
//   - Stage 2: validate len(data) == rows*cols; else ErrBadShape.
//
// Behavior highlights:
//   - The Dense takes ownership of data: later writes through either handle are shared.
//   - Values are NOT scanned for NaN/Inf here; use ValidateFinite when ingesting
//     external data.
//
// Complexity:
//   - Time O(1), Space O(1).
//
// AI-Hints:
//   - This is the zero-copy bridge used by the gonum backend (mat.NewDense shares
//     the same layout).
func NewDenseFrom(rows, cols int, data []float64) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%s(%d,%d): len %d: %w", ctxFrom, rows, cols, len(data), ErrBadShape)
	}

	return &Dense{
		r:              rows,
		c:              cols,
		data:           data,
		validateNaNInf: DefaultValidateNaNInf,
	}, nil
}

// NewFromRows builds a Dense from a rectangular [][]float64 (copying the values).
// Errors:
//   - ErrInvalidDimensions on empty input, ErrBadShape on ragged rows.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewFromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return nil, ErrInvalidDimensions
	}
	res, err := NewDense(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != res.c {
			return nil, fmt.Errorf("NewFromRows: row %d has %d values, want %d: %w", i, len(row), res.c, ErrBadShape)
		}
		copy(res.data[i*res.c:(i+1)*res.c], row)
	}

	return res, nil
}

// AsDense returns m itself when it already is a *Dense, otherwise a Dense copy.
// Implementation:
//   - Stage 1: ValidateNotNil.
//   - Stage 2: type-assert fast path; fallback copies through At in i→j order.
//
// Errors:
//   - ErrNilMatrix, ErrInvalidDimensions (empty source), accessor errors.
//
// Complexity:
//   - Time O(1) fast path, O(r*c) fallback.
func AsDense(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, err
	}
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	res, err := NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	var (
		i, j int
		v    float64
	)
	for i = 0; i < res.r; i++ {
		for j = 0; j < res.c; j++ {
			v, err = m.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("AsDense: %w", err)
			}
			res.data[i*res.c+j] = v
		}
	}

	return res, nil
}

// Rows returns the row count. No side effects.
// Complexity: O(1).
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count. No side effects.
// Complexity: O(1).
func (m *Dense) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call for convenience.
// Complexity: O(1).
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// RawData exposes the row-major backing slice (shared, not copied).
// Mutations through the returned slice bypass the numeric policy.
// Complexity: O(1).
func (m *Dense) RawData() []float64 { return m.data }

// indexOf computes the row-major offset or returns ErrOutOfRange.
// Callers (At/Set) wrap with coordinates and method name.
// Complexity: O(1).
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	// Row-major offset: i*c + j.
	return row*m.c + col, nil
}

// At returns the value at (row, col) or ErrOutOfRange.
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err) // wrap with context
	}

	return m.data[off], nil
}

// Set stores v at (row, col) or returns an error (bounds or numeric policy).
// Errors:
//   - ErrOutOfRange for bad coordinates.
//   - ErrNaNInf when the numeric policy is on and v is not finite.
//
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err) // wrap with context
	}
	// Numeric policy: optional finite-only enforcement.
	if m.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[off] = v // direct flat write

	return nil
}

// Clone returns a deep copy (new buffer, same numeric policy).
// Complexity: O(r*c).
func (m *Dense) Clone() Matrix {
	return m.clone()
}

// clone is the typed variant of Clone used by kernels that need *Dense back.
func (m *Dense) clone() *Dense {
	cp := make([]float64, len(m.data)) // allocate same length
	copy(cp, m.data)                   // deep copy

	return &Dense{
		r:              m.r,
		c:              m.c,
		data:           cp,
		validateNaNInf: m.validateNaNInf, // preserve guard policy
	}
}

// String HUMAN-READABLE dump of rows for diagnostics.
// Complexity: O(r*c).
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ { // iterate rows deterministically
		b.WriteString(_fmtRowOpen) // open row
		base = i * m.c
		for j = 0; j < m.c; j++ { // iterate cols
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(_fmtSep) // separate values with comma + space
			}
		}
		b.WriteString(_fmtRowClose) // close row
	}

	return b.String()
}

// Slice materializes a copy of the block [r0:r1, c0:c1).
// Implementation:
//   - Stage 1: validate 0 ≤ r0 < r1 ≤ r and 0 ≤ c0 < c1 ≤ c; else ErrBadShape.
//   - Stage 2: copy row segments with one copy() per row.
//
// Behavior highlights:
//   - The result never aliases m; truncation of factors relies on that.
//
// Complexity:
//   - Time O((r1-r0)*(c1-c0)), Space the same.
//
// AI-Hints:
//   - Slice(0, r, 0, k) keeps the first k columns; Slice(0, k, 0, c) the first k rows.
func (m *Dense) Slice(r0, r1, c0, c1 int) (*Dense, error) {
	if r0 < 0 || c0 < 0 || r1 <= r0 || c1 <= c0 || r1 > m.r || c1 > m.c {
		return nil, fmt.Errorf("Dense.%s(%d,%d,%d,%d): %w", ctxSlice, r0, r1, c0, c1, ErrBadShape)
	}
	rows, cols := r1-r0, c1-c0
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	res.validateNaNInf = m.validateNaNInf
	var i, src int
	for i = 0; i < rows; i++ {
		src = (r0+i)*m.c + c0
		copy(res.data[i*cols:(i+1)*cols], m.data[src:src+cols])
	}

	return res, nil
}

// Apply replaces every element with f(i, j, v) in row-major order.
// Errors:
//   - ErrNaNInf (wrapped with coordinates) when the policy is on and f returns a
//     non-finite value; elements before the failing one are already updated.
//
// Complexity:
//   - Time O(r*c), Space O(1).
func (m *Dense) Apply(f func(i, j int, v float64) float64) error {
	var i, j, off int
	var v float64
	for i = 0; i < m.r; i++ {
		for j = 0; j < m.c; j++ {
			off = i*m.c + j
			v = f(i, j, m.data[off])
			if m.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
				return denseErrorf(ctxApply, i, j, ErrNaNInf)
			}
			m.data[off] = v
		}
	}

	return nil
}
