// SPDX-License-Identifier: MIT

package rsvd

import (
	"fmt"

	"github.com/katalvlaran/lowrank/linalg"
	"github.com/katalvlaran/lowrank/matrix"
)

// Factors is a truncated decomposition M ≈ U·diag(S)·VT.
//
// U is m×k with orthonormal columns, S has length k and is non-negative and
// non-increasing, VT is k×n with orthonormal rows.
type Factors struct {
	U  *matrix.Dense
	S  []float64
	VT *matrix.Dense
}

// NewFactors assembles a Factors after checking that the shapes agree.
func NewFactors(u *matrix.Dense, s []float64, vt *matrix.Dense) (*Factors, error) {
	if u == nil || vt == nil {
		return nil, invalidf("factors: nil matrix")
	}
	k := len(s)
	if k == 0 || u.Cols() != k || vt.Rows() != k {
		return nil, invalidf("factors: U %dx%d, S %d, VT %dx%d do not agree",
			u.Rows(), u.Cols(), k, vt.Rows(), vt.Cols())
	}

	return &Factors{U: u, S: s, VT: vt}, nil
}

// Rank returns k.
func (f *Factors) Rank() int { return len(f.S) }

// Dims returns the shape m×n of the approximated matrix.
func (f *Factors) Dims() (rows, cols int) { return f.U.Rows(), f.VT.Cols() }

// ParameterCount returns k·(m+n), the number of stored values under the
// convention of SelectRank (S folded into one of the factors).
func (f *Factors) ParameterCount() int {
	m, n := f.Dims()
	return f.Rank() * (m + n)
}

// Reconstruct returns U·diag(S)·VT as a new m×n matrix.
func (f *Factors) Reconstruct() (*matrix.Dense, error) {
	us, err := matrix.ScaleCols(f.U, f.S)
	if err != nil {
		return nil, fmt.Errorf("rsvd: Reconstruct: %w", err)
	}
	r, err := matrix.Mul(us, f.VT)
	if err != nil {
		return nil, fmt.Errorf("rsvd: Reconstruct: %w", err)
	}

	return r, nil
}

// residual returns m − U·diag(S)·VT.
func (f *Factors) residual(m matrix.Matrix) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, invalidf("residual: %v", err)
	}
	rows, cols := f.Dims()
	if m.Rows() != rows || m.Cols() != cols {
		return nil, invalidf("residual: matrix is %dx%d, factors are %dx%d", m.Rows(), m.Cols(), rows, cols)
	}
	r, err := f.Reconstruct()
	if err != nil {
		return nil, err
	}

	return matrix.Sub(m, r)
}

// SpectralError returns ‖m − U·diag(S)·VT‖₂, the largest singular value of
// the residual, computed with the default backend.
func (f *Factors) SpectralError(m matrix.Matrix) (float64, error) {
	return f.SpectralErrorWith(linalg.Default(), m)
}

// SpectralErrorWith is SpectralError on an explicit backend.
func (f *Factors) SpectralErrorWith(be linalg.Backend, m matrix.Matrix) (float64, error) {
	res, err := f.residual(m)
	if err != nil {
		return 0, err
	}
	_, s, _, err := be.SVD(res)
	if err != nil {
		return 0, fmt.Errorf("%w: spectral norm: %w", ErrNumericalFailure, err)
	}

	return s[0], nil
}

// RelativeError returns ‖m − U·diag(S)·VT‖_F / ‖m‖_F, or the absolute
// Frobenius error when m is zero.
func (f *Factors) RelativeError(m matrix.Matrix) (float64, error) {
	res, err := f.residual(m)
	if err != nil {
		return 0, err
	}
	num, err := matrix.FrobeniusNorm(res)
	if err != nil {
		return 0, err
	}
	den, err := matrix.FrobeniusNorm(m)
	if err != nil {
		return 0, err
	}
	if den == 0 {
		return num, nil
	}

	return num / den, nil
}
