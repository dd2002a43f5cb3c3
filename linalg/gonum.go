// SPDX-License-Identifier: MIT

package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lowrank/matrix"
)

// Backend names.
const (
	NameGonum  = "gonum"
	NameNative = "native"
)

// Gonum implements Backend on top of gonum's BLAS/LAPACK. Products run
// through the registered blas64 implementation, which may use several
// threads internally.
type Gonum struct{}

var _ Backend = Gonum{}

// Name implements Backend.
func (Gonum) Name() string { return NameGonum }

// Mul implements Backend.
func (Gonum) Mul(a, b *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return nil, fmt.Errorf("gonum: Mul: %w", err)
	}
	var c mat.Dense
	c.Mul(toMat(a), toMat(b))

	return fromMat(&c, "Mul")
}

// MulTransA implements Backend.
func (Gonum) MulTransA(a, b *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(a); err != nil {
		return nil, fmt.Errorf("gonum: MulTransA: %w", err)
	}
	if err := matrix.ValidateNotNil(b); err != nil {
		return nil, fmt.Errorf("gonum: MulTransA: %w", err)
	}
	if a.Rows() != b.Rows() {
		return nil, fmt.Errorf("gonum: MulTransA: %w", matrix.ErrDimensionMismatch)
	}
	var c mat.Dense
	c.Mul(toMat(a).T(), toMat(b))

	return fromMat(&c, "MulTransA")
}

// Orthonormalize implements Backend with Geqrf followed by Orgqr, which
// forms only the thin r×c factor.
func (Gonum) Orthonormalize(a *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateTall(a); err != nil {
		return nil, fmt.Errorf("gonum: Orthonormalize: %w", err)
	}
	r, c := a.Shape()
	g := blas64.General{Rows: r, Cols: c, Stride: c, Data: append([]float64(nil), a.RawData()...)}
	tau := make([]float64, c)

	work := []float64{0}
	lapack64.Geqrf(g, tau, work, -1)
	work = make([]float64, max(int(work[0]), c))
	lapack64.Geqrf(g, tau, work, len(work))

	work = work[:1]
	lapack64.Orgqr(g, tau, work, -1)
	work = make([]float64, max(int(work[0]), c))
	lapack64.Orgqr(g, tau, work, len(work))

	if err := checkFinite(g.Data); err != nil {
		return nil, fmt.Errorf("gonum: Orthonormalize: %w", err)
	}

	return matrix.NewDenseFrom(r, c, g.Data)
}

// LowerFactor implements Backend with Getrf.
func (Gonum) LowerFactor(a *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateTall(a); err != nil {
		return nil, fmt.Errorf("gonum: LowerFactor: %w", err)
	}
	r, c := a.Shape()
	g := blas64.General{Rows: r, Cols: c, Stride: c, Data: append([]float64(nil), a.RawData()...)}
	ipiv := make([]int, c)
	if ok := lapack64.Getrf(g, ipiv); !ok {
		// Exactly singular U. P·L is still unit lower-trapezoidal up to
		// the row permutation, so it remains a valid basis.
	}

	pl := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c && j <= i; j++ {
			if i == j {
				pl[i*c+j] = 1
			} else {
				pl[i*c+j] = g.Data[i*c+j]
			}
		}
	}
	// A = P·L·U with P = P_0·P_1·…; undo the interchanges in reverse order.
	for i := len(ipiv) - 1; i >= 0; i-- {
		if p := ipiv[i]; p != i {
			ri, rp := pl[i*c:(i+1)*c], pl[p*c:(p+1)*c]
			for j := range ri {
				ri[j], rp[j] = rp[j], ri[j]
			}
		}
	}
	if err := checkFinite(pl); err != nil {
		return nil, fmt.Errorf("gonum: LowerFactor: %w", err)
	}

	return matrix.NewDenseFrom(r, c, pl)
}

// SVD implements Backend with mat.SVD (thin).
func (Gonum) SVD(a *matrix.Dense) (*matrix.Dense, []float64, *matrix.Dense, error) {
	if err := matrix.ValidateFinite(a); err != nil {
		return nil, nil, nil, fmt.Errorf("gonum: SVD: %w", err)
	}
	var svd mat.SVD
	if ok := svd.Factorize(toMat(a), mat.SVDThin); !ok {
		return nil, nil, nil, fmt.Errorf("gonum: SVD: %w", ErrNoConvergence)
	}
	s := svd.Values(nil)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	ud, err := fromMat(&u, "SVD")
	if err != nil {
		return nil, nil, nil, err
	}
	vt, err := fromMat(mat.DenseCopyOf(v.T()), "SVD")
	if err != nil {
		return nil, nil, nil, err
	}
	if err = checkFinite(s); err != nil {
		return nil, nil, nil, fmt.Errorf("gonum: SVD: %w", err)
	}

	return ud, s, vt, nil
}

// toMat shares the Dense backing slice with a gonum matrix (no copy).
func toMat(d *matrix.Dense) *mat.Dense {
	r, c := d.Shape()
	return mat.NewDense(r, c, d.RawData())
}

// fromMat adopts a gonum result, copying only when rows are not contiguous.
func fromMat(m *mat.Dense, op string) (*matrix.Dense, error) {
	raw := m.RawMatrix()
	data := raw.Data
	if raw.Stride != raw.Cols || len(data) != raw.Rows*raw.Cols {
		data = make([]float64, raw.Rows*raw.Cols)
		for i := 0; i < raw.Rows; i++ {
			copy(data[i*raw.Cols:(i+1)*raw.Cols], raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols])
		}
	}
	if err := checkFinite(data); err != nil {
		return nil, fmt.Errorf("gonum: %s: %w", op, err)
	}

	return matrix.NewDenseFrom(raw.Rows, raw.Cols, data)
}

func checkFinite(data []float64) error {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFinite
		}
	}
	return nil
}
