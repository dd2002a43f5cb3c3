// SPDX-License-Identifier: MIT

// Package synth builds reproducible dense test matrices with a prescribed
// singular spectrum, M = U·diag(σ)·Vᵀ with Haar-distributed U and V.
package synth

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lowrank/matrix"
)

// ErrSpectrum reports a spectrum that does not fit the requested shape.
var ErrSpectrum = errors.New("synth: invalid spectrum")

const stream = 0x385ab5285169b1ac

// Gaussian returns a rows×cols matrix of i.i.d. N(0,1) entries.
func Gaussian(rows, cols int, seed uint64) (*matrix.Dense, error) {
	if rows < 1 || cols < 1 {
		return nil, matrix.ErrInvalidDimensions
	}
	g := gaussian(rows, cols, rand.New(rand.NewPCG(seed, stream)))
	return matrix.NewDenseFrom(rows, cols, g.RawMatrix().Data)
}

// Geometric returns n values decaying geometrically from first to last.
func Geometric(n int, first, last float64) ([]float64, error) {
	if n < 1 || !(first > 0) || !(last > 0) {
		return nil, fmt.Errorf("%w: n=%d first=%v last=%v", ErrSpectrum, n, first, last)
	}
	s := make([]float64, n)
	if n == 1 {
		s[0] = first
		return s, nil
	}

	return floats.LogSpan(s, first, last), nil
}

// WithSpectrum returns U·diag(sigma)·Vᵀ where U (rows×k) and V (cols×k),
// k = len(sigma), have orthonormal columns drawn from the Haar measure.
// sigma is used as given; its entries are the singular values of the result.
func WithSpectrum(rows, cols int, sigma []float64, seed uint64) (*matrix.Dense, error) {
	k := len(sigma)
	if k < 1 || k > min(rows, cols) {
		return nil, fmt.Errorf("%w: %d values for a %dx%d matrix", ErrSpectrum, k, rows, cols)
	}
	rng := rand.New(rand.NewPCG(seed, stream))
	u := haar(rows, k, rng)
	v := haar(cols, k, rng)

	var us, m mat.Dense
	us.Mul(u, mat.NewDiagDense(k, append([]float64(nil), sigma...)))
	m.Mul(&us, v.T())

	return matrix.NewDenseFrom(rows, cols, m.RawMatrix().Data)
}

func gaussian(rows, cols int, rng *rand.Rand) *mat.Dense {
	z := make([]float64, rows*cols)
	for i := range z {
		z[i] = rng.NormFloat64()
	}
	return mat.NewDense(rows, cols, z)
}

// haar returns the first k columns of a Haar-random orthogonal matrix:
// the Q of a Gaussian matrix with the signs of diag(R) folded in.
// https://arxiv.org/abs/math-ph/0609050
func haar(n, k int, rng *rand.Rand) *mat.Dense {
	var qr mat.QR
	qr.Factorize(gaussian(n, k, rng))

	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)

	signs := make([]float64, k)
	for i := range k {
		if r.At(i, i) < 0 {
			signs[i] = -1
		} else {
			signs[i] = 1
		}
	}
	var out mat.Dense
	out.Mul(q.Slice(0, n, 0, k), mat.NewDiagDense(k, signs))

	return &out
}
