// SPDX-License-Identifier: MIT
package rsvd_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lowrank/internal/synth"
	"github.com/katalvlaran/lowrank/linalg"
	"github.com/katalvlaran/lowrank/matrix"
	"github.com/katalvlaran/lowrank/rsvd"
)

// orthoTol is the orthonormality tolerance for UᵀU and VT·VTᵀ.
const orthoTol = 1e-6

var backends = []linalg.Backend{linalg.Gonum{}, linalg.Native{}}

// gaussianMatrix returns an m×n matrix of N(0,1) entries.
func gaussianMatrix(t testing.TB, m, n int, seed uint64) *matrix.Dense {
	t.Helper()
	a, err := synth.Gaussian(m, n, seed)
	require.NoError(t, err)
	return a
}

// decayingMatrix returns an m×n matrix with singular values decaying
// geometrically from 1 to 1e-6, together with those values.
func decayingMatrix(t testing.TB, m, n int, seed uint64) (*matrix.Dense, []float64) {
	t.Helper()
	sigma, err := synth.Geometric(min(m, n), 1, 1e-6)
	require.NoError(t, err)
	a, err := synth.WithSpectrum(m, n, sigma, seed)
	require.NoError(t, err)
	return a, sigma
}

func zeroMatrix(t testing.TB, m, n int) *matrix.Dense {
	t.Helper()
	a, err := matrix.NewDense(m, n)
	require.NoError(t, err)
	return a
}

// requireValidFactors checks shapes, ordering and orthonormality.
func requireValidFactors(t *testing.T, f *rsvd.Factors, m, n, rank int) {
	t.Helper()
	require.Equal(t, m, f.U.Rows())
	require.Equal(t, rank, f.U.Cols())
	require.Len(t, f.S, rank)
	require.Equal(t, rank, f.VT.Rows())
	require.Equal(t, n, f.VT.Cols())

	for i, v := range f.S {
		require.GreaterOrEqual(t, v, 0.0, "S[%d]", i)
		if i > 0 {
			require.LessOrEqual(t, v, f.S[i-1], "S[%d] > S[%d]", i, i-1)
		}
	}

	utu, err := matrix.MulTransA(f.U, f.U)
	require.NoError(t, err)
	requireIdentity(t, utu, orthoTol, "UᵀU")

	v, err := matrix.Transpose(f.VT)
	require.NoError(t, err)
	vtv, err := matrix.MulTransA(v, v)
	require.NoError(t, err)
	requireIdentity(t, vtv, orthoTol, "VT·VTᵀ")
}

func requireIdentity(t *testing.T, m *matrix.Dense, atol float64, what string) {
	t.Helper()
	r, c := m.Shape()
	require.Equal(t, r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			got, _ := m.At(i, j)
			require.InDelta(t, want, got, atol, "%s[%d,%d]", what, i, j)
		}
	}
}

func spectralError(t *testing.T, f *rsvd.Factors, a *matrix.Dense) float64 {
	t.Helper()
	e, err := f.SpectralError(a)
	require.NoError(t, err)
	require.False(t, math.IsNaN(e))
	return e
}

// nanSource is a Source that only yields NaN.
type nanSource struct{}

func (nanSource) NormFloat64() float64 { return math.NaN() }

// faultyBackend delegates to Gonum and fails the n-th call of one primitive.
type faultyBackend struct {
	linalg.Gonum
	op    string
	failN int
	calls int
	err   error
}

func (b *faultyBackend) hit(op string) error {
	if op != b.op {
		return nil
	}
	b.calls++
	if b.calls == b.failN {
		return b.err
	}
	return nil
}

func (b *faultyBackend) Mul(x, y *matrix.Dense) (*matrix.Dense, error) {
	if err := b.hit("Mul"); err != nil {
		return nil, err
	}
	return b.Gonum.Mul(x, y)
}

func (b *faultyBackend) Orthonormalize(x *matrix.Dense) (*matrix.Dense, error) {
	if err := b.hit("Orthonormalize"); err != nil {
		return nil, err
	}
	return b.Gonum.Orthonormalize(x)
}

func (b *faultyBackend) SVD(x *matrix.Dense) (*matrix.Dense, []float64, *matrix.Dense, error) {
	if err := b.hit("SVD"); err != nil {
		return nil, nil, nil, err
	}
	return b.Gonum.SVD(x)
}
