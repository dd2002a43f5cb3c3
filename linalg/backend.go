// SPDX-License-Identifier: MIT

// Package linalg: the capability interface the decomposer orchestrates.
package linalg

import (
	"errors"

	"github.com/katalvlaran/lowrank/matrix"
)

var (
	// ErrNoConvergence is returned when a factorization reports failure.
	ErrNoConvergence = errors.New("linalg: factorization did not converge")

	// ErrNonFinite is returned when a primitive produced NaN or ±Inf.
	ErrNonFinite = errors.New("linalg: non-finite values produced")
)

// Backend is the minimal set of dense primitives a randomized decomposition
// needs. Implementations must not mutate their inputs and must be safe for
// concurrent use by independent calls.
type Backend interface {
	// Name identifies the backend in logs and configuration.
	Name() string

	// Mul returns a·b.
	Mul(a, b *matrix.Dense) (*matrix.Dense, error)

	// MulTransA returns aᵀ·b.
	MulTransA(a, b *matrix.Dense) (*matrix.Dense, error)

	// Orthonormalize returns the thin orthonormal factor Q (r×c) of a tall
	// r×c matrix. Rank-deficient input still yields orthonormal columns.
	Orthonormalize(a *matrix.Dense) (*matrix.Dense, error)

	// LowerFactor returns the permuted lower factor P·L (r×c) of the
	// partially pivoted LU factorization of a tall r×c matrix.
	LowerFactor(a *matrix.Dense) (*matrix.Dense, error)

	// SVD returns the thin decomposition a = u·diag(s)·vt with s
	// non-negative and non-increasing.
	SVD(a *matrix.Dense) (u *matrix.Dense, s []float64, vt *matrix.Dense, err error)
}

// Default returns the backend used when the caller does not choose one.
func Default() Backend { return Gonum{} }

// ByName resolves a backend from its Name. The empty string selects Default.
func ByName(name string) (Backend, bool) {
	switch name {
	case "", NameGonum:
		return Gonum{}, true
	case NameNative:
		return Native{}, true
	default:
		return nil, false
	}
}
