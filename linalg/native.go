// SPDX-License-Identifier: MIT

package linalg

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lowrank/matrix"
)

// Native implements Backend with the pure-Go kernels of package matrix.
// It is deterministic and single-threaded. SVDOptions tune the Jacobi SVD
// (tolerance and sweep budget); the zero value uses matrix defaults.
type Native struct {
	SVDOptions []matrix.Option
}

var _ Backend = Native{}

// Name implements Backend.
func (Native) Name() string { return NameNative }

// Mul implements Backend.
func (Native) Mul(a, b *matrix.Dense) (*matrix.Dense, error) {
	c, err := matrix.Mul(a, b)
	if err != nil {
		return nil, fmt.Errorf("native: %w", err)
	}
	if err = checkFinite(c.RawData()); err != nil {
		return nil, fmt.Errorf("native: Mul: %w", err)
	}

	return c, nil
}

// MulTransA implements Backend.
func (Native) MulTransA(a, b *matrix.Dense) (*matrix.Dense, error) {
	c, err := matrix.MulTransA(a, b)
	if err != nil {
		return nil, fmt.Errorf("native: %w", err)
	}
	if err = checkFinite(c.RawData()); err != nil {
		return nil, fmt.Errorf("native: MulTransA: %w", err)
	}

	return c, nil
}

// Orthonormalize implements Backend with Householder QR.
func (Native) Orthonormalize(a *matrix.Dense) (*matrix.Dense, error) {
	q, _, err := matrix.QR(a)
	if err != nil {
		return nil, fmt.Errorf("native: %w", err)
	}
	if err = checkFinite(q.RawData()); err != nil {
		return nil, fmt.Errorf("native: Orthonormalize: %w", err)
	}

	return q, nil
}

// LowerFactor implements Backend with partially pivoted LU.
func (Native) LowerFactor(a *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateTall(a); err != nil {
		return nil, fmt.Errorf("native: LowerFactor: %w", err)
	}
	pl, _, err := matrix.LU(a)
	if err != nil {
		return nil, fmt.Errorf("native: %w", err)
	}
	if err = checkFinite(pl.RawData()); err != nil {
		return nil, fmt.Errorf("native: LowerFactor: %w", err)
	}

	return pl, nil
}

// SVD implements Backend with one-sided Jacobi.
func (n Native) SVD(a *matrix.Dense) (*matrix.Dense, []float64, *matrix.Dense, error) {
	u, s, vt, err := matrix.SVD(a, n.SVDOptions...)
	if errors.Is(err, matrix.ErrNoConvergence) {
		return nil, nil, nil, fmt.Errorf("native: %w: %w", ErrNoConvergence, err)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("native: %w", err)
	}
	if err = checkFinite(s); err != nil {
		return nil, nil, nil, fmt.Errorf("native: SVD: %w", err)
	}

	return u, s, vt, nil
}
