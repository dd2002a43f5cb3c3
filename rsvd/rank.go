// SPDX-License-Identifier: MIT

package rsvd

import "math"

// SelectRank converts a compression ratio into a target rank for an m×n
// matrix. A rank-k factorization stores k·(m+n) values against m·n for the
// dense matrix, so the rank with the same parameter budget as ratio·m·n is
// round(m·n·ratio/(m+n)), clamped to [1, min(m,n)].
//
// A ratio of exactly 1 asks for full dense equivalence and returns min(m,n).
//
// Errors:
//   - ErrInvalidArgument if m < 1, n < 1 or ratio ∉ (0, 1] (including NaN).
//
// Complexity: O(1).
func SelectRank(m, n int, ratio float64) (int, error) {
	if m < 1 || n < 1 {
		return 0, invalidf("dimensions must be >= 1, got %dx%d", m, n)
	}
	if !(ratio > 0 && ratio <= 1) {
		return 0, invalidf("ratio must be in (0, 1], got %v", ratio)
	}
	full := min(m, n)
	if ratio == 1 {
		return full, nil
	}

	rank := int(math.Round(float64(m) * float64(n) * ratio / float64(m+n)))

	return max(1, min(rank, full)), nil
}

// ParametersRetained is the fraction of the m·n dense parameters a rank-k
// factorization stores: k·(m+n)/(m·n). Values above 1 mean the factors are
// larger than the matrix.
//
// Errors:
//   - ErrInvalidArgument if m < 1, n < 1 or rank ∉ [1, min(m,n)].
func ParametersRetained(m, n, rank int) (float64, error) {
	if m < 1 || n < 1 {
		return 0, invalidf("dimensions must be >= 1, got %dx%d", m, n)
	}
	if rank < 1 || rank > min(m, n) {
		return 0, invalidf("rank %d outside [1, %d]", rank, min(m, n))
	}

	return float64(rank) * float64(m+n) / (float64(m) * float64(n)), nil
}
