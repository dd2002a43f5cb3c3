// SPDX-License-Identifier: MIT
// Package matrix: thin factorizations for rectangular matrices.
//
// Purpose:
//   - QR  : Householder reflections, returns the thin orthonormal factor Q (r×c) and R (c×c).
//   - LU  : Gaussian elimination with partial pivoting, returns the permuted lower factor P·L and U.
//   - SVD : one-sided (Hestenes) Jacobi, returns thin U, singular values (descending) and Vᵀ.
//
// Determinism & Policy:
//   - Fixed loop orders; no randomness; identical inputs give bit-identical outputs.
//   - Zero or rank-deficient inputs are legal: QR skips zero columns, LU skips zero pivots,
//     SVD reports zero singular values and completes the singular vectors to an orthonormal set.
//
// AI-Hints:
//   - All three kernels are pure Go and single-threaded; for large problems prefer a BLAS/LAPACK
//     backed implementation and keep these as the reference path.

package matrix

import (
	"math"
	"sort"
)

// completionThreshold is the minimum residual norm a candidate basis vector must keep
// after orthogonalization to be accepted during orthonormal completion.
const completionThreshold = 1e-8

// QR computes the thin Householder factorization A = Q·R of a tall matrix.
// Implementation:
//   - Stage 1: ValidateTall(m); clone A into a working buffer W.
//   - Stage 2: For k=0..c-1 build reflector H_k = I − τ·v·vᵀ (v[k] = 1) zeroing W[k+1:,k];
//     apply to W[:,k:]. The column norm is computed with scaling, so tiny or huge
//     entries neither underflow nor overflow.
//   - Stage 3: R = upper triangle of W[:c,:c]; Q = H_0·…·H_{c−1}·E where E holds the first c
//     columns of the identity (reflectors applied in reverse order).
//
// Behavior highlights:
//   - Zero columns leave H_k = I; Q still has orthonormal columns.
//   - No sign canonicalization: diag(R) may be negative.
//
// Inputs:
//   - m: r×c Matrix with r ≥ c.
//
// Returns:
//   - *Dense: Q (r×c) with QᵀQ = I.
//   - *Dense: R (c×c) upper triangular.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (wide input).
//
// Complexity:
//   - Time O(r*c²), Space O(r*c).
func QR(m Matrix) (*Dense, *Dense, error) {
	if err := ValidateTall(m); err != nil {
		return nil, nil, matrixErrorf(opQR, err)
	}
	src, err := AsDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opQR, err)
	}
	w := src.clone()
	rows, cols := w.r, w.c

	// Reflector storage: vs[k] holds v (indices k..rows-1 used); taus[k]==0 means identity.
	vs := make([][]float64, cols)
	taus := make([]float64, cols)

	var (
		i, j, k           int
		norm, alpha, head float64
		tau, sum          float64
	)
	for k = 0; k < cols; k++ {
		v := make([]float64, rows)
		for i = k; i < rows; i++ {
			v[i] = w.data[i*cols+k]
		}
		norm = norm2(v[k:])
		if norm == NormZero {
			continue // skip zero column
		}
		// Reflector scaled to v[k] = 1: entries stay within [-1, 1] and
		// tau within [1, 2] whatever the magnitude of the column.
		alpha = -math.Copysign(norm, v[k])
		head = v[k] - alpha
		tau = (alpha - v[k]) / alpha
		v[k] = 1
		for i = k + 1; i < rows; i++ {
			v[i] /= head
		}

		// Apply H_k to W[:, k:]
		for j = k; j < cols; j++ {
			sum = ZeroSum
			for i = k; i < rows; i++ {
				sum += v[i] * w.data[i*cols+j]
			}
			for i = k; i < rows; i++ {
				w.data[i*cols+j] -= tau * v[i] * sum
			}
		}
		vs[k] = v
		taus[k] = tau
	}

	// R = upper triangle of W[:cols,:cols]
	r, err := NewDense(cols, cols)
	if err != nil {
		return nil, nil, matrixErrorf(opQR, err)
	}
	for i = 0; i < cols; i++ {
		for j = i; j < cols; j++ {
			r.data[i*cols+j] = w.data[i*cols+j]
		}
	}

	// Thin Q: apply H_{c-1}, …, H_0 to E.
	q, err := NewDense(rows, cols)
	if err != nil {
		return nil, nil, matrixErrorf(opQR, err)
	}
	for i = 0; i < cols; i++ {
		q.data[i*cols+i] = 1.0
	}
	for k = cols - 1; k >= 0; k-- {
		if taus[k] == 0 {
			continue
		}
		v := vs[k]
		for j = 0; j < cols; j++ {
			sum = ZeroSum
			for i = k; i < rows; i++ {
				sum += v[i] * q.data[i*cols+j]
			}
			if sum == 0 {
				continue
			}
			for i = k; i < rows; i++ {
				q.data[i*cols+j] -= taus[k] * v[i] * sum
			}
		}
	}

	return q, r, nil
}

// LU computes A = P·L·U with partial (row) pivoting and returns the permuted
// lower factor P·L together with U.
// Implementation:
//   - Stage 1: ValidateNotNil(m); clone A; perm = identity.
//   - Stage 2: For k=0..min(r,c)-1 pick the largest |W[i,k]| (i ≥ k), swap rows,
//     store multipliers below the pivot and update the trailing block.
//   - Stage 3: Scatter L's rows back through perm to form P·L; extract U.
//
// Behavior highlights:
//   - A zero pivot column is skipped (its multipliers are already zero), so singular or
//     all-zero inputs factor without error; U then carries zeros on its diagonal.
//   - P·L has full column rank by construction (it is a row permutation of a unit
//     lower-trapezoidal matrix).
//
// Inputs:
//   - m: r×c Matrix.
//
// Returns:
//   - *Dense: P·L (r×p), p = min(r,c).
//   - *Dense: U (p×c) upper trapezoidal.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c*p), Space O(r*c).
//
// Notes:
//   - Used as the LU power-iteration normalizer: only P·L is consumed there.
func LU(m Matrix) (*Dense, *Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	src, err := AsDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	w := src.clone()
	rows, cols := w.r, w.c
	p := min(rows, cols)

	perm := make([]int, rows)
	for i := range perm {
		perm[i] = i
	}

	var (
		i, j, k, piv int
		best, pivot  float64
		mult         float64
	)
	for k = 0; k < p; k++ {
		// Pivot search: largest magnitude in column k at or below the diagonal.
		piv, best = k, math.Abs(w.data[k*cols+k])
		for i = k + 1; i < rows; i++ {
			if a := math.Abs(w.data[i*cols+k]); a > best {
				piv, best = i, a
			}
		}
		if piv != k {
			swapRows(w, k, piv)
			perm[k], perm[piv] = perm[piv], perm[k]
		}
		pivot = w.data[k*cols+k]
		if pivot == 0 {
			continue // whole column below is zero: nothing to eliminate
		}
		for i = k + 1; i < rows; i++ {
			mult = w.data[i*cols+k] / pivot
			w.data[i*cols+k] = mult
			if mult == 0 {
				continue
			}
			for j = k + 1; j < cols; j++ {
				w.data[i*cols+j] -= mult * w.data[k*cols+j]
			}
		}
	}

	pl, err := NewDense(rows, p)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	u, err := NewDense(p, cols)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	var dst int
	for i = 0; i < rows; i++ {
		dst = perm[i] * p // row i of L lands on row perm[i] of P·L
		for j = 0; j < p && j <= i; j++ {
			if j == i {
				pl.data[dst+j] = 1.0
			} else {
				pl.data[dst+j] = w.data[i*cols+j]
			}
		}
	}
	for i = 0; i < p; i++ {
		for j = i; j < cols; j++ {
			u.data[i*cols+j] = w.data[i*cols+j]
		}
	}

	return pl, u, nil
}

// swapRows exchanges rows a and b of d in place.
func swapRows(d *Dense, a, b int) {
	ra := d.data[a*d.c : (a+1)*d.c]
	rb := d.data[b*d.c : (b+1)*d.c]
	for j := range ra {
		ra[j], rb[j] = rb[j], ra[j]
	}
}

// SVD computes the thin singular value decomposition A = U·diag(s)·Vᵀ.
// Implementation:
//   - Stage 1: ValidateNotNil + ValidateFinite. Orient the problem as tall (transpose wide inputs).
//   - Stage 2: One-sided Jacobi: rotate column pairs of the working copy until every pair is
//     orthogonal within eps (relative), accumulating the rotations into V.
//   - Stage 3: s_j = ‖a_j‖, u_j = a_j / s_j; sort descending; complete the left vectors of
//     zero singular values to an orthonormal set.
//
// Behavior highlights:
//   - Singular values are non-negative and non-increasing.
//   - Both U and Vᵀ always have orthonormal columns/rows, including for rank-deficient
//     and all-zero inputs.
//
// Inputs:
//   - m   : r×c Matrix.
//   - opts: WithEpsilon (orthogonality tolerance), WithMaxSweeps (sweep budget).
//
// Returns:
//   - *Dense  : U (r×p), p = min(r,c).
//   - []float64: s (length p), descending.
//   - *Dense  : Vᵀ (p×c).
//
// Errors:
//   - ErrNilMatrix, ErrNaNInf, ErrNoConvergence.
//
// Complexity:
//   - Time O(sweeps·p²·max(r,c)), Space O(r*c + p²).
//
// AI-Hints:
//   - Jacobi is accurate for small singular values; it is the right tool for the small
//     projected problems of a randomized decomposition, not for large dense inputs.
func SVD(m Matrix, opts ...Option) (*Dense, []float64, *Dense, error) {
	if err := ValidateFinite(m); err != nil {
		return nil, nil, nil, matrixErrorf(opSVD, err)
	}
	o := gatherOptions(opts...)
	src, err := AsDense(m)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opSVD, err)
	}

	if src.r >= src.c {
		w, s, v, err := jacobiTall(src.clone(), o)
		if err != nil {
			return nil, nil, nil, matrixErrorf(opSVD, err)
		}
		vt, err := Transpose(v)
		if err != nil {
			return nil, nil, nil, matrixErrorf(opSVD, err)
		}
		return w, s, vt, nil
	}

	// Wide: Aᵀ = W·Σ·Zᵀ ⇒ A = Z·Σ·Wᵀ.
	at, err := Transpose(src)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opSVD, err)
	}
	w, s, z, err := jacobiTall(at, o)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opSVD, err)
	}
	vt, err := Transpose(w)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opSVD, err)
	}

	return z, s, vt, nil
}

// jacobiTall runs one-sided Jacobi on a tall working matrix a (r×c, r ≥ c), which it
// overwrites. It returns U (r×c), s (c) and V (c×c), sorted by descending s.
func jacobiTall(a *Dense, o Options) (*Dense, []float64, *Dense, error) {
	rows, cols := a.r, a.c
	v, err := NewDense(cols, cols)
	if err != nil {
		return nil, nil, nil, err
	}
	for i := 0; i < cols; i++ {
		v.data[i*cols+i] = 1.0
	}

	converged := cols < 2
	for sweep := 0; sweep < o.maxSweeps && !converged; sweep++ {
		converged = true
		for i := 0; i < cols-1; i++ {
			for j := i + 1; j < cols; j++ {
				ni, nj, cos := pairStats(a, i, j)
				if ni == 0 || nj == 0 || math.Abs(cos) <= o.eps {
					continue
				}
				converged = false
				c, s := jacobiRotation(ni/nj, nj/ni, cos)
				rotateCols(a, i, j, c, s)
				rotateCols(v, i, j, c, s)
			}
		}
	}
	if !converged {
		return nil, nil, nil, ErrNoConvergence
	}

	// Singular values are the column norms; normalize non-zero columns.
	sigma := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		for k := 0; k < rows; k++ {
			col[k] = a.data[k*cols+j]
		}
		sigma[j] = norm2(col)
		if sigma[j] > 0 {
			for k := 0; k < rows; k++ {
				a.data[k*cols+j] /= sigma[j]
			}
		}
	}

	// Sort descending (stable on ties for determinism).
	order := make([]int, cols)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return sigma[order[x]] > sigma[order[y]] })

	u, err := NewDense(rows, cols)
	if err != nil {
		return nil, nil, nil, err
	}
	vs, err := NewDense(cols, cols)
	if err != nil {
		return nil, nil, nil, err
	}
	s := make([]float64, cols)
	for dst, from := range order {
		s[dst] = sigma[from]
		for k := 0; k < rows; k++ {
			u.data[k*cols+dst] = a.data[k*cols+from]
		}
		for k := 0; k < cols; k++ {
			vs.data[k*cols+dst] = v.data[k*cols+from]
		}
	}

	completeOrthonormal(u, s)

	return u, s, vs, nil
}

// jacobiRotation returns (c, s) of the plane rotation that orthogonalizes a column
// pair. Only the ratios alpha/beta and gamma²/(alpha·beta) matter, so the caller
// passes the norm ratios ‖aᵢ‖/‖aⱼ‖, ‖aⱼ‖/‖aᵢ‖ and the cosine of the pair instead
// of squared norms and the raw inner product.
func jacobiRotation(alpha, beta, gamma float64) (float64, float64) {
	zeta := (beta - alpha) / (2 * gamma)
	var t float64
	if zeta >= 0 {
		t = 1 / (zeta + math.Sqrt(1+zeta*zeta))
	} else {
		t = -1 / (-zeta + math.Sqrt(1+zeta*zeta))
	}
	c := 1 / math.Sqrt(1+t*t)

	return c, c * t
}

// pairStats returns the norms of columns i and j of a and the cosine of the
// angle between them. Entries are divided by the column norms before the
// inner product, so no intermediate squares underflow or overflow.
func pairStats(a *Dense, i, j int) (ni, nj, cos float64) {
	ni, nj = colNorm(a, i), colNorm(a, j)
	if ni == 0 || nj == 0 {
		return ni, nj, 0
	}
	cos = ZeroSum
	for k := 0; k < a.r; k++ {
		cos += (a.data[k*a.c+i] / ni) * (a.data[k*a.c+j] / nj)
	}

	return ni, nj, cos
}

// colNorm is norm2 over column j of d.
func colNorm(d *Dense, j int) float64 {
	scale, ssq := NormZero, 1.0
	for k := 0; k < d.r; k++ {
		v := d.data[k*d.c+j]
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

// rotateCols applies the rotation (c, s) to columns i and j of d in place.
func rotateCols(d *Dense, i, j int, c, s float64) {
	var t1, t2 float64
	for k := 0; k < d.r; k++ {
		t1 = d.data[k*d.c+i]
		t2 = d.data[k*d.c+j]
		d.data[k*d.c+i] = c*t1 - s*t2
		d.data[k*d.c+j] = s*t1 + c*t2
	}
}

// completeOrthonormal replaces the columns of u whose singular value is zero with unit
// vectors orthogonal to every other column. Candidates are standard basis vectors
// e_0, e_1, … orthogonalized twice (modified Gram–Schmidt), so the result is deterministic.
func completeOrthonormal(u *Dense, s []float64) {
	rows, cols := u.r, u.c
	cand := make([]float64, rows)
	next := 0
	for j := 0; j < cols; j++ {
		if s[j] > 0 {
			continue
		}
		for ; next < rows; next++ {
			for k := range cand {
				cand[k] = 0
			}
			cand[next] = 1
			for pass := 0; pass < 2; pass++ {
				for q := 0; q < cols; q++ {
					if q == j || (s[q] == 0 && q > j) {
						continue // skip self and still-empty slots
					}
					dot := ZeroSum
					for k := 0; k < rows; k++ {
						dot += cand[k] * u.data[k*cols+q]
					}
					for k := 0; k < rows; k++ {
						cand[k] -= dot * u.data[k*cols+q]
					}
				}
			}
			if n := norm2(cand); n > completionThreshold {
				for k := 0; k < rows; k++ {
					u.data[k*cols+j] = cand[k] / n
				}
				next++
				break
			}
		}
	}
}
