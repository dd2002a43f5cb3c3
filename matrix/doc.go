// Package matrix provides a row-major dense matrix and the pure-Go kernels a
// randomized low-rank decomposition is assembled from.
//
// The matrix package provides:
//
//   - Dense, a bounds-checked float64 matrix sharing its flat backing slice
//     with BLAS-style libraries (NewDenseFrom, RawData).
//   - Products: Mul, MulTransA (Aᵀ·B without forming Aᵀ), Transpose, Sub, ScaleCols.
//   - Thin factorizations for rectangular inputs: Householder QR, partial-pivoting
//     LU (returning P·L), one-sided Jacobi SVD.
//   - Norms and comparisons: FrobeniusNorm, AllClose.
//
// Every kernel validates its inputs first and returns package sentinels
// (ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf, ErrNoConvergence, …) wrapped
// with an operation tag; match them with errors.Is.
//
// Kernels are deterministic and single-threaded. They serve as the reference
// implementation behind linalg.Native; the default gonum backend reuses the
// Dense storage without copying.
package matrix
