// Package lowrank compresses dense matrices into low-rank factors with a
// randomized SVD.
//
// What is inside?
//
//	rsvd/         — rank selection from a compression ratio, Decompose and
//	                DecomposeAdaptive (sketch, power iterations, projected SVD)
//	linalg/       — the Backend the decomposer runs on: Gonum (LAPACK) or
//	                Native (the matrix kernels below)
//	matrix/       — a small dense matrix type with Householder QR, pivoted LU
//	                and one-sided Jacobi SVD
//	internal/     — synthetic spectra, JSON config, zstd factor files
//	cmd/rsvd/     — sweeps compression ratios and reports the errors
//
// Quick start:
//
//	k, _ := rsvd.SelectRank(100, 50, 0.3) // 10
//	f, err := rsvd.Decompose(m, k, rsvd.WithSeed(42))
//	if err != nil { ... }
//	approx, _ := f.Reconstruct()
//
// The power iterations default to QR normalization. LU and unnormalized
// modes exist for benchmark parity and are less accurate on
// ill-conditioned inputs.
//
//	go install github.com/katalvlaran/lowrank/cmd/rsvd@latest
package lowrank
