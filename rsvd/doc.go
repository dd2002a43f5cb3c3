// Package rsvd computes truncated randomized singular value decompositions
// of dense matrices, the building block for compressing large weight
// matrices into low-rank factors.
//
// The package provides:
//
//   - SelectRank: derives the rank whose factors use the same number of
//     parameters as a fraction `ratio` of the dense matrix.
//   - Decompose: randomized range finding (Gaussian sketch, power
//     iteration, orthonormal basis) followed by an exact SVD of the small
//     projected problem. Returns Factors truncated to the requested rank.
//   - DecomposeAdaptive: SelectRank followed by Decompose.
//   - Factors: Reconstruct, SpectralError, RelativeError, ParameterCount.
//
// Tuning follows the usual defaults: 10 oversamples, 2 power iterations,
// QR normalization. The LU and unnormalized power-iteration modes are
// provided for parity with existing benchmarks and are discouraged.
//
// Dense primitives are delegated to a linalg.Backend (gonum by default), so
// this package contains orchestration only. Each call owns its random
// generator; seeded calls are reproducible on a given backend.
//
// Example:
//
//	f, err := rsvd.Decompose(m, 32, rsvd.WithSeed(42))
//	if err != nil {
//		return err
//	}
//	approx, _ := f.Reconstruct()
package rsvd
