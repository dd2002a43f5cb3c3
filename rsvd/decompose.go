// SPDX-License-Identifier: MIT

package rsvd

import (
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/lowrank/linalg"
	"github.com/katalvlaran/lowrank/matrix"
)

// Decompose computes a rank-k randomized SVD M ≈ U·diag(S)·Vᵀ.
//
// Stage A (range finding): with k' = min(k+p, min(m,n)), draw Ω (n×k')
// standard-normal, form Y = M·Ω and run q power-iteration rounds in the
// configured Normalizer mode, then orthonormalize Y into Q (m×k').
// Stage B: B = Qᵀ·M (k'×n), thin SVD B = Ũ·S·Vᵀ, U = Q·Ũ, and truncate
// everything to k.
//
// Zero or rank-deficient inputs are valid and produce zero singular values.
// Inputs are never mutated. Each call uses its own generator, so concurrent
// calls are independent unless they share a Source via WithSource.
//
// Errors:
//   - ErrInvalidArgument: nil/empty/non-finite M, rank ∉ [1, min(m,n)],
//     or an invalid option. Nothing is computed.
//   - ErrNumericalFailure (as *StageError): a primitive failed or produced
//     NaN/Inf.
func Decompose(m matrix.Matrix, rank int, opts ...Option) (*Factors, error) {
	o := gatherOptions(opts...)
	if err := o.validate(); err != nil {
		return nil, err
	}
	a, err := checkInput(m)
	if err != nil {
		return nil, err
	}
	rows, cols := a.Shape()
	if rank < 1 || rank > min(rows, cols) {
		return nil, invalidf("rank %d outside [1, %d] for a %dx%d matrix", rank, min(rows, cols), rows, cols)
	}

	return run(a, rank, o)
}

// DecomposeAdaptive selects the rank from a compression ratio with
// SelectRank and then behaves exactly like Decompose.
func DecomposeAdaptive(m matrix.Matrix, ratio float64, opts ...Option) (*Factors, error) {
	o := gatherOptions(opts...)
	if err := o.validate(); err != nil {
		return nil, err
	}
	a, err := checkInput(m)
	if err != nil {
		return nil, err
	}
	rows, cols := a.Shape()
	rank, err := SelectRank(rows, cols, ratio)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("rsvd: rank selected",
		zap.Float64("ratio", ratio), zap.Int("rank", rank))

	return run(a, rank, o)
}

// checkInput validates M and returns it as *Dense without copying when possible.
func checkInput(m matrix.Matrix) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, invalidf("input: %v", err)
	}
	if m.Rows() < 1 || m.Cols() < 1 {
		return nil, invalidf("input must be at least 1x1, got %dx%d", m.Rows(), m.Cols())
	}
	if err := matrix.ValidateFinite(m); err != nil {
		return nil, invalidf("input: %v", err)
	}
	a, err := matrix.AsDense(m)
	if err != nil {
		return nil, invalidf("input: %v", err)
	}

	return a, nil
}

// run executes both stages on validated input.
func run(a *matrix.Dense, rank int, o Options) (*Factors, error) {
	var (
		be          = o.backend
		log         = o.logger
		rows, cols  = a.Shape()
		width       = min(rank+o.oversamples, min(rows, cols))
		start, step = time.Now(), time.Now()
	)
	log.Debug("rsvd: start",
		zap.Int("rows", rows), zap.Int("cols", cols),
		zap.Int("rank", rank), zap.Int("width", width),
		zap.Int("power_iterations", o.powerIters),
		zap.Stringer("normalizer", o.normalizer),
		zap.String("backend", be.Name()))
	done := func(stage Stage, round int) {
		log.Debug("rsvd: stage",
			zap.String("stage", string(stage)), zap.Int("round", round),
			zap.Duration("elapsed", time.Since(step)))
		step = time.Now()
	}

	// Stage A: range finding.
	omega, err := gaussian(cols, width, o.sketchSource())
	if err != nil {
		return nil, stageFailure(StageSketch, 0, err)
	}
	done(StageSketch, 0)

	y, err := be.Mul(a, omega)
	if err != nil {
		return nil, stageFailure(StageRange, 0, err)
	}
	done(StageRange, 0)

	for round := 1; round <= o.powerIters; round++ {
		if y, err = powerStep(be, a, y, o.normalizer); err != nil {
			return nil, stageFailure(StagePowerIteration, round, err)
		}
		done(StagePowerIteration, round)
	}

	q, err := be.Orthonormalize(y)
	if err != nil {
		return nil, stageFailure(StageBasis, 0, err)
	}
	done(StageBasis, 0)

	// Stage B: exact SVD of the projected k'×n problem.
	b, err := be.MulTransA(q, a)
	if err != nil {
		return nil, stageFailure(StageProject, 0, err)
	}
	done(StageProject, 0)

	ut, s, vt, err := be.SVD(b)
	if err != nil {
		return nil, stageFailure(StageSVD, 0, err)
	}
	done(StageSVD, 0)

	u, err := be.Mul(q, ut)
	if err != nil {
		return nil, stageFailure(StageLift, 0, err)
	}
	done(StageLift, 0)

	f, err := truncate(u, s, vt, rank)
	if err != nil {
		return nil, stageFailure(StageLift, 0, err)
	}
	log.Debug("rsvd: done", zap.Duration("elapsed", time.Since(start)))

	return f, nil
}

// powerStep runs one refinement round Y ← M·N(Mᵀ·N(Y)), N being the normalizer.
func powerStep(be linalg.Backend, a, y *matrix.Dense, mode Normalizer) (*matrix.Dense, error) {
	var normalize func(*matrix.Dense) (*matrix.Dense, error)
	switch mode {
	case NormalizerQR:
		normalize = be.Orthonormalize
	case NormalizerLU:
		normalize = be.LowerFactor
	default:
		normalize = func(x *matrix.Dense) (*matrix.Dense, error) { return x, nil }
	}

	y, err := normalize(y)
	if err != nil {
		return nil, err
	}
	z, err := be.MulTransA(a, y)
	if err != nil {
		return nil, err
	}
	if z, err = normalize(z); err != nil {
		return nil, err
	}

	return be.Mul(a, z)
}

// truncate keeps the leading rank columns of U, values of S and rows of Vᵀ.
func truncate(u *matrix.Dense, s []float64, vt *matrix.Dense, rank int) (*Factors, error) {
	if len(s) < rank || u.Cols() < rank || vt.Rows() < rank {
		return nil, matrix.ErrDimensionMismatch
	}
	uk, err := u.Slice(0, u.Rows(), 0, rank)
	if err != nil {
		return nil, err
	}
	vtk, err := vt.Slice(0, rank, 0, vt.Cols())
	if err != nil {
		return nil, err
	}
	sk := make([]float64, rank)
	copy(sk, s)

	return &Factors{U: uk, S: sk, VT: vtk}, nil
}
