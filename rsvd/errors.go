// SPDX-License-Identifier: MIT
// Package rsvd: error kinds of the rank selector and the decomposer.
//
// Two sentinels classify every failure; match them with errors.Is:
//   - ErrInvalidArgument: rejected before any computation (rank, ratio, options, input).
//   - ErrNumericalFailure: a linear-algebra primitive failed or produced NaN/Inf.
//
// Numerical failures are reported as *StageError so callers can see which
// step broke (and which power-iteration round) and retry with another seed
// or normalizer.

package rsvd

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports an out-of-range rank, ratio, option or a
	// malformed input matrix.
	ErrInvalidArgument = errors.New("rsvd: invalid argument")

	// ErrNumericalFailure reports a primitive that did not converge or
	// produced non-finite values.
	ErrNumericalFailure = errors.New("rsvd: numerical failure")
)

// Stage names one step of the decomposition.
type Stage string

// Decomposition stages, in execution order.
const (
	StageSketch         Stage = "sketch"          // draw Ω
	StageRange          Stage = "range"           // Y = M·Ω
	StagePowerIteration Stage = "power-iteration" // refinement rounds
	StageBasis          Stage = "basis"           // Q = orth(Y)
	StageProject        Stage = "project"         // B = Qᵀ·M
	StageSVD            Stage = "svd"             // B = Ũ·S·Vᵀ
	StageLift           Stage = "lift"            // U = Q·Ũ
)

// StageError is a numerical failure attributed to a stage. Round is the
// 1-based power-iteration round for StagePowerIteration and 0 otherwise.
type StageError struct {
	Stage Stage
	Round int
	Err   error
}

// Error implements error.
func (e *StageError) Error() string {
	if e.Round > 0 {
		return fmt.Sprintf("rsvd: %s round %d: %v", e.Stage, e.Round, e.Err)
	}
	return fmt.Sprintf("rsvd: %s: %v", e.Stage, e.Err)
}

// Unwrap exposes both ErrNumericalFailure and the underlying cause.
func (e *StageError) Unwrap() []error {
	return []error{ErrNumericalFailure, e.Err}
}

func stageFailure(stage Stage, round int, err error) error {
	return &StageError{Stage: stage, Round: round, Err: err}
}

// invalidf wraps ErrInvalidArgument with a formatted reason.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
