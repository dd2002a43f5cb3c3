// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the numeric policy of the
// iterative kernels. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

// ---------- Defaults (single source of truth) ----------

// Numeric policy.
const (
	// DefaultEpsilon is the relative orthogonality tolerance of the Jacobi SVD:
	// a column pair (i,j) is considered orthogonal once |aᵢ·aⱼ| ≤ eps·‖aᵢ‖‖aⱼ‖.
	DefaultEpsilon = 1e-12

	// DefaultMaxSweeps bounds the number of full Jacobi sweeps before the
	// kernel gives up with ErrNoConvergence.
	DefaultMaxSweeps = 60

	// DefaultValidateNaNInf toggles strict finite-value validation on Set/Apply.
	DefaultValidateNaNInf = true
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid   = "matrix: WithEpsilon: eps must be finite, positive"
	panicMaxSweepsInvalid = "matrix: WithMaxSweeps: sweeps must be > 0"
)

// ---------- Public option type (functional) ----------

// Option mutates internal options. Safe to apply repeatedly (idempotent).
// Constructors MUST panic only on nonsensical values (programmer error).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option` and resolve
// them via gatherOptions.
type Options struct {
	eps       float64 // > 0; DefaultEpsilon
	maxSweeps int     // > 0; DefaultMaxSweeps
}

// WithEpsilon sets the relative orthogonality tolerance used by SVD.
// Errors:
//   - Panics with a stable message when eps is NaN, ±Inf or ≤ 0.
//
// AI-Hints:
//   - Looser tolerances (1e-8) trade a few ulps of orthogonality for fewer sweeps.
func WithEpsilon(eps float64) Option {
	if isNonFinite(eps) || eps <= 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithMaxSweeps sets the Jacobi sweep budget used by SVD.
// Errors:
//   - Panics when sweeps ≤ 0.
func WithMaxSweeps(sweeps int) Option {
	if sweeps <= 0 {
		panic(panicMaxSweepsInvalid)
	}

	return func(o *Options) { o.maxSweeps = sweeps }
}

// gatherOptions applies user-provided Option setters on top of defaults.
// Complexity:
//   - Time O(k), Space O(1) for k=len(user).
func gatherOptions(user ...Option) Options {
	o := Options{
		eps:       DefaultEpsilon,
		maxSweeps: DefaultMaxSweeps,
	}
	for _, set := range user {
		set(&o) // apply in order; last-writer-wins semantics
	}

	return o
}
