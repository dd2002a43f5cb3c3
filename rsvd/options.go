// SPDX-License-Identifier: MIT

// Package rsvd: functional configuration of Decompose / DecomposeAdaptive.
// This file defines:
//   - Normalizer, the power-iteration normalization mode,
//   - documented defaults (constants),
//   - WithX constructors,
//   - gatherOptions and validate.
//
// Unlike the panicking setters of package matrix, out-of-range values are
// recorded as given and rejected by validate with ErrInvalidArgument, so a
// bad configuration surfaces as an error of the call that received it.
package rsvd

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/lowrank/linalg"
)

// Normalizer selects how Y is renormalized between power-iteration rounds.
type Normalizer int

const (
	// NormalizerQR re-orthonormalizes with a thin QR factorization.
	NormalizerQR Normalizer = iota

	// NormalizerLU keeps the permuted lower LU factor P·L. Its columns are
	// well scaled but not orthogonal, so accuracy degrades on
	// ill-conditioned inputs. Discouraged; kept for benchmark parity.
	NormalizerLU

	// NormalizerNone applies Y ← M·(Mᵀ·Y) unnormalized. Rounding error and
	// magnitude grow with every round; use only with q ≤ 1 or a
	// well-conditioned M. Discouraged; kept for benchmark parity.
	NormalizerNone
)

var normalizerNames = [...]string{
	NormalizerQR:   "qr",
	NormalizerLU:   "lu",
	NormalizerNone: "none",
}

// String returns the lower-case mode name.
func (n Normalizer) String() string {
	if n < 0 || int(n) >= len(normalizerNames) {
		return fmt.Sprintf("Normalizer(%d)", int(n))
	}
	return normalizerNames[n]
}

// ParseNormalizer maps "qr", "lu" or "none" (any case) to a Normalizer.
// The empty string selects DefaultNormalizer.
func ParseNormalizer(s string) (Normalizer, error) {
	if s == "" {
		return DefaultNormalizer, nil
	}
	for i, name := range normalizerNames {
		if strings.EqualFold(s, name) {
			return Normalizer(i), nil
		}
	}
	return 0, invalidf("unknown normalizer %q", s)
}

// ---------- Defaults ----------

const (
	// DefaultOversamples is p, the number of extra sketch columns.
	DefaultOversamples = 10

	// DefaultPowerIterations is q, the number of refinement rounds.
	DefaultPowerIterations = 2

	// DefaultNormalizer is the power-iteration mode.
	DefaultNormalizer = NormalizerQR
)

// seedStream is the PCG stream selector used for seeded sketches.
const seedStream = 0x385ab5285169b1ac

// Option mutates Options. Options are applied in order; the last writer wins.
type Option func(*Options)

// Options is the effective configuration after applying Option setters.
type Options struct {
	oversamples int
	powerIters  int
	normalizer  Normalizer
	seed        uint64
	seeded      bool
	source      Source
	backend     linalg.Backend
	logger      *zap.Logger
}

// WithOversamples sets p ≥ 0.
func WithOversamples(p int) Option {
	return func(o *Options) { o.oversamples = p }
}

// WithPowerIterations sets q ≥ 0.
func WithPowerIterations(q int) Option {
	return func(o *Options) { o.powerIters = q }
}

// WithNormalizer sets the power-iteration mode.
func WithNormalizer(n Normalizer) Option {
	return func(o *Options) { o.normalizer = n }
}

// WithSeed makes the sketch reproducible: equal seeds give equal Ω.
// Without a seed every call draws fresh entropy.
func WithSeed(seed uint64) Option {
	return func(o *Options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithSource injects the generator Ω is drawn from. It takes precedence over
// WithSeed. The source is consumed by the call and must not be shared with
// concurrent calls.
func WithSource(src Source) Option {
	return func(o *Options) { o.source = src }
}

// WithBackend selects the linear-algebra implementation (default linalg.Default()).
func WithBackend(b linalg.Backend) Option {
	return func(o *Options) { o.backend = b }
}

// WithLogger sets the logger stage timings are written to at Debug level.
// A nil logger restores the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// gatherOptions applies user setters on top of defaults.
func gatherOptions(user ...Option) Options {
	o := Options{
		oversamples: DefaultOversamples,
		powerIters:  DefaultPowerIterations,
		normalizer:  DefaultNormalizer,
	}
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}
	if o.backend == nil {
		o.backend = linalg.Default()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	return o
}

// validate rejects out-of-range settings with ErrInvalidArgument.
func (o Options) validate() error {
	switch {
	case o.oversamples < 0:
		return invalidf("oversamples must be >= 0, got %d", o.oversamples)
	case o.powerIters < 0:
		return invalidf("power iterations must be >= 0, got %d", o.powerIters)
	case o.normalizer < NormalizerQR || o.normalizer > NormalizerNone:
		return invalidf("unknown normalizer %s", o.normalizer)
	}

	return nil
}
