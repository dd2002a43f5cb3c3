// SPDX-License-Identifier: MIT
package rsvd_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lowrank/rsvd"
)

func TestNormalizer_String(t *testing.T) {
	require.Equal(t, "qr", rsvd.NormalizerQR.String())
	require.Equal(t, "lu", rsvd.NormalizerLU.String())
	require.Equal(t, "none", rsvd.NormalizerNone.String())
	require.Equal(t, "Normalizer(7)", rsvd.Normalizer(7).String())
	require.Equal(t, "Normalizer(-1)", rsvd.Normalizer(-1).String())
}

func TestParseNormalizer(t *testing.T) {
	for in, want := range map[string]rsvd.Normalizer{
		"":     rsvd.DefaultNormalizer,
		"qr":   rsvd.NormalizerQR,
		"LU":   rsvd.NormalizerLU,
		"None": rsvd.NormalizerNone,
	} {
		got, err := rsvd.ParseNormalizer(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := rsvd.ParseNormalizer("cholesky")
	require.ErrorIs(t, err, rsvd.ErrInvalidArgument)
}

// TestOptions_Defaults: omitting every option equals spelling out the defaults.
func TestOptions_Defaults(t *testing.T) {
	a := gaussianMatrix(t, 40, 30, 6)

	implicit, err := rsvd.Decompose(a, 5, rsvd.WithSeed(8))
	require.NoError(t, err)
	explicit, err := rsvd.Decompose(a, 5,
		rsvd.WithOversamples(rsvd.DefaultOversamples),
		rsvd.WithPowerIterations(rsvd.DefaultPowerIterations),
		rsvd.WithNormalizer(rsvd.DefaultNormalizer),
		rsvd.WithBackend(nil),
		rsvd.WithLogger(nil),
		nil,
		rsvd.WithSeed(8))
	require.NoError(t, err)
	require.Equal(t, implicit.S, explicit.S)
	require.Equal(t, implicit.VT.RawData(), explicit.VT.RawData())
}

// TestOptions_LastWriterWins applies the same setter twice.
func TestOptions_LastWriterWins(t *testing.T) {
	a := gaussianMatrix(t, 40, 30, 6)

	want, err := rsvd.Decompose(a, 5, rsvd.WithSeed(2))
	require.NoError(t, err)
	got, err := rsvd.Decompose(a, 5, rsvd.WithSeed(1), rsvd.WithOversamples(-4), rsvd.WithOversamples(10), rsvd.WithSeed(2))
	require.NoError(t, err)
	require.Equal(t, want.S, got.S)
}

// TestOptions_SourceOverridesSeed: an injected Source wins over WithSeed.
func TestOptions_SourceOverridesSeed(t *testing.T) {
	a := gaussianMatrix(t, 40, 30, 6)
	src := func() rsvd.Source { return rand.New(rand.NewPCG(5, 6)) }

	f1, err := rsvd.Decompose(a, 5, rsvd.WithSeed(1), rsvd.WithSource(src()))
	require.NoError(t, err)
	f2, err := rsvd.Decompose(a, 5, rsvd.WithSource(src()), rsvd.WithSeed(2))
	require.NoError(t, err)
	require.Equal(t, f1.S, f2.S)
	require.Equal(t, f1.U.RawData(), f2.U.RawData())
}
