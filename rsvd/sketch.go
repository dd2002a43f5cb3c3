// SPDX-License-Identifier: MIT

package rsvd

import (
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/lowrank/linalg"
	"github.com/katalvlaran/lowrank/matrix"
)

// Source yields standard-normal samples. *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	NormFloat64() float64
}

// sketchSource returns the generator for one call: the injected source, a
// PCG seeded from WithSeed, or a PCG seeded from the global generator.
func (o Options) sketchSource() Source {
	switch {
	case o.source != nil:
		return o.source
	case o.seeded:
		return rand.New(rand.NewPCG(o.seed, seedStream))
	default:
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

// gaussian fills a rows×cols matrix with i.i.d. N(0,1) entries in row-major order.
func gaussian(rows, cols int, src Source) (*matrix.Dense, error) {
	data := make([]float64, rows*cols)
	for i := range data {
		v := src.NormFloat64()
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, linalg.ErrNonFinite
		}
		data[i] = v
	}

	return matrix.NewDenseFrom(rows, cols, data)
}
