// SPDX-License-Identifier: MIT

package matrix

// Test bridge (white-box) for the options snapshot.
//
// Purpose:
//   - Expose a read-only view of the internal Options to matrix_test without
//     widening the production API.
//
// Maintenance:
//   - Keep OptionsSnapshot in sync with Options; tests catch drift.

// OptionsSnapshot is a stable copy of the resolved Options.
type OptionsSnapshot struct {
	Eps       float64
	MaxSweeps int
}

// Panic message exports to avoid "magic strings" in tests.
const (
	PanicEpsilonInvalid_TestOnly   = panicEpsilonInvalid
	PanicMaxSweepsInvalid_TestOnly = panicMaxSweepsInvalid
)

// GatherOptionsSnapshot_TestOnly resolves opts over the defaults.
func GatherOptionsSnapshot_TestOnly(opts ...Option) OptionsSnapshot {
	o := gatherOptions(opts...)
	return OptionsSnapshot{Eps: o.eps, MaxSweeps: o.maxSweeps}
}
