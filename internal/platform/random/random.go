// Package random supplies the non-cryptographic random sources used by study
// sessions for shuffling, orientation and distractor sampling.
package random

import "math/rand/v2"

// New returns a generator seeded from the runtime's global source.
func New() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Seeded returns a deterministic generator, for tests.
func Seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// OrNew returns r, or a fresh generator when r is nil.
func OrNew(r *rand.Rand) *rand.Rand {
	if r == nil {
		return New()
	}
	return r
}
