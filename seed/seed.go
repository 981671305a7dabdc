// Package seed derives per-rollout and per-particle RNG seeds from a single
// top-level seed, per spec.md §5's determinism discipline: "RNG seeds
// derived from a single top-level seed via a pure function of (seed,
// iteration, particle_index)". No process-wide RNG is ever used.
package seed

import "math/rand"

// splitmix64 constants, used only to mix integers into a well-distributed
// 64-bit seed — not for cryptographic use.
const (
	goldenGamma = 0x9E3779B97F4A7C15
	mix1        = 0xBF58476D1CE4E5B9
	mix2        = 0x94D049BB133111EB
)

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= mix1
	x ^= x >> 27
	x *= mix2
	x ^= x >> 31
	return x
}

// Derive returns a deterministic seed for (top, iteration, particle). Equal
// inputs always produce equal outputs; this is the only way any RNG in the
// core is seeded.
func Derive(top int64, iteration, particle int) int64 {
	x := uint64(top) + goldenGamma
	x = mix(x ^ (uint64(uint32(iteration)) * goldenGamma))
	x = mix(x ^ (uint64(uint32(particle)) * goldenGamma))
	return int64(x)
}

// New returns a *rand.Rand seeded deterministically for (top, iteration, particle).
func New(top int64, iteration, particle int) *rand.Rand {
	return rand.New(rand.NewSource(Derive(top, iteration, particle)))
}
