package backdrop

import "math/rand/v2"

// Rand is the random source shared by a layer's particle store and
// integrator. A fixed seed makes a whole run reproducible; seed 0 draws the
// seed from system entropy.
type Rand struct {
	r    *rand.Rand
	seed uint64
}

// NewRand creates a Rand. Seed 0 picks a random seed.
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	return &Rand{
		r:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Seed returns the seed the source was created with.
func (r *Rand) Seed() uint64 { return r.seed }

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 { return r.r.Float64() }

// IntN returns a value in [0, n).
func (r *Rand) IntN(n int) int { return r.r.IntN(n) }

// Jitter returns a value in [-amount/2, amount/2).
func (r *Rand) Jitter(amount float64) float64 {
	return (r.r.Float64() - 0.5) * amount
}

// Int64 returns a non-negative pseudo-random int64, used to seed noise generators.
func (r *Rand) Int64() int64 { return r.r.Int64() }
