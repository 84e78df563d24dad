package core

import (
	"math/rand/v2"
	"time"
)

// RNG is a thin convenience wrapper around math/rand/v2. A zero seed draws
// from the wall clock so runs differ unless a seed is pinned.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates an RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>17|1))}
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// IntN returns a uniform int in [0, n). n must be positive.
func (r *RNG) IntN(n int) int { return r.r.IntN(n) }

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// Chance reports whether a uniform draw falls below p.
func (r *RNG) Chance(p float64) bool {
	return r.r.Float64() < p
}

// Jitter returns a value uniformly distributed in [-span/2, span/2).
func (r *RNG) Jitter(span float64) float64 {
	return (r.r.Float64() - 0.5) * span
}

// Shuffle pseudo-randomizes the order of n elements using swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) { r.r.Shuffle(n, swap) }

// Uint64 returns a uniform 64-bit value.
func (r *RNG) Uint64() uint64 { return r.r.Uint64() }
