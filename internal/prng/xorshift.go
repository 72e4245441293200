// Package prng provides a deterministic xorshift*64 generator. The state is
// owned by the caller; there is no package-level source.
package prng

const multiplier = 0x2545F4914F6CDD1D

// Xorshift64Star is a xorshift* generator with 64 bits of state. The state
// is never zero.
type Xorshift64Star struct {
	state uint64
}

// New seeds a generator. A zero seed is replaced by 1, since zero is a fixed
// point of the xorshift steps.
func New(seed uint64) *Xorshift64Star {
	if seed == 0 {
		seed = 1
	}
	return &Xorshift64Star{state: seed}
}

// Next advances the state and returns the scrambled output.
func (x *Xorshift64Star) Next() uint64 {
	x.state ^= x.state >> 12
	x.state ^= x.state << 25
	x.state ^= x.state >> 27
	return x.state * multiplier
}

// Uint64 implements math/rand/v2.Source.
func (x *Xorshift64Star) Uint64() uint64 { return x.Next() }

// State returns the current state, suitable for seeding a later New.
func (x *Xorshift64Star) State() uint64 { return x.state }

// Step returns the first output of a generator seeded with seed.
func Step(seed uint64) uint64 {
	return New(seed).Next()
}
