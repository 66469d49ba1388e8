// Package rng centralizes the engine's two sources of determinism: the
// seeded shuffle a Game's deck is built from, and the roll_die
// step's "deterministically rolls (1..6) seeded by the deck seed".
// Both draw from the same per-hand seed so a replay only needs to record
// one integer, not two independent streams.
package rng

import "math/rand"

// Seeded wraps a single seed into the two deterministic generators a hand
// needs. Constructing two Seeded values from the same seed always yields
// identical shuffle order and die rolls.
type Seeded struct {
	seed int64
	deck *rand.Rand
	die  *rand.Rand
}

// New derives a Seeded from seed. The deck and die streams are seeded from
// distinct values derived from seed so that drawing from one never perturbs
// the other, while both remain a pure function of seed alone.
func New(seed int64) *Seeded {
	return &Seeded{
		seed: seed,
		deck: rand.New(rand.NewSource(seed)),
		die:  rand.New(rand.NewSource(seed ^ 0x5eed5eed)),
	}
}

// Seed returns the seed this generator was constructed from.
func (s *Seeded) Seed() int64 { return s.seed }

// DeckRand returns the *rand.Rand the deck shuffle consumes.
func (s *Seeded) DeckRand() *rand.Rand { return s.deck }

// RollDie returns a value in [1,6], consuming one draw from the die stream.
func (s *Seeded) RollDie() int {
	return s.die.Intn(6) + 1
}
