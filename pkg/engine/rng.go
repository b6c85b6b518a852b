package engine

import (
	"golang.org/x/exp/rand"
)

// Rng is the seedable, deterministic random source the core consumes for bag shuffling, MCTS
// simulation and evaluation noise (§6 collaborators).
type Rng interface {
	Intn(n int) int
	Float64() float64
}

// defaultRng wraps golang.org/x/exp/rand, the same generator already used by the evaluator's
// noise term and the MCTS test harness.
type defaultRng struct{ *rand.Rand }

// NewRng returns the default Rng implementation seeded deterministically.
func NewRng(seed uint64) Rng {
	return defaultRng{rand.New(rand.NewSource(seed))}
}
