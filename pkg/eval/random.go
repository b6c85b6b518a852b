package eval

import (
	"context"

	"golang.org/x/exp/rand"

	"github.com/tilecanon/azulcore/pkg/rules"
)

// Random is a randomized noise term. It adds a small amount of randomness to evaluations,
// useful for breaking ties between otherwise-equal moves during search. The limit specifies how
// many millipoints to add/remove in the range [-limit/2; limit/2]. The default value always
// returns zero.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed uint64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(_ context.Context, _ *rules.Position, _ int) Score {
	if n.limit <= 0 {
		return 0
	}
	return Score(n.rand.Intn(n.limit)-n.limit/2) / 1000
}
