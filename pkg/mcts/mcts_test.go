package mcts_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/tilecanon/azulcore/pkg/mcts"
	"github.com/tilecanon/azulcore/pkg/rules"
)

// xrand adapts golang.org/x/exp/rand to the package's minimal Rng interface.
type xrand struct{ *rand.Rand }

func newXRand(seed uint64) xrand {
	return xrand{rand.New(rand.NewSource(seed))}
}

func TestMCTSRespectsRolloutBudget(t *testing.T) {
	pos, err := rules.NewInitialPosition(1, 2)
	require.NoError(t, err)

	s := mcts.Search{Rollout: mcts.UniformRandom{}, Rng: newXRand(7)}
	res := s.Run(context.Background(), pos, pos.ToMove, mcts.Options{MaxRollouts: 300})

	assert.True(t, res.HasBestMove)
	assert.LessOrEqual(t, res.Visits, uint64(300))
}

func TestMCTSRespectsTimeBudget(t *testing.T) {
	pos, err := rules.NewInitialPosition(2, 2)
	require.NoError(t, err)

	s := mcts.Search{Rollout: mcts.UniformRandom{}, Rng: newXRand(9)}

	start := time.Now()
	res := s.Run(context.Background(), pos, pos.ToMove, mcts.Options{MaxTime: 200 * time.Millisecond})
	elapsed := time.Since(start)

	assert.True(t, res.HasBestMove)
	assert.Less(t, elapsed, 220*time.Millisecond)
}

func TestMCTSAlwaysReturnsLegalMove(t *testing.T) {
	pos, err := rules.NewInitialPosition(5, 3)
	require.NoError(t, err)

	s := mcts.Search{Rollout: mcts.UniformRandom{}, Rng: newXRand(3)}
	res := s.Run(context.Background(), pos, pos.ToMove, mcts.Options{MaxRollouts: 200})

	require.True(t, res.HasBestMove)
	_, err = pos.Apply(res.BestMove)
	assert.NoError(t, err)
}

func TestMCTSVisitsSumToRootChildVisits(t *testing.T) {
	pos, err := rules.NewInitialPosition(21, 2)
	require.NoError(t, err)

	s := mcts.Search{Rollout: mcts.UniformRandom{}, Rng: newXRand(21)}
	res := s.Run(context.Background(), pos, pos.ToMove, mcts.Options{MaxRollouts: 500})

	var sum uint64
	for _, c := range res.RootChildren {
		sum += c.Visits
	}
	assert.LessOrEqual(t, sum, res.Visits)
}

// TestMCTSConvergesOnDominatingMove runs on the initial position for seed 99 and takes as its
// reference the root move that HeuristicGreedy's prior ranks highest; with 1000 rollouts MCTS
// should put at least 95% of its root visits on that move (§8 property 9).
func TestMCTSConvergesOnDominatingMove(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping MCTS convergence check")
	}

	pos, err := rules.NewInitialPosition(99, 2)
	require.NoError(t, err)

	dominating := dominatingMove(t, pos)

	s := mcts.Search{Rollout: mcts.HeuristicGreedy{}, Rng: newXRand(99)}
	res := s.Run(context.Background(), pos, pos.ToMove, mcts.Options{MaxRollouts: 1000})

	require.True(t, res.HasBestMove)

	var total uint64
	var dominatingVisits uint64
	for _, c := range res.RootChildren {
		total += c.Visits
		if c.Move.Equals(dominating) {
			dominatingVisits = c.Visits
		}
	}
	require.Greater(t, total, uint64(0))
	assert.GreaterOrEqual(t, float64(dominatingVisits)/float64(total), 0.95)
}

// dominatingMove picks the move with the single best immediate heuristic evaluation at the
// root, used to construct a deterministic "obviously correct" reference for the convergence
// test without hand-authoring a scenario string.
func dominatingMove(t *testing.T, pos *rules.Position) rules.Move {
	t.Helper()

	h := mcts.HeuristicGreedy{}
	weights, ok := h.Prior(pos)
	require.True(t, ok)

	var best rules.PackedMove
	bestScore := float32(-1 << 30)
	for pm, w := range weights {
		if w > bestScore {
			bestScore = w
			best = pm
		}
	}
	return best.Unpack()
}
