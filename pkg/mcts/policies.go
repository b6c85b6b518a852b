package mcts

import (
	"context"

	"github.com/tilecanon/azulcore/pkg/eval"
	"github.com/tilecanon/azulcore/pkg/movegen"
	"github.com/tilecanon/azulcore/pkg/rules"
)

// UniformRandom plays both the rollout and every player's random moves to terminal, each move
// chosen uniformly, then scores the result by final margin (§2: "uniform-random" rollout
// policy).
type UniformRandom struct{}

func (UniformRandom) Rollout(ctx context.Context, pos *rules.Position, player int, rng Rng) eval.Score {
	return playout(ctx, pos, player, rng, func(pos *rules.Position, buf []rules.PackedMove, rng Rng) rules.PackedMove {
		return buf[rng.Intn(len(buf))]
	})
}

func (UniformRandom) Prior(pos *rules.Position) (map[rules.PackedMove]float32, bool) {
	return nil, false
}

// HeuristicGreedy plays the rollout by greedily picking, at every ply, the move the static
// evaluator likes best for whoever is on move, keeping the first such move in generator order on
// ties (§2: "heuristic-greedy" rollout policy).
type HeuristicGreedy struct {
	Eval eval.Evaluator
}

func (h HeuristicGreedy) Rollout(ctx context.Context, pos *rules.Position, player int, rng Rng) eval.Score {
	e := h.Eval
	if e == nil {
		e = eval.NewComposite()
	}
	return playout(ctx, pos, player, rng, func(cur *rules.Position, buf []rules.PackedMove, rng Rng) rules.PackedMove {
		mover := cur.ToMove
		best := buf[0]
		bestScore := eval.NegInf
		for _, pm := range buf {
			next, err := cur.Apply(pm.Unpack())
			if err != nil {
				continue
			}
			score := e.Evaluate(ctx, next, mover)
			if score > bestScore {
				bestScore = score
				best = pm
			}
		}
		return best
	})
}

// Prior ranks the moves of the given position by the same evaluator used for rollout; the tree
// calls it for every node it creates, biasing expansion toward promising moves first.
func (h HeuristicGreedy) Prior(pos *rules.Position) (map[rules.PackedMove]float32, bool) {
	e := h.Eval
	if e == nil {
		e = eval.NewComposite()
	}
	buf := movegen.Generate(pos, nil)
	weights := make(map[rules.PackedMove]float32, len(buf))
	for _, pm := range buf {
		next, err := pos.Apply(pm.Unpack())
		if err != nil {
			continue
		}
		weights[pm] = float32(e.Evaluate(context.Background(), next, pos.ToMove))
	}
	return weights, true
}

// playout advances pos to a terminal position by repeatedly calling choose, then scores the
// result by the root player's final margin over the best of the rest.
func playout(ctx context.Context, pos *rules.Position, player int, rng Rng, choose func(*rules.Position, []rules.PackedMove, Rng) rules.PackedMove) eval.Score {
	cur := pos
	for !cur.IsTerminal() {
		if ctx.Err() != nil {
			break
		}
		buf := movegen.Generate(cur, nil)
		if len(buf) == 0 {
			break
		}
		pm := choose(cur, buf, rng)
		next, err := cur.Apply(pm.Unpack())
		if err != nil {
			break
		}
		cur = next
	}
	return terminalValue(cur, player)
}
