// Package mcts implements Monte-Carlo Tree Search over Azul positions (§4.6): a UCT tree with
// pluggable rollout policies and a time/rollout budget, optionally guided by an external value
// head.
package mcts

import (
	"context"
	"math"
	"time"

	"github.com/tilecanon/azulcore/pkg/eval"
	"github.com/tilecanon/azulcore/pkg/rules"
)

// Rng is a seedable, deterministic random source (§6 collaborators).
type Rng interface {
	Intn(n int) int
	Float64() float64
}

// RolloutPolicy supplies the reward used to back up one playout. Rollout must return a value
// from player's perspective; Prior optionally biases which untried move is expanded first.
type RolloutPolicy interface {
	Rollout(ctx context.Context, pos *rules.Position, player int, rng Rng) eval.Score
	Prior(pos *rules.Position) (map[rules.PackedMove]float32, bool)
}

// ValueHead optionally replaces simulation with a direct value estimate (neural MCTS, §6). If it
// returns false, the search falls back to RolloutPolicy.
type ValueHead interface {
	Value(pos *rules.Position, player int) (eval.Score, bool)
}

// Options bound one search call (§6: max_time, max_rollouts).
type Options struct {
	MaxTime     time.Duration // zero means no time budget
	MaxRollouts uint64        // zero means no rollout budget
	Explore     float64       // UCB1 exploration constant; math.Sqrt2 if zero
}

// ChildStat reports one root child's visit statistics (§6 MCTS result).
type ChildStat struct {
	Move      rules.Move
	Visits    uint64
	MeanValue eval.Score
}

// Result is the outcome of one MCTS search call (§6).
type Result struct {
	BestMove     rules.Move
	HasBestMove  bool
	Value        eval.Score
	Visits       uint64
	RootChildren []ChildStat
}

// Search runs UCT from a root position for a fixed player until its time or rollout budget is
// exhausted (whichever comes first), expanding one node per playout.
type Search struct {
	Rollout RolloutPolicy
	Value   ValueHead // optional
	Rng     Rng
}

// Run executes the search and returns the move with the most root visits (§6: "best_move = max
// visits"), never an error: a bounded search always returns its best-so-far result (§7).
func (s Search) Run(ctx context.Context, pos *rules.Position, player int, opt Options) Result {
	explore := opt.Explore
	if explore == 0 {
		explore = math.Sqrt2
	}

	var prior priorFn
	if s.Rollout != nil {
		prior = s.Rollout.Prior
	}
	root := newNode(pos, nil, 0, prior)

	var deadline time.Time
	hasDeadline := opt.MaxTime > 0
	if hasDeadline {
		deadline = time.Now().Add(opt.MaxTime)
	}

	var rollouts uint64
	for ctx.Err() == nil {
		if hasDeadline && time.Now().After(deadline) {
			break
		}
		if opt.MaxRollouts > 0 && rollouts >= opt.MaxRollouts {
			break
		}

		leaf := root.selectLeaf(player, explore)
		value := s.evaluate(ctx, leaf, player)
		leaf.backpropagate(value)
		rollouts++
	}

	return s.summarize(root, player)
}

func (s Search) evaluate(ctx context.Context, leaf *node, player int) eval.Score {
	if leaf.isTerminal() {
		return terminalValue(leaf.pos, player)
	}
	if s.Value != nil {
		if v, ok := s.Value.Value(leaf.pos, player); ok {
			return v
		}
	}
	return s.Rollout.Rollout(ctx, leaf.pos, player, s.Rng)
}

// terminalValue uses each player's final score (§4.1 wall-tiling bonuses already applied by the
// time a position reaches GameOver) to rank outcomes: the margin of the root player's score over
// the best of the rest.
func terminalValue(pos *rules.Position, player int) eval.Score {
	scores := pos.FinalScores()
	best := -1 << 30
	for p, s := range scores {
		if p == player {
			continue
		}
		if s > best {
			best = s
		}
	}
	return eval.Score(scores[player] - best)
}

func (s Search) summarize(root *node, player int) Result {
	res := Result{Value: eval.Score(root.q()), Visits: root.visits}

	for _, c := range root.children {
		res.RootChildren = append(res.RootChildren, ChildStat{
			Move:      c.move.Unpack(),
			Visits:    c.visits,
			MeanValue: eval.Score(c.q()),
		})
	}

	if best := root.mostVisitedChild(); best != nil {
		res.BestMove = best.move.Unpack()
		res.HasBestMove = true
	}
	return res
}
