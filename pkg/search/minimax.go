package search

import (
	"context"

	"github.com/tilecanon/azulcore/pkg/eval"
	"github.com/tilecanon/azulcore/pkg/movegen"
	"github.com/tilecanon/azulcore/pkg/rules"
)

// Minimax is a naive full-width negamax search with no pruning, ordering or transposition
// table. It exists as a correctness oracle for AlphaBeta at shallow depths (§8): both must agree
// on the score of every position, since alpha-beta only prunes provably irrelevant subtrees.
type Minimax struct {
	Eval eval.Evaluator
}

func (m Minimax) Search(ctx context.Context, pos *rules.Position, player int, depth int) (uint64, eval.Score, []rules.Move, error) {
	var nodes uint64
	score, line, err := m.search(ctx, pos, depth, &nodes)
	return nodes, score, line, err
}

func (m Minimax) search(ctx context.Context, pos *rules.Position, depth int, nodes *uint64) (eval.Score, []rules.Move, error) {
	*nodes++
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	if pos.IsTerminal() || depth == 0 {
		return m.Eval.Evaluate(ctx, pos, pos.ToMove), nil, nil
	}

	buf := movegen.Generate(pos, nil)
	if len(buf) == 0 {
		return m.Eval.Evaluate(ctx, pos, pos.ToMove), nil, nil
	}

	best := eval.NegInf
	var bestLine []rules.Move
	for _, pm := range buf {
		mv := pm.Unpack()
		next, err := pos.Apply(mv)
		if err != nil {
			continue
		}

		childScore, line, err := m.search(ctx, next, depth-1, nodes)
		if err != nil {
			return 0, nil, err
		}
		score := -childScore

		if score > best {
			best = score
			bestLine = append([]rules.Move{mv}, line...)
		}
	}
	return best, bestLine, nil
}
