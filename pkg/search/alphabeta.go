package search

import (
	"context"

	"github.com/tilecanon/azulcore/pkg/eval"
	"github.com/tilecanon/azulcore/pkg/movegen"
	"github.com/tilecanon/azulcore/pkg/rules"
)

// nodePollInterval is how often the search checks the context for cancellation or an expired
// deadline, traded off against the cost of reading the clock on every node (§4.5).
const nodePollInterval = 4096

// AlphaBeta is a negamax search with alpha-beta pruning, transposition-table-driven move
// ordering, killer moves and the history heuristic (§4.5).
type AlphaBeta struct {
	Eval eval.Evaluator
}

// Search runs a fixed-depth search. player must equal pos.ToMove.
func (a AlphaBeta) Search(ctx context.Context, sctx *Context, pos *rules.Position, player int, depth int) (uint64, eval.Score, []rules.Move, error) {
	if sctx.Ordering == nil {
		sctx.Ordering = NewOrdering(depth + 1)
	}

	generation := uint32(0)
	if sctx.TT != nil {
		generation = sctx.TT.NextGeneration()
	}

	r := &run{ctx: ctx, a: a, sctx: sctx, generation: generation}
	score, line, err := r.search(pos, depth, 0, eval.NegInf, eval.Inf)
	if err != nil {
		return r.nodes, 0, nil, err
	}
	return r.nodes, score, line, nil
}

type run struct {
	ctx        context.Context
	a          AlphaBeta
	sctx       *Context
	generation uint32
	nodes      uint64
}

// search is the node routine from §4.5: terminal/depth-0 short-circuit, TT probe (cutting off or
// narrowing the window and supplying the move-ordering hint), move generation and ordering, then
// the recursive negamax sweep with a TT write on the way back out.
func (r *run) search(pos *rules.Position, depth, ply int, alpha, beta eval.Score) (eval.Score, []rules.Move, error) {
	r.nodes++
	if r.nodes%nodePollInterval == 1 {
		if err := r.ctx.Err(); err != nil {
			return 0, nil, ErrHalted
		}
	}

	if pos.IsTerminal() || depth == 0 {
		return r.leaf(pos), nil, nil
	}

	hash := pos.Hash()
	var ttBest rules.PackedMove
	haveTTBest := false
	if r.sctx.TT != nil {
		if bound, ttDepth, score, move, ok := r.sctx.TT.Read(hash); ok {
			ttBest, haveTTBest = move, true
			if ttDepth >= depth {
				switch bound {
				case ExactBound:
					return score, []rules.Move{move.Unpack()}, nil
				case LowerBound:
					alpha = eval.Max(alpha, score)
				case UpperBound:
					beta = eval.Min(beta, score)
				}
				if alpha >= beta {
					return score, []rules.Move{move.Unpack()}, nil
				}
			}
		}
	}

	buf := movegen.Generate(pos, nil)
	if len(buf) == 0 {
		return r.leaf(pos), nil, nil // defensive: Drafting always has a legal move (§8).
	}
	r.sctx.Ordering.Order(buf, ply, ttBest, haveTTBest)

	origAlpha := alpha
	best := eval.NegInf
	var bestMove rules.PackedMove
	var bestLine []rules.Move

	for _, pm := range buf {
		mv := pm.Unpack()
		next, err := pos.Apply(mv)
		if err != nil {
			continue // ordering never invents a move Generate didn't produce; defensive only.
		}

		childScore, line, err := r.search(next, depth-1, ply+1, -beta, -alpha)
		if err != nil {
			return 0, nil, err
		}
		score := -childScore

		if score > best {
			best = score
			bestMove = pm
			bestLine = append([]rules.Move{mv}, line...)
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if mv.Dest.IsLine() {
				r.sctx.Ordering.RecordKiller(ply, pm)
				r.sctx.Ordering.RecordHistory(pm, depth)
			}
			break
		}
	}

	if r.sctx.TT != nil {
		bound := ExactBound
		switch {
		case best <= origAlpha:
			bound = UpperBound
		case best >= beta:
			bound = LowerBound
		}
		r.sctx.TT.Write(hash, bound, depth, best, bestMove, r.generation)
	}

	return best, bestLine, nil
}

// leaf evaluates pos from the perspective of the side to move there; the negamax recursion
// flips sign on the way back up so the root score always reads from the searching player's
// perspective (valid because Apply always advances ToMove, §4.1).
func (r *run) leaf(pos *rules.Position) eval.Score {
	return r.a.Eval.Evaluate(r.ctx, pos, pos.ToMove)
}
