package search

import (
	"sort"

	"github.com/tilecanon/azulcore/pkg/rules"
)

// Ordering accumulates move-ordering memory across one multi-depth search run: two killer-move
// slots per ply and a history-heuristic score per move, both reset at the start of a new search
// (§4.5).
type Ordering struct {
	killers [][2]rules.PackedMove
	history map[rules.PackedMove]int
}

// NewOrdering allocates killer slots for plies [0;maxPly].
func NewOrdering(maxPly int) *Ordering {
	return &Ordering{
		killers: make([][2]rules.PackedMove, maxPly+1),
		history: make(map[rules.PackedMove]int),
	}
}

// Killers returns the two killer moves recorded for ply, zero-valued if none yet.
func (o *Ordering) Killers(ply int) [2]rules.PackedMove {
	if ply < 0 || ply >= len(o.killers) {
		return [2]rules.PackedMove{}
	}
	return o.killers[ply]
}

// RecordKiller notes a move that caused a beta cutoff at ply, keeping the two most recent.
func (o *Ordering) RecordKiller(ply int, move rules.PackedMove) {
	if ply < 0 || ply >= len(o.killers) || o.killers[ply][0] == move {
		return
	}
	o.killers[ply][1] = o.killers[ply][0]
	o.killers[ply][0] = move
}

// RecordHistory rewards a move that caused a beta cutoff, weighted by the square of the remaining
// depth so cutoffs nearer the root (more depth left) count for more (§4.5).
func (o *Ordering) RecordHistory(move rules.PackedMove, depth int) {
	o.history[move] += depth * depth
}

func (o *Ordering) historyScore(move rules.PackedMove) int {
	return o.history[move]
}

// Order sorts buf in place by the node routine's ordering (§4.5): the transposition table's
// best move first, then this ply's killer moves, then by history-heuristic score, then a cheap
// static tiebreak.
func (o *Ordering) Order(buf []rules.PackedMove, ply int, ttBest rules.PackedMove, haveTTBest bool) {
	killers := o.Killers(ply)
	rank := func(m rules.PackedMove) int {
		switch {
		case haveTTBest && m == ttBest:
			return 0
		case m == killers[0]:
			return 1
		case m == killers[1]:
			return 2
		default:
			return 3
		}
	}

	sort.SliceStable(buf, func(i, j int) bool {
		ri, rj := rank(buf[i]), rank(buf[j])
		if ri != rj {
			return ri < rj
		}
		if ri != 3 {
			return false // tt-best/killer tier: stable, no further reordering needed.
		}
		hi, hj := o.historyScore(buf[i]), o.historyScore(buf[j])
		if hi != hj {
			return hi > hj
		}
		return staticRank(buf[i]) < staticRank(buf[j])
	})
}

// staticRank is the cheap static tiebreak (§4.5): a pattern-line destination is preferred over
// the floor, and among lines, the one with the larger completion bonus sorts first.
func staticRank(m rules.PackedMove) int {
	mv := m.Unpack()
	if !mv.Dest.IsLine() {
		return rules.NumPatternLines + 1
	}
	return rules.NumPatternLines - int(mv.Dest)
}
