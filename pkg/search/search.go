// Package search implements fixed-depth alpha-beta search over Azul positions and its
// transposition table (§4.4, §4.5), plus a naive minimax oracle used to check it. Iterative
// deepening is driven from package searchctl.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tilecanon/azulcore/pkg/eval"
	"github.com/tilecanon/azulcore/pkg/rules"
)

// ErrHalted is returned by Search when the caller's context was canceled or its deadline passed
// before the search completed. Callers should fall back to the best PV found so far.
var ErrHalted = errors.New("search: halted before completion")

// PV is one search result: the principal variation found for the position's side to move at a
// given depth, plus the statistics gathered while finding it (§4.5).
type PV struct {
	Depth int
	Moves []rules.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, FormatMoves(p.Moves))
}

// Best returns the first move of the variation, if any was found.
func (p PV) Best() (rules.Move, bool) {
	if len(p.Moves) == 0 {
		return rules.Move{}, false
	}
	return p.Moves[0], true
}

// Options controls a single fixed-depth search call.
type Options struct {
	// DepthLimit is the number of plies to search. Must be positive.
	DepthLimit int
}

// Context carries the state shared across every node of one multi-depth search run: the
// transposition table to probe and fill, and the killer/history move-ordering memory
// accumulated so far (§4.4, §4.5). Not safe for concurrent use by more than one in-flight
// search.
type Context struct {
	TT       TranspositionTable
	Ordering *Ordering
}

// Search runs a fixed-depth search from pos for the given player and returns the node count,
// score (from player's perspective) and principal variation found. Callers must ensure player
// equals pos.ToMove: negamax recursion only makes sense relative to the side on move.
type Search interface {
	Search(ctx context.Context, sctx *Context, pos *rules.Position, player int, depth int) (uint64, eval.Score, []rules.Move, error)
}

// Launcher manages iteratively-deepening searches that can be started and stopped independently
// of the caller's own clock bookkeeping (§4.5 top-level contract: max_depth, max_time).
type Launcher interface {
	// Launch starts a new search from pos for player. It returns a PV channel fed with
	// progressively deeper results; the channel is closed once the search is exhausted. The
	// search can be stopped early via the returned Handle.
	Launch(ctx context.Context, pos *rules.Position, player int, tt TranspositionTable, opt Options) (Handle, <-chan PV)
}

// Handle lets the caller halt a running search and retrieve its best finding so far.
type Handle interface {
	// Halt stops the search, if running, and returns its best PV. Idempotent.
	Halt() PV
}
