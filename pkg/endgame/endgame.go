// Package endgame implements a retrograde-analysis solver for positions with few draftable tiles
// remaining (§4.7): an exact minimax search over factories and the center pool, memoized by
// canonical key and cached for the process lifetime.
package endgame

import (
	"context"
	"fmt"
	"sync"

	"github.com/tilecanon/azulcore/pkg/eval"
	"github.com/tilecanon/azulcore/pkg/movegen"
	"github.com/tilecanon/azulcore/pkg/rules"
)

// DefaultThreshold is K from §4.7: the default maximum count of draftable tiles (factories plus
// center, excluding pattern lines, walls and floors) for which the solver applies.
const DefaultThreshold = 20

// EndgameNotApplicableError is returned when a position's draftable-tile count exceeds the
// solver's threshold (§7).
type EndgameNotApplicableError struct {
	Draftable int
	Threshold int
}

func (e *EndgameNotApplicableError) Error() string {
	return fmt.Sprintf("endgame: %d draftable tiles exceeds threshold %d", e.Draftable, e.Threshold)
}

// Entry is one solved or looked-up result (§4.7: {best_move, score, depth, exact}).
type Entry struct {
	Move    rules.Move
	HasMove bool
	Score   eval.Score
	Depth   int
	Exact   bool
}

// Stats reports database usage (§4.7: {entries, hits, analyzed_positions}).
type Stats struct {
	Entries           int
	Hits              uint64
	AnalyzedPositions uint64
}

// DB is a process-lifetime, mutex-guarded endgame cache.
type DB struct {
	mu        sync.Mutex
	threshold int
	table     map[uint64]Entry
	hits      uint64
	analyzed  uint64
}

// New returns a DB with the given draftable-tile threshold; threshold <= 0 selects
// DefaultThreshold.
func New(threshold int) *DB {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &DB{threshold: threshold, table: make(map[uint64]Entry)}
}

// draftableTiles counts the tiles still sitting in factories and the center pool, the scope
// named by §4.7 ("excluding pattern lines/walls/floors").
func draftableTiles(pos *rules.Position) int {
	total := 0
	for _, f := range pos.Factories {
		total += f.Total()
	}
	total += pos.Center.Total()
	return total
}

// Applicable reports whether pos is within the solver's draftable-tile threshold.
func (db *DB) Applicable(pos *rules.Position) bool {
	return draftableTiles(pos) <= db.threshold
}

// Lookup returns a previously solved entry for pos's canonical key, if one has been computed.
func (db *DB) Lookup(pos *rules.Position) (Entry, bool) {
	key := CanonicalKey(pos)

	db.mu.Lock()
	defer db.mu.Unlock()

	e, ok := db.table[key]
	if ok {
		db.hits++
	}
	return e, ok
}

// Solve performs a recursive exact search over pos to maxDepth plies, memoized by canonical key,
// and returns the value for the side to move (§4.7). It returns EndgameNotApplicableError if pos
// exceeds the configured draftable-tile threshold.
func (db *DB) Solve(ctx context.Context, pos *rules.Position, maxDepth int) (Entry, error) {
	if !db.Applicable(pos) {
		return Entry{}, &EndgameNotApplicableError{Draftable: draftableTiles(pos), Threshold: db.threshold}
	}
	return db.solve(ctx, pos, maxDepth), nil
}

func (db *DB) solve(ctx context.Context, pos *rules.Position, depth int) Entry {
	key := CanonicalKey(pos)

	db.mu.Lock()
	if e, ok := db.table[key]; ok {
		db.hits++
		db.mu.Unlock()
		return e
	}
	db.mu.Unlock()

	db.mu.Lock()
	db.analyzed++
	db.mu.Unlock()

	var result Entry
	switch {
	case pos.IsTerminal():
		result = Entry{Score: finalMargin(pos, pos.ToMove), Exact: true}
	case depth <= 0 || ctx.Err() != nil:
		result = Entry{Score: finalMargin(pos, pos.ToMove), Exact: false}
	default:
		result = db.solveChildren(ctx, pos, depth)
	}

	db.mu.Lock()
	db.table[key] = result
	db.mu.Unlock()

	return result
}

// solveChildren enumerates all legal moves from pos, recurses one ply, and returns the
// maximizing choice for the side to move (§4.7: "return the max for the side to move").
func (db *DB) solveChildren(ctx context.Context, pos *rules.Position, depth int) Entry {
	buf := movegen.Generate(pos, nil)

	var best Entry
	for _, pm := range buf {
		next, err := pos.Apply(pm.Unpack())
		if err != nil {
			continue
		}
		child := db.solve(ctx, next, depth-1)
		score := -child.Score
		if next.ToMove == pos.ToMove {
			score = child.Score // same side moves again after a round boundary: no sign flip.
		}

		if !best.HasMove || score > best.Score {
			best = Entry{Move: pm.Unpack(), HasMove: true, Score: score, Depth: depth, Exact: child.Exact}
		}
	}

	if !best.HasMove {
		return Entry{Score: finalMargin(pos, pos.ToMove), Exact: true}
	}
	return best
}

// finalMargin scores a position by the given player's total score minus the best of the rest,
// the same margin convention used by the MCTS terminal reward.
func finalMargin(pos *rules.Position, player int) eval.Score {
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

// Stats returns current cache usage.
func (db *DB) Stats() Stats {
	db.mu.Lock()
	defer db.mu.Unlock()
	return Stats{Entries: len(db.table), Hits: db.hits, AnalyzedPositions: db.analyzed}
}
