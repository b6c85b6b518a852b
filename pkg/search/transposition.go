package search

import (
	"context"
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	uberatomic "go.uber.org/atomic"

	"github.com/seekerror/logw"

	"github.com/tilecanon/azulcore/pkg/eval"
	"github.com/tilecanon/azulcore/pkg/rules"
)

// Bound represents the bound of a -- possibly inexact -- search score relative to the
// alpha-beta window it was computed in (§4.4).
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// TranspositionTable speeds up repeated search of the same position reached by a different move
// order (§4.4). Must be thread-safe.
type TranspositionTable interface {
	// Read returns the bound, depth, score and best move stored for hash, if present.
	Read(hash rules.ZobristHash) (Bound, int, eval.Score, rules.PackedMove, bool)
	// Write stores the entry, subject to the table's replacement policy, tagged with the given
	// search generation.
	Write(hash rules.ZobristHash, bound Bound, depth int, score eval.Score, move rules.PackedMove, generation uint32) bool
	// NextGeneration advances and returns the table's search generation counter. Callers should
	// invoke this once per top-level search, not once per node.
	NextGeneration() uint32

	// Size returns the size of the table in bytes.
	Size() uint64
	// Used returns the utilization as a fraction [0;1].
	Used() float64
}

type TranspositionTableFactory func(ctx context.Context, size uint64) TranspositionTable

// metadata captures node metadata: bound, depth and the search generation it was written in.
type metadata struct {
	bound      Bound
	depth      uint16
	generation uint32
}

// node represents a cached search result, keyed by the full hash to detect index collisions.
type node struct {
	hash  rules.ZobristHash
	score eval.Score
	move  rules.PackedMove
	md    metadata
}

// table is a lock-free transposition table addressed by the low bits of the position hash.
type table struct {
	table      []*node
	mask       uint64
	used       uint64
	generation uberatomic.Uint32
	hits       uberatomic.Uint64
	misses     uberatomic.Uint64
	overwrites uberatomic.Uint64
}

// NewTranspositionTable allocates a table sized to roughly size bytes, rounded down to a power
// of two slot count (§4.4).
func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	n := uint64(1 << (63 - 5 - bits.LeadingZeros64(size)))

	logw.Infof(ctx, "Allocating %vMB transposition table with %v entries", size>>20, n)

	return &table{
		table: make([]*node, n),
		mask:  n - 1,
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.table)) << 5
}

func (t *table) Used() float64 {
	return float64(t.used) / float64(len(t.table))
}

func (t *table) NextGeneration() uint32 {
	return t.generation.Add(1)
}

func (t *table) Read(hash rules.ZobristHash) (Bound, int, eval.Score, rules.PackedMove, bool) {
	key := hash & t.mask
	addr := (*unsafe.Pointer)(unsafe.Pointer(&t.table[key]))

	ptr := (*node)(atomic.LoadPointer(addr))
	if ptr != nil && hash == ptr.hash {
		t.hits.Add(1)
		return ptr.md.bound, int(ptr.md.depth), ptr.score, ptr.move, true
	}
	t.misses.Add(1)
	return 0, 0, 0, 0, false
}

// Write stores the entry, replacing whatever is there if the existing entry is shallower than
// depth or was written at least two generations ago (§4.4): a deeper result always wins, and a
// shallow-but-fresh result is kept over an even-shallower stale one only until it ages out.
func (t *table) Write(hash rules.ZobristHash, bound Bound, depth int, score eval.Score, move rules.PackedMove, generation uint32) bool {
	key := hash & t.mask
	addr := (*unsafe.Pointer)(unsafe.Pointer(&t.table[key]))

	fresh := &node{
		hash:  hash,
		score: score,
		move:  move,
		md: metadata{
			bound:      bound,
			depth:      uint16(depth),
			generation: generation,
		},
	}

	ptr := (*node)(atomic.LoadPointer(addr))
	for {
		if ptr != nil && !shouldReplace(ptr, depth, generation) {
			return false
		}
		if atomic.CompareAndSwapPointer(addr, unsafe.Pointer(ptr), unsafe.Pointer(fresh)) {
			if ptr == nil {
				t.used++
			} else {
				t.overwrites.Add(1)
			}
			return true
		}
		ptr = (*node)(atomic.LoadPointer(addr))
	}
}

func shouldReplace(existing *node, depth int, generation uint32) bool {
	return depth > int(existing.md.depth) || generation >= existing.md.generation+2
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%v @ %v%%]", t.Size(), int(100*t.Used()))
}

// Stats reports cumulative hit/miss/overwrite counters alongside current fill, useful for
// profiling search efficiency (§12 item 4).
type Stats struct {
	Hits, Misses, Overwrites uint64
	Fill                     float64
}

func (t *table) statsSnapshot() Stats {
	return Stats{
		Hits:       t.hits.Load(),
		Misses:     t.misses.Load(),
		Overwrites: t.overwrites.Load(),
		Fill:       t.Used(),
	}
}

// StatsOf returns the cumulative Stats of tt, if it exposes them.
func StatsOf(tt TranspositionTable) (Stats, bool) {
	if t, ok := tt.(*table); ok {
		return t.statsSnapshot(), true
	}
	return Stats{}, false
}

// WriteFilter is a predicate on the Write operation.
type WriteFilter func(hash rules.ZobristHash, bound Bound, depth int, score eval.Score, move rules.PackedMove, generation uint32) bool

// WriteLimited is a TranspositionTable wrapper that ignores certain writes, such as less than a
// given minimum depth.
type WriteLimited struct {
	Filter WriteFilter
	TT     TranspositionTable
}

func (w WriteLimited) Read(hash rules.ZobristHash) (Bound, int, eval.Score, rules.PackedMove, bool) {
	return w.TT.Read(hash)
}

func (w WriteLimited) Write(hash rules.ZobristHash, bound Bound, depth int, score eval.Score, move rules.PackedMove, generation uint32) bool {
	if w.Filter(hash, bound, depth, score, move, generation) {
		return false
	}
	return w.TT.Write(hash, bound, depth, score, move, generation)
}

func (w WriteLimited) NextGeneration() uint32 {
	return w.TT.NextGeneration()
}

func (w WriteLimited) Size() uint64 {
	return w.TT.Size()
}

func (w WriteLimited) Used() float64 {
	return w.TT.Used()
}

// NewMinDepthTranspositionTable creates depth-limited TranspositionTables.
func NewMinDepthTranspositionTable(min int) TranspositionTableFactory {
	return func(ctx context.Context, size uint64) TranspositionTable {
		return WriteLimited{
			Filter: func(hash rules.ZobristHash, bound Bound, depth int, score eval.Score, move rules.PackedMove, generation uint32) bool {
				return depth < min
			},
			TT: NewTranspositionTable(ctx, size),
		}
	}
}

// NoTranspositionTable is a Nop implementation.
type NoTranspositionTable struct{}

func (n NoTranspositionTable) Read(hash rules.ZobristHash) (Bound, int, eval.Score, rules.PackedMove, bool) {
	return 0, 0, 0, 0, false
}

func (n NoTranspositionTable) Write(hash rules.ZobristHash, bound Bound, depth int, score eval.Score, move rules.PackedMove, generation uint32) bool {
	return false
}

func (n NoTranspositionTable) NextGeneration() uint32 {
	return 0
}

func (n NoTranspositionTable) Size() uint64 {
	return 0
}

func (n NoTranspositionTable) Used() float64 {
	return 0
}
