package search_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tilecanon/azulcore/pkg/eval"
	"github.com/tilecanon/azulcore/pkg/rules"
	"github.com/tilecanon/azulcore/pkg/search"
)

func TestTranspositionTableSizingUsesMSBOnly(t *testing.T) {
	ctx := context.Background()

	tt := search.NewTranspositionTable(ctx, 0x1000)
	assert.Equal(t, uint64(0x1000), tt.Size())

	tt2 := search.NewTranspositionTable(ctx, 0x1f00)
	assert.Equal(t, uint64(0x1000), tt2.Size())
}

func TestTranspositionTableReadWrite(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 0x1000)

	a := rules.ZobristHash(rand.Uint64())

	_, _, _, _, ok := tt.Read(a)
	assert.False(t, ok)

	m := rules.Move{Source: rules.Source(1), Color: rules.Blue, Dest: rules.Dest(2)}.Pack()
	s := eval.Score(2)

	gen := tt.NextGeneration()
	assert.True(t, tt.Write(a, search.ExactBound, 5, s, m, gen))

	bound, depth, score, move, ok := tt.Read(a)
	assert.True(t, ok)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 5, depth)
	assert.Equal(t, s, score)
	assert.Equal(t, m, move)

	_, _, _, _, ok = tt.Read(a ^ 0xff0000)
	assert.False(t, ok)
}

func TestTranspositionTableReplacementPolicy(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 0x1000)

	a := rules.ZobristHash(rand.Uint64())
	m := rules.Move{Source: rules.CenterSource, Color: rules.Red, Dest: rules.Floor}.Pack()

	gen := tt.NextGeneration()
	assert.True(t, tt.Write(a, search.ExactBound, 4, eval.Score(1), m, gen))

	// Shallower write in the same generation window does not replace.
	assert.False(t, tt.Write(a, search.ExactBound, 3, eval.Score(2), m, gen))

	// Deeper write in the same generation replaces.
	assert.True(t, tt.Write(a, search.ExactBound, 5, eval.Score(3), m, gen))

	// A shallower write from a generation at least two ahead replaces anyway (staleness wins).
	assert.True(t, tt.Write(a, search.ExactBound, 1, eval.Score(4), m, gen+2))
}

func TestTranspositionTableStats(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 0x1000)

	a := rules.ZobristHash(1)
	m := rules.Move{Source: rules.Source(0), Color: rules.Black, Dest: rules.Dest(0)}.Pack()

	tt.Read(a) // miss
	gen := tt.NextGeneration()
	tt.Write(a, search.ExactBound, 2, eval.Score(0), m, gen)
	tt.Read(a) // hit

	stats, ok := search.StatsOf(tt)
	require := assert.New(t)
	require.True(ok)
	require.Equal(uint64(1), stats.Hits)
	require.Equal(uint64(1), stats.Misses)
	require.Greater(stats.Fill, 0.0)
}

func TestNoTranspositionTableNeverHits(t *testing.T) {
	var tt search.NoTranspositionTable
	_, _, _, _, ok := tt.Read(rules.ZobristHash(7))
	assert.False(t, ok)
	assert.False(t, tt.Write(rules.ZobristHash(7), search.ExactBound, 1, 0, 0, 1))
}
