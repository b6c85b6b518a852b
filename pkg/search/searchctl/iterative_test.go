package searchctl_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/tilecanon/azulcore/pkg/eval"
	"github.com/tilecanon/azulcore/pkg/rules"
	"github.com/tilecanon/azulcore/pkg/search"
	"github.com/tilecanon/azulcore/pkg/search/searchctl"
)

func TestIterativeStopsAtDepthLimit(t *testing.T) {
	ctx := context.Background()
	pos, err := rules.NewInitialPosition(3, 2)
	require.NoError(t, err)

	launcher := &searchctl.Iterative{Root: search.AlphaBeta{Eval: eval.NewComposite()}}
	tt := search.NewTranspositionTable(ctx, 1<<16)

	opt := searchctl.Options{DepthLimit: lang.Some(uint(3))}
	h, out := launcher.Launch(ctx, pos, pos.ToMove, tt, opt)

	var last search.PV
	for pv := range out {
		last = pv
	}
	assert.Equal(t, 3, last.Depth)
	assert.NotEmpty(t, last.Moves)

	// Halt after exhaustion is idempotent and returns the same result.
	final := h.Halt()
	assert.Equal(t, last.Depth, final.Depth)
}

func TestIterativeStopsAtTimeBudget(t *testing.T) {
	ctx := context.Background()
	pos, err := rules.NewInitialPosition(5, 4)
	require.NoError(t, err)

	launcher := &searchctl.Iterative{Root: search.AlphaBeta{Eval: eval.NewComposite()}}
	tt := search.NewTranspositionTable(ctx, 1<<16)

	opt := searchctl.Options{MaxTime: lang.Some(20 * time.Millisecond)}
	start := time.Now()
	h, out := launcher.Launch(ctx, pos, pos.ToMove, tt, opt)

	for range out {
	}
	pv := h.Halt()

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.NotEmpty(t, pv.Moves)
}

func TestIterativeHaltReturnsBestSoFar(t *testing.T) {
	ctx := context.Background()
	pos, err := rules.NewInitialPosition(9, 3)
	require.NoError(t, err)

	launcher := &searchctl.Iterative{Root: search.AlphaBeta{Eval: eval.NewComposite()}}
	tt := search.NewTranspositionTable(ctx, 1<<16)

	h, out := launcher.Launch(ctx, pos, pos.ToMove, tt, searchctl.Options{})

	<-out // wait for the first depth to complete before halting
	pv := h.Halt()

	assert.NotEmpty(t, pv.Moves)
	assert.GreaterOrEqual(t, pv.Depth, 1)
}
