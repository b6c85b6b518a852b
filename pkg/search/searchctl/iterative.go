package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/tilecanon/azulcore/pkg/rules"
	"github.com/tilecanon/azulcore/pkg/search"
)

// Iterative is a search harness that repeatedly calls Root at increasing depth until the depth
// limit is reached, the time budget expires, or the caller halts it (§4.5).
type Iterative struct {
	Root search.Search
	// Clock times each depth iteration and the overall search budget (§6 collaborators). If nil,
	// NewSystemClock is used.
	Clock Clock
}

func (i *Iterative) Launch(ctx context.Context, pos *rules.Position, player int, tt search.TranspositionTable, opt Options) (Handle, <-chan search.PV) {
	clock := i.Clock
	if clock == nil {
		clock = NewSystemClock()
	}

	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, i.Root, pos, player, tt, opt, clock, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, root search.Search, pos *rules.Position, player int, tt search.TranspositionTable, opt Options, clock Clock, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	sctx := &search.Context{TT: tt}
	budget, useBudget := EnforceTimeControl(ctx, h, opt.MaxTime)

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	depth := 1
	started := clock.NowMillis()
	for !h.quit.IsClosed() {
		start := clock.NowMillis()

		nodes, score, moves, err := root.Search(wctx, sctx, pos, player, depth)
		if err != nil {
			if err == search.ErrHalted {
				return // Halt was called, or the time/depth budget expired mid-search.
			}
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", pos, depth, err)
			return
		}

		pv := search.PV{
			Depth: depth,
			Nodes: nodes,
			Score: score,
			Moves: moves,
			Time:  time.Duration(clock.NowMillis()-start) * time.Millisecond,
		}

		logw.Debugf(ctx, "Searched %v: %v", pos, pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached max depth
		}
		if useBudget && budget < time.Duration(clock.NowMillis()-started)*time.Millisecond {
			return // halt: exceeded the search's overall time budget
		}
		depth++
	}
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
