// Package searchctl drives iteratively-deepening search against a wall-clock and/or depth
// budget, on top of the fixed-depth primitives in package search (§4.5 top-level contract).
package searchctl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/tilecanon/azulcore/pkg/rules"
	"github.com/tilecanon/azulcore/pkg/search"
)

// Options hold the dynamic per-search knobs exposed to callers: a ply depth cap and/or a
// wall-clock budget (§4.5: max_depth, max_time). Either, both, or neither may be set; with
// neither set the search runs until Halt is called.
type Options struct {
	DepthLimit lang.Optional[uint]
	MaxTime    lang.Optional[time.Duration]
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.MaxTime.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher manages iteratively-deepening searches.
type Launcher interface {
	// Launch a new search from pos for player. It returns a PV channel for iteratively deeper
	// searches; the channel is closed once the search is exhausted. The search can be stopped
	// at any time via the returned Handle.
	Launch(ctx context.Context, pos *rules.Position, player int, tt search.TranspositionTable, opt Options) (Handle, <-chan search.PV)
}

// Handle is an interface for the engine to manage searches. The engine is expected to spin off
// searches from forked positions and close/abandon them when no longer needed.
type Handle interface {
	// Halt halts the search, if running. Idempotent.
	Halt() search.PV
}
