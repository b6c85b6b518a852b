package searchctl

import (
	"context"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// EnforceTimeControl arms a hard halt at MaxTime, if set, and returns the soft limit after which
// no new iterative-deepening depth should be started. Unlike a chess clock, Azul's contract
// budgets a single max_time per search call rather than splitting a remaining-time pool across
// moves-to-go, so soft and hard limits here are the same duration (§4.5).
func EnforceTimeControl(ctx context.Context, h Handle, maxTime lang.Optional[time.Duration]) (time.Duration, bool) {
	budget, ok := maxTime.V()
	if !ok {
		return 0, false
	}

	time.AfterFunc(budget, func() {
		h.Halt()
	})

	logw.Debugf(ctx, "Time control budget: %v", budget)
	return budget, true
}
