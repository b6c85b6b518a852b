package profiling

import "time"

// Budget names one of the latency ceilings from §4.8's operation table.
type Budget struct {
	Name string
	Max  time.Duration
}

// Standard budgets, matching §4.8's table exactly. AlphaBetaDepth3, MCTSHint and EndgameSingle
// are typical-case ceilings measured under the controlled test positions the profiler runs
// against, not worst-case proofs.
var (
	MoveGeneration  = Budget{Name: "move_generation", Max: 50 * time.Microsecond}
	Evaluator       = Budget{Name: "evaluator", Max: 100 * time.Microsecond}
	AlphaBetaDepth3 = Budget{Name: "alpha_beta_depth3", Max: 4 * time.Second}
	MCTSHint        = Budget{Name: "mcts_hint", Max: 200 * time.Millisecond}
	EndgameSingle   = Budget{Name: "endgame_single_position", Max: 100 * time.Millisecond}

	// ResidentMemory is reported in bytes, not a duration, and checked separately via MemoryReport.
	ResidentMemoryMax uint64 = 2 << 30
)
