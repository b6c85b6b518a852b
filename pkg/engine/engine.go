// Package engine is the top-level facade over the Azul core (§6): a stateful wrapper suited to
// an interactive caller (console, UCI-style loop) built on top of the stateless package-level
// functions that mirror the spec's external interface directly.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/tilecanon/azulcore/pkg/endgame"
	"github.com/tilecanon/azulcore/pkg/eval"
	"github.com/tilecanon/azulcore/pkg/mcts"
	"github.com/tilecanon/azulcore/pkg/movegen"
	"github.com/tilecanon/azulcore/pkg/rules"
	"github.com/tilecanon/azulcore/pkg/search"
	"github.com/tilecanon/azulcore/pkg/search/searchctl"
)

var version = build.NewVersion(0, 1, 0)

// Options are engine creation/runtime options (§6, analogous to search_alpha_beta's knobs).
type Options struct {
	// Depth is the search depth limit. If zero, there is no limit. Overridden by search
	// options if provided.
	Depth uint
	// Hash is the transposition table size in MB. If zero, the engine will not use a
	// transposition table.
	Hash uint
	// Noise adds some millipoint randomness to leaf evaluations, to break ties.
	Noise uint
	// EndgameThreshold is K from §4.7; zero selects endgame.DefaultThreshold.
	EndgameThreshold int
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, noise=%v, endgame_threshold=%v}", o.Depth, o.Hash, o.Noise, o.EndgameThreshold)
}

// Engine encapsulates game state, search and evaluation for one in-progress game (§6, §5:
// single-threaded by default; the mutex below only protects against concurrent external calls,
// not internal search parallelism, of which there is none).
type Engine struct {
	name, author string

	launcher searchctl.Launcher
	factory  search.TranspositionTableFactory
	clock    searchctl.Clock
	seed     int64
	opts     Options

	pos    *rules.Position
	tt     search.TranspositionTable
	noise  eval.Random
	db     *endgame.DB
	active searchctl.Handle
	mu     sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithTable configures the engine to use the given transposition table factory.
func WithTable(factory search.TranspositionTableFactory) Option {
	return func(e *Engine) { e.factory = factory }
}

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithZobrist configures the engine to use the given RNG seed for bag shuffling and evaluation
// noise, instead of the default seed of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithClock configures the time source iterative-deepening search uses to track its per-depth and
// overall time budget (§6 collaborators), letting tests substitute a fake clock without sleeping.
// Defaults to searchctl.NewSystemClock.
func WithClock(clock searchctl.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// New constructs an engine around root (typically search.AlphaBeta), starting at the initial
// position for a two-player game.
func New(ctx context.Context, name, author string, root search.Search, opts ...Option) (*Engine, error) {
	e := &Engine{
		name:    name,
		author:  author,
		factory: search.NewTranspositionTable,
		clock:   searchctl.NewSystemClock(),
	}
	for _, fn := range opts {
		fn(e)
	}
	e.launcher = &searchctl.Iterative{Root: root, Clock: e.clock}
	e.db = endgame.New(e.opts.EndgameThreshold)

	if err := e.Reset(ctx, e.seed, 2); err != nil {
		return nil, err
	}

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e, nil
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Depth = depth
}

func (e *Engine) SetHash(sizeMB uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Hash = sizeMB
}

func (e *Engine) SetNoise(millipoints uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Noise = millipoints
}

// Position returns the current position in the textual wire format (§6). Convenience function.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos.EncodeText()
}

// Reset starts a fresh game at the initial position for the given seed and player count
// (§6: initial_position).
func (e *Engine) Reset(ctx context.Context, seed int64, players int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset seed=%v players=%v, depth=%v, TT=%vMB, noise=%vmp", seed, players, e.opts.Depth, e.opts.Hash, e.opts.Noise)

	_, _ = e.haltSearchIfActive(ctx)

	pos, err := rules.NewInitialPosition(seed, players)
	if err != nil {
		return err
	}
	e.pos = pos

	e.tt = search.NoTranspositionTable{}
	if e.opts.Hash > 0 {
		e.tt = e.factory(ctx, uint64(e.opts.Hash)<<20)
	}
	e.noise = eval.Random{}
	if e.opts.Noise > 0 {
		e.noise = eval.NewRandom(int(e.opts.Noise), uint64(seed))
	}

	logw.Infof(ctx, "New position: %v", e.pos)
	return nil
}

// ResetFromText restores a position previously captured with Position (§6 wire format).
func (e *Engine) ResetFromText(ctx context.Context, encoded string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _ = e.haltSearchIfActive(ctx)

	pos, err := rules.DecodeText(encoded)
	if err != nil {
		return err
	}
	e.pos = pos
	return nil
}

// Move applies a move to the current position, usually an opponent move (§6: apply_move).
func (e *Engine) Move(ctx context.Context, m rules.Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _ = e.haltSearchIfActive(ctx)

	next, err := e.pos.Apply(m)
	if err != nil {
		return fmt.Errorf("illegal move: %w", err)
	}
	e.pos = next

	logw.Infof(ctx, "Move %v: %v", m, e.pos)
	return nil
}

// LegalMoves returns every legal move from the current position (§6: legal_moves).
func (e *Engine) LegalMoves() []rules.Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	return movegen.GenerateMoves(e.pos)
}

func (e *Engine) evaluator() eval.Evaluator {
	return noisyEvaluator{base: eval.NewComposite(), noise: e.noise}
}

// Evaluate scores the current position from perspective's point of view (§6: evaluate).
func (e *Engine) Evaluate(ctx context.Context, perspective int) eval.Score {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evaluator().Evaluate(ctx, e.pos, perspective)
}

// PositionHash returns the Zobrist hash of the current position (§6: position_hash).
func (e *Engine) PositionHash() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return uint64(e.pos.Hash())
}

// SearchAlphaBeta runs a fixed-depth alpha-beta search synchronously from the current position
// (§6: search_alpha_beta). For iteratively-deepening, cancelable search, use Analyze/Halt
// instead.
func (e *Engine) SearchAlphaBeta(ctx context.Context, depth int) (search.PV, error) {
	e.mu.Lock()
	pos := e.pos
	tt := e.tt
	a := search.AlphaBeta{Eval: e.evaluator()}
	e.mu.Unlock()

	sctx := &search.Context{TT: tt}
	nodes, score, moves, err := a.Search(ctx, sctx, pos, pos.ToMove, depth)
	if err != nil {
		return search.PV{}, err
	}
	return search.PV{Depth: depth, Moves: moves, Score: score, Nodes: nodes}, nil
}

// SearchMCTS runs Monte-Carlo tree search synchronously from the current position (§6:
// search_mcts).
func (e *Engine) SearchMCTS(ctx context.Context, policy mcts.RolloutPolicy, rng mcts.Rng, opt mcts.Options) mcts.Result {
	e.mu.Lock()
	pos := e.pos
	e.mu.Unlock()

	s := mcts.Search{Rollout: policy, Rng: rng}
	return s.Run(ctx, pos, pos.ToMove, opt)
}

// EndgameLookup returns a previously solved endgame entry for the current position, if any
// (§6: endgame_lookup).
func (e *Engine) EndgameLookup() (endgame.Entry, bool) {
	e.mu.Lock()
	pos := e.pos
	e.mu.Unlock()
	return e.db.Lookup(pos)
}

// EndgameSolve solves the current position exactly via retrograde analysis (§6: endgame_solve).
func (e *Engine) EndgameSolve(ctx context.Context, maxDepth int) (endgame.Entry, error) {
	e.mu.Lock()
	pos := e.pos
	e.mu.Unlock()
	return e.db.Solve(ctx, pos, maxDepth)
}

// Analyze launches an iteratively-deepening search on the current position (§4.5 top-level
// contract).
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.pos, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	handle, out := e.launcher.Launch(ctx, e.pos.Clone(), e.pos.ToMove, e.tt, opt)
	e.active = handle
	return out, nil
}

// Halt halts the active search and returns the principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search %v halted: %v", e.pos, pv)

		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}

// noisyEvaluator adds a small randomized tie-breaking term to a base evaluator's score, the same
// role eval.Random plays at the leaves of the teacher's alpha-beta search.
type noisyEvaluator struct {
	base  eval.Evaluator
	noise eval.Random
}

func (n noisyEvaluator) Evaluate(ctx context.Context, pos *rules.Position, player int) eval.Score {
	return n.base.Evaluate(ctx, pos, player) + n.noise.Evaluate(ctx, pos, player)
}
