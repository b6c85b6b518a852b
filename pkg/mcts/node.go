package mcts

import (
	"math"
	"sort"

	"github.com/tilecanon/azulcore/pkg/eval"
	"github.com/tilecanon/azulcore/pkg/movegen"
	"github.com/tilecanon/azulcore/pkg/rules"
)

// priorFn optionally ranks a position's untried moves, so expansion tries the policy's favored
// moves first instead of in generator order (§4.6, RolloutPolicy.Prior).
type priorFn func(pos *rules.Position) (map[rules.PackedMove]float32, bool)

// node is one UCT tree node (§4.6). Every node's accumulated value is kept from the perspective
// of the root search's player, never the node's own side to move: this turns move selection at
// an opponent's node into a minimization rather than a sign flip, which generalizes cleanly to
// Azul's 3-4 player case where there is no single "the opponent" to negate against (a paranoid
// assumption -- every non-root seat is modeled as adversarial toward the root player, a standard
// simplification for multiplayer game-tree search).
type node struct {
	pos    *rules.Position
	parent *node
	move   rules.PackedMove // move applied to parent.pos to reach this node

	children []*node
	untried  []rules.PackedMove

	visits   uint64
	valueSum float64

	prior priorFn
}

func newNode(pos *rules.Position, parent *node, move rules.PackedMove, prior priorFn) *node {
	n := &node{
		pos:     pos,
		parent:  parent,
		move:    move,
		untried: movegen.Generate(pos, nil),
		prior:   prior,
	}
	n.rankUntried()
	return n
}

// rankUntried sorts untried ascending by prior weight (default zero), so expandOne -- which pops
// from the end -- tries the policy's most favored move first.
func (n *node) rankUntried() {
	if n.prior == nil {
		return
	}
	weights, ok := n.prior(n.pos)
	if !ok {
		return
	}
	sort.SliceStable(n.untried, func(i, j int) bool {
		return weights[n.untried[i]] < weights[n.untried[j]]
	})
}

func (n *node) q() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.valueSum / float64(n.visits)
}

func (n *node) isTerminal() bool {
	return n.pos.IsTerminal()
}

func (n *node) isFullyExpanded() bool {
	return len(n.untried) == 0
}

// selectLeaf walks down the tree from n, expanding the first untried move it meets and
// returning the freshly expanded node; if every node along the way is already fully expanded it
// descends by UCB1 until it reaches a genuine leaf or a terminal position (§4.6).
func (n *node) selectLeaf(player int, explore float64) *node {
	cur := n
	for !cur.isTerminal() {
		if !cur.isFullyExpanded() {
			return cur.expandOne()
		}
		if len(cur.children) == 0 {
			return cur // no legal moves and not flagged terminal: treat as a leaf defensively.
		}
		cur = cur.bestChild(player, explore)
	}
	return cur
}

func (n *node) expandOne() *node {
	pm := n.untried[len(n.untried)-1]
	n.untried = n.untried[:len(n.untried)-1]

	next, err := n.pos.Apply(pm.Unpack())
	if err != nil {
		return n // defensive: Generate never produces an illegal move (§8).
	}

	child := newNode(next, n, pm, n.prior)
	n.children = append(n.children, child)
	return child
}

// bestChild picks the UCB1-maximizing child when it is the root player's turn at n, or the
// UCB1-minimizing child (from the root player's perspective) otherwise.
func (n *node) bestChild(player int, explore float64) *node {
	maximize := n.pos.ToMove == player

	var best *node
	var bestScore float64
	for _, c := range n.children {
		exploitation := c.q()
		if !maximize {
			exploitation = -exploitation
		}
		exploration := explore * math.Sqrt(math.Log(float64(n.visits))/float64(c.visits))
		score := exploitation + exploration

		if best == nil || score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}

// backpropagate adds value to n and every ancestor, walking from n up to the root.
func (n *node) backpropagate(value eval.Score) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.visits++
		cur.valueSum += float64(value)
	}
}

// mostVisitedChild implements the §6 "best_move = argmax visits" selection rule.
func (n *node) mostVisitedChild() *node {
	var best *node
	for _, c := range n.children {
		if best == nil || c.visits > best.visits {
			best = c
		}
	}
	return best
}
