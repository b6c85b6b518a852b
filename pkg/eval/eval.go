// Package eval contains static position evaluation for a given player (§4.3).
package eval

import (
	"context"

	"github.com/tilecanon/azulcore/pkg/rules"
)

// Evaluator is a static position evaluator from the perspective of one player.
type Evaluator interface {
	Evaluate(ctx context.Context, pos *rules.Position, player int) Score
}

// Weights are the fixed combination weights for Composite's terms (§4.3).
type Weights struct {
	RealizedScore    float32
	PatternPotential float32
	FloorExposure    float32
	EndgamePotential float32
	FactoryControl   float32
}

// DefaultWeights favors banked score heavily, treats pattern-line and floor-line pressure as
// near-term tactical signal, and discounts endgame potential and factory control as soft
// tie-breaking nudges (§4.3, §12 item 3).
var DefaultWeights = Weights{
	RealizedScore:    1.0,
	PatternPotential: 1.0,
	FloorExposure:    1.0,
	EndgamePotential: 0.5,
	FactoryControl:   0.1,
}

// Composite combines realized score, pattern-potential, floor-exposure and endgame-potential
// for the player, subtracts the same computation for the opponent(s), and adds the
// factory-control parity nudge (§4.3 items 1-5, §12 item 3).
type Composite struct {
	Weights Weights
}

// NewComposite returns a Composite evaluator using DefaultWeights.
func NewComposite() Composite {
	return Composite{Weights: DefaultWeights}
}

func (c Composite) Evaluate(_ context.Context, pos *rules.Position, player int) Score {
	self := c.playerTerms(pos, player)

	n := pos.NumPlayers()
	var oppSum Score
	for p := 0; p < n; p++ {
		if p == player {
			continue
		}
		oppSum += c.playerTerms(pos, p)
	}
	// With more than one opponent (3-4 player games), the symmetric term uses the average
	// opponent score rather than a single named rival, since the spec's two-player framing
	// (§4.3 item 5) doesn't pick one (§9 open questions call out similar ambiguity elsewhere).
	opp := oppSum / Score(n-1)

	score := self - opp + Score(c.Weights.FactoryControl)*FactoryControlParity(pos, player)
	return Crop(score)
}

func (c Composite) playerTerms(pos *rules.Position, player int) Score {
	w := c.Weights
	return Score(w.RealizedScore)*RealizedScore(pos, player) +
		Score(w.PatternPotential)*PatternPotential(pos, player) +
		Score(w.FloorExposure)*FloorExposure(pos, player) +
		Score(w.EndgamePotential)*EndgamePotential(pos, player)
}

// RealizedScore returns the player's banked score (§4.3 item 1).
func RealizedScore(pos *rules.Position, player int) Score {
	return Score(pos.Boards[player].Score)
}
