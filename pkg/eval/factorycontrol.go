package eval

import "github.com/tilecanon/azulcore/pkg/rules"

// FactoryControlParity is the supplemented factory-control signal (§12 item 3, grounded on
// azul_factory_control.py's _has_wall_placement_for_color): for each color still draftable
// somewhere in play, it rewards the player for retaining an open wall slot for that color while
// some opponent no longer has one, and penalizes the reverse. It is a small, already-symmetric
// term (self minus opponents), added once rather than computed per-player like the other terms.
func FactoryControlParity(pos *rules.Position, player int) Score {
	supply := colorSupply(pos)
	n := pos.NumPlayers()

	var parity Score
	for c := rules.Color(0); c < rules.NumColors; c++ {
		if supply[c] == 0 {
			continue // color isn't draftable right now: no control to contest.
		}

		selfOpen := pos.Boards[player].Wall.ColorsNeeding()[c] > 0

		var oppOpen int
		for p := 0; p < n; p++ {
			if p == player {
				continue
			}
			if pos.Boards[p].Wall.ColorsNeeding()[c] > 0 {
				oppOpen++
			}
		}

		switch {
		case selfOpen && oppOpen < n-1:
			parity++
		case !selfOpen && oppOpen > 0:
			parity--
		}
	}
	return parity
}
