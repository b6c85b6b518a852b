package rules

// placementScore computes the scoring for a tile just placed at (row, col) on the given wall,
// which must already have that cell set. Resolves §9 Open Question 1 per the rule stated in
// §4.1: each direction with no neighbor contributes 1 for the placed tile alone; a direction
// with neighbors contributes the full contiguous run length (including the placed tile); the
// two contributions are summed but the placed tile itself is never counted twice.
func placementScore(wall WallMask, row, col int) int {
	rowRun := contiguousRun(wall, row, col, true)
	colRun := contiguousRun(wall, row, col, false)

	switch {
	case rowRun <= 1 && colRun <= 1:
		return 1
	case colRun <= 1:
		return rowRun
	case rowRun <= 1:
		return colRun
	default:
		return rowRun + colRun - 1
	}
}

func contiguousRun(wall WallMask, row, col int, alongRow bool) int {
	count := 1
	if alongRow {
		for c := col - 1; c >= 0 && wall.IsSet(row, c); c-- {
			count++
		}
		for c := col + 1; c < NumPatternLines && wall.IsSet(row, c); c++ {
			count++
		}
		return count
	}
	for r := row - 1; r >= 0 && wall.IsSet(r, col); r-- {
		count++
	}
	for r := row + 1; r < NumPatternLines && wall.IsSet(r, col); r++ {
		count++
	}
	return count
}

// runWallTiling performs the WALL-TILING phase (§4.1): for each player, each full pattern line
// moves one tile to the wall and scores, floor penalties apply, and the round either resets or
// the game ends. WallTiling is never observed by callers between Apply invocations -- the phase
// flag is set and resolved within a single call, matching §3's phase enumeration while keeping
// the externally visible state machine exactly Drafting <-> GameOver.
func (p *Position) runWallTiling() {
	p.setPhase(WallTiling)

	nextStarter := p.ToMove
	for player := range p.Boards {
		p.tileWallForPlayer(player)
		p.applyFloorPenalty(player)

		if p.Boards[player].FloorMarker {
			nextStarter = player
			p.setFloorMarker(player, false)
		}
	}
	p.setCenterMarker(true)

	if p.anyRowFilled() {
		p.applyFinalBonuses()
		p.setPhase(GameOver)
		return
	}

	for i := range p.Factories {
		p.refillFactory(i)
	}
	p.setToMove(nextStarter)
	p.setPhase(Drafting)
}

func (p *Position) tileWallForPlayer(player int) {
	for line := 0; line < NumPatternLines; line++ {
		ln := p.Boards[player].Lines[line]
		if ln.Color == NoColor || int(ln.Fill) != LineCapacity(line) {
			continue
		}

		row, col := line, WallCol(line, ln.Color)
		p.setWallCell(player, row, col)
		p.Boards[player].Score += placementScore(p.Boards[player].Wall, row, col)

		discarded := LineCapacity(line) - 1
		p.setDiscardCount(ln.Color, p.Discard[ln.Color]+uint8(discarded))
		p.setLine(player, line, NoColor, 0)
	}
}

// applyFloorPenalty charges the penalty schedule (§4.1) for every occupied floor slot, including
// the first-player marker when held: the marker sits on the floor line like any other penalized
// tile (original_source/azul_rule_validator.py:221, azul_endgame.py:157).
func (p *Position) applyFloorPenalty(player int) {
	floor := p.Boards[player].Floor
	occupied := len(floor)
	if p.Boards[player].FloorMarker {
		occupied++
	}

	penalty := 0
	for i := 0; i < occupied && i < len(FloorPenalty); i++ {
		penalty += FloorPenalty[i]
	}

	score := p.Boards[player].Score + penalty
	if score < 0 {
		score = 0
	}
	p.Boards[player].Score = score

	for _, c := range floor {
		p.setDiscardCount(c, p.Discard[c]+1)
	}
	p.clearFloor(player)
}

func (p *Position) anyRowFilled() bool {
	for _, b := range p.Boards {
		for row := 0; row < NumPatternLines; row++ {
			if b.Wall.RowFilled(row) {
				return true
			}
		}
	}
	return false
}

// applyFinalBonuses adds the end-of-game bonuses (§4.1): +2 per full row, +7 per full column,
// +10 per complete color set of five (§9 Open Question 2: the standard interpretation).
func (p *Position) applyFinalBonuses() {
	for player := range p.Boards {
		wall := p.Boards[player].Wall
		bonus := 0
		for row := 0; row < NumPatternLines; row++ {
			if wall.RowFilled(row) {
				bonus += 2
			}
		}
		for col := 0; col < NumPatternLines; col++ {
			if wall.ColFilled(col) {
				bonus += 7
			}
		}
		for c := Color(0); c < NumColors; c++ {
			if wall.ColorFilled(c) {
				bonus += 10
			}
		}
		p.Boards[player].Score += bonus
	}
}
