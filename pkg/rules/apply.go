package rules

// Apply returns the successor position after playing m, or an IllegalMoveError if m violates a
// precondition from §4.1. The receiver is never mutated; apply always produces a new value.
func (p *Position) Apply(m Move) (*Position, error) {
	if p.Phase != Drafting {
		return nil, &IllegalMoveError{Move: m, Reason: NoSuchSource}
	}
	if !m.Color.IsValid() || m.Dest >= NumDests {
		return nil, &IllegalMoveError{Move: m, Reason: NoSuchColorInSource}
	}

	next := p.Clone()
	player := p.ToMove

	n, err := next.draft(m)
	if err != nil {
		return nil, err
	}

	if err := next.place(player, m, n); err != nil {
		return nil, err
	}

	next.setToMove((player + 1) % len(next.Boards))

	if next.roundIsOver() {
		next.runWallTiling()
	}
	return next, nil
}

// draft removes all tiles of m.Color from m.Source, spilling a factory's remaining tiles to the
// center and transferring the first-player marker on a first center draft (§4.1 steps 1-2).
func (p *Position) draft(m Move) (uint8, error) {
	if m.Source.IsCenter() {
		n := p.Center.Counts[m.Color]
		if n == 0 {
			return 0, &IllegalMoveError{Move: m, Reason: NoSuchColorInSource}
		}
		p.setCenterCount(m.Color, 0)

		if p.Center.Marker {
			p.setCenterMarker(false)
			p.setFloorMarker(p.ToMove, true)
		}
		return n, nil
	}

	idx := int(m.Source)
	if idx < 0 || idx >= len(p.Factories) {
		return 0, &IllegalMoveError{Move: m, Reason: NoSuchSource}
	}
	n := p.Factories[idx].Counts[m.Color]
	if n == 0 {
		return 0, &IllegalMoveError{Move: m, Reason: NoSuchColorInSource}
	}
	p.setFactoryCount(idx, m.Color, 0)

	for c := Color(0); c < NumColors; c++ {
		if c == m.Color {
			continue
		}
		if rem := p.Factories[idx].Counts[c]; rem > 0 {
			p.setCenterCount(c, p.Center.Counts[c]+rem)
			p.setFactoryCount(idx, c, 0)
		}
	}
	return n, nil
}

// place delivers n drafted tiles of m.Color to m.Dest for the given player (§4.1 steps 3-4).
func (p *Position) place(player int, m Move, n uint8) error {
	if !m.Dest.IsLine() {
		p.spillToFloor(player, m.Color, n)
		return nil
	}

	line := int(m.Dest)
	existing := p.Boards[player].Lines[line]
	if existing.Color != NoColor && existing.Color != m.Color {
		return &IllegalMoveError{Move: m, Reason: LineColorMismatch}
	}

	row, col := line, WallCol(line, m.Color)
	if p.Boards[player].Wall.IsSet(row, col) {
		return &IllegalMoveError{Move: m, Reason: WallAlreadyHasColor}
	}

	space := LineCapacity(line) - int(existing.Fill)
	placed := n
	if int(placed) > space {
		placed = uint8(space)
	}
	overflow := n - placed

	p.setLine(player, line, m.Color, existing.Fill+placed)
	p.spillToFloor(player, m.Color, overflow)
	return nil
}

// spillToFloor adds n tiles of color c to the player's floor line, sending any tiles beyond
// MaxFloorSize straight to discard (§4.1 steps 3-4, §3 invariant 5).
func (p *Position) spillToFloor(player int, c Color, n uint8) {
	for i := uint8(0); i < n; i++ {
		if len(p.Boards[player].Floor) < MaxFloorSize {
			p.appendFloor(player, c)
		} else {
			p.setDiscardCount(c, p.Discard[c]+1)
		}
	}
}

// roundIsOver reports whether every factory and the center are empty of tiles (§4.1: "Round end
// occurs when all factories and the center ... are empty").
func (p *Position) roundIsOver() bool {
	for _, f := range p.Factories {
		if !f.IsEmpty() {
			return false
		}
	}
	return p.Center.IsEmpty()
}
