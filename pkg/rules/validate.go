package rules

import "fmt"

// Validate checks every invariant listed in §3 and returns a *MalformedPositionError for the
// first one that fails. Called by the deserializers (§6) and available to callers constructing
// positions by hand, e.g. from fuzzers or test fixtures.
func (p *Position) Validate() error {
	if err := p.validateTileConservation(); err != nil {
		return err
	}
	if err := p.validateLinesAndFloor(); err != nil {
		return err
	}
	if err := p.validateScores(); err != nil {
		return err
	}
	return p.validateMarker()
}

func (p *Position) validateTileConservation() error {
	var total [NumColors]int
	for c := Color(0); c < NumColors; c++ {
		total[c] += int(p.Bag[c]) + int(p.Discard[c]) + int(p.Center.Counts[c])
	}
	for _, f := range p.Factories {
		for c := Color(0); c < NumColors; c++ {
			total[c] += int(f.Counts[c])
		}
	}
	for _, b := range p.Boards {
		for _, ln := range b.Lines {
			if ln.Color != NoColor {
				total[ln.Color] += int(ln.Fill)
			}
		}
		for row := 0; row < NumPatternLines; row++ {
			for col := 0; col < NumPatternLines; col++ {
				if b.Wall.IsSet(row, col) {
					total[WallColor(row, col)]++
				}
			}
		}
		for _, c := range b.Floor {
			total[c]++
		}
	}

	for c := Color(0); c < NumColors; c++ {
		if total[c] != TilesPerColor {
			return &MalformedPositionError{
				Which: InvariantTileConservation,
				Msg:   fmt.Sprintf("color %v has %d tiles in play, want %d", c, total[c], TilesPerColor),
			}
		}
	}
	return nil
}

func (p *Position) validateLinesAndFloor() error {
	for pl, b := range p.Boards {
		for line, ln := range b.Lines {
			if ln.Color == NoColor && ln.Fill != 0 {
				return &MalformedPositionError{
					Which: InvariantLineColorUniqueness,
					Msg:   fmt.Sprintf("player %d line %d has fill %d but no color", pl, line, ln.Fill),
				}
			}
			if int(ln.Fill) > LineCapacity(line) {
				return &MalformedPositionError{
					Which: InvariantLineCapacity,
					Msg:   fmt.Sprintf("player %d line %d has fill %d, capacity %d", pl, line, ln.Fill, LineCapacity(line)),
				}
			}
			if ln.Color != NoColor && b.Wall.IsSet(line, WallCol(line, ln.Color)) {
				return &MalformedPositionError{
					Which: InvariantWallPattern,
					Msg:   fmt.Sprintf("player %d line %d color %v already on wall", pl, line, ln.Color),
				}
			}
		}
		if len(b.Floor) > MaxFloorSize {
			return &MalformedPositionError{
				Which: InvariantFloorCapacity,
				Msg:   fmt.Sprintf("player %d floor has %d tiles, max %d", pl, len(b.Floor), MaxFloorSize),
			}
		}
	}
	return nil
}

func (p *Position) validateScores() error {
	for pl, b := range p.Boards {
		if b.Score < 0 {
			return &MalformedPositionError{
				Which: InvariantScoreNonNegative,
				Msg:   fmt.Sprintf("player %d has negative score %d", pl, b.Score),
			}
		}
	}
	return nil
}

// validateMarker enforces that the first-player marker sits in exactly one place: the center,
// or exactly one player's floor line (§3 invariant 7). During WALL-TILING the marker is
// momentarily unheld by anyone, which Apply never leaves externally observable, so this check
// applies whenever the position is not mid-transition.
func (p *Position) validateMarker() error {
	count := 0
	if p.Center.Marker {
		count++
	}
	for _, b := range p.Boards {
		if b.FloorMarker {
			count++
		}
	}
	if count != 1 {
		return &MalformedPositionError{
			Which: InvariantMarkerUnique,
			Msg:   fmt.Sprintf("marker held in %d places, want exactly 1", count),
		}
	}
	return nil
}
