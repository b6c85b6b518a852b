// Package movegen enumerates legal Azul moves from a position (§4.2). The generator runs in
// O(sources * colors * destinations) with small constants and fills a caller-owned buffer
// rather than allocating per move.
package movegen

import "github.com/tilecanon/azulcore/pkg/rules"

// Generate appends every legal move for pos.ToMove to buf and returns the extended slice, so
// repeated calls across a search can reuse the same backing array. Returns buf unchanged if the
// position is not in the drafting phase (no legal moves exist outside it).
func Generate(pos *rules.Position, buf []rules.PackedMove) []rules.PackedMove {
	if pos.Phase != rules.Drafting {
		return buf
	}

	board := &pos.Boards[pos.ToMove]
	for i := range pos.Factories {
		buf = appendSource(buf, board, rules.Source(i), pos.Factories[i].Counts)
	}
	return appendSource(buf, board, rules.CenterSource, pos.Center.Counts)
}

// GenerateMoves is the unpacked convenience form of Generate, for callers outside hot search
// loops (tests, the engine facade).
func GenerateMoves(pos *rules.Position) []rules.Move {
	packed := Generate(pos, nil)
	moves := make([]rules.Move, len(packed))
	for i, p := range packed {
		moves[i] = p.Unpack()
	}
	return moves
}

func appendSource(buf []rules.PackedMove, board *rules.PlayerBoard, src rules.Source, counts [rules.NumColors]uint8) []rules.PackedMove {
	for c := rules.Color(0); c < rules.NumColors; c++ {
		if counts[c] == 0 {
			continue
		}
		for line := 0; line < rules.NumPatternLines; line++ {
			if lineAccepts(board, line, c) {
				buf = append(buf, rules.Move{Source: src, Color: c, Dest: rules.Dest(line)}.Pack())
			}
		}
		// Taking to the floor is always legal as a fallback destination (§4.2).
		buf = append(buf, rules.Move{Source: src, Color: c, Dest: rules.Floor}.Pack())
	}
	return buf
}

// lineAccepts reports whether pattern line can legally receive one or more tiles of color c:
// the line's color tag is empty or c, the line has spare capacity, and the wall slot that color
// would eventually occupy in this row is not already filled.
func lineAccepts(board *rules.PlayerBoard, line int, c rules.Color) bool {
	ln := board.Lines[line]
	if ln.Color != rules.NoColor && ln.Color != c {
		return false
	}
	if int(ln.Fill) >= rules.LineCapacity(line) {
		return false
	}
	return !board.Wall.IsSet(line, rules.WallCol(line, c))
}
