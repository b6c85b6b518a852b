package endgame

import (
	"bytes"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/tilecanon/azulcore/pkg/rules"
)

// CanonicalKey hashes the lexicographically smallest encoding of pos over its symmetry group
// (§4.7): identity, and -- in a two-seat game -- the player-swapped encoding. Color relabeling
// symmetry is conservatively disabled, matching the spec's default.
func CanonicalKey(pos *rules.Position) uint64 {
	best := encode(pos, false)
	if pos.NumPlayers() == 2 {
		if swapped := encode(pos, true); bytes.Compare(swapped, best) < 0 {
			best = swapped
		}
	}
	return xxhash.Sum64(best)
}

// encode builds the compact state encoding named in §4.7: bag+discard counts per color,
// per-factory multiset sorted, center multiset, per-seat {pattern-lines, wall bitmask, floor
// length, score}, to-move, marker location. swap, when true, reorders the two seats (and flips
// to-move) to test the player-swap symmetry.
func encode(pos *rules.Position, swap bool) []byte {
	var buf bytes.Buffer

	for c := rules.Color(0); c < rules.NumColors; c++ {
		buf.WriteByte(pos.Bag[c])
	}
	for c := rules.Color(0); c < rules.NumColors; c++ {
		buf.WriteByte(pos.Discard[c])
	}

	factories := make([][rules.NumColors]uint8, len(pos.Factories))
	for i, f := range pos.Factories {
		factories[i] = f.Counts
	}
	sort.Slice(factories, func(i, j int) bool {
		return bytes.Compare(factories[i][:], factories[j][:]) < 0
	})
	for _, f := range factories {
		buf.Write(f[:])
	}

	buf.Write(pos.Center.Counts[:])
	if pos.Center.Marker {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}

	order := []int{0, 1}
	if swap && pos.NumPlayers() == 2 {
		order = []int{1, 0}
	} else if swap {
		order = nil // swap symmetry is only defined for exactly two seats.
	}
	if order == nil {
		order = make([]int, pos.NumPlayers())
		for i := range order {
			order[i] = i
		}
	}

	for _, seat := range order {
		b := pos.Boards[seat]
		for _, ln := range b.Lines {
			buf.WriteByte(byte(ln.Color))
			buf.WriteByte(ln.Fill)
		}
		for row := 0; row < rules.NumPatternLines; row++ {
			var rowByte byte
			for col := 0; col < rules.NumPatternLines; col++ {
				if b.Wall.IsSet(row, col) {
					rowByte |= 1 << col
				}
			}
			buf.WriteByte(rowByte)
		}
		buf.WriteByte(byte(len(b.Floor)))
		buf.WriteByte(byte(b.Score))
		buf.WriteByte(byte(b.Score >> 8))
		if b.FloorMarker {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	}

	toMove := pos.ToMove
	if swap && pos.NumPlayers() == 2 {
		toMove = 1 - toMove
	}
	buf.WriteByte(byte(toMove))
	buf.WriteByte(byte(pos.Phase))

	return buf.Bytes()
}
