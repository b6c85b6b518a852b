package rules

import (
	"math/bits"
	"strings"
)

// WallMask is a 25-bit occupancy mask over a 5x5 wall: bit (row*5+col) is set iff that wall
// cell is filled. Used by the move generator (§4.2) to test in O(1) whether a pattern line can
// accept a color without scanning the wall row.
type WallMask uint32

func wallBit(row, col int) WallMask {
	return WallMask(1) << uint(row*NumPatternLines+col)
}

func (w WallMask) IsSet(row, col int) bool {
	return w&wallBit(row, col) != 0
}

func (w WallMask) Set(row, col int) WallMask {
	return w | wallBit(row, col)
}

// PopCount returns the number of filled wall cells.
func (w WallMask) PopCount() int {
	return bits.OnesCount32(uint32(w))
}

// RowMask returns a mask selecting the five cells of the given row.
func RowMask(row int) WallMask {
	return WallMask(0x1F) << uint(row*NumPatternLines)
}

// ColMask returns a mask selecting the five cells of the given column.
func ColMask(col int) WallMask {
	var m WallMask
	for row := 0; row < NumPatternLines; row++ {
		m |= wallBit(row, col)
	}
	return m
}

// RowFilled returns true iff every cell in the row is filled.
func (w WallMask) RowFilled(row int) bool {
	return w&RowMask(row) == RowMask(row)
}

// ColFilled returns true iff every cell in the column is filled.
func (w WallMask) ColFilled(col int) bool {
	return w&ColMask(col) == ColMask(col)
}

// ColorMask returns a mask selecting the five cells occupied by the given color across the wall.
func ColorMask(c Color) WallMask {
	var m WallMask
	for row := 0; row < NumPatternLines; row++ {
		m |= wallBit(row, WallCol(row, c))
	}
	return m
}

// ColorFilled returns true iff every wall cell of the given color is filled, i.e. a complete
// color set of five (§9 open question 2).
func (w WallMask) ColorFilled(c Color) bool {
	cm := ColorMask(c)
	return w&cm == cm
}

// RowsNeeding returns, for every row, how many cells still need a tile (0 means complete).
func (w WallMask) RowsNeeding() [NumPatternLines]int {
	var ret [NumPatternLines]int
	for row := 0; row < NumPatternLines; row++ {
		ret[row] = NumPatternLines - bits.OnesCount32(uint32(w&RowMask(row)))
	}
	return ret
}

// ColsNeeding returns, for every column, how many cells still need a tile.
func (w WallMask) ColsNeeding() [NumPatternLines]int {
	var ret [NumPatternLines]int
	for col := 0; col < NumPatternLines; col++ {
		ret[col] = NumPatternLines - bits.OnesCount32(uint32(w&ColMask(col)))
	}
	return ret
}

// ColorsNeeding returns, for every color, how many wall cells of that color still need a tile.
func (w WallMask) ColorsNeeding() [NumColors]int {
	var ret [NumColors]int
	for c := Color(0); c < NumColors; c++ {
		ret[c] = NumPatternLines - bits.OnesCount32(uint32(w&ColorMask(c)))
	}
	return ret
}

func (w WallMask) String() string {
	var sb strings.Builder
	for row := 0; row < NumPatternLines; row++ {
		if row > 0 {
			sb.WriteRune('/')
		}
		for col := 0; col < NumPatternLines; col++ {
			if w.IsSet(row, col) {
				sb.WriteRune('X')
			} else {
				sb.WriteRune('-')
			}
		}
	}
	return sb.String()
}
