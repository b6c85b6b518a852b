package rules

import (
	"fmt"
	"regexp"
	"strconv"
)

// Move represents a draft-and-place action: take all tiles of Color from Source and place
// them at Dest. Fits in 24 bits (§4.2): 4 bits source, 3 bits color, 3 bits destination, 14
// bits reserved/checksum. PackedMove is the dense encoding; Move is the unpacked, convenient
// form used throughout the rest of the core.
type Move struct {
	Source Source
	Color  Color
	Dest   Dest
}

func (m Move) Equals(o Move) bool {
	return m.Source == o.Source && m.Color == o.Color && m.Dest == o.Dest
}

func (m Move) IsValid() bool {
	return m.Color.IsValid() && m.Dest < NumDests
}

// PackedMove is the 24-bit dense move encoding the generator fills its buffer with (§4.2).
type PackedMove uint32

const (
	packedSourceMask = 0xF
	packedColorBits  = 4
	packedColorMask  = 0x7
	packedDestBits   = 7
	packedDestMask   = 0x7
)

// Pack encodes the move into its 24-bit dense form.
func (m Move) Pack() PackedMove {
	return PackedMove(uint32(m.Source)&packedSourceMask) |
		PackedMove(uint32(m.Color)&packedColorMask)<<packedColorBits |
		PackedMove(uint32(m.Dest)&packedDestMask)<<packedDestBits
}

// Unpack decodes a dense move back into its field form.
func (p PackedMove) Unpack() Move {
	return Move{
		Source: Source(p & packedSourceMask),
		Color:  Color((p >> packedColorBits) & packedColorMask),
		Dest:   Dest((p >> packedDestBits) & packedDestMask),
	}
}

func (m Move) String() string {
	src := "center"
	if !m.Source.IsCenter() {
		src = fmt.Sprintf("factory=%d", uint8(m.Source))
	}

	dest := "floor"
	if m.Dest.IsLine() {
		dest = fmt.Sprintf("line-%d", uint8(m.Dest))
	}
	return fmt.Sprintf("take(source=%v, color=%v, dest=%v)", src, m.Color, dest)
}

var moveNotation = regexp.MustCompile(`^take\(source=(factory|center)(?:=(\d+))?, color=([a-z]+), dest=(line-(\d)|floor)\)$`)

// ParseMove parses the human-readable wire form "take(source=<factory=N|center>, color=<c>, dest=<line-0..4|floor>)".
func ParseMove(str string) (Move, error) {
	match := moveNotation.FindStringSubmatch(str)
	if match == nil {
		return Move{}, fmt.Errorf("invalid move: %q", str)
	}

	var source Source
	if match[1] == "center" {
		source = CenterSource
	} else {
		n, err := strconv.Atoi(match[2])
		if err != nil {
			return Move{}, fmt.Errorf("invalid move: %q: %w", str, err)
		}
		source = Source(n)
	}

	color, ok := parseColorName(match[3])
	if !ok {
		return Move{}, fmt.Errorf("invalid move: %q: unknown color %q", str, match[3])
	}

	dest := Floor
	if match[5] != "" {
		n, err := strconv.Atoi(match[5])
		if err != nil {
			return Move{}, fmt.Errorf("invalid move: %q: %w", str, err)
		}
		dest = Dest(n)
	}

	return Move{Source: source, Color: color, Dest: dest}, nil
}

func parseColorName(name string) (Color, bool) {
	for c := Color(0); c < NumColors; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return NoColor, false
}
