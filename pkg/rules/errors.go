package rules

import "fmt"

// IllegalReason enumerates why a move was rejected by Apply (§7).
type IllegalReason uint8

const (
	NoSuchSource IllegalReason = iota
	NoSuchColorInSource
	LineColorMismatch
	WallAlreadyHasColor
)

func (r IllegalReason) String() string {
	switch r {
	case NoSuchSource:
		return "no such source"
	case NoSuchColorInSource:
		return "no such color in source"
	case LineColorMismatch:
		return "line color mismatch"
	case WallAlreadyHasColor:
		return "wall already has color"
	default:
		return "unknown reason"
	}
}

// IllegalMoveError is returned by Apply when a move violates a precondition in §4.1.
type IllegalMoveError struct {
	Move   Move
	Reason IllegalReason
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %v: %v", e.Move, e.Reason)
}

// Invariant identifies one of the seven position invariants in §3.
type Invariant uint8

const (
	InvariantTileConservation Invariant = iota + 1
	InvariantLineColorUniqueness
	InvariantLineCapacity
	InvariantWallPattern
	InvariantFloorCapacity
	InvariantScoreNonNegative
	InvariantMarkerUnique
)

func (v Invariant) String() string {
	switch v {
	case InvariantTileConservation:
		return "tile conservation"
	case InvariantLineColorUniqueness:
		return "pattern-line color uniqueness"
	case InvariantLineCapacity:
		return "pattern-line capacity"
	case InvariantWallPattern:
		return "wall pattern"
	case InvariantFloorCapacity:
		return "floor capacity"
	case InvariantScoreNonNegative:
		return "score non-negative"
	case InvariantMarkerUnique:
		return "marker uniqueness"
	default:
		return "unknown invariant"
	}
}

// MalformedPositionError is returned by position constructors and deserializers when an
// invariant from §3 does not hold.
type MalformedPositionError struct {
	Which Invariant
	Msg   string
}

func (e *MalformedPositionError) Error() string {
	return fmt.Sprintf("malformed position: %v: %v", e.Which, e.Msg)
}
