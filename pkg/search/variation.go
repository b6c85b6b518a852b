package search

import (
	"strings"

	"github.com/tilecanon/azulcore/pkg/rules"
)

// FormatMoves prints a move sequence the way a principal variation is reported (§4.5).
func FormatMoves(moves []rules.Move) string {
	var sb strings.Builder
	for i, m := range moves {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}

// ReconstructPV walks the transposition table forward from pos, applying each stored best move
// in turn, to recover a principal variation longer than the one a cutoff search returned
// directly. It stops at maxLen, at a terminal position, or as soon as the table has no entry (or
// an illegal move) for the current hash.
func ReconstructPV(pos *rules.Position, tt TranspositionTable, maxLen int) []rules.Move {
	if tt == nil {
		return nil
	}

	var out []rules.Move
	cur := pos
	seen := map[rules.ZobristHash]bool{}
	for len(out) < maxLen {
		if cur.IsTerminal() {
			break
		}
		hash := cur.Hash()
		if seen[hash] {
			break // avoid looping forever on a TT cycle from a replacement race.
		}
		seen[hash] = true

		_, _, _, packed, ok := tt.Read(hash)
		if !ok {
			break
		}
		mv := packed.Unpack()
		next, err := cur.Apply(mv)
		if err != nil {
			break // stale entry from a since-overwritten generation.
		}
		out = append(out, mv)
		cur = next
	}
	return out
}
