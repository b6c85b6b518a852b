package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilecanon/azulcore/pkg/rules"
)

func TestNewInitialPosition(t *testing.T) {
	t.Run("valid player counts", func(t *testing.T) {
		for _, players := range []int{2, 3, 4} {
			pos, err := rules.NewInitialPosition(42, players)
			require.NoError(t, err)

			assert.Equal(t, players, pos.NumPlayers())
			assert.Equal(t, rules.NumFactories(players), len(pos.Factories))
			assert.Equal(t, rules.Drafting, pos.Phase)
			assert.NoError(t, pos.Validate())
		}
	})

	t.Run("invalid player counts", func(t *testing.T) {
		for _, players := range []int{0, 1, 5, 10} {
			_, err := rules.NewInitialPosition(42, players)
			assert.Error(t, err)
		}
	})

	t.Run("hash matches a fresh recompute", func(t *testing.T) {
		pos, err := rules.NewInitialPosition(7, 2)
		require.NoError(t, err)
		assert.Equal(t, pos.Recompute(), pos.Hash())
	})

	t.Run("deterministic given the same seed", func(t *testing.T) {
		a, err := rules.NewInitialPosition(123, 2)
		require.NoError(t, err)
		b, err := rules.NewInitialPosition(123, 2)
		require.NoError(t, err)
		assert.Equal(t, a.Hash(), b.Hash())
		assert.Equal(t, a.String(), b.String())
	})
}

func TestCloneIsDeepAndHashPreserving(t *testing.T) {
	pos, err := rules.NewInitialPosition(9, 2)
	require.NoError(t, err)

	clone := pos.Clone()
	assert.Equal(t, pos.Hash(), clone.Hash())
	assert.Equal(t, pos.Recompute(), clone.Recompute())

	clone.Boards[0].Score = 99
	assert.NotEqual(t, pos.Boards[0].Score, clone.Boards[0].Score)
}

func TestApplyDraftFromFactory(t *testing.T) {
	pos, err := rules.NewInitialPosition(1, 2)
	require.NoError(t, err)

	var src rules.Source
	var color rules.Color
	for i, f := range pos.Factories {
		for c := rules.Color(0); c < rules.NumColors; c++ {
			if f.Counts[c] > 0 {
				src, color = rules.Source(i), c
			}
		}
	}

	n := pos.Factories[int(src)].Counts[color]
	next, err := pos.Apply(rules.Move{Source: src, Color: color, Dest: rules.Line0})
	require.NoError(t, err)

	assert.Equal(t, uint8(0), next.Factories[int(src)].Counts[color])
	assert.Equal(t, color, next.Boards[0].Lines[0].Color)

	placed := next.Boards[0].Lines[0].Fill
	onFloor := 0
	for _, fc := range next.Boards[0].Floor {
		if fc == color {
			onFloor++
		}
	}
	assert.Equal(t, int(n), int(placed)+onFloor)
	assert.Equal(t, 1, next.ToMove)
	assert.NoError(t, next.Validate())
}

func TestApplyDraftFromCenterTransfersMarker(t *testing.T) {
	pos, err := rules.NewInitialPosition(2, 2)
	require.NoError(t, err)

	// Spill every factory into the center without scoring, by drafting and discarding to the
	// floor, to exercise the center-draft path.
	cur := pos
	for i := range pos.Factories {
		var color rules.Color
		for c := rules.Color(0); c < rules.NumColors; c++ {
			if cur.Factories[i].Counts[c] > 0 {
				color = c
				break
			}
		}
		next, err := cur.Apply(rules.Move{Source: rules.Source(i), Color: color, Dest: rules.Floor})
		require.NoError(t, err)
		cur = next
	}

	require.True(t, cur.Center.Marker)

	var color rules.Color
	for c := rules.Color(0); c < rules.NumColors; c++ {
		if cur.Center.Counts[c] > 0 {
			color = c
			break
		}
	}

	player := cur.ToMove
	next, err := cur.Apply(rules.Move{Source: rules.CenterSource, Color: color, Dest: rules.Floor})
	require.NoError(t, err)

	assert.False(t, next.Center.Marker)
	assert.True(t, next.Boards[player].FloorMarker)
	assert.NoError(t, next.Validate())
}

func TestApplyRejectsIllegalMoves(t *testing.T) {
	pos, err := rules.NewInitialPosition(3, 2)
	require.NoError(t, err)

	_, err = pos.Apply(rules.Move{Source: rules.Source(99), Color: rules.Blue, Dest: rules.Line0})
	assert.Error(t, err)

	var src rules.Source
	var present, absent rules.Color = rules.NoColor, rules.NoColor
	for i, f := range pos.Factories {
		for c := rules.Color(0); c < rules.NumColors; c++ {
			if f.Counts[c] > 0 {
				src, present = rules.Source(i), c
			} else if absent == rules.NoColor {
				absent = c
			}
		}
		if present != rules.NoColor {
			break
		}
	}
	_, err = pos.Apply(rules.Move{Source: src, Color: absent, Dest: rules.Line0})
	assert.Error(t, err)

	// Fill player 0's line 0 with one color first, then try to add a different color to it.
	next, err := pos.Apply(rules.Move{Source: src, Color: present, Dest: rules.Line0})
	require.NoError(t, err)
	// Apply passed the turn to player 1; hand it back so the next draft targets player 0's line 0.
	next.ToMove = 0

	var otherSrc rules.Source
	var otherColor rules.Color = rules.NoColor
	for i, f := range next.Factories {
		for c := rules.Color(0); c < rules.NumColors; c++ {
			if f.Counts[c] > 0 && c != present {
				otherSrc, otherColor = rules.Source(i), c
			}
		}
	}
	if otherColor != rules.NoColor {
		_, err = next.Apply(rules.Move{Source: otherSrc, Color: otherColor, Dest: rules.Line0})
		assert.Error(t, err)
	}
}

// TestWallTilingScoresCompletedLines builds a position one draft away from a round boundary by
// hand (one factory, one pattern line four-fifths full) so that the final Apply call in the
// round both completes the line and exercises runWallTiling: scoring, discard bookkeeping,
// marker return to center, and the refill/next-round handoff, all deterministically.
func TestWallTilingScoresCompletedLines(t *testing.T) {
	custom := "bag:0,0,0,0,0 discard:20,20,20,15,20 factories:0,0,0,1,0 center:0,0,0,0,0:marker=0 " +
		"boards:lines=-,-,-,-,k4;wall=0000000000000000000000000;floor=;marker=1;score=0;" +
		"lines=-,-,-,-,-;wall=0000000000000000000000000;floor=;marker=0;score=0 " +
		"tomove:0 phase:drafting"

	p, err := rules.DecodeText(custom)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	result, err := p.Apply(rules.Move{Source: rules.Source(0), Color: rules.Black, Dest: rules.Line4})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Boards[0].Score) // isolated tile (+1) minus the held marker's floor penalty (-1), clamped at 0.
	assert.Equal(t, 1, result.Boards[0].Wall.PopCount())
	assert.Equal(t, rules.NoColor, result.Boards[0].Lines[4].Color)
	assert.Equal(t, uint8(19), result.Discard[rules.Black]) // 15 + 4 discarded from the cleared line.

	assert.Equal(t, rules.Drafting, result.Phase) // round rolled over, not game-over.
	assert.Equal(t, 0, result.ToMove)             // player 0 held the marker, so starts next round.
	assert.False(t, result.Boards[0].FloorMarker)
	assert.True(t, result.Center.Marker)
	assert.NoError(t, result.Validate())
}

func TestMovePackUnpackRoundTrip(t *testing.T) {
	moves := []rules.Move{
		{Source: rules.CenterSource, Color: rules.Blue, Dest: rules.Floor},
		{Source: rules.Source(0), Color: rules.White, Dest: rules.Line0},
		{Source: rules.Source(8), Color: rules.Black, Dest: rules.Line4},
	}
	for _, m := range moves {
		packed := m.Pack()
		assert.Equal(t, m, packed.Unpack())
	}
}

func TestMoveStringRoundTrip(t *testing.T) {
	moves := []rules.Move{
		{Source: rules.CenterSource, Color: rules.Blue, Dest: rules.Floor},
		{Source: rules.Source(3), Color: rules.Red, Dest: rules.Line2},
	}
	for _, m := range moves {
		parsed, err := rules.ParseMove(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
}

func TestWallColorIsABijectionPerRowAndColumn(t *testing.T) {
	for row := 0; row < rules.NumPatternLines; row++ {
		seen := map[rules.Color]bool{}
		for col := 0; col < rules.NumPatternLines; col++ {
			c := rules.WallColor(row, col)
			assert.False(t, seen[c])
			seen[c] = true
			assert.Equal(t, col, rules.WallCol(row, c))
		}
	}
}

func TestSerializeTextRoundTrip(t *testing.T) {
	pos, err := rules.NewInitialPosition(55, 3)
	require.NoError(t, err)

	text := pos.EncodeText()
	decoded, err := rules.DecodeText(text)
	require.NoError(t, err)

	assert.Equal(t, text, decoded.EncodeText())
	assert.Equal(t, pos.Hash(), decoded.Hash())
}

func TestSerializeBinaryRoundTrip(t *testing.T) {
	pos, err := rules.NewInitialPosition(56, 4)
	require.NoError(t, err)

	data := pos.EncodeBinary()
	decoded, err := rules.DecodeBinary(data)
	require.NoError(t, err)

	assert.Equal(t, data, decoded.EncodeBinary())
	assert.Equal(t, pos.Hash(), decoded.Hash())
}

func TestValidateRejectsBrokenTileConservation(t *testing.T) {
	pos, err := rules.NewInitialPosition(1, 2)
	require.NoError(t, err)

	broken := pos.Clone()
	broken.Bag[rules.Blue]++

	text := broken.EncodeText()
	_, err = rules.DecodeText(text)
	assert.Error(t, err)
}
