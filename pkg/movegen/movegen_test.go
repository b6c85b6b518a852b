package movegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilecanon/azulcore/pkg/movegen"
	"github.com/tilecanon/azulcore/pkg/rules"
)

// bruteForce enumerates every {source, color, dest} triple and filters by legality directly
// against Apply, independent of Generate's own logic (§8 property 3).
func bruteForce(pos *rules.Position) []rules.Move {
	var moves []rules.Move

	sources := make([]rules.Source, 0, len(pos.Factories)+1)
	for i := range pos.Factories {
		sources = append(sources, rules.Source(i))
	}
	sources = append(sources, rules.CenterSource)

	for _, src := range sources {
		for c := rules.Color(0); c < rules.NumColors; c++ {
			for d := rules.Dest(0); d < rules.NumDests; d++ {
				m := rules.Move{Source: src, Color: c, Dest: d}
				if _, err := pos.Apply(m); err == nil {
					moves = append(moves, m)
				}
			}
		}
	}
	return moves
}

func movePackedSet(moves []rules.PackedMove) map[rules.PackedMove]bool {
	set := make(map[rules.PackedMove]bool, len(moves))
	for _, m := range moves {
		set[m] = true
	}
	return set
}

func TestGenerateMatchesBruteForce(t *testing.T) {
	pos, err := rules.NewInitialPosition(11, 2)
	require.NoError(t, err)

	want := bruteForce(pos)
	got := movegen.GenerateMoves(pos)

	wantSet := map[rules.Move]bool{}
	for _, m := range want {
		wantSet[m] = true
	}
	gotSet := map[rules.Move]bool{}
	for _, m := range got {
		gotSet[m] = true
	}

	assert.Equal(t, wantSet, gotSet)
}

func TestGenerateHasNoDuplicates(t *testing.T) {
	pos, err := rules.NewInitialPosition(12, 3)
	require.NoError(t, err)

	packed := movegen.Generate(pos, nil)
	seen := movePackedSet(packed)
	assert.Equal(t, len(seen), len(packed))
}

func TestGenerateEmptyOutsideDrafting(t *testing.T) {
	pos, err := rules.NewInitialPosition(13, 2)
	require.NoError(t, err)

	pos.Phase = rules.GameOver
	assert.Empty(t, movegen.Generate(pos, nil))
}

func TestEveryGeneratedMoveApplies(t *testing.T) {
	pos, err := rules.NewInitialPosition(14, 4)
	require.NoError(t, err)

	for _, m := range movegen.GenerateMoves(pos) {
		_, err := pos.Apply(m)
		assert.NoError(t, err, "generated move %v should always apply (§8 property 5)", m)
	}
}

func BenchmarkGenerate(b *testing.B) {
	pos, err := rules.NewInitialPosition(15, 2)
	require.NoError(b, err)

	buf := make([]rules.PackedMove, 0, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = movegen.Generate(pos, buf[:0])
	}
}
