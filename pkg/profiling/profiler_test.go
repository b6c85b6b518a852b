package profiling_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilecanon/azulcore/pkg/eval"
	"github.com/tilecanon/azulcore/pkg/movegen"
	"github.com/tilecanon/azulcore/pkg/profiling"
	"github.com/tilecanon/azulcore/pkg/rules"
)

// TestMoveGenerationBudget exercises §8 scenario S6: 10,000 successive legal_moves calls on the
// initial position. The budget is measured, not asserted against the wall-clock ceiling here,
// since CI hardware varies (§4.8: "failure to meet a budget is reported but does not terminate
// the run").
func TestMoveGenerationBudget(t *testing.T) {
	pos, err := rules.NewInitialPosition(1, 2)
	require.NoError(t, err)

	var buf []rules.PackedMove
	report, err := profiling.Sample(context.Background(), "movegen", 10000, 1, func(ctx context.Context) error {
		buf = movegen.Generate(pos, buf)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 10000, report.Samples)
	t.Logf("movegen budget report: %v (within budget: %v)", report, report.WithinBudget(profiling.MoveGeneration))
}

func TestEvaluatorBudget(t *testing.T) {
	pos, err := rules.NewInitialPosition(2, 2)
	require.NoError(t, err)

	e := eval.NewComposite()
	report, err := profiling.Sample(context.Background(), "evaluator", 2000, 4, func(ctx context.Context) error {
		e.Evaluate(ctx, pos, pos.ToMove)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2000, report.Samples)
	t.Logf("evaluator budget report: %v (within budget: %v)", report, report.WithinBudget(profiling.Evaluator))
}

func TestSampleStopsOnFirstError(t *testing.T) {
	boom := assertErr{}
	_, err := profiling.Sample(context.Background(), "failing", 50, 4, func(ctx context.Context) error {
		return boom
	})
	assert.Error(t, err)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestReadMemoryWithinBudget(t *testing.T) {
	m := profiling.ReadMemory()
	assert.True(t, m.WithinBudget(profiling.ResidentMemoryMax))
}
