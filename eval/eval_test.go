package eval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beast/program"
	"beast/vm"
)

func testConfig() vm.Config {
	return vm.Config{VariableCount: 16, StringTableCount: 4, MaxStringSize: 64, MaxPrintBufferLen: 1024}
}

func noopHeavyProgram(t *testing.T) *program.Program {
	t.Helper()
	p := program.NewGrowing()
	require.NoError(t, p.NoOp())
	require.NoError(t, p.NoOp())
	require.NoError(t, p.NoOp())
	require.NoError(t, p.Terminate(0))
	return p
}

func TestOperatorUsageEvaluatorScoresNoopRatio(t *testing.T) {
	p := noopHeavyProgram(t)
	s := vm.NewSession(p, testConfig(), nil)
	require.NoError(t, vm.NewCpuVirtualMachine(nil).Run(s, false))

	score, err := NoOpEvaluator().Evaluate(s)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, score, 1e-9) // 3 noops out of 4 executed steps
}

func TestOperatorUsageEvaluatorZeroStepsScoresZero(t *testing.T) {
	s := vm.NewSession(program.NewGrowing(), testConfig(), nil)
	score, err := NoOpEvaluator().Evaluate(s)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

// constScorer is a fixed-score test double for composing aggregations.
type constScorer float64

func (c constScorer) Evaluate(*vm.VmSession) (float64, error) { return float64(c), nil }

func TestAggregationEvaluatorWeightedAverage(t *testing.T) {
	agg, err := NewAggregationEvaluator([]AggregationEntry{
		{Evaluator: constScorer(1.0), Weight: 1},
		{Evaluator: constScorer(0.0), Weight: 3},
	})
	require.NoError(t, err)

	score, err := agg.Evaluate(vm.NewSession(program.NewGrowing(), testConfig(), nil))
	require.NoError(t, err)
	assert.InDelta(t, 0.25, score, 1e-9)
}

// TestAggregationEvaluatorAllInvertedReducesToOneMinusWeightedAverage
// checks the documented identity: with every entry inverted, the
// aggregate equals sum(w_i*(1-s_i)) / sum(w_i).
func TestAggregationEvaluatorAllInvertedReducesToOneMinusWeightedAverage(t *testing.T) {
	entries := []AggregationEntry{
		{Evaluator: constScorer(0.2), Weight: 2, Invert: true},
		{Evaluator: constScorer(0.9), Weight: 1, Invert: true},
	}
	agg, err := NewAggregationEvaluator(entries)
	require.NoError(t, err)

	got, err := agg.Evaluate(vm.NewSession(program.NewGrowing(), testConfig(), nil))
	require.NoError(t, err)

	wantNumerator := 2*(1-0.2) + 1*(1-0.9)
	wantDenominator := 2.0 + 1.0
	assert.InDelta(t, wantNumerator/wantDenominator, got, 1e-9)
}

func TestAggregationEvaluatorEmptyFailsWithInvalidState(t *testing.T) {
	agg, err := NewAggregationEvaluator(nil)
	require.NoError(t, err)

	_, err = agg.Evaluate(vm.NewSession(program.NewGrowing(), testConfig(), nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestAggregationEvaluatorNegativeWeightFailsWithInvalidArgument(t *testing.T) {
	_, err := NewAggregationEvaluator([]AggregationEntry{{Evaluator: constScorer(0), Weight: -1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestAggregationEvaluatorNilEvaluatorFailsWithInvalidArgument(t *testing.T) {
	_, err := NewAggregationEvaluator([]AggregationEntry{{Evaluator: nil, Weight: 1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestRuntimeStatisticsEvaluatorRejectsOverweight(t *testing.T) {
	_, err := NewRuntimeStatisticsEvaluator(0.6, 0.6, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestRuntimeStatisticsEvaluatorZeroWeightsReduceToOneMinusExecutedFraction(t *testing.T) {
	p := program.NewGrowing()
	require.NoError(t, p.DeclareVariable(0, program.Int32))
	require.NoError(t, p.SetVariable(0, false, 1))
	require.NoError(t, p.Terminate(0))
	require.NoError(t, p.NoOp()) // unreachable: dynamic run terminates before it

	e, err := NewRuntimeStatisticsEvaluator(0, 0, 8)
	require.NoError(t, err)

	s := vm.NewSession(p, testConfig(), nil)
	score, err := e.Evaluate(s)
	require.NoError(t, err)

	// 4 static instructions total, 3 executed dynamically before terminate.
	wantExecuted := 3.0 / 4.0
	assert.InDelta(t, 1-wantExecuted, score, 1e-9)
}

func TestRuntimeStatisticsEvaluatorNoStepsScoresZero(t *testing.T) {
	e, err := NewRuntimeStatisticsEvaluator(0.3, 0.3, 8)
	require.NoError(t, err)

	s := vm.NewSession(program.NewGrowing(), testConfig(), nil)
	score, err := e.Evaluate(s)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestRandomSerialDataPassthroughEvaluatorPerfectCopyScoresOne(t *testing.T) {
	p := program.NewGrowing()
	require.NoError(t, p.DeclareVariable(0, program.Int32))
	require.NoError(t, p.DeclareVariable(1, program.Int32))
	loopTop := p.Pointer()
	require.NoError(t, p.CopyVariable(0, false, 1, false))
	require.NoError(t, p.UnconditionalJumpToAbsoluteAddress(loopTop))

	cfg := testConfig()
	baseline := vm.NewSession(p, cfg, nil)

	evaluator := NewRandomSerialDataPassthroughEvaluator(5, 2, 500)
	score, err := evaluator.Evaluate(baseline)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestRandomSerialDataPassthroughEvaluatorBrokenProgramScoresLow(t *testing.T) {
	p := program.NewGrowing()
	require.NoError(t, p.DeclareVariable(0, program.Int32))
	require.NoError(t, p.DeclareVariable(1, program.Int32))
	require.NoError(t, p.Terminate(0)) // never copies input to output

	cfg := testConfig()
	baseline := vm.NewSession(p, cfg, nil)

	evaluator := NewRandomSerialDataPassthroughEvaluator(5, 1, 500)
	score, err := evaluator.Evaluate(baseline)
	require.NoError(t, err)
	assert.Less(t, score, 1.0)
}
