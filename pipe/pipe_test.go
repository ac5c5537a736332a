package pipe

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beast/ga"
)

func TestSlotAddAndDrawPreservesFIFOOrder(t *testing.T) {
	b := NewBase("t", 1, 1, 2, nil)
	require.NoError(t, b.AddInput(0, NewItem([]byte{1})))
	require.NoError(t, b.AddInput(0, NewItem([]byte{2})))

	first, err := b.DrawInput(0)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, first.Bytes)

	second, err := b.DrawInput(0)
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, second.Bytes)
}

func TestAddInputFailsWithCapacityExceededWhenFull(t *testing.T) {
	b := NewBase("t", 1, 0, 1, nil)
	require.NoError(t, b.AddInput(0, NewItem(nil)))
	err := b.AddInput(0, NewItem(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
}

func TestDrawFromEmptySlotFailsWithUnderflow(t *testing.T) {
	b := NewBase("t", 1, 0, 1, nil)
	_, err := b.DrawInput(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnderflow))
}

func TestInputsAreSaturatedRequiresEverySlotFull(t *testing.T) {
	b := NewBase("t", 2, 0, 1, nil)
	assert.False(t, b.InputsAreSaturated())
	require.NoError(t, b.AddInput(0, NewItem(nil)))
	assert.False(t, b.InputsAreSaturated())
	require.NoError(t, b.AddInput(1, NewItem(nil)))
	assert.True(t, b.InputsAreSaturated())
}

func TestInputsAreSaturatedVacuouslyTrueWithNoInputSlots(t *testing.T) {
	b := NewBase("t", 0, 1, 1, nil)
	assert.True(t, b.InputsAreSaturated())
}

func TestOutputsAreSaturatedIfAnySlotFull(t *testing.T) {
	b := NewBase("t", 0, 2, 1, nil)
	assert.False(t, b.OutputsAreSaturated())
	b.addOutput(0, NewItem(nil))
	assert.True(t, b.OutputsAreSaturated())
}

func TestNullSinkPipeDrainsAndDiscards(t *testing.T) {
	sink := NewNullSinkPipe("sink", 4)
	require.NoError(t, sink.AddInput(0, NewItem([]byte{9})))
	require.NoError(t, sink.Execute())
	assert.False(t, sink.HasOutput(0))
	_, err := sink.DrawInput(0)
	require.Error(t, err)
}

func TestProgramFactoryPipeFillsOutputToCapacity(t *testing.T) {
	factory := NewRandomInstructionFactory(rand.New(rand.NewSource(11)))
	limits := FactoryLimits{ProgramSize: 32, VariableCount: 4, StringTableCount: 2, MaxStringSize: 16}
	fp := NewProgramFactoryPipe("factory", 3, factory, limits)

	require.NoError(t, fp.Execute())
	assert.True(t, fp.OutputsAreSaturated())

	var drained int
	for fp.HasOutput(0) {
		it, err := fp.DrawOutput(0)
		require.NoError(t, err)
		assert.NotEmpty(t, it.Bytes)
		drained++
	}
	assert.Equal(t, 3, drained)
}

func TestEvolutionPipePublishesOnlyCandidatesAtOrAboveCutOff(t *testing.T) {
	scorer := ScorerFunc(func(candidate []byte) float64 {
		if len(candidate) == 0 {
			return 0
		}
		return float64(candidate[0]) / 255.0
	})

	cfg := ga.NewConfig(4)
	cfg.NumGenerations = 1
	recombinator := ga.NewSimpleRecombinator(cfg)
	recombinator.SetRandSource(rand.New(rand.NewSource(5)))

	ep := NewEvolutionPipe("evo", 8, recombinator, scorer)
	ep.CutOffScore = 0.5

	require.NoError(t, ep.AddInput(0, NewItem([]byte{255})))
	require.NoError(t, ep.AddInput(0, NewItem([]byte{0})))
	require.NoError(t, ep.Execute())

	for ep.HasOutput(0) {
		it, err := ep.DrawOutput(0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, it.Score, ep.CutOffScore)
	}
}

func TestEvolutionPipeEmptyInputExecutesAsNoOp(t *testing.T) {
	cfg := ga.NewConfig(2)
	ep := NewEvolutionPipe("evo", 4, ga.NewSimpleRecombinator(cfg), ScorerFunc(func([]byte) float64 { return 1 }))
	require.NoError(t, ep.Execute())
	assert.False(t, ep.HasOutput(0))
}
