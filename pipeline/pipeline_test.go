package pipeline

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beast/pipe"
)

func TestAddPipeRejectsDuplicateNameAndReference(t *testing.T) {
	pl := New()
	sink := pipe.NewNullSinkPipe("sink", 4)
	require.NoError(t, pl.AddPipe("sink", sink))

	err := pl.AddPipe("sink", pipe.NewNullSinkPipe("other", 4))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	err = pl.AddPipe("sink2", sink)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestConnectRejectsOccupiedPorts(t *testing.T) {
	pl := New()
	factory := pipe.NewProgramFactoryPipe("factory", 10, pipe.NewRandomInstructionFactory(rand.New(rand.NewSource(1))), pipe.FactoryLimits{ProgramSize: 16, VariableCount: 4})
	sinkA := pipe.NewNullSinkPipe("sinkA", 10)
	sinkB := pipe.NewNullSinkPipe("sinkB", 10)
	require.NoError(t, pl.AddPipe("factory", factory))
	require.NoError(t, pl.AddPipe("sinkA", sinkA))
	require.NoError(t, pl.AddPipe("sinkB", sinkB))

	require.NoError(t, pl.Connect("factory", 0, "sinkA", 0, 10))

	err := pl.Connect("factory", 0, "sinkB", 0, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

// TestPipelineDrainsFactoryIntoSink runs scenario 6: a ProgramFactoryPipe
// feeding a NullSinkPipe through a buffered connection. It checks that
// the pipeline starts and reports running, and that Stop joins both
// workers within a bound; the number of items drained is not asserted.
func TestPipelineDrainsFactoryIntoSink(t *testing.T) {
	factory := pipe.NewProgramFactoryPipe("factory", 10, pipe.NewRandomInstructionFactory(rand.New(rand.NewSource(2))), pipe.FactoryLimits{ProgramSize: 24, VariableCount: 4, StringTableCount: 2, MaxStringSize: 16})
	sink := pipe.NewNullSinkPipe("sink", 10)

	pl := New()
	require.NoError(t, pl.AddPipe("factory", factory))
	require.NoError(t, pl.AddPipe("sink", sink))
	require.NoError(t, pl.Connect("factory", 0, "sink", 0, 10))

	require.NoError(t, pl.Start())
	assert.True(t, pl.IsRunning())

	assert.Eventually(t, func() bool {
		return factory.NumOutputSlots() == 1 // sanity: factory topology is as expected
	}, time.Second, 10*time.Millisecond)

	time.Sleep(200 * time.Millisecond)

	stopped := make(chan error, 1)
	go func() { stopped <- pl.Stop() }()
	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not join workers within bound")
	}
	assert.False(t, pl.IsRunning())
}

func TestStopWithoutStartFailsWithInvalidArgument(t *testing.T) {
	pl := New()
	err := pl.Stop()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
