package pipeline

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beast/pipe"
)

const sampleTopology = `
[[pipe]]
name = "factory"
kind = "factory"
slot_capacity = 4

[[pipe]]
name = "sink"
kind = "sink"
slot_capacity = 4

[[connection]]
from = "factory"
from_slot = 0
to = "sink"
to_slot = 0
buffer_size = 4
`

func TestLoadConfigAndBuildWiresNamedPipes(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(sampleTopology))
	require.NoError(t, err)
	require.Len(t, cfg.Pipes, 2)
	require.Len(t, cfg.Connections, 1)

	factories := map[string]PipeFactory{
		"factory": func(spec PipeSpec) (pipe.Pipe, error) {
			limits := pipe.FactoryLimits{ProgramSize: 16, VariableCount: 4, StringTableCount: 2, MaxStringSize: 16}
			return pipe.NewProgramFactoryPipe(spec.Name, spec.SlotCapacity, pipe.NewRandomInstructionFactory(rand.New(rand.NewSource(1))), limits), nil
		},
		"sink": func(spec PipeSpec) (pipe.Pipe, error) {
			return pipe.NewNullSinkPipe(spec.Name, spec.SlotCapacity), nil
		},
	}

	pl, err := Build(cfg, factories)
	require.NoError(t, err)
	assert.NotNil(t, pl.findPipe("factory"))
	assert.NotNil(t, pl.findPipe("sink"))
	assert.Len(t, pl.connections, 1)
}

func TestBuildFailsWithInvalidArgumentOnUnknownKind(t *testing.T) {
	cfg := &Config{Pipes: []PipeSpec{{Name: "mystery", Kind: "unregistered", SlotCapacity: 1}}}
	_, err := Build(cfg, map[string]PipeFactory{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
