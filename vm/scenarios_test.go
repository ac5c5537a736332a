package vm

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beast/program"
)

func runToCompletion(t *testing.T, s *VmSession) {
	t.Helper()
	cpu := NewCpuVirtualMachine(nil)
	require.NoError(t, cpu.Run(s, false))
}

func TestScenarioHelloWorld(t *testing.T) {
	p := program.NewGrowing()
	require.NoError(t, p.SetStringTableEntry(0, "Hello World!"))
	require.NoError(t, p.PrintStringFromStringTable(0))
	require.NoError(t, p.Terminate(0))

	s := NewSession(p, testConfig(), nil)
	runToCompletion(t, s)

	assert.Equal(t, "Hello World!", string(s.PrintBuffer()))
	assert.Equal(t, int8(0), s.ReturnCode())
}

func TestScenarioTerminateShortCircuits(t *testing.T) {
	p := program.NewGrowing()
	require.NoError(t, p.DeclareVariable(0, program.Int32))
	require.NoError(t, p.SetVariable(0, false, 0))
	require.NoError(t, p.Terminate(127))
	require.NoError(t, p.SetVariable(0, false, 1))

	s := NewSession(p, testConfig(), nil)
	runToCompletion(t, s)

	val, err := s.Read(0, false)
	require.NoError(t, err)
	assert.Equal(t, int32(0), val)
	assert.Equal(t, int8(127), s.ReturnCode())
}

func TestScenarioStaticVsDynamicNoopRatio(t *testing.T) {
	p := program.NewGrowing()
	require.NoError(t, p.NoOp())
	require.NoError(t, p.SetStringTableEntry(0, "x"))
	require.NoError(t, p.PrintStringFromStringTable(0))
	require.NoError(t, p.Terminate(0))
	require.NoError(t, p.NoOp())

	staticSession := NewSession(p, testConfig(), nil)
	staticCpu := NewCpuVirtualMachine(nil)
	require.NoError(t, staticCpu.Run(staticSession, true))
	assert.InDelta(t, 0.4, staticSession.Statistics().NoopFraction(), 1e-9)

	dynamicSession := NewSession(p, testConfig(), nil)
	runToCompletion(t, dynamicSession)
	assert.InDelta(t, 0.25, dynamicSession.Statistics().NoopFraction(), 1e-9)
}

func TestScenarioAdderStreaming(t *testing.T) {
	// Three DeclareVariable instructions, then the add sequence. Each
	// trial steps past the declarations, feeds that trial's operands
	// from outside, then runs to completion.
	p := program.NewGrowing()
	require.NoError(t, p.DeclareVariable(0, program.Int32)) // operand a
	require.NoError(t, p.DeclareVariable(1, program.Int32)) // operand b
	require.NoError(t, p.DeclareVariable(2, program.Int32)) // sum, read from outside
	require.NoError(t, p.SetVariable(2, false, 0))
	require.NoError(t, p.AddVariableToVariable(0, false, 2, false))
	require.NoError(t, p.AddVariableToVariable(1, false, 2, false))
	require.NoError(t, p.Terminate(0))

	pairs := [][2]int32{{1, 1}, {7, 2}, {100, 1000}, {1, -1}, {-10000, -81}}
	expected := []int32{2, 9, 1100, 0, -10081}

	cpu := NewCpuVirtualMachine(nil)
	got := make([]int32, 0, len(pairs))
	for _, pair := range pairs {
		s := NewSession(p, testConfig(), nil)
		for i := 0; i < 3; i++ {
			cont, err := cpu.Step(s, false)
			require.NoError(t, err)
			require.True(t, cont)
		}
		require.NoError(t, s.WriteExternal(0, false, pair[0]))
		require.NoError(t, s.WriteExternal(1, false, pair[1]))
		require.NoError(t, cpu.Run(s, false))

		sum, err := s.ReadExternal(2, false)
		require.NoError(t, err)
		got = append(got, sum)
	}

	assert.Equal(t, expected, got)
}

func TestScenarioBubblesort(t *testing.T) {
	input := []int32{7, 1, 199, -44, 2356, -881, 0, 406, 1, 9}
	want := append([]int32(nil), input...)
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

	p := program.NewGrowing()
	for i := int32(0); i < 10; i++ {
		require.NoError(t, p.DeclareVariable(i, program.Int32))
		require.NoError(t, p.SetVariable(i, false, input[i]))
	}
	for i := int32(0); i < 10; i++ {
		require.NoError(t, p.DeclareVariable(10+i, program.Int32))
		require.NoError(t, p.CopyVariable(i, false, 10+i, false))
	}
	require.NoError(t, p.DeclareVariable(20, program.Int32)) // scratch min
	require.NoError(t, p.DeclareVariable(21, program.Int32)) // scratch max

	// Fully unrolled compare-exchange network: enough passes of
	// adjacent min/max to guarantee a full sort regardless of the
	// initial ordering.
	for pass := 0; pass < 10; pass++ {
		for j := int32(0); j < 9; j++ {
			a, b := 10+j, 10+j+1
			require.NoError(t, p.GetMinOfVariableAndVariable(a, false, b, false, 20, false))
			require.NoError(t, p.GetMaxOfVariableAndVariable(a, false, b, false, 21, false))
			require.NoError(t, p.CopyVariable(20, false, a, false))
			require.NoError(t, p.CopyVariable(21, false, b, false))
		}
	}
	require.NoError(t, p.Terminate(0))

	s := NewSession(p, testConfig(), nil)
	runToCompletion(t, s)

	for i := int32(0); i < 10; i++ {
		got, err := s.Read(10+i, false)
		require.NoError(t, err)
		assert.Equal(t, want[i], got, "sorted index %d", i)
	}
}
