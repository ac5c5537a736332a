package program

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedProgramCapacityExceededLeavesBytesUnchanged(t *testing.T) {
	p := NewFixed(5)
	require.NoError(t, p.NoOp())
	before := append([]byte(nil), p.Bytes()...)

	err := p.DeclareVariable(0, Int32)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.Equal(t, before, p.Bytes())
}

func TestGrowingProgramResizes(t *testing.T) {
	p := NewGrowing()
	for i := 0; i < 100; i++ {
		require.NoError(t, p.NoOp())
	}
	assert.Equal(t, 100, p.Len())
}

func TestSizeEqualsSumOfPayloadsPlusOpcodeBytes(t *testing.T) {
	p := NewGrowing()
	require.NoError(t, p.NoOp())                        // 1
	require.NoError(t, p.DeclareVariable(0, Int32))      // 1 + 5
	require.NoError(t, p.SetVariable(0, false, 42))      // 1 + 9
	require.NoError(t, p.Terminate(0))                   // 1 + 1
	assert.Equal(t, 1+6+10+2, p.Len())
}

func TestReadPastEndFailsWithUnderflow(t *testing.T) {
	p := NewGrowing()
	require.NoError(t, p.SetVariable(0, false, 1))
	_, err := p.Read4(p.Len())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnderflow))
}

func TestEncodeStringTooLongFails(t *testing.T) {
	p := NewGrowing()
	huge := make([]byte, maxStringLen+1)
	err := p.SetStringTableEntry(0, string(huge))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestInsertProgramAppendsVerbatim(t *testing.T) {
	a := NewGrowing()
	require.NoError(t, a.Terminate(3))

	b := NewGrowing()
	require.NoError(t, b.NoOp())
	require.NoError(t, b.InsertProgram(a))

	assert.Equal(t, 3, b.Len())
	op, err := b.Read1(1)
	require.NoError(t, err)
	assert.Equal(t, byte(0x1e), op)
}

func TestPointerTracksCursor(t *testing.T) {
	p := NewGrowing()
	require.NoError(t, p.NoOp())
	assert.Equal(t, int32(1), p.Pointer())
}
