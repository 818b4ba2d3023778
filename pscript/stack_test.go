package pscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperandStackPopEmpty(t *testing.T) {
	s := NewOperandStack()
	_, err := s.Pop()
	require.ErrorIs(t, err, ErrStackUnderflow)

	_, ok := s.Peek()
	assert.False(t, ok)
}

func TestZeroValueIsInvalid(t *testing.T) {
	s := NewOperandStack()
	v, _ := s.Pop()
	assert.Equal(t, KindInvalid, v.Kind())
	assert.Equal(t, "invalid", v.Kind().String())
	require.NotPanics(t, func() {
		assert.Equal(t, "--nostringval--", v.String())
		assert.Equal(t, "--nostringval--", v.Syntax())
	})
	assert.Nil(t, v.Str())
	assert.False(t, v.IsNumber())
}

func TestOperandStackLIFO(t *testing.T) {
	s := NewOperandStack()
	s.Push(NewInt(1))
	s.Push(NewInt(2))

	top, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, int64(2), top.Int())

	v, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Int())
	assert.Equal(t, 1, s.Len())
}

func TestOperandStackPopNFailsWithoutMutation(t *testing.T) {
	s := NewOperandStack()
	s.Push(NewInt(1))
	s.Push(NewInt(2))

	_, err := s.PopN("add", 3)
	require.ErrorIs(t, err, ErrStackUnderflow)
	assert.Contains(t, err.Error(), "add")
	assert.Equal(t, 2, s.Len())

	got, err := s.PopN("add", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Int())
	assert.Equal(t, int64(2), got[1].Int())
	assert.Zero(t, s.Len())
}

func TestOperandStackPeekNAndDrop(t *testing.T) {
	s := NewOperandStack()
	for i := range 4 {
		s.Push(NewInt(int64(i)))
	}

	got, err := s.PeekN("exch", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got[0].Int())
	assert.Equal(t, int64(3), got[1].Int())
	assert.Equal(t, 4, s.Len())

	s.Drop(3)
	assert.Equal(t, 1, s.Len())
	require.NoError(t, s.Require("pop", 1))
	require.ErrorIs(t, s.Require("exch", 2), ErrStackUnderflow)
}

func TestOperandStackSnapshotIsIndependent(t *testing.T) {
	s := NewOperandStack()
	s.Push(NewInt(1))
	snap := s.Snapshot()
	s.Push(NewInt(2))
	s.Clear()

	require.Len(t, snap, 1)
	assert.Equal(t, int64(1), snap[0].Int())
	assert.Zero(t, s.Len())
}
