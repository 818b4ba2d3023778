package pscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvDefineBindsTopFrameOnly(t *testing.T) {
	env := NewEnv()
	env.Open(NewDict())
	env.Define("x", NewInt(1))

	_, ok := env.Global().Get("x")
	assert.False(t, ok)

	v, ok := env.LookupDynamic("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.Int())

	require.NoError(t, env.Close())
	_, ok = env.LookupDynamic("x")
	assert.False(t, ok)
}

func TestEnvInnermostBindingWins(t *testing.T) {
	env := NewEnv()
	env.Define("x", NewInt(1))
	inner := NewDict()
	inner.Put("x", NewInt(2))
	env.Open(inner)

	v, ok := env.LookupDynamic("x")
	require.True(t, ok)
	assert.Equal(t, int64(2), v.Int())

	frame, ok := env.Where("x")
	require.True(t, ok)
	assert.Same(t, inner, frame)

	_, ok = env.Where("missing")
	assert.False(t, ok)
}

func TestEnvCloseGlobalFails(t *testing.T) {
	env := NewEnv()
	err := env.Close()
	require.ErrorIs(t, err, ErrScope)
	assert.Equal(t, 1, env.Depth())
}

func TestEnvSnapshotCopiesStringsAndDicts(t *testing.T) {
	env := NewEnv()
	shared := NewDict()
	shared.Put("k", NewInt(1))
	env.Define("s", NewString("abc"))
	env.Define("a", NewDictValue(shared))
	env.Define("b", NewDictValue(shared))
	shared.Put("self", NewDictValue(shared))

	snap := env.Snapshot()

	s, _ := env.LookupDynamic("s")
	s.Str().Overwrite(0, []byte("X"))
	shared.Put("k", NewInt(2))

	got, ok := snap.Global().Get("s")
	require.True(t, ok)
	assert.Equal(t, "abc", got.Str().String())
	assert.NotSame(t, s.Str(), got.Str())

	a, _ := snap.Global().Get("a")
	b, _ := snap.Global().Get("b")
	require.NotSame(t, shared, a.Dict())
	assert.Same(t, a.Dict(), b.Dict())
	k, _ := a.Dict().Get("k")
	assert.Equal(t, int64(1), k.Int())
	self, _ := a.Dict().Get("self")
	assert.Same(t, a.Dict(), self.Dict())
}

func TestEnvSnapshotSharesNoFrames(t *testing.T) {
	env := NewEnv()
	env.Define("x", NewInt(10))
	env.Open(NewDict())

	snap := env.Snapshot()
	require.Equal(t, env.Depth(), snap.Depth())
	for i, frame := range env.Frames() {
		assert.NotSame(t, frame, snap.Frames()[i])
	}

	env.Global().Put("x", NewInt(20))
	env.Define("y", NewInt(1))
	snap.Define("z", NewInt(2))

	v, ok := env.LookupLexical("x", snap)
	require.True(t, ok)
	assert.Equal(t, int64(10), v.Int())

	_, ok = env.LookupLexical("y", snap)
	assert.False(t, ok)
	_, ok = env.LookupDynamic("z")
	assert.False(t, ok)
}

func TestDictKeysSorted(t *testing.T) {
	d := NewDict()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		d.Put(name, NewBool(true))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, d.Keys())

	d.Delete("mid")
	assert.Equal(t, 2, d.Len())

	clone := d.Clone()
	clone.Put("extra", NewInt(1))
	assert.Equal(t, 2, d.Len())
}
