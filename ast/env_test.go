package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds an environment from the innermost frame value outward.
func chain(values ...Node) *Env {
	var parent *Env
	for i := len(values) - 1; i >= 0; i-- {
		frame := NewEnv()
		frame.SetValue(values[i])
		frame.SetNext(parent)
		parent = frame
	}
	return parent
}

func TestLocate(t *testing.T) {

	// ((x y . rest) over (z) over bare symbol v)
	env := chain(
		NewList(NewSymbol("x"), NewSymbol("y"), NewSymbol("rest")),
		NewList(NewSymbol("z"), Nil()),
		NewSymbol("v"),
	)

	tests := []struct {
		sym  string
		i, j int
		ok   bool
	}{
		{"x", 0, 0, true},
		{"y", 0, 1, true},
		{"rest", 0, -3, true},
		{"z", 1, 0, true},
		{"v", 2, -1, true},
		{"missing", 0, 0, false},
	}

	for _, tt := range tests {
		i, j, ok := env.Locate(NewSymbol(tt.sym))
		assert.Equal(t, tt.ok, ok, "Locate(%s) resolution", tt.sym)
		if tt.ok {
			assert.Equal(t, tt.i, i, "Locate(%s) frame depth", tt.sym)
			assert.Equal(t, tt.j, j, "Locate(%s) slot", tt.sym)
		}
	}
}

// The compile-time address of a parameter must read back the matching
// argument from a runtime chain of the same shape.
func TestLocateLoadRoundTrip(t *testing.T) {

	params := chain(
		NewList(NewSymbol("a"), NewSymbol("b"), Nil()),
		NewList(NewSymbol("c"), Nil()),
	)
	runtime := chain(
		NewList(NewInt(1), NewInt(2), Nil()),
		NewList(NewInt(3), Nil()),
	)

	for sym, expected := range map[string]Node{
		"a": NewInt(1),
		"b": NewInt(2),
		"c": NewInt(3),
	} {
		i, j, ok := params.Locate(NewSymbol(sym))
		require.True(t, ok, "Locate(%s)", sym)
		value, ok := runtime.Load(i, j)
		require.True(t, ok, "Load(%d, %d)", i, j)
		assert.True(t, expected.Equal(value), "round trip of %s - got: %s", sym, value.Inspect())
	}
}

func TestLoadRestSlots(t *testing.T) {

	frame := NewEnv()
	frame.SetValue(NewList(NewInt(1), NewInt(2), NewInt(3), Nil()))

	// j = -2 drops one leading element and keeps the rest as a list.
	rest, ok := frame.Load(0, -2)
	require.True(t, ok)
	assert.True(t, NewList(NewInt(2), NewInt(3), Nil()).Equal(rest), "got: %s", rest.Inspect())

	// A bare-symbol frame answers only j = -1 with its whole value.
	sym := NewEnv()
	sym.SetValue(NewSymbol("xs"))
	value, ok := sym.Load(0, -1)
	require.True(t, ok)
	assert.True(t, NewSymbol("xs").Equal(value))
	_, ok = sym.Load(0, 0)
	assert.False(t, ok, "positional load from a symbol frame")
}

func TestStore(t *testing.T) {

	frame := NewEnv()
	frame.SetValue(NewList(NewInt(1), NewInt(2), NewInt(3), Nil()))

	require.True(t, frame.Store(0, 1, NewInt(42)))
	value, _ := frame.Load(0, 1)
	assert.True(t, NewInt(42).Equal(value))

	// Rest-slot store truncates and splices the new tail in.
	require.True(t, frame.Store(0, -2, NewList(NewInt(8), NewInt(9), Nil())))
	assert.True(t, NewList(NewInt(1), NewInt(8), NewInt(9), Nil()).Equal(frame.Value()),
		"got: %s", frame.Value().Inspect())

	// Whole-value store replaces the frame contents.
	require.True(t, frame.Store(0, -1, NewSymbol("gone")))
	assert.True(t, NewSymbol("gone").Equal(frame.Value()))

	// Out-of-range addresses report failure.
	assert.False(t, frame.Store(5, 0, NewInt(0)))
}

// A frame is shared by reference: a store through one chain is visible
// through every chain that links the same frame.
func TestSharedFrameMutation(t *testing.T) {

	shared := NewEnv()
	shared.SetValue(NewList(NewInt(1), Nil()))

	inner := NewEnv()
	inner.SetValue(NewList(Nil()))
	inner.SetNext(shared)

	require.True(t, inner.Store(1, 0, NewInt(99)))
	value, ok := shared.Load(0, 0)
	require.True(t, ok)
	assert.True(t, NewInt(99).Equal(value))
}
