package ast

import (
	"testing"
)

func TestInspect(t *testing.T) {

	tests := []struct {
		node     Node
		expected string
	}{
		{NewInt(42), "42"},
		{NewInt(-7), "-7"},
		{NewBool(true), "#t"},
		{NewBool(false), "#f"},
		{NewString("a\nb"), `"a\nb"`},
		{NewSymbol("foo"), "foo"},
		{Nil(), "()"},
		{NewList(NewSymbol("a"), NewSymbol("b"), Nil()), "(a b)"},
		{NewList(NewSymbol("a"), NewSymbol("b")), "(a . b)"},
		{NewList(NewSymbol("a"), NewList(NewSymbol("b"), Nil()), Nil()), "(a (b))"},
		{NewList(Nil()), "()"},
		{NewPrimitive("car", nil), "#<primitive car>"},
		{Undef(), "#<undef>"},
		{Errorf("bad thing: %d", 7), "Error: bad thing: 7"},
	}

	for _, tt := range tests {
		if got := tt.node.Inspect(); got != tt.expected {
			t.Errorf("Inspect() - got: %q, want: %q", got, tt.expected)
		}
	}
}

func TestListPredicates(t *testing.T) {

	tests := []struct {
		node   Node
		isList bool
		isNull bool
		isPair bool
	}{
		{Nil(), true, true, false},
		{NewList(NewSymbol("a"), Nil()), true, false, true},
		{NewList(NewSymbol("a"), NewSymbol("b")), false, false, true},
		{NewList(Nil()), true, false, true},
		{NewSymbol("a"), false, false, false},
		{NewInt(1), false, false, false},
	}

	for _, tt := range tests {
		if got := tt.node.IsList(); got != tt.isList {
			t.Errorf("IsList() of %s - got: %v, want: %v", tt.node.Inspect(), got, tt.isList)
		}
		if got := tt.node.IsNull(); got != tt.isNull {
			t.Errorf("IsNull() of %s - got: %v, want: %v", tt.node.Inspect(), got, tt.isNull)
		}
		if got := tt.node.IsPair(); got != tt.isPair {
			t.Errorf("IsPair() of %s - got: %v, want: %v", tt.node.Inspect(), got, tt.isPair)
		}
	}
}

func TestEqual(t *testing.T) {

	tests := []struct {
		a, b     Node
		expected bool
	}{
		{NewInt(1), NewInt(1), true},
		{NewInt(1), NewInt(2), false},
		{NewInt(1), NewBool(true), false},
		{NewSymbol("a"), NewSymbol("a"), true},
		{NewSymbol("a"), NewString("a"), false},
		{Nil(), Nil(), true},
		{Nil(), NewList(Nil()), false},
		{
			NewList(NewSymbol("a"), NewInt(1), Nil()),
			NewList(NewSymbol("a"), NewInt(1), Nil()),
			true,
		},
		{
			NewList(NewSymbol("a"), Nil()),
			NewList(NewSymbol("a"), NewSymbol("b"), Nil()),
			false,
		},
		{NewPrimitive("car", nil), NewPrimitive("car", nil), true},
		{NewPrimitive("car", nil), NewPrimitive("cdr", nil), false},
		{Undef(), Undef(), true},
	}

	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.expected {
			t.Errorf("Equal(%s, %s) - got: %v, want: %v", tt.a.Inspect(), tt.b.Inspect(), got, tt.expected)
		}
	}
}
