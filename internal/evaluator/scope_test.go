package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/internal/numeric"
)

func TestScopeLookupWalksParents(t *testing.T) {
	root := NewScope(Bounded, nil)
	root.Declare("x", NewSymbol(Num(numeric.Int(1))))
	child := NewScope(Bounded, root)

	sym, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), sym.Value.Num.AsInt())

	_, ok = child.LookupLocal("x")
	assert.False(t, ok)
}

func TestScopeShadowing(t *testing.T) {
	root := NewScope(Bounded, nil)
	root.Declare("x", NewSymbol(Num(numeric.Int(1))))
	child := NewScope(Bounded, root)
	child.Declare("x", NewSymbol(Num(numeric.Int(2))))

	sym, _ := child.Lookup("x")
	assert.Equal(t, int64(2), sym.Value.Num.AsInt())
	rootSym, _ := root.Lookup("x")
	assert.Equal(t, int64(1), rootSym.Value.Num.AsInt())
}

func TestGetThisWalksToNearestInstanceScope(t *testing.T) {
	root := NewScope(Bounded, nil)
	inst := NewScope(Struct, root)
	inst.NameTrace = []string{"Cat"}
	block := NewScope(Bounded, inst)

	found, ok := block.GetThis()
	require.True(t, ok)
	assert.Equal(t, "Cat", found.Path())
}

func TestGetThisFailsAtTopLevel(t *testing.T) {
	root := NewScope(Bounded, nil)
	_, ok := root.GetThis()
	assert.False(t, ok)
}

func TestScopeShiftReparentsClosures(t *testing.T) {
	root := NewScope(Bounded, nil)
	inst := NewScope(Struct, root)
	fs := NewFunctionSet("f", &Overload{Closure: inst})
	inst.Declare("f", NewSymbol(Fn(fs)))

	inst.shift()
	assert.Equal(t, root, fs.Overloads[0].Closure)
}

func TestIsDescendantOf(t *testing.T) {
	s := NewScope(Struct, nil)
	s.NameTrace = []string{"Cat", "Animal"}
	s.Extensions = []string{"Animal"}
	assert.True(t, s.IsDescendantOf("Animal"))
	assert.False(t, s.IsDescendantOf("Dog"))
}
