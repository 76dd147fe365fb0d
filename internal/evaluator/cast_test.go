package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastNumberToBooleanIsNonZero(t *testing.T) {
	ev := New(NewScope(Bounded, nil))

	zero := &CastI{unaryInstr: unaryInstr{A: num(0)}, To: "Boolean"}
	sym, err := zero.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, false, sym.Value.Bool)

	five := &CastI{unaryInstr: unaryInstr{A: num(5)}, To: "Boolean"}
	sym, err = five.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, true, sym.Value.Bool)
}

func TestCastStringToBooleanOnlyLiteralTrue(t *testing.T) {
	ev := New(NewScope(Bounded, nil))

	cases := map[string]bool{"true": true, "false": false, "anything": false, "": false}
	for s, want := range cases {
		in := &CastI{unaryInstr: unaryInstr{A: &ContainerI{V: Str(s)}}, To: "Boolean"}
		sym, err := in.Eval(ev, ev.Global)
		require.NoError(t, err)
		assert.Equal(t, want, sym.Value.Bool, "string %q", s)
	}
}

func TestCastArrayToBooleanIsUnsupported(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	in := &CastI{unaryInstr: unaryInstr{A: &ContainerI{V: Arr(nil)}}, To: "Boolean"}
	_, err := in.Eval(ev, ev.Global)
	assert.Error(t, err)
}

func TestCastObjectToStringUsesHook(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	ev.RegisterClass("Point", ClassTemplate{
		Body: &BlockI{Stmts: []Instruction{
			&DefineI{Name: "->String", Body: &BlockI{Stmts: []Instruction{
				&ReturnI{unaryInstr{A: &ContainerI{V: Str("(3,4)")}}},
			}}},
		}},
	})
	ev.Global.Declare("Point", NewSymbol(TypeName(Parameter{Base: []string{"Point"}})))
	obj, err := (&NewI{Class: "Point"}).Eval(ev, ev.Global)
	require.NoError(t, err)

	in := &CastI{unaryInstr: unaryInstr{A: &ContainerI{V: obj.Value}}, To: "String"}
	sym, err := in.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, "(3,4)", sym.Value.Str)
}

func TestCastObjectToStringWithoutHookIsFatal(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	ev.RegisterClass("Empty", ClassTemplate{Body: &BlockI{}})
	ev.Global.Declare("Empty", NewSymbol(TypeName(Parameter{Base: []string{"Empty"}})))
	obj, err := (&NewI{Class: "Empty"}).Eval(ev, ev.Global)
	require.NoError(t, err)

	in := &CastI{unaryInstr: unaryInstr{A: &ContainerI{V: obj.Value}}, To: "String"}
	_, err = in.Eval(ev, ev.Global)
	assert.Error(t, err, "Object->String with no ->String hook and no scope fallback is unsupported, not a silent generic repr")
}

func TestCastUnsupportedCombinationFallsBackToScopeHook(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	hookOv := &Overload{
		Sig:    Signature{Params: []Parameter{{}}},
		Native: func(ev *Evaluator, self *Scope, args []*Symbol) (*Symbol, error) {
			return NewSymbol(Str("painted")), nil
		},
	}
	ev.Global.Declare("->Color", NewSymbol(Fn(NewFunctionSet("->Color", hookOv))))

	in := &CastI{unaryInstr: unaryInstr{A: &ContainerI{V: Arr(nil)}}, To: "Color"}
	sym, err := in.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, "painted", sym.Value.Str)
}

func TestCastUnknownTargetWithNoHookIsFatal(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	in := &CastI{unaryInstr: unaryInstr{A: &ContainerI{V: Arr(nil)}}, To: "Color"}
	_, err := in.Eval(ev, ev.Global)
	assert.Error(t, err)
}
