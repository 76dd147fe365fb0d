package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeExclusiveBuildsArray(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	r := &RangeI{From: num(1), To: num(4)}
	sym, err := r.Eval(ev, ev.Global)
	require.NoError(t, err)
	require.Len(t, sym.Value.Arr, 3)
	assert.Equal(t, int64(1), sym.Value.Arr[0].Value.Num.AsInt())
	assert.Equal(t, int64(3), sym.Value.Arr[2].Value.Num.AsInt())
}

func TestRangeOnObjectDispatchesHook(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	ev.RegisterClass("Seq", ClassTemplate{
		Body: &BlockI{Stmts: []Instruction{
			&DefineI{Name: "range_exc", Params: []string{"other"}, ParamTy: []Parameter{{}},
				Body: &BlockI{Stmts: []Instruction{&ReturnI{unaryInstr{A: num(99)}}}}},
		}},
	})
	ev.Global.Declare("Seq", NewSymbol(TypeName(Parameter{Base: []string{"Seq"}})))
	obj, err := (&NewI{Class: "Seq"}).Eval(ev, ev.Global)
	require.NoError(t, err)

	r := &RangeI{From: &ContainerI{V: obj.Value}, To: num(4)}
	sym, err := r.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, int64(99), sym.Value.Num.AsInt())
}

func TestRangeOnStringIsFatal(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	r := &RangeI{From: &ContainerI{V: Str("not a number")}, To: num(4)}
	_, err := r.Eval(ev, ev.Global)
	assert.Error(t, err)
}

func TestRangeInclusiveUsesDotPlusHook(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	ev.RegisterClass("Seq", ClassTemplate{
		Body: &BlockI{Stmts: []Instruction{
			&DefineI{Name: "range_inc", Params: []string{"other"}, ParamTy: []Parameter{{}},
				Body: &BlockI{Stmts: []Instruction{&ReturnI{unaryInstr{A: num(7)}}}}},
		}},
	})
	ev.Global.Declare("Seq", NewSymbol(TypeName(Parameter{Base: []string{"Seq"}})))
	obj, err := (&NewI{Class: "Seq"}).Eval(ev, ev.Global)
	require.NoError(t, err)

	r := &RangeI{From: &ContainerI{V: obj.Value}, To: num(4), Inclusive: true}
	sym, err := r.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sym.Value.Num.AsInt())
}
