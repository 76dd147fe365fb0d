package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/internal/numeric"
	"github.com/wisp-lang/wisp/internal/token"
)

func num(n int64) Instruction { return &ContainerI{V: Num(numeric.Int(n))} }

func TestBinaryOpArithmetic(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	in := &BinaryOpI{binaryInstr{A: num(2), B: num(3)}, token.PLUS}
	sym, err := in.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sym.Value.Num.AsInt())
}

func TestDivisionByZeroYieldsInf(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	in := &BinaryOpI{binaryInstr{A: num(1), B: num(0)}, token.SLASH}
	sym, err := in.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, "inf", sym.Value.Num.String())
}

func TestIfTakesFirstTruthyBranch(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	ifInstr := &IfI{Branches: []IfBranchI{
		{Cond: &ContainerI{V: Bool(false)}, Body: &BlockI{Stmts: []Instruction{num(1)}}},
		{Cond: &ContainerI{V: Bool(true)}, Body: &BlockI{Stmts: []Instruction{num(2)}}},
		{Cond: nil, Body: &BlockI{Stmts: []Instruction{num(3)}}},
	}}
	sym, err := ifInstr.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sym.Value.Num.AsInt())
}

func TestWhileLoopAccumulates(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	ev.Global.Declare("i", NewSymbol(Num(numeric.Int(0))))
	ev.Global.Declare("sum", NewSymbol(Num(numeric.Int(0))))

	cond := &BinaryOpI{binaryInstr{A: &VariableI{Name: "i"}, B: num(5)}, token.LT}
	body := &BlockI{Stmts: []Instruction{
		&AssignI{Target: &VariableI{Name: "sum"}, Value: &BinaryOpI{binaryInstr{A: &VariableI{Name: "sum"}, B: &VariableI{Name: "i"}}, token.PLUS}},
		&AssignI{Target: &VariableI{Name: "i"}, Value: &BinaryOpI{binaryInstr{A: &VariableI{Name: "i"}, B: num(1)}, token.PLUS}},
	}}
	loop := &WhileI{Cond: cond, Body: body}
	_, err := loop.Eval(ev, ev.Global)
	require.NoError(t, err)

	sym, _ := ev.Global.Lookup("sum")
	assert.Equal(t, int64(10), sym.Value.Num.AsInt())
}

func TestBreakStopsLoop(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	ev.Global.Declare("i", NewSymbol(Num(numeric.Int(0))))

	body := &BlockI{Stmts: []Instruction{
		&AssignI{Target: &VariableI{Name: "i"}, Value: &BinaryOpI{binaryInstr{A: &VariableI{Name: "i"}, B: num(1)}, token.PLUS}},
		&BreakI{},
	}}
	loop := &WhileI{Cond: &ContainerI{V: Bool(true)}, Body: body}
	_, err := loop.Eval(ev, ev.Global)
	require.NoError(t, err)

	sym, _ := ev.Global.Lookup("i")
	assert.Equal(t, int64(1), sym.Value.Num.AsInt())
}

func TestFunctionCallAndReturn(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	def := &DefineI{
		Name:    "sq",
		Params:  []string{"x"},
		ParamTy: []Parameter{{}},
		Body: &BlockI{Stmts: []Instruction{
			&ReturnI{unaryInstr{A: &BinaryOpI{binaryInstr{A: &VariableI{Name: "x"}, B: &VariableI{Name: "x"}}, token.ASTERISK}}}},
		},
	}
	_, err := def.Eval(ev, ev.Global)
	require.NoError(t, err)

	call := &CallI{Callee: &VariableI{Name: "sq"}, Args: []Instruction{num(4)}}
	sym, err := call.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, int64(16), sym.Value.Num.AsInt())
}

func TestMultiDispatchByArity(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	one := &DefineI{Name: "f", Params: []string{"a"}, ParamTy: []Parameter{{}},
		Body: &BlockI{Stmts: []Instruction{&ReturnI{unaryInstr{A: num(1)}}}}}
	two := &DefineI{Name: "f", Params: []string{"a", "b"}, ParamTy: []Parameter{{}, {}},
		Body: &BlockI{Stmts: []Instruction{&ReturnI{unaryInstr{A: num(2)}}}}}
	_, err := one.Eval(ev, ev.Global)
	require.NoError(t, err)
	_, err = two.Eval(ev, ev.Global)
	require.NoError(t, err)

	call1 := &CallI{Callee: &VariableI{Name: "f"}, Args: []Instruction{num(9)}}
	sym, err := call1.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sym.Value.Num.AsInt())

	call2 := &CallI{Callee: &VariableI{Name: "f"}, Args: []Instruction{num(9), num(9)}}
	sym, err = call2.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sym.Value.Num.AsInt())
}

func TestTryCatchCatchesThrow(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	tc := &TryCatchI{
		Try:     &BlockI{Stmts: []Instruction{&ThrowI{unaryInstr{A: &ContainerI{V: Str("boom")}}}}},
		CatchID: "e",
		Catch:   &BlockI{Stmts: []Instruction{&VariableI{Name: "e"}}},
	}
	sym, err := tc.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, "boom", sym.Value.Str)
}

func TestObjectOperatorOverload(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	ev.RegisterClass("Vec", ClassTemplate{
		Body: &BlockI{Stmts: []Instruction{
			&DefineI{Name: "add", Params: []string{"other"}, ParamTy: []Parameter{{}},
				Body: &BlockI{Stmts: []Instruction{&ReturnI{unaryInstr{A: num(42)}}}}},
		}},
	})
	newInstr := &NewI{Class: "Vec"}
	ev.Global.Declare("Vec", NewSymbol(TypeName(Parameter{Base: []string{"Vec"}})))
	obj, err := newInstr.Eval(ev, ev.Global)
	require.NoError(t, err)

	bin := &BinaryOpI{binaryInstr{A: &ContainerI{V: obj.Value}, B: num(1)}, token.PLUS}
	sym, err := bin.Eval(ev, ev.Global)
	require.NoError(t, err)
	assert.Equal(t, int64(42), sym.Value.Num.AsInt())
}

// TestAssignInvokesObjectSetHook covers spec.md's Symbol assignment rule:
// assigning into a binding whose current value is an object defining
// `set` calls that hook with the right-hand side rather than the default
// deep-copy overwrite.
func TestAssignInvokesObjectSetHook(t *testing.T) {
	ev := New(NewScope(Bounded, nil))
	ev.RegisterClass("Cell", ClassTemplate{
		Body: &BlockI{Stmts: []Instruction{
			&DefineI{Name: "set", Params: []string{"v"}, ParamTy: []Parameter{{}},
				Body: &BlockI{Stmts: []Instruction{
					&AssignI{Target: &MemberI{unaryInstr: unaryInstr{A: &GetThisI{}}, Name: "logged"}, Value: &VariableI{Name: "v"}},
				}},
			},
		}},
	})
	newInstr := &NewI{Class: "Cell"}
	ev.Global.Declare("Cell", NewSymbol(TypeName(Parameter{Base: []string{"Cell"}})))
	obj, err := newInstr.Eval(ev, ev.Global)
	require.NoError(t, err)
	ev.Global.Declare("cell", obj)

	assign := &AssignI{Target: &VariableI{Name: "cell"}, Value: num(7)}
	_, err = assign.Eval(ev, ev.Global)
	require.NoError(t, err)

	logged, ok := obj.Value.Obj.LookupLocal("logged")
	require.True(t, ok)
	assert.Equal(t, int64(7), logged.Value.Num.AsInt())

	cellSym, _ := ev.Global.Lookup("cell")
	assert.Equal(t, KindObject, cellSym.Value.Kind, "set hook intercepts assignment rather than replacing the binding's value")
}
