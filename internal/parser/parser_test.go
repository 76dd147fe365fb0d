package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/internal/ast"
	"github.com/wisp-lang/wisp/internal/evaluator"
	"github.com/wisp-lang/wisp/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.New(src, "test.ra").Tokenize()
	require.NoError(t, err)
	prog, err := New(toks, "test.ra").Parse()
	require.NoError(t, err)
	return prog
}

func run(t *testing.T, src string) *evaluator.Symbol {
	t.Helper()
	prog := parse(t, src)
	instrs, err := evaluator.Compile(prog)
	require.NoError(t, err)
	ev := evaluator.New(evaluator.NewScope(evaluator.Bounded, nil))
	sym, err := ev.EvalProgram(instrs)
	require.NoError(t, err)
	return sym
}

func TestArithmeticPrecedence(t *testing.T) {
	sym := run(t, "1 + 2 * 3;")
	assert.Equal(t, int64(7), sym.Value.Num.AsInt())
}

func TestPowerIsRightAssociative(t *testing.T) {
	sym := run(t, "2 ** 3 ** 2;") // 2 ** (3 ** 2) = 2 ** 9 = 512
	assert.Equal(t, int64(512), sym.Value.Num.AsInt())
}

func TestConstantFoldingProducesContainer(t *testing.T) {
	prog := parse(t, "1 + 2;")
	st, ok := prog.Statements[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	_, isContainer := st.Expr.(*ast.Container)
	assert.True(t, isContainer, "a literal arithmetic expression should fold to a Container")
}

func TestIdentifierExpressionDoesNotFold(t *testing.T) {
	prog := parse(t, "x + 1;")
	st, ok := prog.Statements[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	_, isContainer := st.Expr.(*ast.Container)
	assert.False(t, isContainer, "an expression referencing a variable must never fold")
}

func TestDeclareAndLookup(t *testing.T) {
	sym := run(t, "x := 10; x + 5;")
	assert.Equal(t, int64(15), sym.Value.Num.AsInt())
}

func TestIfElifElse(t *testing.T) {
	sym := run(t, `
		x := 2;
		if x == 1 then {
			99;
		} elif x == 2 then {
			42;
		} else {
			-1;
		}
	`)
	assert.Equal(t, int64(42), sym.Value.Num.AsInt())
}

func TestWhileLoop(t *testing.T) {
	sym := run(t, `
		i := 0;
		sum := 0;
		while i < 5 do {
			sum = sum + i;
			i = i + 1;
		}
		sum;
	`)
	assert.Equal(t, int64(10), sym.Value.Num.AsInt())
}

func TestForOverRange(t *testing.T) {
	sym := run(t, `
		total := 0;
		for i in 0..5 do {
			total = total + i;
		}
		total;
	`)
	assert.Equal(t, int64(10), sym.Value.Num.AsInt())
}

func TestFunctionDefAndCall(t *testing.T) {
	sym := run(t, `
		def square(x) {
			return x * x;
		}
		square(6);
	`)
	assert.Equal(t, int64(36), sym.Value.Num.AsInt())
}

func TestVariadicFunctionBindsArgsArray(t *testing.T) {
	sym := run(t, `
		def total(...) {
			n := 0;
			for v in _args do {
				n = n + v;
			}
			return n;
		}
		total(1, 2, 3, 4);
	`)
	assert.Equal(t, int64(10), sym.Value.Num.AsInt())
}

func TestLambdaExpressionBody(t *testing.T) {
	sym := run(t, `
		double := (x) => x * 2;
		double(21);
	`)
	assert.Equal(t, int64(42), sym.Value.Num.AsInt())
}

func TestStructFieldsAndMethods(t *testing.T) {
	sym := run(t, `
		struct Counter {
			def init(start) {
				this.n = start;
			}
			def bump() {
				this.n = this.n + 1;
				return this.n;
			}
		}
		c := new Counter(10);
		c.bump();
		c.bump();
	`)
	assert.Equal(t, int64(12), sym.Value.Num.AsInt())
}

func TestTryCatchCatchesThrow(t *testing.T) {
	sym := run(t, `
		try {
			throw "bad thing";
		} catch e then {
			e;
		}
	`)
	assert.Equal(t, "bad thing", sym.Value.Str)
}

func TestSwitchDispatch(t *testing.T) {
	sym := run(t, `
		switch 2 of {
			case 1 do 100;
			case 2, 3 do 200;
		} else {
			-1;
		}
	`)
	assert.Equal(t, int64(200), sym.Value.Num.AsInt())
}

func TestArrayAndDictLiterals(t *testing.T) {
	sym := run(t, `
		d := {"a": 1, "b": 2};
		arr := [1, 2, 3];
		d["a"] + arr[2];
	`)
	assert.Equal(t, int64(4), sym.Value.Num.AsInt())
}

func TestEnumAutoIncrements(t *testing.T) {
	sym := run(t, `
		enum { Red, Green, Blue }
		Blue;
	`)
	assert.Equal(t, int64(2), sym.Value.Num.AsInt())
}

func TestEachFiltersAndMaps(t *testing.T) {
	sym := run(t, `
		nums := [1, 2, 3, 4, 5, 6];
		each n in nums where n % 2 == 0 do n * 10;
	`)
	evens := sym.Value.Arr
	require.Len(t, evens, 3)
	assert.Equal(t, int64(120), evens[0].Value.Num.AsInt()+evens[1].Value.Num.AsInt()+evens[2].Value.Num.AsInt())
}
