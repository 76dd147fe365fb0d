package ext

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/internal/evaluator"
	"github.com/wisp-lang/wisp/internal/numeric"
)

// cmpValue deep-compares two evaluator.Value trees. evaluator.Symbol
// carries unexported bookkeeping fields, which cmp.Diff only inspects with
// explicit AllowUnexported permission; numeric.Number is listed too, though
// cmp compares it through its Equal method.
func cmpValue(t *testing.T, want, got evaluator.Value) {
	t.Helper()
	diff := cmp.Diff(want, got,
		cmp.AllowUnexported(numeric.Number{}, evaluator.Symbol{}),
	)
	require.Empty(t, diff)
}

func TestValueToWireRoundTripsScalars(t *testing.T) {
	cases := []evaluator.Value{
		evaluator.Nil,
		evaluator.Bool(true),
		evaluator.Bool(false),
		evaluator.Num(numeric.Int(42)),
		evaluator.Num(numeric.Float(3.5)),
		evaluator.Str("hello"),
	}
	for _, v := range cases {
		msg, err := valueToWire(v)
		require.NoError(t, err)
		got, err := wireToValue(msg)
		require.NoError(t, err)
		cmpValue(t, v, got)
	}
}

func TestValueToWireRoundTripsNestedArray(t *testing.T) {
	v := evaluator.Arr([]*evaluator.Symbol{
		evaluator.NewSymbol(evaluator.Num(numeric.Int(1))),
		evaluator.NewSymbol(evaluator.Str("two")),
		evaluator.NewSymbol(evaluator.Arr([]*evaluator.Symbol{
			evaluator.NewSymbol(evaluator.Bool(true)),
		})),
	})

	msg, err := valueToWire(v)
	require.NoError(t, err)
	got, err := wireToValue(msg)
	require.NoError(t, err)
	cmpValue(t, v, got)
}

func TestValueToWireRejectsUnsupportedKind(t *testing.T) {
	_, err := valueToWire(evaluator.Value{Kind: evaluator.KindFunction})
	require.Error(t, err)
}
