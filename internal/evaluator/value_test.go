package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wisp-lang/wisp/internal/numeric"
)

func TestDictionaryPrunesNilOnRead(t *testing.T) {
	d := NewDictionary()
	d.Set("a", NewSymbol(Str("x")))
	d.Set("b", NewSymbol(Nil))

	_, ok := d.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 1, d.Len())
}

func TestDictionaryKeysSorted(t *testing.T) {
	d := NewDictionary()
	d.Set("zeta", NewSymbol(Num(numeric.Int(1))))
	d.Set("alpha", NewSymbol(Num(numeric.Int(2))))
	d.Set("mid", NewSymbol(Num(numeric.Int(3))))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, d.Keys())
}

func TestValueStringRendersContainers(t *testing.T) {
	arr := Arr([]*Symbol{NewSymbol(Num(numeric.Int(1))), NewSymbol(Str("x"))})
	assert.Equal(t, "[1, x]", arr.String())
}

func TestCloneValueDeepCopiesArray(t *testing.T) {
	inner := NewSymbol(Num(numeric.Int(1)))
	arr := Arr([]*Symbol{inner})
	cloned := cloneValue(arr)

	cloned.Arr[0].Set(Num(numeric.Int(99)))
	assert.Equal(t, int64(1), inner.Value.Num.AsInt())
}

func TestTypeOfPlainValue(t *testing.T) {
	assert.Equal(t, "Number", Num(numeric.Int(1)).TypeOf().Name())
	assert.Equal(t, "String", Str("x").TypeOf().Name())
}
