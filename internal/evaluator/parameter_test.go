package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidityAnyShortCircuits(t *testing.T) {
	assert.Equal(t, 1, Validity(Parameter{}, Parameter{Base: []string{"Number"}}))
	assert.Equal(t, 1, Validity(Parameter{Base: []string{"Number"}}, Parameter{}))
}

func TestValidityExactMatchScoresThree(t *testing.T) {
	p := Parameter{Base: []string{"Number"}}
	assert.Equal(t, 3, Validity(p, p))
}

func TestValidityDerivedObjectScoresTwo(t *testing.T) {
	param := Parameter{Base: []string{"Animal"}}
	arg := Parameter{Base: []string{"Cat"}, Ancestors: []string{"Animal"}}
	assert.Equal(t, 2, Validity(param, arg))
}

func TestValidityUnrelatedTypesFail(t *testing.T) {
	param := Parameter{Base: []string{"String"}}
	arg := Parameter{Base: []string{"Number"}}
	assert.Equal(t, 0, Validity(param, arg))
}

func TestSignatureMatchSumsScores(t *testing.T) {
	sig := Signature{Params: []Parameter{{Base: []string{"Number"}}, {}}}
	args := []Parameter{{Base: []string{"Number"}}, {Base: []string{"String"}}}
	score, ok := sig.Match(args)
	assert.True(t, ok)
	assert.Equal(t, 4, score) // 3 (exact) + 1 (Any)
}

func TestSignatureMatchArityMismatchFails(t *testing.T) {
	sig := Signature{Params: []Parameter{{}}}
	_, ok := sig.Match([]Parameter{{}, {}})
	assert.False(t, ok)
}

func TestSignatureVariadicAcceptsExtraArgs(t *testing.T) {
	sig := Signature{Params: []Parameter{{}}, Variadic: true}
	_, ok := sig.Match([]Parameter{{}, {}, {}})
	assert.True(t, ok)
}

func TestFunctionSetResolvePicksHighestScore(t *testing.T) {
	fs := NewFunctionSet("f", &Overload{Sig: Signature{Params: []Parameter{{}}}})
	fs.AddOverload(&Overload{Sig: Signature{Params: []Parameter{{Base: []string{"Number"}}}}})

	ov, ok := fs.Resolve([]Parameter{{Base: []string{"Number"}}})
	assert.True(t, ok)
	assert.Equal(t, "Number", ov.Sig.Params[0].Name())
}

func TestFunctionSetResolveTiesKeepDeclarationOrder(t *testing.T) {
	first := &Overload{Sig: Signature{Params: []Parameter{{}}}, ParamIDs: []string{"first"}}
	second := &Overload{Sig: Signature{Params: []Parameter{{}}}, ParamIDs: []string{"second"}}
	fs := NewFunctionSet("f", first)
	fs.AddOverload(second)

	ov, ok := fs.Resolve([]Parameter{{Base: []string{"Number"}}})
	assert.True(t, ok)
	assert.Same(t, first, ov)
}
