package evaluator

import (
	"fmt"
	"hash/fnv"

	"github.com/wisp-lang/wisp/internal/diagnostics"
	"github.com/wisp-lang/wisp/internal/numeric"
	"github.com/wisp-lang/wisp/internal/token"
)

// opHook maps a binary/unary token to the operator-overload hook name an
// Object can define to intercept it (spec.md §4.4 "operator overloading"),
// grounded on original_source/main/rossa/instruction/instruction.cpp's
// BOP_* opcode table, which calls back into the object's same-named
// member on a plain-value mismatch.
var opHook = map[token.Type]string{
	token.PLUS: nameAdd, token.MINUS: nameSub, token.ASTERISK: nameMul,
	token.SLASH: nameDiv, token.DSLASH: nameFDiv, token.PERCENT: nameMod,
	token.POWER: namePow,
	token.AMP: nameBAnd, token.PIPE: nameBOr, token.CARET: nameBXor,
	token.LSHIFT: nameBShL, token.RSHIFT: nameBShR,
	token.LT: nameLess, token.GT: nameMore, token.LTE: nameELess, token.GTE: nameEMore,
	token.EQ: nameEquals, token.NOT_EQ: nameNEquals,
	token.CONCAT: nameCct,
	token.DOT_DOT: nameRangeExc, token.DOT_PLUS: nameRangeInc,
}

// applyBinary dispatches a binary operator over evaluated operands
// through the rule order spec.md §4.4 fixes: numeric op, then
// elementwise Array, then String concat/compare, then an Object's hook
// method, else a fatal "no such operator for type" error.
func (ev *Evaluator) applyBinary(tok token.Token, op token.Type, a, b Value) (Value, error) {
	switch {
	case op == token.IDENTITY_EQ:
		return Bool(identical(a, b)), nil
	case op == token.IDENTITY_NEQ:
		return Bool(!identical(a, b)), nil
	case op == token.AND:
		return Bool(truthy(a) && truthy(b)), nil
	case op == token.OR:
		return Bool(truthy(a) || truthy(b)), nil
	}

	if a.Kind == KindNumber && b.Kind == KindNumber {
		return ev.numericBinary(tok, op, a.Num, b.Num)
	}
	if a.Kind == KindArray && b.Kind == KindArray {
		return ev.arrayBinary(tok, op, a.Arr, b.Arr)
	}
	if a.Kind == KindString || b.Kind == KindString {
		if v, ok := ev.stringBinary(op, a, b); ok {
			return v, nil
		}
	}
	if a.Kind == KindObject {
		hook, ok := opHook[op]
		if ok {
			if sym, err := ev.dispatchHook(tok, a.Obj, hook, []*Symbol{NewSymbol(b)}); err == nil {
				return sym.Value, nil
			} else if _, isFatal := err.(*diagnostics.Fatal); !isFatal {
				return Value{}, err
			}
		}
	}
	return Value{}, ev.fatal(tok, diagnostics.ErrNoHookOverload, tokenOpName(op), a.Kind.String())
}

func tokenOpName(op token.Type) string {
	if name, ok := opHook[op]; ok {
		return name
	}
	return op.String()
}

func (ev *Evaluator) numericBinary(tok token.Token, op token.Type, a, b numeric.Number) (Value, error) {
	switch op {
	case token.PLUS:
		return Num(a.Add(b)), nil
	case token.MINUS:
		return Num(a.Sub(b)), nil
	case token.ASTERISK:
		return Num(a.Mul(b)), nil
	case token.SLASH:
		return Num(a.Div(b)), nil
	case token.DSLASH:
		return Num(a.FloorDiv(b)), nil
	case token.PERCENT:
		return Num(a.Mod(b)), nil
	case token.POWER:
		return Num(a.Pow(b)), nil
	case token.AMP:
		return Num(a.BAnd(b)), nil
	case token.PIPE:
		return Num(a.BOr(b)), nil
	case token.CARET:
		return Num(a.BXor(b)), nil
	case token.LSHIFT:
		return Num(a.BShiftL(b)), nil
	case token.RSHIFT:
		return Num(a.BShiftR(b)), nil
	case token.LT:
		return Bool(a.Less(b)), nil
	case token.GT:
		return Bool(a.Greater(b)), nil
	case token.LTE:
		return Bool(a.LessEq(b)), nil
	case token.GTE:
		return Bool(a.GreaterEq(b)), nil
	case token.EQ:
		return Bool(a.Equal(b)), nil
	case token.NOT_EQ:
		return Bool(!a.Equal(b)), nil
	}
	return Value{}, ev.fatal(tok, diagnostics.ErrNoHookOverload, op.String(), "Number")
}

// arrayBinary implements elementwise operators over equal-length arrays
// (spec.md §4.4 "vector-style elementwise arithmetic"); mismatched
// lengths fail fast rather than truncating/zero-padding.
func (ev *Evaluator) arrayBinary(tok token.Token, op token.Type, a, b []*Symbol) (Value, error) {
	if op == token.EQ || op == token.NOT_EQ {
		eq := arraysEqual(a, b)
		if op == token.NOT_EQ {
			eq = !eq
		}
		return Bool(eq), nil
	}
	if op == token.CONCAT {
		out := make([]*Symbol, 0, len(a)+len(b))
		for _, s := range a {
			out = append(out, s.DeepClone())
		}
		for _, s := range b {
			out = append(out, s.DeepClone())
		}
		return Arr(out), nil
	}
	if len(a) != len(b) {
		return Value{}, ev.fatal(tok, diagnostics.ErrIncompatibleVectors, fmt.Sprint(len(a)), fmt.Sprint(len(b)))
	}
	out := make([]*Symbol, len(a))
	for i := range a {
		v, err := ev.applyBinary(tok, op, a[i].Value, b[i].Value)
		if err != nil {
			return Value{}, err
		}
		out[i] = NewSymbol(v)
	}
	return Arr(out), nil
}

func arraysEqual(a, b []*Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valuesEqual(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNil:
		return true
	case KindBoolean:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Num.Equal(b.Num)
	case KindString:
		return a.Str == b.Str
	case KindArray:
		return arraysEqual(a.Arr, b.Arr)
	case KindDictionary:
		if a.Dict.Len() != b.Dict.Len() {
			return false
		}
		for _, k := range a.Dict.Keys() {
			av, _ := a.Dict.Get(k)
			bv, ok := b.Dict.Get(k)
			if !ok || !valuesEqual(av.Value, bv.Value) {
				return false
			}
		}
		return true
	case KindObject:
		return a.Obj == b.Obj
	default:
		return identical(a, b)
	}
}

func identical(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindObject {
		return a.Obj == b.Obj
	}
	return valuesEqual(a, b)
}

// stringBinary handles String concatenation/format and comparisons; when
// neither side is a String itself but concatenation is requested, the
// non-String side is cast via its display String().
func (ev *Evaluator) stringBinary(op token.Type, a, b Value) (Value, bool) {
	switch op {
	case token.PLUS, token.CONCAT:
		return Str(a.String() + b.String()), true
	case token.EQ:
		if a.Kind == KindString && b.Kind == KindString {
			return Bool(a.Str == b.Str), true
		}
	case token.NOT_EQ:
		if a.Kind == KindString && b.Kind == KindString {
			return Bool(a.Str != b.Str), true
		}
	case token.LT:
		if a.Kind == KindString && b.Kind == KindString {
			return Bool(a.Str < b.Str), true
		}
	case token.GT:
		if a.Kind == KindString && b.Kind == KindString {
			return Bool(a.Str > b.Str), true
		}
	case token.LTE:
		if a.Kind == KindString && b.Kind == KindString {
			return Bool(a.Str <= b.Str), true
		}
	case token.GTE:
		if a.Kind == KindString && b.Kind == KindString {
			return Bool(a.Str >= b.Str), true
		}
	}
	return Value{}, false
}

// truthy implements the single boolean-coercion rule spec.md §4.4 names:
// Nil and false are falsy, everything else (including 0 and "") is truthy
// -- there is no C-style zero-is-false coercion in this language.
func truthy(v Value) bool {
	switch v.Kind {
	case KindNil:
		return false
	case KindBoolean:
		return v.Bool
	default:
		return true
	}
}

// applyUnary dispatches `+ - ! ~` (DOLLAR/AT are handled by their own
// TypeOfI/HashI instructions, not here).
func (ev *Evaluator) applyUnary(tok token.Token, op token.Type, v Value) (Value, error) {
	switch op {
	case token.MINUS:
		if v.Kind == KindNumber {
			return Num(v.Num.Neg()), nil
		}
	case token.PLUS:
		if v.Kind == KindNumber {
			return v, nil
		}
	case token.BANG:
		return Bool(!truthy(v)), nil
	case token.TILDE:
		if v.Kind == KindNumber {
			return Num(v.Num.BNot()), nil
		}
	}
	if v.Kind == KindObject {
		hook := map[token.Type]string{
			token.MINUS: nameSub, token.BANG: nameNot, token.TILDE: nameBNot,
		}[op]
		if hook != "" {
			if sym, err := ev.dispatchHook(tok, v.Obj, hook, nil); err == nil {
				return sym.Value, nil
			}
		}
	}
	return Value{}, ev.fatal(tok, diagnostics.ErrNoHookOverload, op.String(), v.Kind.String())
}

// indexInto implements `target[index]` for Array/Dictionary/String
// natively, else falls through to an object's `get` hook.
func (ev *Evaluator) indexInto(tok token.Token, target, index Value) (*Symbol, error) {
	switch target.Kind {
	case KindArray:
		if index.Kind != KindNumber {
			return nil, ev.fatal(tok, diagnostics.ErrNonIntegerIndex, index.Kind.String())
		}
		i := index.Num.AsInt()
		if i < 0 || i >= int64(len(target.Arr)) {
			return nil, ev.fatal(tok, diagnostics.ErrIndexOutOfRange, fmt.Sprint(i))
		}
		return target.Arr[i], nil
	case KindDictionary:
		sym, ok := target.Dict.Get(index.String())
		if !ok {
			return NewSymbol(Nil), nil
		}
		return sym, nil
	case KindString:
		if index.Kind != KindNumber {
			return nil, ev.fatal(tok, diagnostics.ErrNonIntegerIndex, index.Kind.String())
		}
		runes := []rune(target.Str)
		i := index.Num.AsInt()
		if i < 0 || i >= int64(len(runes)) {
			return nil, ev.fatal(tok, diagnostics.ErrIndexOutOfRange, fmt.Sprint(i))
		}
		return NewSymbol(Str(string(runes[i]))), nil
	case KindObject:
		return ev.dispatchHook(tok, target.Obj, nameGet, []*Symbol{NewSymbol(index)})
	}
	return nil, ev.fatal(tok, diagnostics.ErrIndexUnsupported, target.Kind.String())
}

// structuralHash computes the `@x` hash over the printed form of x, the
// same cheap hash Dictionary uses internally for hashable keys via
// String(); exposed to user code so equal-by-value aggregates hash the
// same way `@a == @b` tests expect.
func structuralHash(v Value) numeric.Number {
	h := fnv.New64a()
	h.Write([]byte(v.String()))
	return numeric.Int(int64(h.Sum64()))
}
