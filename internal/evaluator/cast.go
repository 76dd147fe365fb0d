package evaluator

import (
	"github.com/wisp-lang/wisp/internal/diagnostics"
	"github.com/wisp-lang/wisp/internal/numeric"
	"github.com/wisp-lang/wisp/internal/token"
)

// CastI implements `x -> T` against the closed cast matrix spec.md §4.4
// lays out. Unsupported combinations are a Fatal, not a silent Nil.
type CastI struct {
	unaryInstr
	To string
}

func (c *CastI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	v, exit, err := evalOperand(ev, scope, c.A)
	if err != nil || exit {
		return v, err
	}
	out, err := ev.cast(c.tok, scope, v.Value, c.To)
	if err != nil {
		return nil, err
	}
	return NewSymbol(out), nil
}

func (ev *Evaluator) cast(tok token.Token, scope *Scope, v Value, to string) (Value, error) {
	switch to {
	case "Any":
		return v, nil
	case "String":
		if v.Kind == KindObject {
			if sym, err := ev.dispatchHook(tok, v.Obj, "->String", nil); err == nil {
				return sym.Value, nil
			}
			break
		}
		return Str(v.String()), nil
	case "Boolean":
		switch v.Kind {
		case KindBoolean:
			return v, nil
		case KindNumber:
			return Bool(v.Num.AsFloat() != 0), nil
		case KindString:
			return Bool(v.Str == "true"), nil
		}
	case "Number":
		switch v.Kind {
		case KindNumber:
			return v, nil
		case KindBoolean:
			if v.Bool {
				return Num(numeric.Int(1)), nil
			}
			return Num(numeric.Int(0)), nil
		case KindString:
			n, ok := numeric.Parse(v.Str)
			if !ok {
				return Value{}, ev.fatal(tok, diagnostics.ErrUnsupportedCast, "String", "Number")
			}
			return Num(n), nil
		}
	case "Array":
		switch v.Kind {
		case KindArray:
			return v, nil
		case KindDictionary:
			keys := v.Dict.Keys()
			out := make([]*Symbol, len(keys))
			for i, k := range keys {
				val, _ := v.Dict.Get(k)
				pair := []*Symbol{NewSymbol(Str(k)), val.DeepClone()}
				out[i] = NewSymbol(Arr(pair))
			}
			return Arr(out), nil
		case KindString:
			runes := []rune(v.Str)
			out := make([]*Symbol, len(runes))
			for i, r := range runes {
				out[i] = NewSymbol(Str(string(r)))
			}
			return Arr(out), nil
		}
	case "Dictionary":
		switch v.Kind {
		case KindDictionary:
			return v, nil
		case KindArray:
			dict := NewDictionary()
			for i, s := range v.Arr {
				if s.Value.Kind == KindArray && len(s.Value.Arr) == 2 {
					dict.Set(s.Value.Arr[0].Value.String(), s.Value.Arr[1].DeepClone())
				} else {
					dict.Set(numeric.Int(int64(i)).String(), s.DeepClone())
				}
			}
			return Dict(dict), nil
		}
	case "Type":
		return TypeName(v.TypeOf()), nil
	}
	// Unsupported combination (marked "—" in the cast matrix, or a target
	// type the matrix doesn't name at all): fall back to an overloaded
	// cast function named "->To" in the enclosing lexical scope before
	// giving up, matching the binary-operator dispatch rule's own
	// scope-hook fallback.
	if scope != nil {
		if sym, ok := scope.Lookup("->" + to); ok && sym.Value.Kind == KindFunction {
			result, err := ev.CallFunction(tok, sym.Value.Fn, nil, []*Symbol{NewSymbol(v)})
			if err == nil {
				return result.Value, nil
			}
		}
	}
	return Value{}, ev.fatal(tok, diagnostics.ErrUnsupportedCast, v.Kind.String(), to)
}
