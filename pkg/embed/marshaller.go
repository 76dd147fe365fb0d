// Package embed is wisp's host-embedding API (spec.md §6's CLI/embedding
// collaborator; kept minimal per SPEC_FULL.md). It mirrors
// funvibe-funxy/pkg/embed's Bind/Set/Get/Eval/Call/LoadFile shape, adapted
// from that package's bytecode-VM/typesystem plumbing to wisp's tree-
// walking evaluator.Value model.
package embed

import (
	"fmt"
	"reflect"

	"github.com/wisp-lang/wisp/internal/evaluator"
	"github.com/wisp-lang/wisp/internal/numeric"
)

// toValue converts a plain Go value into an evaluator.Value. Supported
// shapes are exactly what spec.md's Value sum type can represent: numbers,
// strings, booleans, slices (-> Array), and string-keyed maps (->
// Dictionary) -- arbitrary Go structs are out of scope for this minimal
// collaborator (funvibe-funxy's HostObject/reflection-dispatch machinery
// has no equivalent here: spec.md's Object variant is exclusively
// `struct`/`class` instances, not a generic Go value wrapper).
func toValue(val interface{}) (evaluator.Value, error) {
	if val == nil {
		return evaluator.Nil, nil
	}
	if v, ok := val.(evaluator.Value); ok {
		return v, nil
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return evaluator.Num(numeric.Int(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return evaluator.Num(numeric.Int(int64(rv.Uint()))), nil
	case reflect.Float32, reflect.Float64:
		return evaluator.Num(numeric.Float(rv.Float())), nil
	case reflect.Bool:
		return evaluator.Bool(rv.Bool()), nil
	case reflect.String:
		return evaluator.Str(rv.String()), nil
	case reflect.Slice, reflect.Array:
		items := make([]*evaluator.Symbol, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			el, err := toValue(rv.Index(i).Interface())
			if err != nil {
				return evaluator.Value{}, err
			}
			items[i] = evaluator.NewSymbol(el)
		}
		return evaluator.Arr(items), nil
	case reflect.Map:
		d := evaluator.NewDictionary()
		iter := rv.MapRange()
		for iter.Next() {
			el, err := toValue(iter.Value().Interface())
			if err != nil {
				return evaluator.Value{}, err
			}
			d.Set(fmt.Sprint(iter.Key().Interface()), evaluator.NewSymbol(el))
		}
		return evaluator.Dict(d), nil
	default:
		return evaluator.Value{}, fmt.Errorf("embed: cannot convert Go value of type %T to a Value", val)
	}
}

// fromValue is toValue's inverse, used to hand a script result back to Go
// code as an interface{}.
func fromValue(v evaluator.Value) (interface{}, error) {
	switch v.Kind {
	case evaluator.KindNil:
		return nil, nil
	case evaluator.KindBoolean:
		return v.Bool, nil
	case evaluator.KindNumber:
		if v.Num.IsFloat() {
			return v.Num.AsFloat(), nil
		}
		return int(v.Num.AsInt()), nil
	case evaluator.KindString:
		return v.Str, nil
	case evaluator.KindArray:
		out := make([]interface{}, len(v.Arr))
		for i, sym := range v.Arr {
			el, err := fromValue(sym.Value)
			if err != nil {
				return nil, err
			}
			out[i] = el
		}
		return out, nil
	case evaluator.KindDictionary:
		out := make(map[string]interface{}, v.Dict.Len())
		for _, k := range v.Dict.Keys() {
			sym, _ := v.Dict.Get(k)
			el, err := fromValue(sym.Value)
			if err != nil {
				return nil, err
			}
			out[k] = el
		}
		return out, nil
	default:
		return nil, fmt.Errorf("embed: cannot convert %s value back to a Go value", v.Kind)
	}
}

// goFuncNative wraps a Go function as an evaluator.Overload.Native body,
// marshalling arguments in and the single return value (if any) back out.
// Multi-return Go functions are rejected at bind time (Bind), not here.
func goFuncNative(fn reflect.Value) func(ev *evaluator.Evaluator, self *evaluator.Scope, args []*evaluator.Symbol) (*evaluator.Symbol, error) {
	t := fn.Type()
	return func(ev *evaluator.Evaluator, self *evaluator.Scope, args []*evaluator.Symbol) (*evaluator.Symbol, error) {
		variadic := t.IsVariadic()
		want := t.NumIn()
		if variadic {
			if len(args) < want-1 {
				return nil, fmt.Errorf("embed: %s expects at least %d argument(s), got %d", t, want-1, len(args))
			}
		} else if len(args) != want {
			return nil, fmt.Errorf("embed: %s expects %d argument(s), got %d", t, want, len(args))
		}

		in := make([]reflect.Value, len(args))
		for i, a := range args {
			goVal, err := fromValue(a.Value)
			if err != nil {
				return nil, err
			}
			var target reflect.Type
			switch {
			case variadic && i >= want-1:
				target = t.In(want - 1).Elem()
			default:
				target = t.In(i)
			}
			rv := reflect.ValueOf(goVal)
			if goVal == nil {
				in[i] = reflect.Zero(target)
				continue
			}
			if !rv.Type().AssignableTo(target) {
				if !rv.Type().ConvertibleTo(target) {
					return nil, fmt.Errorf("embed: argument %d: cannot use %s as %s", i, rv.Type(), target)
				}
				rv = rv.Convert(target)
			}
			in[i] = rv
		}

		out := fn.Call(in)
		if len(out) == 0 {
			return evaluator.NewSymbol(evaluator.Nil), nil
		}
		v, err := toValue(out[0].Interface())
		if err != nil {
			return nil, err
		}
		return evaluator.NewSymbol(v), nil
	}
}
