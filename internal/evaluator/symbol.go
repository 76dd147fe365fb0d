package evaluator

// ControlTag marks a Symbol as carrying a non-local exit rather than an
// ordinary value, letting the evaluator unwind loops/functions without
// Go-level panics (spec.md §4.4 "control-flow values"; grounded on
// original_source/main/lang/Symbol.h's Type enum: TYPE_CASUAL/RETURN/
// BREAK/CONTINUE/REFER).
type ControlTag int

const (
	Casual ControlTag = iota
	Return
	Break
	Continue
	Refer
)

// Symbol is the mutable cell every binding (scope variable, array slot,
// dictionary value) actually is: a Value plus a control tag, refcounted so
// Scope.shift can tell when an Instance scope's last reference drops
// (spec.md §3 "Symbol"). refs is intentionally unsynchronized: the
// evaluator runs scopes single-threaded per call chain, matching
// original_source/main/lang/Scope.cpp's non-atomic reference_count.
type Symbol struct {
	Value Value
	Tag   ControlTag
	refs  int
}

// NewSymbol wraps v as a plain (Casual) binding.
func NewSymbol(v Value) *Symbol {
	return &Symbol{Value: v, Tag: Casual}
}

// Tagged wraps v with a non-local-exit tag.
func Tagged(v Value, tag ControlTag) *Symbol {
	return &Symbol{Value: v, Tag: tag}
}

// Retain/Release implement the refcounting Scope relies on to know when an
// Instance scope should run its deleter hook (scope.go).
func (s *Symbol) Retain() *Symbol {
	if s != nil {
		s.refs++
	}
	return s
}

func (s *Symbol) Release() int {
	if s == nil {
		return 0
	}
	s.refs--
	return s.refs
}

// Set overwrites the value in place, preserving identity -- this is how
// `a = b` mutates the binding `a` already names rather than rebinding the
// name to a new cell (spec.md §3: "assignment mutates the Symbol a name is
// bound to, so aliases observe it").
func (s *Symbol) Set(v Value) {
	s.Value = v
	s.Tag = Casual
}

// DeepClone produces an independent Symbol; Array and Dictionary payloads
// are recursively cloned (each element a fresh Symbol) so assigning a
// container does not alias the source, matching
// original_source/main/lang/Symbol.cpp's copy constructor semantics for
// Array/Dictionary-typed symbols (everything else is a shallow value copy
// since Number/String/Boolean/Nil are immutable payloads).
func (s *Symbol) DeepClone() *Symbol {
	return &Symbol{Value: cloneValue(s.Value), Tag: s.Tag}
}

func cloneValue(v Value) Value {
	switch v.Kind {
	case KindArray:
		items := make([]*Symbol, len(v.Arr))
		for i, el := range v.Arr {
			items[i] = el.DeepClone()
		}
		return Arr(items)
	case KindDictionary:
		return Dict(v.Dict.Clone())
	default:
		return v
	}
}

// IsNormal reports whether a symbol holds an ordinary value rather than a
// pending non-local exit -- the check every statement-sequence driver
// performs between statements (evaluator.go).
func (s *Symbol) IsNormal() bool { return s.Tag == Casual }
