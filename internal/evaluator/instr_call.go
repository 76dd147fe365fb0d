package evaluator

import (
	"fmt"
	"unicode/utf8"

	"github.com/wisp-lang/wisp/internal/diagnostics"
	"github.com/wisp-lang/wisp/internal/numeric"
	"github.com/wisp-lang/wisp/internal/token"
)

// CallI evaluates Callee then invokes it with Args -- a bare function
// value dispatches through CallFunction directly; an Object value
// dispatches through its `call` hook (spec.md §4.4 "callable objects").
type CallI struct {
	tok    token.Token
	Callee Instruction
	Args   []Instruction
}

func (c *CallI) Token() token.Token { return c.tok }
func (c *CallI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	callee, exit, err := evalOperand(ev, scope, c.Callee)
	if err != nil || exit {
		return callee, err
	}
	args := make([]*Symbol, 0, len(c.Args))
	for _, a := range c.Args {
		v, exit, err := evalOperand(ev, scope, a)
		if err != nil || exit {
			return v, err
		}
		args = append(args, v)
	}
	switch callee.Value.Kind {
	case KindFunction:
		return ev.CallFunction(c.tok, callee.Value.Fn, nil, args)
	case KindObject:
		return ev.dispatchHook(c.tok, callee.Value.Obj, nameCall, args)
	}
	return nil, ev.fatal(c.tok, diagnostics.ErrNotCallable, callee.Value.Kind.String())
}

// DefineI evaluates a `def NAME(...) {..}` statement, constructing (or
// extending) the FunctionSet bound to NAME in scope. The closure
// captured is scope itself, taken by reference at definition time so
// later sibling definitions in the same scope (mutual recursion) are
// visible. A lambda expression (FunctionLiteralI below) captures its
// defining scope the same way, by reference.
type DefineI struct {
	tok     token.Token
	Name    string
	Params  []string
	ByRef   []bool
	ParamTy []Parameter
	Variadic bool
	Body    *BlockI
}

func (d *DefineI) Token() token.Token { return d.tok }
func (d *DefineI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	ov := &Overload{
		Sig:      Signature{Params: d.ParamTy, Variadic: d.Variadic},
		ParamIDs: d.Params,
		ByRef:    d.ByRef,
		Body:     d.Body,
		Closure:  scope,
	}
	if existing, ok := scope.LookupLocal(d.Name); ok && existing.Value.Kind == KindFunction {
		existing.Value.Fn.AddOverload(ov)
		return existing, nil
	}
	fs := NewFunctionSet(d.Name, ov)
	sym := NewSymbol(Fn(fs))
	scope.Declare(d.Name, sym)
	return sym, nil
}

// FunctionLiteralI evaluates `(params) => expr` / `() :: {..}` to a
// fresh one-overload Function value. The closure captures scope itself,
// by reference: no copy of the enclosing symbols is taken, so later
// changes to those bindings are visible inside the lambda. The scope is
// Retain()ed so the closure keeps working after scope's own lexical
// block ends.
type FunctionLiteralI struct {
	tok      token.Token
	Params   []string
	ByRef    []bool
	ParamTy  []Parameter
	Variadic bool
	Body     *BlockI
}

func (f *FunctionLiteralI) Token() token.Token { return f.tok }
func (f *FunctionLiteralI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	ov := &Overload{
		Sig:      Signature{Params: f.ParamTy, Variadic: f.Variadic},
		ParamIDs: f.Params,
		ByRef:    f.ByRef,
		Body:     f.Body,
		Closure:  scope.Retain(),
	}
	return NewSymbol(Fn(NewFunctionSet("", ov))), nil
}

// NewI instantiates a struct: `new Class(args)`. It builds a fresh
// Instance scope parented to the global scope (so method bodies resolve
// free names against the program's top level, not the call site),
// populates Struct fields by running the class body against it, walks
// the base chain depth-first so a derived class's own `def`s shadow
// inherited ones, and finally invokes `init` if defined.
type NewI struct {
	tok   token.Token
	Class string
	Args  []Instruction
}

func (n *NewI) Token() token.Token { return n.tok }
func (n *NewI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	classSym, ok := scope.Lookup(n.Class)
	if !ok || classSym.Value.Kind != KindTypeName {
		return nil, ev.fatal(n.tok, diagnostics.ErrUnknownType, n.Class)
	}
	template, ok := ev.classTemplates[n.Class]
	if !ok {
		return nil, ev.fatal(n.tok, diagnostics.ErrFailedInstantiate, n.Class)
	}
	if template.Kind == ClassVirtualKind {
		return nil, ev.fatal(n.tok, diagnostics.ErrCannotExtendVirtual, n.Class)
	}
	inst := NewScope(Struct, ev.Global)
	inst.NameTrace = append([]string{n.Class}, template.Ancestors...)
	inst.Extensions = template.Ancestors
	inst.evalCtx = ev

	// Run oldest ancestor first so the most-derived class's own `def`s,
	// evaluated last, shadow whatever same-named members a base class
	// declared (single inheritance, spec.md §3).
	chain := append(reverseStrings(template.Ancestors), n.Class)
	for _, anc := range chain {
		body, ok := ev.classTemplates[anc]
		if !ok {
			continue
		}
		if _, err := body.Body.Eval(ev, inst); err != nil {
			return nil, err
		}
	}
	if delSym, ok := inst.LookupLocal(nameDeleter); ok && delSym.Value.Kind == KindFunction {
		inst.deleter = delSym.Value.Fn
	}

	args := make([]*Symbol, 0, len(n.Args))
	for _, a := range n.Args {
		v, exit, err := evalOperand(ev, scope, a)
		if err != nil || exit {
			return v, err
		}
		args = append(args, v)
	}
	if initSym, ok := inst.LookupLocal(nameInit); ok && initSym.Value.Kind == KindFunction {
		if _, err := ev.CallFunction(n.tok, initSym.Value.Fn, inst, args); err != nil {
			return nil, err
		}
	}
	inst.Retain()
	return NewSymbol(Obj(inst)), nil
}

func reverseStrings(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}

// ClassVirtualKind mirrors ast.ClassVirtual without importing ast here;
// classTemplates store the already-lowered Kind as this package's own
// small enum to keep Compile the only ast-aware file.
const ClassVirtualKind = 2

// ClassTemplate is the compiled form of a `struct|static|virtual`
// declaration: its body (run against a fresh Instance scope to populate
// fields/methods) plus its linearized ancestor chain.
type ClassTemplate struct {
	Kind      int
	Body      *BlockI
	Ancestors []string
}

// classTemplates is populated by Compile for every class declaration
// in a program and consulted by NewI; stored on Evaluator since it is
// program-wide, load-time metadata rather than per-call state.
func (ev *Evaluator) RegisterClass(name string, t ClassTemplate) {
	if ev.classTemplates == nil {
		ev.classTemplates = make(map[string]ClassTemplate)
	}
	ev.classTemplates[name] = t
}

// ExternCallI invokes a function loaded from a host library via
// internal/ext's gRPC bridge (spec.md §6's `extern "lib"` collaborator,
// wired per SPEC_FULL.md's DOMAIN STACK).
type ExternCallI struct {
	tok      token.Token
	Library  string
	Function string
	Args     []Instruction
}

func (e *ExternCallI) Token() token.Token { return e.tok }
func (e *ExternCallI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	args := make([]*Symbol, 0, len(e.Args))
	for _, a := range e.Args {
		v, exit, err := evalOperand(ev, scope, a)
		if err != nil || exit {
			return v, err
		}
		args = append(args, v)
	}
	if ev.Extern == nil {
		return nil, ev.fatal(e.tok, diagnostics.ErrLibraryNotFound, e.Library)
	}
	return ev.Extern.Call(ev, e.tok, e.Library, e.Function, args)
}

// AllocI implements `alloc(n [, fill])`: a fresh Array of n Nil (or
// `fill`-valued) slots.
type AllocI struct {
	tok  token.Token
	Size Instruction
	Fill Instruction
}

func (a *AllocI) Token() token.Token { return a.tok }
func (a *AllocI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	size, exit, err := evalOperand(ev, scope, a.Size)
	if err != nil || exit {
		return size, err
	}
	n := size.Value.Num.AsInt()
	if n < 0 {
		return nil, ev.fatal(a.tok, diagnostics.ErrNegativeAllocSize, fmt.Sprint(n))
	}
	fill := Nil
	if a.Fill != nil {
		fillSym, exit, err := evalOperand(ev, scope, a.Fill)
		if err != nil || exit {
			return fillSym, err
		}
		fill = fillSym.Value
	}
	items := make([]*Symbol, n)
	for i := range items {
		items[i] = NewSymbol(cloneValue(fill))
	}
	return NewSymbol(Arr(items)), nil
}

// LengthI implements `length(x)` over String (rune count), Array,
// Dictionary, or an object's `length` hook.
type LengthI struct{ unaryInstr }

func (l *LengthI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	v, exit, err := evalOperand(ev, scope, l.A)
	if err != nil || exit {
		return v, err
	}
	switch v.Value.Kind {
	case KindString:
		return NewSymbol(Num(numeric.Int(int64(utf8.RuneCountInString(v.Value.Str))))), nil
	case KindArray:
		return NewSymbol(Num(numeric.Int(int64(len(v.Value.Arr))))), nil
	case KindDictionary:
		return NewSymbol(Num(numeric.Int(int64(v.Value.Dict.Len())))), nil
	case KindObject:
		return ev.dispatchHook(l.tok, v.Value.Obj, nameLength, nil)
	}
	return nil, ev.fatal(l.tok, diagnostics.ErrIndexUnsupported, v.Value.Kind.String())
}

// ParseI implements `parse(s)`: metacircular evaluation of s as a
// program fragment in the current scope (spec.md §4.4's "self-hosted
// eval" builtin). Set by the loader package to avoid an import cycle
// (parser -> evaluator already; evaluator can't import parser back).
type ParseI struct{ unaryInstr }

func (p *ParseI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	src, exit, err := evalOperand(ev, scope, p.A)
	if err != nil || exit {
		return src, err
	}
	if ev.ParseFunc == nil {
		return nil, ev.fatal(p.tok, diagnostics.ErrUnsupportedCast, "String", "parsed program")
	}
	return ev.ParseFunc(ev, scope, src.Value.String())
}

// CharsI implements `chars(x)`: String -> Array of one-rune Strings, or
// Array of one-rune Strings -> String.
type CharsI struct{ unaryInstr }

func (c *CharsI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	v, exit, err := evalOperand(ev, scope, c.A)
	if err != nil || exit {
		return v, err
	}
	switch v.Value.Kind {
	case KindString:
		runes := []rune(v.Value.Str)
		out := make([]*Symbol, len(runes))
		for i, r := range runes {
			out[i] = NewSymbol(Str(string(r)))
		}
		return NewSymbol(Arr(out)), nil
	case KindArray:
		var sb []byte
		for _, s := range v.Value.Arr {
			sb = append(sb, []byte(s.Value.String())...)
		}
		return NewSymbol(Str(string(sb))), nil
	}
	return nil, ev.fatal(c.tok, diagnostics.ErrUnsupportedCast, v.Value.Kind.String(), "chars")
}

// CharNI implements `charn(x)`: String -> Array of per-rune codepoint
// Numbers, the byte/codepoint-level sibling of CharsI. A plain rune
// conversion suffices here; funbit's bit-level packing is reserved for
// internal/ext's wire codec, which actually needs sub-byte layouts.
type CharNI struct{ unaryInstr }

func (c *CharNI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	v, exit, err := evalOperand(ev, scope, c.A)
	if err != nil || exit {
		return v, err
	}
	if v.Value.Kind == KindString {
		runes := []rune(v.Value.Str)
		out := make([]*Symbol, len(runes))
		for i, r := range runes {
			out[i] = NewSymbol(Num(numeric.Int(int64(r))))
		}
		return NewSymbol(Arr(out)), nil
	}
	if v.Value.Kind == KindArray {
		var sb []rune
		for _, s := range v.Value.Arr {
			if s.Value.Kind != KindNumber {
				return nil, ev.fatal(c.tok, diagnostics.ErrUnsupportedCast, "Array", "String")
			}
			sb = append(sb, rune(s.Value.Num.AsInt()))
		}
		return NewSymbol(Str(string(sb))), nil
	}
	return nil, ev.fatal(c.tok, diagnostics.ErrUnsupportedCast, v.Value.Kind.String(), "charn")
}
