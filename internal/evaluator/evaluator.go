package evaluator

import (
	"github.com/wisp-lang/wisp/internal/diagnostics"
	"github.com/wisp-lang/wisp/internal/token"
)

// maxCallDepth bounds recursion the way a real call stack eventually
// would; there is no tail-call optimization in this evaluator (spec.md
// names none), so unbounded recursion must fail as a diagnosable Fatal
// rather than crash the host Go process.
const maxCallDepth = 4096

// Evaluator threads the pieces a running program shares: the root scope,
// the live call stack (for diagnostics.Fatal.Stack), and anything a
// single top-level Evaluate call needs access to from deep inside nested
// Instruction.Eval calls (extension loader, trace log writer) without
// passing them explicitly through every signature -- grounded on the
// teacher's evaluator.Environment-plus-ambient-dependencies shape.
type Evaluator struct {
	Global *Scope
	stack  []diagnostics.Frame
	Hooks  Hooks

	classTemplates map[string]ClassTemplate

	// Extern resolves `extern_call lib.fn(args)` through the host ABI
	// bridge (internal/ext); nil when the program declares no `extern`.
	Extern ExternHost

	// ParseFunc backs the `parse(s)` builtin: it compiles and evaluates s
	// as a program fragment against scope. Wired by internal/loader at
	// construction time to avoid evaluator importing parser (which
	// already imports evaluator).
	ParseFunc func(ev *Evaluator, scope *Scope, src string) (*Symbol, error)
}

// ExternHost is the narrow interface internal/ext's gRPC-backed bridge
// satisfies; declared here (not imported from ext) so this package stays
// free of the extension-ABI dependency stack.
type ExternHost interface {
	Call(ev *Evaluator, tok token.Token, library, function string, args []*Symbol) (*Symbol, error)
}

// Hooks lets the host (cmd/wisp, pkg/embed) observe interpreter events
// without the evaluator importing tracelog/ext directly, keeping this
// package dependency-free of the ambient stack.
type Hooks struct {
	OnFatal func(*diagnostics.Fatal)
}

func New(global *Scope) *Evaluator {
	return &Evaluator{Global: global}
}

func (ev *Evaluator) fatal(tok token.Token, template string, args ...string) error {
	f := diagnostics.New(tok, template, args...)
	f.Stack = append([]diagnostics.Frame(nil), ev.stack...)
	if ev.Hooks.OnFatal != nil {
		ev.Hooks.OnFatal(f)
	}
	return f
}

func (ev *Evaluator) pushFrame(tok token.Token, fn string) {
	ev.stack = append(ev.stack, diagnostics.Frame{Token: tok, Function: fn})
}

func (ev *Evaluator) popFrame() {
	if len(ev.stack) > 0 {
		ev.stack = ev.stack[:len(ev.stack)-1]
	}
}

// EvalProgram runs every compiled top-level instruction in sequence
// against the global scope, stopping early on an uncaught Fatal or a
// stray control tag escaping to the top level (a bare `return`/`break`/
// `continue` outside any function or loop is itself reported as a
// Fatal, since it has nowhere left to propagate).
func (ev *Evaluator) EvalProgram(instrs []Instruction) (*Symbol, error) {
	var last *Symbol = NewSymbol(Nil)
	for _, in := range instrs {
		sym, err := in.Eval(ev, ev.Global)
		if err != nil {
			return nil, err
		}
		if !sym.IsNormal() {
			return nil, ev.fatal(in.Token(), diagnostics.ErrUncaughtThrow, "stray "+controlTagName(sym.Tag))
		}
		last = sym
	}
	return last, nil
}

func controlTagName(t ControlTag) string {
	switch t {
	case Return:
		return "return"
	case Break:
		return "break"
	case Continue:
		return "continue"
	case Refer:
		return "refer"
	default:
		return "value"
	}
}

// CallFunction resolves the best-scoring overload of fs for args' runtime
// types and evaluates its body in a fresh Bounded scope child of the
// overload's captured closure. self, when non-nil, is the receiver
// object bound as the call scope's enclosing `this` (method dispatch);
// for a bare function/lambda call self is nil and GetThis falls through
// to whatever `this` the closure itself was already nested in, if any.
func (ev *Evaluator) CallFunction(tok token.Token, fs *FunctionSet, self *Scope, args []*Symbol) (*Symbol, error) {
	if len(ev.stack) >= maxCallDepth {
		return nil, ev.fatal(tok, diagnostics.ErrStackOverflow)
	}
	params := make([]Parameter, len(args))
	for i, a := range args {
		params[i] = a.Value.TypeOf()
	}
	ov, ok := fs.Resolve(params)
	if !ok {
		if len(fs.Overloads) == 0 {
			return nil, ev.fatal(tok, diagnostics.ErrArityMismatch, fs.Name, itoa(len(args)))
		}
		return nil, ev.fatal(tok, diagnostics.ErrNoViableOverload, fs.Name)
	}

	ev.pushFrame(tok, fs.Name)
	defer ev.popFrame()

	if ov.Native != nil {
		return ov.Native(ev, self, args)
	}

	callScope := NewScope(Bounded, ov.Closure)
	for i, name := range ov.ParamIDs {
		var sym *Symbol
		switch {
		case i < len(args) && ov.ByRef != nil && i < len(ov.ByRef) && ov.ByRef[i]:
			sym = args[i] // share the cell: by-ref binding
		case i < len(args):
			sym = args[i].DeepClone()
		default:
			sym = NewSymbol(Nil)
		}
		callScope.Declare(name, sym)
	}
	if ov.Sig.Variadic {
		extra := make([]*Symbol, 0)
		if len(args) > len(ov.ParamIDs) {
			for _, a := range args[len(ov.ParamIDs):] {
				extra = append(extra, a.DeepClone())
			}
		}
		callScope.Declare(nameArgs, NewSymbol(Arr(extra)))
	}
	if self != nil {
		callScope.Declare(nameThis, NewSymbol(Obj(self)))
	}

	result, err := ev.evalBlock(ov.Body, callScope)
	if err != nil {
		return nil, err
	}
	if result.Tag == Return {
		return NewSymbol(result.Value), nil
	}
	if !result.IsNormal() {
		return nil, ev.fatal(tok, diagnostics.ErrUncaughtThrow, "stray "+controlTagName(result.Tag))
	}
	return NewSymbol(Nil), nil
}

// dispatchHook looks up name (an operator-overload or protocol hook) on
// obj's own scope or its inherited ancestors and calls it with args and
// obj bound as `this`.
func (ev *Evaluator) dispatchHook(tok token.Token, obj *Scope, name string, args []*Symbol) (*Symbol, error) {
	sym, ok := obj.Lookup(name)
	if !ok || sym.Value.Kind != KindFunction {
		return nil, ev.fatal(tok, diagnostics.ErrNoHookOverload, name, "Object")
	}
	return ev.CallFunction(tok, sym.Value.Fn, obj, args)
}

// invokeDeleter runs an Instance scope's `deleter` hook exactly once as
// its refcount drops to zero, before shift() reparents any surviving
// closures (spec.md §3 "deferred destruction"; scope.go's Release).
func (ev *Evaluator) invokeDeleter(s *Scope) {
	if s.deleter == nil {
		return
	}
	_, _ = ev.CallFunction(token.Token{}, s.deleter, s, nil)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	buf := [20]byte{}
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
