package evaluator

import (
	"github.com/wisp-lang/wisp/internal/numeric"
	"github.com/wisp-lang/wisp/internal/token"
)

// NoopI evaluates to Nil without effect -- the compiled form of a
// statement internal/loader or internal/ext have already fully handled
// before Compile runs (`load`, `extern`).
type NoopI struct{ tok token.Token }

func (n *NoopI) Token() token.Token { return n.tok }
func (n *NoopI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	return NewSymbol(Nil), nil
}

// ClassDeclI registers a struct/static/virtual declaration's compiled
// body and linearized ancestor chain with the Evaluator (consulted by
// NewI) and, for a `static` namespace, evaluates its body immediately
// into a singleton Object bound to its own name (spec.md §3 "Static
// scope: a single shared instance, not per-new").
type ClassDeclI struct {
	tok       token.Token
	Name      string
	Kind      int // mirrors ast.ClassKind: 0 struct, 1 static, 2 virtual
	Base      string
	Body      *BlockI
	Ancestors []string
}

func (c *ClassDeclI) Token() token.Token { return c.tok }
func (c *ClassDeclI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	ancestors := append([]string(nil), c.Ancestors...)
	if c.Base != "" {
		if baseT, ok := ev.classTemplates[c.Base]; ok {
			ancestors = append(ancestors, baseT.Ancestors...)
		}
	}
	ev.RegisterClass(c.Name, ClassTemplate{Kind: c.Kind, Body: c.Body, Ancestors: ancestors})
	sym := NewSymbol(TypeName(Parameter{Base: []string{c.Name}, Ancestors: ancestors}))
	scope.Declare(c.Name, sym)

	const kindStatic = 1
	if c.Kind == kindStatic {
		inst := NewScope(Static, ev.Global)
		inst.NameTrace = []string{c.Name}
		inst.evalCtx = ev
		if _, err := c.Body.Eval(ev, inst); err != nil {
			return nil, err
		}
		scope.Declare(c.Name, NewSymbol(Obj(inst)))
	}
	return sym, nil
}

// EnumMemberI is one `NAME[ = EXPR]` enum member; Value nil means
// "previous value + 1" (spec.md §4.2 "auto-incrementing enum members").
type EnumMemberI struct {
	Name  string
	Value Instruction
}

// EnumDeclI declares every member of an `enum { .. }` block as a
// top-level const Number in the enclosing scope.
type EnumDeclI struct {
	tok     token.Token
	Members []EnumMemberI
}

func (e *EnumDeclI) Token() token.Token { return e.tok }
func (e *EnumDeclI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	next := int64(0)
	for _, m := range e.Members {
		if m.Value != nil {
			v, exit, err := evalOperand(ev, scope, m.Value)
			if err != nil || exit {
				return v, err
			}
			next = v.Value.Num.AsInt()
		}
		scope.Declare(m.Name, NewSymbol(Num(numeric.Int(next))))
		next++
	}
	return NewSymbol(Nil), nil
}
