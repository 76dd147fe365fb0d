package evaluator

import (
	"fmt"

	"github.com/wisp-lang/wisp/internal/diagnostics"
	"github.com/wisp-lang/wisp/internal/token"
)

// ContainerI returns a precomputed Value, produced either by a literal or
// by the parser's constant folder (ast.Container).
type ContainerI struct {
	tok token.Token
	V   Value
}

func (c *ContainerI) Token() token.Token { return c.tok }
func (c *ContainerI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	return NewSymbol(cloneValue(c.V)), nil
}

// VariableI looks a name up through the scope chain.
type VariableI struct {
	tok  token.Token
	Name string
}

func (v *VariableI) Token() token.Token { return v.tok }
func (v *VariableI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	sym, ok := scope.Lookup(v.Name)
	if !ok {
		return nil, ev.fatal(v.tok, diagnostics.ErrUndefinedVariable, v.Name)
	}
	return sym, nil
}

// GetThisI evaluates the bare `this` reference.
type GetThisI struct{ tok token.Token }

func (g *GetThisI) Token() token.Token { return g.tok }
func (g *GetThisI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	this, ok := scope.GetThis()
	if !ok {
		return nil, ev.fatal(g.tok, diagnostics.ErrThisOutsideObject)
	}
	return NewSymbol(Obj(this)), nil
}

// DeclareI binds Name := Value in scope, overwriting any existing local.
type DeclareI struct {
	binaryInstr // A unused; B is the value expression
	Name        string
}

func (d *DeclareI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	val, exit, err := evalOperand(ev, scope, d.B)
	if err != nil || exit {
		return val, err
	}
	sym := val.DeepClone()
	scope.Declare(d.Name, sym)
	return sym, nil
}

// VarDeclI declares one or more uninitialized (Nil) locals: `var a, b;`.
type VarDeclI struct {
	tok   token.Token
	Names []string
}

func (v *VarDeclI) Token() token.Token { return v.tok }
func (v *VarDeclI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	for _, n := range v.Names {
		scope.Declare(n, NewSymbol(Nil))
	}
	return NewSymbol(Nil), nil
}

// AssignI mutates an existing binding in place (`=`) or elementwise
// (`.=`, BROADCAST_ASSIGN) across every element of a target Array.
type AssignI struct {
	tok      token.Token
	Target   Instruction // must evaluate to an lvalue-capable Symbol (Variable/Index/Member)
	Value    Instruction
	Broadcast bool
}

func (a *AssignI) Token() token.Token { return a.tok }
func (a *AssignI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	val, exit, err := evalOperand(ev, scope, a.Value)
	if err != nil || exit {
		return val, err
	}
	targetSym, err := a.evalTarget(ev, scope)
	if err != nil {
		return nil, err
	}
	if a.Broadcast {
		if targetSym.Value.Kind != KindArray {
			return nil, ev.fatal(a.tok, diagnostics.ErrBroadcastNonArray)
		}
		for _, el := range targetSym.Value.Arr {
			el.Set(cloneValue(val.Value))
		}
		return targetSym, nil
	}
	if targetSym.Value.Kind == KindObject {
		if sym, err := ev.dispatchHook(a.tok, targetSym.Value.Obj, nameSet, []*Symbol{val}); err == nil {
			return sym, nil
		}
	}
	targetSym.Set(cloneValue(val.Value))
	return targetSym, nil
}

// evalTarget resolves the lvalue a.Target binds to. A plain Member target
// (`this.n = ..`, `obj.n = ..`) is special-cased: unlike a Variable or
// Index target, a field need not already exist -- assignment is how new
// instance fields come into being, so an absent field is declared on the
// object's own scope rather than treated as an undefined-member fatal.
func (a *AssignI) evalTarget(ev *Evaluator, scope *Scope) (*Symbol, error) {
	member, ok := a.Target.(*MemberI)
	if !ok {
		return a.Target.Eval(ev, scope)
	}
	objSym, exit, err := evalOperand(ev, scope, member.A)
	if err != nil || exit {
		return objSym, err
	}
	if objSym.Value.Kind != KindObject {
		return nil, ev.fatal(member.tok, diagnostics.ErrMemberOnNonObject, member.Name)
	}
	if sym, ok := objSym.Value.Obj.LookupLocal(member.Name); ok {
		return sym, nil
	}
	sym := NewSymbol(Nil)
	objSym.Value.Obj.Declare(member.Name, sym)
	return sym, nil
}

// IndexI evaluates `target[index]`, dispatching to Array/Dictionary/
// String native indexing or an object's `get` hook (spec.md §4.4).
type IndexI struct {
	binaryInstr // A=target, B=index
}

func (i *IndexI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	tgt, exit, err := evalOperand(ev, scope, i.A)
	if err != nil || exit {
		return tgt, err
	}
	idx, exit, err := evalOperand(ev, scope, i.B)
	if err != nil || exit {
		return idx, err
	}
	return ev.indexInto(i.tok, tgt.Value, idx.Value)
}

// MemberI evaluates `target.Name`, looking up Name in the target
// object's scope or, for a Static namespace, resolving it directly.
type MemberI struct {
	unaryInstr
	Name string
}

func (m *MemberI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	tgt, exit, err := evalOperand(ev, scope, m.A)
	if err != nil || exit {
		return tgt, err
	}
	if tgt.Value.Kind != KindObject {
		return nil, ev.fatal(m.tok, diagnostics.ErrMemberOnNonObject, m.Name)
	}
	sym, ok := tgt.Value.Obj.LookupLocal(m.Name)
	if !ok {
		sym, ok = tgt.Value.Obj.Lookup(m.Name)
	}
	if !ok {
		return nil, ev.fatal(m.tok, diagnostics.ErrUndefinedMember, m.Name)
	}
	return sym, nil
}

// ArrayLitI builds a fresh Array from element instructions.
type ArrayLitI struct {
	tok      token.Token
	Elements []Instruction
}

func (a *ArrayLitI) Token() token.Token { return a.tok }
func (a *ArrayLitI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	items := make([]*Symbol, 0, len(a.Elements))
	for _, e := range a.Elements {
		v, exit, err := evalOperand(ev, scope, e)
		if err != nil || exit {
			return v, err
		}
		items = append(items, v.DeepClone())
	}
	return NewSymbol(Arr(items)), nil
}

// DictLitI builds a fresh Dictionary from key/value instruction pairs.
type DictLitI struct {
	tok     token.Token
	Keys    []Instruction
	Values  []Instruction
}

func (d *DictLitI) Token() token.Token { return d.tok }
func (d *DictLitI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	dict := NewDictionary()
	for i := range d.Keys {
		k, exit, err := evalOperand(ev, scope, d.Keys[i])
		if err != nil || exit {
			return k, err
		}
		v, exit, err := evalOperand(ev, scope, d.Values[i])
		if err != nil || exit {
			return v, err
		}
		dict.Set(k.Value.String(), v.DeepClone())
	}
	return NewSymbol(Dict(dict)), nil
}

// DeleteI removes target[key] (Array/Dictionary) or dispatches an
// object's `del` hook.
type DeleteI struct {
	binaryInstr
}

func (d *DeleteI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	tgt, exit, err := evalOperand(ev, scope, d.A)
	if err != nil || exit {
		return tgt, err
	}
	key, exit, err := evalOperand(ev, scope, d.B)
	if err != nil || exit {
		return key, err
	}
	switch tgt.Value.Kind {
	case KindDictionary:
		tgt.Value.Dict.Delete(key.Value.String())
		return NewSymbol(Nil), nil
	case KindArray:
		n := key.Value.Num.AsInt()
		if n < 0 || n >= int64(len(tgt.Value.Arr)) {
			return nil, ev.fatal(d.tok, diagnostics.ErrIndexOutOfRange, fmt.Sprint(n))
		}
		arr := tgt.Value.Arr
		tgt.Value.Arr = append(arr[:n], arr[n+1:]...)
		return NewSymbol(Nil), nil
	case KindObject:
		return ev.dispatchHook(d.tok, tgt.Value.Obj, nameDel, []*Symbol{key})
	}
	return nil, ev.fatal(d.tok, diagnostics.ErrDeleteUnsupported, tgt.Value.Kind.String())
}

// HashI computes `@x`, a structural hash over x's printed form -- the
// same definition the Dictionary/Object `hash` overload fallback uses
// (spec.md §4.4).
type HashI struct{ unaryInstr }

func (h *HashI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	v, exit, err := evalOperand(ev, scope, h.A)
	if err != nil || exit {
		return v, err
	}
	return NewSymbol(Num(structuralHash(v.Value))), nil
}

// TypeOfI computes `$x`.
type TypeOfI struct{ unaryInstr }

func (t *TypeOfI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	v, exit, err := evalOperand(ev, scope, t.A)
	if err != nil || exit {
		return v, err
	}
	return NewSymbol(TypeName(v.Value.TypeOf())), nil
}
