package evaluator

import (
	"github.com/wisp-lang/wisp/internal/diagnostics"
	"github.com/wisp-lang/wisp/internal/numeric"
	"github.com/wisp-lang/wisp/internal/token"
)

// BlockI runs a sequence of instructions in the scope it is given,
// stopping and propagating the first non-Casual result (spec.md §4.4:
// return/break/continue/refer all short-circuit the rest of the block).
type BlockI struct {
	tok   token.Token
	Stmts []Instruction
}

func (b *BlockI) Token() token.Token { return b.tok }

// Eval runs the block's statements directly in scope (no child scope of
// its own) -- callers that need a fresh lexical frame (function bodies,
// loop bodies) wrap the call in evalBlock, which allocates the child.
func (b *BlockI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	last := NewSymbol(Nil)
	for _, s := range b.Stmts {
		sym, err := s.Eval(ev, scope)
		if err != nil {
			return nil, err
		}
		if !sym.IsNormal() {
			return sym, nil
		}
		last = sym
	}
	return last, nil
}

// evalBlock evaluates body in a fresh Bounded scope nested under parent,
// the shape every function call, loop iteration, if/try/switch arm uses
// so locals declared inside don't leak outward.
func (ev *Evaluator) evalBlock(body *BlockI, parent *Scope) (*Symbol, error) {
	if body == nil {
		return NewSymbol(Nil), nil
	}
	child := NewScope(Bounded, parent)
	return body.Eval(ev, child)
}

// ReturnI/BreakI/ContinueI/ReferI produce a tagged Symbol the nearest
// enclosing driver (CallFunction / loop instructions) interprets.
type ReturnI struct {
	unaryInstr // A may be nil for a bare `return;`
}

func (r *ReturnI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	if r.A == nil {
		return Tagged(Nil, Return), nil
	}
	v, exit, err := evalOperand(ev, scope, r.A)
	if err != nil || exit {
		return v, err
	}
	return Tagged(v.Value, Return), nil
}

type ReferI struct{ unaryInstr }

func (r *ReferI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	v, exit, err := evalOperand(ev, scope, r.A)
	if err != nil || exit {
		return v, err
	}
	return Tagged(v.Value, Refer), nil
}

type BreakI struct{ tok token.Token }

func (b *BreakI) Token() token.Token { return b.tok }
func (b *BreakI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	return Tagged(Nil, Break), nil
}

type ContinueI struct{ tok token.Token }

func (c *ContinueI) Token() token.Token { return c.tok }
func (c *ContinueI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	return Tagged(Nil, Continue), nil
}

// ThrowI raises a user Fatal (spec.md §4.4 "throw/try/catch"). Throw
// accepts any Value; its printed form becomes the Fatal's message.
type ThrowI struct{ unaryInstr }

func (t *ThrowI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	v, exit, err := evalOperand(ev, scope, t.A)
	if err != nil || exit {
		return v, err
	}
	f := diagnostics.Thrown(t.tok, v.Value.String())
	if ev.Hooks.OnFatal != nil {
		ev.Hooks.OnFatal(f)
	}
	return nil, f
}

// IfBranchI is one condition/body arm; Cond nil marks the trailing else.
type IfBranchI struct {
	Cond Instruction
	Body *BlockI
}

// IfI evaluates branches top to bottom, running the first whose
// condition is truthy (or the trailing else, if present and none
// matched).
type IfI struct {
	tok      token.Token
	Branches []IfBranchI
}

func (i *IfI) Token() token.Token { return i.tok }
func (i *IfI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	for _, br := range i.Branches {
		if br.Cond == nil {
			return ev.evalBlock(br.Body, scope)
		}
		cond, exit, err := evalOperand(ev, scope, br.Cond)
		if err != nil || exit {
			return cond, err
		}
		if truthy(cond.Value) {
			return ev.evalBlock(br.Body, scope)
		}
	}
	return NewSymbol(Nil), nil
}

// WhileI repeats Body while Cond is truthy, absorbing Break/Continue and
// letting Return/Refer propagate (spec.md §4.4 "loop-body control tags").
type WhileI struct {
	tok  token.Token
	Cond Instruction
	Body *BlockI
}

func (w *WhileI) Token() token.Token { return w.tok }
func (w *WhileI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	for {
		cond, exit, err := evalOperand(ev, scope, w.Cond)
		if err != nil || exit {
			return cond, err
		}
		if !truthy(cond.Value) {
			return NewSymbol(Nil), nil
		}
		sym, err := ev.evalBlock(w.Body, scope)
		if err != nil {
			return nil, err
		}
		switch sym.Tag {
		case Break:
			return NewSymbol(Nil), nil
		case Return, Refer:
			return sym, nil
		}
	}
}

// ForI iterates Name over Iter's elements (Array/Dictionary keys/String
// runes/a Number range), declaring Name fresh per iteration in Body's
// scope.
type ForI struct {
	tok  token.Token
	Name string
	Iter Instruction
	Body *BlockI
}

func (f *ForI) Token() token.Token { return f.tok }
func (f *ForI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	iter, exit, err := evalOperand(ev, scope, f.Iter)
	if err != nil || exit {
		return iter, err
	}
	items, err := ev.iterate(f.tok, iter.Value)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		child := NewScope(Bounded, scope)
		child.Declare(f.Name, item)
		sym, err := f.Body.Eval(ev, child)
		if err != nil {
			return nil, err
		}
		switch sym.Tag {
		case Break:
			return NewSymbol(Nil), nil
		case Return, Refer:
			return sym, nil
		}
	}
	return NewSymbol(Nil), nil
}

// EachI is the filter/map comprehension form: `each x in xs where cond
// do expr`. Where/Do are alternate Block-less expression forms; when the
// source used the block form instead, Body is set and Do is nil.
type EachI struct {
	tok   token.Token
	Name  string
	Iter  Instruction
	Where Instruction // nil if omitted
	Do    Instruction // nil if Body is used instead
	Body  *BlockI
}

func (e *EachI) Token() token.Token { return e.tok }
func (e *EachI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	iter, exit, err := evalOperand(ev, scope, e.Iter)
	if err != nil || exit {
		return iter, err
	}
	items, err := ev.iterate(e.tok, iter.Value)
	if err != nil {
		return nil, err
	}
	results := make([]*Symbol, 0, len(items))
	for _, item := range items {
		child := NewScope(Bounded, scope)
		child.Declare(e.Name, item)
		if e.Where != nil {
			cond, exit, err := evalOperand(ev, child, e.Where)
			if err != nil || exit {
				return cond, err
			}
			if !truthy(cond.Value) {
				continue
			}
		}
		var out *Symbol
		if e.Do != nil {
			out, exit, err = evalOperand(ev, child, e.Do)
		} else {
			out, err = e.Body.Eval(ev, child)
			exit = out != nil && !out.IsNormal()
		}
		if err != nil {
			return nil, err
		}
		if exit {
			switch out.Tag {
			case Break:
				return NewSymbol(Arr(results)), nil
			case Return, Refer:
				return out, nil
			case Continue:
				continue
			}
		}
		results = append(results, out.DeepClone())
	}
	return NewSymbol(Arr(results)), nil
}

// iterate expands an iterable Value into a slice of fresh Symbols, per
// spec.md §4.4's "iteration sources": Array elements, Dictionary keys (as
// Strings), String runes (as one-rune Strings), or a Number range
// (0..n-1).
func (ev *Evaluator) iterate(tok token.Token, v Value) ([]*Symbol, error) {
	switch v.Kind {
	case KindArray:
		out := make([]*Symbol, len(v.Arr))
		for i, s := range v.Arr {
			out[i] = s.DeepClone()
		}
		return out, nil
	case KindDictionary:
		keys := v.Dict.Keys()
		out := make([]*Symbol, len(keys))
		for i, k := range keys {
			out[i] = NewSymbol(Str(k))
		}
		return out, nil
	case KindString:
		runes := []rune(v.Str)
		out := make([]*Symbol, len(runes))
		for i, r := range runes {
			out[i] = NewSymbol(Str(string(r)))
		}
		return out, nil
	case KindNumber:
		n := v.Num.AsInt()
		if n < 0 {
			return nil, ev.fatal(tok, diagnostics.ErrNotIterable, "Number")
		}
		out := make([]*Symbol, n)
		for i := int64(0); i < n; i++ {
			out[i] = NewSymbol(Num(numeric.Int(i)))
		}
		return out, nil
	}
	return nil, ev.fatal(tok, diagnostics.ErrNotIterable, v.Kind.String())
}

// SwitchCaseI is one `case v1,v2 do expr|{..}` arm.
type SwitchCaseI struct {
	Values []Instruction
	Do     Instruction
	Body   *BlockI
}

// SwitchI matches Subject against each case's value list by value
// equality, running the first arm that matches (or Else, if none do).
type SwitchI struct {
	tok     token.Token
	Subject Instruction
	Cases   []SwitchCaseI
	Else    *BlockI
}

func (s *SwitchI) Token() token.Token { return s.tok }
func (s *SwitchI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	subj, exit, err := evalOperand(ev, scope, s.Subject)
	if err != nil || exit {
		return subj, err
	}
	for _, c := range s.Cases {
		for _, valInstr := range c.Values {
			val, exit, err := evalOperand(ev, scope, valInstr)
			if err != nil || exit {
				return val, err
			}
			if valuesEqual(subj.Value, val.Value) {
				if c.Do != nil {
					return c.Do.Eval(ev, scope)
				}
				return ev.evalBlock(c.Body, scope)
			}
		}
	}
	if s.Else != nil {
		return ev.evalBlock(s.Else, scope)
	}
	return NewSymbol(Nil), nil
}

// TryCatchI runs Try; on a Fatal (including an evaluator-raised one, not
// just a user `throw`) it binds CatchID to the error's message and runs
// Catch instead of propagating (spec.md §4.4 "try/catch catches both").
type TryCatchI struct {
	tok     token.Token
	Try     *BlockI
	CatchID string
	Catch   *BlockI
}

func (t *TryCatchI) Token() token.Token { return t.tok }
func (t *TryCatchI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	sym, err := ev.evalBlock(t.Try, scope)
	if err == nil {
		return sym, nil
	}
	fatal, ok := err.(*diagnostics.Fatal)
	if !ok {
		return nil, err
	}
	child := NewScope(Bounded, scope)
	if t.CatchID != "" {
		child.Declare(t.CatchID, NewSymbol(Str(fatal.Message)))
	}
	return t.Catch.Eval(ev, child)
}
