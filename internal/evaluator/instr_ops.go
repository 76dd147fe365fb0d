package evaluator

import (
	"github.com/wisp-lang/wisp/internal/numeric"
	"github.com/wisp-lang/wisp/internal/token"
)

// BinaryOpI evaluates both operands then applies operators.go's
// applyBinary dispatch rule order.
type BinaryOpI struct {
	binaryInstr
	Op token.Type
}

func (b *BinaryOpI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	lhs, exit, err := evalOperand(ev, scope, b.A)
	if err != nil || exit {
		return lhs, err
	}
	// Short-circuit && / || without evaluating the right operand when the
	// left already decides the result (spec.md §4.4).
	if b.Op == token.AND && !truthy(lhs.Value) {
		return NewSymbol(Bool(false)), nil
	}
	if b.Op == token.OR && truthy(lhs.Value) {
		return NewSymbol(Bool(true)), nil
	}
	rhs, exit, err := evalOperand(ev, scope, b.B)
	if err != nil || exit {
		return rhs, err
	}
	v, err := ev.applyBinary(b.tok, b.Op, lhs.Value, rhs.Value)
	if err != nil {
		return nil, err
	}
	return NewSymbol(v), nil
}

// UnaryOpI evaluates the operand then applies applyUnary.
type UnaryOpI struct {
	unaryInstr
	Op token.Type
}

func (u *UnaryOpI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	operand, exit, err := evalOperand(ev, scope, u.A)
	if err != nil || exit {
		return operand, err
	}
	v, err := ev.applyUnary(u.tok, u.Op, operand.Value)
	if err != nil {
		return nil, err
	}
	return NewSymbol(v), nil
}

// TernaryI is `cond ? then : else`.
type TernaryI struct {
	tok              token.Token
	Cond, Then, Else Instruction
}

func (t *TernaryI) Token() token.Token { return t.tok }
func (t *TernaryI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	cond, exit, err := evalOperand(ev, scope, t.Cond)
	if err != nil || exit {
		return cond, err
	}
	if truthy(cond.Value) {
		return t.Then.Eval(ev, scope)
	}
	return t.Else.Eval(ev, scope)
}

// RangeI builds a materialized Array for `a..b` (exclusive) / `a.+b`
// (inclusive), honoring an optional `:step` (spec.md §4.4 "range
// expressions"); ranges are eager arrays, not lazy iterators, matching
// their use as ForI/EachI sources via the general iterate() path.
type RangeI struct {
	tok             token.Token
	Inclusive       bool
	From, To, Step  Instruction
}

func (r *RangeI) Token() token.Token { return r.tok }
func (r *RangeI) Eval(ev *Evaluator, scope *Scope) (*Symbol, error) {
	from, exit, err := evalOperand(ev, scope, r.From)
	if err != nil || exit {
		return from, err
	}
	to, exit, err := evalOperand(ev, scope, r.To)
	if err != nil || exit {
		return to, err
	}
	if from.Value.Kind != KindNumber || to.Value.Kind != KindNumber {
		op := token.DOT_DOT
		if r.Inclusive {
			op = token.DOT_PLUS
		}
		v, err := ev.applyBinary(r.tok, op, from.Value, to.Value)
		if err != nil {
			return nil, err
		}
		return NewSymbol(v), nil
	}
	step := int64(1)
	if r.Step != nil {
		s, exit, err := evalOperand(ev, scope, r.Step)
		if err != nil || exit {
			return s, err
		}
		step = s.Value.Num.AsInt()
		if step == 0 {
			step = 1
		}
	}
	lo := from.Value.Num.AsInt()
	hi := to.Value.Num.AsInt()
	if step < 0 {
		lo, hi = hi, lo
	}
	var out []*Symbol
	if step > 0 {
		end := hi
		if r.Inclusive {
			end++
		}
		for i := lo; i < end; i += step {
			out = append(out, NewSymbol(Num(numeric.Int(i))))
		}
	} else {
		end := hi
		if r.Inclusive {
			end--
		}
		for i := lo; i > end; i += step {
			out = append(out, NewSymbol(Num(numeric.Int(i))))
		}
	}
	return NewSymbol(Arr(out)), nil
}
