package parser

import (
	"github.com/wisp-lang/wisp/internal/ast"
	"github.com/wisp-lang/wisp/internal/evaluator"
)

// fold replaces a structurally-const expression (spec.md §4.2: "a node is
// foldable when is_const() holds for all inputs and running its generated
// instruction in a fresh empty scope does not throw") with an ast.Container
// wrapping the precomputed evaluator.Value. Identifier, CallExpr, and
// MemberExpr all report IsConst()==false unconditionally (see their
// doc comments in internal/ast), so only literal-composed subtrees --
// arithmetic/array/dict literals over literals -- ever reach here; there is
// no need to thread a const-registry/scope-path lookup through folding, a
// deliberate simplification recorded in DESIGN.md.
//
// A fold failure (the trial evaluation throws, e.g. `1/0` under a stricter
// numeric mode, or an unsupported operator combination) is not a parse
// error: the node is simply left unfolded and evaluated normally at run
// time.
func fold(e ast.Expression) (ast.Expression, error) {
	if e == nil || !e.IsConst() {
		return e, nil
	}
	if _, already := e.(*ast.Container); already {
		return e, nil
	}
	instr, err := evaluator.CompileExpression(e)
	if err != nil {
		return e, nil
	}
	scratch := evaluator.New(evaluator.NewScope(evaluator.Bounded, nil))
	sym, err := instr.Eval(scratch, scratch.Global)
	if err != nil {
		return e, nil
	}
	return ast.NewContainer(e.GetToken(), sym.Value), nil
}
