package evaluator

import "github.com/wisp-lang/wisp/internal/token"

// Instruction is a compiled, directly-evaluable node (spec.md §4.3). The
// parser's AST is translated once, at load time, into an Instruction tree
// by compile.go's Compile; the evaluator never touches ast.Node again
// after that, matching funvibe-funxy's AST-then-lowered-tree split and,
// more directly, main/rossa/instruction/instruction.h's Instruction class
// hierarchy (Unary/Binary/Casting prototype base classes that concrete
// opcodes embed).
type Instruction interface {
	// Eval runs the instruction against scope, returning either an
	// ordinary Symbol or one tagged Return/Break/Continue/Refer for the
	// nearest enclosing driver (evaluator.go) to interpret.
	Eval(ev *Evaluator, scope *Scope) (*Symbol, error)
	Token() token.Token
}

// unaryInstr and binaryInstr are the shared embeds every single/double-
// operand opcode composes from, mirroring instruction.h's UnaryI/BinaryI
// prototypes (which factor the "evaluate operand(s), then dispatch on
// evaluated type" boilerplate out of every arithmetic/logical opcode).
type unaryInstr struct {
	tok token.Token
	A   Instruction
}

func (u unaryInstr) Token() token.Token { return u.tok }

type binaryInstr struct {
	tok  token.Token
	A, B Instruction
}

func (b binaryInstr) Token() token.Token { return b.tok }

// evalOperand runs an operand instruction and unwraps a non-Casual
// control tag by propagating it immediately -- used by every opcode that
// embeds unaryInstr/binaryInstr so a `break`/`return`/`throw` nested
// inside an expression short-circuits evaluation of sibling operands.
func evalOperand(ev *Evaluator, scope *Scope, in Instruction) (*Symbol, bool, error) {
	sym, err := in.Eval(ev, scope)
	if err != nil {
		return nil, false, err
	}
	if !sym.IsNormal() {
		return sym, true, nil
	}
	return sym, false, nil
}
