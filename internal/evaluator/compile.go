package evaluator

import (
	"github.com/wisp-lang/wisp/internal/ast"
	"github.com/wisp-lang/wisp/internal/numeric"
	"github.com/wisp-lang/wisp/internal/token"
)

// Compile lowers a parsed ast.Program into a flat instruction sequence.
// This file is the sole place that knows ast.Container's boxed `any` is
// always an evaluator.Value (the parser's constant folder produces it by
// running this same compiler over a subtree in a scratch scope and
// boxing whatever Value came out -- see internal/parser's fold()).
func Compile(prog *ast.Program) ([]Instruction, error) {
	c := &compiler{}
	out := make([]Instruction, 0, len(prog.Statements))
	for _, st := range prog.Statements {
		in, err := c.compileStmt(st)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

type compiler struct{}

// CompileExpression lowers a single expression, independent of a full
// program -- used by internal/parser's constant folder to trial-compile
// a structurally-const subtree before evaluating it in a scratch scope.
func CompileExpression(e ast.Expression) (Instruction, error) {
	c := &compiler{}
	return c.compileExpr(e)
}

func (c *compiler) compileBlock(b *ast.Block) (*BlockI, error) {
	if b == nil {
		return &BlockI{}, nil
	}
	stmts := make([]Instruction, 0, len(b.Statements))
	for _, st := range b.Statements {
		in, err := c.compileStmt(st)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, in)
	}
	return &BlockI{tok: b.GetToken(), Stmts: stmts}, nil
}

func (c *compiler) compileStmt(n ast.Statement) (Instruction, error) {
	switch s := n.(type) {
	case *ast.ExpressionStatement:
		return c.compileExpr(s.Expr)
	case *ast.Container:
		return &ContainerI{tok: s.GetToken(), V: s.Value.(Value)}, nil
	case *ast.VarStatement:
		return &VarDeclI{tok: s.GetToken(), Names: s.Names}, nil
	case *ast.ConstStatement:
		// A const's value was already folded by the parser into a
		// Container wrapping its Value; compiling the initializer here
		// just re-evaluates that already-const expression into scope
		// under its declared name.
		val, err := c.compileExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &DeclareI{binaryInstr: binaryInstr{tok: s.GetToken(), B: val}, Name: s.Name}, nil
	case *ast.LoadStatement:
		return &NoopI{tok: s.GetToken()}, nil // internal/loader resolves `load` before Compile ever sees the merged program
	case *ast.ExternStatement:
		return &NoopI{tok: s.GetToken()}, nil // internal/ext resolves `extern` at program-setup time
	case *ast.ReturnStatement:
		var val Instruction
		if s.Value != nil {
			v, err := c.compileExpr(s.Value)
			if err != nil {
				return nil, err
			}
			val = v
		}
		return &ReturnI{unaryInstr{tok: s.GetToken(), A: val}}, nil
	case *ast.ReferStatement:
		val, err := c.compileExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &ReferI{unaryInstr{tok: s.GetToken(), A: val}}, nil
	case *ast.BreakStatement:
		return &BreakI{tok: s.GetToken()}, nil
	case *ast.ContinueStatement:
		return &ContinueI{tok: s.GetToken()}, nil
	case *ast.ThrowStatement:
		val, err := c.compileExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &ThrowI{unaryInstr{tok: s.GetToken(), A: val}}, nil
	case *ast.IfStatement:
		branches := make([]IfBranchI, len(s.Branches))
		for i, br := range s.Branches {
			var cond Instruction
			if br.Cond != nil {
				cv, err := c.compileExpr(br.Cond)
				if err != nil {
					return nil, err
				}
				cond = cv
			}
			body, err := c.compileBlock(br.Body)
			if err != nil {
				return nil, err
			}
			branches[i] = IfBranchI{Cond: cond, Body: body}
		}
		return &IfI{tok: s.GetToken(), Branches: branches}, nil
	case *ast.WhileStatement:
		cond, err := c.compileExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		body, err := c.compileBlock(s.Body)
		if err != nil {
			return nil, err
		}
		return &WhileI{tok: s.GetToken(), Cond: cond, Body: body}, nil
	case *ast.ForStatement:
		iter, err := c.compileExpr(s.Iter)
		if err != nil {
			return nil, err
		}
		body, err := c.compileBlock(s.Body)
		if err != nil {
			return nil, err
		}
		return &ForI{tok: s.GetToken(), Name: s.Name, Iter: iter, Body: body}, nil
	case *ast.EachStatement:
		iter, err := c.compileExpr(s.Iter)
		if err != nil {
			return nil, err
		}
		var where, do Instruction
		if s.Where != nil {
			w, err := c.compileExpr(s.Where)
			if err != nil {
				return nil, err
			}
			where = w
		}
		if s.Do != nil {
			d, err := c.compileExpr(s.Do)
			if err != nil {
				return nil, err
			}
			do = d
		}
		body, err := c.compileBlock(s.Body)
		if err != nil {
			return nil, err
		}
		return &EachI{tok: s.GetToken(), Name: s.Name, Iter: iter, Where: where, Do: do, Body: body}, nil
	case *ast.SwitchStatement:
		subj, err := c.compileExpr(s.Subject)
		if err != nil {
			return nil, err
		}
		cases := make([]SwitchCaseI, len(s.Cases))
		for i, cs := range s.Cases {
			vals := make([]Instruction, len(cs.Values))
			for j, v := range cs.Values {
				cv, err := c.compileExpr(v)
				if err != nil {
					return nil, err
				}
				vals[j] = cv
			}
			var do Instruction
			if cs.Do != nil {
				d, err := c.compileExpr(cs.Do)
				if err != nil {
					return nil, err
				}
				do = d
			}
			body, err := c.compileBlock(cs.Body)
			if err != nil {
				return nil, err
			}
			cases[i] = SwitchCaseI{Values: vals, Do: do, Body: body}
		}
		var elseBlk *BlockI
		if s.Else != nil {
			b, err := c.compileBlock(s.Else)
			if err != nil {
				return nil, err
			}
			elseBlk = b
		}
		return &SwitchI{tok: s.GetToken(), Subject: subj, Cases: cases, Else: elseBlk}, nil
	case *ast.TryCatchStatement:
		try, err := c.compileBlock(s.Try)
		if err != nil {
			return nil, err
		}
		catch, err := c.compileBlock(s.Catch)
		if err != nil {
			return nil, err
		}
		return &TryCatchI{tok: s.GetToken(), Try: try, CatchID: s.CatchID, Catch: catch}, nil
	case *ast.DefStatement:
		body, err := c.compileBlock(s.Body)
		if err != nil {
			return nil, err
		}
		names, byRef, ptypes := paramInfo(s.Params)
		return &DefineI{
			tok: s.GetToken(), Name: s.Name, Params: names, ByRef: byRef,
			ParamTy: ptypes, Variadic: s.Variadic, Body: body,
		}, nil
	case *ast.ClassStatement:
		return c.compileClass(s)
	case *ast.EnumStatement:
		return c.compileEnum(s)
	case *ast.Block:
		return c.compileBlock(s)
	}
	return &NoopI{tok: n.GetToken()}, nil
}

func paramInfo(params []ast.Param) (names []string, byRef []bool, ptypes []Parameter) {
	names = make([]string, len(params))
	byRef = make([]bool, len(params))
	ptypes = make([]Parameter, len(params))
	for i, p := range params {
		names[i] = p.Name
		byRef[i] = p.ByRef
		if p.Type.IsAny() {
			ptypes[i] = Parameter{}
		} else {
			ptypes[i] = Parameter{Base: []string{p.Type.Name}}
		}
	}
	return
}

func (c *compiler) compileClass(s *ast.ClassStatement) (Instruction, error) {
	body, err := c.compileBlock(s.Body)
	if err != nil {
		return nil, err
	}
	var ancestors []string
	if s.Base != "" {
		ancestors = append(ancestors, s.Base)
	}
	return &ClassDeclI{
		tok: s.GetToken(), Name: s.Name, Kind: int(s.Kind), Base: s.Base,
		Body: body, Ancestors: ancestors,
	}, nil
}

func (c *compiler) compileEnum(s *ast.EnumStatement) (Instruction, error) {
	members := make([]EnumMemberI, len(s.Members))
	for i, m := range s.Members {
		var val Instruction
		if m.Value != nil {
			v, err := c.compileExpr(m.Value)
			if err != nil {
				return nil, err
			}
			val = v
		}
		members[i] = EnumMemberI{Name: m.Name, Value: val}
	}
	return &EnumDeclI{tok: s.GetToken(), Members: members}, nil
}

func (c *compiler) compileExpr(n ast.Expression) (Instruction, error) {
	switch e := n.(type) {
	case *ast.Container:
		return &ContainerI{tok: e.GetToken(), V: e.Value.(Value)}, nil
	case *ast.Identifier:
		return &VariableI{tok: e.GetToken(), Name: e.Name}, nil
	case *ast.NilLiteral:
		return &ContainerI{tok: e.GetToken(), V: Nil}, nil
	case *ast.BoolLiteral:
		return &ContainerI{tok: e.GetToken(), V: Bool(e.Value)}, nil
	case *ast.NumberLiteral:
		return &ContainerI{tok: e.GetToken(), V: Num(numberFromLiteral(e))}, nil
	case *ast.StringLiteral:
		return &ContainerI{tok: e.GetToken(), V: Str(e.Value)}, nil
	case *ast.ArrayLiteral:
		elems := make([]Instruction, len(e.Elements))
		for i, el := range e.Elements {
			in, err := c.compileExpr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = in
		}
		return &ArrayLitI{tok: e.GetToken(), Elements: elems}, nil
	case *ast.DictLiteral:
		keys := make([]Instruction, len(e.Entries))
		vals := make([]Instruction, len(e.Entries))
		for i, ent := range e.Entries {
			k, err := c.compileExpr(ent.Key)
			if err != nil {
				return nil, err
			}
			v, err := c.compileExpr(ent.Value)
			if err != nil {
				return nil, err
			}
			keys[i], vals[i] = k, v
		}
		return &DictLitI{tok: e.GetToken(), Keys: keys, Values: vals}, nil
	case *ast.FunctionLiteral:
		body, err := c.compileBlock(e.Body)
		if err != nil {
			return nil, err
		}
		names, byRef, ptypes := paramInfo(e.Params)
		return &FunctionLiteralI{tok: e.GetToken(), Params: names, ByRef: byRef, ParamTy: ptypes, Variadic: e.Variadic, Body: body}, nil
	case *ast.CallExpr:
		callee, err := c.compileExpr(e.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]Instruction, len(e.Args))
		for i, a := range e.Args {
			in, err := c.compileExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = in
		}
		return &CallI{tok: e.GetToken(), Callee: callee, Args: args}, nil
	case *ast.IndexExpr:
		t, err := c.compileExpr(e.Target)
		if err != nil {
			return nil, err
		}
		i, err := c.compileExpr(e.Index)
		if err != nil {
			return nil, err
		}
		return &IndexI{binaryInstr{tok: e.GetToken(), A: t, B: i}}, nil
	case *ast.MemberExpr:
		t, err := c.compileExpr(e.Target)
		if err != nil {
			return nil, err
		}
		return &MemberI{unaryInstr: unaryInstr{tok: e.GetToken(), A: t}, Name: e.Name}, nil
	case *ast.BinaryExpr:
		l, err := c.compileExpr(e.Left)
		if err != nil {
			return nil, err
		}
		r, err := c.compileExpr(e.Right)
		if err != nil {
			return nil, err
		}
		if e.Op == token.CONCAT {
			return &BinaryOpI{binaryInstr{tok: e.GetToken(), A: l, B: r}, token.CONCAT}, nil
		}
		return &BinaryOpI{binaryInstr{tok: e.GetToken(), A: l, B: r}, e.Op}, nil
	case *ast.UnaryExpr:
		o, err := c.compileExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryOpI{unaryInstr{tok: e.GetToken(), A: o}, e.Op}, nil
	case *ast.TernaryExpr:
		cond, err := c.compileExpr(e.Cond)
		if err != nil {
			return nil, err
		}
		then, err := c.compileExpr(e.Then)
		if err != nil {
			return nil, err
		}
		els, err := c.compileExpr(e.Else)
		if err != nil {
			return nil, err
		}
		return &TernaryI{tok: e.GetToken(), Cond: cond, Then: then, Else: els}, nil
	case *ast.AssignExpr:
		t, err := c.compileExpr(e.Target)
		if err != nil {
			return nil, err
		}
		v, err := c.compileExpr(e.Value)
		if err != nil {
			return nil, err
		}
		return &AssignI{tok: e.GetToken(), Target: t, Value: v, Broadcast: e.Op == token.BROADCAST_ASSIGN}, nil
	case *ast.DeclareExpr:
		v, err := c.compileExpr(e.Value)
		if err != nil {
			return nil, err
		}
		return &DeclareI{binaryInstr: binaryInstr{tok: e.GetToken(), B: v}, Name: e.Name}, nil
	case *ast.CastExpr:
		v, err := c.compileExpr(e.Value)
		if err != nil {
			return nil, err
		}
		return &CastI{unaryInstr: unaryInstr{tok: e.GetToken(), A: v}, To: e.To.Name}, nil
	case *ast.RangeExpr:
		from, err := c.compileExpr(e.From)
		if err != nil {
			return nil, err
		}
		to, err := c.compileExpr(e.To)
		if err != nil {
			return nil, err
		}
		var step Instruction
		if e.Step != nil {
			s, err := c.compileExpr(e.Step)
			if err != nil {
				return nil, err
			}
			step = s
		}
		return &RangeI{tok: e.GetToken(), Inclusive: e.Inclusive, From: from, To: to, Step: step}, nil
	case *ast.NewExpr:
		name := ""
		if id, ok := e.Class.(*ast.Identifier); ok {
			name = id.Name
		}
		args := make([]Instruction, len(e.Args))
		for i, a := range e.Args {
			in, err := c.compileExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = in
		}
		return &NewI{tok: e.GetToken(), Class: name, Args: args}, nil
	case *ast.DeleteExpr:
		t, err := c.compileExpr(e.Target)
		if err != nil {
			return nil, err
		}
		k, err := c.compileExpr(e.Key)
		if err != nil {
			return nil, err
		}
		return &DeleteI{binaryInstr{tok: e.GetToken(), A: t, B: k}}, nil
	case *ast.AllocExpr:
		size, err := c.compileExpr(e.Size)
		if err != nil {
			return nil, err
		}
		var fill Instruction
		if e.Fill != nil {
			f, err := c.compileExpr(e.Fill)
			if err != nil {
				return nil, err
			}
			fill = f
		}
		return &AllocI{tok: e.GetToken(), Size: size, Fill: fill}, nil
	case *ast.LengthExpr:
		v, err := c.compileExpr(e.Value)
		if err != nil {
			return nil, err
		}
		return &LengthI{unaryInstr{tok: e.GetToken(), A: v}}, nil
	case *ast.ParseExpr:
		v, err := c.compileExpr(e.Source)
		if err != nil {
			return nil, err
		}
		return &ParseI{unaryInstr{tok: e.GetToken(), A: v}}, nil
	case *ast.CharsExpr:
		v, err := c.compileExpr(e.Value)
		if err != nil {
			return nil, err
		}
		return &CharsI{unaryInstr{tok: e.GetToken(), A: v}}, nil
	case *ast.CharNExpr:
		v, err := c.compileExpr(e.Value)
		if err != nil {
			return nil, err
		}
		return &CharNI{unaryInstr{tok: e.GetToken(), A: v}}, nil
	case *ast.HashExpr:
		v, err := c.compileExpr(e.Value)
		if err != nil {
			return nil, err
		}
		return &HashI{unaryInstr{tok: e.GetToken(), A: v}}, nil
	case *ast.TypeOfExpr:
		v, err := c.compileExpr(e.Value)
		if err != nil {
			return nil, err
		}
		return &TypeOfI{unaryInstr{tok: e.GetToken(), A: v}}, nil
	case *ast.ExternCallExpr:
		args := make([]Instruction, len(e.Args))
		for i, a := range e.Args {
			in, err := c.compileExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = in
		}
		return &ExternCallI{tok: e.GetToken(), Library: e.Library, Function: e.Function, Args: args}, nil
	case *ast.GetThisExpr:
		return &GetThisI{tok: e.GetToken()}, nil
	}
	return &ContainerI{tok: n.GetToken(), V: Nil}, nil
}

func numberFromLiteral(n *ast.NumberLiteral) numeric.Number {
	if n.IsFloat {
		return numeric.Float(n.Flt)
	}
	return numeric.Int(n.Int)
}
