package parser

import (
	"github.com/wisp-lang/wisp/internal/ast"
	"github.com/wisp-lang/wisp/internal/token"
)

// parseExpression is the sole entry point into the expression grammar; it
// also folds the result when the node turns out to be structurally const
// (spec.md §4.2 "constant folding").
func (p *Parser) parseExpression() (ast.Expression, error) {
	e, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return fold(e)
}

var compoundOps = map[token.Type]token.Type{
	token.PLUS_ASSIGN:     token.PLUS,
	token.MINUS_ASSIGN:    token.MINUS,
	token.ASTERISK_ASSIGN: token.ASTERISK,
	token.SLASH_ASSIGN:    token.SLASH,
	token.DSLASH_ASSIGN:   token.DSLASH,
	token.PERCENT_ASSIGN:  token.PERCENT,
	token.POWER_ASSIGN:    token.POWER,
	token.PIPE_ASSIGN:     token.PIPE,
	token.AMP_ASSIGN:      token.AMP,
	token.CARET_ASSIGN:    token.CARET,
	token.LSHIFT_ASSIGN:   token.LSHIFT,
	token.RSHIFT_ASSIGN:   token.RSHIFT,
	token.CONCAT_ASSIGN:   token.CONCAT,
	token.AND_ASSIGN:      token.AND,
	token.OR_ASSIGN:       token.OR,
}

// parseAssignment handles `=`, every compound-assignment spelling (expanded
// here per spec.md §4.2: "x += y rewrites to x = x + y"), the broadcast
// form `.=`, and `:=` declaration. All are right-associative.
func (p *Parser) parseAssignment() (ast.Expression, error) {
	lhs, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	switch p.cur().Type {
	case token.ASSIGN:
		tok := p.advance()
		rhs, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return at2(&ast.AssignExpr{Target: lhs, Value: rhs, Op: token.ASSIGN}, tok), nil
	case token.BROADCAST_ASSIGN:
		tok := p.advance()
		rhs, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return at2(&ast.AssignExpr{Target: lhs, Value: rhs, Op: token.BROADCAST_ASSIGN}, tok), nil
	case token.DECLARE:
		tok := p.advance()
		id, ok := lhs.(*ast.Identifier)
		if !ok {
			return nil, p.errf("left side of := must be a plain identifier")
		}
		rhs, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return at2(&ast.DeclareExpr{Name: id.Name, Value: rhs}, tok), nil
	default:
		if base, ok := compoundOps[p.cur().Type]; ok {
			tok := p.advance()
			rhs, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			sum := at2(&ast.BinaryExpr{Op: base, Left: lhs, Right: rhs}, tok)
			return at2(&ast.AssignExpr{Target: lhs, Value: sum, Op: token.ASSIGN}, tok), nil
		}
	}
	return lhs, nil
}

func (p *Parser) parseTernary() (ast.Expression, error) {
	cond, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.accept(token.QUESTION); ok {
		then, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		els, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return at2(&ast.TernaryExpr{Cond: cond, Then: then, Else: els}, tok), nil
	}
	return cond, nil
}

func (p *Parser) parseRange() (ast.Expression, error) {
	from, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	for p.at(token.DOT_DOT) || p.at(token.DOT_PLUS) {
		inclusive := p.at(token.DOT_PLUS)
		tok := p.advance()
		to, err := p.parseLogicalOr()
		if err != nil {
			return nil, err
		}
		from = at2(&ast.RangeExpr{Inclusive: inclusive, From: from, To: to}, tok)
	}
	return from, nil
}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.OR) {
		tok := p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = at2(&ast.BinaryExpr{Op: token.OR, Left: left, Right: right}, tok)
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	for p.at(token.AND) {
		tok := p.advance()
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		left = at2(&ast.BinaryExpr{Op: token.AND, Left: left, Right: right}, tok)
	}
	return left, nil
}

func (p *Parser) parseBitOr() (ast.Expression, error) {
	left, err := p.parseBitXor()
	if err != nil {
		return nil, err
	}
	for p.at(token.PIPE) {
		tok := p.advance()
		right, err := p.parseBitXor()
		if err != nil {
			return nil, err
		}
		left = at2(&ast.BinaryExpr{Op: token.PIPE, Left: left, Right: right}, tok)
	}
	return left, nil
}

func (p *Parser) parseBitXor() (ast.Expression, error) {
	left, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.CARET) {
		tok := p.advance()
		right, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		left = at2(&ast.BinaryExpr{Op: token.CARET, Left: left, Right: right}, tok)
	}
	return left, nil
}

func (p *Parser) parseBitAnd() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.at(token.AMP) {
		tok := p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = at2(&ast.BinaryExpr{Op: token.AMP, Left: left, Right: right}, tok)
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.at(token.EQ) || p.at(token.NOT_EQ) || p.at(token.IDENTITY_EQ) || p.at(token.IDENTITY_NEQ) {
		tok := p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = at2(&ast.BinaryExpr{Op: tok.Type, Left: left, Right: right}, tok)
	}
	return left, nil
}

func (p *Parser) parseRelational() (ast.Expression, error) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for p.at(token.LT) || p.at(token.GT) || p.at(token.LTE) || p.at(token.GTE) {
		tok := p.advance()
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = at2(&ast.BinaryExpr{Op: tok.Type, Left: left, Right: right}, tok)
	}
	return left, nil
}

func (p *Parser) parseShift() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.at(token.LSHIFT) || p.at(token.RSHIFT) {
		tok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = at2(&ast.BinaryExpr{Op: tok.Type, Left: left, Right: right}, tok)
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(token.PLUS) || p.at(token.MINUS) || p.at(token.CONCAT) {
		tok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = at2(&ast.BinaryExpr{Op: tok.Type, Left: left, Right: right}, tok)
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.at(token.ASTERISK) || p.at(token.SLASH) || p.at(token.DSLASH) || p.at(token.PERCENT) {
		tok := p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = at2(&ast.BinaryExpr{Op: tok.Type, Left: left, Right: right}, tok)
	}
	return left, nil
}

// parsePower is right-associative.
func (p *Parser) parsePower() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.accept(token.POWER); ok {
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return at2(&ast.BinaryExpr{Op: token.POWER, Left: left, Right: right}, tok), nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	switch p.cur().Type {
	case token.PLUS, token.MINUS, token.BANG, token.TILDE, token.DOLLAR, token.AT:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return at2(&ast.UnaryExpr{Op: tok.Type, Operand: operand}, tok), nil
	case token.DELETE:
		tok := p.advance()
		target, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		idx, ok := target.(*ast.IndexExpr)
		if !ok {
			return nil, p.errf("delete requires an index expression, e.g. delete d[k]")
		}
		return at2(&ast.DeleteExpr{Target: idx.Target, Key: idx.Index}, tok), nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case token.LPAREN:
			tok := p.advance()
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			expr = at2(&ast.CallExpr{Callee: expr, Args: args}, tok)
		case token.LBRACKET:
			tok := p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			expr = at2(&ast.IndexExpr{Target: expr, Index: idx}, tok)
		case token.DOT:
			p.advance()
			name, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			expr = at2(&ast.MemberExpr{Target: expr, Name: name.Lexeme}, name)
		case token.ARROW:
			tok := p.advance()
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			expr = at2(&ast.CastExpr{Value: expr, To: typ}, tok)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgList() ([]ast.Expression, error) {
	var args []ast.Expression
	for !p.at(token.RPAREN) {
		a, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case token.NIL:
		p.advance()
		return at2(&ast.NilLiteral{}, tok), nil
	case token.TRUE:
		p.advance()
		return at2(&ast.BoolLiteral{Value: true}, tok), nil
	case token.FALSE:
		p.advance()
		return at2(&ast.BoolLiteral{Value: false}, tok), nil
	case token.INT:
		p.advance()
		return at2(&ast.NumberLiteral{Int: tok.Number.IntValue}, tok), nil
	case token.FLOAT:
		p.advance()
		return at2(&ast.NumberLiteral{IsFloat: true, Flt: tok.Number.FltValue}, tok), nil
	case token.STRING:
		p.advance()
		return at2(&ast.StringLiteral{Value: tok.Lexeme}, tok), nil
	case token.IDENT:
		p.advance()
		if tok.Lexeme == "this" {
			return at2(&ast.GetThisExpr{}, tok), nil
		}
		return at2(&ast.Identifier{Name: tok.Lexeme}, tok), nil
	case token.TYPE_NUMBER, token.TYPE_STRING, token.TYPE_BOOLEAN, token.TYPE_ARRAY,
		token.TYPE_DICTIONARY, token.TYPE_OBJECT, token.TYPE_FUNCTION, token.TYPE_TYPE,
		token.TYPE_POINTER, token.TYPE_NIL, token.TYPE_ANY:
		p.advance()
		return at2(&ast.Identifier{Name: tok.Lexeme}, tok), nil
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseDictLiteral()
	case token.NEW:
		return p.parseNewExpr()
	case token.ALLOC:
		return p.parseAllocExpr()
	case token.LENGTH:
		return p.parseWrappedCall(func(v ast.Expression, kw token.Token) ast.Expression {
			return at2(&ast.LengthExpr{Value: v}, kw)
		})
	case token.PARSE:
		return p.parseWrappedCall(func(v ast.Expression, kw token.Token) ast.Expression {
			return at2(&ast.ParseExpr{Source: v}, kw)
		})
	case token.CHARS:
		return p.parseWrappedCall(func(v ast.Expression, kw token.Token) ast.Expression {
			return at2(&ast.CharsExpr{Value: v}, kw)
		})
	case token.CHARN:
		return p.parseWrappedCall(func(v ast.Expression, kw token.Token) ast.Expression {
			return at2(&ast.CharNExpr{Value: v}, kw)
		})
	case token.LPAREN:
		if p.looksLikeLambdaParams() {
			return p.parseFunctionLiteral()
		}
		p.advance()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case token.DBLCOLON:
		return p.parseZeroArgLambda()
	case token.EXTERN_CALL:
		return p.parseExternCall()
	}
	return nil, p.errf("unexpected token in expression")
}

// parseExternCall handles `extern_call libname.funcname(args)` (spec.md §6:
// external libraries are referenced by `extern "libname";` and invoked this
// way).
func (p *Parser) parseExternCall() (ast.Expression, error) {
	tok := p.advance()
	lib, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DOT); err != nil {
		return nil, err
	}
	fn, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	return at2(&ast.ExternCallExpr{Library: lib.Lexeme, Function: fn.Lexeme, Args: args}, tok), nil
}

// parseWrappedCall handles the builtin-keyword-as-call forms `length(x)`,
// `parse(x)`, `chars(x)`, `charn(x)`.
func (p *Parser) parseWrappedCall(build func(v ast.Expression, kw token.Token) ast.Expression) (ast.Expression, error) {
	kw := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	v, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return build(v, kw), nil
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	tok := p.advance()
	p.skipNewlines()
	var elems []ast.Expression
	for !p.at(token.RBRACKET) {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		p.skipNewlines()
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
		p.skipNewlines()
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return at2(&ast.ArrayLiteral{Elements: elems}, tok), nil
}

func (p *Parser) parseDictLiteral() (ast.Expression, error) {
	tok := p.advance()
	p.skipNewlines()
	var entries []ast.DictEntry
	for !p.at(token.RBRACE) {
		key, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.DictEntry{Key: key, Value: val})
		p.skipNewlines()
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
		p.skipNewlines()
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return at2(&ast.DictLiteral{Entries: entries}, tok), nil
}

func (p *Parser) parseNewExpr() (ast.Expression, error) {
	tok := p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var args []ast.Expression
	if _, ok := p.accept(token.LPAREN); ok {
		args, err = p.parseArgList()
		if err != nil {
			return nil, err
		}
	}
	class := at2(&ast.Identifier{Name: name.Lexeme}, name)
	return at2(&ast.NewExpr{Class: class, Args: args}, tok), nil
}

func (p *Parser) parseAllocExpr() (ast.Expression, error) {
	tok := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	size, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	var fill ast.Expression
	if _, ok := p.accept(token.COMMA); ok {
		fill, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return at2(&ast.AllocExpr{Size: size, Fill: fill}, tok), nil
}

// looksLikeLambdaParams scans forward from the current `(` to its matching
// `)` and reports whether a `=>` immediately follows, the signal that this
// parenthesized group is a lambda parameter list rather than a grouped
// expression.
func (p *Parser) looksLikeLambdaParams() bool {
	depth := 0
	i := p.pos
	for {
		t := p.peekAt(i - p.pos).Type
		if t == token.EOF {
			return false
		}
		if t == token.LPAREN {
			depth++
		} else if t == token.RPAREN {
			depth--
			if depth == 0 {
				return p.peekAt(i-p.pos+1).Type == token.LAMBDA
			}
		}
		i++
	}
}

func (p *Parser) parseFunctionLiteral() (ast.Expression, error) {
	tok := p.cur()
	params, variadic, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LAMBDA); err != nil {
		return nil, err
	}
	body, err := p.parseLambdaBody()
	if err != nil {
		return nil, err
	}
	return at2(&ast.FunctionLiteral{Params: params, Variadic: variadic, Body: body}, tok), nil
}

func (p *Parser) parseZeroArgLambda() (ast.Expression, error) {
	tok := p.advance()
	body, err := p.parseLambdaBody()
	if err != nil {
		return nil, err
	}
	return at2(&ast.FunctionLiteral{Body: body}, tok), nil
}

// parseLambdaBody accepts either a `{ .. }` block body, or a bare
// expression implicitly wrapped in a `return`.
func (p *Parser) parseLambdaBody() (*ast.Block, error) {
	if p.at(token.LBRACE) {
		return p.parseBlock()
	}
	tok := p.cur()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	block := &ast.Block{}
	block.Token = tok
	block.Statements = []ast.Statement{&ast.ReturnStatement{Value: expr}}
	return block, nil
}
