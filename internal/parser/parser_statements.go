package parser

import (
	"github.com/wisp-lang/wisp/internal/ast"
	"github.com/wisp-lang/wisp/internal/token"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Type {
	case token.VAR:
		return p.parseVar()
	case token.CONST:
		return p.parseConst()
	case token.LOAD:
		return p.parseLoad()
	case token.EXTERN:
		return p.parseExtern()
	case token.RETURN:
		return p.parseReturn()
	case token.REFER:
		return p.parseRefer()
	case token.BREAK:
		tok := p.advance()
		return at2(&ast.BreakStatement{}, tok), p.endStmt(tok)
	case token.CONTINUE:
		tok := p.advance()
		return at2(&ast.ContinueStatement{}, tok), p.endStmt(tok)
	case token.THROW:
		return p.parseThrow()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.EACH:
		return p.parseEach()
	case token.SWITCH:
		return p.parseSwitch()
	case token.TRY:
		return p.parseTryCatch()
	case token.DEF:
		return p.parseDef()
	case token.STRUCT, token.STATIC, token.VIRTUAL:
		return p.parseClass()
	case token.ENUM:
		return p.parseEnum()
	case token.LBRACE:
		return p.parseBlock()
	}
	exprTok := p.cur()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if folded, err := fold(expr); err == nil {
		expr = folded
	}
	if err := p.endStmt(exprTok); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Expr: expr}, nil
}

// endStmt consumes the statement terminator (`;`, a newline, or being
// immediately followed by `}`/EOF, all of which close a statement
// without requiring an explicit separator).
func (p *Parser) endStmt(tok token.Token) error {
	_ = tok
	if p.at(token.SEMICOLON) || p.at(token.NEWLINE) {
		p.advance()
		return nil
	}
	if p.at(token.RBRACE) || p.at(token.EOF) {
		return nil
	}
	return p.errf("expected statement terminator")
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	lbrace, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	block := &ast.Block{}
	block.Token = lbrace
	p.skipNewlines()
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, st)
		p.skipNewlines()
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseVar() (ast.Statement, error) {
	tok := p.advance()
	var names []string
	for {
		id, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, id.Lexeme)
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	_ = tok
	return at2(&ast.VarStatement{Names: names}, tok), p.endStmt(tok)
}

func (p *Parser) parseConst() (ast.Statement, error) {
	tok := p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	folded, ferr := fold(val)
	if ferr == nil {
		val = folded
	}
	return at2(&ast.ConstStatement{Name: name.Lexeme, Value: val}, tok), p.endStmt(tok)
}

func (p *Parser) parseLoad() (ast.Statement, error) {
	tok := p.advance()
	path, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	return at2(&ast.LoadStatement{Path: path.Lexeme}, tok), p.endStmt(tok)
}

func (p *Parser) parseExtern() (ast.Statement, error) {
	tok := p.advance()
	lib, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	return at2(&ast.ExternStatement{Library: lib.Lexeme}, tok), p.endStmt(tok)
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	tok := p.advance()
	if p.at(token.SEMICOLON) || p.at(token.NEWLINE) || p.at(token.RBRACE) {
		return at2(&ast.ReturnStatement{}, tok), p.endStmt(tok)
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return at2(&ast.ReturnStatement{Value: val}, tok), p.endStmt(tok)
}

func (p *Parser) parseRefer() (ast.Statement, error) {
	tok := p.advance()
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return at2(&ast.ReferStatement{Value: val}, tok), p.endStmt(tok)
}

func (p *Parser) parseThrow() (ast.Statement, error) {
	tok := p.advance()
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return at2(&ast.ThrowStatement{Value: val}, tok), p.endStmt(tok)
}

func (p *Parser) parseIf() (ast.Statement, error) {
	ifTok := p.advance()
	stmt := at2(&ast.IfStatement{}, ifTok)
	for {
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.THEN); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Branches = append(stmt.Branches, ast.IfBranch{Cond: cond, Body: body})
		if _, ok := p.accept(token.ELIF); ok {
			continue
		}
		break
	}
	if _, ok := p.accept(token.ELSE); ok {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Branches = append(stmt.Branches, ast.IfBranch{Cond: nil, Body: body})
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	whileTok := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DO); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return at2(&ast.WhileStatement{Cond: cond, Body: body}, whileTok), nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	forTok := p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iter, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DO); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return at2(&ast.ForStatement{Name: name.Lexeme, Iter: iter, Body: body}, forTok), nil
}

func (p *Parser) parseEach() (ast.Statement, error) {
	eachTok := p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iter, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt := at2(&ast.EachStatement{Name: name.Lexeme, Iter: iter}, eachTok)
	if _, ok := p.accept(token.WHERE); ok {
		where, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	if _, ok := p.accept(token.DO); ok {
		if p.at(token.LBRACE) {
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Body = body
		} else {
			do, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			stmt.Do = do
		}
	}
	return stmt, nil
}

func (p *Parser) parseSwitch() (ast.Statement, error) {
	switchTok := p.advance()
	subj, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OF); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.skipNewlines()
	stmt := at2(&ast.SwitchStatement{Subject: subj}, switchTok)
	for p.at(token.CASE) {
		p.advance()
		var values []ast.Expression
		for {
			v, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		sc := ast.SwitchCase{Values: values}
		if _, err := p.expect(token.DO); err != nil {
			return nil, err
		}
		if p.at(token.LBRACE) {
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			sc.Body = body
		} else {
			do, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			sc.Do = do
			if err := p.endStmt(p.cur()); err != nil {
				return nil, err
			}
		}
		stmt.Cases = append(stmt.Cases, sc)
		p.skipNewlines()
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	if _, ok := p.accept(token.ELSE); ok {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = body
	}
	return stmt, nil
}

func (p *Parser) parseTryCatch() (ast.Statement, error) {
	tryTok := p.advance()
	try, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CATCH); err != nil {
		return nil, err
	}
	var catchID string
	if id, ok := p.accept(token.IDENT); ok {
		catchID = id.Lexeme
	}
	if _, ok := p.accept(token.THEN); !ok {
		// `catch { .. }` (no bound name, no `then`) is also accepted
	}
	catch, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return at2(&ast.TryCatchStatement{Try: try, CatchID: catchID, Catch: catch}, tryTok), nil
}

func (p *Parser) parseParamList() ([]ast.Param, bool, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, false, err
	}
	var params []ast.Param
	variadic := false
	for !p.at(token.RPAREN) {
		// `...` (varargs marker) lexes as DOT_DOT followed by DOT; there is
		// no dedicated three-dot token.
		if p.at(token.DOT_DOT) && p.peekAt(1).Type == token.DOT {
			p.advance()
			p.advance()
			variadic = true
			break
		}
		byRef := false
		if _, ok := p.accept(token.REF); ok {
			byRef = true
		}
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, false, err
		}
		param := ast.Param{Name: name.Lexeme, ByRef: byRef}
		if _, ok := p.accept(token.COLON); ok {
			typ, err := p.parseType()
			if err != nil {
				return nil, false, err
			}
			param.Type = typ
		}
		params = append(params, param)
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, false, err
	}
	return params, variadic, nil
}

func (p *Parser) parseType() (ast.Type, error) {
	name, err := p.expect(token.IDENT)
	if err != nil {
		// reserved type-name tokens (Number, String, ...) lex as their
		// own keyword token, not IDENT; accept those too.
		t := p.cur()
		if isTypeNameToken(t.Type) {
			p.advance()
			return ast.Type{Name: t.Lexeme}, nil
		}
		return ast.Type{}, err
	}
	typ := ast.Type{Name: name.Lexeme}
	if _, ok := p.accept(token.LT); ok {
		for {
			q, err := p.parseType()
			if err != nil {
				return ast.Type{}, err
			}
			typ.Qualifiers = append(typ.Qualifiers, q)
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		if _, err := p.expect(token.GT); err != nil {
			return ast.Type{}, err
		}
	}
	return typ, nil
}

func isTypeNameToken(t token.Type) bool {
	switch t {
	case token.TYPE_NUMBER, token.TYPE_STRING, token.TYPE_BOOLEAN, token.TYPE_ARRAY,
		token.TYPE_DICTIONARY, token.TYPE_OBJECT, token.TYPE_FUNCTION, token.TYPE_TYPE,
		token.TYPE_POINTER, token.TYPE_NIL, token.TYPE_ANY:
		return true
	}
	return false
}

func (p *Parser) parseDef() (ast.Statement, error) {
	defTok := p.advance()
	name, err := p.parseDefName()
	if err != nil {
		return nil, err
	}
	params, variadic, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return at2(&ast.DefStatement{Name: name, Params: params, Variadic: variadic, Body: body}, defTok), nil
}

// parseDefName reads the name following `def`: either a plain identifier
// or, for a cast-overload definition (spec.md §4.4 "Object -> String: via
// ->String hook"), an ARROW followed by a type name, yielding the literal
// hook name "->String" the cast matrix's fallback and Object->String rule
// both look up -- grounded on Parser.cpp's def-parsing, which accepts the
// same `"->" + convert.toString()` name for this exact case.
func (p *Parser) parseDefName() (string, error) {
	if _, ok := p.accept(token.ARROW); ok {
		typ, err := p.parseType()
		if err != nil {
			return "", err
		}
		return "->" + typ.Name, nil
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return "", err
	}
	return name.Lexeme, nil
}

func (p *Parser) parseClass() (ast.Statement, error) {
	kindTok := p.advance()
	var kind ast.ClassKind
	switch kindTok.Type {
	case token.STRUCT:
		kind = ast.ClassStruct
	case token.STATIC:
		kind = ast.ClassStatic
	case token.VIRTUAL:
		kind = ast.ClassVirtual
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var base string
	if _, ok := p.accept(token.COLON); ok {
		baseTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		base = baseTok.Lexeme
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return at2(&ast.ClassStatement{Kind: kind, Name: name.Lexeme, Base: base, Body: body}, kindTok), nil
}

func (p *Parser) parseEnum() (ast.Statement, error) {
	enumTok := p.advance()
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.skipNewlines()
	stmt := at2(&ast.EnumStatement{}, enumTok)
	for !p.at(token.RBRACE) {
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		member := ast.EnumMember{Name: name.Lexeme}
		if _, ok := p.accept(token.ASSIGN); ok {
			v, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			member.Value = v
		}
		stmt.Members = append(stmt.Members, member)
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
		p.skipNewlines()
	}
	p.skipNewlines()
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return stmt, nil
}
