// Package parser turns a token stream from internal/lexer into an
// internal/ast tree, then folds every structurally-constant subtree down
// to an ast.Container by trial-compiling and evaluating it through
// internal/evaluator in a scratch scope (spec.md §4.2 "constant
// folding"). It imports both ast and evaluator, so that evaluator never
// needs to import the parser (internal/loader, which also imports both,
// supplies the parse() hook).
//
// Layout (recursive-descent, precedence-climbing for the expression
// grammar) follows funvibe-funxy's statements.go / expressions_*.go split
// in spirit, one file per syntactic concern, though every production here
// implements this language's own grammar.
package parser

import (
	"fmt"

	"github.com/wisp-lang/wisp/internal/ast"
	"github.com/wisp-lang/wisp/internal/token"
)

// tokenSetter is satisfied by every *ast node through its promoted,
// embedded base.SetToken.
type tokenSetter interface{ SetToken(token.Token) }

// at2 stamps a freshly built node with its originating token and returns it,
// letting node construction stay a single expression at each call site.
func at2[T tokenSetter](n T, t token.Token) T {
	n.SetToken(t)
	return n
}

// Parser consumes a flat token slice produced by internal/lexer.
type Parser struct {
	toks []token.Token
	pos  int
	file string
}

func New(toks []token.Token, file string) *Parser {
	return &Parser{toks: toks, file: file}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(tt token.Type) bool { return p.cur().Type == tt }

func (p *Parser) accept(tt token.Type) (token.Token, bool) {
	if p.at(tt) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(tt token.Type) (token.Token, error) {
	if tok, ok := p.accept(tt); ok {
		return tok, nil
	}
	return token.Token{}, p.errf(diagnosticExpected(tt, p.cur()))
}

func (p *Parser) errf(msg string) error {
	c := p.cur()
	return fmt.Errorf("%s:%d:%d: %s", c.File, c.Line, c.Column, msg)
}

func diagnosticExpected(want token.Type, got token.Token) string {
	return fmt.Sprintf("expected %s, got %s ('%s')", want.String(), got.Type.String(), got.Lexeme)
}

// skipNewlines consumes any run of statement-separator newlines, which
// the grammar treats as equivalent to `;` between statements (spec.md
// §4.1 "newlines are insignificant inside brackets, terminate statements
// at the top level").
func (p *Parser) skipNewlines() {
	for p.at(token.NEWLINE) || p.at(token.SEMICOLON) {
		p.advance()
	}
}

// Parse consumes the entire token stream into a Program, folding
// constants as it goes.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{File: p.file}
	p.skipNewlines()
	for !p.at(token.EOF) {
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, st)
		p.skipNewlines()
	}
	return prog, nil
}
