// Package ast defines the immutable AST produced by internal/parser, per
// spec.md §4.2-4.3. Node layout and the TokenProvider/Node/Statement/
// Expression split are adapted from funvibe/funxy's internal/ast/ast_core.go;
// the IsConst/ScopePath machinery is new, grounded on spec.md's description
// of constant folding ("each node snapshots [the scope] stack so
// constant-folding knows whether a name refers to a local... or an outer
// constant").
//
// AST nodes never import the evaluator: a folded constant subtree is
// wrapped in a Container holding the computed value as an opaque `any`
// (internal/evaluator.Compile type-asserts it back), which keeps this
// package a dependency-free leaf and internal/evaluator the only consumer
// that knows what the `any` actually is.
package ast

import "github.com/wisp-lang/wisp/internal/token"

// ScopePath is the lexical path the parser's scope stack had in effect
// when a node was built: a sequence of scope ids, innermost last. Folding
// walks it outward to decide whether an identifier is a local (never
// foldable) or resolves to an entry in the parser's const registry.
type ScopePath []uint64

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	// IsConst reports whether this node, given its children, is eligible
	// for folding: every input must itself be const and the node itself
	// must not have inherently unpredictable side effects (e.g. a call to
	// a non-const-registry name). It does not by itself guarantee folding
	// succeeds -- the parser still trial-evaluates before committing.
	IsConst() bool
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

type base struct {
	Token token.Token
}

func (b base) TokenLiteral() string  { return b.Token.Lexeme }
func (b base) GetToken() token.Token { return b.Token }

// SetToken assigns the originating token after construction. Exported so
// internal/parser -- which builds nodes via composite literals naming only
// their own fields -- can still stamp the embedded, unexported base.Token;
// promoted methods are reachable across packages even when the embedding
// field's type name is unexported.
func (b *base) SetToken(tok token.Token) { b.Token = tok }

// Program is the root node of every AST the parser produces.
type Program struct {
	base
	File       string
	Statements []Statement
}

func (p *Program) IsConst() bool { return false }

// Container wraps a precomputed value produced by constant folding. Value
// holds an evaluator-defined representation (an evaluator.Value) boxed as
// `any`; the embedded token is that of the node it replaced.
type Container struct {
	base
	Value any
}

func (c *Container) IsConst() bool    { return true }
func (c *Container) expressionNode()  {}
func (c *Container) statementNode()   {}

// NewContainer builds a folded-constant node; used by internal/parser's
// constant folder, which cannot construct base{} directly since it is
// unexported.
func NewContainer(tok token.Token, value any) *Container {
	return &Container{base: base{Token: tok}, Value: value}
}

// Block is a brace-delimited sequence of statements.
type Block struct {
	base
	Statements []Statement
	Scope      ScopePath
}

func (b *Block) IsConst() bool  { return false }
func (b *Block) statementNode() {}

// ExpressionStatement wraps an expression used in statement position.
type ExpressionStatement struct {
	base
	Expr Expression
}

func (e *ExpressionStatement) IsConst() bool  { return e.Expr.IsConst() }
func (e *ExpressionStatement) statementNode() {}

// VarStatement is `var a, b, c;` — declares locals with no initializer.
type VarStatement struct {
	base
	Names []string
}

func (v *VarStatement) IsConst() bool  { return false }
func (v *VarStatement) statementNode() {}

// ConstStatement is `const NAME = EXPR;`, evaluated at parse time in an
// empty scope and registered in the parser's const registry.
type ConstStatement struct {
	base
	Name  string
	Value Expression
}

func (c *ConstStatement) IsConst() bool  { return true }
func (c *ConstStatement) statementNode() {}

// LoadStatement is `load "path";`.
type LoadStatement struct {
	base
	Path string
}

func (l *LoadStatement) IsConst() bool  { return false }
func (l *LoadStatement) statementNode() {}

// ExternStatement is `extern "lib";`.
type ExternStatement struct {
	base
	Library string
}

func (e *ExternStatement) IsConst() bool  { return false }
func (e *ExternStatement) statementNode() {}

// ReturnStatement is `return EXPR;`.
type ReturnStatement struct {
	base
	Value Expression
}

func (r *ReturnStatement) IsConst() bool  { return false }
func (r *ReturnStatement) statementNode() {}

// ReferStatement is `refer EXPR;`.
type ReferStatement struct {
	base
	Value Expression
}

func (r *ReferStatement) IsConst() bool  { return false }
func (r *ReferStatement) statementNode() {}

// BreakStatement is `break;`.
type BreakStatement struct{ base }

func (b *BreakStatement) IsConst() bool  { return false }
func (b *BreakStatement) statementNode() {}

// ContinueStatement is `continue;`.
type ContinueStatement struct{ base }

func (c *ContinueStatement) IsConst() bool  { return false }
func (c *ContinueStatement) statementNode() {}

// ThrowStatement is `throw EXPR;`.
type ThrowStatement struct {
	base
	Value Expression
}

func (t *ThrowStatement) IsConst() bool  { return false }
func (t *ThrowStatement) statementNode() {}

// IfStatement is `if EXPR then { .. } [elif ..]* [else { .. }]`.
type IfBranch struct {
	Cond Expression // nil for the trailing else
	Body *Block
}

type IfStatement struct {
	base
	Branches []IfBranch
}

func (i *IfStatement) IsConst() bool  { return false }
func (i *IfStatement) statementNode() {}

// WhileStatement is `while EXPR do { .. }`.
type WhileStatement struct {
	base
	Cond Expression
	Body *Block
}

func (w *WhileStatement) IsConst() bool  { return false }
func (w *WhileStatement) statementNode() {}

// ForStatement is `for ID in EXPR do { .. }`.
type ForStatement struct {
	base
	Name string
	Iter Expression
	Body *Block
}

func (f *ForStatement) IsConst() bool  { return false }
func (f *ForStatement) statementNode() {}

// EachStatement is `each ID in EXPR [where EXPR] [do EXPR]`.
type EachStatement struct {
	base
	Name  string
	Iter  Expression
	Where Expression // optional
	Do    Expression // optional; either Do or Body is set
	Body  *Block
}

func (e *EachStatement) IsConst() bool  { return false }
func (e *EachStatement) statementNode() {}

// SwitchCase is one `case C1,C2 do EXPR|{..};` arm.
type SwitchCase struct {
	Values []Expression
	Do     Expression
	Body   *Block
}

// SwitchStatement is `switch EXPR of { case .. } [else { .. }]`.
type SwitchStatement struct {
	base
	Subject Expression
	Cases   []SwitchCase
	Else    *Block
}

func (s *SwitchStatement) IsConst() bool  { return false }
func (s *SwitchStatement) statementNode() {}

// TryCatchStatement is `try { .. } catch ID then { .. }`.
type TryCatchStatement struct {
	base
	Try     *Block
	CatchID string
	Catch   *Block
}

func (t *TryCatchStatement) IsConst() bool  { return false }
func (t *TryCatchStatement) statementNode() {}

// Param is one function-signature parameter: `ref? name [: Type[<T,...>]]`.
type Param struct {
	Name   string
	ByRef  bool
	Type   Type // nil if untyped
}

// DefStatement is `def NAME(SIG) { .. }` — a named function definition,
// possibly one overload among several sharing the name (multi-dispatch,
// spec.md §3 "Signature").
type DefStatement struct {
	base
	Name     string
	Params   []Param
	Variadic bool // true: single `...` parameter, binds `_args`
	Body     *Block
}

func (d *DefStatement) IsConst() bool  { return false }
func (d *DefStatement) statementNode() {}

// ClassKind distinguishes struct/static/virtual scope kinds (spec.md §3
// "Scope", scope-kind Struct/Static/Virtual).
type ClassKind int

const (
	ClassStruct ClassKind = iota
	ClassStatic
	ClassVirtual
)

// ClassStatement is `struct|static|virtual NAME [: BASE] { .. }`.
type ClassStatement struct {
	base
	Kind Kind2
	Name string
	Base string // fully-qualified base path, empty if none
	Body *Block
}

// Kind2 avoids colliding with the unrelated `Kind` type some linters
// expect on enums named Kind; it is simply a ClassKind.
type Kind2 = ClassKind

func (c *ClassStatement) IsConst() bool  { return false }
func (c *ClassStatement) statementNode() {}

// EnumStatement is `enum { A, B=EXPR, C, .. }`, each member registered as
// a const with auto-incrementing integer values.
type EnumMember struct {
	Name  string
	Value Expression // nil when auto-incremented from the previous member
}

type EnumStatement struct {
	base
	Members []EnumMember
}

func (e *EnumStatement) IsConst() bool  { return true }
func (e *EnumStatement) statementNode() {}
