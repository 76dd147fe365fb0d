package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/internal/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := New(src, "test.ra").Tokenize()
	require.NoError(t, err)
	return toks
}

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestOperatorLongestMatch(t *testing.T) {
	toks := tokenize(t, "<<= << < a := -> => === == = != !==")
	got := types(toks)
	want := []token.Type{
		token.LSHIFT_ASSIGN, token.LSHIFT, token.LT, token.IDENT,
		token.DECLARE, token.ARROW, token.LAMBDA, token.IDENTITY_EQ,
		token.EQ, token.ASSIGN, token.NOT_EQ, token.IDENTITY_NEQ, token.EOF,
	}
	assert.Equal(t, want, got)
}

func TestNumberLiterals(t *testing.T) {
	toks := tokenize(t, "10 3.14 0b101 0x1F 017")
	require.Len(t, toks, 6)
	assert.Equal(t, token.INT, toks[0].Type)
	assert.EqualValues(t, 10, toks[0].Number.IntValue)

	assert.Equal(t, token.FLOAT, toks[1].Type)
	assert.InDelta(t, 3.14, toks[1].Number.FltValue, 1e-9)

	assert.Equal(t, token.INT, toks[2].Type)
	assert.EqualValues(t, 5, toks[2].Number.IntValue)

	assert.Equal(t, token.INT, toks[3].Type)
	assert.EqualValues(t, 31, toks[3].Number.IntValue)

	assert.Equal(t, token.INT, toks[4].Type)
	assert.EqualValues(t, 15, toks[4].Number.IntValue)
}

func TestStringEscapes(t *testing.T) {
	toks := tokenize(t, `"a\nb\tc\x41B"`)
	require.Len(t, toks, 2)
	assert.Equal(t, "a\nb\tcAB", toks[0].Lexeme)
}

func TestCommentsAndKeywords(t *testing.T) {
	toks := tokenize(t, "# comment\nif x then { return 1; }")
	got := types(toks)
	want := []token.Type{
		token.NEWLINE, token.IF, token.IDENT, token.THEN, token.LBRACE,
		token.RETURN, token.INT, token.SEMICOLON, token.RBRACE, token.EOF,
	}
	assert.Equal(t, want, got)
}

func TestUnterminatedStringIsLexicalError(t *testing.T) {
	_, err := New(`"abc`, "test.ra").Tokenize()
	require.Error(t, err)
}

func TestLineColumnTracking(t *testing.T) {
	toks := tokenize(t, "a\nb")
	require.Len(t, toks, 4) // a, NEWLINE, b, EOF
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[2].Line)
}
