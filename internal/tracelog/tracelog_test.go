package tracelog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/internal/diagnostics"
	"github.com/wisp-lang/wisp/internal/token"
)

func openTest(t *testing.T) *Log {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fatals.db")
	l, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndRecent(t *testing.T) {
	l := openTest(t)

	tok := token.Token{File: "main.ra", Line: 3, Column: 5}
	f := diagnostics.New(tok, diagnostics.ErrDivisionByZero)
	f.Push(tok, "divide")
	f.Push(token.Token{File: "main.ra", Line: 9, Column: 1}, "main")

	require.NoError(t, l.Record(f))

	entries, err := l.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, "main.ra", got.File)
	assert.Equal(t, 3, got.Line)
	assert.Equal(t, diagnostics.ErrDivisionByZero, got.Message)
	assert.False(t, got.UserThrown)
	assert.Contains(t, got.Stack, "divide@main.ra:3:5")
	assert.Contains(t, got.Stack, "main@main.ra:9:1")
}

func TestRecentOrdersMostRecentFirst(t *testing.T) {
	l := openTest(t)

	for i, msg := range []string{"first", "second", "third"} {
		tok := token.Token{File: "main.ra", Line: i + 1}
		require.NoError(t, l.Record(diagnostics.Thrown(tok, msg)))
	}

	entries, err := l.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
	assert.True(t, entries[0].UserThrown)
}

func TestOnFatalSwallowsNothingVisibleButStillRecords(t *testing.T) {
	l := openTest(t)

	tok := token.Token{File: "x.ra", Line: 1}
	l.OnFatal(diagnostics.New(tok, diagnostics.ErrUndefinedVariable, "x"))

	entries, err := l.Recent(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "x")
}
