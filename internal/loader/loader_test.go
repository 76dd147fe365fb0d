package loader

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/internal/ast"
	"github.com/wisp-lang/wisp/internal/evaluator"
	"github.com/wisp-lang/wisp/internal/lexer"
	"github.com/wisp-lang/wisp/internal/numeric"
	"github.com/wisp-lang/wisp/internal/parser"
)

func parseSrc(t *testing.T, dir, name, src string) *ast.Program {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	toks, err := lexer.New(src, path).Tokenize()
	require.NoError(t, err)
	prog, err := parser.New(toks, path).Parse()
	require.NoError(t, err)
	return prog
}

func TestExpandSplicesLoadedStatements(t *testing.T) {
	dir := t.TempDir()
	parseSrc(t, dir, "helpers.ra", "def square(x) { return x * x; }")
	main := parseSrc(t, dir, "main.ra", `load "helpers"; square(5);`)

	ld := New(filepath.Join(dir, "lib"))
	out, err := ld.Expand(main, dir)
	require.NoError(t, err)

	require.Len(t, out.Statements, 2)
	_, isDef := out.Statements[0].(*ast.DefStatement)
	assert.True(t, isDef, "load statement should be replaced by the included file's statements")
}

func TestExpandDedupesAlreadyLoadedPath(t *testing.T) {
	dir := t.TempDir()
	parseSrc(t, dir, "helpers.ra", "def square(x) { return x * x; }")
	main := parseSrc(t, dir, "main.ra", `load "helpers"; load "helpers"; square(5);`)

	ld := New(filepath.Join(dir, "lib"))
	out, err := ld.Expand(main, dir)
	require.NoError(t, err)

	// the second `load "helpers"` contributes nothing the second time.
	require.Len(t, out.Statements, 2)
}

func TestExpandResolvesFromLibDirWhenNotBesideIncluder(t *testing.T) {
	dir := t.TempDir()
	libDir := filepath.Join(dir, "lib")
	require.NoError(t, os.MkdirAll(libDir, 0o755))
	parseSrc(t, libDir, "shared.ra", "const ANSWER = 42;")
	main := parseSrc(t, dir, "main.ra", `load "shared"; ANSWER;`)

	ld := New(libDir)
	out, err := ld.Expand(main, dir)
	require.NoError(t, err)

	require.Len(t, out.Statements, 2)
	_, isConst := out.Statements[0].(*ast.ConstStatement)
	assert.True(t, isConst)
}

func TestExpandRecursesIntoNestedLoads(t *testing.T) {
	dir := t.TempDir()
	parseSrc(t, dir, "base.ra", "const BASE = 1;")
	parseSrc(t, dir, "mid.ra", `load "base"; const MID = 2;`)
	main := parseSrc(t, dir, "main.ra", `load "mid"; MID;`)

	ld := New(filepath.Join(dir, "lib"))
	out, err := ld.Expand(main, dir)
	require.NoError(t, err)

	require.Len(t, out.Statements, 3) // BASE const, MID const, MID expr
}

func TestExpandErrorsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	main := parseSrc(t, dir, "main.ra", `load "nope";`)

	ld := New(filepath.Join(dir, "lib"))
	_, err := ld.Expand(main, dir)
	assert.Error(t, err)
}

func TestParseFileCollapsesConcurrentLoadsOfSameFile(t *testing.T) {
	dir := t.TempDir()
	parseSrc(t, dir, "shared.ra", "const V = 1;")

	ld := New(filepath.Join(dir, "lib"))
	resolved := filepath.Join(dir, "shared.ra")

	var wg sync.WaitGroup
	results := make([]*ast.Program, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			prog, err := ld.parseFile(resolved)
			assert.NoError(t, err)
			results[i] = prog
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.NotNil(t, r)
		assert.Len(t, r.Statements, 1)
	}
}

func TestParseFuncEvaluatesAgainstCallerScope(t *testing.T) {
	ev := evaluator.New(evaluator.NewScope(evaluator.Bounded, nil))
	scope := ev.Global
	scope.Declare("x", evaluator.NewSymbol(evaluator.Num(numeric.Int(10))))

	ev.ParseFunc = ParseFunc(t.TempDir())
	sym, err := ev.ParseFunc(ev, scope, "x + 5;")
	require.NoError(t, err)
	assert.Equal(t, int64(15), sym.Value.Num.AsInt())

	// the fragment's own declarations land in the caller's scope.
	_, err2 := ev.ParseFunc(ev, scope, "y := 7;")
	require.NoError(t, err2)
	ySym, ok := scope.LookupLocal("y")
	require.True(t, ok)
	assert.Equal(t, int64(7), ySym.Value.Num.AsInt())
}
