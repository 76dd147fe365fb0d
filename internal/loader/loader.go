// Package loader resolves and expands `load "name";` textual inclusion
// (spec.md: "performs a one-shot textual inclusion of <searchpath>/name.ra;
// already-loaded paths are deduplicated"). It runs between parsing and
// compiling: internal/evaluator.Compile never sees a LoadStatement,
// because Expand has already spliced the included program's statements
// into its place (see internal/evaluator/compile.go's NoopI comment on
// *ast.LoadStatement).
//
// Grounded on funvibe-funxy/internal/modules/loader.go's cache-by-resolved-
// path and cycle-detection shape, cut down from that file's full package/
// export-table machinery to this language's simpler flat inclusion model.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/wisp-lang/wisp/internal/ast"
	"github.com/wisp-lang/wisp/internal/evaluator"
	"github.com/wisp-lang/wisp/internal/lexer"
	"github.com/wisp-lang/wisp/internal/parser"
)

// Loader expands `load` statements across a directory-of-including-file,
// then-runtime-lib-dir search path, deduplicating by resolved absolute
// path and collapsing concurrent requests for the same file.
type Loader struct {
	libDir string

	mu     sync.Mutex
	loaded map[string]bool

	group singleflight.Group
}

// New returns a Loader whose secondary search path is libDir
// (<runtime-dir>/lib/ in spec.md's wording).
func New(libDir string) *Loader {
	return &Loader{libDir: libDir, loaded: make(map[string]bool)}
}

// Expand walks prog's top-level statements, replacing each LoadStatement
// with the (recursively expanded) statements of the file it names, resolved
// relative to dir -- the directory of the file prog was parsed from. A
// path already loaded by this Loader, in this call or an earlier one,
// contributes nothing the second time.
func (l *Loader) Expand(prog *ast.Program, dir string) (*ast.Program, error) {
	out := &ast.Program{File: prog.File}
	for _, st := range prog.Statements {
		load, ok := st.(*ast.LoadStatement)
		if !ok {
			out.Statements = append(out.Statements, st)
			continue
		}
		resolved, err := l.resolve(dir, load.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: load %q: %w", prog.File, load.Path, err)
		}
		if l.markLoaded(resolved) {
			continue
		}
		included, err := l.parseFile(resolved)
		if err != nil {
			return nil, err
		}
		expanded, err := l.Expand(included, filepath.Dir(resolved))
		if err != nil {
			return nil, err
		}
		out.Statements = append(out.Statements, expanded.Statements...)
	}
	return out, nil
}

// resolve finds name.ra first next to the including file, then under
// libDir (spec.md §"Source file format").
func (l *Loader) resolve(dir, name string) (string, error) {
	candidates := []string{
		filepath.Join(dir, name+".ra"),
		filepath.Join(l.libDir, name+".ra"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, err := filepath.Abs(c)
			if err != nil {
				return "", err
			}
			return abs, nil
		}
	}
	return "", fmt.Errorf("not found in %v", candidates)
}

// markLoaded records resolved as loaded and reports whether it already was.
func (l *Loader) markLoaded(resolved string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded[resolved] {
		return true
	}
	l.loaded[resolved] = true
	return false
}

// parseFile reads, lexes, and parses resolved, collapsing concurrent
// requests for the same path into one read+parse (golang.org/x/sync's
// singleflight, wired here so a host driving the evaluator from multiple
// goroutines never double-parses a shared library file).
func (l *Loader) parseFile(resolved string) (*ast.Program, error) {
	v, err, _ := l.group.Do(resolved, func() (any, error) {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, err
		}
		toks, err := lexer.New(string(data), resolved).Tokenize()
		if err != nil {
			return nil, err
		}
		return parser.New(toks, resolved).Parse()
	})
	if err != nil {
		return nil, err
	}
	return v.(*ast.Program), nil
}

// ParseFunc implements the evaluator.Evaluator.ParseFunc hook backing the
// `parse(s)` builtin: lex + parse src as a standalone program, compile it,
// and evaluate every resulting instruction directly against scope (not a
// fresh one), so a parsed fragment can see and mutate the caller's
// bindings -- the metacircular-eval reading of spec.md §4.4. The program's
// own `load` statements are expanded first, against the process's working
// directory, matching a file loaded from disk.
func ParseFunc(libDir string) func(ev *evaluator.Evaluator, scope *evaluator.Scope, src string) (*evaluator.Symbol, error) {
	ld := New(libDir)
	return func(ev *evaluator.Evaluator, scope *evaluator.Scope, src string) (*evaluator.Symbol, error) {
		toks, err := lexer.New(src, "<parse>").Tokenize()
		if err != nil {
			return nil, err
		}
		prog, err := parser.New(toks, "<parse>").Parse()
		if err != nil {
			return nil, err
		}
		dir, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		prog, err = ld.Expand(prog, dir)
		if err != nil {
			return nil, err
		}
		instrs, err := evaluator.Compile(prog)
		if err != nil {
			return nil, err
		}
		last := evaluator.NewSymbol(evaluator.Nil)
		for _, in := range instrs {
			last, err = in.Eval(ev, scope)
			if err != nil {
				return nil, err
			}
		}
		return last, nil
	}
}
