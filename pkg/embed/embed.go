package embed

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/wisp-lang/wisp/internal/config"
	"github.com/wisp-lang/wisp/internal/evaluator"
	"github.com/wisp-lang/wisp/internal/lexer"
	"github.com/wisp-lang/wisp/internal/loader"
	"github.com/wisp-lang/wisp/internal/parser"
	"github.com/wisp-lang/wisp/internal/token"
)

// Runtime embeds a wisp evaluator in a host Go program: Bind exposes Go
// functions and data to scripts, Eval/LoadFile run source, Call invokes a
// script-defined function, Set/Get read and write globals.
type Runtime struct {
	ev     *evaluator.Evaluator
	ld     *loader.Loader
	libDir string
}

// New returns a Runtime with an empty global scope and the default
// library search path (config.Default().LibDir).
func New() *Runtime {
	settings := config.Default()
	global := evaluator.NewScope(evaluator.Bounded, nil)
	return &Runtime{
		ev:     evaluator.New(global),
		ld:     loader.New(settings.LibDir),
		libDir: settings.LibDir,
	}
}

// Bind exposes a Go function or value under name in every script this
// Runtime subsequently runs. Multi-return Go functions are rejected: wisp
// functions return a single Value (spec.md §3 has no tuple type).
func (r *Runtime) Bind(name string, val interface{}) error {
	rv := reflect.ValueOf(val)
	if rv.Kind() == reflect.Func {
		if rv.Type().NumOut() > 1 {
			return fmt.Errorf("embed: Bind(%q): Go functions with more than one return value are not supported", name)
		}
		ov := &evaluator.Overload{
			Sig:    evaluator.Signature{Variadic: true},
			Native: goFuncNative(rv),
		}
		r.ev.Global.Declare(name, evaluator.NewSymbol(evaluator.Fn(evaluator.NewFunctionSet(name, ov))))
		return nil
	}
	return r.Set(name, val)
}

// Set assigns a plain Go value (not a function) to a global.
func (r *Runtime) Set(name string, val interface{}) error {
	v, err := toValue(val)
	if err != nil {
		return err
	}
	r.ev.Global.Declare(name, evaluator.NewSymbol(v))
	return nil
}

// Get reads a global back out as a plain Go value.
func (r *Runtime) Get(name string) (interface{}, error) {
	sym, ok := r.ev.Global.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("embed: variable %q not found", name)
	}
	return fromValue(sym.Value)
}

// Eval lexes, parses, and evaluates src against the Runtime's persistent
// global scope, returning its last expression's value.
func (r *Runtime) Eval(src string) (interface{}, error) {
	sym, err := r.run(src, "<eval>", ".")
	if err != nil {
		return nil, err
	}
	return fromValue(sym.Value)
}

// LoadFile reads, expands `load` statements, and evaluates the file at
// path against the Runtime's global scope.
func (r *Runtime) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = r.run(string(data), path, filepath.Dir(path))
	return err
}

// Call invokes the script-defined function named funcName with args,
// marshalled through the same rules as Bind/Eval.
func (r *Runtime) Call(funcName string, args ...interface{}) (interface{}, error) {
	sym, ok := r.ev.Global.Lookup(funcName)
	if !ok || sym.Value.Kind != evaluator.KindFunction {
		return nil, fmt.Errorf("embed: function %q not found", funcName)
	}
	symArgs := make([]*evaluator.Symbol, len(args))
	for i, a := range args {
		v, err := toValue(a)
		if err != nil {
			return nil, err
		}
		symArgs[i] = evaluator.NewSymbol(v)
	}
	result, err := r.ev.CallFunction(token.Token{}, sym.Value.Fn, nil, symArgs)
	if err != nil {
		return nil, err
	}
	return fromValue(result.Value)
}

func (r *Runtime) run(src, file, dir string) (*evaluator.Symbol, error) {
	toks, err := lexer.New(src, file).Tokenize()
	if err != nil {
		return nil, err
	}
	prog, err := parser.New(toks, file).Parse()
	if err != nil {
		return nil, err
	}
	prog, err = r.ld.Expand(prog, dir)
	if err != nil {
		return nil, err
	}
	instrs, err := evaluator.Compile(prog)
	if err != nil {
		return nil, err
	}
	return r.ev.EvalProgram(instrs)
}
