package evaluator

// Overload is one arity/signature-qualified body sharing a function name
// (spec.md §3 "Signature": "multi-dispatch by arity and, among same-arity
// candidates, by parameter type score"). Body is a compiled BlockI (or
// nil for a Native overload backed by extern/a Go builtin) -- the
// function body is compiled once, at `def` time, so CallFunction never
// touches the AST.
type Overload struct {
	Sig      Signature
	ParamIDs []string // bound parameter names, parallel to Sig.Params
	ByRef    []bool   // per-parameter pass-by-reference flag
	Body     *BlockI
	Closure  *Scope // lexical scope captured by reference at definition time (see DefineI/FunctionLiteralI)
	Native   func(ev *Evaluator, self *Scope, args []*Symbol) (*Symbol, error)
}

// FunctionSet is the Value payload bound to a function-typed name: every
// overload sharing that name, selected at call time by Validity scoring.
// A bare lambda (never named) has exactly one Overload.
type FunctionSet struct {
	Name      string
	Overloads []*Overload
}

// NewFunctionSet starts a function value with a single overload; further
// overloads are appended by subsequent `def NAME(...)` statements sharing
// the name (spec.md §3).
func NewFunctionSet(name string, ov *Overload) *FunctionSet {
	return &FunctionSet{Name: name, Overloads: []*Overload{ov}}
}

// AddOverload appends a new overload, used when a later `def` reuses an
// existing function's name.
func (fs *FunctionSet) AddOverload(ov *Overload) {
	fs.Overloads = append(fs.Overloads, ov)
}

// Resolve picks the best-scoring overload for args' runtime types. A tie
// keeps whichever candidate was seen first, i.e. declaration order (spec.md
// §3 "Signature": "ties resolve in declaration order"; §4.4 "Call": "invoke
// the highest scorer (declaration order breaks ties)"), matching
// Symbol.cpp's getFunction, which only replaces the current best on a
// strictly greater score. Zero candidates matching is the only case
// reported via the second return being false.
func (fs *FunctionSet) Resolve(args []Parameter) (*Overload, bool) {
	best := -1
	var bestOv *Overload
	for _, ov := range fs.Overloads {
		score, ok := ov.Sig.Match(args)
		if !ok {
			continue
		}
		if score > best {
			best = score
			bestOv = ov
		}
	}
	if bestOv == nil {
		return nil, false
	}
	return bestOv, true
}
