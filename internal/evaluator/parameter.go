package evaluator

// Parameter is a runtime type descriptor: a base type name (a ValueKind
// name, "Any", or a struct's own name) plus, for a struct/object
// argument, the ancestor names reachable from it (single inheritance
// chain). It is also what `$x` (TypeOfExpr) produces as a first-class
// Value (value.go's KindTypeName).
//
// Grounded on original_source/main/rossa/parameter/parameter.cpp, which
// stores a type name plus a qualifier list and implements `operator&` as
// the scoring function Validity below reproduces exactly.
type Parameter struct {
	Base      []string // Base[0] is the type's own name; len==1 unless this is a TypeOf result with qualifiers folded in
	Ancestors []string // full ancestor chain for an object argument, most-derived excluded
}

func (p Parameter) Name() string {
	if len(p.Base) == 0 {
		return "Any"
	}
	return p.Base[0]
}

func (p Parameter) String() string { return p.Name() }

func (p Parameter) isAny() bool { return len(p.Base) == 0 || p.Base[0] == "Any" }

// Signature is one overload's full parameter-type list plus arity
// (variadic overloads match any arity >= len(Params)).
type Signature struct {
	Params   []Parameter
	Variadic bool
}

// Validity scores how well args matches sig, per
// original_source/main/rossa/parameter/parameter.cpp's operator&:
//
//   - Any on either side short-circuits that slot's score to 1 (matches,
//     weakly).
//   - Exact base-name equality with no qualifiers on either side scores 3
//     (matches.cpp: "qualifier-empty-vs-qualifier-empty = 3").
//   - Equal base name but the candidate arg is a qualified (derived)
//     object being matched against an unqualified (exact) parameter type
//     scores 2.
//   - If the parameter type carries qualifiers (it expects a value that
//     itself satisfies sub-constraints) and the two qualifier lists
//     differ in arity, the match fails (score 0).
//   - Otherwise the score is the minimum score across corresponding
//     qualifier pairs (a compound/generic type matches only as well as
//     its worst-matching component).
//
// Validity returns 0 on a non-match so the caller can reject the
// overload outright; otherwise the returned score (1-3) is summed across
// all parameter slots to rank competing overloads, highest total wins,
// ties resolve to whichever overload was declared first (FunctionSet.Resolve).
func Validity(param Parameter, arg Parameter) int {
	if param.isAny() || arg.isAny() {
		return 1
	}
	if param.Name() == arg.Name() {
		if len(param.Ancestors) == 0 && len(arg.Ancestors) == 0 {
			return 3
		}
		return 2
	}
	// arg is an object: does its ancestor chain contain param's name?
	for _, anc := range arg.Ancestors {
		if anc == param.Name() {
			return 2
		}
	}
	if len(param.Ancestors) != len(arg.Ancestors) {
		return 0
	}
	if len(param.Ancestors) > 0 {
		min := -1
		for i, pa := range param.Ancestors {
			if i >= len(arg.Ancestors) {
				return 0
			}
			s := Validity(Parameter{Base: []string{pa}}, Parameter{Base: []string{arg.Ancestors[i]}})
			if s == 0 {
				return 0
			}
			if min == -1 || s < min {
				min = s
			}
		}
		if min == -1 {
			return 0
		}
		return min
	}
	return 0
}

// Match scores every argument against sig's parameter types, returning
// the summed score and whether every slot matched (0 anywhere fails the
// whole signature). A variadic sig's trailing parameters all reuse its
// last declared Parameter (or Any when none were declared for the
// variadic tail).
func (sig Signature) Match(args []Parameter) (score int, ok bool) {
	if sig.Variadic {
		if len(args) < len(sig.Params) {
			return 0, false
		}
	} else if len(args) != len(sig.Params) {
		return 0, false
	}
	total := 0
	for i, a := range args {
		var p Parameter
		switch {
		case i < len(sig.Params):
			p = sig.Params[i]
		case sig.Variadic && len(sig.Params) > 0:
			p = sig.Params[len(sig.Params)-1]
		default:
			p = Parameter{}
		}
		s := Validity(p, a)
		if s == 0 {
			return 0, false
		}
		total += s
	}
	return total, true
}
