package ast

// Type is the parsed form of a parameter-type annotation: `Name<Q1, Q2>`.
// Unknown identifiers are treated as user-type references (spec.md §4.2,
// "Function signatures"); the evaluator resolves Name against either a
// reserved built-in type name or a struct's dotted name_trace.
type Type struct {
	Name       string
	Qualifiers []Type
}

// IsAny reports whether this type annotation is the wildcard `Any`.
func (t Type) IsAny() bool { return t.Name == "Any" || t.Name == "" }
