// Package numeric implements the tagged numeric type described in spec.md
// §3 ("Number"), ported line-for-line in spirit from the original runtime's
// number_t (original_source/main/lang/RNumber.h): an exact int64 or an
// IEEE double, auto-narrowing on every construction and every arithmetic
// result.
//
// Division by zero yields +Inf unconditionally (RNumber.h's operator/
// checks the divisor before branching on representation) -- this is a
// deliberate, surprising contract carried over from the source runtime
// rather than a bug: it never traps.
package numeric

import (
	"math"
	"strconv"
	"strings"
)

// Number is either an exact int64 or a float64, never both.
type Number struct {
	isFloat bool
	i       int64
	f       float64
}

// Int constructs an exact integer Number.
func Int(v int64) Number { return Number{i: v} }

// Float constructs a float Number, narrowing to an exact integer when the
// value round-trips through truncation (validate(), per RNumber.h).
func Float(v float64) Number {
	n := Number{isFloat: true, f: v}
	return n.validate()
}

func (n Number) validate() Number {
	if n.isFloat && !math.IsInf(n.f, 0) && !math.IsNaN(n.f) && n.f == math.Trunc(n.f) && n.f >= math.MinInt64 && n.f <= math.MaxInt64 {
		return Number{i: int64(n.f)}
	}
	return n
}

// IsFloat reports whether n is stored as a float64.
func (n Number) IsFloat() bool { return n.isFloat }

// AsInt returns the integer representation, truncating a float value.
func (n Number) AsInt() int64 {
	if n.isFloat {
		return int64(n.f)
	}
	return n.i
}

// AsFloat returns the float64 representation.
func (n Number) AsFloat() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (a Number) binary(b Number, fi func(x, y int64) Number, ff func(x, y float64) Number) Number {
	if !a.isFloat && !b.isFloat {
		return fi(a.i, b.i)
	}
	return ff(a.AsFloat(), b.AsFloat())
}

// Add implements +.
func (a Number) Add(b Number) Number {
	return a.binary(b,
		func(x, y int64) Number { return Int(x + y) },
		func(x, y float64) Number { return Float(x + y) })
}

// Sub implements -.
func (a Number) Sub(b Number) Number {
	return a.binary(b,
		func(x, y int64) Number { return Int(x - y) },
		func(x, y float64) Number { return Float(x - y) })
}

// Mul implements *.
func (a Number) Mul(b Number) Number {
	return a.binary(b,
		func(x, y int64) Number { return Int(x * y) },
		func(x, y float64) Number { return Float(x * y) })
}

// Div implements / per RNumber.h: zero divisor always yields +Inf; exact
// division narrows to int64 only when it divides evenly, otherwise widens.
func (a Number) Div(b Number) Number {
	if b.AsFloat() == 0 {
		return Float(math.Inf(1))
	}
	if !a.isFloat && !b.isFloat {
		if a.i%b.i == 0 {
			return Int(a.i / b.i)
		}
		return Float(float64(a.i) / float64(b.i))
	}
	return Float(a.AsFloat() / b.AsFloat())
}

// FloorDiv implements // : always exact-integer floor division when both
// operands are exact, else float floor division.
func (a Number) FloorDiv(b Number) Number {
	if b.AsFloat() == 0 {
		return Float(math.Inf(1))
	}
	if !a.isFloat && !b.isFloat {
		q := a.i / b.i
		if (a.i%b.i != 0) && ((a.i < 0) != (b.i < 0)) {
			q--
		}
		return Int(q)
	}
	return Float(math.Floor(a.AsFloat() / b.AsFloat()))
}

// Mod implements %.
func (a Number) Mod(b Number) Number {
	return a.binary(b,
		func(x, y int64) Number { return Int(x % y) },
		func(x, y float64) Number { return Float(math.Mod(x, y)) })
}

// Pow implements **, computing in float64 (matches RNumber.h::pow); an
// integral result narrows back to an exact integer through Float.
func (a Number) Pow(b Number) Number {
	return Float(math.Pow(a.AsFloat(), b.AsFloat()))
}

// Neg implements unary -.
func (a Number) Neg() Number {
	if a.isFloat {
		return Float(-a.f)
	}
	return Int(-a.i)
}

// Equal compares two numbers, widening mixed representations to float64.
func (a Number) Equal(b Number) bool {
	if a.isFloat == b.isFloat {
		if a.isFloat {
			return a.f == b.f
		}
		return a.i == b.i
	}
	return a.AsFloat() == b.AsFloat()
}

// Less, Greater, LessEq, GreaterEq compare widened to float64 on mixed
// representations (spec §3).
func (a Number) Less(b Number) bool    { return a.AsFloat() < b.AsFloat() }
func (a Number) Greater(b Number) bool { return a.AsFloat() > b.AsFloat() }
func (a Number) LessEq(b Number) bool  { return !a.Greater(b) }
func (a Number) GreaterEq(b Number) bool { return !a.Less(b) }

// BAnd, BOr, BXor, BShiftL, BShiftR, BNot force both operands to int64
// (spec: "Bitwise operations force i64").
func (a Number) BAnd(b Number) Number    { return Int(a.AsInt() & b.AsInt()) }
func (a Number) BOr(b Number) Number     { return Int(a.AsInt() | b.AsInt()) }
func (a Number) BXor(b Number) Number    { return Int(a.AsInt() ^ b.AsInt()) }
func (a Number) BShiftL(b Number) Number { return Int(a.AsInt() << uint64(b.AsInt())) }
func (a Number) BShiftR(b Number) Number { return Int(a.AsInt() >> uint64(b.AsInt())) }
func (a Number) BNot() Number            { return Int(^a.AsInt()) }

// String renders the decimal representation used both for display and for
// the cast-to-String matrix: integers print plainly, floats trim trailing
// zeros and a dangling decimal point (mirrors number_t::toString).
func (n Number) String() string {
	if !n.isFloat {
		return strconv.FormatInt(n.i, 10)
	}
	if math.IsInf(n.f, 1) {
		return "inf"
	}
	if math.IsInf(n.f, -1) {
		return "-inf"
	}
	s := strconv.FormatFloat(n.f, 'f', 15, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

// Parse parses a numeric literal string per the cast-to-Number rule in
// spec.md §4.4: recognizes 0b/0x/0-prefixed integer forms, else parses as
// float64.
func Parse(s string) (Number, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, false
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var n Number
	switch {
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		v, err := strconv.ParseInt(s[2:], 2, 64)
		if err != nil {
			return Number{}, false
		}
		n = Int(v)
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseInt(s[2:], 16, 64)
		if err != nil {
			return Number{}, false
		}
		n = Int(v)
	case len(s) > 1 && s[0] == '0' && !strings.Contains(s, "."):
		v, err := strconv.ParseInt(s[1:], 8, 64)
		if err != nil {
			return Number{}, false
		}
		n = Int(v)
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Number{}, false
		}
		n = Float(v)
	}
	if neg {
		n = n.Neg()
	}
	return n, true
}
