package attr

import (
	"fmt"
	"math"
	"regexp"

	"github.com/roach88/attune/internal/gen"
)

// Kind is a sealed interface over the closed set of attribute value kinds.
// Only Number, Integer, String, Bool, and Dynamic implement it.
//
// A Kind validates candidate values and normalizes them to a canonical
// representation (float64 for Number, int64 for Integer). Validation
// failures carry the VALIDATION code; kinds never mutate state.
type Kind interface {
	kind() // Sealed - only these types implement it

	// Name returns the kind name used in schemas and error messages.
	Name() string

	// Validate checks v against the kind's type and range constraints and
	// returns the normalized value. owner and attrName are context for the
	// returned error only.
	Validate(owner, attrName string, v any) (any, error)
}

// Number accepts float64 (and int/int64, normalized to float64) within
// optional inclusive bounds.
type Number struct {
	Lo, Hi float64
}

func (Number) kind()        {}
func (Number) Name() string { return "number" }

// NewNumber creates an unbounded Number kind.
func NewNumber() Number {
	return Number{Lo: math.Inf(-1), Hi: math.Inf(1)}
}

// NumberIn creates a Number kind with inclusive bounds [lo, hi].
func NumberIn(lo, hi float64) Number {
	return Number{Lo: lo, Hi: hi}
}

// Validate implements Kind.
func (k Number) Validate(owner, attrName string, v any) (any, error) {
	f, ok := asFloat(v)
	if !ok {
		return nil, NewValidationError(owner, attrName,
			fmt.Sprintf("number attribute takes a numeric value, not %T", v))
	}
	if f < k.Lo || f > k.Hi {
		return nil, NewValidationError(owner, attrName,
			fmt.Sprintf("value %v outside bounds [%v, %v]", f, k.Lo, k.Hi))
	}
	return f, nil
}

// Integer accepts int/int64 within optional inclusive bounds.
type Integer struct {
	Lo, Hi  int64
	Bounded bool
}

func (Integer) kind()        {}
func (Integer) Name() string { return "integer" }

// NewInteger creates an unbounded Integer kind.
func NewInteger() Integer {
	return Integer{}
}

// IntegerIn creates an Integer kind with inclusive bounds [lo, hi].
func IntegerIn(lo, hi int64) Integer {
	return Integer{Lo: lo, Hi: hi, Bounded: true}
}

// Validate implements Kind.
func (k Integer) Validate(owner, attrName string, v any) (any, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	default:
		return nil, NewValidationError(owner, attrName,
			fmt.Sprintf("integer attribute takes an integer value, not %T", v))
	}
	if k.Bounded && (n < k.Lo || n > k.Hi) {
		return nil, NewValidationError(owner, attrName,
			fmt.Sprintf("value %d outside bounds [%d, %d]", n, k.Lo, k.Hi))
	}
	return n, nil
}

// String accepts string values, optionally constrained by a regular
// expression which must match the entire candidate.
type String struct {
	Regex *regexp.Regexp
}

func (String) kind()        {}
func (String) Name() string { return "string" }

// NewString creates an unconstrained String kind.
func NewString() String {
	return String{}
}

// StringMatching creates a String kind whose values must match re.
func StringMatching(re *regexp.Regexp) String {
	return String{Regex: re}
}

// Validate implements Kind.
func (k String) Validate(owner, attrName string, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, NewValidationError(owner, attrName,
			fmt.Sprintf("string attribute takes a string value, not %T", v))
	}
	if k.Regex != nil && !k.Regex.MatchString(s) {
		return nil, NewValidationError(owner, attrName,
			fmt.Sprintf("value %q does not match regex %v", s, k.Regex))
	}
	return s, nil
}

// Bool accepts bool values.
type Bool struct{}

func (Bool) kind()        {}
func (Bool) Name() string { return "bool" }

// NewBool creates a Bool kind.
func NewBool() Bool {
	return Bool{}
}

// Validate implements Kind.
func (k Bool) Validate(owner, attrName string, v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, NewValidationError(owner, attrName,
			fmt.Sprintf("bool attribute takes a bool value, not %T", v))
	}
	return b, nil
}

// Dynamic accepts either a concrete numeric value or a generator node.
// Owners with a bound time env resolve node slots to a value on Get
// (the "pull" model); the node itself is stored, never its samples.
type Dynamic struct{}

func (Dynamic) kind()        {}
func (Dynamic) Name() string { return "dynamic" }

// NewDynamic creates a Dynamic kind.
func NewDynamic() Dynamic {
	return Dynamic{}
}

// Validate implements Kind.
func (k Dynamic) Validate(owner, attrName string, v any) (any, error) {
	if n, ok := v.(gen.Node); ok {
		return n, nil
	}
	if f, ok := asFloat(v); ok {
		return f, nil
	}
	return nil, NewValidationError(owner, attrName,
		fmt.Sprintf("dynamic attribute takes a generator node or numeric value, not %T", v))
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}
