package field

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType enumerates the value shapes a descriptor can declare.
type ValueType string

const (
	TypeNumber ValueType = "number"
	TypeString ValueType = "string"
	TypeArray  ValueType = "array"
	TypeRange  ValueType = "range"
)

// Valid reports whether t is one of the known value types.
func (t ValueType) Valid() bool {
	switch t {
	case TypeNumber, TypeString, TypeArray, TypeRange:
		return true
	default:
		return false
	}
}

// ParseValueType normalises a textual type name.
func ParseValueType(raw string) (ValueType, error) {
	t := ValueType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("field: unknown value type %q", raw)
	}
	return t, nil
}

// Value is the user-entered value of a single field. The set of variants is
// closed: Number, String, Strings and Range. A nil Value means the field was
// not provided.
type Value interface {
	Type() ValueType
	String() string
	sealed()
}

// Number holds a numeric value. Zero is a present value.
type Number float64

func (Number) Type() ValueType { return TypeNumber }
func (Number) sealed()         {}

func (n Number) String() string { return formatFloat(float64(n)) }

// String holds free text.
type String string

func (String) Type() ValueType { return TypeString }
func (String) sealed()         {}

func (s String) String() string { return string(s) }

// Strings holds a list of textual values such as hosts or ids.
type Strings []string

func (Strings) Type() ValueType { return TypeArray }
func (Strings) sealed()         {}

// String joins the elements with a comma, the separator used on the wire.
func (s Strings) String() string { return strings.Join(s, ",") }

// Bound is one end of a Range. Unset bounds are open ended.
type Bound struct {
	Value float64
	Set   bool
}

// At returns a set bound.
func At(value float64) Bound {
	return Bound{Value: value, Set: true}
}

func (b Bound) String() string {
	if !b.Set {
		return ""
	}
	return formatFloat(b.Value)
}

// Range is an ordered (min, max) pair. Ordering is not enforced here; see the
// validation package.
type Range struct {
	Min Bound
	Max Bound
}

// Between builds a range with both bounds set.
func Between(min, max float64) Range {
	return Range{Min: At(min), Max: At(max)}
}

// AtLeast builds a range with only the lower bound set.
func AtLeast(min float64) Range {
	return Range{Min: At(min)}
}

// AtMost builds a range with only the upper bound set.
func AtMost(max float64) Range {
	return Range{Max: At(max)}
}

func (Range) Type() ValueType { return TypeRange }
func (Range) sealed()         {}

// String renders the range as "<min>-<max>", leaving missing bounds blank.
func (r Range) String() string {
	return r.Min.String() + "-" + r.Max.String()
}

// IsEmpty reports whether v contributes nothing to a query. Nil, the empty
// string, an empty list and a range without bounds are empty; any Number,
// including zero, is present.
func IsEmpty(v Value) bool {
	switch typed := v.(type) {
	case nil:
		return true
	case Number:
		return false
	case String:
		return typed == ""
	case Strings:
		return len(typed) == 0
	case Range:
		return !typed.Min.Set && !typed.Max.Set
	default:
		return false
	}
}

// Values maps field keys (and related field names) to the current input.
type Values map[string]Value

// Get returns the value stored under key, or nil.
func (v Values) Get(key string) Value {
	if v == nil {
		return nil
	}
	return v[key]
}

// Clone returns a shallow copy; list values are copied so the clone can be
// mutated independently.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		if list, ok := value.(Strings); ok {
			value = append(Strings(nil), list...)
		}
		out[key] = value
	}
	return out
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
