package field

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Parse converts textual input (CLI flags, prompts, registry files) into a
// Value of type t. Blank input yields a nil Value.
//
// Lists accept commas, whitespace and newlines as separators. Ranges use
// "<min>-<max>" where either side may be left blank.
func Parse(t ValueType, raw string) (Value, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	switch t {
	case TypeNumber:
		number, err := parseFinite(trimmed)
		if err != nil {
			return nil, fmt.Errorf("field: parse number %q: %w", raw, err)
		}
		return Number(number), nil
	case TypeString:
		return String(trimmed), nil
	case TypeArray:
		parts := strings.FieldsFunc(trimmed, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		if len(parts) == 0 {
			return nil, nil
		}
		return Strings(parts), nil
	case TypeRange:
		return parseRange(trimmed)
	default:
		return nil, fmt.Errorf("field: unknown value type %q", t)
	}
}

func parseRange(raw string) (Value, error) {
	idx := strings.Index(raw, "-")
	if idx < 0 {
		return nil, fmt.Errorf("field: parse range %q: expected <min>-<max>", raw)
	}

	min, err := parseBound(raw[:idx])
	if err != nil {
		return nil, fmt.Errorf("field: parse range %q: %w", raw, err)
	}
	max, err := parseBound(raw[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("field: parse range %q: %w", raw, err)
	}
	return Range{Min: min, Max: max}, nil
}

func parseBound(raw string) (Bound, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Bound{}, nil
	}
	value, err := parseFinite(trimmed)
	if err != nil {
		return Bound{}, err
	}
	return At(value), nil
}

var errNotFinite = errors.New("value must be a finite number")

// parseFinite rejects NaN and infinities, which ParseFloat accepts but no
// comparison or query parameter can use.
func parseFinite(raw string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errNotFinite
	}
	return value, nil
}
