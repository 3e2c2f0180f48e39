package lookup

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/goliatone/go-searchform/pkg/field"
)

// Name is the resolved label of one raw value.
type Name struct {
	Raw   string
	Label string
	Found bool
}

// ResolveName returns the display attribute of the first record whose
// identifier loosely equals raw. The boolean is false when desc has no
// lookup, raw is empty, or no record matches; callers then render the raw
// value itself.
func ResolveName(desc field.Descriptor, raw field.Value, records []field.Record) (string, bool) {
	if desc.Lookup == nil || field.IsEmpty(raw) {
		return "", false
	}
	return resolve(desc.Lookup, raw, records)
}

// ResolveNames resolves each element of a list value (or the single value of
// a scalar) and falls back to the raw text when no record matches.
func ResolveNames(desc field.Descriptor, raw field.Value, records []field.Record) []Name {
	if field.IsEmpty(raw) {
		return nil
	}
	var items []any
	if list, ok := raw.(field.Strings); ok {
		for _, item := range list {
			items = append(items, item)
		}
	} else {
		items = []any{raw}
	}

	names := make([]Name, 0, len(items))
	for _, item := range items {
		text, _ := canonical(item)
		name := Name{Raw: text, Label: text}
		if desc.Lookup != nil {
			if label, ok := resolve(desc.Lookup, item, records); ok {
				name.Label = label
				name.Found = true
			}
		}
		names = append(names, name)
	}
	return names
}

func resolve(lookup *field.Lookup, raw any, records []field.Record) (string, bool) {
	for _, record := range records {
		id, ok := lookup.ID(record)
		if !ok || !LooseEqual(id, raw) {
			continue
		}
		name, ok := lookup.Name(record)
		if !ok {
			return "", false
		}
		text, ok := canonical(name)
		return text, ok
	}
	return "", false
}

// LooseEqual compares two identifiers by their canonical text form so that
// numbers match their string representation (5 == "5" == 5.0).
func LooseEqual(a, b any) bool {
	left, ok := canonical(a)
	if !ok {
		return false
	}
	right, ok := canonical(b)
	if !ok {
		return false
	}
	return left == right
}

// Text returns the canonical text form of an identifier or label; nil yields
// the empty string.
func Text(value any) string {
	text, _ := canonical(value)
	return text
}

// Choice is one selectable lookup record.
type Choice struct {
	ID    string
	Label string
}

// Choices lists the records of desc's lookup as id/label pairs in record
// order. Records missing the identifier are skipped; a missing label falls
// back to the identifier.
func Choices(desc field.Descriptor, records []field.Record) []Choice {
	if desc.Lookup == nil {
		return nil
	}
	out := make([]Choice, 0, len(records))
	for _, record := range records {
		id, ok := desc.Lookup.ID(record)
		if !ok {
			continue
		}
		idText, ok := canonical(id)
		if !ok {
			continue
		}
		choice := Choice{ID: idText, Label: idText}
		if name, ok := desc.Lookup.Name(record); ok {
			if label := Text(name); label != "" {
				choice.Label = label
			}
		}
		out = append(out, choice)
	}
	return out
}

func canonical(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "", false
	case field.Value:
		return typed.String(), true
	case string:
		return typed, true
	case json.Number:
		return typed.String(), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32), true
	case int:
		return strconv.Itoa(typed), true
	case int8:
		return strconv.FormatInt(int64(typed), 10), true
	case int16:
		return strconv.FormatInt(int64(typed), 10), true
	case int32:
		return strconv.FormatInt(int64(typed), 10), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case uint:
		return strconv.FormatUint(uint64(typed), 10), true
	case uint8:
		return strconv.FormatUint(uint64(typed), 10), true
	case uint16:
		return strconv.FormatUint(uint64(typed), 10), true
	case uint32:
		return strconv.FormatUint(uint64(typed), 10), true
	case uint64:
		return strconv.FormatUint(typed, 10), true
	case bool:
		return strconv.FormatBool(typed), true
	case fmt.Stringer:
		return typed.String(), true
	default:
		return fmt.Sprint(typed), true
	}
}
