// Package chips lists the currently selected search values as display chips,
// the compact "field: value" tokens shown above a result list.
package chips

import (
	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/lookup"
	"github.com/goliatone/go-searchform/pkg/registry"
)

// Chip is one selected value.
type Chip struct {
	// Key is the field key or related field name holding the value.
	Key string `json:"key"`
	// Label is the owning field's label.
	Label string `json:"label"`
	// Raw is the stored value in its text form.
	Raw string `json:"raw"`
	// Display is the resolved, sanitized text to show. It is HTML escaped.
	Display string `json:"display"`
}

// Build lists the non-empty values of reg in registry order. List values
// produce one chip per element. Lookup-backed fields resolve display names
// from results (keyed by field key); unresolved values show the raw text.
// Related field chips carry their parent's label.
func Build(reg *registry.Registry, values field.Values, results map[string][]field.Record) []Chip {
	var out []Chip
	for _, desc := range reg.Entries() {
		out = append(out, chipsFor(desc.Key, desc.Label, desc, values.Get(desc.Key), results[desc.Key])...)
		desc.WalkRelated(func(rel field.Related) {
			related := field.Descriptor{Key: rel.Name, Type: rel.Type}
			out = append(out, chipsFor(rel.Name, desc.Label, related, values.Get(rel.Name), nil)...)
		})
	}
	return out
}

func chipsFor(key, label string, desc field.Descriptor, value field.Value, records []field.Record) []Chip {
	if field.IsEmpty(value) || value.Type() != desc.Type {
		return nil
	}
	if desc.Type == field.TypeRange {
		text := value.String()
		return []Chip{{Key: key, Label: sanitize(label), Raw: text, Display: sanitize(text)}}
	}
	names := lookup.ResolveNames(desc, value, records)
	chips := make([]Chip, 0, len(names))
	for _, name := range names {
		display := sanitize(name.Label)
		if display == "" {
			display = sanitize(name.Raw)
		}
		chips = append(chips, Chip{
			Key:     key,
			Label:   sanitize(label),
			Raw:     name.Raw,
			Display: display,
		})
	}
	return chips
}
