package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/registry"
)

// parseAssignments turns key=value pairs into typed values. Keys may name a
// registered field or one of its related fields.
func parseAssignments(reg *registry.Registry, assignments []string) (field.Values, error) {
	types := valueTypes(reg)
	values := field.Values{}
	for _, assignment := range assignments {
		key, raw, ok := strings.Cut(assignment, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected key=value", assignment)
		}
		t, known := types[key]
		if !known {
			return nil, fmt.Errorf("unknown field %q (known: %s)", key, strings.Join(sortedKeys(types), ", "))
		}
		value, err := field.Parse(t, raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		if value == nil {
			delete(values, key)
			continue
		}
		values[key] = value
	}
	return values, nil
}

func valueTypes(reg *registry.Registry) map[string]field.ValueType {
	types := make(map[string]field.ValueType)
	for _, desc := range reg.Entries() {
		types[desc.Key] = desc.Type
		desc.WalkRelated(func(rel field.Related) {
			types[rel.Name] = rel.Type
		})
	}
	return types
}

func sortedKeys(types map[string]field.ValueType) []string {
	keys := make([]string, 0, len(types))
	for key := range types {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
