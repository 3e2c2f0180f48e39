// Package testsupport holds helpers shared by package tests: golden files and
// value fixtures written as raw text.
package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/registry"
)

// ParseValues converts raw text keyed by field key (or related field name)
// into typed values using the types declared in reg. Blank entries are
// dropped. Unknown keys and parse failures fail the test.
func ParseValues(t *testing.T, reg *registry.Registry, raw map[string]string) field.Values {
	t.Helper()

	values, err := LoadValues(reg, raw)
	if err != nil {
		t.Fatalf("parse values: %v", err)
	}
	return values
}

// LoadValues is ParseValues for callers without a *testing.T.
func LoadValues(reg *registry.Registry, raw map[string]string) (field.Values, error) {
	types := make(map[string]field.ValueType)
	for _, desc := range reg.Entries() {
		types[desc.Key] = desc.Type
		desc.WalkRelated(func(rel field.Related) {
			types[rel.Name] = rel.Type
		})
	}

	values := field.Values{}
	for key, text := range raw {
		t, ok := types[key]
		if !ok {
			return nil, fmt.Errorf("testsupport: unknown field %q", key)
		}
		value, err := field.Parse(t, text)
		if err != nil {
			return nil, fmt.Errorf("testsupport: %w", err)
		}
		if value != nil {
			values[key] = value
		}
	}
	return values, nil
}

// MustLoadParams reads a JSON golden file holding query parameters.
func MustLoadParams(t *testing.T, path string) field.Params {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load golden: %v", err)
	}
	var out field.Params
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	return out
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	payload = append(payload, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}
