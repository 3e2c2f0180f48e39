package openapi

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New([]field.Descriptor{
		{Key: "for_biz", Label: "Business", Type: field.TypeNumber, Lookup: &field.Lookup{IDField: "bk_biz_id", NameField: "display_name"}},
		{Key: "hosts", Label: "IP", Type: field.TypeArray},
		{Key: "city", Label: "City", Type: field.TypeString, Related: []field.Related{{Name: "subzone_ids", Type: field.TypeArray}}},
		{Key: "cpu", Label: "CPU", Type: field.TypeRange, Param: "cpu_range"},
		{Key: "subzone", Label: "Subzone", Type: field.TypeArray, Param: "subzone_ids"},
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return reg
}

func TestParametersFollowRegistryOrder(t *testing.T) {
	params := Parameters(testRegistry(t))

	var names []string
	for _, ref := range params {
		names = append(names, ref.Value.Name)
		if ref.Value.In != "query" {
			t.Fatalf("%s: expected query parameter, got %q", ref.Value.Name, ref.Value.In)
		}
		if ref.Value.Required {
			t.Fatalf("%s: search parameters are optional", ref.Value.Name)
		}
	}
	want := []string{"for_biz", "hosts", "city", "subzone_ids", "cpu_range"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("parameter names mismatch (-want +got):\n%s", diff)
	}
}

func TestParametersDescribeCustomFormatterNames(t *testing.T) {
	splitRange := func(v field.Value) field.Params {
		r, ok := v.(field.Range)
		if !ok {
			return field.Params{}
		}
		params := field.Params{}
		if r.Min.Set {
			params["mem_min"] = "1"
		}
		if r.Max.Set {
			params["mem_max"] = "2"
		}
		return params
	}
	reg, err := registry.New([]field.Descriptor{
		{Key: "mem", Label: "Memory", Type: field.TypeRange, Format: splitRange},
		{Key: "city", Label: "City", Type: field.TypeString, Related: []field.Related{{
			Name:   "subzone_ids",
			Type:   field.TypeArray,
			Format: func(v field.Value) field.Params { return field.Params{"zone": v.String()} },
		}}},
		{Key: "silent", Type: field.TypeString, Format: func(field.Value) field.Params { return nil }},
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	var names []string
	for _, ref := range Parameters(reg) {
		names = append(names, ref.Value.Name)
	}
	want := []string{"mem_max", "mem_min", "city", "zone", "silent"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("parameter names mismatch (-want +got):\n%s", diff)
	}
}

func TestParameterSchemas(t *testing.T) {
	params := Parameters(testRegistry(t))

	cases := []struct {
		name      string
		schema    string
		extension string
		value     any
	}{
		{name: "for_biz", schema: "number"},
		{name: "hosts", schema: "string", extension: separatorExtension, value: ","},
		{name: "subzone_ids", schema: "string", extension: relatedExtension, value: "city"},
		{name: "cpu_range", schema: "string", extension: formatExtension, value: "min-max"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			param := params.GetByInAndName("query", tc.name)
			if param == nil {
				t.Fatalf("parameter %s missing", tc.name)
			}
			schema := param.Schema.Value
			if !schema.Type.Is(tc.schema) {
				t.Fatalf("expected %s schema, got %v", tc.schema, schema.Type)
			}
			if tc.extension == "" {
				return
			}
			if got := schema.Extensions[tc.extension]; got != tc.value {
				t.Fatalf("expected %s=%v, got %v", tc.extension, tc.value, got)
			}
		})
	}

	lookup, ok := params.GetByInAndName("query", "for_biz").Schema.Value.Extensions[lookupExtension].(map[string]string)
	if !ok || lookup["id_field"] != "bk_biz_id" || lookup["name_field"] != "display_name" {
		t.Fatalf("unexpected lookup extension: %#v", lookup)
	}
}

func TestDocumentValidatesAndRendersYAML(t *testing.T) {
	doc, err := Document(context.Background(), testRegistry(t), DocumentOptions{Summary: "Search hosts"})
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	op := doc.Paths.Find("/search").GetOperation("GET")
	if op == nil || op.OperationID != "search" {
		t.Fatalf("expected GET /search operation, got %#v", op)
	}
	if len(op.Parameters) != 5 {
		t.Fatalf("expected 5 parameters, got %d", len(op.Parameters))
	}

	out, err := MarshalYAML(doc)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	for _, want := range []string{"openapi: 3.0.3", "x-format: min-max", "name: subzone_ids"} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("expected yaml to contain %q:\n%s", want, out)
		}
	}
}
