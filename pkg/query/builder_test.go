package query

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New([]field.Descriptor{
		{Key: "for_biz", Type: field.TypeNumber},
		{Key: "hosts", Type: field.TypeArray},
		{
			Key:  "city",
			Type: field.TypeString,
			Related: []field.Related{
				{Name: "subzone_ids", Type: field.TypeArray},
			},
		},
		{Key: "cpu", Type: field.TypeRange},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func TestBuildEmptyInput(t *testing.T) {
	reg := testRegistry(t)

	if got := Build(reg, field.Values{}); len(got) != 0 {
		t.Fatalf("expected empty params, got %#v", got)
	}
	if got := Build(reg, nil); len(got) != 0 {
		t.Fatalf("expected empty params for nil values, got %#v", got)
	}
}

func TestBuildFormatsEachType(t *testing.T) {
	reg := testRegistry(t)

	got := Build(reg, field.Values{
		"for_biz": field.Number(0),
		"hosts":   field.Strings{"10.0.0.1", "10.0.0.2"},
		"city":    field.String("shenzhen"),
		"cpu":     field.Between(2, 8),
		"unknown": field.String("ignored"),
	})

	want := field.Params{
		"for_biz": "0",
		"hosts":   "10.0.0.1,10.0.0.2",
		"city":    "shenzhen",
		"cpu":     "2-8",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildInvertedRangeIsNotRejected(t *testing.T) {
	reg := testRegistry(t)

	got := Build(reg, field.Values{"cpu": field.Between(8, 2)})
	if diff := cmp.Diff(field.Params{"cpu": "8-2"}, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRelatedFieldsAreIndependent(t *testing.T) {
	reg := testRegistry(t)

	cases := []struct {
		name   string
		values field.Values
		want   field.Params
	}{
		{
			name:   "both present",
			values: field.Values{"city": field.String("shenzhen"), "subzone_ids": field.Strings{"z1", "z2"}},
			want:   field.Params{"city": "shenzhen", "subzone_ids": "z1,z2"},
		},
		{
			name:   "parent empty",
			values: field.Values{"city": field.String(""), "subzone_ids": field.Strings{"z1"}},
			want:   field.Params{"subzone_ids": "z1"},
		},
		{
			name:   "related empty",
			values: field.Values{"city": field.String("shenzhen"), "subzone_ids": field.Strings{}},
			want:   field.Params{"city": "shenzhen"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tc.want, Build(reg, tc.values)); diff != "" {
				t.Fatalf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildNestedRelatedFields(t *testing.T) {
	reg := registry.MustNew([]field.Descriptor{{
		Key:  "city",
		Type: field.TypeString,
		Related: []field.Related{{
			Name:    "subzone_ids",
			Type:    field.TypeArray,
			Related: []field.Related{{Name: "rack_ids", Type: field.TypeArray}},
		}},
	}})

	got := Build(reg, field.Values{"rack_ids": field.Strings{"r1"}})
	if diff := cmp.Diff(field.Params{"rack_ids": "r1"}, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildLastWriteWinsOnCollision(t *testing.T) {
	reg := registry.MustNew([]field.Descriptor{
		{Key: "first", Type: field.TypeString, Param: "shared"},
		{Key: "second", Type: field.TypeString, Param: "shared"},
	})

	var buf bytes.Buffer
	builder := New(WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	got := builder.Build(reg, field.Values{"first": field.String("a"), "second": field.String("b")})
	if diff := cmp.Diff(field.Params{"shared": "b"}, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), "parameter overwritten") {
		t.Fatalf("expected collision to be logged, got %q", buf.String())
	}
}

func TestBuildSkipsMismatchedVariants(t *testing.T) {
	reg := testRegistry(t)

	var buf bytes.Buffer
	builder := New(WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	got := builder.Build(reg, field.Values{"hosts": field.String("10.0.0.1")})
	if len(got) != 0 {
		t.Fatalf("expected mismatched value to be skipped, got %#v", got)
	}
	if !strings.Contains(buf.String(), "mismatched type") {
		t.Fatalf("expected mismatch to be logged, got %q", buf.String())
	}
}

func TestBuildUsesCustomFormatter(t *testing.T) {
	reg := registry.MustNew([]field.Descriptor{{
		Key:  "os_type",
		Type: field.TypeString,
		Format: func(v field.Value) field.Params {
			if field.IsEmpty(v) {
				return field.Params{}
			}
			return field.Params{"os_type": strings.ToLower(v.String())}
		},
	}})

	got := Build(reg, field.Values{"os_type": field.String("Linux")})
	if diff := cmp.Diff(field.Params{"os_type": "linux"}, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	reg := testRegistry(t)
	values := field.Values{
		"hosts":       field.Strings{"10.0.0.1"},
		"city":        field.String("shenzhen"),
		"subzone_ids": field.Strings{"z1", "z2"},
		"cpu":         field.AtLeast(4),
	}
	before := values.Clone()

	first := Build(reg, values)
	second := Build(reg, values)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("builds differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, values); diff != "" {
		t.Fatalf("values mutated (-before +after):\n%s", diff)
	}
}
