package chips

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/registry"
)

func TestBuildResolvesLookupLabels(t *testing.T) {
	reg := registry.MustNew([]field.Descriptor{
		{Key: "for_biz", Label: "Business", Type: field.TypeNumber, Lookup: &field.Lookup{IDField: "bk_biz_id", NameField: "display_name"}},
		{Key: "bk_cloud_ids", Label: "Cloud area", Type: field.TypeArray, Lookup: &field.Lookup{IDField: "bk_cloud_id", NameField: "bk_cloud_name"}},
		{Key: "city", Label: "Region - Zone", Type: field.TypeString, Related: []field.Related{{Name: "subzone_ids", Type: field.TypeArray}}},
		{Key: "cpu", Label: "CPU", Type: field.TypeRange},
		{Key: "os_type", Label: "OS", Type: field.TypeString},
	})

	values := field.Values{
		"for_biz":      field.Number(5),
		"bk_cloud_ids": field.Strings{"0", "9"},
		"subzone_ids":  field.Strings{"z1"},
		"cpu":          field.AtLeast(4),
	}
	results := map[string][]field.Record{
		"for_biz":      {{"bk_biz_id": 5, "display_name": "Biz <b>Five</b>"}},
		"bk_cloud_ids": {{"bk_cloud_id": 0, "bk_cloud_name": "Default & Co"}},
	}

	got := Build(reg, values, results)
	want := []Chip{
		{Key: "for_biz", Label: "Business", Raw: "5", Display: "Biz Five"},
		{Key: "bk_cloud_ids", Label: "Cloud area", Raw: "0", Display: "Default &amp; Co"},
		{Key: "bk_cloud_ids", Label: "Cloud area", Raw: "9", Display: "9"},
		{Key: "subzone_ids", Label: "Region - Zone", Raw: "z1", Display: "z1"},
		{Key: "cpu", Label: "CPU", Raw: "4-", Display: "4-"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("chips mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEmpty(t *testing.T) {
	reg := registry.MustNew([]field.Descriptor{{Key: "city", Type: field.TypeString}})
	if got := Build(reg, nil, nil); len(got) != 0 {
		t.Fatalf("expected no chips, got %#v", got)
	}
}

func TestSanitizeStripsScripts(t *testing.T) {
	if got := sanitize(`<script>alert(1)</script>Biz`); got != "Biz" {
		t.Fatalf("expected script removed, got %q", got)
	}
}

func TestSanitizeStripsEncodedMarkup(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "encoded script", raw: "&lt;script&gt;alert(1)&lt;/script&gt;Biz", want: "Biz"},
		{name: "encoded image handler", raw: "&lt;img src=x onerror=alert(1)&gt;", want: ""},
		{name: "ampersand stays escaped", raw: "Default & Co", want: "Default &amp; Co"},
		{name: "pre-escaped ampersand", raw: "Default &amp; Co", want: "Default &amp; Co"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := sanitize(tc.raw); got != tc.want {
				t.Fatalf("sanitize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestBuildFallsBackWhenLabelIsOnlyMarkup(t *testing.T) {
	reg := registry.MustNew([]field.Descriptor{
		{Key: "for_biz", Label: "Business", Type: field.TypeNumber, Lookup: &field.Lookup{IDField: "bk_biz_id", NameField: "display_name"}},
	})
	results := map[string][]field.Record{
		"for_biz": {{"bk_biz_id": 5, "display_name": "&lt;img src=x onerror=alert(1)&gt;"}},
	}

	got := Build(reg, field.Values{"for_biz": field.Number(5)}, results)
	want := []Chip{{Key: "for_biz", Label: "Business", Raw: "5", Display: "5"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("chips mismatch (-want +got):\n%s", diff)
	}
}
