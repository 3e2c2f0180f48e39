package hostsearch

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/lookup"
	"github.com/goliatone/go-searchform/pkg/query"
	"github.com/goliatone/go-searchform/pkg/validation"
	"github.com/goliatone/go-searchform/pkg/widgets"
)

func TestRegistryOrderAndLayout(t *testing.T) {
	reg := MustNew()

	want := []string{
		"for_biz", "resource_type", "hosts", "agent_status", "city",
		"device_class", "os_type", "mount_point", "cpu", "mem", "disk",
		"disk_type", "spec_id", "bk_cloud_ids",
	}
	if diff := cmp.Diff(want, reg.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	flex := map[string]int{}
	for _, desc := range reg.Entries() {
		if desc.Flex != 0 {
			flex[desc.Key] = desc.Flex
		}
		if desc.Label == "" {
			t.Fatalf("%s has no label", desc.Key)
		}
	}
	if diff := cmp.Diff(map[string]int{"hosts": 2, "city": 2, "spec_id": 2}, flex); diff != "" {
		t.Fatalf("flex mismatch (-want +got):\n%s", diff)
	}

	var lookups []string
	for _, desc := range reg.Lookups() {
		lookups = append(lookups, desc.Key)
	}
	if diff := cmp.Diff([]string{"for_biz", "resource_type", "mount_point", "spec_id", "bk_cloud_ids"}, lookups); diff != "" {
		t.Fatalf("lookups mismatch (-want +got):\n%s", diff)
	}

	clouds, _ := reg.Get(KeyCloudAreas)
	if clouds.Widget != widgets.WidgetMultiSelect {
		t.Fatalf("expected multi-select for cloud areas, got %q", clouds.Widget)
	}
}

func TestBuildScenarios(t *testing.T) {
	reg := MustNew()

	cases := []struct {
		name   string
		values field.Values
		want   field.Params
	}{
		{name: "empty input", values: field.Values{}, want: field.Params{}},
		{
			name:   "hosts joined",
			values: field.Values{"hosts": field.Strings{"1.1.1.1", "2.2.2.2"}},
			want:   field.Params{"hosts": "1.1.1.1,2.2.2.2"},
		},
		{
			name:   "cpu range",
			values: field.Values{"cpu": field.Between(2, 8)},
			want:   field.Params{"cpu": "2-8"},
		},
		{
			name:   "inverted range still formatted",
			values: field.Values{"cpu": field.Between(8, 2)},
			want:   field.Params{"cpu": "8-2"},
		},
		{
			name:   "city and subzones",
			values: field.Values{"city": field.String("SZ"), "subzone_ids": field.Strings{"1", "2"}},
			want:   field.Params{"city": "SZ", "subzone_ids": "1,2"},
		},
		{
			name:   "private hosts",
			values: field.Values{"hosts": field.Strings{"10.0.0.1", "10.0.0.2"}},
			want:   field.Params{"hosts": "10.0.0.1,10.0.0.2"},
		},
		{
			name:   "city with named subzones",
			values: field.Values{"city": field.String("shenzhen"), "subzone_ids": field.Strings{"z1", "z2"}},
			want:   field.Params{"city": "shenzhen", "subzone_ids": "z1,z2"},
		},
		{
			name:   "subzones without city",
			values: field.Values{"subzone_ids": field.Strings{"3"}},
			want:   field.Params{"subzone_ids": "3"},
		},
		{
			name:   "zero business is present",
			values: field.Values{"for_biz": field.Number(0), "agent_status": field.Number(1)},
			want:   field.Params{"for_biz": "0", "agent_status": "1"},
		},
		{
			name:   "unregistered keys ignored",
			values: field.Values{"owner": field.String("admin"), "disk": field.AtLeast(100)},
			want:   field.Params{"disk": "100-"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := query.Build(reg, tc.values)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("params mismatch (-want +got):\n%s", diff)
			}
			if again := query.Build(reg, tc.values); !cmp.Equal(got, again) {
				t.Fatalf("build is not idempotent: %v vs %v", got, again)
			}
		})
	}
}

func TestValidationMessages(t *testing.T) {
	reg := MustNew()

	report := validation.Validate(reg, field.Values{
		"cpu":   field.Between(8, 2),
		"mem":   field.Between(4, 16),
		"hosts": field.Strings{"1.1.1.1", "999.1.1.1", " 10.0.0.1 ", "abc"},
	})
	if report.Valid() {
		t.Fatalf("expected invalid report")
	}
	want := map[string]string{
		"cpu":   validation.DefaultRangeMessage,
		"hosts": "invalid IP format: 999.1.1.1,abc",
	}
	if diff := cmp.Diff(want, report.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalizedMessagesAndLabels(t *testing.T) {
	reg := MustNew(
		WithLabels(map[string]string{KeyHosts: "IP 地址"}),
		WithMessages(Messages{
			InvalidRange: "请输入合理的范围值",
			InvalidIPs: func(invalid []string) string {
				return "IP 格式错误:" + strings.Join(invalid, ",")
			},
		}),
	)

	hosts, _ := reg.Get(KeyHosts)
	if hosts.Label != "IP 地址" {
		t.Fatalf("label override not applied: %q", hosts.Label)
	}
	disk, _ := reg.Get(KeyDisk)
	if disk.Label != DefaultLabels[KeyDisk] {
		t.Fatalf("default label lost: %q", disk.Label)
	}

	res := validation.Check(hosts, field.Strings{"1.2.3"})
	if res.Valid || res.Message != "IP 格式错误:1.2.3" {
		t.Fatalf("unexpected hosts result: %#v", res)
	}
	res = validation.Check(disk, field.Between(500, 10))
	if res.Valid || res.Message != "请输入合理的范围值" {
		t.Fatalf("unexpected disk result: %#v", res)
	}
}

func TestBusinessNameResolution(t *testing.T) {
	bizs := lookup.Static([]field.Record{
		{"bk_biz_id": 3, "display_name": "Biz Three"},
		{"bk_biz_id": 5, "display_name": "Biz Five"},
	})
	reg := MustNew(WithService(KeyBusiness, bizs))
	desc, _ := reg.Get(KeyBusiness)

	records, err := desc.Lookup.Service(context.Background(), nil)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	for _, raw := range []field.Value{field.Number(5), field.String("5")} {
		name, ok := lookup.ResolveName(desc, raw, records)
		if !ok || name != "Biz Five" {
			t.Fatalf("resolve %#v: got %q (ok=%v)", raw, name, ok)
		}
	}
	if _, ok := lookup.ResolveName(desc, field.Number(9), records); ok {
		t.Fatalf("expected no match for unknown business")
	}
}
