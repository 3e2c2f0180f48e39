package hostsearch

import (
	"path/filepath"
	"testing"

	"github.com/goliatone/go-searchform/pkg/query"
	"github.com/goliatone/go-searchform/pkg/testsupport"
	"github.com/goliatone/go-searchform/pkg/validation"
)

func TestBuildAllFieldsGolden(t *testing.T) {
	reg := MustNew()
	values := testsupport.ParseValues(t, reg, map[string]string{
		"for_biz":       "5",
		"resource_type": "mysql",
		"hosts":         "1.1.1.1, 2.2.2.2",
		"agent_status":  "1",
		"city":          "SZ",
		"subzone_ids":   "1 2",
		"device_class":  "SA2",
		"os_type":       "linux",
		"mount_point":   "/data",
		"cpu":           "2-8",
		"mem":           "4-",
		"disk":          "-500",
		"disk_type":     "SSD",
		"spec_id":       "12",
		"bk_cloud_ids":  "0,3",
	})

	if report := validation.Validate(reg, values); !report.Valid() {
		t.Fatalf("expected valid input, got %v", report.Messages())
	}

	got := query.Build(reg, values)
	path := filepath.Join("testdata", "all_fields.golden.json")
	testsupport.WriteGolden(t, path, got)

	want := testsupport.MustLoadParams(t, path)
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}
