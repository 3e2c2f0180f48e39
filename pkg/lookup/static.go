package lookup

import (
	"context"
	"maps"

	"github.com/goliatone/go-searchform/pkg/field"
)

// Static serves a fixed record set. Query entries filter records by loose
// equality on the named attribute; an empty query returns every record.
func Static(records []field.Record) field.Service {
	snapshot := cloneRecords(records)
	return func(ctx context.Context, query field.Query) ([]field.Record, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := make([]field.Record, 0, len(snapshot))
		for _, record := range snapshot {
			if matches(record, query) {
				out = append(out, maps.Clone(record))
			}
		}
		return out, nil
	}
}

func matches(record field.Record, query field.Query) bool {
	for key, want := range query {
		got, ok := record[key]
		if !ok || !LooseEqual(got, want) {
			return false
		}
	}
	return true
}
