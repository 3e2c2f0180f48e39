// Package lookup maps stored raw values back to display labels using the
// records returned by a field's lookup service, and offers a Fetcher that
// calls those services on behalf of form renderers.
//
// Name resolution compares identifiers loosely: numbers and their string
// forms are equal, so a business id typed as "5" in the UI matches the
// integer 5 returned by the service. Fetching absorbs service failures: a
// failed or short-circuited lookup yields an empty record set and a log line,
// never an error, so the resolver is only ever handed materialised results.
package lookup
