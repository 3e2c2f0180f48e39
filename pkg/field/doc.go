// Package field defines the building blocks of a search form registry: the
// closed set of value types (number, string, array of strings and numeric
// ranges), the sealed Value variants carrying user input, the emptiness rule
// that decides whether a value contributes to a query, and the Descriptor
// describing one searchable attribute. Descriptors pair a value type with a
// Formatter that turns a value into query parameters, an optional Validator,
// an optional remote Lookup used to resolve display names, and related fields
// whose values are formatted alongside the parent. Descriptors are plain data;
// the registry package owns ordering and uniqueness.
package field
