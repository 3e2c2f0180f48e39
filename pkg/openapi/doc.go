// Package openapi describes a registry's query parameters as an OpenAPI 3
// document so the search endpoint contract can be published alongside the
// form. Each emitted parameter becomes an optional `in: query` parameter whose
// schema follows the field's value type; list and range encodings are noted
// with x-separator and x-format extensions.
package openapi
