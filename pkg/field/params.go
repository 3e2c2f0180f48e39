package field

import (
	"net/url"
	"sort"
)

// Params is the flattened parameter mapping sent to a search endpoint.
type Params map[string]string

// Merge copies other into p. Later writes win on key collisions.
func (p Params) Merge(other Params) {
	for key, value := range other {
		p[key] = value
	}
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Values converts the mapping into url.Values for query-string encoding.
func (p Params) Values() url.Values {
	out := make(url.Values, len(p))
	for key, value := range p {
		out.Set(key, value)
	}
	return out
}

// Encode renders the parameters as a URL query string sorted by key.
func (p Params) Encode() string {
	return p.Values().Encode()
}

// Formatter turns a value into query parameters. Formatters are total: they
// return an empty mapping for empty values (and for values whose variant does
// not match the declared type) and never panic.
type Formatter func(v Value) Params

// Param returns the default formatter for a parameter named name holding
// values of type t. Numbers and strings are emitted unchanged, lists are
// comma-joined and ranges are rendered as "<min>-<max>".
func Param(name string, t ValueType) Formatter {
	return func(v Value) Params {
		if IsEmpty(v) || v.Type() != t {
			return Params{}
		}
		return Params{name: v.String()}
	}
}
