package field

import "context"

// Validator checks a non-empty value. A nil error means the value is valid;
// otherwise the error message is shown to the user as-is.
type Validator func(v Value) error

// Record is one entry returned by a lookup service.
type Record map[string]any

// Query carries the arguments passed to a lookup service.
type Query map[string]any

// Service fetches candidate records for a field. Implementations live outside
// this module (REST clients, static tables, caches).
type Service func(ctx context.Context, query Query) ([]Record, error)

// Lookup advertises that a field's candidate values come from a remote
// service. IDField and NameField name the record attributes holding the
// identifier compared against stored values and the display label.
type Lookup struct {
	Service   Service
	IDField   string
	NameField string
}

// ID returns the identifying attribute of record.
func (l *Lookup) ID(record Record) (any, bool) {
	if l == nil || record == nil {
		return nil, false
	}
	value, ok := record[l.IDField]
	return value, ok
}

// Name returns the display attribute of record.
func (l *Lookup) Name(record Record) (any, bool) {
	if l == nil || record == nil {
		return nil, false
	}
	value, ok := record[l.NameField]
	return value, ok
}

// Related is a secondary value formatted and merged alongside its parent. Its
// value is read from Values under Name, never nested under the parent key.
// Related fields may declare further related fields.
type Related struct {
	Name    string
	Type    ValueType
	Format  Formatter
	Related []Related
}

// Formatter returns the related field's formatter, falling back to Param.
func (r Related) Formatter() Formatter {
	if r.Format != nil {
		return r.Format
	}
	return Param(r.Name, r.Type)
}

// Descriptor describes one searchable attribute.
type Descriptor struct {
	Key    string
	Label  string
	Widget string
	Type   ValueType
	// Param overrides the emitted parameter name; defaults to Key.
	Param string
	// Flex is a layout hint passed through untouched; zero means unset.
	Flex      int
	Lookup    *Lookup
	Validator Validator
	// Format replaces the default Param formatter. API descriptions list the
	// names it emits for a sample value, so it should emit the same names for
	// every non-empty value.
	Format  Formatter
	Related []Related
}

// ParamName returns the parameter name emitted by the default formatter.
func (d Descriptor) ParamName() string {
	if d.Param != "" {
		return d.Param
	}
	return d.Key
}

// Formatter returns the descriptor's formatter, falling back to Param.
func (d Descriptor) Formatter() Formatter {
	if d.Format != nil {
		return d.Format
	}
	return Param(d.ParamName(), d.Type)
}

// HasLookup reports whether candidate values are fetched remotely.
func (d Descriptor) HasLookup() bool {
	return d.Lookup != nil
}

// WalkRelated visits every related field depth-first in declaration order.
func (d Descriptor) WalkRelated(fn func(Related)) {
	walkRelated(d.Related, fn)
}

func walkRelated(related []Related, fn func(Related)) {
	for _, entry := range related {
		fn(entry)
		walkRelated(entry.Related, fn)
	}
}
