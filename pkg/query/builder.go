// Package query turns user-entered form values into the flattened parameter
// mapping handed to a search endpoint.
package query

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/registry"
)

// Option customises a Builder.
type Option func(*Builder)

// WithLogger attaches a logger used for debug diagnostics (parameter
// collisions and values whose variant does not match the declared type).
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// Builder produces query parameters from a registry and a set of values. It
// holds no per-call state and is safe for concurrent use.
type Builder struct {
	logger zerolog.Logger
}

// New constructs a Builder.
func New(options ...Option) *Builder {
	b := &Builder{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

var defaultBuilder = New()

// Build is a shorthand for New().Build.
func Build(reg *registry.Registry, values field.Values) field.Params {
	return defaultBuilder.Build(reg, values)
}

// Build walks reg in registration order and merges the formatted parameters
// of every non-empty value, including related fields looked up by their own
// name. Later entries overwrite earlier ones when two fields emit the same
// parameter. Build does not validate; callers that must reject invalid input
// should run validation first.
func (b *Builder) Build(reg *registry.Registry, values field.Values) field.Params {
	out := field.Params{}
	for _, desc := range reg.Entries() {
		b.emit(out, desc.Key, desc.Type, desc.Formatter(), values.Get(desc.Key))
		b.emitRelated(out, desc.Related, values)
	}
	return out
}

func (b *Builder) emitRelated(out field.Params, related []field.Related, values field.Values) {
	for _, entry := range related {
		b.emit(out, entry.Name, entry.Type, entry.Formatter(), values.Get(entry.Name))
		b.emitRelated(out, entry.Related, values)
	}
}

func (b *Builder) emit(out field.Params, name string, declared field.ValueType, format field.Formatter, value field.Value) {
	if field.IsEmpty(value) {
		return
	}
	if value.Type() != declared {
		b.logger.Debug().
			Str("field", name).
			Str("declared", string(declared)).
			Str("got", string(value.Type())).
			Msg("query: skipping value with mismatched type")
		return
	}
	for param, text := range format(value) {
		if previous, exists := out[param]; exists && previous != text {
			b.logger.Debug().
				Str("field", name).
				Str("param", param).
				Msg("query: parameter overwritten by later field")
		}
		out[param] = text
	}
}
