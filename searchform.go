// Package searchform wires the field registry, validation, query building and
// lookup name resolution of a structured search form behind a single Form.
//
// The lower-level packages under pkg/ stay usable on their own; Form only
// fixes the order in which they run: validate, then build.
package searchform

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-searchform/pkg/chips"
	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/lookup"
	"github.com/goliatone/go-searchform/pkg/query"
	"github.com/goliatone/go-searchform/pkg/registry"
	"github.com/goliatone/go-searchform/pkg/validation"
)

// Values aliases field.Values for callers that only import the root package.
type Values = field.Values

// Params aliases field.Params.
type Params = field.Params

// Report aliases validation.Report.
type Report = validation.Report

// Option customises a Form.
type Option func(*Form)

// WithLogger sets the logger handed to the query builder and lookup fetcher.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

// WithFetcher injects a preconfigured lookup fetcher.
func WithFetcher(fetcher *lookup.Fetcher) Option {
	return func(f *Form) {
		f.fetcher = fetcher
	}
}

// Form binds a registry to the components that act on its values. It keeps
// no per-submission state and is safe for concurrent use.
type Form struct {
	registry *registry.Registry
	logger   zerolog.Logger
	builder  *query.Builder
	fetcher  *lookup.Fetcher
}

// New constructs a Form for reg.
func New(reg *registry.Registry, options ...Option) *Form {
	f := &Form{
		registry: reg,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	f.builder = query.New(query.WithLogger(f.logger))
	if f.fetcher == nil {
		f.fetcher = lookup.NewFetcher(lookup.WithLogger(f.logger))
	}
	return f
}

// Registry returns the bound registry.
func (f *Form) Registry() *registry.Registry {
	return f.registry
}

// Validate runs every field validator.
func (f *Form) Validate(values Values) Report {
	return validation.Validate(f.registry, values)
}

// Build formats values without validating them.
func (f *Form) Build(values Values) Params {
	return f.builder.Build(f.registry, values)
}

// Submit validates values and, when every field passes, builds the query
// parameters. On failure the returned error aggregates one
// *validation.FieldError per failed field and no parameters are produced.
func (f *Form) Submit(values Values) (Params, error) {
	if err := f.Validate(values).Err(); err != nil {
		f.logger.Debug().Err(err).Msg("searchform: submission rejected")
		return nil, err
	}
	return f.Build(values), nil
}

// Lookups fetches the candidate records of every lookup field. queries may
// be nil.
func (f *Form) Lookups(ctx context.Context, queries map[string]field.Query) map[string][]field.Record {
	return f.fetcher.FetchAll(ctx, f.registry, queries)
}

// Chips fetches lookup records and returns the selected-value chips of values
// with resolved display labels.
func (f *Form) Chips(ctx context.Context, values Values) []chips.Chip {
	if len(values) == 0 {
		return nil
	}
	return chips.Build(f.registry, values, f.Lookups(ctx, nil))
}

// Submit is a shorthand for New(reg).Submit(values).
func Submit(reg *registry.Registry, values Values) (Params, error) {
	return New(reg).Submit(values)
}
