package registry

import (
	"strings"

	"github.com/goliatone/go-searchform/pkg/field"
)

// WidgetResolver assigns a widget kind to descriptors that omit one. The
// widgets package provides the default implementation.
type WidgetResolver interface {
	Resolve(desc field.Descriptor) (string, bool)
}

// Option customises registry construction.
type Option func(*options)

type options struct {
	widgets WidgetResolver
}

// WithWidgets fills missing Widget values using resolver.
func WithWidgets(resolver WidgetResolver) Option {
	return func(o *options) {
		o.widgets = resolver
	}
}

// Registry is an ordered, read-only set of descriptors keyed by field
// identifier. It is built once at startup and safe for concurrent use.
type Registry struct {
	order []string
	byKey map[string]field.Descriptor
}

// New validates descs and builds a registry preserving their order. Duplicate
// keys, blank keys and unknown value types are reported as *ConfigError.
func New(descs []field.Descriptor, opts ...Option) (*Registry, error) {
	cfg := options{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reg := &Registry{
		order: make([]string, 0, len(descs)),
		byKey: make(map[string]field.Descriptor, len(descs)),
	}
	for _, desc := range descs {
		desc.Key = strings.TrimSpace(desc.Key)
		if err := validateDescriptor(desc); err != nil {
			return nil, err
		}
		if _, exists := reg.byKey[desc.Key]; exists {
			return nil, &ConfigError{Key: desc.Key, Err: ErrDuplicateKey}
		}
		if cfg.widgets != nil && strings.TrimSpace(desc.Widget) == "" {
			if widget, ok := cfg.widgets.Resolve(desc); ok {
				desc.Widget = widget
			}
		}
		reg.order = append(reg.order, desc.Key)
		reg.byKey[desc.Key] = desc
	}
	return reg, nil
}

// MustNew is New for package-level registries; configuration errors panic.
func MustNew(descs []field.Descriptor, opts ...Option) *Registry {
	reg, err := New(descs, opts...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Get returns the descriptor registered under key.
func (r *Registry) Get(key string) (field.Descriptor, bool) {
	if r == nil {
		return field.Descriptor{}, false
	}
	desc, ok := r.byKey[key]
	return desc, ok
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Entries returns the descriptors in registration order.
func (r *Registry) Entries() []field.Descriptor {
	if r == nil {
		return nil
	}
	out := make([]field.Descriptor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}

// Keys returns the field keys in registration order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Lookups returns the descriptors that declare a lookup service, in order.
func (r *Registry) Lookups() []field.Descriptor {
	var out []field.Descriptor
	for _, desc := range r.Entries() {
		if desc.HasLookup() {
			out = append(out, desc)
		}
	}
	return out
}

func validateDescriptor(desc field.Descriptor) error {
	if desc.Key == "" {
		return &ConfigError{Key: desc.Key, Err: ErrInvalidDescriptor, Reason: "key is required"}
	}
	if !desc.Type.Valid() {
		return &ConfigError{Key: desc.Key, Err: ErrInvalidDescriptor, Reason: "unknown value type " + string(desc.Type)}
	}
	if desc.Lookup != nil && (desc.Lookup.IDField == "" || desc.Lookup.NameField == "") {
		return &ConfigError{Key: desc.Key, Err: ErrInvalidDescriptor, Reason: "lookup requires id and name fields"}
	}
	return validateRelated(desc.Key, desc.Related)
}

func validateRelated(key string, related []field.Related) error {
	for _, entry := range related {
		if strings.TrimSpace(entry.Name) == "" {
			return &ConfigError{Key: key, Err: ErrInvalidDescriptor, Reason: "related field name is required"}
		}
		if !entry.Type.Valid() {
			return &ConfigError{Key: key, Err: ErrInvalidDescriptor, Reason: "related field " + entry.Name + " has unknown value type " + string(entry.Type)}
		}
		if err := validateRelated(key, entry.Related); err != nil {
			return err
		}
	}
	return nil
}
