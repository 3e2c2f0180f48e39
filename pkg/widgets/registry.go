package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-searchform/pkg/field"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText        = "text-input"
	WidgetNumber      = "number-input"
	WidgetTags        = "tag-input"
	WidgetRange       = "range-input"
	WidgetSelect      = "select"
	WidgetMultiSelect = "multi-select"
)

// Matcher decides whether a widget should render the supplied descriptor.
type Matcher func(desc field.Descriptor) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widget kinds for descriptors that do not name one. Higher
// priority wins; ties fall back to registration order. An empty registry
// never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence. Callers should avoid duplicate names; the
// latest registration wins during resolution.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget kind for a descriptor. An explicit Widget on the
// descriptor is honoured before matcher evaluation.
func (r *Registry) Resolve(desc field.Descriptor) (string, bool) {
	if explicit := strings.TrimSpace(desc.Widget); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(desc) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate returns a copy of descs with Widget filled in wherever the
// registry resolves one. Existing values are preserved.
func (r *Registry) Decorate(descs []field.Descriptor) []field.Descriptor {
	if len(descs) == 0 {
		return descs
	}
	decorated := make([]field.Descriptor, len(descs))
	for idx, desc := range descs {
		if widget, ok := r.Resolve(desc); ok {
			desc.Widget = widget
		}
		decorated[idx] = desc
	}
	return decorated
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetMultiSelect, 90, func(desc field.Descriptor) bool {
		return desc.HasLookup() && desc.Type == field.TypeArray
	})

	r.Register(WidgetSelect, 80, func(desc field.Descriptor) bool {
		return desc.HasLookup()
	})

	r.Register(WidgetTags, 70, func(desc field.Descriptor) bool {
		return desc.Type == field.TypeArray
	})

	r.Register(WidgetRange, 60, func(desc field.Descriptor) bool {
		return desc.Type == field.TypeRange
	})

	r.Register(WidgetNumber, 50, func(desc field.Descriptor) bool {
		return desc.Type == field.TypeNumber
	})

	r.Register(WidgetText, 40, func(desc field.Descriptor) bool {
		return desc.Type == field.TypeString
	})
}
