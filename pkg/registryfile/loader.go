package registryfile

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/lookup"
	"github.com/goliatone/go-searchform/pkg/registry"
	"github.com/goliatone/go-searchform/pkg/validation"
	"github.com/goliatone/go-searchform/pkg/widgets"
)

// Validator names accepted in the validator attribute.
const (
	ValidatorIPv4List   = "ipv4_list"
	ValidatorRangeOrder = "range_order"
)

// ErrUnknownService is returned when a lookup references a service that was
// not registered with WithService.
var ErrUnknownService = errors.New("registryfile: unknown lookup service")

// Option customises loading.
type Option func(*loader)

// WithService registers a named lookup service referenced by lookup.service.
func WithService(name string, svc field.Service) Option {
	return func(l *loader) {
		if name = strings.TrimSpace(name); name != "" && svc != nil {
			l.services[name] = svc
		}
	}
}

// WithLogger sets the logger used to report loaded files.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *loader) {
		l.logger = logger
	}
}

// WithRegistryOptions forwards options to registry.New. When none are given
// widgets are resolved with the default widget registry.
func WithRegistryOptions(opts ...registry.Option) Option {
	return func(l *loader) {
		l.registryOpts = append(l.registryOpts, opts...)
	}
}

type loader struct {
	services     map[string]field.Service
	logger       zerolog.Logger
	registryOpts []registry.Option
	validate     *validator.Validate
}

type documentFile struct {
	Fields []fieldFile `json:"fields" yaml:"fields" validate:"dive"`
}

type fieldFile struct {
	Key       string        `json:"key" yaml:"key" validate:"required"`
	Label     string        `json:"label" yaml:"label"`
	Widget    string        `json:"widget" yaml:"widget"`
	Type      string        `json:"type" yaml:"type" validate:"required,oneof=number string array range"`
	Param     string        `json:"param" yaml:"param"`
	Flex      int           `json:"flex" yaml:"flex" validate:"gte=0"`
	Validator string        `json:"validator" yaml:"validator" validate:"omitempty,oneof=ipv4_list range_order"`
	Message   string        `json:"message" yaml:"message"`
	Lookup    *lookupFile   `json:"lookup" yaml:"lookup"`
	Related   []relatedFile `json:"related" yaml:"related" validate:"dive"`
}

type lookupFile struct {
	IDField   string           `json:"id_field" yaml:"id_field" validate:"required"`
	NameField string           `json:"name_field" yaml:"name_field" validate:"required"`
	Service   string           `json:"service" yaml:"service" validate:"required_without=Records"`
	Records   []map[string]any `json:"records" yaml:"records"`
}

type relatedFile struct {
	Name    string        `json:"name" yaml:"name" validate:"required"`
	Type    string        `json:"type" yaml:"type" validate:"required,oneof=number string array range"`
	Related []relatedFile `json:"related" yaml:"related" validate:"dive"`
}

// LoadFS walks fsys and builds a registry from every .yaml, .yml and .json
// file found. Duplicate keys across files are reported by registry.New.
func LoadFS(fsys fs.FS, opts ...Option) (*registry.Registry, error) {
	l := newLoader(opts)

	var descs []field.Descriptor
	if fsys != nil {
		err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() || !isRegistryFile(path) {
				return nil
			}
			loaded, err := l.loadFile(fsys, path)
			if err != nil {
				return err
			}
			descs = append(descs, loaded...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return l.registry(descs)
}

// LoadFile builds a registry from the single file name within fsys.
func LoadFile(fsys fs.FS, name string, opts ...Option) (*registry.Registry, error) {
	l := newLoader(opts)
	descs, err := l.loadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return l.registry(descs)
}

func newLoader(opts []Option) *loader {
	l := &loader{
		services: make(map[string]field.Service),
		logger:   zerolog.Nop(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if len(l.registryOpts) == 0 {
		l.registryOpts = []registry.Option{registry.WithWidgets(widgets.NewRegistry())}
	}
	return l
}

func (l *loader) registry(descs []field.Descriptor) (*registry.Registry, error) {
	reg, err := registry.New(descs, l.registryOpts...)
	if err != nil {
		return nil, fmt.Errorf("registryfile: %w", err)
	}
	return reg, nil
}

func (l *loader) loadFile(fsys fs.FS, path string) ([]field.Descriptor, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("registryfile: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("registryfile: file %s is empty", path)
	}

	var doc documentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("registryfile: parse %s: %w", path, err)
	}
	if err := l.validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("registryfile: file %s: %w", path, err)
	}

	descs := make([]field.Descriptor, 0, len(doc.Fields))
	for _, raw := range doc.Fields {
		desc, err := l.descriptor(raw)
		if err != nil {
			return nil, fmt.Errorf("registryfile: file %s field %q: %w", path, raw.Key, err)
		}
		descs = append(descs, desc)
	}
	l.logger.Debug().Str("file", path).Int("fields", len(descs)).Msg("registryfile: loaded fields")
	return descs, nil
}

func (l *loader) descriptor(raw fieldFile) (field.Descriptor, error) {
	desc := field.Descriptor{
		Key:     strings.TrimSpace(raw.Key),
		Label:   raw.Label,
		Widget:  raw.Widget,
		Type:    field.ValueType(raw.Type),
		Param:   strings.TrimSpace(raw.Param),
		Flex:    raw.Flex,
		Related: relatedFields(raw.Related),
	}

	switch raw.Validator {
	case ValidatorIPv4List:
		message := validation.DefaultIPv4Message
		if prefix := raw.Message; prefix != "" {
			message = func(invalid []string) string {
				return prefix + strings.Join(invalid, ",")
			}
		}
		desc.Validator = validation.IPv4List(message)
	case ValidatorRangeOrder:
		desc.Validator = validation.RangeOrder(raw.Message)
	}

	if raw.Lookup != nil {
		svc, err := l.service(raw.Lookup)
		if err != nil {
			return field.Descriptor{}, err
		}
		desc.Lookup = &field.Lookup{
			Service:   svc,
			IDField:   raw.Lookup.IDField,
			NameField: raw.Lookup.NameField,
		}
	}
	return desc, nil
}

func (l *loader) service(raw *lookupFile) (field.Service, error) {
	if name := strings.TrimSpace(raw.Service); name != "" {
		svc, ok := l.services[name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownService, name)
		}
		return svc, nil
	}
	records := make([]field.Record, 0, len(raw.Records))
	for _, record := range raw.Records {
		records = append(records, field.Record(record))
	}
	return lookup.Static(records), nil
}

func relatedFields(raw []relatedFile) []field.Related {
	if len(raw) == 0 {
		return nil
	}
	out := make([]field.Related, 0, len(raw))
	for _, entry := range raw {
		out = append(out, field.Related{
			Name:    strings.TrimSpace(entry.Name),
			Type:    field.ValueType(entry.Type),
			Related: relatedFields(entry.Related),
		})
	}
	return out
}

func isRegistryFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
