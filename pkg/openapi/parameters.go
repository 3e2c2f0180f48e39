package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/registry"
)

const (
	separatorExtension = "x-separator"
	formatExtension    = "x-format"
	lookupExtension    = "x-lookup"
	relatedExtension   = "x-related-to"
)

// Parameters returns one query parameter per field and related field in
// registry order. A name emitted by more than one field is listed once, at its
// first position.
//
// Fields with a custom formatter are described by the names that formatter
// emits for a sample value of the field's type, so a formatter that splits a
// range into "<key>_min" and "<key>_max" lists both. Formatters that emit
// nothing for the sample fall back to ParamName.
func Parameters(reg *registry.Registry) openapi3.Parameters {
	var params openapi3.Parameters
	seen := make(map[string]struct{})
	for _, desc := range reg.Entries() {
		for _, name := range emittedNames(desc.Format, desc.ParamName(), desc.Type) {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			param := newParameter(name, desc.Label, desc.Type)
			if desc.Lookup != nil {
				param.Schema.Value.Extensions[lookupExtension] = map[string]string{
					"id_field":   desc.Lookup.IDField,
					"name_field": desc.Lookup.NameField,
				}
			}
			params = append(params, &openapi3.ParameterRef{Value: param})
		}

		desc.WalkRelated(func(rel field.Related) {
			for _, name := range emittedNames(rel.Format, rel.Name, rel.Type) {
				if _, dup := seen[name]; dup {
					continue
				}
				seen[name] = struct{}{}
				related := newParameter(name, desc.Label, rel.Type)
				related.Schema.Value.Extensions[relatedExtension] = desc.Key
				params = append(params, &openapi3.ParameterRef{Value: related})
			}
		})
	}
	return params
}

// emittedNames lists the parameter names format produces, sorted. A nil
// format emits fallback.
func emittedNames(format field.Formatter, fallback string, t field.ValueType) []string {
	if format == nil {
		return []string{fallback}
	}
	sample := sampleValue(t)
	if sample == nil {
		return []string{fallback}
	}
	emitted := format(sample)
	if len(emitted) == 0 {
		return []string{fallback}
	}
	names := make([]string, 0, len(emitted))
	for name := range emitted {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sampleValue(t field.ValueType) field.Value {
	switch t {
	case field.TypeNumber:
		return field.Number(1)
	case field.TypeString:
		return field.String("sample")
	case field.TypeArray:
		return field.Strings{"sample"}
	case field.TypeRange:
		return field.Between(1, 2)
	default:
		return nil
	}
}

// Operation wraps Parameters into a GET operation.
func Operation(reg *registry.Registry, operationID, summary string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = operationID
	op.Summary = summary
	op.Parameters = Parameters(reg)
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("search results"),
		}),
	)
	return op
}

// DocumentOptions names the generated document and endpoint.
type DocumentOptions struct {
	Title       string
	Version     string
	Path        string
	OperationID string
	Summary     string
}

func (o DocumentOptions) withDefaults() DocumentOptions {
	if strings.TrimSpace(o.Title) == "" {
		o.Title = "search"
	}
	if strings.TrimSpace(o.Version) == "" {
		o.Version = "1.0.0"
	}
	if strings.TrimSpace(o.Path) == "" {
		o.Path = "/search"
	}
	if strings.TrimSpace(o.OperationID) == "" {
		o.OperationID = "search"
	}
	return o
}

// Document builds and validates a minimal OpenAPI document exposing the
// search operation.
func Document(ctx context.Context, reg *registry.Registry, opts DocumentOptions) (*openapi3.T, error) {
	opts = opts.withDefaults()
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   opts.Title,
			Version: opts.Version,
		},
		Paths: openapi3.NewPaths(),
	}
	doc.AddOperation(opts.Path, "GET", Operation(reg, opts.OperationID, opts.Summary))

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

// MarshalYAML renders doc as YAML by way of its JSON form, which keeps the
// extension fields kin-openapi emits.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal document: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("openapi: decode document: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode yaml: %w", err)
	}
	return out, nil
}

func newParameter(name, label string, t field.ValueType) *openapi3.Parameter {
	param := openapi3.NewQueryParameter(name).WithSchema(schemaFor(t))
	if label != "" {
		param.Description = label
	}
	return param
}

func schemaFor(t field.ValueType) *openapi3.Schema {
	var schema *openapi3.Schema
	switch t {
	case field.TypeNumber:
		schema = openapi3.NewFloat64Schema()
	case field.TypeArray:
		schema = openapi3.NewStringSchema()
		schema.Extensions = map[string]any{separatorExtension: ","}
	case field.TypeRange:
		schema = openapi3.NewStringSchema()
		schema.Extensions = map[string]any{formatExtension: "min-max"}
	default:
		schema = openapi3.NewStringSchema()
	}
	if schema.Extensions == nil {
		schema.Extensions = map[string]any{}
	}
	return schema
}
