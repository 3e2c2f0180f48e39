// Package prompt asks for search values interactively, one question per
// registered field in display order.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/lookup"
	"github.com/goliatone/go-searchform/pkg/registry"
	"github.com/goliatone/go-searchform/pkg/validation"
)

const skipOption = "(any)"

// Form drives a Driver over a registry.
type Form struct {
	driver Driver
	logger zerolog.Logger
}

// New constructs a Form.
func New(driver Driver, logger zerolog.Logger) *Form {
	return &Form{driver: driver, logger: logger}
}

// Ask prompts for every field of reg. Lookup fields with candidate records
// become select prompts; everything else is free text parsed according to the
// field's value type and checked by its validator before it is accepted.
// Blank answers leave the field unset.
func (f *Form) Ask(ctx context.Context, reg *registry.Registry, records map[string][]field.Record) (field.Values, error) {
	values := field.Values{}
	for _, desc := range reg.Entries() {
		value, err := f.askField(ctx, desc, records[desc.Key])
		if err != nil {
			return nil, fmt.Errorf("prompt: %s: %w", desc.Key, err)
		}
		if !field.IsEmpty(value) {
			values[desc.Key] = value
		}

		var relatedErr error
		desc.WalkRelated(func(rel field.Related) {
			if relatedErr != nil {
				return
			}
			related := field.Descriptor{Key: rel.Name, Label: desc.Label + " / " + rel.Name, Type: rel.Type}
			value, err := f.askText(ctx, related)
			if err != nil {
				relatedErr = fmt.Errorf("prompt: %s: %w", rel.Name, err)
				return
			}
			if !field.IsEmpty(value) {
				values[rel.Name] = value
			}
		})
		if relatedErr != nil {
			return nil, relatedErr
		}
	}
	return values, nil
}

func (f *Form) askField(ctx context.Context, desc field.Descriptor, records []field.Record) (field.Value, error) {
	choices := lookup.Choices(desc, records)
	if len(choices) == 0 {
		return f.askText(ctx, desc)
	}
	options := make([]string, 0, len(choices))
	for _, choice := range choices {
		options = append(options, choiceOption(choice))
	}

	if desc.Type == field.TypeArray {
		picked, err := f.driver.MultiSelect(ctx, SelectConfig{Message: message(desc), Options: options})
		if err != nil {
			return nil, err
		}
		if len(picked) == 0 {
			return nil, nil
		}
		ids := make(field.Strings, 0, len(picked))
		for _, idx := range picked {
			ids = append(ids, choices[idx].ID)
		}
		return ids, nil
	}

	options = append([]string{skipOption}, options...)
	idx, err := f.driver.Select(ctx, SelectConfig{Message: message(desc), Options: options})
	if err != nil {
		return nil, err
	}
	if idx <= 0 {
		return nil, nil
	}
	value, err := field.Parse(desc.Type, choices[idx-1].ID)
	if err != nil {
		f.logger.Debug().Err(err).Str("field", desc.Key).Msg("prompt: lookup id does not fit field type")
		return nil, nil
	}
	return value, nil
}

func (f *Form) askText(ctx context.Context, desc field.Descriptor) (field.Value, error) {
	answer, err := f.driver.Input(ctx, InputConfig{
		Message:   message(desc),
		Help:      help(desc.Type),
		Validator: answerValidator(desc),
	})
	if err != nil {
		return nil, err
	}
	return field.Parse(desc.Type, answer)
}

func answerValidator(desc field.Descriptor) func(string) error {
	return func(answer string) error {
		value, err := field.Parse(desc.Type, answer)
		if err != nil {
			return err
		}
		if res := validation.Check(desc, value); !res.Valid {
			return errors.New(res.Message)
		}
		return nil
	}
}

func choiceOption(choice lookup.Choice) string {
	if choice.Label == choice.ID {
		return choice.ID
	}
	return fmt.Sprintf("%s (%s)", choice.Label, choice.ID)
}

func message(desc field.Descriptor) string {
	if desc.Label != "" {
		return desc.Label
	}
	return desc.Key
}

func help(t field.ValueType) string {
	switch t {
	case field.TypeArray:
		return "separate values with commas or spaces"
	case field.TypeRange:
		return "min-max; either bound may be left blank"
	case field.TypeNumber:
		return "a number"
	default:
		return ""
	}
}
