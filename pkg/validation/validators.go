package validation

import (
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-searchform/pkg/field"
)

// Default messages used when callers do not supply localized ones.
const (
	DefaultRangeMessage = "please enter a valid range"
	defaultIPv4Prefix   = "invalid IP format: "
	defaultListPrefix   = "invalid values: "
)

// ListMessage renders the message for the offending elements of a list.
type ListMessage func(invalid []string) string

// DefaultIPv4Message lists the offending entries joined by a comma.
func DefaultIPv4Message(invalid []string) string {
	return defaultIPv4Prefix + strings.Join(invalid, ",")
}

var (
	tagValidatorOnce sync.Once
	tagValidator     *validator.Validate
)

func tags() *validator.Validate {
	tagValidatorOnce.Do(func() {
		tagValidator = validator.New()
	})
	return tagValidator
}

// DefaultListMessage is the fallback for Each.
func DefaultListMessage(invalid []string) string {
	return defaultListPrefix + strings.Join(invalid, ",")
}

// RangeOrder rejects ranges whose lower bound exceeds the upper bound. Ranges
// missing either bound are open ended and always pass.
func RangeOrder(message string) field.Validator {
	if strings.TrimSpace(message) == "" {
		message = DefaultRangeMessage
	}
	return func(v field.Value) error {
		r, ok := v.(field.Range)
		if !ok {
			return nil
		}
		if !finite(r.Min) || !finite(r.Max) {
			return errors.New(message)
		}
		if !r.Min.Set || !r.Max.Set {
			return nil
		}
		if r.Min.Value > r.Max.Value {
			return errors.New(message)
		}
		return nil
	}
}

func finite(b field.Bound) bool {
	return !b.Set || !(math.IsNaN(b.Value) || math.IsInf(b.Value, 0))
}

// IPv4List checks every element of a list value (after trimming) is an IPv4
// address. All offenders are reported together so the user can fix them in
// one pass.
func IPv4List(message ListMessage) field.Validator {
	if message == nil {
		message = DefaultIPv4Message
	}
	return Each("ipv4", message)
}

// Each checks every element of a list value against a go-playground/validator
// tag such as "ipv4" or "hostname_rfc1123".
func Each(tag string, message ListMessage) field.Validator {
	if message == nil {
		message = DefaultListMessage
	}
	return func(v field.Value) error {
		list, ok := v.(field.Strings)
		if !ok {
			return nil
		}
		var invalid []string
		for _, item := range list {
			if err := tags().Var(strings.TrimSpace(item), tag); err != nil {
				invalid = append(invalid, item)
			}
		}
		if len(invalid) == 0 {
			return nil
		}
		return errors.New(message(invalid))
	}
}

// Chain runs validators in order and returns the first failure.
func Chain(validators ...field.Validator) field.Validator {
	return func(v field.Value) error {
		for _, fn := range validators {
			if fn == nil {
				continue
			}
			if err := fn(v); err != nil {
				return err
			}
		}
		return nil
	}
}
