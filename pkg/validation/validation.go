// Package validation runs descriptor validators against form values and
// aggregates the outcome. Empty values are always valid; required-field
// checks are outside the descriptor model.
package validation

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/registry"
)

// Result is the outcome of validating one field.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Issue is an invalid field with its user-facing message.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldError reports a failed field validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Report holds one Result per field that declares a validator.
type Report struct {
	Results map[string]Result `json:"results"`
	order   []string
}

// Valid reports whether every validated field passed. The form may only be
// submitted when this is true.
func (r Report) Valid() bool {
	for _, result := range r.Results {
		if !result.Valid {
			return false
		}
	}
	return true
}

// Issues lists the failed fields in registry order.
func (r Report) Issues() []Issue {
	var issues []Issue
	for _, key := range r.order {
		result := r.Results[key]
		if result.Valid {
			continue
		}
		issues = append(issues, Issue{Field: key, Message: result.Message})
	}
	return issues
}

// Messages maps failed field keys to their messages.
func (r Report) Messages() map[string]string {
	out := make(map[string]string)
	for key, result := range r.Results {
		if !result.Valid {
			out[key] = result.Message
		}
	}
	return out
}

// Err aggregates every failure into a single error, or returns nil when the
// report is valid. Individual failures unwrap to *FieldError.
func (r Report) Err() error {
	var errs *multierror.Error
	for _, issue := range r.Issues() {
		errs = multierror.Append(errs, &FieldError{Field: issue.Field, Message: issue.Message})
	}
	return errs.ErrorOrNil()
}

// Validate runs the validator of every descriptor that declares one. Fields
// are validated independently; one failure never stops the others.
func Validate(reg *registry.Registry, values field.Values) Report {
	report := Report{Results: make(map[string]Result)}
	for _, desc := range reg.Entries() {
		if desc.Validator == nil {
			continue
		}
		report.Results[desc.Key] = Check(desc, values.Get(desc.Key))
		report.order = append(report.order, desc.Key)
	}
	return report
}

// ValidateField re-validates a single field, typically after the user edits
// it. The boolean is false when key is unknown or has no validator.
func ValidateField(reg *registry.Registry, key string, values field.Values) (Result, bool) {
	desc, ok := reg.Get(key)
	if !ok || desc.Validator == nil {
		return Result{}, false
	}
	return Check(desc, values.Get(key)), true
}

// Check validates value against desc. Empty values skip the validator.
func Check(desc field.Descriptor, value field.Value) Result {
	if desc.Validator == nil || field.IsEmpty(value) {
		return Result{Valid: true}
	}
	if err := desc.Validator(value); err != nil {
		return Result{Valid: false, Message: err.Error()}
	}
	return Result{Valid: true}
}
