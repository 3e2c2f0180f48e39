package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is reported when two descriptors share a key.
	ErrDuplicateKey = errors.New("duplicate field key")
	// ErrInvalidDescriptor is reported for descriptors that cannot be served,
	// such as blank keys or unknown value types.
	ErrInvalidDescriptor = errors.New("invalid field descriptor")
)

// ConfigError describes a registry configuration mistake. These are startup
// errors; a registry is never built from an invalid configuration.
type ConfigError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("registry: field %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("registry: field %q: %v: %s", e.Key, e.Err, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
