package dynamo

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAxis = errors.New("dynamo: unknown operating axis")

	ErrUnknownControl = errors.New("dynamo: unknown control")

	ErrUnknownAction = errors.New("dynamo: unknown scenario action")

	// ErrInvalidConfig indicates a configuration value outside its usable range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")
)

// ConfigError ties a configuration failure to the offending field.
type ConfigError struct {
	Field   string
	Wrapped error
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Wrapped.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

// InvalidField returns a ConfigError for field wrapping ErrInvalidConfig.
func InvalidField(field, format string, args ...interface{}) error {
	return &ConfigError{
		Field:   field,
		Wrapped: fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidConfig}, args...)...),
	}
}
