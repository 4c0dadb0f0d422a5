package sqlast

import "fmt"

// UnsupportedError indicates a feature not supported by the dialect.
type UnsupportedError struct {
	Feature string
	Dialect string
	Hint    string
}

func (e UnsupportedError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Dialect, e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Feature)
}

// Unsupported creates a new unsupported feature error.
func Unsupported(dialect, feature string, hint ...string) error {
	err := UnsupportedError{Feature: feature, Dialect: dialect}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}

// ConversionError indicates a value that cannot be represented in the
// target dialect.
type ConversionError struct {
	Message string
}

func (e ConversionError) Error() string {
	return e.Message
}
