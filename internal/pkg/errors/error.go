package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAuthorization       = errors.New("admin identity required")
	ErrValidation          = errors.New("invalid input")
	ErrUpstreamUnavailable = errors.New("upstream store unavailable")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInternal            = errors.New("internal server error")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Validationf builds a validation error naming the offending field.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
