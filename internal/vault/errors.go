package vault

import (
	"errors"
	"fmt"
)

// ErrValidation matches every argument error raised before a vault call is attempted.
var ErrValidation = errors.New("invalid argument")

// ValidationError names the offending argument. Err carries the underlying parse failure, if any.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + " " + e.Msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
