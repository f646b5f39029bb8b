package task

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references a task id that does
// not exist in the store.
var ErrNotFound = errors.New("task not found")

// ValidationError reports malformed input to a store operation: an empty
// title, an unrecognized status or priority, or an invalid due date.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
