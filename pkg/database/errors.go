package database

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks a failed datastore call, as opposed to a row that was
// legitimately not found. Callers match it with errors.Is.
var ErrUnavailable = errors.New("datastore unavailable")

// WrapError tags a raw driver error with ErrUnavailable and the failed operation
func WrapError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
