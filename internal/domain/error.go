package domain

import (
	"errors"
	"fmt"
)

var (
	// Flow outcomes the page reacts to
	ErrInvalidName = errors.New("invalid name")
	ErrInvalidCode = errors.New("invalid code")
	ErrDeclined    = errors.New("key service declined the request")

	ErrElementNotFound = errors.New("element not found")
	ErrNotFound        = errors.New("entity not found")
)

// StatusError reports a non-2xx answer from the key service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("key service http %d", e.Code)
}
