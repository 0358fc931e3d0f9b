package models

import (
	"errors"
	"fmt"
)

var ErrWorkerNotFound = errors.New("worker not found")
var (
	ErrInvalidFilterValue = errors.New("models: invalid filter value")
	ErrUnsupportedStorage = errors.New("models: unsupported storage driver")
	ErrForbidden          = errors.New("models: forbidden")
)

// FilterError reports a discovery filter value that could not be used.
type FilterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FilterError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid filter %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid filter %s=%q: %s", e.Field, e.Value, e.Reason)
}

func (e *FilterError) Unwrap() error {
	return ErrInvalidFilterValue
}
