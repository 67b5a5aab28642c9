package components

import (
	"errors"
	"fmt"
)

// ErrUnknownType is matched by every UnknownTypeError via errors.Is.
var ErrUnknownType = errors.New("components: unknown field type")

// UnknownTypeError is returned when a type identifier is not registered.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("components: unknown field type %q", e.Type)
}

// Is allows errors.Is(err, ErrUnknownType).
func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}
