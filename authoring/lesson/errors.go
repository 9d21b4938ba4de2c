package lesson

import (
	"fmt"
	"strings"
)

// MissingFieldError reports a required field left empty for the active kind.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("lesson: missing required field %q", e.Field)
}

// ConflictingFieldsError reports mutually exclusive fields set together.
type ConflictingFieldsError struct {
	Fields []string
}

func (e *ConflictingFieldsError) Error() string {
	return fmt.Sprintf("lesson: conflicting fields set: %s", strings.Join(e.Fields, ", "))
}

// UnknownKindError reports a discriminator outside the six known kinds.
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("lesson: unknown kind %q", string(e.Kind))
}

// FileTooLargeError reports an upload over the per-kind size cap.
type FileTooLargeError struct {
	Field string
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("lesson: %s is %d bytes, limit is %d", e.Field, e.Size, e.Limit)
}
