package domain

import (
	"errors"
	"fmt"
)

// DuplicateIDError is returned when a create references a key that already
// exists in the store (compared case-insensitively).
type DuplicateIDError struct {
	Entity EntityType
	ID     string
}

func (e DuplicateIDError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.ID)
}

// NotFoundError is returned when an update, delete, or point lookup references
// a key that is not present in the store.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// ValidationError reports a field constraint violation. The whole operation
// that produced it is rejected; no partially-valid record is ever stored.
type ValidationError struct {
	Entity  EntityType
	ID      string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: invalid %s: %s", e.Entity, e.Field, e.Message)
	}
	return fmt.Sprintf("%s %q: invalid %s: %s", e.Entity, e.ID, e.Field, e.Message)
}

// IsDuplicateID reports whether err is (or wraps) a DuplicateIDError.
func IsDuplicateID(err error) bool {
	var dup DuplicateIDError
	return errors.As(err, &dup)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is (or wraps) a ValidationError, or is a
// RuleViolationError carrying blocking violations. Both describe the same
// caller-facing outcome: the supplied field values were rejected.
func IsValidation(err error) bool {
	var ve ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var rve RuleViolationError
	return errors.As(err, &rve)
}
