// Package service implements the business rules of the blogging backend:
// referential integrity validation, the post publication lifecycle and
// comment thread management.
package service

import "fmt"

// NotFoundError is returned when a referenced entity does not exist.
// The offending identifier (numeric ID or slug) is part of the message.
type NotFoundError struct {
	Entity string
	ID     int64
	Slug   string
}

func (e *NotFoundError) Error() string {
	if e.Slug != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.Slug)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError is returned when a write would violate a uniqueness
// constraint, such as a duplicate slug or a duplicate tag association.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ValidationError is returned when an input violates a structural
// invariant, such as a parent comment on a different post.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func notFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func conflictf(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
