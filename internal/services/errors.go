package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Typed service errors, translated to HTTP status codes by the handlers.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

// mapLookupErr classifies a repository lookup failure: a missing row becomes
// a NotFoundError with the given message, while any other failure (connection,
// scan) is wrapped and left for the handlers to report as an internal error.
func mapLookupErr(err error, notFoundMessage string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &NotFoundError{Message: notFoundMessage}
	}
	return fmt.Errorf("lookup failed: %w", err)
}
