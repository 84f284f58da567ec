package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestMapLookupErr(t *testing.T) {
	t.Run("missing row becomes not found", func(t *testing.T) {
		err := mapLookupErr(pgx.ErrNoRows, "Course not found")

		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("Expected NotFoundError, got %T", err)
		}
		if notFound.Message != "Course not found" {
			t.Errorf("Expected message 'Course not found', got %q", notFound.Message)
		}
	})

	t.Run("wrapped missing row becomes not found", func(t *testing.T) {
		wrapped := fmt.Errorf("query failed: %w", pgx.ErrNoRows)

		var notFound *NotFoundError
		if !errors.As(mapLookupErr(wrapped, "Course not found"), &notFound) {
			t.Fatal("Expected NotFoundError for wrapped ErrNoRows")
		}
	})

	t.Run("connection failure stays internal", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := mapLookupErr(cause, "Course not found")

		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			t.Fatal("Connection failure must not be reported as not found")
		}
		if !errors.Is(err, cause) {
			t.Error("Expected the original error to stay in the chain")
		}
	})
}
