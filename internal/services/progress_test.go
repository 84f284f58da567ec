package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"coursetube-backend/internal/models"
)

// Input validation runs before any repository access, so a zero-value service
// is enough to exercise it.

func TestUpdateVideoProgress_RejectsNegativeValues(t *testing.T) {
	s := &ProgressService{}

	tests := []struct {
		name       string
		req        models.UpdateVideoProgressRequest
		wantFields []string
	}{
		{"negative seconds", models.UpdateVideoProgressRequest{WatchedSeconds: -1, Percentage: 50}, []string{"watched_seconds"}},
		{"negative percentage", models.UpdateVideoProgressRequest{WatchedSeconds: 10, Percentage: -5}, []string{"percentage"}},
		{"both negative", models.UpdateVideoProgressRequest{WatchedSeconds: -1, Percentage: -5}, []string{"watched_seconds", "percentage"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.UpdateVideoProgress(context.Background(), uuid.New(), "some-course", "v1", tc.req)

			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if len(validation.Fields) != len(tc.wantFields) {
				t.Errorf("Expected %d field errors, got %v", len(tc.wantFields), validation.Fields)
			}
			for _, field := range tc.wantFields {
				if validation.Fields[field] == "" {
					t.Errorf("Expected an error keyed by %q, got %v", field, validation.Fields)
				}
			}
		})
	}
}

func TestMarkVideoComplete_RejectsUnknownMethod(t *testing.T) {
	s := &ProgressService{}

	_, _, err := s.MarkVideoComplete(context.Background(), uuid.New(), "some-course", "v1", "bogus")

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if validation.Fields["method"] == "" {
		t.Errorf("Expected an error keyed by method, got %v", validation.Fields)
	}
}
