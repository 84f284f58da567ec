package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"coursetube-backend/internal/models"
	"coursetube-backend/internal/services"
)

// ─── Response Helper Tests ───

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusCreated, map[string]string{"message": "ok"})

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", ct)
	}

	var result map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["message"] != "ok" {
		t.Errorf("Expected message 'ok', got %q", result["message"])
	}
}

func TestErrorResp_CarriesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
	req.Header.Set("X-Request-ID", "req-123")

	resp := errorResp("NOT_FOUND", "Course not found", req)

	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("Expected code NOT_FOUND, got %q", resp.Error.Code)
	}
	if resp.Error.RequestID != "req-123" {
		t.Errorf("Expected request_id 'req-123', got %q", resp.Error.RequestID)
	}
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"playlist_url": "required"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", &services.ConflictError{Message: "Email already in use"}, http.StatusConflict, "CONFLICT"},
		{"not found", &services.NotFoundError{Message: "Course not found"}, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", &services.UnauthorizedError{Message: "Invalid token"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", &services.ForbiddenError{Message: "Not your course"}, http.StatusForbidden, "FORBIDDEN"},
		{"unknown", bytes.ErrTooLarge, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			handleServiceError(rr, req, tc.err)

			if rr.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, rr.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error.Code != tc.wantCode {
				t.Errorf("Expected code %q, got %q", tc.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestHandleServiceError_ValidationFields(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	handleServiceError(rr, req, &services.ValidationError{
		Fields: map[string]string{"email": "Invalid email format"},
	})

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Fields["email"] != "Invalid email format" {
		t.Errorf("Expected field error for email, got %v", resp.Error.Fields)
	}
}

// ─── Request Parsing Tests ───

func TestImportRequest_Parsing(t *testing.T) {
	body := map[string]string{
		"playlist_url": "https://www.youtube.com/playlist?list=PLtest123",
	}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/courses", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	var parsed models.ImportPlaylistRequest
	if err := json.NewDecoder(req.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to parse request body: %v", err)
	}
	if parsed.PlaylistURL != body["playlist_url"] {
		t.Errorf("Expected playlist_url %q, got %q", body["playlist_url"], parsed.PlaylistURL)
	}
}

func TestCompleteVideoRequest_DefaultMethod(t *testing.T) {
	var req models.CompleteVideoRequest
	if err := json.Unmarshal([]byte(`{}`), &req); err != nil {
		t.Fatalf("Failed to parse empty body: %v", err)
	}
	if req.Method != "" {
		t.Errorf("Expected empty method before defaulting, got %q", req.Method)
	}
}
