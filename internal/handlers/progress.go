package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coursetube-backend/internal/middleware"
	"coursetube-backend/internal/models"
	"coursetube-backend/internal/services"
)

type ProgressHandler struct {
	progressService *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	courseID := chi.URLParam(r, "courseID")

	view, err := h.progressService.Get(r.Context(), userID, courseID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *ProgressHandler) UpdateVideoProgress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	courseID := chi.URLParam(r, "courseID")
	videoID := chi.URLParam(r, "videoID")

	var req models.UpdateVideoProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	view, err := h.progressService.UpdateVideoProgress(r.Context(), userID, courseID, videoID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *ProgressHandler) CompleteVideo(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	courseID := chi.URLParam(r, "courseID")
	videoID := chi.URLParam(r, "videoID")

	var req models.CompleteVideoRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
			return
		}
	}
	if req.Method == "" {
		req.Method = models.CompletionManual
	}

	view, newAchievements, err := h.progressService.MarkVideoComplete(r.Context(), userID, courseID, videoID, req.Method)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"progress":         view,
		"new_achievements": newAchievements,
	})
}
