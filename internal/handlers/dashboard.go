package handlers

import (
	"net/http"
	"time"

	"coursetube-backend/internal/middleware"
	"coursetube-backend/internal/models"
	"coursetube-backend/internal/progress"
	"coursetube-backend/internal/repository"
)

type DashboardHandler struct {
	courseRepo   *repository.CourseRepo
	progressRepo *repository.ProgressRepo
}

func NewDashboardHandler(courseRepo *repository.CourseRepo, progressRepo *repository.ProgressRepo) *DashboardHandler {
	return &DashboardHandler{courseRepo: courseRepo, progressRepo: progressRepo}
}

type dashboardStats struct {
	TotalCourses        int                   `json:"total_courses"`
	CompletedCourses    int                   `json:"completed_courses"`
	VideosCompleted     int                   `json:"videos_completed"`
	TotalWatchedSeconds int                   `json:"total_watched_seconds"`
	StudyTime           string                `json:"study_time"`
	CurrentStreak       int                   `json:"current_streak"`
	Achievements        []unlockedAchievement `json:"achievements"`
	RecentCourses       []*models.Course      `json:"recent_courses"`
}

type unlockedAchievement struct {
	progress.AchievementDefinition
	CourseID   string    `json:"course_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	ctx := r.Context()

	courses, err := h.courseRepo.ListByUser(ctx, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	entries, err := h.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	stats := dashboardStats{
		TotalCourses:  len(courses),
		Achievements:  make([]unlockedAchievement, 0),
		CurrentStreak: progress.CombinedStreak(entries, time.Now()),
	}

	for _, p := range entries {
		stats.VideosCompleted += len(p.CompletedVideos)
		stats.TotalWatchedSeconds += progress.TotalWatchedSeconds(p.VideoProgress)
		if p.OverallPercentage >= 100 {
			stats.CompletedCourses++
		}
		for _, a := range p.Achievements {
			def, ok := progress.Definitions[a.Type]
			if !ok {
				continue
			}
			stats.Achievements = append(stats.Achievements, unlockedAchievement{
				AchievementDefinition: def,
				CourseID:              a.CourseID,
				UnlockedAt:            a.UnlockedAt,
			})
		}
	}

	stats.StudyTime = progress.FormatStudyTime(stats.TotalWatchedSeconds)

	// ListByUser orders by last_accessed_at, so the head is the recent slice.
	if len(courses) > 5 {
		courses = courses[:5]
	}
	stats.RecentCourses = courses

	writeJSON(w, http.StatusOK, stats)
}
