package models

import (
	"time"

	"github.com/google/uuid"
)

// Completion methods for a video.
const (
	CompletionAuto   = "auto"   // watch-time threshold reached in the player
	CompletionManual = "manual" // explicit user action
)

type AchievementType string

const (
	AchievementFirstVideo     AchievementType = "first_video"
	AchievementModuleComplete AchievementType = "module_complete"
	AchievementHalfCourse     AchievementType = "half_course"
	AchievementCourseComplete AchievementType = "course_complete"
	AchievementStreak3        AchievementType = "streak_3"
	AchievementStreak7        AchievementType = "streak_7"
	AchievementNightOwl       AchievementType = "night_owl"
	AchievementEarlyBird      AchievementType = "early_bird"
	AchievementSpeedLearner   AchievementType = "speed_learner"
	AchievementDedicated      AchievementType = "dedicated"
)

// Achievement IDs are derived from course ID + type, so a given type can be
// unlocked at most once per course.
type Achievement struct {
	ID         string          `json:"id"`
	Type       AchievementType `json:"type"`
	UnlockedAt time.Time       `json:"unlocked_at"`
	CourseID   string          `json:"course_id"`
}

// VideoProgress holds the fine-grained watch state of a single video.
type VideoProgress struct {
	WatchedSeconds   int        `json:"watched_seconds"`
	Percentage       int        `json:"percentage"`
	LastWatchedAt    time.Time  `json:"last_watched_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CompletionMethod string     `json:"completion_method"`
}

// UserProgress is the per-(user, course) progress document, created lazily on
// first access. Writes are read-modify-write without an optimistic-concurrency
// check; two completions racing can drop one update, which is accepted for
// single-user data.
type UserProgress struct {
	ID                string                   `json:"id"`
	UserID            uuid.UUID                `json:"user_id"`
	CourseID          string                   `json:"course_id"`
	CompletedVideos   []string                 `json:"completed_videos"`
	VideoProgress     map[string]VideoProgress `json:"video_progress"`
	Achievements      []Achievement            `json:"achievements"`
	OverallPercentage int                      `json:"overall_percentage"`
	StartedAt         time.Time                `json:"started_at"`
	LastActivityAt    time.Time                `json:"last_activity_at"`
}

type UpdateVideoProgressRequest struct {
	WatchedSeconds int `json:"watched_seconds"`
	Percentage     int `json:"percentage"`
}

type CompleteVideoRequest struct {
	Method string `json:"method"` // "auto" | "manual"
}

// WebSocket message types

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type AchievementUnlockedEvent struct {
	CourseID    string          `json:"course_id"`
	Type        AchievementType `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	UnlockedAt  time.Time       `json:"unlocked_at"`
}

// API Error response

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
