package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"coursetube-backend/internal/models"
	"coursetube-backend/internal/progress"
	"coursetube-backend/internal/repository"
)

// ProgressService maintains the per-(user, course) progress document and runs
// the achievement evaluator on completion events. Writes are read-modify-write
// without an optimistic-concurrency check (accepted for single-user data).
type ProgressService struct {
	progressRepo *repository.ProgressRepo
	courseRepo   *repository.CourseRepo
	redis        *redis.Client

	// now is injected so tests control the wall clock the time-of-day and
	// streak achievements read.
	now func() time.Time
}

func NewProgressService(progressRepo *repository.ProgressRepo, courseRepo *repository.CourseRepo, redisClient *redis.Client) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		courseRepo:   courseRepo,
		redis:        redisClient,
		now:          time.Now,
	}
}

// ModuleProgressView is the per-module slice of the progress view-model.
type ModuleProgressView struct {
	ModuleID        string `json:"module_id"`
	Percentage      int    `json:"percentage"`
	WatchPercentage int    `json:"watch_percentage"`
	IsComplete      bool   `json:"is_complete"`
}

// CourseProgressView is the explicit view-model handed back to the HTTP layer
// instead of shared mutable state: the raw record plus everything derived
// from it.
type CourseProgressView struct {
	Progress        *models.UserProgress `json:"progress"`
	WatchPercentage int                  `json:"watch_percentage"`
	Modules         []ModuleProgressView `json:"modules"`
	NextVideoID     string               `json:"next_video_id,omitempty"`
	IsComplete      bool                 `json:"is_complete"`
	StudyTime       string               `json:"study_time"`
}

// Get returns the progress view for the course, creating an empty record on
// first access.
func (s *ProgressService) Get(ctx context.Context, userID uuid.UUID, courseID string) (*CourseProgressView, error) {
	course, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	p, err := s.loadOrCreate(ctx, userID, course)
	if err != nil {
		return nil, err
	}
	return s.view(course, p), nil
}

// UpdateVideoProgress records a watch-time sample for a video. Progress-only
// updates never trigger achievement evaluation.
func (s *ProgressService) UpdateVideoProgress(ctx context.Context, userID uuid.UUID, courseID, videoID string, req models.UpdateVideoProgressRequest) (*CourseProgressView, error) {
	fieldErrors := make(map[string]string)
	if req.WatchedSeconds < 0 {
		fieldErrors["watched_seconds"] = "Watched seconds must not be negative"
	}
	if req.Percentage < 0 {
		fieldErrors["percentage"] = "Percentage must not be negative"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	course, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !courseHasVideo(course, videoID) {
		return nil, &NotFoundError{Message: "Video not found in this course"}
	}

	p, err := s.loadOrCreate(ctx, userID, course)
	if err != nil {
		return nil, err
	}

	now := s.now()
	vp := p.VideoProgress[videoID]
	vp.WatchedSeconds = req.WatchedSeconds
	vp.Percentage = min(req.Percentage, 100)
	vp.LastWatchedAt = now
	if vp.CompletionMethod == "" {
		vp.CompletionMethod = models.CompletionAuto
	}
	p.VideoProgress[videoID] = vp
	p.LastActivityAt = now

	if err := s.progressRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	return s.view(course, p), nil
}

// MarkVideoComplete adds the video to the completed set, recomputes the
// overall percentage, and evaluates the achievement rules. All newly unlocked
// achievements are persisted; only the first (in evaluation order) is
// published as a notification event. Completing an already-completed video is
// a no-op.
func (s *ProgressService) MarkVideoComplete(ctx context.Context, userID uuid.UUID, courseID, videoID, method string) (*CourseProgressView, []models.AchievementType, error) {
	if method != models.CompletionAuto && method != models.CompletionManual {
		return nil, nil, &ValidationError{Fields: map[string]string{
			"method": `Completion method must be "auto" or "manual"`,
		}}
	}

	course, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	if !courseHasVideo(course, videoID) {
		return nil, nil, &NotFoundError{Message: "Video not found in this course"}
	}

	p, err := s.loadOrCreate(ctx, userID, course)
	if err != nil {
		return nil, nil, err
	}

	for _, id := range p.CompletedVideos {
		if id == videoID {
			return s.view(course, p), nil, nil
		}
	}

	now := s.now()
	p.CompletedVideos = append(p.CompletedVideos, videoID)
	p.OverallPercentage = progress.OverallPercentage(course, p.CompletedVideos)

	vp := p.VideoProgress[videoID]
	vp.Percentage = 100
	vp.LastWatchedAt = now
	vp.CompletedAt = &now
	vp.CompletionMethod = method
	p.VideoProgress[videoID] = vp
	p.LastActivityAt = now

	newTypes := progress.CheckAchievements(p, course, now)
	for _, t := range newTypes {
		p.Achievements = append(p.Achievements, models.Achievement{
			ID:         course.ID + "_" + string(t),
			Type:       t,
			UnlockedAt: now,
			CourseID:   course.ID,
		})
	}

	if err := s.progressRepo.Update(ctx, p); err != nil {
		return nil, nil, fmt.Errorf("failed to save progress: %w", err)
	}

	if len(newTypes) > 0 {
		s.publishAchievement(ctx, userID, course.ID, newTypes[0], now)
	}
	return s.view(course, p), newTypes, nil
}

// publishAchievement pushes the unlock event onto the user's update channel;
// the websocket hub relays it to any connected clients.
func (s *ProgressService) publishAchievement(ctx context.Context, userID uuid.UUID, courseID string, t models.AchievementType, at time.Time) {
	def := progress.Definitions[t]
	msg := models.WSMessage{
		Type: "achievement_unlocked",
		Payload: models.AchievementUnlockedEvent{
			CourseID:    courseID,
			Type:        t,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			UnlockedAt:  at,
		},
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.redis.Publish(ctx, "user_updates:"+userID.String(), string(data)).Err(); err != nil {
		log.Printf("failed to publish achievement event: %v", err)
	}
}

func (s *ProgressService) ownedCourse(ctx context.Context, userID uuid.UUID, courseID string) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, mapLookupErr(err, "Course not found")
	}
	if course.UserID != userID {
		return nil, &ForbiddenError{Message: "Access denied"}
	}
	return course, nil
}

func (s *ProgressService) loadOrCreate(ctx context.Context, userID uuid.UUID, course *models.Course) (*models.UserProgress, error) {
	progressID := fmt.Sprintf("%s_%s", userID, course.ID)

	p, err := s.progressRepo.Get(ctx, progressID)
	if err == nil {
		if p.VideoProgress == nil {
			p.VideoProgress = map[string]models.VideoProgress{}
		}
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to load progress record: %w", err)
	}

	now := s.now()
	p = &models.UserProgress{
		ID:              progressID,
		UserID:          userID,
		CourseID:        course.ID,
		CompletedVideos: []string{},
		VideoProgress:   map[string]models.VideoProgress{},
		Achievements:    []models.Achievement{},
		StartedAt:       now,
		LastActivityAt:  now,
	}
	if err := s.progressRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create progress record: %w", err)
	}
	return p, nil
}

func (s *ProgressService) view(course *models.Course, p *models.UserProgress) *CourseProgressView {
	modules := make([]ModuleProgressView, len(course.Modules))
	for i := range course.Modules {
		m := &course.Modules[i]
		modules[i] = ModuleProgressView{
			ModuleID:        m.ID,
			Percentage:      progress.ModulePercentage(m, p.CompletedVideos),
			WatchPercentage: progress.ModuleWatchPercentage(m, p.VideoProgress),
			IsComplete:      progress.IsModuleComplete(m, p.CompletedVideos),
		}
	}
	return &CourseProgressView{
		Progress:        p,
		WatchPercentage: progress.WatchPercentage(course, p.VideoProgress),
		Modules:         modules,
		NextVideoID:     progress.NextVideo(course, p.CompletedVideos),
		IsComplete:      progress.IsCourseComplete(course, p.CompletedVideos),
		StudyTime:       progress.FormatStudyTime(progress.TotalWatchedSeconds(p.VideoProgress)),
	}
}

func courseHasVideo(course *models.Course, videoID string) bool {
	for _, m := range course.Modules {
		for _, v := range m.Videos {
			if v.ID == videoID {
				return true
			}
		}
	}
	return false
}
