package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"coursetube-backend/internal/models"
	"coursetube-backend/internal/repository"
)

const previewCacheTTL = 10 * time.Minute

// CourseService turns a playlist URL into a persisted Course: resolve the
// playlist, page through its items, batch-resolve durations, let the
// organizer group them into modules, and store the result.
type CourseService struct {
	youtube    *YouTubeService
	organizer  *OrganizerService
	courseRepo *repository.CourseRepo
	redis      *redis.Client
}

func NewCourseService(youtube *YouTubeService, organizer *OrganizerService, courseRepo *repository.CourseRepo, redisClient *redis.Client) *CourseService {
	return &CourseService{
		youtube:    youtube,
		organizer:  organizer,
		courseRepo: courseRepo,
		redis:      redisClient,
	}
}

// ImportPlaylist builds and persists a Course for the user from a playlist
// URL. The organizer may fail silently (fallback outline); everything else
// propagates as a typed error.
func (s *CourseService) ImportPlaylist(ctx context.Context, userID uuid.UUID, playlistURL string) (*models.Course, error) {
	playlistID := ExtractPlaylistID(playlistURL)
	if playlistID == "" {
		return nil, &ValidationError{Fields: map[string]string{
			"playlist_url": "Invalid URL. Make sure it's a YouTube playlist",
		}}
	}

	preview, err := s.youtube.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	items, err := s.youtube.ListPlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &ValidationError{Fields: map[string]string{
			"playlist_url": "The playlist is empty",
		}}
	}

	outline := s.organizer.OrganizeModules(ctx, preview, items)

	courseID, err := s.uniqueCourseID(ctx, outline.Slug)
	if err != nil {
		return nil, err
	}

	totalSeconds := 0
	for _, item := range items {
		totalSeconds += item.DurationSeconds
	}

	now := time.Now()
	course := &models.Course{
		ID:             courseID,
		UserID:         userID,
		PlaylistID:     playlistID,
		PlaylistURL:    playlistURL,
		Title:          preview.Title,
		DisplayName:    outline.DisplayName,
		Description:    preview.Description,
		ThumbnailURL:   preview.ThumbnailURL,
		TotalVideos:    len(items),
		TotalDuration:  formatDuration(totalSeconds),
		Modules:        buildModules(outline, items),
		IsMonothematic: outline.IsMonothematic,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to save course: %w", err)
	}

	log.Printf("imported playlist %s as course %s (%d videos, %d modules)",
		playlistID, course.ID, course.TotalVideos, len(course.Modules))
	return course, nil
}

// buildModules materializes the outline into the stored module/video tree,
// carrying each video's playlist metadata and duration.
func buildModules(outline *ModuleOutline, items []models.PlaylistItem) []models.Module {
	modules := make([]models.Module, len(outline.Modules))
	for mi, om := range outline.Modules {
		videos := make([]models.Video, len(om.VideoIndices))
		for vi, idx := range om.VideoIndices {
			item := items[idx]
			videos[vi] = models.Video{
				ID:              item.VideoID,
				Title:           item.Title,
				Description:     item.Description,
				ThumbnailURL:    item.ThumbnailURL,
				Duration:        item.Duration,
				DurationSeconds: item.DurationSeconds,
				Order:           vi,
				ModuleID:        om.ID,
			}
		}
		modules[mi] = models.Module{
			ID:          om.ID,
			Title:       om.Title,
			Description: om.Description,
			Order:       mi,
			Videos:      videos,
		}
	}
	return modules
}

// uniqueCourseID keeps the slug as the course ID, suffixing it when another
// course already claimed it.
func (s *CourseService) uniqueCourseID(ctx context.Context, slug string) (string, error) {
	candidate := slug
	for i := 2; ; i++ {
		exists, err := s.courseRepo.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check course ID: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
}

// Preview returns the playlist's basic metadata without importing it,
// cached in redis so repeated previews of the same playlist stay cheap.
func (s *CourseService) Preview(ctx context.Context, playlistURL string) (*models.PlaylistPreview, error) {
	playlistID := ExtractPlaylistID(playlistURL)
	if playlistID == "" {
		return nil, &ValidationError{Fields: map[string]string{
			"playlist_url": "Invalid URL. Make sure it's a YouTube playlist",
		}}
	}

	cacheKey := "playlist_preview:" + playlistID
	if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var preview models.PlaylistPreview
		if json.Unmarshal([]byte(cached), &preview) == nil {
			return &preview, nil
		}
	}

	preview, err := s.youtube.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(preview); err == nil {
		s.redis.Set(ctx, cacheKey, string(data), previewCacheTTL)
	}
	return preview, nil
}

// Get loads a course owned by the user and bumps its last-accessed timestamp.
func (s *CourseService) Get(ctx context.Context, userID uuid.UUID, courseID string) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, mapLookupErr(err, "Course not found")
	}
	if course.UserID != userID {
		return nil, &ForbiddenError{Message: "Access denied"}
	}

	s.courseRepo.TouchLastAccessed(ctx, courseID)
	return course, nil
}

func (s *CourseService) List(ctx context.Context, userID uuid.UUID) ([]*models.Course, error) {
	return s.courseRepo.ListByUser(ctx, userID)
}

// Delete removes the course and its progress record.
func (s *CourseService) Delete(ctx context.Context, userID uuid.UUID, courseID string) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return mapLookupErr(err, "Course not found")
	}
	if course.UserID != userID {
		return &ForbiddenError{Message: "Access denied"}
	}
	return s.courseRepo.Delete(ctx, courseID)
}
