package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursetube-backend/internal/models"
)

type ProgressRepo struct {
	pool *pgxpool.Pool
}

func NewProgressRepo(pool *pgxpool.Pool) *ProgressRepo {
	return &ProgressRepo{pool: pool}
}

func (r *ProgressRepo) Create(ctx context.Context, p *models.UserProgress) error {
	completedBytes, videoBytes, achievementBytes := marshalProgress(p)

	query := `
		INSERT INTO progress (id, user_id, course_id, completed_videos, video_progress, achievements,
			overall_percentage, started_at, last_activity_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.UserID, p.CourseID, completedBytes, videoBytes, achievementBytes,
		p.OverallPercentage, p.StartedAt, p.LastActivityAt,
	)
	return err
}

func (r *ProgressRepo) Get(ctx context.Context, id string) (*models.UserProgress, error) {
	p := &models.UserProgress{}
	var completedBytes, videoBytes, achievementBytes []byte

	query := `SELECT id, user_id, course_id, completed_videos, video_progress, achievements,
			overall_percentage, started_at, last_activity_at
		FROM progress WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.CourseID, &completedBytes, &videoBytes, &achievementBytes,
		&p.OverallPercentage, &p.StartedAt, &p.LastActivityAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalProgress(p, completedBytes, videoBytes, achievementBytes); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProgressRepo) Update(ctx context.Context, p *models.UserProgress) error {
	completedBytes, videoBytes, achievementBytes := marshalProgress(p)

	query := `UPDATE progress SET completed_videos = $1, video_progress = $2, achievements = $3,
			overall_percentage = $4, last_activity_at = $5
		WHERE id = $6`

	_, err := r.pool.Exec(ctx, query,
		completedBytes, videoBytes, achievementBytes, p.OverallPercentage, p.LastActivityAt, p.ID,
	)
	return err
}

func (r *ProgressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserProgress, error) {
	query := `SELECT id, user_id, course_id, completed_videos, video_progress, achievements,
			overall_percentage, started_at, last_activity_at
		FROM progress WHERE user_id = $1 ORDER BY last_activity_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.UserProgress, 0)
	for rows.Next() {
		p := &models.UserProgress{}
		var completedBytes, videoBytes, achievementBytes []byte
		err := rows.Scan(
			&p.ID, &p.UserID, &p.CourseID, &completedBytes, &videoBytes, &achievementBytes,
			&p.OverallPercentage, &p.StartedAt, &p.LastActivityAt,
		)
		if err != nil {
			return nil, err
		}
		if err := unmarshalProgress(p, completedBytes, videoBytes, achievementBytes); err != nil {
			return nil, err
		}
		entries = append(entries, p)
	}
	return entries, rows.Err()
}

func marshalProgress(p *models.UserProgress) (completed, video, achievements []byte) {
	completed, _ = json.Marshal(p.CompletedVideos)
	video, _ = json.Marshal(p.VideoProgress)
	achievements, _ = json.Marshal(p.Achievements)
	if completed == nil {
		completed = []byte("[]")
	}
	if video == nil {
		video = []byte("{}")
	}
	if achievements == nil {
		achievements = []byte("[]")
	}
	return completed, video, achievements
}

func unmarshalProgress(p *models.UserProgress, completed, video, achievements []byte) error {
	if err := json.Unmarshal(completed, &p.CompletedVideos); err != nil {
		return err
	}
	if err := json.Unmarshal(video, &p.VideoProgress); err != nil {
		return err
	}
	return json.Unmarshal(achievements, &p.Achievements)
}
