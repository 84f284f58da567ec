package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursetube-backend/internal/models"
)

type CourseRepo struct {
	pool *pgxpool.Pool
}

func NewCourseRepo(pool *pgxpool.Pool) *CourseRepo {
	return &CourseRepo{pool: pool}
}

func (r *CourseRepo) Create(ctx context.Context, course *models.Course) error {
	modulesBytes, _ := json.Marshal(course.Modules)
	if modulesBytes == nil {
		modulesBytes = []byte("[]")
	}

	query := `
		INSERT INTO courses (id, user_id, playlist_id, playlist_url, title, display_name, description,
			thumbnail_url, total_videos, total_duration, modules, is_monothematic, last_accessed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at`

	course.LastAccessedAt = time.Now()

	return r.pool.QueryRow(ctx, query,
		course.ID, course.UserID, course.PlaylistID, course.PlaylistURL, course.Title,
		course.DisplayName, course.Description, course.ThumbnailURL, course.TotalVideos,
		course.TotalDuration, modulesBytes, course.IsMonothematic, course.LastAccessedAt,
	).Scan(&course.CreatedAt)
}

func (r *CourseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	c := &models.Course{}
	var modulesBytes []byte

	query := `SELECT id, user_id, playlist_id, playlist_url, title, display_name, description,
			thumbnail_url, total_videos, total_duration, modules, is_monothematic, created_at, last_accessed_at
		FROM courses WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.PlaylistID, &c.PlaylistURL, &c.Title, &c.DisplayName, &c.Description,
		&c.ThumbnailURL, &c.TotalVideos, &c.TotalDuration, &modulesBytes, &c.IsMonothematic,
		&c.CreatedAt, &c.LastAccessedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(modulesBytes, &c.Modules); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CourseRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Course, error) {
	query := `SELECT id, user_id, playlist_id, playlist_url, title, display_name, description,
			thumbnail_url, total_videos, total_duration, modules, is_monothematic, created_at, last_accessed_at
		FROM courses WHERE user_id = $1 ORDER BY last_accessed_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		c := &models.Course{}
		var modulesBytes []byte
		err := rows.Scan(
			&c.ID, &c.UserID, &c.PlaylistID, &c.PlaylistURL, &c.Title, &c.DisplayName, &c.Description,
			&c.ThumbnailURL, &c.TotalVideos, &c.TotalDuration, &modulesBytes, &c.IsMonothematic,
			&c.CreatedAt, &c.LastAccessedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(modulesBytes, &c.Modules); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *CourseRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func (r *CourseRepo) TouchLastAccessed(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "UPDATE courses SET last_accessed_at = $1 WHERE id = $2", time.Now(), id)
	return err
}

func (r *CourseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	return err
}
