package models

import (
	"time"

	"github.com/google/uuid"
)

// Course is the structured representation of an imported playlist. The ID is
// the URL slug suggested by the organizer, so it doubles as the document key.
// Courses are immutable after creation except for LastAccessedAt.
type Course struct {
	ID             string    `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	PlaylistID     string    `json:"playlist_id"`
	PlaylistURL    string    `json:"playlist_url"`
	Title          string    `json:"title"`
	DisplayName    string    `json:"display_name"`
	Description    string    `json:"description"`
	ThumbnailURL   string    `json:"thumbnail_url"`
	TotalVideos    int       `json:"total_videos"`
	TotalDuration  string    `json:"total_duration"`
	Modules        []Module  `json:"modules"`
	IsMonothematic bool      `json:"is_monothematic"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// Module is an ordered, named grouping of videos, owned by exactly one course.
type Module struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Order       int     `json:"order"`
	Videos      []Video `json:"videos"`
}

// Video keeps the source platform's video ID so progress records can use it
// as a mapping key.
type Video struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ThumbnailURL    string `json:"thumbnail_url"`
	Duration        string `json:"duration"`
	DurationSeconds int    `json:"duration_seconds"`
	Order           int    `json:"order"`
	ModuleID        string `json:"module_id"`
}

type ImportPlaylistRequest struct {
	PlaylistURL string `json:"playlist_url"`
}

// PlaylistPreview is the read-only metadata returned before a full import.
type PlaylistPreview struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channel_title"`
	ThumbnailURL string `json:"thumbnail_url"`
	VideoCount   int64  `json:"video_count"`
}

// PlaylistItem is one entry of the raw playlist listing, before organization
// into modules. Position is the item's index in the source playlist.
type PlaylistItem struct {
	VideoID         string
	Title           string
	Description     string
	ThumbnailURL    string
	Position        int
	Duration        string
	DurationSeconds int
}
