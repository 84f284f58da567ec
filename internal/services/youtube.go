package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"

	"coursetube-backend/internal/models"
)

const (
	playlistPageSize   = 50 // Data API maximum for playlistItems.list
	videoBatchSize     = 50 // Data API maximum for videos.list id filter
	fetchRetryAttempts = 3
)

// YouTubeService wraps the YouTube Data API v3: playlist lookup, sequential
// item pagination, and batched duration resolution. Every upstream call is
// retried with exponential backoff before the error propagates.
type YouTubeService struct {
	yt *youtube.Service
}

func NewYouTubeService(ctx context.Context, apiKey string) (*YouTubeService, error) {
	yt, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	return &YouTubeService{yt: yt}, nil
}

var playlistIDRegex = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)
var barePlaylistIDRegex = regexp.MustCompile(`^(?:PL|UU|FL|OL|RD)[A-Za-z0-9_-]+$`)

// ExtractPlaylistID pulls the playlist ID out of a YouTube URL. Bare playlist
// IDs are accepted as-is. Returns "" when nothing playlist-shaped is found.
func ExtractPlaylistID(playlistURL string) string {
	if m := playlistIDRegex.FindStringSubmatch(playlistURL); len(m) > 1 {
		return m[1]
	}
	if barePlaylistIDRegex.MatchString(playlistURL) {
		return playlistURL
	}
	return ""
}

// GetPlaylist fetches the playlist snippet, or a NotFoundError when the
// playlist is private or does not exist.
func (s *YouTubeService) GetPlaylist(ctx context.Context, playlistID string) (*models.PlaylistPreview, error) {
	var resp *youtube.PlaylistListResponse
	err := withRetry(ctx, "playlists.list", func() error {
		var err error
		resp, err = s.yt.Playlists.List([]string{"snippet", "contentDetails"}).
			Id(playlistID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist %s: %w", playlistID, err)
	}
	if len(resp.Items) == 0 {
		return nil, &NotFoundError{Message: "This playlist is private or does not exist"}
	}

	pl := resp.Items[0]
	preview := &models.PlaylistPreview{
		ID:           pl.Id,
		Title:        pl.Snippet.Title,
		Description:  pl.Snippet.Description,
		ChannelTitle: pl.Snippet.ChannelTitle,
		ThumbnailURL: bestThumbnail(pl.Snippet.Thumbnails),
	}
	if pl.ContentDetails != nil {
		preview.VideoCount = pl.ContentDetails.ItemCount
	}
	return preview, nil
}

// ListPlaylistItems pages through the playlist sequentially, bounded by the
// continuation token, and returns the items in playlist order with durations
// resolved in batches of 50.
func (s *YouTubeService) ListPlaylistItems(ctx context.Context, playlistID string) ([]models.PlaylistItem, error) {
	var items []models.PlaylistItem

	pageToken := ""
	for {
		var resp *youtube.PlaylistItemListResponse
		err := withRetry(ctx, "playlistItems.list", func() error {
			var err error
			resp, err = s.yt.PlaylistItems.List([]string{"snippet"}).
				PlaylistId(playlistID).MaxResults(playlistPageSize).
				PageToken(pageToken).Context(ctx).Do()
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list playlist items: %w", err)
		}

		for _, item := range resp.Items {
			if item.Snippet == nil || item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
				continue
			}
			title := item.Snippet.Title
			if title == "" {
				title = "Untitled"
			}
			items = append(items, models.PlaylistItem{
				VideoID:      item.Snippet.ResourceId.VideoId,
				Title:        title,
				Description:  item.Snippet.Description,
				ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails),
				Position:     int(item.Snippet.Position),
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if err := s.resolveDurations(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// resolveDurations fills Duration/DurationSeconds on each item via batched
// videos.list calls. Videos the API no longer knows about keep zero duration.
func (s *YouTubeService) resolveDurations(ctx context.Context, items []models.PlaylistItem) error {
	byID := make(map[string][]int, len(items))
	ids := make([]string, 0, len(items))
	for i, item := range items {
		if _, seen := byID[item.VideoID]; !seen {
			ids = append(ids, item.VideoID)
		}
		byID[item.VideoID] = append(byID[item.VideoID], i)
	}

	for start := 0; start < len(ids); start += videoBatchSize {
		end := min(start+videoBatchSize, len(ids))
		batch := ids[start:end]

		var resp *youtube.VideoListResponse
		err := withRetry(ctx, "videos.list", func() error {
			var err error
			resp, err = s.yt.Videos.List([]string{"contentDetails"}).
				Id(batch...).Context(ctx).Do()
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to fetch video durations: %w", err)
		}

		for _, video := range resp.Items {
			iso := "PT0S"
			if video.ContentDetails != nil && video.ContentDetails.Duration != "" {
				iso = video.ContentDetails.Duration
			}
			seconds := parseISODuration(iso)
			for _, idx := range byID[video.Id] {
				items[idx].DurationSeconds = seconds
				items[idx].Duration = formatDuration(seconds)
			}
		}
	}

	for i := range items {
		if items[i].Duration == "" {
			items[i].Duration = formatDuration(0)
		}
	}
	return nil
}

func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	if t.High != nil && t.High.Url != "" {
		return t.High.Url
	}
	if t.Default != nil {
		return t.Default.Url
	}
	return ""
}

// withRetry runs fn up to fetchRetryAttempts times, sleeping 1s, 2s, ...
// between attempts. Client errors from the API (4xx other than 429) are not
// retried; they will not get better.
func withRetry(ctx context.Context, name string, fn func() error) error {
	var err error
	for attempt := 0; attempt < fetchRetryAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if apiErr, ok := err.(*googleapi.Error); ok {
			if apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != 429 {
				return err
			}
		}
		if attempt == fetchRetryAttempts-1 {
			break
		}
		delay := time.Duration(1<<attempt) * time.Second
		log.Printf("%s attempt %d failed (%v), retrying in %s", name, attempt+1, err, delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}

var isoDurationRegex = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISODuration converts an ISO-8601 media duration ("PT1H2M10S") to total
// seconds. Malformed or empty input yields 0 rather than an error.
func parseISODuration(iso string) int {
	m := isoDurationRegex.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	days, _ := strconv.Atoi(m[1])
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	seconds, _ := strconv.Atoi(m[4])
	return days*86400 + hours*3600 + minutes*60 + seconds
}

// formatDuration renders seconds as a short label using the largest two
// non-zero units: "1h 2m", "45m", "0m".
func formatDuration(totalSeconds int) string {
	hours := totalSeconds / 3600
	minutes := totalSeconds % 3600 / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
