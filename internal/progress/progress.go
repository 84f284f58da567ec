// Package progress derives completion percentages and achievement unlocks
// from raw watch-time state. Everything here is pure: callers pass the
// course, the progress record, and (where time matters) the evaluation
// instant, and get values back with no I/O.
package progress

import (
	"fmt"
	"math"

	"coursetube-backend/internal/models"
)

// OverallPercentage is the discrete course-level percentage: completed videos
// over total videos, rounded. Zero-video courses report 0.
func OverallPercentage(course *models.Course, completedVideos []string) int {
	if course.TotalVideos == 0 {
		return 0
	}
	return clampPercent(roundRatio(len(completedVideos), course.TotalVideos))
}

// ModulePercentage is the discrete module-level percentage.
func ModulePercentage(module *models.Module, completedVideos []string) int {
	if len(module.Videos) == 0 {
		return 0
	}
	completed := 0
	done := toSet(completedVideos)
	for _, v := range module.Videos {
		if done[v.ID] {
			completed++
		}
	}
	return clampPercent(roundRatio(completed, len(module.Videos)))
}

// WatchPercentage is the continuous, duration-weighted course percentage:
// each video contributes (percentage/100) x durationSeconds toward the
// course's total duration. Partial watch data produces a smoother number
// than the binary completed count. Stored per-video percentages above 100
// are clamped before weighting.
func WatchPercentage(course *models.Course, videoProgress map[string]models.VideoProgress) int {
	var watched, total float64
	for _, m := range course.Modules {
		for _, v := range m.Videos {
			total += float64(v.DurationSeconds)
			if vp, ok := videoProgress[v.ID]; ok {
				pct := float64(vp.Percentage)
				if pct > 100 {
					pct = 100
				}
				if pct < 0 {
					pct = 0
				}
				watched += pct / 100 * float64(v.DurationSeconds)
			}
		}
	}
	if total == 0 {
		return 0
	}
	return clampPercent(int(math.Round(watched / total * 100)))
}

// ModuleWatchPercentage is the continuous percentage scoped to one module.
func ModuleWatchPercentage(module *models.Module, videoProgress map[string]models.VideoProgress) int {
	var watched, total float64
	for _, v := range module.Videos {
		total += float64(v.DurationSeconds)
		if vp, ok := videoProgress[v.ID]; ok {
			pct := float64(vp.Percentage)
			if pct > 100 {
				pct = 100
			}
			if pct < 0 {
				pct = 0
			}
			watched += pct / 100 * float64(v.DurationSeconds)
		}
	}
	if total == 0 {
		return 0
	}
	return clampPercent(int(math.Round(watched / total * 100)))
}

// IsModuleComplete reports whether every video of the module is in the
// completed set. This is the strict boolean notion, independent of rounding.
func IsModuleComplete(module *models.Module, completedVideos []string) bool {
	done := toSet(completedVideos)
	for _, v := range module.Videos {
		if !done[v.ID] {
			return false
		}
	}
	return true
}

// IsCourseComplete reports whether every video of every module is completed.
func IsCourseComplete(course *models.Course, completedVideos []string) bool {
	done := toSet(completedVideos)
	for _, m := range course.Modules {
		for _, v := range m.Videos {
			if !done[v.ID] {
				return false
			}
		}
	}
	return true
}

// NextVideo returns the first incomplete video ID scanning modules and videos
// in stored order, or "" when the course is finished.
func NextVideo(course *models.Course, completedVideos []string) string {
	done := toSet(completedVideos)
	for _, m := range course.Modules {
		for _, v := range m.Videos {
			if !done[v.ID] {
				return v.ID
			}
		}
	}
	return ""
}

// TotalWatchedSeconds sums the raw watch time across all videos.
func TotalWatchedSeconds(videoProgress map[string]models.VideoProgress) int {
	total := 0
	for _, vp := range videoProgress {
		total += vp.WatchedSeconds
	}
	return total
}

// FormatStudyTime renders accumulated seconds as "3h 25m" (or "45m" below
// one hour).
func FormatStudyTime(totalSeconds int) string {
	hours := totalSeconds / 3600
	minutes := totalSeconds % 3600 / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func roundRatio(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
