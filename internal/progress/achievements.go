package progress

import (
	"sort"
	"time"

	"coursetube-backend/internal/models"
)

// AchievementDefinition carries the display metadata for one badge.
type AchievementDefinition struct {
	Type        models.AchievementType `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Icon        string                 `json:"icon"`
}

// Definitions maps every achievement type to its display metadata.
var Definitions = map[models.AchievementType]AchievementDefinition{
	models.AchievementFirstVideo: {
		Type: models.AchievementFirstVideo, Title: "First Step",
		Description: "Completed your first video", Icon: "🎬",
	},
	models.AchievementModuleComplete: {
		Type: models.AchievementModuleComplete, Title: "Module Master",
		Description: "Completed an entire module", Icon: "📦",
	},
	models.AchievementHalfCourse: {
		Type: models.AchievementHalfCourse, Title: "Halfway There",
		Description: "Completed 50% of the course", Icon: "⚡",
	},
	models.AchievementCourseComplete: {
		Type: models.AchievementCourseComplete, Title: "Graduate",
		Description: "Completed the whole course!", Icon: "🎓",
	},
	models.AchievementStreak3: {
		Type: models.AchievementStreak3, Title: "On a Roll",
		Description: "Studied 3 days in a row", Icon: "🔥",
	},
	models.AchievementStreak7: {
		Type: models.AchievementStreak7, Title: "Unstoppable",
		Description: "Studied 7 days in a row", Icon: "💪",
	},
	models.AchievementNightOwl: {
		Type: models.AchievementNightOwl, Title: "Night Owl",
		Description: "Studied after 11pm", Icon: "🦉",
	},
	models.AchievementEarlyBird: {
		Type: models.AchievementEarlyBird, Title: "Early Bird",
		Description: "Studied before 7am", Icon: "🌅",
	},
	models.AchievementSpeedLearner: {
		Type: models.AchievementSpeedLearner, Title: "Speed Learner",
		Description: "5 videos in a single day", Icon: "⚡",
	},
	models.AchievementDedicated: {
		Type: models.AchievementDedicated, Title: "Dedicated",
		Description: "10 total hours of study", Icon: "🏆",
	},
}

// evaluationOrder fixes the order checks run in. When several achievements
// unlock on the same completion, the first one here is the one surfaced as a
// notification; the rest are persisted silently.
var evaluationOrder = []models.AchievementType{
	models.AchievementFirstVideo,
	models.AchievementModuleComplete,
	models.AchievementHalfCourse,
	models.AchievementCourseComplete,
	models.AchievementStreak3,
	models.AchievementStreak7,
	models.AchievementNightOwl,
	models.AchievementEarlyBird,
	models.AchievementSpeedLearner,
	models.AchievementDedicated,
}

const dedicatedThresholdSeconds = 36000 // 10 hours

// CheckAchievements evaluates every rule against the given progress state and
// returns the types that newly became true, in evaluation order. Types already
// unlocked on this course are skipped, so calling it again with unchanged
// state yields nothing. It runs only on video-completion events, never on
// plain watch-time updates. The evaluation instant is passed in rather than
// read from the system clock; its location decides the day and hour
// boundaries (the server's local time, for this service).
func CheckAchievements(p *models.UserProgress, course *models.Course, now time.Time) []models.AchievementType {
	unlocked := make(map[models.AchievementType]bool, len(p.Achievements))
	for _, a := range p.Achievements {
		unlocked[a.Type] = true
	}

	checks := map[models.AchievementType]func() bool{
		models.AchievementFirstVideo: func() bool { return len(p.CompletedVideos) >= 1 },
		models.AchievementModuleComplete: func() bool {
			for i := range course.Modules {
				if len(course.Modules[i].Videos) > 0 && IsModuleComplete(&course.Modules[i], p.CompletedVideos) {
					return true
				}
			}
			return false
		},
		models.AchievementHalfCourse:     func() bool { return p.OverallPercentage >= 50 },
		models.AchievementCourseComplete: func() bool { return p.OverallPercentage >= 100 },
		models.AchievementStreak3:        func() bool { return Streak(p, now) >= 3 },
		models.AchievementStreak7:        func() bool { return Streak(p, now) >= 7 },
		models.AchievementNightOwl:       func() bool { return now.Hour() >= 23 },
		models.AchievementEarlyBird:      func() bool { return now.Hour() < 7 },
		models.AchievementSpeedLearner:   func() bool { return videosCompletedOn(p, now) >= 5 },
		models.AchievementDedicated:      func() bool { return TotalWatchedSeconds(p.VideoProgress) >= dedicatedThresholdSeconds },
	}

	var newTypes []models.AchievementType
	for _, t := range evaluationOrder {
		if !unlocked[t] && checks[t]() {
			newTypes = append(newTypes, t)
		}
	}
	return newTypes
}

// Streak counts consecutive calendar days with at least one video completion,
// anchored at the most recent completion date. A most-recent date more than
// one day before today breaks the streak entirely; exactly one day old still
// counts, so a completion today after skipping nothing, or studying today
// with yesterday as the latest date, both keep the run alive.
func Streak(p *models.UserProgress, now time.Time) int {
	days := make(map[time.Time]bool)
	collectCompletionDays(p, days)
	return streakFromDays(days, now)
}

// CombinedStreak is Streak computed over every course the user has progress
// in, so a day studying any course keeps the run alive. Used by the dashboard.
func CombinedStreak(entries []*models.UserProgress, now time.Time) int {
	days := make(map[time.Time]bool)
	for _, p := range entries {
		collectCompletionDays(p, days)
	}
	return streakFromDays(days, now)
}

func collectCompletionDays(p *models.UserProgress, days map[time.Time]bool) {
	for _, vp := range p.VideoProgress {
		if vp.CompletedAt != nil {
			days[truncateToDay(*vp.CompletedAt)] = true
		}
	}
}

func streakFromDays(days map[time.Time]bool, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	dates := make([]time.Time, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	streak := 1
	for i := 0; i < len(dates)-1; i++ {
		if dates[i].AddDate(0, 0, -1).Equal(dates[i+1]) {
			streak++
		} else {
			break
		}
	}

	// Broken if the latest completion is older than yesterday.
	today := truncateToDay(now)
	if dates[0].Before(today.AddDate(0, 0, -1)) {
		return 0
	}
	return streak
}

// videosCompletedOn counts completions that fall on the same calendar day as
// the evaluation instant.
func videosCompletedOn(p *models.UserProgress, now time.Time) int {
	day := truncateToDay(now)
	count := 0
	for _, vp := range p.VideoProgress {
		if vp.CompletedAt != nil && !truncateToDay(*vp.CompletedAt).Before(day) {
			count++
		}
	}
	return count
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
