package progress

import (
	"testing"

	"coursetube-backend/internal/models"
)

func testCourse() *models.Course {
	return &models.Course{
		ID:          "messer-security-plus",
		TotalVideos: 3,
		Modules: []models.Module{
			{
				ID:    "mod_1",
				Order: 0,
				Videos: []models.Video{
					{ID: "v1", DurationSeconds: 600, Order: 0, ModuleID: "mod_1"},
					{ID: "v2", DurationSeconds: 300, Order: 1, ModuleID: "mod_1"},
				},
			},
			{
				ID:    "mod_2",
				Order: 1,
				Videos: []models.Video{
					{ID: "v3", DurationSeconds: 900, Order: 0, ModuleID: "mod_2"},
				},
			},
		},
	}
}

func TestOverallPercentage(t *testing.T) {
	course := testCourse()

	tests := []struct {
		name      string
		completed []string
		want      int
	}{
		{"none", nil, 0},
		{"one of three", []string{"v1"}, 33},
		{"two of three", []string{"v1", "v2"}, 67},
		{"all", []string{"v1", "v2", "v3"}, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := OverallPercentage(course, tc.completed); got != tc.want {
				t.Errorf("OverallPercentage(%v) = %d, want %d", tc.completed, got, tc.want)
			}
		})
	}
}

func TestOverallPercentage_EmptyCourse(t *testing.T) {
	course := &models.Course{TotalVideos: 0}
	if got := OverallPercentage(course, nil); got != 0 {
		t.Errorf("expected 0 for empty course, got %d", got)
	}
}

// Discrete percentage must never decrease as the completed set grows, and must
// hit 100 exactly when every video is completed.
func TestOverallPercentage_Monotonic(t *testing.T) {
	course := testCourse()
	order := []string{"v2", "v3", "v1"}

	prev := 0
	var completed []string
	for _, id := range order {
		completed = append(completed, id)
		got := OverallPercentage(course, completed)
		if got < prev {
			t.Fatalf("percentage decreased from %d to %d after completing %s", prev, got, id)
		}
		prev = got
	}
	if prev != 100 {
		t.Errorf("expected 100 with all videos completed, got %d", prev)
	}
	if OverallPercentage(course, order[:2]) == 100 {
		t.Error("percentage reported 100 before every video was completed")
	}
}

func TestModulePercentage(t *testing.T) {
	course := testCourse()

	if got := ModulePercentage(&course.Modules[0], []string{"v1"}); got != 50 {
		t.Errorf("ModulePercentage = %d, want 50", got)
	}
	if got := ModulePercentage(&course.Modules[0], []string{"v1", "v2"}); got != 100 {
		t.Errorf("ModulePercentage = %d, want 100", got)
	}
	empty := &models.Module{ID: "empty"}
	if got := ModulePercentage(empty, []string{"v1"}); got != 0 {
		t.Errorf("ModulePercentage for empty module = %d, want 0", got)
	}
}

func TestWatchPercentage(t *testing.T) {
	course := testCourse() // 600 + 300 + 900 = 1800s total

	tests := []struct {
		name string
		vp   map[string]models.VideoProgress
		want int
	}{
		{"nothing watched", nil, 0},
		{"half of first video", map[string]models.VideoProgress{
			"v1": {Percentage: 50},
		}, 17}, // 300/1800
		{"all fully watched", map[string]models.VideoProgress{
			"v1": {Percentage: 100},
			"v2": {Percentage: 100},
			"v3": {Percentage: 100},
		}, 100},
		{"stored percentage above 100 is clamped", map[string]models.VideoProgress{
			"v1": {Percentage: 250},
			"v2": {Percentage: 100},
			"v3": {Percentage: 100},
		}, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := WatchPercentage(course, tc.vp)
			if got != tc.want {
				t.Errorf("WatchPercentage = %d, want %d", got, tc.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("WatchPercentage = %d, outside [0,100]", got)
			}
		})
	}
}

func TestWatchPercentage_ZeroDuration(t *testing.T) {
	course := &models.Course{
		TotalVideos: 1,
		Modules: []models.Module{
			{ID: "m", Videos: []models.Video{{ID: "v1", DurationSeconds: 0}}},
		},
	}
	vp := map[string]models.VideoProgress{"v1": {Percentage: 100}}
	if got := WatchPercentage(course, vp); got != 0 {
		t.Errorf("expected 0 for zero total duration, got %d", got)
	}
}

func TestIsModuleComplete(t *testing.T) {
	course := testCourse()

	if IsModuleComplete(&course.Modules[0], []string{"v1"}) {
		t.Error("module reported complete with one video missing")
	}
	if !IsModuleComplete(&course.Modules[0], []string{"v1", "v2"}) {
		t.Error("module not reported complete with all videos done")
	}
}

func TestNextVideo(t *testing.T) {
	course := testCourse()

	tests := []struct {
		name      string
		completed []string
		want      string
	}{
		{"fresh start", nil, "v1"},
		{"skips completed in order", []string{"v1"}, "v2"},
		{"crosses module boundary", []string{"v1", "v2"}, "v3"},
		{"completion out of order", []string{"v2"}, "v1"},
		{"finished", []string{"v1", "v2", "v3"}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextVideo(course, tc.completed); got != tc.want {
				t.Errorf("NextVideo(%v) = %q, want %q", tc.completed, got, tc.want)
			}
		})
	}
}

func TestTotalWatchedSeconds(t *testing.T) {
	vp := map[string]models.VideoProgress{
		"v1": {WatchedSeconds: 600},
		"v2": {WatchedSeconds: 150},
	}
	if got := TotalWatchedSeconds(vp); got != 750 {
		t.Errorf("TotalWatchedSeconds = %d, want 750", got)
	}
}

func TestFormatStudyTime(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0m"},
		{59, "0m"},
		{2700, "45m"},
		{3730, "1h 2m"},
		{36000, "10h 0m"},
	}

	for _, tc := range tests {
		if got := FormatStudyTime(tc.seconds); got != tc.want {
			t.Errorf("FormatStudyTime(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
