package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"coursetube-backend/internal/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "React Crash Course", "react-crash-course"},
		{"punctuation", "Professor Messer's Security+!!", "professor-messer-s-security"},
		{"collapses runs", "CS50  --  Lecture   Series", "cs50-lecture-series"},
		{"already clean", "golang-basics", "golang-basics"},
		{"all symbols", "!!!???", "course"},
		{"empty", "", "course"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.input); got != tc.want {
				t.Errorf("Slugify(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSlugify_AlwaysValid(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	inputs := []string{
		"Professor Messer's Security+!!",
		strings.Repeat("Very Long Title ", 20),
		"---leading and trailing---",
		"ünïcödé Tïtle",
		"123 Numbers First",
	}

	for _, input := range inputs {
		got := Slugify(input)
		if !valid.MatchString(got) {
			t.Errorf("Slugify(%q) = %q, not a valid slug", input, got)
		}
		if len(got) > slugMaxLen {
			t.Errorf("Slugify(%q) = %q, exceeds %d chars", input, got, slugMaxLen)
		}
	}
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"prose around", `Here you go: {"a":1} hope that helps!`, `{"a":1}`, true},
		{"code fence", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"nested braces", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"brace inside string", `{"title":"Intro {part 1}"}`, `{"title":"Intro {part 1}"}`, true},
		{"escaped quote in string", `{"t":"he said \"hi\" {x}"}`, `{"t":"he said \"hi\" {x}"}`, true},
		{"no object", "sorry, I cannot do that", "", false},
		{"unbalanced", `{"a":1`, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := firstJSONObject(tc.text)
			if ok != tc.ok {
				t.Fatalf("firstJSONObject ok = %v, want %v", ok, tc.ok)
			}
			if got != tc.want {
				t.Errorf("firstJSONObject = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseOutline_Valid(t *testing.T) {
	raw := `{
		"slug": "messer-security-plus",
		"displayName": "Professor Messer Security+",
		"isMonothematic": false,
		"modules": [
			{"id": "mod_1", "title": "Basics", "description": "Intro", "videoIndices": [0, 1]},
			{"id": "mod_2", "title": "Networking", "description": "Nets", "videoIndices": [2, 3, 4]}
		]
	}`

	outline, err := parseOutline(raw, 5)
	if err != nil {
		t.Fatalf("parseOutline failed: %v", err)
	}
	if outline.Slug != "messer-security-plus" {
		t.Errorf("Expected slug, got %q", outline.Slug)
	}
	if len(outline.Modules) != 2 {
		t.Fatalf("Expected 2 modules, got %d", len(outline.Modules))
	}
	if outline.Modules[1].VideoIndices[0] != 2 {
		t.Errorf("Expected module 2 to start at index 2")
	}
}

func TestParseOutline_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		videoCount int
	}{
		{"no json", "nothing here", 3},
		{"no modules", `{"slug":"x","modules":[]}`, 3},
		{"index out of range", `{"modules":[{"id":"m1","videoIndices":[0,1,5]}]}`, 3},
		{"duplicate index", `{"modules":[{"id":"m1","videoIndices":[0,1,1]}]}`, 3},
		{"missing index", `{"modules":[{"id":"m1","videoIndices":[0,2]}]}`, 3},
		{"reordered", `{"modules":[{"id":"m1","videoIndices":[1,2]},{"id":"m2","videoIndices":[0]}]}`, 3},
		{"reorder within module", `{"modules":[{"id":"m1","videoIndices":[1,0,2]}]}`, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseOutline(tc.raw, tc.videoCount); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func testPreview() *models.PlaylistPreview {
	return &models.PlaylistPreview{
		ID:           "PLtest",
		Title:        "Go Crash Course",
		ChannelTitle: "Some Channel",
	}
}

func testItems(n int) []models.PlaylistItem {
	items := make([]models.PlaylistItem, n)
	for i := range items {
		items[i] = models.PlaylistItem{
			VideoID:  fmt.Sprintf("vid%d", i),
			Title:    fmt.Sprintf("Video %d", i),
			Position: i,
			Duration: "5m",
		}
	}
	return items
}

func TestOrganizeModules_FallbackOnError(t *testing.T) {
	s := &OrganizerService{
		generate: func(ctx context.Context, prompt string) (string, error) {
			return "", fmt.Errorf("model unavailable")
		},
	}

	outline := s.OrganizeModules(context.Background(), testPreview(), testItems(4))

	if !outline.IsMonothematic {
		t.Error("Fallback outline should be monothematic")
	}
	if len(outline.Modules) != 1 {
		t.Fatalf("Expected 1 fallback module, got %d", len(outline.Modules))
	}
	if outline.Slug != "go-crash-course" {
		t.Errorf("Expected slug from playlist title, got %q", outline.Slug)
	}
	want := []int{0, 1, 2, 3}
	got := outline.Modules[0].VideoIndices
	if len(got) != len(want) {
		t.Fatalf("Expected %d indices, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Index %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestOrganizeModules_FallbackOnBadResponse(t *testing.T) {
	s := &OrganizerService{
		generate: func(ctx context.Context, prompt string) (string, error) {
			// Reorders the playlist, so it must be rejected.
			return `{"slug":"x","modules":[{"id":"m1","videoIndices":[2,0,1]}]}`, nil
		},
	}

	outline := s.OrganizeModules(context.Background(), testPreview(), testItems(3))

	if len(outline.Modules) != 1 || !outline.IsMonothematic {
		t.Error("Expected fallback outline for reordering response")
	}
}

func TestOrganizeModules_AcceptsModelOutline(t *testing.T) {
	s := &OrganizerService{
		generate: func(ctx context.Context, prompt string) (string, error) {
			return "Sure! Here is the outline:\n" + `{
				"slug": "some-channel-go",
				"displayName": "Go with Some Channel",
				"isMonothematic": false,
				"modules": [
					{"id": "mod_1", "title": "Setup", "description": "", "videoIndices": [0]},
					{"id": "mod_2", "title": "Language", "description": "", "videoIndices": [1, 2]}
				]
			}`, nil
		},
	}

	outline := s.OrganizeModules(context.Background(), testPreview(), testItems(3))

	if outline.IsMonothematic {
		t.Error("Expected multithematic outline")
	}
	if len(outline.Modules) != 2 {
		t.Fatalf("Expected 2 modules, got %d", len(outline.Modules))
	}
	if outline.Slug != "some-channel-go" {
		t.Errorf("Expected model slug, got %q", outline.Slug)
	}
}

func TestOrganizeModules_RepairsBadSlug(t *testing.T) {
	s := &OrganizerService{
		generate: func(ctx context.Context, prompt string) (string, error) {
			return `{"slug":"Not A Valid Slug!","displayName":"Go Course","modules":[{"id":"m1","videoIndices":[0,1]}]}`, nil
		},
	}

	outline := s.OrganizeModules(context.Background(), testPreview(), testItems(2))

	if outline.Slug != "go-crash-course" {
		t.Errorf("Expected slug rebuilt from playlist title, got %q", outline.Slug)
	}
	if outline.DisplayName != "Go Course" {
		t.Errorf("Display name should be kept, got %q", outline.DisplayName)
	}
}

func TestBuildOrganizerPrompt_ListsVideos(t *testing.T) {
	prompt := buildOrganizerPrompt(testPreview(), testItems(2))

	for _, want := range []string{"Go Crash Course", "Video 0", "Video 1", "videoIndices"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}
}
