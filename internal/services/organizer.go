package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"coursetube-backend/internal/models"
)

const slugMaxLen = 60

// ModuleOutline is the JSON contract requested from the model: a slug, a
// display name, the monothematic flag, and a partition of the playlist's
// video indices into ordered modules.
type ModuleOutline struct {
	Slug           string          `json:"slug"`
	DisplayName    string          `json:"displayName"`
	IsMonothematic bool            `json:"isMonothematic"`
	Modules        []OutlineModule `json:"modules"`
}

type OutlineModule struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoIndices []int  `json:"videoIndices"`
}

// OrganizerService asks Gemini to group playlist videos into course modules.
// The model's output is advisory: any failure, from a network error down to a
// response that would reorder videos, falls back to a deterministic
// single-module outline, so a valid course can always be built.
type OrganizerService struct {
	client *genai.Client
	model  *genai.GenerativeModel

	// generate is the single seam to the model, swapped out in tests.
	generate func(ctx context.Context, prompt string) (string, error)
}

func NewOrganizerService(ctx context.Context, apiKey string) (*OrganizerService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	s := &OrganizerService{client: client, model: model}
	s.generate = s.generateGemini
	return s, nil
}

func (s *OrganizerService) Close() {
	s.client.Close()
}

func (s *OrganizerService) generateGemini(ctx context.Context, prompt string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return extractText(resp), nil
}

// OrganizeModules returns a validated module outline for the playlist. The
// returned outline always partitions [0, len(items)) without reordering.
func (s *OrganizerService) OrganizeModules(ctx context.Context, preview *models.PlaylistPreview, items []models.PlaylistItem) *ModuleOutline {
	prompt := buildOrganizerPrompt(preview, items)

	rawText, err := s.generate(ctx, prompt)
	if err != nil {
		log.Printf("organizer: Gemini call failed, using fallback: %v", err)
		return fallbackOutline(preview.Title, len(items))
	}

	outline, err := parseOutline(rawText, len(items))
	if err != nil {
		log.Printf("organizer: unusable model response (%v), using fallback", err)
		return fallbackOutline(preview.Title, len(items))
	}

	if outline.Slug == "" || !slugRegex.MatchString(outline.Slug) || len(outline.Slug) > slugMaxLen {
		outline.Slug = Slugify(preview.Title)
	}
	if outline.DisplayName == "" {
		outline.DisplayName = preview.Title
	}
	return outline
}

// parseOutline extracts the first top-level JSON object from the model's free
// text, decodes it, and checks that the modules form an order-preserving
// partition of the video indices.
func parseOutline(text string, videoCount int) (*ModuleOutline, error) {
	raw, ok := firstJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var outline ModuleOutline
	if err := json.Unmarshal([]byte(raw), &outline); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(outline.Modules) == 0 {
		return nil, fmt.Errorf("outline has no modules")
	}

	// Grouping may partition the playlist, never reorder it: flattened in
	// module order, the indices must be exactly 0..n-1 ascending.
	seen := make(map[int]bool, videoCount)
	prev := -1
	total := 0
	for _, mod := range outline.Modules {
		for _, idx := range mod.VideoIndices {
			if idx < 0 || idx >= videoCount {
				return nil, fmt.Errorf("video index %d out of range", idx)
			}
			if seen[idx] {
				return nil, fmt.Errorf("video index %d assigned twice", idx)
			}
			if idx < prev {
				return nil, fmt.Errorf("outline reorders videos (%d after %d)", idx, prev)
			}
			seen[idx] = true
			prev = idx
			total++
		}
	}
	if total != videoCount {
		return nil, fmt.Errorf("outline covers %d of %d videos", total, videoCount)
	}
	return &outline, nil
}

// fallbackOutline is the deterministic answer when the model is unavailable
// or returns garbage: one module with every video in original order.
func fallbackOutline(playlistTitle string, videoCount int) *ModuleOutline {
	title := playlistTitle
	if title == "" {
		title = "Main Module"
	}
	indices := make([]int, videoCount)
	for i := range indices {
		indices[i] = i
	}
	return &ModuleOutline{
		Slug:           Slugify(playlistTitle),
		DisplayName:    title,
		IsMonothematic: true,
		Modules: []OutlineModule{{
			ID:           "mod_1",
			Title:        title,
			Description:  "All videos in the playlist",
			VideoIndices: indices,
		}},
	}
}

func buildOrganizerPrompt(preview *models.PlaylistPreview, items []models.PlaylistItem) string {
	var b strings.Builder

	b.WriteString("You are an educational assistant. I will give you the data from a YouTube playlist.\n")
	b.WriteString("Your job is to analyze the videos and organize them into logical modules for an educational course.\n")
	b.WriteString("You must also suggest a URL slug and a professional display name for this course.\n\n")

	b.WriteString("Playlist data:\n")
	b.WriteString(fmt.Sprintf("- Title: %s\n", preview.Title))
	b.WriteString(fmt.Sprintf("- Channel: %s\n", preview.ChannelTitle))
	b.WriteString(fmt.Sprintf("- Description: %s\n", preview.Description))
	b.WriteString("- Videos:\n")
	for i, item := range items {
		desc := item.Description
		if len(desc) > 100 {
			desc = desc[:100]
		}
		b.WriteString(fmt.Sprintf("%d. %q (%s) - %s\n", i, item.Title, item.Duration, desc))
	}

	b.WriteString(`
Instructions:
1. Generate a "slug": a short, kebab-case URL identifier based on the channel name and topic (e.g., "messer-security-plus", "traversy-react-crash-course"). Use only lowercase letters, numbers, and hyphens. Max 60 characters.
2. Generate a "displayName": a professional course title combining the channel/instructor and topic.
3. Analyze whether the playlist is monothematic (single topic) or multithematic (multiple topics/sections).
4. If monothematic: create a single module with all videos.
5. If multithematic: group the videos into logical modules (chapters, sections, topic areas).
6. Give each module a descriptive name and a brief description.
7. Maintain the original order of videos within each module.
8. Do not change the global order of videos, only group them.

Respond ONLY with valid JSON using this structure:
{
  "slug": "channel-topic-keyword",
  "displayName": "Professional Course Title",
  "isMonothematic": boolean,
  "modules": [
    {
      "id": "mod_1",
      "title": "Module name",
      "description": "Brief description",
      "videoIndices": [0, 1, 2]
    }
  ]
}`)

	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// firstJSONObject scans for the first balanced top-level {...} in the text,
// tracking string and escape state so braces inside string values do not
// confuse the match. Tolerates prose and code fences around the object.
func firstJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
var nonAlphanumRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe course identifier from a title: lowercase,
// non-alphanumeric runs collapsed to single hyphens, edge hyphens trimmed,
// truncated to 60 characters.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = nonAlphanumRegex.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > slugMaxLen {
		slug = strings.TrimRight(slug[:slugMaxLen], "-")
	}
	if slug == "" {
		slug = "course"
	}
	return slug
}
