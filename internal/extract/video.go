package extract

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/forkful/recipe-cli/internal/ingredient"
	"github.com/forkful/recipe-cli/internal/model"
	"github.com/forkful/recipe-cli/pkg/videometa"
)

// VideoStrategy mines recipe data out of video titles, descriptions,
// chapters and captions.
type VideoStrategy struct {
	client  videometa.Client
	weights Weights
}

// NewVideoStrategy creates the strategy around a metadata client.
func NewVideoStrategy(client videometa.Client, w Weights) *VideoStrategy {
	return &VideoStrategy{client: client, weights: w}
}

func (s *VideoStrategy) Name() string { return "video" }

// Confidence is binary: a recognized video URL with an extractable id
// scores 1, anything else 0.
func (s *VideoStrategy) Confidence(src *Source) float64 {
	if VideoID(src.URL) != "" {
		return 1
	}
	return 0
}

// VideoID extracts the video identifier from the known URL shapes:
// watch?v=, youtu.be/, /shorts/ and /embed/ paths.
func VideoID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return id
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				if id, _, _ := strings.Cut(rest, "/"); id != "" {
					return id
				}
			}
		}
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id
		}
	}
	return ""
}

func (s *VideoStrategy) Extract(ctx context.Context, src *Source) (*model.Recipe, error) {
	id := VideoID(src.URL)
	if id == "" {
		return nil, ErrNoRecipe
	}

	video, err := s.client.Video(ctx, id)
	if err != nil {
		return nil, err
	}

	r := &model.Recipe{
		Name:           CleanVideoTitle(video.Title),
		NameConfidence: s.weights.VideoName,
		ImageURL:       video.ThumbnailURL,
	}
	if r.ImageURL != "" {
		r.ImageConfidence = s.weights.VideoName
	}

	parsed := parseVideoDescription(video.Description)
	r.Ingredients = ingredient.ParseList(parsed.ingredients)
	if len(r.Ingredients) > 0 {
		r.IngredientsConfidence = s.weights.VideoDescriptionList
	}
	r.Directions = parsed.directions
	if len(r.Directions) > 0 {
		r.DirectionsConfidence = s.weights.VideoDescriptionList
	}
	r.Notes = strings.Join(parsed.notes, "\n")

	if total := findTime(video.Description, totalTimeRe); total != "" {
		r.Time = total
		r.TimeConfidence = s.weights.VideoDescriptionList
	}
	r.CookTime = findTime(video.Description, cookTimeRe)
	r.PrepTime = findTime(video.Description, prepTimeRe)

	// Chapters stand in for missing directions.
	if len(r.Directions) == 0 && len(parsed.chapters) > 0 {
		r.Directions = parsed.chapters
		r.DirectionsConfidence = s.weights.VideoCaptionDirections
	}

	// Last resort: mine the closed captions. Failures mean no captions,
	// never a failed extraction.
	if len(r.Directions) == 0 && len(r.Ingredients) < 3 {
		if steps := s.captionSteps(ctx, id); len(steps) > 0 {
			r.Directions = steps
			r.DirectionsConfidence = s.weights.VideoCaptionDirections
		}
	}

	if !r.HasContent() && r.Name == "" {
		return nil, nil
	}
	return r, nil
}

// CleanVideoTitle strips trailing "| Site" suffixes and a leading
// "How to Make/Cook/Prepare" prefix.
func CleanVideoTitle(title string) string {
	title = ingredient.CleanText(title)
	for {
		idx := strings.LastIndex(title, "|")
		if idx < 0 {
			break
		}
		title = strings.TrimSpace(title[:idx])
	}
	title = howToPrefixRe.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

var howToPrefixRe = regexp.MustCompile(`(?i)^how\s+to\s+(?:make|cook|prepare)\s+`)

var (
	ingredientsHeaderRe = regexp.MustCompile(`(?i)^[#*\s]*(?:ingredients?|shopping\s+list|what\s+you(?:'ll)?\s+need)\b`)
	directionsHeaderRe  = regexp.MustCompile(`(?i)^[#*\s]*(?:directions?|instructions?|method|steps?|preparation)\b`)
	notesHeaderRe       = regexp.MustCompile(`(?i)^[#*\s]*(?:notes?|tips?)\b`)

	timestampLineRe = regexp.MustCompile(`^\s*\d{1,2}:\d{2}(?::\d{2})?\b`)
	chapterLineRe   = regexp.MustCompile(`^\s*\d{1,2}:\d{2}(?::\d{2})?\s+[-–]?\s*(.{3,})$`)
	urlLineRe       = regexp.MustCompile(`(?i)https?://|www\.`)

	totalTimeRe = regexp.MustCompile(`(?i)total\s*time\s*[:\-]?\s*(?:(\d+)\s*h(?:ours?|rs?)?)?\s*(?:(\d+)\s*m(?:in(?:ute)?s?)?)?`)
	cookTimeRe  = regexp.MustCompile(`(?i)cook(?:ing)?\s*time\s*[:\-]?\s*(?:(\d+)\s*h(?:ours?|rs?)?)?\s*(?:(\d+)\s*m(?:in(?:ute)?s?)?)?`)
	prepTimeRe  = regexp.MustCompile(`(?i)prep(?:aration)?\s*time\s*[:\-]?\s*(?:(\d+)\s*h(?:ours?|rs?)?)?\s*(?:(\d+)\s*m(?:in(?:ute)?s?)?)?`)
)

// socialKeywords disqualify promo lines from the ingredient and
// direction buckets.
var socialKeywords = []string{
	"instagram", "facebook", "twitter", "tiktok", "patreon", "subscribe",
	"follow me", "follow us", "merch", "discord", "affiliate",
}

type descriptionBuckets struct {
	ingredients []string
	directions  []string
	notes       []string
	chapters    []string
}

// parseVideoDescription walks the description line by line, switching
// buckets on section headers and skipping timestamps, links and social
// promo lines. A measurement-shaped line before any header auto-opens
// the ingredients bucket.
func parseVideoDescription(description string) descriptionBuckets {
	var b descriptionBuckets
	current := ""

	for _, raw := range strings.Split(description, "\n") {
		line := ingredient.CleanText(raw)
		if line == "" {
			continue
		}

		// Headers are short lines; a long line that merely starts with
		// "step" or "note" is content.
		if len(line) <= 40 {
			switch {
			case ingredientsHeaderRe.MatchString(line):
				current = "ingredients"
				continue
			case directionsHeaderRe.MatchString(line):
				current = "directions"
				continue
			case notesHeaderRe.MatchString(line):
				current = "notes"
				continue
			}
		}

		if m := chapterLineRe.FindStringSubmatch(line); m != nil {
			if title := strings.TrimSpace(m[1]); title != "" && !urlLineRe.MatchString(title) {
				b.chapters = append(b.chapters, title)
			}
			continue
		}
		if timestampLineRe.MatchString(line) {
			continue
		}
		if urlLineRe.MatchString(line) || containsSocialKeyword(line) {
			continue
		}

		if current == "" {
			if ingredient.MeasurementShaped(line) {
				current = "ingredients"
			} else {
				continue
			}
		}

		switch current {
		case "ingredients":
			b.ingredients = append(b.ingredients, line)
		case "directions":
			b.directions = append(b.directions, splitNumberedSteps(line)...)
		case "notes":
			b.notes = append(b.notes, line)
		}
	}
	return b
}

func containsSocialKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range socialKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// findTime applies one of the per-field time regexes and normalizes the
// hit to the "Xh Ym" display form.
func findTime(description string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(description)
	if m == nil {
		return ""
	}
	hours := atoiSafe(m[1])
	minutes := atoiSafe(m[2])
	return formatDuration(hours, minutes)
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// cookingVerbs anchor caption sentences worth keeping as pseudo-steps.
var cookingVerbs = []string{
	"add", "mix", "stir", "whisk", "combine", "pour", "heat", "cook",
	"bake", "boil", "simmer", "fry", "saute", "sauté", "chop", "dice",
	"slice", "mince", "season", "sprinkle", "fold", "knead", "roll",
	"spread", "brush", "drain", "strain", "preheat", "melt", "grate",
	"blend", "marinate", "garnish", "serve", "remove", "transfer",
	"cover", "rest", "chill", "flip", "toss", "reduce", "grill",
}

// captionSteps scans the closed captions for cooking-action sentences.
// English track preferred, else the first available. Any failure is
// swallowed: no captions is a normal outcome.
func (s *VideoStrategy) captionSteps(ctx context.Context, id string) []string {
	tracks, err := s.client.CaptionTracks(ctx, id)
	if err != nil || len(tracks) == 0 {
		return nil
	}
	language := tracks[0].Language
	for _, t := range tracks {
		if t.Language == "en" || strings.HasPrefix(t.Language, "en-") {
			language = t.Language
			break
		}
	}
	text, err := s.client.Captions(ctx, id, language)
	if err != nil || text == "" {
		zap.L().Debug("extract: caption fetch failed",
			zap.String("video_id", id),
			zap.Error(err),
		)
		return nil
	}

	seen := make(map[string]struct{})
	var steps []string
	for _, sentence := range splitSentences(text) {
		if len(sentence) <= 20 {
			continue
		}
		first, _, _ := strings.Cut(strings.ToLower(sentence), " ")
		if !isCookingVerb(first) {
			continue
		}
		key := strings.ToLower(sentence)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		steps = append(steps, capitalize(sentence))
		if len(steps) >= 15 {
			break
		}
	}
	return steps
}

func isCookingVerb(word string) bool {
	word = strings.Trim(word, ",.")
	for _, v := range cookingVerbs {
		if word == v {
			return true
		}
	}
	return false
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+\s+`)

func splitSentences(text string) []string {
	parts := sentenceSplitRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(strings.Trim(p, ".!?")); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func capitalize(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
