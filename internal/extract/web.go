package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/forkful/recipe-cli/internal/model"
)

// WebStrategy handles the general case of arbitrary recipe web pages,
// degrading through JSON-LD, embedded framework state, microdata and
// HTML heuristics.
type WebStrategy struct {
	weights Weights
}

// NewWebStrategy creates the strategy with the given confidence weights.
func NewWebStrategy(w Weights) *WebStrategy {
	return &WebStrategy{weights: w}
}

func (s *WebStrategy) Name() string { return "web" }

// Confidence scores the source: highest when structured data or
// microdata is present, moderate for any parsed document, lowest when
// only raw body text is available.
func (s *WebStrategy) Confidence(src *Source) float64 {
	if src.Doc != nil {
		if src.Doc.Find(`script[type="application/ld+json"]`).Length() > 0 ||
			src.Doc.Find(`[itemtype*="Recipe"]`).Length() > 0 {
			return s.weights.WebStructured
		}
		return s.weights.WebDocument
	}
	if src.Body != "" {
		return s.weights.WebBodyOnly
	}
	return 0
}

// Extract attempts each tier in order, stopping at the first that
// produces content, then applies the enhancement passes. A structured
// node without ingredients or directions (a teaser card) does not stop
// the cascade: its metadata is kept and merged into the lower tier's
// result.
func (s *WebStrategy) Extract(ctx context.Context, src *Source) (*model.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := src.Doc
	if doc == nil && src.Body != "" {
		if parsed, err := goquery.NewDocumentFromReader(strings.NewReader(src.Body)); err == nil {
			doc = parsed
		}
	}

	var structured *model.Recipe
	if doc != nil {
		structured = extractJSONLD(doc, s.weights)
	}

	r := structured
	if !r.HasContent() {
		r = nil
	}
	if r != nil {
		enhanceSections(r, doc, s.weights)
	}

	if r == nil && src.Body != "" {
		r = extractAppState(src.Body, s.weights)
	}
	if r == nil && doc != nil {
		r = extractMicrodata(doc, s.weights)
	}
	if r == nil {
		heuristicSrc := &Source{URL: src.URL, Doc: doc, Body: src.Body}
		r = extractHeuristic(heuristicSrc, s.weights)
	}
	if r == nil {
		return nil, nil
	}
	if r != structured {
		mergeStructuredMeta(r, structured)
	}

	if isDrinkSource(src, r) {
		enrichDrink(r, &Source{URL: src.URL, Doc: doc, Body: src.Body})
	}
	return r, nil
}

// mergeStructuredMeta carries metadata from a contentless structured
// node into the result a lower tier produced. The structured name wins
// when its confidence is higher; every other field only fills a gap.
func mergeStructuredMeta(dst, src *model.Recipe) {
	if dst == nil || src == nil {
		return
	}
	if src.Name != "" && src.NameConfidence > dst.NameConfidence {
		dst.Name = src.Name
		dst.NameConfidence = src.NameConfidence
	}
	if dst.Serves == "" && src.Serves != "" {
		dst.Serves = src.Serves
		dst.ServesConfidence = src.ServesConfidence
	}
	if dst.Time == "" && src.Time != "" {
		dst.Time = src.Time
		dst.TimeConfidence = src.TimeConfidence
	}
	if dst.PrepTime == "" {
		dst.PrepTime = src.PrepTime
	}
	if dst.CookTime == "" {
		dst.CookTime = src.CookTime
	}
	if dst.ImageURL == "" && src.ImageURL != "" {
		dst.ImageURL = src.ImageURL
		dst.ImageConfidence = src.ImageConfidence
	}
	if dst.Notes == "" {
		dst.Notes = src.Notes
	}
	if dst.Course == "" && src.Course != "" {
		dst.Course = src.Course
		dst.CourseConfidence = src.CourseConfidence
	}
	if dst.Cuisine == "" && src.Cuisine != "" {
		dst.Cuisine = src.Cuisine
		dst.CuisineConfidence = src.CuisineConfidence
	}
	if dst.Nutrition == nil {
		dst.Nutrition = src.Nutrition
	}
	if len(dst.Equipment) == 0 {
		dst.Equipment = src.Equipment
	}
}
