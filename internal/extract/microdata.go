package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/forkful/recipe-cli/internal/ingredient"
	"github.com/forkful/recipe-cli/internal/model"
)

// sentenceBoundaryRe finds a sentence end followed by a capital letter,
// used to split instruction blobs that carry no markup structure.
var sentenceBoundaryRe = regexp.MustCompile(`\.\s+([A-Z])`)

// extractMicrodata reads schema.org microdata (itemtype/itemprop
// attributes) from an element typed as a Recipe.
func extractMicrodata(doc *goquery.Document, w Weights) *model.Recipe {
	scope := doc.Find(`[itemtype*="Recipe"]`).First()
	if scope.Length() == 0 {
		return nil
	}

	r := &model.Recipe{}

	if name := itempropValue(scope.Find(`[itemprop="name"]`).First()); name != "" {
		r.Name = name
		r.NameConfidence = w.MicrodataName
	}

	var rawIngredients []string
	scope.Find(`[itemprop="recipeIngredient"], [itemprop="ingredients"]`).Each(func(_ int, sel *goquery.Selection) {
		v := itempropValue(sel)
		if v == "" {
			return
		}
		// Comma-separated content attributes hold several ingredients in
		// one value, unless the commas sit inside a parenthetical.
		if strings.Contains(v, ",") && !strings.Contains(v, "(") {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					rawIngredients = append(rawIngredients, part)
				}
			}
			return
		}
		rawIngredients = append(rawIngredients, v)
	})
	r.Ingredients = ingredient.ParseList(rawIngredients)
	if len(r.Ingredients) > 0 {
		r.IngredientsConfidence = w.MicrodataList
	}

	r.Directions = microdataDirections(scope)
	if len(r.Directions) > 0 {
		r.DirectionsConfidence = w.MicrodataList
	}

	if yield := itempropValue(scope.Find(`[itemprop="recipeYield"]`).First()); yield != "" {
		r.Serves = yield
		r.ServesConfidence = w.MicrodataList
	}
	for _, prop := range []string{"totalTime", "cookTime", "prepTime"} {
		sel := scope.Find(`[itemprop="` + prop + `"]`).First()
		if sel.Length() == 0 {
			continue
		}
		raw := sel.AttrOr("datetime", sel.AttrOr("content", ""))
		if raw == "" {
			raw = strings.TrimSpace(sel.Text())
		}
		if d := formatISODuration(raw); d != "" {
			r.Time = d
			r.TimeConfidence = w.MicrodataList
			break
		}
	}
	if img := scope.Find(`[itemprop="image"]`).First(); img.Length() > 0 {
		r.ImageURL = img.AttrOr("src", img.AttrOr("content", ""))
		if r.ImageURL != "" {
			r.ImageConfidence = w.MicrodataList
		}
	}

	if !r.HasContent() {
		return nil
	}
	return r
}

// microdataDirections prefers explicit step sub-elements; a single text
// blob is split on blank lines, then on sentence boundaries, dropping
// fragments under 10 characters.
func microdataDirections(scope *goquery.Selection) []string {
	var out []string

	steps := scope.Find(`[itemprop="recipeInstructions"] [itemprop="itemListElement"], [itemprop="recipeInstructions"] li, li[itemprop="recipeInstructions"]`)
	if steps.Length() > 1 {
		steps.Each(func(_ int, sel *goquery.Selection) {
			if s := ingredient.CleanText(sel.Text()); len(s) >= 10 {
				out = append(out, s)
			}
		})
		return out
	}

	blob := scope.Find(`[itemprop="recipeInstructions"]`).First()
	if blob.Length() == 0 {
		return nil
	}
	text := itempropValue(blob)
	if text == "" {
		text = strings.TrimSpace(blob.Text())
	}
	if text == "" {
		return nil
	}

	paragraphs := regexp.MustCompile(`\n\s*\n`).Split(text, -1)
	if len(paragraphs) == 1 {
		// No blank lines: split after sentence ends that precede a capital.
		text = sentenceBoundaryRe.ReplaceAllString(text, ".\n$1")
		paragraphs = strings.Split(text, "\n")
	}
	for _, p := range paragraphs {
		if s := ingredient.CleanText(p); len(s) >= 10 {
			out = append(out, s)
		}
	}
	return out
}

// itempropValue prefers the content/value attributes over element text.
func itempropValue(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	if v, ok := sel.Attr("content"); ok && strings.TrimSpace(v) != "" {
		return ingredient.CleanText(v)
	}
	if v, ok := sel.Attr("value"); ok && strings.TrimSpace(v) != "" {
		return ingredient.CleanText(v)
	}
	return ingredient.CleanText(sel.Text())
}
