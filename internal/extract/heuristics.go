package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/forkful/recipe-cli/internal/ingredient"
	"github.com/forkful/recipe-cli/internal/model"
)

// Known recipe-plugin selectors, tried before the generic scans. These
// cover the WordPress plugins that dominate food blogs.
var (
	pluginIngredientSelectors = []string{
		".wprm-recipe-ingredient",
		".tasty-recipes-ingredients li",
		".mv-create-ingredients li",
		".ingredients-item-name",
		"li.ingredient",
		".recipe-ingredients li",
	}
	pluginDirectionSelectors = []string{
		".wprm-recipe-instruction-text",
		".tasty-recipes-instructions li",
		".mv-create-instructions li",
		".instructions-section .section-body",
		".recipe-instructions li",
		".directions li",
	}
)

// shopifyRecipeInfoRe matches the embedded recipe-info JSON blocks a
// known e-commerce platform renders for product recipe tabs.
var shopifyRecipeInfoRe = regexp.MustCompile(`(?s)<script[^>]*(?:id|class)="[^"]*recipe[-_]info[^"]*"[^>]*type="application/json"[^>]*>(.*?)</script>`)

// numberedStepRe recognizes numbered-but-unseparated steps: a digit
// glued straight onto a capital letter.
var numberedStepRe = regexp.MustCompile(`\d+([A-Z])`)

// extractHeuristic is the lowest-confidence tier of the web strategy:
// embedded commerce JSON, the site config table, plugin selectors, a
// heading-plus-siblings scan, and finally an unguided list-item scan.
func extractHeuristic(src *Source, w Weights) *model.Recipe {
	r := &model.Recipe{}

	if src.Body != "" {
		if fromJSON := extractCommerceJSON(src.Body, w); fromJSON != nil {
			r = fromJSON
		}
	}

	doc := src.Doc
	if doc == nil {
		if r.HasContent() {
			return r
		}
		return nil
	}

	if len(r.Ingredients) == 0 {
		r.Ingredients = extractWithSiteConfigs(doc)
	}
	if len(r.Ingredients) == 0 {
		r.Ingredients = ingredientsFromSelectors(doc, pluginIngredientSelectors)
	}
	if len(r.Ingredients) == 0 {
		r.Ingredients = ingredientsFromHeadingScan(doc)
	}
	if len(r.Ingredients) == 0 {
		r.Ingredients = ingredientsFromAnyList(doc)
	}
	if len(r.Ingredients) > 0 && r.IngredientsConfidence == 0 {
		r.IngredientsConfidence = w.HeuristicList
	}

	if len(r.Directions) == 0 {
		r.Directions = directionsFromSelectors(doc, pluginDirectionSelectors)
	}
	if len(r.Directions) == 0 {
		r.Directions = directionsFromHeadingScan(doc)
	}
	if len(r.Directions) > 0 && r.DirectionsConfidence == 0 {
		r.DirectionsConfidence = w.HeuristicList
	}

	if !r.HasContent() {
		return nil
	}

	if r.Name == "" {
		r.Name = pageTitle(doc)
		if r.Name != "" {
			r.NameConfidence = w.HeuristicName
		}
	}
	if r.ImageURL == "" {
		if img, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
			r.ImageURL = strings.TrimSpace(img)
			r.ImageConfidence = w.HeuristicName
		}
	}
	return r
}

// extractCommerceJSON decodes recipe-info blocks embedded by shop
// themes: a flat JSON object with name/ingredients/directions arrays.
func extractCommerceJSON(body string, w Weights) *model.Recipe {
	m := shopifyRecipeInfoRe.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	var node map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &node); err != nil {
		return nil
	}
	r := mapRecipeJSON(node, w)
	if r == nil || !r.HasContent() {
		return nil
	}
	r.IngredientsConfidence = min(r.IngredientsConfidence, w.HeuristicList)
	r.DirectionsConfidence = min(r.DirectionsConfidence, w.HeuristicList)
	return r
}

func ingredientsFromSelectors(doc *goquery.Document, selectors []string) []model.Ingredient {
	for _, selector := range selectors {
		var lines []string
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if s := ingredient.CleanText(sel.Text()); s != "" {
				lines = append(lines, s)
			}
		})
		if parsed := ingredient.ParseList(lines); len(parsed) > 0 {
			return parsed
		}
	}
	return nil
}

// ingredientsFromHeadingScan looks for a heading containing the word
// "ingredient" and scans up to 5 following siblings for a list or for
// ingredient-shaped paragraphs.
func ingredientsFromHeadingScan(doc *goquery.Document) []model.Ingredient {
	var lines []string
	doc.Find("h1, h2, h3, h4, strong").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(heading.Text()), "ingredient") {
			return true
		}
		lines = linesNearHeading(heading, func(text string) bool {
			return ingredient.MeasurementShaped(text)
		})
		return len(lines) == 0
	})
	return ingredient.ParseList(lines)
}

// linesNearHeading walks up to 5 siblings after a heading (checking the
// parent's siblings when the heading is inline) collecting list items,
// or paragraphs accepted by keep.
func linesNearHeading(heading *goquery.Selection, keep func(string) bool) []string {
	scopes := []*goquery.Selection{heading, heading.Parent()}
	for _, scope := range scopes {
		var lines []string
		sibling := scope.Next()
		for range 5 {
			if sibling.Length() == 0 {
				break
			}
			if sibling.Is("ul, ol") {
				sibling.Find("li").Each(func(_ int, li *goquery.Selection) {
					if s := ingredient.CleanText(li.Text()); s != "" {
						lines = append(lines, s)
					}
				})
				if len(lines) > 0 {
					return lines
				}
			}
			if list := sibling.Find("ul, ol").First(); list.Length() > 0 {
				list.Find("li").Each(func(_ int, li *goquery.Selection) {
					if s := ingredient.CleanText(li.Text()); s != "" {
						lines = append(lines, s)
					}
				})
				if len(lines) > 0 {
					return lines
				}
			}
			if sibling.Is("p") {
				if s := ingredient.CleanText(sibling.Text()); s != "" && keep(s) {
					lines = append(lines, s)
				}
			}
			sibling = sibling.Next()
		}
		if len(lines) > 0 {
			return lines
		}
	}
	return nil
}

// ingredientsFromAnyList is the last resort: every list item on the
// page, keeping only lines shaped like a measurement.
func ingredientsFromAnyList(doc *goquery.Document) []model.Ingredient {
	var lines []string
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		s := ingredient.CleanText(li.Text())
		if s != "" && ingredient.MeasurementShaped(s) {
			lines = append(lines, s)
		}
	})
	if len(lines) < 2 {
		// A single matching item is more likely navigation noise.
		return nil
	}
	return ingredient.ParseList(lines)
}

func directionsFromSelectors(doc *goquery.Document, selectors []string) []string {
	for _, selector := range selectors {
		var steps []string
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if s := ingredient.CleanText(sel.Text()); len(s) >= 10 {
				steps = append(steps, s)
			}
		})
		if len(steps) > 0 {
			return steps
		}
	}
	return nil
}

// directionsFromHeadingScan mirrors the ingredient heading scan for
// direction headings, and also recognizes numbered-but-unseparated
// steps inside a single paragraph.
func directionsFromHeadingScan(doc *goquery.Document) []string {
	var steps []string
	doc.Find("h1, h2, h3, h4, strong").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		ht := strings.ToLower(heading.Text())
		if !strings.Contains(ht, "direction") && !strings.Contains(ht, "instruction") && !strings.Contains(ht, "method") {
			return true
		}
		lines := linesNearHeading(heading, func(text string) bool {
			return len(text) >= 10
		})
		for _, line := range lines {
			steps = append(steps, splitNumberedSteps(line)...)
		}
		return len(steps) == 0
	})
	return steps
}

// splitNumberedSteps breaks "1Heat the oil.2Add onions." style runs,
// stripping the glued step numbers.
func splitNumberedSteps(s string) []string {
	if !numberedStepRe.MatchString(s) {
		return []string{s}
	}
	marked := numberedStepRe.ReplaceAllString(s, "\n$1")
	var out []string
	for _, part := range strings.Split(marked, "\n") {
		if part = strings.TrimSpace(part); len(part) >= 10 {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return []string{s}
	}
	return out
}

func pageTitle(doc *goquery.Document) string {
	if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		return cleanSiteSuffix(ingredient.CleanText(t))
	}
	return cleanSiteSuffix(ingredient.CleanText(doc.Find("title").First().Text()))
}

// cleanSiteSuffix strips a trailing "| Site Name" style suffix.
func cleanSiteSuffix(title string) string {
	for _, sep := range []string{" | ", " – ", " - "} {
		if idx := strings.Index(title, sep); idx > 0 {
			return strings.TrimSpace(title[:idx])
		}
	}
	return title
}
