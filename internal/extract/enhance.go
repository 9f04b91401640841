package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/forkful/recipe-cli/internal/ingredient"
	"github.com/forkful/recipe-cli/internal/model"
)

// sectionHeaderSelectors recognize ingredient section headers in HTML
// when the page's structured data flattened them away.
var sectionHeaderSelectors = []string{
	".wprm-recipe-ingredient-group .wprm-recipe-group-name",
	".tasty-recipes-ingredients-body h4",
	".structured-ingredients__list-heading",
	"[class*='ingredient-group'] h4",
	"[class*='ingredient-section'] h4",
	"[class*='ingredients'] h3",
}

// hasSectionStructure reports whether the document shows ingredient
// section headers.
func hasSectionStructure(doc *goquery.Document) bool {
	for _, selector := range sectionHeaderSelectors {
		if doc.Find(selector).Length() > 0 {
			return true
		}
	}
	return false
}

// enhanceSections re-derives sectioned ingredients from HTML structure
// when the structured-data result carries a flat list but the page
// shows section groupings. A successful re-extraction replaces the
// ingredient list and raises its confidence.
func enhanceSections(r *model.Recipe, doc *goquery.Document, w Weights) {
	if doc == nil || len(r.Ingredients) == 0 {
		return
	}
	for _, ing := range r.Ingredients {
		if ing.IsSection {
			return // already sectioned
		}
	}
	if !hasSectionStructure(doc) {
		return
	}
	sectioned := extractWithSiteConfigs(doc)
	if len(sectioned) == 0 {
		return
	}
	hasHeader := false
	for _, ing := range sectioned {
		if ing.IsSection {
			hasHeader = true
			break
		}
	}
	if !hasHeader {
		return
	}
	r.Ingredients = sectioned
	r.IngredientsConfidence = w.SectionedIngredients
}

// drinkDomains is the allowlist of cocktail publications; pages from
// these hosts get the glass/garnish enrichment pass even without a
// course classifier.
var drinkDomains = []string{
	"diffordsguide.com",
	"liquor.com",
	"punchdrink.com",
	"imbibemagazine.com",
	"thecocktaildb.com",
}

var (
	serveInRe     = regexp.MustCompile(`(?i)serve[d]?\s+in\s+an?\s+([^.<\n]{2,60}?)(?:\s+glass)?[.<\n]`)
	garnishLineRe = regexp.MustCompile(`(?i)garnish(?:\s+with)?\s*[:\-]\s*([^.<\n]{2,120})`)
	glassLineRe   = regexp.MustCompile(`(?i)glass(?:ware)?\s*[:\-]\s*([^.<\n]{2,60})`)
)

// isDrinkSource decides whether the drink enrichment pass applies.
func isDrinkSource(src *Source, r *model.Recipe) bool {
	if strings.EqualFold(r.Course, "drinks") || strings.EqualFold(r.Course, "cocktails") {
		return true
	}
	u, err := url.Parse(src.URL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, domain := range drinkDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// enrichDrink scans markup and prose for glass and garnish metadata,
// trying the most specific patterns first. Existing fields are never
// overwritten.
func enrichDrink(r *model.Recipe, src *Source) {
	doc := src.Doc

	if doc != nil {
		// Combined "glass and garnish" heading with a following list.
		doc.Find("h2, h3, h4, strong").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
			ht := strings.ToLower(heading.Text())
			if !strings.Contains(ht, "glass") || !strings.Contains(ht, "garnish") {
				return true
			}
			lines := linesNearHeading(heading, func(s string) bool { return len(s) > 1 })
			for _, line := range lines {
				applyDrinkLine(r, line)
			}
			return r.Glass == "" && len(r.Garnish) == 0
		})

		// "Glass:" heading followed by a link.
		if r.Glass == "" {
			doc.Find("h3, h4, dt, strong").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
				if !strings.EqualFold(strings.TrimSuffix(ingredient.CleanText(heading.Text()), ":"), "glass") {
					return true
				}
				next := heading.Next()
				value := ingredient.CleanText(next.Find("a").First().Text())
				if value == "" {
					value = ingredient.CleanText(next.Text())
				}
				if value != "" {
					r.Glass = value
					return false
				}
				return true
			})
		}
	}

	body := src.Body
	if body == "" && doc != nil {
		body = doc.Text()
	}

	if r.Glass == "" {
		if m := glassLineRe.FindStringSubmatch(body); m != nil {
			r.Glass = ingredient.CleanText(m[1])
		}
	}
	if r.Glass == "" {
		if m := serveInRe.FindStringSubmatch(body); m != nil {
			r.Glass = ingredient.CleanText(m[1])
		}
	}
	if len(r.Garnish) == 0 {
		if m := garnishLineRe.FindStringSubmatch(body); m != nil {
			for _, g := range strings.Split(m[1], ",") {
				g = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(g), "and "))
				if g != "" {
					r.Garnish = append(r.Garnish, ingredient.CleanText(g))
				}
			}
		}
	}
	if r.Course == "" && (r.Glass != "" || len(r.Garnish) > 0) {
		r.Course = "Drinks"
	}
}

// applyDrinkLine routes one "Glass: coupe" / "Garnish: lime wheel"
// style line to the matching field.
func applyDrinkLine(r *model.Recipe, line string) {
	if m := glassLineRe.FindStringSubmatch(line); m != nil && r.Glass == "" {
		r.Glass = ingredient.CleanText(m[1])
		return
	}
	if m := garnishLineRe.FindStringSubmatch(line); m != nil && len(r.Garnish) == 0 {
		for _, g := range strings.Split(m[1], ",") {
			if g = strings.TrimSpace(g); g != "" {
				r.Garnish = append(r.Garnish, ingredient.CleanText(g))
			}
		}
	}
}
