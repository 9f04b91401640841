package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/forkful/recipe-cli/internal/ingredient"
	"github.com/forkful/recipe-cli/internal/model"
)

// maxRecipeSearchDepth bounds the recursive scan of decoded JSON-LD.
// Page-controlled input must not drive unbounded recursion.
const maxRecipeSearchDepth = 10

// extractJSONLD scans every ld+json script block for a Recipe object
// and maps the first hit. Returns nil when no block yields a recipe.
func extractJSONLD(doc *goquery.Document, w Weights) *model.Recipe {
	var recipe *model.Recipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		node := decodeRecipeBlock(sel.Text())
		if node == nil {
			return true
		}
		recipe = mapRecipeJSON(node, w)
		return recipe == nil
	})
	return recipe
}

// decodeRecipeBlock decodes one script body and locates the Recipe
// object inside it. Malformed JSON gets one repair attempt (escaping
// bare line endings inside the block) before the block is skipped.
func decodeRecipeBlock(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		repaired := strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\n`, "\t", " ").Replace(raw)
		if err := json.Unmarshal([]byte(repaired), &v); err != nil {
			return nil
		}
	}
	return findRecipeNode(v, 0)
}

// findRecipeNode walks the decoded value looking for an object whose
// @type is or includes "Recipe". Graph and array wrappers are searched
// recursively up to maxRecipeSearchDepth.
func findRecipeNode(v any, depth int) map[string]any {
	if depth > maxRecipeSearchDepth {
		return nil
	}
	switch node := v.(type) {
	case map[string]any:
		if isRecipeType(node["@type"]) {
			return node
		}
		if graph, ok := node["@graph"]; ok {
			if found := findRecipeNode(graph, depth+1); found != nil {
				return found
			}
		}
		for _, child := range node {
			switch child.(type) {
			case map[string]any, []any:
				if found := findRecipeNode(child, depth+1); found != nil {
					return found
				}
			}
		}
	case []any:
		for _, item := range node {
			if found := findRecipeNode(item, depth+1); found != nil {
				return found
			}
		}
	}
	return nil
}

func isRecipeType(t any) bool {
	switch typ := t.(type) {
	case string:
		return strings.EqualFold(typ, "Recipe")
	case []any:
		for _, item := range typ {
			if s, ok := item.(string); ok && strings.EqualFold(s, "Recipe") {
				return true
			}
		}
	}
	return false
}

// mapRecipeJSON converts a recipe-shaped JSON object into the engine's
// result type, assigning structured-data confidence to each field.
func mapRecipeJSON(node map[string]any, w Weights) *model.Recipe {
	r := &model.Recipe{}

	r.Name = firstString(node, "name", "title", "recipeName", "headline")
	if r.Name != "" {
		r.Name = ingredient.CleanText(r.Name)
		r.NameConfidence = w.StructuredName
	}

	raw := rawIngredientList(node)
	r.Ingredients = ingredient.ParseList(raw)
	if len(r.Ingredients) > 0 {
		r.IngredientsConfidence = w.StructuredList
	}

	r.Directions = rawDirectionList(node)
	if len(r.Directions) > 0 {
		r.DirectionsConfidence = w.StructuredList
	}

	if yield := firstString(node, "recipeYield", "yield", "serves"); yield != "" {
		r.Serves = ingredient.CleanText(yield)
		r.ServesConfidence = w.StructuredDerived
	}
	if t := firstString(node, "totalTime"); t != "" {
		if d := formatISODuration(t); d != "" {
			r.Time = d
			r.TimeConfidence = w.StructuredDerived
		}
	}
	if t := firstString(node, "prepTime"); t != "" {
		r.PrepTime = formatISODuration(t)
	}
	if t := firstString(node, "cookTime"); t != "" {
		r.CookTime = formatISODuration(t)
	}
	if r.Time == "" && (r.PrepTime != "" || r.CookTime != "") {
		r.Time = strings.TrimSpace(strings.Join([]string{r.PrepTime, r.CookTime}, " + "))
		r.Time = strings.Trim(r.Time, "+ ")
		r.TimeConfidence = w.StructuredDerived
	}

	r.ImageURL = imageURL(node["image"])
	if r.ImageURL != "" {
		r.ImageConfidence = w.StructuredDerived
	}

	if course := firstString(node, "recipeCategory", "category", "course"); course != "" {
		r.Course = ingredient.CleanText(listHead(course))
		r.CourseConfidence = w.StructuredCourse
	}
	if cuisine := firstString(node, "recipeCuisine", "cuisine"); cuisine != "" {
		r.Cuisine = ingredient.CleanText(listHead(cuisine))
		r.CuisineConfidence = w.StructuredDerived
	}

	if desc := firstString(node, "description"); desc != "" {
		r.Notes = ingredient.CleanText(desc)
	}

	r.Nutrition = mapNutrition(node["nutrition"])
	r.Equipment = stringList(node["tool"])

	if !r.HasContent() && r.Name == "" {
		return nil
	}
	return r
}

// rawIngredientList supports the three shapes seen in the wild: flat
// strings, grouped objects (group name + nested item list, emitted as a
// [section] marker followed by its items) and component objects with
// separate quantity/unit/name fields.
func rawIngredientList(node map[string]any) []string {
	var out []string
	for _, key := range []string{"recipeIngredient", "ingredients", "ingredient_sections", "ingredient"} {
		v, ok := node[key]
		if !ok {
			continue
		}
		out = flattenIngredients(v, out)
		if len(out) > 0 {
			return out
		}
	}
	return out
}

func flattenIngredients(v any, out []string) []string {
	switch item := v.(type) {
	case string:
		if s := ingredient.CleanText(item); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, child := range item {
			out = flattenIngredients(child, out)
		}
	case map[string]any:
		// Grouped shape: {"name": "For the sauce", "ingredients"|"items"|"itemListElement": [...]}.
		for _, groupKey := range []string{"ingredients", "items", "itemListElement"} {
			if group, ok := item[groupKey]; ok {
				if name := firstString(item, "name", "title", "header"); name != "" {
					out = append(out, "["+ingredient.CleanText(name)+"]")
				}
				return flattenIngredients(group, out)
			}
		}
		// Component shape: quantity + unit + name (+ extra comment).
		name := firstString(item, "name", "ingredient", "text")
		if name == "" {
			return out
		}
		parts := make([]string, 0, 4)
		if q := firstString(item, "quantity", "amount"); q != "" {
			parts = append(parts, q)
		}
		if u := firstString(item, "unit", "units", "measure"); u != "" {
			parts = append(parts, u)
		}
		parts = append(parts, name)
		if extra := firstString(item, "extraComment", "comment", "note"); extra != "" {
			parts = append(parts, "("+extra+")")
		}
		if s := ingredient.CleanText(strings.Join(parts, " ")); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// rawDirectionList supports flat strings, HowToStep objects and
// HowToSection objects whose nested steps are prefixed with a bolded
// section marker.
func rawDirectionList(node map[string]any) []string {
	var out []string
	for _, key := range []string{"recipeInstructions", "instructions", "directions", "steps"} {
		v, ok := node[key]
		if !ok {
			continue
		}
		out = flattenDirections(v, out)
		if len(out) > 0 {
			return out
		}
	}
	return out
}

func flattenDirections(v any, out []string) []string {
	switch item := v.(type) {
	case string:
		for _, line := range splitInstructionText(item) {
			out = append(out, line)
		}
	case []any:
		for _, child := range item {
			out = flattenDirections(child, out)
		}
	case map[string]any:
		typ, _ := item["@type"].(string)
		if strings.EqualFold(typ, "HowToSection") {
			if name := firstString(item, "name", "title"); name != "" {
				out = append(out, "**"+ingredient.CleanText(name)+"**")
			}
			return flattenDirections(item["itemListElement"], out)
		}
		if text := firstString(item, "text", "name", "description"); text != "" {
			if s := ingredient.CleanText(text); s != "" {
				out = append(out, s)
			}
		} else if steps, ok := item["itemListElement"]; ok {
			return flattenDirections(steps, out)
		}
	}
	return out
}

// splitInstructionText breaks a single blob of instruction text into
// steps on blank lines, falling back to the whole cleaned string.
func splitInstructionText(s string) []string {
	var out []string
	for _, para := range strings.Split(s, "\n\n") {
		for _, line := range strings.Split(para, "\n") {
			if clean := ingredient.CleanText(line); clean != "" {
				out = append(out, clean)
			}
		}
	}
	return out
}

func mapNutrition(v any) *model.Nutrition {
	node, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	n := &model.Nutrition{
		Calories: firstString(node, "calories"),
		Fat:      firstString(node, "fatContent"),
		Carbs:    firstString(node, "carbohydrateContent"),
		Protein:  firstString(node, "proteinContent"),
		Fiber:    firstString(node, "fiberContent"),
		Sugar:    firstString(node, "sugarContent"),
		Sodium:   firstString(node, "sodiumContent"),
	}
	if *n == (model.Nutrition{}) {
		return nil
	}
	return n
}

// imageURL digs the image URL out of the string / object / array shapes
// schema.org allows.
func imageURL(v any) string {
	switch img := v.(type) {
	case string:
		return strings.TrimSpace(img)
	case map[string]any:
		return firstString(img, "url", "contentUrl")
	case []any:
		if len(img) > 0 {
			return imageURL(img[0])
		}
	}
	return ""
}

// firstString returns the first non-empty string value among the keys,
// coercing single-element arrays and numbers.
func firstString(node map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := node[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		}
	}
	return ""
}

func stringList(v any) []string {
	var out []string
	switch list := v.(type) {
	case string:
		if s := ingredient.CleanText(list); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range list {
			switch entry := item.(type) {
			case string:
				if s := ingredient.CleanText(entry); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				if s := firstString(entry, "name", "text"); s != "" {
					out = append(out, ingredient.CleanText(s))
				}
			}
		}
	}
	return out
}

// listHead takes the first entry of a comma-separated classifier.
func listHead(s string) string {
	head, _, _ := strings.Cut(s, ",")
	return strings.TrimSpace(head)
}
