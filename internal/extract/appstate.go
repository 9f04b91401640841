package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/forkful/recipe-cli/internal/model"
)

// stateAnchors match the server-rendered state payloads of the web
// frameworks we know how to mine. Each capture group is the JSON
// segment to decode. None of these payloads is a public contract, so a
// failed decode just skips the anchor.
var stateAnchors = []*regexp.Regexp{
	// Next.js: full-page props blob.
	regexp.MustCompile(`(?s)<script[^>]*id="__NEXT_DATA__"[^>]*>(.*?)</script>`),
	// Nuxt 3 server payload.
	regexp.MustCompile(`(?s)<script[^>]*id="__NUXT_DATA__"[^>]*>(.*?)</script>`),
	// Classic window-global hydration states.
	regexp.MustCompile(`(?s)window\.__INITIAL_STATE__\s*=\s*(\{.*?\})\s*(?:;|</script>)`),
	regexp.MustCompile(`(?s)window\.__APOLLO_STATE__\s*=\s*(\{.*?\})\s*(?:;|</script>)`),
	regexp.MustCompile(`(?s)window\.__PRELOADED_STATE__\s*=\s*(\{.*?\})\s*(?:;|</script>)`),
}

// statePaths are the known object paths from a decoded state root to a
// recipe candidate, tried before the recursive fallback.
var statePaths = [][]string{
	{"props", "pageProps", "recipe"},
	{"props", "pageProps", "data", "recipe"},
	{"props", "pageProps", "data"},
	{"props", "pageProps"},
	{"data", "recipe"},
	{"data"},
	{"state", "recipe"},
	{"recipe"},
}

// maxStateSearchDepth bounds the recursive fallback over hydration
// state, which nests far deeper than JSON-LD ever does.
const maxStateSearchDepth = 6

// extractAppState mines raw body text for embedded framework state and
// maps the first recipe-shaped candidate found.
func extractAppState(body string, w Weights) *model.Recipe {
	if body == "" {
		return nil
	}
	for _, anchor := range stateAnchors {
		m := anchor.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		var root any
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &root); err != nil {
			continue
		}
		candidate := findStateCandidate(root)
		if candidate == nil {
			continue
		}
		// A shaped candidate can still map to nothing (empty lists);
		// only a result with content ends the anchor scan.
		if r := mapRecipeJSON(candidate, w); r.HasContent() {
			return r
		}
	}
	return nil
}

// findStateCandidate tries the known paths, then falls back to a
// bounded recursive scan. An object qualifies only if it has a
// name-like field and at least one of an ingredient-like or
// instruction-like field.
func findStateCandidate(root any) map[string]any {
	node, ok := root.(map[string]any)
	if ok {
		for _, path := range statePaths {
			if candidate := objectAtPath(node, path); candidate != nil && isRecipeShaped(candidate) {
				return candidate
			}
		}
	}
	return scanForRecipeShape(root, 0)
}

func objectAtPath(node map[string]any, path []string) map[string]any {
	current := node
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

func isRecipeShaped(node map[string]any) bool {
	if firstString(node, "name", "title", "recipeName") == "" {
		return false
	}
	for _, key := range []string{"recipeIngredient", "ingredients", "ingredient_sections", "ingredient"} {
		if _, ok := node[key]; ok {
			return true
		}
	}
	for _, key := range []string{"recipeInstructions", "instructions", "directions", "steps"} {
		if _, ok := node[key]; ok {
			return true
		}
	}
	return false
}

func scanForRecipeShape(v any, depth int) map[string]any {
	if depth > maxStateSearchDepth {
		return nil
	}
	switch node := v.(type) {
	case map[string]any:
		if isRecipeShaped(node) {
			return node
		}
		for _, child := range node {
			if found := scanForRecipeShape(child, depth+1); found != nil {
				return found
			}
		}
	case []any:
		for _, item := range node {
			if found := scanForRecipeShape(item, depth+1); found != nil {
				return found
			}
		}
	}
	return nil
}
