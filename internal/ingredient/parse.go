package ingredient

import (
	"regexp"
	"strings"

	"github.com/forkful/recipe-cli/internal/model"
)

// quantityRe matches the leading quantity of an ingredient line:
// integers, decimals, ASCII fractions, unicode vulgar fractions, mixed
// numbers ("1 1/2", "1½") and ranges ("1-2", "1 to 2").
var quantityRe = regexp.MustCompile(`^((?:\d+\s+\d+/\d+)|(?:\d+/\d+)|(?:\d+(?:\.\d+)?\s*[¼½¾⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞]?)|(?:[¼½¾⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞]))(?:\s*(?:-|–|to)\s*((?:\d+\s+\d+/\d+)|(?:\d+/\d+)|(?:\d+(?:\.\d+)?)|(?:[¼½¾⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞])))?`)

// MeasurementShaped reports whether the line starts with a number
// followed by a unit word, the shape heuristics use to keep unguided
// list-item candidates.
var measurementShapedRe = regexp.MustCompile(`(?i)^\s*(?:\d+(?:[./]\d+)?|[¼½¾⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞])\s*(?:` + unitPattern + `)\b`)

func MeasurementShaped(line string) bool {
	return measurementShapedRe.MatchString(CleanText(line))
}

// Parse tokenizes one free-text ingredient line. A bracketed section
// label becomes a section-header record. Missing quantity or unit is
// fine; a bare name is a valid ingredient.
func Parse(line string) model.Ingredient {
	line = CleanText(line)

	if name, ok := SectionName(line); ok {
		return model.Ingredient{Name: name, IsSection: true}
	}

	var ing model.Ingredient
	rest := line

	if m := quantityRe.FindString(rest); m != "" {
		ing.Quantity = strings.TrimSpace(m)
		rest = strings.TrimSpace(rest[len(m):])
	}

	// Unit: the first word (or two, for "fl oz") after the quantity.
	if rest != "" {
		fields := strings.Fields(rest)
		if len(fields) >= 2 && IsUnit(fields[0]+" "+fields[1]) {
			ing.Unit = strings.ToLower(fields[0] + " " + fields[1])
			rest = strings.TrimSpace(strings.TrimPrefix(rest, fields[0]))
			rest = strings.TrimSpace(strings.TrimPrefix(rest, fields[1]))
		} else if len(fields) >= 1 && IsUnit(fields[0]) {
			ing.Unit = strings.ToLower(strings.TrimSuffix(fields[0], "."))
			rest = strings.TrimSpace(rest[len(fields[0]):])
		}
	}
	rest = strings.TrimPrefix(rest, "of ")

	// Preparation notes: a trailing parenthetical, else everything after
	// the first comma ("garlic, minced").
	if open := strings.Index(rest, "("); open >= 0 {
		if end := strings.LastIndex(rest, ")"); end > open {
			prep := strings.TrimSpace(rest[open+1 : end])
			rest = CleanText(rest[:open] + rest[end+1:])
			ing.Preparation = prep
		}
	}
	if name, prep, ok := strings.Cut(rest, ","); ok {
		rest = strings.TrimSpace(name)
		prep = strings.TrimSpace(prep)
		if ing.Preparation == "" {
			ing.Preparation = prep
		} else if prep != "" {
			ing.Preparation += ", " + prep
		}
	}

	ing.Name = strings.TrimSpace(rest)
	if ing.Name == "" && ing.Unit != "" {
		// "1 cup" with nothing after: treat the unit as the name rather
		// than dropping the row.
		ing.Name = ing.Unit
		ing.Unit = ""
	}
	return ing
}

// ParseList tokenizes a raw ingredient list, tracking section headers:
// each subsequent ingredient carries the most recent section name.
func ParseList(lines []string) []model.Ingredient {
	var out []model.Ingredient
	section := ""
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ing := Parse(line)
		if ing.IsSection {
			section = ing.Name
			out = append(out, ing)
			continue
		}
		if ing.Name == "" {
			continue
		}
		ing.Section = section
		out = append(out, ing)
	}
	return out
}
