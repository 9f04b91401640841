package ingredient

import "strings"

// units is the fixed measurement vocabulary, longest-first so that the
// regexp built from it prefers "tablespoons" over "tablespoon" and the
// map lookups stay exact.
var units = []string{
	"tablespoons", "tablespoon", "teaspoons", "teaspoon",
	"tbsps", "tbsp", "tsps", "tsp",
	"cups", "cup",
	"ounces", "ounce", "oz",
	"fluid ounces", "fluid ounce", "fl oz",
	"pounds", "pound", "lbs", "lb",
	"grams", "gram", "g", "kilograms", "kilogram", "kg",
	"milliliters", "millilitres", "milliliter", "millilitre", "ml",
	"liters", "litres", "liter", "litre", "l",
	"pints", "pint", "quarts", "quart", "gallons", "gallon",
	"cloves", "clove", "sticks", "stick", "cans", "can",
	"packages", "package", "pinches", "pinch", "dashes", "dash",
	"slices", "slice", "sprigs", "sprig", "bunches", "bunch",
	"handfuls", "handful", "drops", "drop", "splashes", "splash",
	"shots", "shot", "parts", "part", "cl", "dl",
	"pieces", "piece", "heads", "head", "stalks", "stalk", "ears", "ear",
}

// unitPattern is the alternation used inside measurement regexps. Built
// once at init; longest alternatives first so the regexp engine does
// not stop at a prefix.
var unitPattern = buildUnitPattern()

func buildUnitPattern() string {
	alts := make([]string, len(units))
	for i, u := range units {
		alts[i] = strings.ReplaceAll(u, " ", `\s`)
	}
	return strings.Join(alts, "|")
}

var unitSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(units))
	for _, u := range units {
		m[u] = struct{}{}
	}
	return m
}()

// IsUnit reports whether the word is in the measurement vocabulary.
// Matching is case-insensitive and ignores a trailing period ("tbsp.").
func IsUnit(word string) bool {
	w := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(word), "."))
	_, ok := unitSet[w]
	return ok
}
