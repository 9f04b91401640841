// Package model defines the structured recipe types produced by the
// extraction engine. All other packages depend on model; model depends
// on nothing inside the module.
package model

import (
	"strconv"
	"strings"
	"time"
)

// Recipe is the output of one extraction call. Every extractable field
// carries a confidence in [0,1]; zero confidence means the field is
// absent, not that it is wrong.
type Recipe struct {
	Name           string  `json:"name"`
	NameConfidence float64 `json:"name_confidence"`

	Ingredients           []Ingredient `json:"ingredients,omitempty"`
	IngredientsConfidence float64      `json:"ingredients_confidence"`

	Directions           []string `json:"directions,omitempty"`
	DirectionsConfidence float64  `json:"directions_confidence"`

	Serves           string  `json:"serves,omitempty"`
	ServesConfidence float64 `json:"serves_confidence,omitempty"`
	Time             string  `json:"time,omitempty"`
	TimeConfidence   float64 `json:"time_confidence,omitempty"`
	PrepTime         string  `json:"prep_time,omitempty"`
	CookTime         string  `json:"cook_time,omitempty"`

	ImageURL        string  `json:"image_url,omitempty"`
	ImageConfidence float64 `json:"image_confidence,omitempty"`

	Notes string `json:"notes,omitempty"`

	Cuisine           string  `json:"cuisine,omitempty"`
	CuisineConfidence float64 `json:"cuisine_confidence,omitempty"`
	Course            string  `json:"course,omitempty"`
	CourseConfidence  float64 `json:"course_confidence,omitempty"`
	Subcategory       string  `json:"subcategory,omitempty"`

	Nutrition *Nutrition `json:"nutrition,omitempty"`
	Equipment []string   `json:"equipment,omitempty"`

	// Drink metadata, filled by the enrichment pass for cocktail sources.
	Glass   string   `json:"glass,omitempty"`
	Garnish []string `json:"garnish,omitempty"`
}

// Nutrition holds the per-serving macro record when the source publishes one.
type Nutrition struct {
	Calories string `json:"calories,omitempty"`
	Fat      string `json:"fat,omitempty"`
	Carbs    string `json:"carbs,omitempty"`
	Protein  string `json:"protein,omitempty"`
	Fiber    string `json:"fiber,omitempty"`
	Sugar    string `json:"sugar,omitempty"`
	Sodium   string `json:"sodium,omitempty"`
}

// Ingredient is one normalized ingredient row. A row with IsSection set
// is a section header; Name then holds the header text and the
// quantity/unit fields are empty.
type Ingredient struct {
	Name        string `json:"name"`
	Quantity    string `json:"quantity,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Preparation string `json:"preparation,omitempty"`
	Section     string `json:"section,omitempty"`
	IsSection   bool   `json:"is_section,omitempty"`
}

// Display reconstructs the human-readable ingredient line.
func (i Ingredient) Display() string {
	if i.IsSection {
		return "[" + i.Name + "]"
	}
	parts := make([]string, 0, 4)
	if i.Quantity != "" {
		parts = append(parts, i.Quantity)
	}
	if i.Unit != "" {
		parts = append(parts, i.Unit)
	}
	if i.Name != "" {
		parts = append(parts, i.Name)
	}
	s := strings.Join(parts, " ")
	if i.Preparation != "" {
		s += ", " + i.Preparation
	}
	return s
}

// HasContent reports whether the extraction produced at least one
// non-empty field among ingredients and directions. The selector uses
// this to decide whether to accept a strategy's result or fall through.
func (r *Recipe) HasContent() bool {
	if r == nil {
		return false
	}
	return len(r.Ingredients) > 0 || len(r.Directions) > 0
}

// Normalize enforces the confidence invariants: a non-empty list field
// must carry positive confidence and an empty one must carry zero.
func (r *Recipe) Normalize() {
	if len(r.Ingredients) == 0 {
		r.IngredientsConfidence = 0
	} else if r.IngredientsConfidence == 0 {
		r.IngredientsConfidence = 0.5
	}
	if len(r.Directions) == 0 {
		r.DirectionsConfidence = 0
	} else if r.DirectionsConfidence == 0 {
		r.DirectionsConfidence = 0.5
	}
	if r.Name == "" {
		r.NameConfidence = 0
	}
	if r.ImageURL == "" {
		r.ImageConfidence = 0
	}
}

// QuantityValue parses an ingredient quantity string into a float for
// scaling. Supports integers, decimals, ASCII fractions ("1/2",
// "1 1/2"), unicode vulgar fractions and ranges ("1-2", take the low
// end). Returns 0 and false when the string has no parseable number.
func QuantityValue(q string) (float64, bool) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, false
	}
	// Range: keep the low end.
	for _, sep := range []string{"-", "–", " to "} {
		if idx := strings.Index(q, sep); idx > 0 {
			q = strings.TrimSpace(q[:idx])
			break
		}
	}
	total := 0.0
	found := false
	for _, field := range strings.Fields(q) {
		if v, ok := vulgarFractions[field]; ok {
			total += v
			found = true
			continue
		}
		// Mixed forms like "1½".
		if len(field) > 1 {
			if v, ok := vulgarFractions[string([]rune(field)[len([]rune(field))-1:])]; ok {
				whole := strings.TrimSuffix(field, string([]rune(field)[len([]rune(field))-1:]))
				if w, err := strconv.ParseFloat(whole, 64); err == nil {
					total += w + v
					found = true
					continue
				}
			}
		}
		if num, den, ok := strings.Cut(field, "/"); ok {
			n, errN := strconv.ParseFloat(num, 64)
			d, errD := strconv.ParseFloat(den, 64)
			if errN == nil && errD == nil && d != 0 {
				total += n / d
				found = true
				continue
			}
		}
		if v, err := strconv.ParseFloat(field, 64); err == nil {
			total += v
			found = true
		}
	}
	return total, found
}

var vulgarFractions = map[string]float64{
	"¼": 0.25, "½": 0.5, "¾": 0.75,
	"⅓": 1.0 / 3, "⅔": 2.0 / 3,
	"⅕": 0.2, "⅖": 0.4, "⅗": 0.6, "⅘": 0.8,
	"⅙": 1.0 / 6, "⅚": 5.0 / 6,
	"⅛": 0.125, "⅜": 0.375, "⅝": 0.625, "⅞": 0.875,
}

// Extraction is a stored engine result: the recipe plus provenance.
type Extraction struct {
	ID        string    `json:"id"`
	SourceURL string    `json:"source_url"`
	Strategy  string    `json:"strategy"`
	Recipe    Recipe    `json:"recipe"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
