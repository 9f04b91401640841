package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIngredient_Display(t *testing.T) {
	ing := Ingredient{Quantity: "2", Unit: "cups", Name: "flour"}
	assert.Equal(t, "2 cups flour", ing.Display())

	ing = Ingredient{Quantity: "1", Name: "onion", Preparation: "finely chopped"}
	assert.Equal(t, "1 onion, finely chopped", ing.Display())

	ing = Ingredient{Name: "Sauce", IsSection: true}
	assert.Equal(t, "[Sauce]", ing.Display())

	ing = Ingredient{Name: "salt to taste"}
	assert.Equal(t, "salt to taste", ing.Display())
}

func TestRecipe_HasContent(t *testing.T) {
	var nilRecipe *Recipe
	assert.False(t, nilRecipe.HasContent())

	assert.False(t, (&Recipe{Name: "Soup"}).HasContent())
	assert.True(t, (&Recipe{Ingredients: []Ingredient{{Name: "salt"}}}).HasContent())
	assert.True(t, (&Recipe{Directions: []string{"Boil water."}}).HasContent())
}

func TestRecipe_Normalize(t *testing.T) {
	r := &Recipe{
		IngredientsConfidence: 0.9,
		DirectionsConfidence:  0.8,
		NameConfidence:        0.95,
		ImageConfidence:       0.7,
	}
	r.Normalize()
	assert.Zero(t, r.IngredientsConfidence)
	assert.Zero(t, r.DirectionsConfidence)
	assert.Zero(t, r.NameConfidence)
	assert.Zero(t, r.ImageConfidence)

	r = &Recipe{
		Name:        "Soup",
		Ingredients: []Ingredient{{Name: "salt"}},
		Directions:  []string{"Boil."},
	}
	r.Normalize()
	assert.Equal(t, 0.5, r.IngredientsConfidence)
	assert.Equal(t, 0.5, r.DirectionsConfidence)
}

func TestQuantityValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"2", 2, true},
		{"1.5", 1.5, true},
		{"1/2", 0.5, true},
		{"1 1/2", 1.5, true},
		{"½", 0.5, true},
		{"1½", 1.5, true},
		{"1 ½", 1.5, true},
		{"2-3", 2, true},
		{"1 to 2", 1, true},
		{"", 0, false},
		{"some", 0, false},
	}
	for _, tc := range cases {
		got, ok := QuantityValue(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, "input %q", tc.in)
	}
}
