package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMicrodata_Basic(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
	<div itemscope itemtype="https://schema.org/Recipe">
		<h1 itemprop="name">Beef Stew</h1>
		<li itemprop="recipeIngredient">2 lbs beef chuck</li>
		<li itemprop="recipeIngredient">4 carrots</li>
		<ol itemprop="recipeInstructions">
			<li>Brown the beef in batches.</li>
			<li>Simmer for two hours.</li>
		</ol>
		<span itemprop="recipeYield">6 servings</span>
		<meta itemprop="totalTime" content="PT2H30M">
	</div>
	</body></html>`)

	r := extractMicrodata(doc, DefaultWeights())
	require.NotNil(t, r)

	assert.Equal(t, "Beef Stew", r.Name)
	assert.Equal(t, 0.9, r.NameConfidence)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "beef chuck", r.Ingredients[0].Name)
	assert.Equal(t, 0.85, r.IngredientsConfidence)
	assert.Equal(t, []string{"Brown the beef in batches.", "Simmer for two hours."}, r.Directions)
	assert.Equal(t, "6 servings", r.Serves)
	assert.Equal(t, "2h 30m", r.Time)
}

func TestExtractMicrodata_ContentAttributePreferred(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
	<div itemtype="https://schema.org/Recipe">
		<span itemprop="name" content="Real Name">Display text</span>
		<span itemprop="recipeIngredient">1 cup rice</span>
	</div>
	</body></html>`)

	r := extractMicrodata(doc, DefaultWeights())
	require.NotNil(t, r)
	assert.Equal(t, "Real Name", r.Name)
}

func TestExtractMicrodata_CommaPackedIngredients(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
	<div itemtype="https://schema.org/Recipe">
		<meta itemprop="recipeIngredient" content="2 cups flour, 1 tsp salt, 3 eggs">
		<div itemprop="recipeInstructions">Mix everything together well.</div>
	</div>
	</body></html>`)

	r := extractMicrodata(doc, DefaultWeights())
	require.NotNil(t, r)
	require.Len(t, r.Ingredients, 3)
	assert.Equal(t, "flour", r.Ingredients[0].Name)
	assert.Equal(t, "salt", r.Ingredients[1].Name)
	assert.Equal(t, "eggs", r.Ingredients[2].Name)
}

func TestExtractMicrodata_ParentheticalCommaNotSplit(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
	<div itemtype="https://schema.org/Recipe">
		<meta itemprop="recipeIngredient" content="1 can tomatoes (whole, peeled)">
		<div itemprop="recipeInstructions">Crush the tomatoes by hand.</div>
	</div>
	</body></html>`)

	r := extractMicrodata(doc, DefaultWeights())
	require.NotNil(t, r)
	require.Len(t, r.Ingredients, 1)
	assert.Equal(t, "tomatoes", r.Ingredients[0].Name)
	assert.Equal(t, "whole, peeled", r.Ingredients[0].Preparation)
}

func TestExtractMicrodata_BlobDirectionsSplit(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
	<div itemtype="https://schema.org/Recipe">
		<li itemprop="recipeIngredient">1 cup lentils</li>
		<div itemprop="recipeInstructions">Rinse the lentils thoroughly. Cover with water and simmer. Season before serving.</div>
	</div>
	</body></html>`)

	r := extractMicrodata(doc, DefaultWeights())
	require.NotNil(t, r)
	assert.Equal(t, []string{
		"Rinse the lentils thoroughly.",
		"Cover with water and simmer.",
		"Season before serving.",
	}, r.Directions)
}

func TestExtractMicrodata_NoScope(t *testing.T) {
	doc := docFromHTML(t, `<html><body><p>just text</p></body></html>`)
	assert.Nil(t, extractMicrodata(doc, DefaultWeights()))
}

func TestExtractMicrodata_EmptyScope(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
	<div itemtype="https://schema.org/Recipe"><h1 itemprop="name">Name only</h1></div>
	</body></html>`)
	assert.Nil(t, extractMicrodata(doc, DefaultWeights()))
}
