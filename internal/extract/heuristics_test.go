package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHeuristic_PluginSelectors(t *testing.T) {
	doc := docFromHTML(t, `<html><head><title>Garlic Butter Shrimp | Food Blog</title></head><body>
	<ul class="recipe-ingredients">
		<li>1 lb shrimp, peeled</li>
		<li>4 cloves garlic, minced</li>
	</ul>
	<ol class="directions">
		<li>Melt the butter over medium heat.</li>
		<li>Add the shrimp and cook until pink.</li>
	</ol>
	</body></html>`)

	r := extractHeuristic(&Source{Doc: doc}, DefaultWeights())
	require.NotNil(t, r)

	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "shrimp", r.Ingredients[0].Name)
	assert.Equal(t, "peeled", r.Ingredients[0].Preparation)
	assert.Equal(t, 0.7, r.IngredientsConfidence)

	require.Len(t, r.Directions, 2)
	assert.Equal(t, "Melt the butter over medium heat.", r.Directions[0])

	assert.Equal(t, "Garlic Butter Shrimp", r.Name)
	assert.Equal(t, 0.6, r.NameConfidence)
}

func TestExtractHeuristic_HeadingScan(t *testing.T) {
	doc := docFromHTML(t, `<html><head><title>Simple Pasta</title></head><body>
	<h2>Ingredients</h2>
	<ul>
		<li>1 lb spaghetti</li>
		<li>2 tbsp olive oil</li>
	</ul>
	<h2>Instructions</h2>
	<ol>
		<li>Boil the pasta until al dente.</li>
		<li>Toss with the olive oil.</li>
	</ol>
	</body></html>`)

	r := extractHeuristic(&Source{Doc: doc}, DefaultWeights())
	require.NotNil(t, r)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "spaghetti", r.Ingredients[0].Name)
	require.Len(t, r.Directions, 2)
}

func TestExtractHeuristic_AnyListFallback(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
	<ul>
		<li>Home</li>
		<li>About</li>
	</ul>
	<ul>
		<li>2 cups rice</li>
		<li>1 tbsp butter</li>
		<li>a note that is not shaped like a measurement</li>
	</ul>
	</body></html>`)

	r := extractHeuristic(&Source{Doc: doc}, DefaultWeights())
	require.NotNil(t, r)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "rice", r.Ingredients[0].Name)
	assert.Equal(t, "butter", r.Ingredients[1].Name)
}

func TestExtractHeuristic_AnyListNeedsTwo(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
	<ul><li>2 cups rice</li><li>Contact us</li></ul>
	</body></html>`)
	assert.Nil(t, extractHeuristic(&Source{Doc: doc}, DefaultWeights()))
}

func TestExtractHeuristic_CommerceJSON(t *testing.T) {
	body := `<html><body>
	<script id="product-recipe-info" type="application/json">
	{"name": "Spiced Chai", "ingredients": ["2 cups milk", "1 tbsp chai blend"], "directions": ["Warm the milk gently.", "Steep the blend for five minutes."]}
	</script>
	</body></html>`

	r := extractHeuristic(&Source{Body: body}, DefaultWeights())
	require.NotNil(t, r)
	assert.Equal(t, "Spiced Chai", r.Name)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, 0.7, r.IngredientsConfidence)
	assert.Len(t, r.Directions, 2)
}

func TestExtractHeuristic_Nothing(t *testing.T) {
	doc := docFromHTML(t, `<html><body><p>An essay about cooking, with no recipe.</p></body></html>`)
	assert.Nil(t, extractHeuristic(&Source{Doc: doc}, DefaultWeights()))
	assert.Nil(t, extractHeuristic(&Source{}, DefaultWeights()))
}

func TestSplitNumberedSteps(t *testing.T) {
	steps := splitNumberedSteps("1Heat the oil in a pan.2Add the onions and soften.3Serve immediately.")
	assert.Equal(t, []string{
		"Heat the oil in a pan.",
		"Add the onions and soften.",
		"Serve immediately.",
	}, steps)

	steps = splitNumberedSteps("Just one plain step with no numbering.")
	assert.Equal(t, []string{"Just one plain step with no numbering."}, steps)
}

func TestCleanSiteSuffix(t *testing.T) {
	assert.Equal(t, "Best Brownies", cleanSiteSuffix("Best Brownies | My Blog"))
	assert.Equal(t, "Best Brownies", cleanSiteSuffix("Best Brownies - My Blog"))
	assert.Equal(t, "Best Brownies", cleanSiteSuffix("Best Brownies"))
	assert.Equal(t, "Pan-Seared Salmon", cleanSiteSuffix("Pan-Seared Salmon"))
}
