package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const builderPage = `<html><head><title>Honey Garlic Salad | Our Kitchen</title></head><body>
<div data-mesh-id="comp-ing" class="wixui-rich-text">
	<h2>INGREDIENTS</h2>
	<p>½ cup olive oil<br>2 cloves garlic<br><strong>For the dressing:</strong><br>1 tbsp vinegar</p>
</div>
<div data-mesh-id="comp-dir" class="wixui-rich-text">
	<h2>METHOD</h2>
	<p>1. Whisk everything together until emulsified.<br>2. Toss with the salad and serve.</p>
</div>
</body></html>`

func TestBlockStrategy_Confidence(t *testing.T) {
	s := NewBlockStrategy(DefaultWeights())

	assert.Equal(t, 0.9, s.Confidence(&Source{Body: builderPage}))

	weak := `<div data-mesh-id="comp-1"><p>Welcome to our site</p></div>`
	assert.Equal(t, 0.6, s.Confidence(&Source{Body: weak}))

	plain := `<html><body><p>INGREDIENTS and METHOD discussed here</p></body></html>`
	assert.Equal(t, 0.0, s.Confidence(&Source{Body: plain}))

	assert.Equal(t, 0.0, s.Confidence(&Source{}))
}

func TestBlockStrategy_Extract(t *testing.T) {
	s := NewBlockStrategy(DefaultWeights())
	r, err := s.Extract(context.Background(), &Source{Body: builderPage})
	require.NoError(t, err)
	require.NotNil(t, r)

	require.Len(t, r.Ingredients, 4)
	assert.Equal(t, "olive oil", r.Ingredients[0].Name)
	assert.Equal(t, "½", r.Ingredients[0].Quantity)
	assert.Equal(t, "garlic", r.Ingredients[1].Name)
	assert.True(t, r.Ingredients[2].IsSection)
	assert.Equal(t, "For the dressing", r.Ingredients[2].Name)
	assert.Equal(t, "For the dressing", r.Ingredients[3].Section)
	assert.Equal(t, "vinegar", r.Ingredients[3].Name)

	assert.Equal(t, []string{
		"1. Whisk everything together until emulsified.",
		"2. Toss with the salad and serve.",
	}, r.Directions)

	assert.Equal(t, "Honey Garlic Salad", r.Name)
}

func TestBlockStrategy_Extract_DeferredBoldSection(t *testing.T) {
	page := `<html><body>
	<div data-mesh-id="comp-ing">
		<h2>INGREDIENTS</h2>
		<p><strong>For the<br>glaze:</strong><br>2 tbsp honey<br>1 tsp soy sauce</p>
	</div>
	</body></html>`

	s := NewBlockStrategy(DefaultWeights())
	r, err := s.Extract(context.Background(), &Source{Body: page})
	require.NoError(t, err)
	require.NotNil(t, r)

	require.Len(t, r.Ingredients, 3)
	assert.True(t, r.Ingredients[0].IsSection)
	assert.Equal(t, "For the glaze", r.Ingredients[0].Name)
	assert.Equal(t, "For the glaze", r.Ingredients[1].Section)
	assert.Equal(t, "honey", r.Ingredients[1].Name)
}

func TestBlockStrategy_Extract_UngluesConcatenatedIngredients(t *testing.T) {
	page := `<html><body>
	<div data-mesh-id="comp-ing">
		<h2>INGREDIENTS</h2>
		<p>¾ cup soy sauce1 teaspoon minced garlic</p>
	</div>
	</body></html>`

	s := NewBlockStrategy(DefaultWeights())
	r, err := s.Extract(context.Background(), &Source{Body: page})
	require.NoError(t, err)
	require.NotNil(t, r)

	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "soy sauce", r.Ingredients[0].Name)
	assert.Equal(t, "minced garlic", r.Ingredients[1].Name)
}

func TestBlockStrategy_Extract_NoBlocks(t *testing.T) {
	s := NewBlockStrategy(DefaultWeights())
	r, err := s.Extract(context.Background(), &Source{Body: "<html><body><p>nothing here</p></body></html>"})
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestIsBlockHeading(t *testing.T) {
	assert.True(t, isBlockHeading("INGREDIENTS"))
	assert.True(t, isBlockHeading("method"))
	assert.False(t, isBlockHeading("For the sauce"))
}
