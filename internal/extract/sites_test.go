package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSiteConfigs_Bundled(t *testing.T) {
	require.NotEmpty(t, siteConfigs)
	for _, cfg := range siteConfigs {
		assert.NotEmpty(t, cfg.Key)
		assert.NotEmpty(t, cfg.Item, "config %s", cfg.Key)
		assert.Contains(t, []string{ModeSections, ModeHeaderSiblings, ModeInlineHeaders}, cfg.Mode, "config %s", cfg.Key)
	}
}

func TestLoadSiteConfigs_DefaultsAndSkips(t *testing.T) {
	configs := loadSiteConfigs([]byte(`
sites:
  - key: ok
    item: li
  - key: broken
    container: .x
`))
	require.Len(t, configs, 1)
	assert.Equal(t, "ok", configs[0].Key)
	assert.Equal(t, ModeInlineHeaders, configs[0].Mode)
}

func TestLoadSiteConfigs_BadYAML(t *testing.T) {
	assert.Nil(t, loadSiteConfigs([]byte("sites: [")))
}

func TestExtractWithConfig_Sections(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
	<div class="wprm-recipe-ingredients-container">
		<div class="wprm-recipe-ingredient-group">
			<h4 class="wprm-recipe-group-name">For the marinade</h4>
			<li class="wprm-recipe-ingredient">2 tbsp soy sauce</li>
			<li class="wprm-recipe-ingredient">1 tsp ginger</li>
		</div>
		<div class="wprm-recipe-ingredient-group">
			<h4 class="wprm-recipe-group-name">For the chicken</h4>
			<li class="wprm-recipe-ingredient">2 lbs chicken thighs</li>
		</div>
	</div>
	</body></html>`)

	items := extractWithSiteConfigs(doc)
	require.Len(t, items, 5)

	assert.True(t, items[0].IsSection)
	assert.Equal(t, "For the marinade", items[0].Name)
	assert.Equal(t, "For the marinade", items[1].Section)
	assert.Equal(t, "soy sauce", items[1].Name)
	assert.True(t, items[3].IsSection)
	assert.Equal(t, "For the chicken", items[4].Section)
}

func TestExtractWithConfig_HeaderSiblings(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
	<div class="mv-create-ingredients">
		<p class="mv-create-ingredients-title">Crust</p>
		<ul>
			<li>2 cups graham crumbs</li>
			<li>½ cup butter</li>
		</ul>
		<p class="mv-create-ingredients-title">Filling</p>
		<ul>
			<li>3 cups cream cheese</li>
		</ul>
	</div>
	</body></html>`)

	items := extractWithSiteConfigs(doc)
	require.Len(t, items, 5)
	assert.True(t, items[0].IsSection)
	assert.Equal(t, "Crust", items[0].Name)
	assert.Equal(t, "Crust", items[2].Section)
	assert.Equal(t, "Filling", items[4].Section)
	assert.Equal(t, "cream cheese", items[4].Name)
}

func TestExtractWithConfig_InlineHeaders(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
	<div class="easyrecipe"><div class="ingredients">
		<li class="ingredient"><strong>Dough:</strong></li>
		<li class="ingredient">3 cups flour</li>
		<li class="ingredient">1 tsp yeast</li>
		<li class="ingredient">Topping:</li>
		<li class="ingredient">1 cup mozzarella</li>
	</div></div>
	</body></html>`)

	items := extractWithSiteConfigs(doc)
	require.Len(t, items, 5)
	assert.True(t, items[0].IsSection)
	assert.Equal(t, "Dough", items[0].Name)
	assert.Equal(t, "Dough", items[1].Section)
	assert.True(t, items[3].IsSection)
	assert.Equal(t, "Topping", items[3].Name)
	assert.Equal(t, "Topping", items[4].Section)
}

func TestExtractWithSiteConfigs_NoMatch(t *testing.T) {
	doc := docFromHTML(t, `<html><body><ul><li>2 cups flour</li></ul></body></html>`)
	assert.Empty(t, extractWithSiteConfigs(doc))
}

func TestLooksLikeInlineHeader(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
	<li id="colon">Sauce:</li>
	<li id="bold"><b>Garnish</b></li>
	<li id="measured">2 cups flour</li>
	<li id="plain">a pinch of love</li>
	</body></html>`)

	sel := doc.Find("#colon")
	assert.True(t, looksLikeInlineHeader(sel, "Sauce:"))

	sel = doc.Find("#bold")
	assert.True(t, looksLikeInlineHeader(sel, "Garnish"))

	sel = doc.Find("#measured")
	assert.False(t, looksLikeInlineHeader(sel, "2 cups flour"))

	sel = doc.Find("#plain")
	assert.False(t, looksLikeInlineHeader(sel, "a pinch of love"))
}
