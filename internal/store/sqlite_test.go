package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/recipe-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testRecipe() model.Recipe {
	return model.Recipe{
		Name:           "Test Soup",
		NameConfidence: 0.95,
		Ingredients: []model.Ingredient{
			{Name: "stock", Quantity: "2", Unit: "cups"},
			{Name: "carrot", Quantity: "1", Preparation: "diced"},
		},
		IngredientsConfidence: 0.9,
		Directions:            []string{"Simmer.", "Serve."},
		DirectionsConfidence:  0.9,
	}
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := s.SaveExtraction(ctx, "https://example.com/soup", "web", testRecipe())
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := s.GetExtraction(ctx, saved.ID)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "https://example.com/soup", got.SourceURL)
	assert.Equal(t, "web", got.Strategy)
	assert.Equal(t, "Test Soup", got.Recipe.Name)
	require.Len(t, got.Recipe.Ingredients, 2)
	assert.Equal(t, "diced", got.Recipe.Ingredients[1].Preparation)
	assert.Equal(t, []string{"Simmer.", "Serve."}, got.Recipe.Directions)
}

func TestSQLiteStore_Get_NotFound(t *testing.T) {
	s := newTestSQLiteStore(t)
	_, err := s.GetExtraction(context.Background(), "missing-id")
	assert.Error(t, err)
}

func TestSQLiteStore_List_Filters(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := s.SaveExtraction(ctx, "https://a.com/1", "web", testRecipe())
	require.NoError(t, err)
	_, err = s.SaveExtraction(ctx, "https://a.com/1", "video", testRecipe())
	require.NoError(t, err)
	_, err = s.SaveExtraction(ctx, "https://b.com/2", "web", testRecipe())
	require.NoError(t, err)

	all, err := s.ListExtractions(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bySource, err := s.ListExtractions(ctx, ListFilter{SourceURL: "https://a.com/1"})
	require.NoError(t, err)
	assert.Len(t, bySource, 2)

	byStrategy, err := s.ListExtractions(ctx, ListFilter{Strategy: "video"})
	require.NoError(t, err)
	require.Len(t, byStrategy, 1)
	assert.Equal(t, "https://a.com/1", byStrategy[0].SourceURL)

	limited, err := s.ListExtractions(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := s.SaveExtraction(ctx, "https://example.com", "web", testRecipe())
	require.NoError(t, err)

	require.NoError(t, s.DeleteExtraction(ctx, saved.ID))

	_, err = s.GetExtraction(ctx, saved.ID)
	assert.Error(t, err)

	err = s.DeleteExtraction(ctx, saved.ID)
	assert.Error(t, err)
}
