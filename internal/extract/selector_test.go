package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/recipe-cli/internal/model"
)

// mockStrategy implements Strategy for testing.
type mockStrategy struct {
	name       string
	confidence float64
	recipe     *model.Recipe
	err        error
	calls      int
}

func (m *mockStrategy) Name() string                 { return m.name }
func (m *mockStrategy) Confidence(_ *Source) float64 { return m.confidence }
func (m *mockStrategy) Extract(_ context.Context, _ *Source) (*model.Recipe, error) {
	m.calls++
	return m.recipe, m.err
}

func contentRecipe(name string) *model.Recipe {
	return &model.Recipe{
		Name:        name,
		Ingredients: []model.Ingredient{{Name: "salt"}},
	}
}

func TestSelector_Extract_HighestConfidenceWins(t *testing.T) {
	low := &mockStrategy{name: "low", confidence: 0.3, recipe: contentRecipe("low")}
	high := &mockStrategy{name: "high", confidence: 0.9, recipe: contentRecipe("high")}

	s := NewSelector(low, high)
	result, err := s.Extract(context.Background(), &Source{URL: "https://example.com"})

	require.NoError(t, err)
	assert.Equal(t, "high", result.Strategy)
	assert.Equal(t, 1, high.calls)
	assert.Equal(t, 0, low.calls)
}

func TestSelector_Extract_ZeroConfidenceNeverInvoked(t *testing.T) {
	zero := &mockStrategy{name: "zero", confidence: 0, recipe: contentRecipe("zero")}
	live := &mockStrategy{name: "live", confidence: 0.5, recipe: contentRecipe("live")}

	s := NewSelector(zero, live)
	result, err := s.Extract(context.Background(), &Source{})

	require.NoError(t, err)
	assert.Equal(t, "live", result.Strategy)
	assert.Equal(t, 0, zero.calls)
}

func TestSelector_Extract_FallsThroughOnError(t *testing.T) {
	failing := &mockStrategy{name: "failing", confidence: 0.9, err: errors.New("parse failed")}
	backup := &mockStrategy{name: "backup", confidence: 0.5, recipe: contentRecipe("backup")}

	s := NewSelector(failing, backup)
	result, err := s.Extract(context.Background(), &Source{})

	require.NoError(t, err)
	assert.Equal(t, "backup", result.Strategy)
	assert.Equal(t, 1, failing.calls)
}

func TestSelector_Extract_FallsThroughOnEmptyResult(t *testing.T) {
	empty := &mockStrategy{name: "empty", confidence: 0.9, recipe: &model.Recipe{Name: "only a name"}}
	backup := &mockStrategy{name: "backup", confidence: 0.5, recipe: contentRecipe("backup")}

	s := NewSelector(empty, backup)
	result, err := s.Extract(context.Background(), &Source{})

	require.NoError(t, err)
	assert.Equal(t, "backup", result.Strategy)
}

func TestSelector_Extract_RegistrationOrderBreaksTies(t *testing.T) {
	first := &mockStrategy{name: "first", confidence: 0.7, recipe: contentRecipe("first")}
	second := &mockStrategy{name: "second", confidence: 0.7, recipe: contentRecipe("second")}

	s := NewSelector(first, second)
	result, err := s.Extract(context.Background(), &Source{})

	require.NoError(t, err)
	assert.Equal(t, "first", result.Strategy)
	assert.Equal(t, 0, second.calls)
}

func TestSelector_Extract_AllFail(t *testing.T) {
	s1 := &mockStrategy{name: "s1", confidence: 0.9, err: errors.New("boom")}
	s2 := &mockStrategy{name: "s2", confidence: 0.5, recipe: &model.Recipe{}}

	s := NewSelector(s1, s2)
	result, err := s.Extract(context.Background(), &Source{})

	assert.Nil(t, result)
	assert.True(t, IsNoRecipe(err))
}

func TestSelector_Extract_NormalizesResult(t *testing.T) {
	st := &mockStrategy{name: "st", confidence: 0.5, recipe: &model.Recipe{
		Ingredients: []model.Ingredient{{Name: "salt"}},
	}}

	s := NewSelector(st)
	result, err := s.Extract(context.Background(), &Source{})

	require.NoError(t, err)
	assert.Equal(t, 0.5, result.Recipe.IngredientsConfidence)
}

func TestSelector_Extract_CanceledContext(t *testing.T) {
	st := &mockStrategy{name: "st", confidence: 0.5, recipe: contentRecipe("st")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSelector(st)
	result, err := s.Extract(ctx, &Source{})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, 0, st.calls)
}

func TestIsNoRecipe(t *testing.T) {
	assert.True(t, IsNoRecipe(ErrNoRecipe))
	assert.False(t, IsNoRecipe(errors.New("other")))
	assert.False(t, IsNoRecipe(nil))
}
