package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "recipes.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 30, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 2, cfg.Fetch.MaxRetries)
	assert.Equal(t, 2.0, cfg.Fetch.PerHostRate)
	assert.Equal(t, "https://www.googleapis.com/youtube/v3", cfg.Video.BaseURL)
	assert.Equal(t, 5, cfg.Batch.MaxConcurrent)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RECIPE_STORE_DRIVER", "postgres")
	t.Setenv("RECIPE_SERVER_PORT", "9999")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestFetchConfig_Timeout(t *testing.T) {
	c := FetchConfig{TimeoutSecs: 15}
	assert.Equal(t, 15*time.Second, c.Timeout())
}

func TestExtractConfig_EffectiveWeights(t *testing.T) {
	var c ExtractConfig
	w := c.EffectiveWeights()
	assert.Equal(t, 0.7, w.WebStructured)
	assert.Equal(t, 0.95, w.StructuredName)

	c.Weights.WebStructured = 0.85
	c.Weights.VideoName = 0.99
	w = c.EffectiveWeights()
	assert.Equal(t, 0.85, w.WebStructured)
	assert.Equal(t, 0.99, w.VideoName)
	// Untouched weights keep their defaults.
	assert.Equal(t, 0.9, w.BlocksStrong)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
