// Package config loads application configuration from file and
// environment and wires the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/forkful/recipe-cli/internal/extract"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Video   VideoConfig   `yaml:"video" mapstructure:"video"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// FetchConfig configures the page fetcher.
type FetchConfig struct {
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	PerHostRate float64 `yaml:"per_host_rate" mapstructure:"per_host_rate"`
}

// Timeout returns the fetch timeout as a duration.
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// VideoConfig holds the video metadata API settings.
type VideoConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ExtractConfig overrides the engine's confidence weights. Zero values
// fall back to the observed defaults.
type ExtractConfig struct {
	Weights extract.Weights `yaml:"weights" mapstructure:"weights"`
}

// EffectiveWeights merges configured overrides over the defaults. A
// zero weight means "not set", never "disable".
func (c ExtractConfig) EffectiveWeights() extract.Weights {
	w := extract.DefaultWeights()
	override(&w.WebStructured, c.Weights.WebStructured)
	override(&w.WebDocument, c.Weights.WebDocument)
	override(&w.WebBodyOnly, c.Weights.WebBodyOnly)
	override(&w.BlocksStrong, c.Weights.BlocksStrong)
	override(&w.BlocksWeak, c.Weights.BlocksWeak)
	override(&w.StructuredName, c.Weights.StructuredName)
	override(&w.StructuredList, c.Weights.StructuredList)
	override(&w.StructuredDerived, c.Weights.StructuredDerived)
	override(&w.StructuredCourse, c.Weights.StructuredCourse)
	override(&w.InferredCuisine, c.Weights.InferredCuisine)
	override(&w.MicrodataName, c.Weights.MicrodataName)
	override(&w.MicrodataList, c.Weights.MicrodataList)
	override(&w.HeuristicList, c.Weights.HeuristicList)
	override(&w.HeuristicName, c.Weights.HeuristicName)
	override(&w.SectionedIngredients, c.Weights.SectionedIngredients)
	override(&w.VideoName, c.Weights.VideoName)
	override(&w.VideoDescriptionList, c.Weights.VideoDescriptionList)
	override(&w.VideoCaptionDirections, c.Weights.VideoCaptionDirections)
	return w
}

func override(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

// BatchConfig configures batch extraction.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the extraction server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RECIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "recipes.db")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 2)
	v.SetDefault("fetch.per_host_rate", 2.0)
	v.SetDefault("video.base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("batch.max_concurrent", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
