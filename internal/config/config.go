// Package config assembles application configuration from defaults, an
// optional TOML file, and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Defaults matching the hosted provider's models.
const (
	DefaultModel         = "gpt-4"
	DefaultTemperature   = 0.7
	DefaultHistoryWindow = 5
	DefaultImageModel    = "dall-e-3"
	DefaultImageSize     = "1024x1024"
	DefaultImageQuality  = "standard"
	DefaultCachePath     = "laribot_cache.db"
)

// ErrMissingAPIKey blocks startup when no provider key is configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// Config holds application configuration.
type Config struct {
	APIKey        string
	Model         string
	Temperature   float64
	HistoryWindow int
	ImageModel    string
	ImageSize     string
	ImageQuality  string
	CachePath     string
	Debug         bool
}

// fileConfig mirrors the optional TOML configuration file. Pointer fields
// distinguish "absent" from zero values.
type fileConfig struct {
	Model         string   `toml:"model"`
	Temperature   *float64 `toml:"temperature"`
	HistoryWindow *int     `toml:"history_window"`
	CachePath     string   `toml:"cache_path"`
	Image         struct {
		Model   string `toml:"model"`
		Size    string `toml:"size"`
		Quality string `toml:"quality"`
	} `toml:"image"`
}

// Load builds a Config from defaults, the TOML file at path (if non-empty),
// and the environment. The API key is required; everything else falls back.
func Load(path string) (Config, error) {
	cfg := Config{
		Model:         DefaultModel,
		Temperature:   DefaultTemperature,
		HistoryWindow: DefaultHistoryWindow,
		ImageModel:    DefaultImageModel,
		ImageSize:     DefaultImageSize,
		ImageQuality:  DefaultImageQuality,
		CachePath:     DefaultCachePath,
	}

	if path != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if fc.Model != "" {
			cfg.Model = fc.Model
		}
		if fc.Temperature != nil {
			cfg.Temperature = *fc.Temperature
		}
		if fc.HistoryWindow != nil {
			cfg.HistoryWindow = *fc.HistoryWindow
		}
		if fc.CachePath != "" {
			cfg.CachePath = fc.CachePath
		}
		if fc.Image.Model != "" {
			cfg.ImageModel = fc.Image.Model
		}
		if fc.Image.Size != "" {
			cfg.ImageSize = fc.Image.Size
		}
		if fc.Image.Quality != "" {
			cfg.ImageQuality = fc.Image.Quality
		}
	}

	cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.APIKey == "" {
		return Config{}, ErrMissingAPIKey
	}

	return cfg, nil
}
