// Package config provides configuration types and loading for sicorboard.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
package config

import (
	"fmt"
)

// Config file names searched in the working directory.
const (
	ConfigFileName    = "sicorboard.yaml"
	ConfigFileNameAlt = "sicorboard.yml"
)

// Defaults.
const (
	DefaultDataFile       = "data/aggregated.json"
	DefaultForecastsFile  = "data/forecasts.json"
	DefaultPort           = 8765
	DefaultCacheSize      = 256
	DefaultLeaderboardLen = 20
)

// Config holds the full runtime configuration.
type Config struct {
	// DataFile is the aggregated dataset produced by the ETL.
	DataFile string `koanf:"data_file"`
	// ForecastsFile is optional; an absent file disables forecast routes.
	ForecastsFile string `koanf:"forecasts_file"`

	// Port the dashboard API listens on.
	Port int `koanf:"port"`
	// Watch reloads the dataset when the files change on disk.
	Watch bool `koanf:"watch"`

	// LeaderboardSize is the per-year bump-chart ranking depth.
	LeaderboardSize int `koanf:"leaderboard_size"`
	// ProductTopK truncates the product roll-up (0 = keep all).
	ProductTopK int `koanf:"product_top_k"`
	// CacheSize bounds the snapshot memo cache (entries).
	CacheSize int `koanf:"cache_size"`

	Verbose bool `koanf:"verbose"`
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("data_file is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.LeaderboardSize <= 0 {
		return fmt.Errorf("leaderboard_size must be positive")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive")
	}
	return nil
}
