package config

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	SPC     SPCConfig     `mapstructure:"spc"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SPCConfig holds the defaults applied to control chart requests
type SPCConfig struct {
	SigmaLevel  float64 `mapstructure:"sigma_level"`  // Control limit width when a request does not set one (default: 3)
	RunLength   int     `mapstructure:"run_length"`   // Points on one side of the center line that signal a shift (default: 8)
	TrendLength int     `mapstructure:"trend_length"` // Steadily rising/falling points that signal a trend, 0 disables the rule
}

// CacheConfig represents result cache configuration
type CacheConfig struct {
	Type      string        `mapstructure:"type"`       // Cache type: none (default), memory, redis
	URL       string        `mapstructure:"url"`        // Redis URL (e.g., redis://localhost:6379)
	Password  string        `mapstructure:"password"`   // Optional authentication
	DB        int           `mapstructure:"db"`         // Redis database number (default: 0)
	TTL       time.Duration `mapstructure:"ttl"`        // Entry lifetime, 0 keeps entries until evicted
	KeyPrefix string        `mapstructure:"key_prefix"` // Prefix for cache keys (default: "spc")
	MaxItems  int           `mapstructure:"max_items"`  // Memory cache capacity (default: 1000)
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.SPC.Validate(); err != nil {
		return fmt.Errorf("spc config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates SPC defaults
func (c *SPCConfig) Validate() error {
	if c.SigmaLevel <= 0 || math.IsNaN(c.SigmaLevel) || math.IsInf(c.SigmaLevel, 0) {
		return fmt.Errorf("spc.sigma_level must be positive")
	}

	if c.RunLength < 2 {
		return fmt.Errorf("spc.run_length must be at least 2")
	}

	if c.TrendLength < 0 || c.TrendLength == 1 {
		return fmt.Errorf("spc.trend_length must be 0 (disabled) or at least 2")
	}

	return nil
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	switch strings.ToLower(c.Type) {
	case "", "none", "memory":
	case "redis":
		if c.URL == "" {
			return fmt.Errorf("cache.url is required for redis cache")
		}
	default:
		return fmt.Errorf("cache.type must be one of: none, memory, redis")
	}

	if c.TTL < 0 {
		return fmt.Errorf("cache.ttl cannot be negative")
	}

	if c.MaxItems < 0 {
		return fmt.Errorf("cache.max_items cannot be negative")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
