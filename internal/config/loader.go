package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("spc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")         // Current directory
		v.AddConfigPath("./configs") // Project configs directory
		v.AddConfigPath("/etc/spc")  // System-wide config
	}

	setDefaults(v)

	// SPC_SPC_SIGMA_LEVEL, SPC_CACHE_TYPE, ...
	v.SetEnvPrefix("SPC")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("spc.sigma_level", d.SPC.SigmaLevel)
	v.SetDefault("spc.run_length", d.SPC.RunLength)
	v.SetDefault("spc.trend_length", d.SPC.TrendLength)

	v.SetDefault("cache.type", d.Cache.Type)
	v.SetDefault("cache.url", d.Cache.URL)
	v.SetDefault("cache.password", d.Cache.Password)
	v.SetDefault("cache.db", d.Cache.DB)
	v.SetDefault("cache.ttl", d.Cache.TTL.String())
	v.SetDefault("cache.key_prefix", d.Cache.KeyPrefix)
	v.SetDefault("cache.max_items", d.Cache.MaxItems)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		SPC: SPCConfig{
			SigmaLevel:  3,
			RunLength:   8,
			TrendLength: 0,
		},
		Cache: CacheConfig{
			Type:      "none",
			URL:       "redis://localhost:6379",
			TTL:       15 * time.Minute,
			KeyPrefix: "spc",
			MaxItems:  1000,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stderr",
			TimeFormat: "RFC3339",
		},
	}
}
