package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emsqi/spc/internal/analytics/spc"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "default config should be valid",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "zero sigma level",
			config: &Config{
				SPC:     SPCConfig{SigmaLevel: 0, RunLength: 8},
				Cache:   DefaultConfig().Cache,
				Logging: DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "negative sigma level",
			config: &Config{
				SPC:     SPCConfig{SigmaLevel: -1, RunLength: 8},
				Cache:   DefaultConfig().Cache,
				Logging: DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "NaN sigma level",
			config: &Config{
				SPC:     SPCConfig{SigmaLevel: math.NaN(), RunLength: 8},
				Cache:   DefaultConfig().Cache,
				Logging: DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "infinite sigma level",
			config: &Config{
				SPC:     SPCConfig{SigmaLevel: math.Inf(1), RunLength: 8},
				Cache:   DefaultConfig().Cache,
				Logging: DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "mixed case cache type",
			config: &Config{
				SPC:     DefaultConfig().SPC,
				Cache:   CacheConfig{Type: "Redis", URL: "redis://localhost:6379"},
				Logging: DefaultConfig().Logging,
			},
			wantErr: false,
		},
		{
			name: "run length too short",
			config: &Config{
				SPC:     SPCConfig{SigmaLevel: 3, RunLength: 1},
				Cache:   DefaultConfig().Cache,
				Logging: DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "trend length of one",
			config: &Config{
				SPC:     SPCConfig{SigmaLevel: 3, RunLength: 8, TrendLength: 1},
				Cache:   DefaultConfig().Cache,
				Logging: DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "sensitivity sigma level",
			config: &Config{
				SPC:     SPCConfig{SigmaLevel: 1, RunLength: 8, TrendLength: 6},
				Cache:   DefaultConfig().Cache,
				Logging: DefaultConfig().Logging,
			},
			wantErr: false,
		},
		{
			name: "unknown cache type",
			config: &Config{
				SPC:     DefaultConfig().SPC,
				Cache:   CacheConfig{Type: "memcached"},
				Logging: DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "redis cache without url",
			config: &Config{
				SPC:     DefaultConfig().SPC,
				Cache:   CacheConfig{Type: "redis"},
				Logging: DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "negative cache ttl",
			config: &Config{
				SPC:     DefaultConfig().SPC,
				Cache:   CacheConfig{Type: "memory", TTL: -time.Second},
				Logging: DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "invalid logging level",
			config: &Config{
				SPC:   DefaultConfig().SPC,
				Cache: DefaultConfig().Cache,
				Logging: LoggingConfig{
					Level:  "invalid",
					Format: "json",
				},
			},
			wantErr: true,
		},
		{
			name: "invalid logging format",
			config: &Config{
				SPC:   DefaultConfig().SPC,
				Cache: DefaultConfig().Cache,
				Logging: LoggingConfig{
					Level:  "info",
					Format: "xml",
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SPC.SigmaLevel != spc.DefaultSigmaLevel {
		t.Errorf("Expected default sigma level %v, got %v", spc.DefaultSigmaLevel, cfg.SPC.SigmaLevel)
	}

	if cfg.SPC.RunLength != spc.DefaultRunLength {
		t.Errorf("Expected default run length %d, got %d", spc.DefaultRunLength, cfg.SPC.RunLength)
	}

	if cfg.Cache.Enabled() {
		t.Error("Expected cache to be disabled by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Cache.Enabled() {
		t.Error("Default cache should be disabled")
	}

	for _, typ := range []string{"memory", "redis", "Redis", "MEMORY"} {
		c := CacheConfig{Type: typ}
		if !c.Enabled() {
			t.Errorf("Expected cache type %s to be enabled", typ)
		}
	}
}

func TestSPCConfig_Rules(t *testing.T) {
	cfg := SPCConfig{SigmaLevel: 3, RunLength: 8}

	rules := cfg.Rules()
	if len(rules) != 2 {
		t.Fatalf("Expected 2 rules without trend, got %d", len(rules))
	}
	if rules[1].Name() != "Run of 8+ points on one side of center line" {
		t.Errorf("Unexpected run rule: %s", rules[1].Name())
	}

	cfg.TrendLength = 6
	cfg.RunLength = 9
	rules = cfg.Rules()
	if len(rules) != 3 {
		t.Fatalf("Expected 3 rules with trend, got %d", len(rules))
	}
	if rules[1].Name() != "Run of 9+ points on one side of center line" {
		t.Errorf("Unexpected run rule: %s", rules[1].Name())
	}
	if rules[2].Name() != "Trend of 6+ points steadily increasing or decreasing" {
		t.Errorf("Unexpected trend rule: %s", rules[2].Name())
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spc.yaml")
	content := []byte(`
spc:
  sigma_level: 2
  trend_length: 6
cache:
  type: memory
  ttl: 1m
logging:
  level: debug
  format: console
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SPC.SigmaLevel != 2 {
		t.Errorf("Expected sigma level 2, got %v", cfg.SPC.SigmaLevel)
	}
	if cfg.SPC.RunLength != 8 {
		t.Errorf("Expected default run length 8, got %d", cfg.SPC.RunLength)
	}
	if cfg.SPC.TrendLength != 6 {
		t.Errorf("Expected trend length 6, got %d", cfg.SPC.TrendLength)
	}
	if cfg.Cache.Type != "memory" || cfg.Cache.TTL != time.Minute {
		t.Errorf("Unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Cache.KeyPrefix != "spc" {
		t.Errorf("Expected default key prefix, got %s", cfg.Cache.KeyPrefix)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spc.yaml")
	if err := os.WriteFile(path, []byte("spc:\n  sigma_level: -1\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected validation error for negative sigma level")
	}

	cfg := LoadOrDefault(path)
	if cfg.SPC.SigmaLevel != 3 {
		t.Errorf("Expected LoadOrDefault to fall back to defaults, got %v", cfg.SPC.SigmaLevel)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spc.yaml")
	if err := os.WriteFile(path, []byte("spc:\n  sigma_level: 3\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Setenv("SPC_SPC_SIGMA_LEVEL", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SPC.SigmaLevel != 2 {
		t.Errorf("Expected env override sigma level 2, got %v", cfg.SPC.SigmaLevel)
	}
}
