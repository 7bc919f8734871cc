package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Data struct {
		Dir         string `yaml:"dir"`
		HistoryDays int    `yaml:"history_days"`
	} `yaml:"data"`
	Fetch struct {
		TimeoutSec  int `yaml:"timeout_sec"`
		CacheTTLSec int `yaml:"cache_ttl_sec"`
		CacheSize   int `yaml:"cache_size"`
	} `yaml:"fetch"`
	Schedule struct {
		SnapshotCron string `yaml:"snapshot_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Markets []string `yaml:"markets"`
	Proxy   string   `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("HISTORY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Data.HistoryDays = n
		}
	}
	if v := os.Getenv("SNAPSHOT_CRON"); v != "" {
		cfg.Schedule.SnapshotCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8480"
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
	if cfg.Data.HistoryDays == 0 {
		cfg.Data.HistoryDays = 260
	}
	if cfg.Fetch.TimeoutSec == 0 {
		cfg.Fetch.TimeoutSec = 15
	}
	if cfg.Fetch.CacheTTLSec == 0 {
		cfg.Fetch.CacheTTLSec = 600
	}
	if cfg.Fetch.CacheSize == 0 {
		cfg.Fetch.CacheSize = 64
	}
	if cfg.Schedule.SnapshotCron == "" {
		// after European close, weekdays
		cfg.Schedule.SnapshotCron = "0 15 18 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/marketflash.db"
	}
	if len(cfg.Markets) == 0 {
		cfg.Markets = []string{"CAC 40", "DAX"}
	}

	return cfg, nil
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.Data.HistoryDays < 30 {
		return fmt.Errorf("data.history_days must be at least 30, got %d", c.Data.HistoryDays)
	}
	if c.Fetch.TimeoutSec <= 0 {
		return fmt.Errorf("fetch.timeout_sec must be positive")
	}
	if c.Fetch.CacheSize <= 0 {
		return fmt.Errorf("fetch.cache_size must be positive")
	}
	return nil
}
