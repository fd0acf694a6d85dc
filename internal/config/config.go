package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// SearchConfig tunes the search, suggestion and history endpoints.
type SearchConfig struct {
	PageSize         int    `json:"page_size"`
	QueryMaxLength   int    `json:"query_max_length"`
	DedupWindowHours int    `json:"dedup_window_hours"`
	SuggestLimit     int    `json:"suggest_limit"`
	HistoryLimit     int    `json:"history_limit"`
	RejectEmptyQuery bool   `json:"reject_empty_query"`
	Timezone         string `json:"timezone"`
	RateLimit        struct {
		RPS   float64 `json:"rps"`
		Burst int     `json:"burst"`
	} `json:"rate_limit"`
}

type Config struct {
	Server struct {
		Host      string `json:"host"`
		Port      int    `json:"port"`
		Subpath   string `json:"subpath"`
		JWTSecret string `json:"jwtSecret"`
	} `json:"server"`
	Database struct {
		Driver string `json:"driver"` // "postgres" (default) or "sqlite"
		DSN    string `json:"dsn"`
	} `json:"database"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	Search SearchConfig `json:"search"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton)
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		// Minimal validation
		if c.Server.JWTSecret == "" {
			cfgErr = errors.New("jwtSecret must be set in config")
			return
		}
		if c.Database.Driver != "" && c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
			cfgErr = fmt.Errorf("unsupported database driver %q", c.Database.Driver)
			return
		}
		c.Search.ApplyDefaults()
		cfg = &c
	})
	return cfg, cfgErr
}

// ApplyDefaults fills zero values with the stock search settings.
func (s *SearchConfig) ApplyDefaults() {
	if s.PageSize <= 0 {
		s.PageSize = 30
	}
	if s.QueryMaxLength <= 0 {
		s.QueryMaxLength = 20
	}
	if s.DedupWindowHours <= 0 {
		s.DedupWindowHours = 6
	}
	if s.SuggestLimit <= 0 {
		s.SuggestLimit = 8
	}
	if s.HistoryLimit <= 0 {
		s.HistoryLimit = 8
	}
	if s.Timezone == "" {
		s.Timezone = "Asia/Seoul"
	}
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
