// Package models defines the shared data structures of the pipeline:
// extracted listings, reference prices, valuations, and configuration.
package models

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSearchURL is the search the tool was built around: used RAV4s,
// hybrid drivetrains, sorted by mileage.
const DefaultSearchURL = "https://www.finn.no/mobility/search/car" +
	"?location=20007&location=20061&location=20003&location=20002" +
	"&model=1.813.3074&model=1.813.2000660&price_to=380000" +
	"&sales_form=1&sort=MILEAGE_ASC&stored-id=80260642" +
	"&wheel_drive=2&year_from=2019"

// ScrapingConfig controls fetch politeness.
type ScrapingConfig struct {
	MaxPages       int     `yaml:"max_pages"`
	DelayMinSec    float64 `yaml:"delay_min_sec"`
	DelayMaxSec    float64 `yaml:"delay_max_sec"`
	TimeoutSec     int     `yaml:"timeout_sec"`
	UserAgent      string  `yaml:"user_agent"`
	CacheTTLMin    int     `yaml:"cache_ttl_min"`
	AllowedDomains []string `yaml:"allowed_domains"`
}

// AIConfig holds the text-generation collaborator settings. The API key
// is never read from yaml, only from the environment.
type AIConfig struct {
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	APIKey     string `yaml:"-"`
}

// Config is the full application configuration.
type Config struct {
	SearchURL   string         `yaml:"search_url"`
	DataDir     string         `yaml:"data_dir"`
	DBPath      string         `yaml:"db_path"`
	RefPath     string         `yaml:"ref_path"`
	ModelPrefix string         `yaml:"model_prefix"`
	Scraping    ScrapingConfig `yaml:"scraping"`
	AI          AIConfig       `yaml:"ai"`
}

// DefaultConfig returns the built-in defaults used when no config file
// is present.
func DefaultConfig() *Config {
	return &Config{
		SearchURL:   DefaultSearchURL,
		DataDir:     "data",
		DBPath:      "data/finnbil.db",
		RefPath:     "rav4.csv",
		ModelPrefix: "RAV4",
		Scraping: ScrapingConfig{
			MaxPages:    2,
			DelayMinSec: 2.0,
			DelayMaxSec: 4.0,
			TimeoutSec:  10,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
				"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			CacheTTLMin:    0,
			AllowedDomains: []string{"finn.no", "www.finn.no"},
		},
		AI: AIConfig{
			Model:      "deepseek/deepseek-chat-v3-0324:free",
			BaseURL:    "https://openrouter.ai/api/v1",
			TimeoutSec: 60,
		},
	}
}

// LoadConfig reads the yaml config at path (if it exists), overlays
// environment variables from .env, and validates the result. An empty
// path or a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env is optional; real env vars still apply without it.
	_ = godotenv.Load()
	cfg.AI.APIKey = os.Getenv("OPENROUTER_API_KEY")
	if v := os.Getenv("AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("AI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_PAGES: %w", err)
		}
		cfg.Scraping.MaxPages = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks internal consistency. The API key is checked at the
// point of use instead, so fetch and analyze work without one.
func (c *Config) Validate() error {
	if c.Scraping.MaxPages < 1 {
		return fmt.Errorf("max_pages must be at least 1, got %d", c.Scraping.MaxPages)
	}
	if c.Scraping.DelayMinSec >= c.Scraping.DelayMaxSec {
		return fmt.Errorf("delay_min_sec (%v) must be less than delay_max_sec (%v)",
			c.Scraping.DelayMinSec, c.Scraping.DelayMaxSec)
	}
	if c.Scraping.TimeoutSec < 1 {
		return fmt.Errorf("timeout_sec must be at least 1, got %d", c.Scraping.TimeoutSec)
	}
	return nil
}

// RequestTimeout returns the fetch timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Scraping.TimeoutSec) * time.Second
}

// CacheTTL returns the page-cache TTL; zero disables the cache.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Scraping.CacheTTLMin) * time.Minute
}
