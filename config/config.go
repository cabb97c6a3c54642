package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rawprouk/scrape/scraper"
)

// PageLimit is the most listing pages a single run may cover.
const PageLimit = 10

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	Site   scraper.SiteConfig `yaml:"site"`
	Scrape ScrapeConfig       `yaml:"scrape"`
	Server ServerConfig       `yaml:"server"`
	Log    LogConfig          `yaml:"log"`
}

// ScrapeConfig controls a scrape run.
type ScrapeConfig struct {
	// DefaultPages is the page count offered before the operator chooses.
	DefaultPages int `yaml:"default_pages"` // default: 3

	// MaxPages is the largest page count an operator may choose, at most
	// PageLimit.
	MaxPages int `yaml:"max_pages"` // default: 10

	EntryDelay   time.Duration `yaml:"entry_delay"`   // default: 1s
	PageDelay    time.Duration `yaml:"page_delay"`    // default: 2s
	FetchTimeout time.Duration `yaml:"fetch_timeout"` // default: 30s
}

// ServerConfig controls the browser UI server.
type ServerConfig struct {
	Addr string `yaml:"addr"` // default: "localhost:8080"

	// KeepRuns is how many finished runs stay available for download.
	KeepRuns int `yaml:"keep_runs"` // default: 16

	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig limits how often one client may start a scrape.
type RateLimitConfig struct {
	// Interval between scrapes per client; zero disables the limit.
	Interval time.Duration `yaml:"interval"` // default: 30s
	Burst    int           `yaml:"burst"`    // default: 1
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // default: "info"
	Format string `yaml:"format"` // "text", "json" or "logfmt"; default: "text"
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Site: scraper.DefaultSiteConfig(),
		Scrape: ScrapeConfig{
			DefaultPages: 3,
			MaxPages:     PageLimit,
			EntryDelay:   1 * time.Second,
			PageDelay:    2 * time.Second,
			FetchTimeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Addr:     "localhost:8080",
			KeepRuns: 16,
			RateLimit: RateLimitConfig{
				Interval: 30 * time.Second,
				Burst:    1,
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate reports the first problem found, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) validate() error {
	if err := c.Site.Validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}

	if c.Scrape.MaxPages < 1 || c.Scrape.MaxPages > PageLimit {
		return fmt.Errorf("scrape.max_pages must be between 1 and %d", PageLimit)
	}
	if c.Scrape.DefaultPages < 1 || c.Scrape.DefaultPages > c.Scrape.MaxPages {
		return fmt.Errorf("scrape.default_pages must be between 1 and %d", c.Scrape.MaxPages)
	}
	if c.Scrape.EntryDelay < 0 || c.Scrape.PageDelay < 0 {
		return fmt.Errorf("scrape delays must not be negative")
	}
	if c.Scrape.FetchTimeout <= 0 {
		return fmt.Errorf("scrape.fetch_timeout must be positive")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is empty")
	}
	if c.Server.KeepRuns < 1 {
		return fmt.Errorf("server.keep_runs must be at least 1")
	}
	if c.Server.RateLimit.Interval < 0 {
		return fmt.Errorf("server.rate_limit.interval must not be negative")
	}
	if c.Server.RateLimit.Interval > 0 && c.Server.RateLimit.Burst < 1 {
		return fmt.Errorf("server.rate_limit.burst must be at least 1")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log.format must be text, json or logfmt (got %q)", c.Log.Format)
	}

	return nil
}
