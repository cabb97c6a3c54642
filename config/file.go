package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath returns ~/.casestudies/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".casestudies", "config.yaml"), nil
}

// LoadFile overlays the YAML file at path onto cfg. A missing file is not an
// error and leaves cfg untouched; a file that exists but cannot be parsed is.
func LoadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides cfg from CASESTUDIES_* environment variables. Values
// that do not parse are ignored.
func ApplyEnv(cfg *Config) {
	cfg.Site.Origin = envOr("CASESTUDIES_ORIGIN", cfg.Site.Origin)
	cfg.Site.UserAgent = envOr("CASESTUDIES_USER_AGENT", cfg.Site.UserAgent)

	cfg.Scrape.DefaultPages = envIntOr("CASESTUDIES_DEFAULT_PAGES", cfg.Scrape.DefaultPages)
	cfg.Scrape.MaxPages = envIntOr("CASESTUDIES_MAX_PAGES", cfg.Scrape.MaxPages)
	cfg.Scrape.EntryDelay = envDurationOr("CASESTUDIES_ENTRY_DELAY", cfg.Scrape.EntryDelay)
	cfg.Scrape.PageDelay = envDurationOr("CASESTUDIES_PAGE_DELAY", cfg.Scrape.PageDelay)
	cfg.Scrape.FetchTimeout = envDurationOr("CASESTUDIES_FETCH_TIMEOUT", cfg.Scrape.FetchTimeout)

	cfg.Server.Addr = envOr("CASESTUDIES_ADDR", cfg.Server.Addr)
	cfg.Server.KeepRuns = envIntOr("CASESTUDIES_KEEP_RUNS", cfg.Server.KeepRuns)
	cfg.Server.RateLimit.Interval = envDurationOr("CASESTUDIES_RATE_INTERVAL", cfg.Server.RateLimit.Interval)

	cfg.Log.Level = envOr("CASESTUDIES_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envOr("CASESTUDIES_LOG_FORMAT", cfg.Log.Format)
}

// Load builds the effective configuration: defaults, then the file at path
// (DefaultPath when empty), then the environment. The result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		return nil, err
	}
	ApplyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
