package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: write a config file into a temporary directory
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_NoFile(t *testing.T) {
	cfg := Default()

	err := LoadFile(cfg, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg, "Should leave defaults untouched when file doesn't exist")
}

func TestLoadFile_ValidConfig(t *testing.T) {
	path := writeConfigFile(t, `site:
  origin: "https://staging.example.org"
  list:
    summary_selector: "div.excerpt"
scrape:
  max_pages: 5
  entry_delay: 250ms
  page_delay: 1s
server:
  addr: ":9090"
  rate_limit:
    interval: 1m
log:
  level: debug
`)

	cfg := Default()
	require.NoError(t, LoadFile(cfg, path))

	assert.Equal(t, "https://staging.example.org", cfg.Site.Origin)
	assert.Equal(t, "div.excerpt", cfg.Site.ListConfig.SummarySelector)
	assert.Equal(t, "article", cfg.Site.ListConfig.ArticleSelector, "unset selectors keep their defaults")
	assert.Equal(t, 5, cfg.Scrape.MaxPages)
	assert.Equal(t, 3, cfg.Scrape.DefaultPages)
	assert.Equal(t, 250*time.Millisecond, cfg.Scrape.EntryDelay)
	assert.Equal(t, time.Second, cfg.Scrape.PageDelay)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, time.Minute, cfg.Server.RateLimit.Interval)
	assert.Equal(t, 1, cfg.Server.RateLimit.Burst)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, `scrape:
  - this is invalid yaml because scrape should be an object not a list
`)

	err := LoadFile(Default(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CASESTUDIES_ADDR", "0.0.0.0:8000")
	t.Setenv("CASESTUDIES_ENTRY_DELAY", "3s")
	t.Setenv("CASESTUDIES_MAX_PAGES", "4")
	t.Setenv("CASESTUDIES_LOG_LEVEL", "warn")
	t.Setenv("CASESTUDIES_PAGE_DELAY", "not-a-duration")

	cfg := Default()
	ApplyEnv(cfg)

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Scrape.EntryDelay)
	assert.Equal(t, 4, cfg.Scrape.MaxPages)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 2*time.Second, cfg.Scrape.PageDelay, "unparseable values should be ignored")
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfigFile(t, `server:
  addr: "file:1"
log:
  level: debug
`)
	t.Setenv("CASESTUDIES_ADDR", "env:2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env:2", cfg.Server.Addr, "environment should win over the file")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".casestudies")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("scrape:\n  default_pages: 2\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Scrape.DefaultPages)
}

func TestLoad_InvalidResult(t *testing.T) {
	path := writeConfigFile(t, "scrape:\n  default_pages: 50\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MaxPagesAboveLimit(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CASESTUDIES_MAX_PAGES", "25")

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "max_pages")
}
