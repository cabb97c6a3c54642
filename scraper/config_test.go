package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultSiteConfig verifies the built-in site description
func TestDefaultSiteConfig(t *testing.T) {
	cfg := DefaultSiteConfig()

	assert.Equal(t, "https://www.charitycomms.org.uk", cfg.Origin)
	assert.Equal(t, "article", cfg.ListConfig.ArticleSelector)
	assert.Equal(t, "h2", cfg.ListConfig.TitleSelector)
	assert.Equal(t, "div.entry-summary", cfg.ListConfig.SummarySelector)
	assert.Equal(t, "div.entry-content", cfg.ArticleConfig.ContentSelector)
	assert.Contains(t, cfg.UserAgent, "CharityCommsScraper/1.0")
	require.NoError(t, cfg.Validate())
}

// TestListingBase verifies slashes are normalised between origin and path
func TestListingBase(t *testing.T) {
	tests := []struct {
		origin string
		path   string
		want   string
	}{
		{"https://example.org", "/article-type/case-studies", "https://example.org/article-type/case-studies"},
		{"https://example.org/", "article-type/case-studies/", "https://example.org/article-type/case-studies"},
		{"http://127.0.0.1:8080", "/list", "http://127.0.0.1:8080/list"},
	}

	for _, tt := range tests {
		cfg := SiteConfig{Origin: tt.origin, ListingPath: tt.path}
		assert.Equal(t, tt.want, cfg.ListingBase())
	}
}

// TestValidate_Rejects verifies invalid site descriptions
func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SiteConfig)
		errMsg string
	}{
		{"ftp origin", func(c *SiteConfig) { c.Origin = "ftp://example.org" }, "http or https"},
		{"no host", func(c *SiteConfig) { c.Origin = "https://" }, "no host"},
		{"origin with path", func(c *SiteConfig) { c.Origin = "https://example.org/blog" }, "must not contain a path"},
		{"empty listing path", func(c *SiteConfig) { c.ListingPath = "" }, "listing path"},
		{"root listing path", func(c *SiteConfig) { c.ListingPath = "/" }, "listing path"},
		{"empty user agent", func(c *SiteConfig) { c.UserAgent = " " }, "user agent"},
		{"empty content selector", func(c *SiteConfig) { c.ArticleConfig.ContentSelector = "" }, "content_selector"},
		{"empty article selector", func(c *SiteConfig) { c.ListConfig.ArticleSelector = "" }, "article_selector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSiteConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
