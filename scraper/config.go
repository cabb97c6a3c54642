package scraper

import (
	"fmt"
	"net/url"
	"strings"
)

// Defaults for the CharityComms case-study listing.
const (
	DefaultOrigin      = "https://www.charitycomms.org.uk"
	DefaultListingPath = "/article-type/case-studies"
	DefaultUserAgent   = "Mozilla/5.0 (compatible; CharityCommsScraper/1.0; +https://yourdomain.com)"
)

// SiteConfig describes the single website being scraped: where its listing
// lives, how requests identify themselves, and which selectors locate the
// fields on listing and detail pages.
type SiteConfig struct {
	Origin        string        `yaml:"origin" json:"origin"`
	ListingPath   string        `yaml:"listing_path" json:"listing_path"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent"`
	ListConfig    ListConfig    `yaml:"list" json:"list_config"`
	ArticleConfig ArticleConfig `yaml:"article" json:"article_config"`
}

// ListConfig defines how to find entries on a listing page.
type ListConfig struct {
	ArticleSelector string `yaml:"article_selector" json:"article_selector"`
	TitleSelector   string `yaml:"title_selector" json:"title_selector"`
	LinkSelector    string `yaml:"link_selector" json:"link_selector"` // searched inside the title
	SummarySelector string `yaml:"summary_selector" json:"summary_selector"`
}

// ArticleConfig defines how to extract the body of a detail page.
type ArticleConfig struct {
	ContentSelector string `yaml:"content_selector" json:"content_selector"`
}

// NewListConfig creates a list configuration with the default heading, link
// and summary selectors.
func NewListConfig(articleSelector string) ListConfig {
	return ListConfig{
		ArticleSelector: articleSelector,
		TitleSelector:   "h2",
		LinkSelector:    "a[href]",
		SummarySelector: "div.entry-summary",
	}
}

// DefaultSiteConfig returns the configuration for charitycomms.org.uk.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Origin:      DefaultOrigin,
		ListingPath: DefaultListingPath,
		UserAgent:   DefaultUserAgent,
		ListConfig:  NewListConfig("article"),
		ArticleConfig: ArticleConfig{
			ContentSelector: "div.entry-content",
		},
	}
}

// ListingBase returns the address of the first listing page.
func (s SiteConfig) ListingBase() string {
	return strings.TrimRight(s.Origin, "/") + "/" + strings.Trim(s.ListingPath, "/")
}

// Validate checks that the origin is an absolute http(s) address without a
// path and that the listing path and every selector are set.
func (s SiteConfig) Validate() error {
	u, err := url.Parse(s.Origin)
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("origin must use http or https scheme")
	}
	if u.Host == "" {
		return fmt.Errorf("origin has no host")
	}
	if strings.Trim(u.Path, "/") != "" {
		return fmt.Errorf("origin must not contain a path (got %q)", u.Path)
	}
	if strings.Trim(s.ListingPath, "/ ") == "" {
		return fmt.Errorf("listing path is empty")
	}
	if strings.TrimSpace(s.UserAgent) == "" {
		return fmt.Errorf("user agent is empty")
	}

	selectors := map[string]string{
		"article_selector": s.ListConfig.ArticleSelector,
		"title_selector":   s.ListConfig.TitleSelector,
		"link_selector":    s.ListConfig.LinkSelector,
		"summary_selector": s.ListConfig.SummarySelector,
		"content_selector": s.ArticleConfig.ContentSelector,
	}
	for name, sel := range selectors {
		if strings.TrimSpace(sel) == "" {
			return fmt.Errorf("%s is empty", name)
		}
	}

	return nil
}
