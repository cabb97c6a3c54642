package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rawprouk/scrape/casestudy"
	"github.com/rawprouk/scrape/scraper"
)

// ErrInvalidPageCount is returned when a run is asked for fewer than one
// listing page.
var ErrInvalidPageCount = errors.New("page count must be at least 1")

// EventKind identifies an operator-facing status message.
type EventKind string

const (
	// EventPage is sent before each listing page is fetched.
	EventPage EventKind = "progress"
	// EventEntry is sent after each case study is collected.
	EventEntry EventKind = "entry"
	// EventExhausted is sent when a listing page has no entries and the run
	// stops early.
	EventExhausted EventKind = "warning"
)

// Event is a status message for whoever started the run.
type Event struct {
	Kind    EventKind `json:"kind"`
	Page    int       `json:"page"`
	URL     string    `json:"url,omitempty"`
	Message string    `json:"message"`
}

// Reporter receives status events while a run is in progress.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) {
	f(e)
}

// DriverConfig holds the fixed pauses between requests.
type DriverConfig struct {
	// Pause after each case study before the next one
	EntryDelay time.Duration
	// Pause between listing pages
	PageDelay time.Duration
}

// DefaultDriverConfig returns a one second pause between case studies and
// two seconds between listing pages.
func DefaultDriverConfig() *DriverConfig {
	return &DriverConfig{
		EntryDelay: 1 * time.Second,
		PageDelay:  2 * time.Second,
	}
}

// Driver walks the listing pages of one site in order and collects a
// CaseStudy per entry. Everything happens on the calling goroutine.
type Driver struct {
	fetcher PageFetcher
	site    scraper.SiteConfig
	config  *DriverConfig
	logger  *log.Logger
	wait    func(context.Context, time.Duration) error
}

// NewDriver creates a driver. A nil config uses DefaultDriverConfig and a nil
// logger uses the package default.
func NewDriver(fetcher PageFetcher, site scraper.SiteConfig, config *DriverConfig, logger *log.Logger) *Driver {
	if config == nil {
		config = DefaultDriverConfig()
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Driver{
		fetcher: fetcher,
		site:    site,
		config:  config,
		logger:  logger,
		wait:    pause,
	}
}

// ListingURL returns the address of listing page n (1-based).
func ListingURL(site scraper.SiteConfig, page int) string {
	base := site.ListingBase()
	if page <= 1 {
		return base
	}
	return fmt.Sprintf("%s/page/%d/", base, page)
}

// ScrapeAll fetches listing pages 1..maxPages, stopping early at the first
// page with no entries, and follows every entry link. The first fetch error
// aborts the run and nothing collected so far is returned.
func (d *Driver) ScrapeAll(ctx context.Context, maxPages int, reporter Reporter) ([]casestudy.CaseStudy, error) {
	if maxPages < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageCount, maxPages)
	}
	if reporter == nil {
		reporter = ReporterFunc(func(Event) {})
	}

	studies := []casestudy.CaseStudy{}

	for page := 1; page <= maxPages; page++ {
		listingURL := ListingURL(d.site, page)
		reporter.Report(Event{
			Kind:    EventPage,
			Page:    page,
			URL:     listingURL,
			Message: fmt.Sprintf("Scraping page %d... %s", page, listingURL),
		})

		doc, err := d.fetcher.FetchHTML(ctx, listingURL)
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", page, err)
		}

		entries := ExtractListing(doc, d.site.ListConfig, d.site.Origin)
		if len(entries) == 0 {
			d.logger.Info("Listing page is empty, stopping", "page", page, "url", listingURL)
			reporter.Report(Event{
				Kind:    EventExhausted,
				Page:    page,
				URL:     listingURL,
				Message: "No more case studies found.",
			})
			break
		}

		for _, entry := range entries {
			study, err := d.collect(ctx, entry)
			if err != nil {
				return nil, fmt.Errorf("listing page %d: %w", page, err)
			}
			studies = append(studies, study)

			reporter.Report(Event{
				Kind:    EventEntry,
				Page:    page,
				URL:     casestudy.Deref(study.URL),
				Message: fmt.Sprintf("Collected case study %d: %s", len(studies), casestudy.Deref(study.Title)),
			})

			if err := d.wait(ctx, d.config.EntryDelay); err != nil {
				return nil, err
			}
		}

		d.logger.Info("Scraped listing page", "page", page, "entries", len(entries), "total", len(studies))

		if page < maxPages {
			if err := d.wait(ctx, d.config.PageDelay); err != nil {
				return nil, err
			}
		}
	}

	return studies, nil
}

// collect builds the CaseStudy for one listing entry, fetching its detail
// page when the entry has a link.
func (d *Driver) collect(ctx context.Context, entry ListingEntry) (casestudy.CaseStudy, error) {
	fullText := ""

	if entry.Link != nil {
		d.logger.Debug("Fetching case study", "url", *entry.Link)

		doc, err := d.fetcher.FetchHTML(ctx, *entry.Link)
		if err != nil {
			return casestudy.CaseStudy{}, fmt.Errorf("case study %s: %w", *entry.Link, err)
		}
		fullText = ExtractDetail(doc, d.site.ArticleConfig)
	} else {
		d.logger.Debug("Listing entry has no link, skipping detail fetch", "title", casestudy.Deref(entry.Title))
	}

	return casestudy.New(entry.Title, entry.Summary, entry.Link, fullText), nil
}

// pause waits for d unless ctx ends first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
