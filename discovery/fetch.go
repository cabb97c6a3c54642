package discovery

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PageFetcher retrieves and parses one HTML page.
type PageFetcher interface {
	FetchHTML(ctx context.Context, url string) (*goquery.Document, error)
}

// FetchError reports a failed page fetch: the network was unreachable, the
// server answered with a non-2xx status, or the body could not be read.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher issues one blocking GET per page with a fixed User-Agent.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a fetcher whose requests time out after timeout.
func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	return NewFetcherWithClient(&http.Client{Timeout: timeout}, userAgent)
}

// NewFetcherWithClient creates a fetcher that sends requests through client.
func NewFetcherWithClient(client *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
	}
}

// FetchHTML fetches url and parses the response body. Errors are always a
// *FetchError; nothing is retried.
func (f *Fetcher) FetchHTML(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to fetch URL: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP error: %s", resp.Status),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to parse HTML: %w", err),
		}
	}

	return doc, nil
}
