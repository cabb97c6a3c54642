package discovery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFetchHTML_Success verifies the body is parsed and the User-Agent sent
func TestFetchHTML_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><h1>Hello</h1></body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher("TestAgent/1.0", 5*time.Second)
	doc, err := fetcher.FetchHTML(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Hello", doc.Find("h1").Text())
	assert.Equal(t, "TestAgent/1.0", gotUA)
}

// TestFetchHTML_HTTPError verifies non-2xx statuses become a FetchError
func TestFetchHTML_HTTPError(t *testing.T) {
	statuses := []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError, http.StatusServiceUnavailable}

	for _, status := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			fetcher := NewFetcher("TestAgent/1.0", 5*time.Second)
			doc, err := fetcher.FetchHTML(context.Background(), server.URL)
			require.Error(t, err)
			assert.Nil(t, doc)

			var fetchErr *FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, status, fetchErr.StatusCode)
			assert.Equal(t, server.URL, fetchErr.URL)
			assert.Contains(t, err.Error(), "HTTP error")
		})
	}
}

// TestFetchHTML_NetworkError verifies unreachable hosts become a FetchError
func TestFetchHTML_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	fetcher := NewFetcher("TestAgent/1.0", 5*time.Second)
	_, err := fetcher.FetchHTML(context.Background(), url)
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode, "no response means no status")
	assert.Contains(t, err.Error(), "failed to fetch URL")
}

// TestFetchHTML_InvalidURL verifies request construction errors
func TestFetchHTML_InvalidURL(t *testing.T) {
	fetcher := NewFetcher("TestAgent/1.0", 5*time.Second)
	_, err := fetcher.FetchHTML(context.Background(), "http://[::1")

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, err.Error(), "failed to create request")
}

// TestFetchHTML_Timeout verifies the client timeout is applied
func TestFetchHTML_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	fetcher := NewFetcher("TestAgent/1.0", 50*time.Millisecond)
	_, err := fetcher.FetchHTML(context.Background(), server.URL)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
}
