// Package fetch retrieves remote documents as text over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"memomcp/internal/logging"
)

// ErrStatus is returned when the server answers with a non-2xx status.
var ErrStatus = errors.New("Failed to fetch URL")

// Fetcher retrieves the body of a URL as text.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// FetchText calls f.
func (f FetcherFunc) FetchText(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// Options configures an HTTPFetcher.
type Options struct {
	// Timeout bounds the whole request including body read. Zero means 60s.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodyBytes caps how much of the body is read. Zero means 2 MiB.
	MaxBodyBytes int64

	// Client overrides the HTTP client. Nil means http.DefaultClient.
	Client *http.Client
}

// HTTPFetcher is the production Fetcher.
type HTTPFetcher struct {
	opts Options
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates a fetcher, filling zero options with defaults.
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 2 << 20
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	return &HTTPFetcher{opts: opts}
}

// FetchText performs a GET and returns the body. A non-2xx status yields an
// error wrapping ErrStatus that names the status code and text.
func (f *HTTPFetcher) FetchText(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	logging.FetchDebug("GET %s", url)
	start := time.Now()

	resp, err := f.opts.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s", ErrStatus, statusText(resp))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	logging.FetchDebug("GET %s: %d bytes in %s", url, len(body), time.Since(start))
	return string(body), nil
}

// statusText renders "<code> <text>", e.g. "404 Not Found".
func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return fmt.Sprintf("%d %s", resp.StatusCode, text)
	}
	return resp.Status
}
