package wfs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Fetcher retrieves the body of a URL as text
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, rawURL string) (string, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, rawURL string) (string, error) {
	return f(ctx, rawURL)
}

// HTTPTransport performs plain GET requests. There are no retries.
type HTTPTransport struct {
	// HTTP client used for every request
	Client *http.Client

	// UserAgent is sent when non-empty
	UserAgent string

	// Limiter paces requests when non-nil
	Limiter *rate.Limiter

	// Logger receives one debug record per request
	Logger *slog.Logger

	// Metrics observes request durations when non-nil
	Metrics *Metrics
}

// TransportOptions configures NewHTTPTransport
type TransportOptions struct {
	Timeout   time.Duration // 0 keeps the client default (no timeout)
	RateLimit float64       // requests per second, 0 disables pacing
	UserAgent string
	Logger    *slog.Logger
	Metrics   *Metrics
}

// NewHTTPTransport creates a transport from options
func NewHTTPTransport(opts TransportOptions) *HTTPTransport {
	t := &HTTPTransport{
		Client:    &http.Client{Timeout: opts.Timeout},
		UserAgent: opts.UserAgent,
		Logger:    opts.Logger,
		Metrics:   opts.Metrics,
	}
	if opts.RateLimit > 0 {
		t.Limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	if t.Logger == nil {
		t.Logger = slog.Default()
	}
	return t
}

// Fetch issues a GET request and returns the full response body
func (t *HTTPTransport) Fetch(ctx context.Context, rawURL string) (string, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", rawURL, err)
	}
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		t.Metrics.ObserveRequest(time.Since(start), false)
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	t.logger().Debug("request finished",
		"url", rawURL, "status", resp.StatusCode, "bytes", len(body), "duration", elapsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.Metrics.ObserveRequest(elapsed, false)
		return "", &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	if err != nil {
		t.Metrics.ObserveRequest(elapsed, false)
		return "", fmt.Errorf("failed to read response from %s: %w", rawURL, err)
	}
	t.Metrics.ObserveRequest(elapsed, true)
	return string(body), nil
}

func (t *HTTPTransport) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}
