// internal/fetch/client.go

// Package fetch retrieves product pages over HTTP, optionally rendering
// script-heavy storefronts through a headless browser first.
package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/valpere/ShopScrapexter/internal/config"
)

const maxResponseSize = 20 << 20 // 20 MiB

// MetricsRecorder receives the outcome of each page fetch.
// monitoring.MetricsManager satisfies it.
type MetricsRecorder interface {
	RecordFetch(host string, duration time.Duration, err error)
}

// Client fetches product pages with user agent rotation, rate limiting,
// and retry with exponential backoff.
type Client struct {
	httpClient *http.Client
	userAgents []string
	currentUA  int
	uaMu       sync.Mutex
	limiter    *rate.Limiter
	retries    int
	retryDelay time.Duration
	headers    map[string]string
	renderer   *Renderer
	metrics    MetricsRecorder
	logger     logrus.FieldLogger
}

// NewClient creates a fetch client from the given configuration. When a
// browser is configured, pages are rendered through it instead of plain
// HTTP.
func NewClient(cfg config.FetchConfig, logger logrus.FieldLogger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 1.0
	}
	if cfg.Burst == 0 {
		cfg.Burst = 5
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	userAgents := cfg.UserAgents
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents()
	}

	var renderer *Renderer
	if cfg.Browser != nil {
		renderer = NewRenderer(cfg.Browser)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgents: userAgents,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
		headers:    cfg.Headers,
		renderer:   renderer,
		logger:     logger,
	}
}

// WithMetrics attaches a fetch-metrics recorder to the client.
func (c *Client) WithMetrics(metrics MetricsRecorder) *Client {
	c.metrics = metrics
	return c
}

// FetchDocument retrieves the page at targetURL and parses it.
func (c *Client) FetchDocument(ctx context.Context, targetURL string) (*goquery.Document, error) {
	html, err := c.FetchHTML(ctx, targetURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}

// FetchHTML retrieves the raw HTML of the page at targetURL. One fetch
// is recorded per page regardless of retries.
func (c *Client) FetchHTML(ctx context.Context, targetURL string) (string, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	start := time.Now()
	html, err := c.fetchHTML(ctx, targetURL)
	if c.metrics != nil {
		c.metrics.RecordFetch(parsed.Hostname(), time.Since(start), err)
	}
	return html, err
}

func (c *Client) fetchHTML(ctx context.Context, targetURL string) (string, error) {
	if c.renderer != nil {
		return c.renderer.Render(ctx, targetURL)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		html, retryable, err := c.fetchOnce(ctx, targetURL)
		if err == nil {
			return html, nil
		}
		lastErr = err

		c.logger.WithError(err).WithFields(logrus.Fields{
			"url":     targetURL,
			"attempt": attempt + 1,
		}).Warn("fetch attempt failed")

		if !retryable || attempt == c.retries {
			break
		}
		if err := c.waitForRetry(ctx, attempt); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("fetch failed after %d attempts: %w", c.retries+1, lastErr)
}

// Close releases the renderer, if any.
func (c *Client) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

func (c *Client) fetchOnce(ctx context.Context, targetURL string) (html string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	c.setRequestHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", retryableStatus(resp.StatusCode), &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        targetURL,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", true, fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), false, nil
}

// setRequestHeaders makes requests look browser-like and rotates the
// user agent.
func (c *Client) setRequestHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.nextUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
}

func (c *Client) nextUserAgent() string {
	c.uaMu.Lock()
	defer c.uaMu.Unlock()

	if len(c.userAgents) == 0 {
		return "ShopScrapexter/1.0"
	}

	userAgent := c.userAgents[c.currentUA]
	c.currentUA = (c.currentUA + 1) % len(c.userAgents)
	return userAgent
}

// waitForRetry sleeps with exponential backoff and jitter, honoring
// context cancellation.
func (c *Client) waitForRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay * time.Duration(1<<uint(attempt))
	delay += time.Duration(rand.Int63n(int64(delay/2) + 1))
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func retryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	// CloudFlare origin errors
	return statusCode >= 520 && statusCode <= 524
}

// HTTPError reports a non-2xx response.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (URL: %s)", e.StatusCode, e.Status, e.URL)
}

func defaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	}
}
