// pkg/api/api.go

// Package api is the public entry point for embedding ShopScrapexter in
// other Go programs.
package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/valpere/ShopScrapexter/internal/config"
	"github.com/valpere/ShopScrapexter/internal/extract"
	"github.com/valpere/ShopScrapexter/internal/fetch"
	"github.com/valpere/ShopScrapexter/internal/platform"
)

// Re-export types from internal packages for the public API
type Config = config.Config
type FetchConfig = config.FetchConfig
type BrowserConfig = config.BrowserConfig
type OutputConfig = config.OutputConfig
type ProductRecord = extract.ProductRecord
type Variant = extract.Variant
type Review = extract.Review
type ReviewSummary = extract.ReviewSummary
type Ruleset = extract.Ruleset
type Platform = platform.Platform

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	return config.LoadFromFile(path)
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	return config.Default()
}

// Platforms lists the platforms with dedicated extraction rules.
func Platforms() []Platform {
	return platform.Known()
}

// DetectPlatform identifies the platform serving the given product URL
// by its hostname alone.
func DetectPlatform(pageURL string) Platform {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return platform.Generic
	}
	return platform.Detect(parsed.Hostname(), nil)
}

// Client extracts product records from live pages or pre-fetched HTML.
type Client struct {
	cfg     *config.Config
	fetcher *fetch.Client
	logger  logrus.FieldLogger
}

// NewClient creates a client from the given configuration. A nil
// configuration uses defaults.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logrus.StandardLogger()
	return &Client{
		cfg:     cfg,
		fetcher: fetch.NewClient(cfg.Fetch, logger),
		logger:  logger,
	}, nil
}

// ExtractURL fetches the product page and extracts a record from it.
func (c *Client) ExtractURL(ctx context.Context, pageURL string) (*ProductRecord, error) {
	doc, err := c.fetcher.FetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return c.extract(ctx, doc, pageURL), nil
}

// ExtractHTML extracts a record from already-fetched HTML. The URL is
// used for platform detection and resolving relative links.
func (c *Client) ExtractHTML(ctx context.Context, pageURL, html string) (*ProductRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return c.extract(ctx, doc, pageURL), nil
}

func (c *Client) extract(ctx context.Context, doc *goquery.Document, pageURL string) *ProductRecord {
	extractor := extract.New(doc, pageURL, &extract.Config{
		Platform:         c.cfg.ForcedPlatform(),
		ReviewLimit:      c.cfg.ReviewLimit,
		RulesetOverrides: c.cfg.RulesetOverrides(),
		Logger:           c.logger,
	})
	return extractor.Extract(ctx)
}

// Close releases the underlying fetcher, including any headless browser.
func (c *Client) Close() error {
	return c.fetcher.Close()
}
