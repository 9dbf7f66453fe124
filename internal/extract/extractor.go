// internal/extract/extractor.go
package extract

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/valpere/ShopScrapexter/internal/platform"
)

// Config tunes one extraction run. The zero value is usable.
type Config struct {
	// Platform forces the ruleset instead of detecting it from the
	// page host and markers.
	Platform platform.Platform

	// ReviewLimit caps extracted reviews; 0 means DefaultReviewLimit.
	ReviewLimit int

	// RulesetOverrides layers caller-supplied selector lists over the
	// built-in per-platform registry.
	RulesetOverrides map[platform.Platform]Ruleset

	Logger logrus.FieldLogger
}

// Extractor runs every field-category extractor against one loaded
// page document and merges the partial results into a ProductRecord.
// One Extractor serves one document; dedup state never outlives a run.
type Extractor struct {
	doc         *goquery.Document
	url         string
	platform    platform.Platform
	rules       Ruleset
	reviewLimit int
	logger      logrus.FieldLogger
}

// New builds an extractor for an already-parsed page document. The
// platform is computed once from the page host and embedded markers
// and threaded through every category extractor.
func New(doc *goquery.Document, pageURL string, cfg *Config) *Extractor {
	if cfg == nil {
		cfg = &Config{}
	}

	p := cfg.Platform
	if p == "" {
		p = platform.Detect(hostOf(pageURL), doc)
	}

	limit := cfg.ReviewLimit
	if limit <= 0 {
		limit = DefaultReviewLimit
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Extractor{
		doc:         doc,
		url:         pageURL,
		platform:    p,
		rules:       rulesFor(p, cfg.RulesetOverrides),
		reviewLimit: limit,
		logger:      logger.WithField("platform", string(p)),
	}
}

// Platform returns the platform the extractor resolved for its page.
func (e *Extractor) Platform() platform.Platform {
	return e.platform
}

// Extract runs all category extractors concurrently and merges their
// results. It never fails: a pathological document yields a record
// with mostly-empty fields, and a panicking category is downgraded to
// "no data" for that category alone.
func (e *Extractor) Extract(ctx context.Context) *ProductRecord {
	record := &ProductRecord{
		URL:         e.url,
		Platform:    e.platform,
		ExtractedAt: time.Now().UTC(),
	}

	if err := ctx.Err(); err != nil {
		e.logger.WithField("error", err).Warn("context already done, returning empty record")
		record.StockStatus = StockUnknown
		record.Images = []string{}
		record.Videos = []string{}
		record.Variants = []Variant{}
		record.Reviews = []Review{}
		record.Specifications = map[string]string{}
		return record
	}

	var (
		basic    basicInfo
		pricing  pricingInfo
		stock    stockInfo
		shipping shippingInfo
		images   []string
		videos   []string
		variants []Variant
		reviews  []Review
		summary  *ReviewSummary
		specs    map[string]string
	)

	var wg sync.WaitGroup
	run := func(category string, fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					e.logger.WithFields(logrus.Fields{
						"category": category,
						"panic":    r,
					}).Warn("category extractor failed, continuing without its data")
				}
			}()
			fn()
		}()
	}

	run("basic_info", func() { basic = e.extractBasicInfo() })
	run("pricing", func() { pricing = e.extractPricing() })
	run("stock", func() { stock = e.extractStock() })
	run("shipping", func() { shipping = e.extractShipping() })
	run("images", func() { images = e.extractImages() })
	run("videos", func() { videos = e.extractVideos() })
	run("variants", func() { variants = e.extractVariants() })
	run("reviews", func() {
		reviews = e.extractReviews(e.reviewLimit)
		summary = e.extractReviewSummary()
	})
	run("specifications", func() { specs = e.extractSpecifications() })

	wg.Wait()

	record.Title = basic.Title
	record.Description = basic.Description
	record.Brand = basic.Brand
	record.SKU = basic.SKU
	record.GTIN = basic.GTIN
	record.MPN = basic.MPN

	record.Price = pricing.Price
	record.OriginalPrice = pricing.OriginalPrice
	record.Currency = pricing.Currency

	record.StockStatus = stock.Status
	record.StockQuantity = stock.Quantity
	record.InStock = stock.InStock

	record.ShippingInfo = shipping.Info
	record.FreeShipping = shipping.FreeShipping
	record.DeliveryTime = shipping.DeliveryTime
	record.ShippingCost = shipping.Cost

	record.Images = emptyIfNil(images)
	record.Videos = emptyIfNil(videos)
	record.Variants = variants
	record.Reviews = reviews
	record.ReviewSummary = summary
	record.Specifications = specs

	if record.StockStatus == "" {
		record.StockStatus = StockUnknown
	}
	if record.Variants == nil {
		record.Variants = []Variant{}
	}
	if record.Reviews == nil {
		record.Reviews = []Review{}
	}
	if record.Specifications == nil {
		record.Specifications = map[string]string{}
	}

	return record
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
