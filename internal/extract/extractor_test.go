// internal/extract/extractor_test.go
package extract

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/ShopScrapexter/internal/platform"
)

func newTestExtractor(t *testing.T, html, pageURL string) *Extractor {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return New(doc, pageURL, nil)
}

const widgetPage = `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Product",
  "name": "Widget",
  "description": "A very useful widget.",
  "brand": {"@type": "Brand", "name": "Acme"},
  "sku": "WID-1",
  "offers": {
    "@type": "Offer",
    "price": "9.99",
    "priceCurrency": "USD",
    "availability": "https://schema.org/InStock"
  }
}
</script>
</head><body><h1>Widget</h1></body></html>`

func TestExtract_StructuredDataEndToEnd(t *testing.T) {
	e := newTestExtractor(t, widgetPage, "https://www.example.org/widget")
	record := e.Extract(context.Background())

	require.NotNil(t, record)
	assert.Equal(t, "Widget", record.Title)
	assert.Equal(t, "A very useful widget.", record.Description)
	assert.Equal(t, "Acme", record.Brand)
	assert.Equal(t, "WID-1", record.SKU)
	assert.Equal(t, 9.99, record.Price)
	assert.Equal(t, "USD", record.Currency)
	assert.Equal(t, StockInStock, record.StockStatus)
	require.NotNil(t, record.InStock)
	assert.True(t, *record.InStock)
	assert.Equal(t, platform.Generic, record.Platform)
	assert.Equal(t, "https://www.example.org/widget", record.URL)
	assert.False(t, record.ExtractedAt.IsZero())
}

func TestExtract_PathologicalDocument(t *testing.T) {
	e := newTestExtractor(t, `<html><body></body></html>`, "https://www.example.org/empty")
	record := e.Extract(context.Background())

	require.NotNil(t, record)
	assert.Empty(t, record.Title)
	assert.Zero(t, record.Price)
	assert.Equal(t, StockUnknown, record.StockStatus)
	assert.NotNil(t, record.Images)
	assert.NotNil(t, record.Videos)
	assert.NotNil(t, record.Variants)
	assert.NotNil(t, record.Reviews)
	assert.NotNil(t, record.Specifications)
}

func TestExtract_MalformedStructuredDataBlockIsSkipped(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{not valid json</script>
<script type="application/ld+json">{"@type":"Product","name":"Survivor"}</script>
</head><body></body></html>`

	e := newTestExtractor(t, html, "https://www.example.org/p")
	record := e.Extract(context.Background())

	assert.Equal(t, "Survivor", record.Title)
}

func TestExtract_Idempotent(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">
{"@type":"Product","name":"Stable","image":["https://cdn.example.com/img/IDEMPOTENT01.jpg?v=1","https://cdn.example.com/img/IDEMPOTENT01.jpg?v=2"]}
</script></head><body><h1>Stable</h1></body></html>`
	pageURL := "https://www.example.org/stable"

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	first := New(doc, pageURL, nil).Extract(context.Background())
	second := New(doc, pageURL, nil).Extract(context.Background())

	// Timestamps differ between runs; everything else must not.
	second.ExtractedAt = first.ExtractedAt
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	assert.Len(t, first.Images, 1, "dedup set must be re-initialized per run")
}

func TestExtract_MetaTagFallback(t *testing.T) {
	html := `<html><head>
<meta property="og:title" content="Meta Widget">
<meta property="og:description" content="From the social tags.">
</head><body></body></html>`

	e := newTestExtractor(t, html, "https://www.example.org/p")
	record := e.Extract(context.Background())

	assert.Equal(t, "Meta Widget", record.Title)
	assert.Equal(t, "From the social tags.", record.Description)
}

func TestExtract_SelectorFallbackAndBrandPrefix(t *testing.T) {
	html := `<html><body>
<h1 itemprop="name">DOM Widget</h1>
<span class="brand">by Acme</span>
<div id="description">Long form description.</div>
</body></html>`

	e := newTestExtractor(t, html, "https://www.example.org/p")
	record := e.Extract(context.Background())

	assert.Equal(t, "DOM Widget", record.Title)
	assert.Equal(t, "Acme", record.Brand, "leading brand label must be stripped")
	assert.Equal(t, "Long form description.", record.Description)
}

func TestExtract_ForcedPlatform(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><h1 id="productTitle">Forced</h1></body></html>`))
	require.NoError(t, err)

	e := New(doc, "https://mirror.example.net/p", &Config{Platform: platform.Amazon})
	assert.Equal(t, platform.Amazon, e.Platform())

	record := e.Extract(context.Background())
	assert.Equal(t, "Forced", record.Title)
}

func TestExtract_RulesetOverride(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><div class="custom-name">Overridden</div></body></html>`))
	require.NoError(t, err)

	overrides := map[platform.Platform]Ruleset{
		platform.Generic: {Title: []string{".custom-name"}},
	}
	e := New(doc, "https://www.example.org/p", &Config{RulesetOverrides: overrides})
	record := e.Extract(context.Background())

	assert.Equal(t, "Overridden", record.Title)
}

func TestExtract_PlatformDetectedFromHost(t *testing.T) {
	e := newTestExtractor(t, `<html><body></body></html>`, "https://www.amazon.com/dp/B000TEST01")
	assert.Equal(t, platform.Amazon, e.Platform())

	record := e.Extract(context.Background())
	assert.Equal(t, "B000TEST01", record.SKU, "ASIN from the URL is the SKU of last resort")
}

func TestExtract_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestExtractor(t, widgetPage, "https://www.example.org/widget")
	record := e.Extract(ctx)

	require.NotNil(t, record)
	assert.Empty(t, record.Title)
	assert.Equal(t, StockUnknown, record.StockStatus)
}
