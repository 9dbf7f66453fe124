// internal/extract/types.go
package extract

import (
	"time"

	"github.com/valpere/ShopScrapexter/internal/platform"
)

// Limits applied to extracted data to bound storage blowup.
const (
	MaxImages       = 50
	MaxVideos       = 20
	MaxReviewImages = 10
	MaxTextLength   = 5000
	MaxSpecKeyLen   = 100
	MaxSpecValueLen = 500

	DefaultReviewLimit = 50
)

// StockStatus describes product availability.
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockOutOfStock StockStatus = "out_of_stock"
	StockPreorder   StockStatus = "preorder"
	StockLow        StockStatus = "low_stock"
	StockUnknown    StockStatus = "unknown"
)

// ProductRecord is the unified output of one extraction run. Empty or
// nil fields mean "not found", never failure.
type ProductRecord struct {
	URL         string            `json:"url"`
	Platform    platform.Platform `json:"platform"`
	ExtractedAt time.Time         `json:"extracted_at"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	SKU         string `json:"sku"`
	GTIN        string `json:"gtin,omitempty"`
	MPN         string `json:"mpn,omitempty"`

	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Currency      string   `json:"currency"`

	StockStatus   StockStatus `json:"stock_status"`
	StockQuantity *int        `json:"stock_quantity,omitempty"`
	InStock       *bool       `json:"in_stock,omitempty"`

	ShippingInfo string   `json:"shipping_info,omitempty"`
	FreeShipping bool     `json:"free_shipping"`
	DeliveryTime string   `json:"delivery_time,omitempty"`
	ShippingCost *float64 `json:"shipping_cost,omitempty"`

	Images []string `json:"images"`
	Videos []string `json:"videos"`

	Variants []Variant `json:"variants"`

	Reviews       []Review       `json:"reviews"`
	ReviewSummary *ReviewSummary `json:"review_summary,omitempty"`

	Specifications map[string]string `json:"specifications"`
}

// Variant is one purchasable variation of a product. SKU is never empty:
// when the source provides none, a positional identifier is synthesized.
type Variant struct {
	SKU       string            `json:"sku"`
	Title     string            `json:"title,omitempty"`
	Price     float64           `json:"price,omitempty"`
	Stock     *int              `json:"stock,omitempty"`
	Available bool              `json:"available"`
	Options   map[string]string `json:"options,omitempty"`
	Image     string            `json:"image,omitempty"`
}

// Review is a single customer review. Date is kept as raw source text
// because formats are inconsistent across platforms and locales.
type Review struct {
	Author   string   `json:"author"`
	Rating   float64  `json:"rating"`
	Content  string   `json:"content"`
	Date     string   `json:"date,omitempty"`
	Verified bool     `json:"verified"`
	Images   []string `json:"images,omitempty"`
}

// ReviewSummary aggregates a page's overall rating widget when present.
type ReviewSummary struct {
	AverageRating float64 `json:"average_rating"`
	Count         int     `json:"count"`
}

// Partial results produced by the category extractors before merge.

type basicInfo struct {
	Title       string
	Description string
	Brand       string
	SKU         string
	GTIN        string
	MPN         string
}

type pricingInfo struct {
	Price         float64
	OriginalPrice *float64
	Currency      string
}

type stockInfo struct {
	Status   StockStatus
	Quantity *int
	InStock  *bool
}

type shippingInfo struct {
	Info         string
	FreeShipping bool
	DeliveryTime string
	Cost         *float64
}
