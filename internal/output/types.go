// internal/output/types.go

// Package output writes extracted product records to JSON, CSV, or Excel
// destinations.
package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/valpere/ShopScrapexter/internal/extract"
)

// OutputFormat represents supported output formats
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatCSV   OutputFormat = "csv"
	FormatExcel OutputFormat = "excel"
)

// ValidOutputFormats returns all valid output format values
func ValidOutputFormats() []OutputFormat {
	return []OutputFormat{FormatJSON, FormatCSV, FormatExcel}
}

// IsValid checks if the output format is valid
func (of OutputFormat) IsValid() bool {
	for _, valid := range ValidOutputFormats() {
		if of == valid {
			return true
		}
	}
	return false
}

// GetFileExtension returns the appropriate file extension for the format
func (of OutputFormat) GetFileExtension() string {
	switch of {
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	case FormatExcel:
		return ".xlsx"
	default:
		return ".txt"
	}
}

// GetMimeType returns the MIME type for the format
func (of OutputFormat) GetMimeType() string {
	switch of {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain"
	}
}

// Writer defines the interface for output writers
type Writer interface {
	Write(records []extract.ProductRecord) error
	Close() error
}

// tabularColumns is the fixed column order for CSV and Excel output. One
// row per product; list fields are joined, nested fields are counted.
var tabularColumns = []string{
	"url",
	"platform",
	"extracted_at",
	"title",
	"brand",
	"sku",
	"gtin",
	"mpn",
	"price",
	"original_price",
	"currency",
	"stock_status",
	"stock_quantity",
	"in_stock",
	"shipping_info",
	"free_shipping",
	"delivery_time",
	"shipping_cost",
	"image_count",
	"images",
	"video_count",
	"variant_count",
	"review_count",
	"average_rating",
	"specifications",
	"description",
}

// flatten projects a product record onto the tabular column set.
func flatten(record extract.ProductRecord) map[string]interface{} {
	row := map[string]interface{}{
		"url":           record.URL,
		"platform":      string(record.Platform),
		"extracted_at":  record.ExtractedAt,
		"title":         record.Title,
		"brand":         record.Brand,
		"sku":           record.SKU,
		"gtin":          record.GTIN,
		"mpn":           record.MPN,
		"price":         record.Price,
		"currency":      record.Currency,
		"stock_status":  string(record.StockStatus),
		"shipping_info": record.ShippingInfo,
		"free_shipping": record.FreeShipping,
		"delivery_time": record.DeliveryTime,
		"image_count":   len(record.Images),
		"images":        strings.Join(record.Images, "|"),
		"video_count":   len(record.Videos),
		"variant_count": len(record.Variants),
		"review_count":  len(record.Reviews),
		"description":   record.Description,
	}

	if record.OriginalPrice != nil {
		row["original_price"] = *record.OriginalPrice
	}
	if record.StockQuantity != nil {
		row["stock_quantity"] = *record.StockQuantity
	}
	if record.InStock != nil {
		row["in_stock"] = *record.InStock
	}
	if record.ShippingCost != nil {
		row["shipping_cost"] = *record.ShippingCost
	}
	if record.ReviewSummary != nil {
		row["average_rating"] = record.ReviewSummary.AverageRating
	}

	if len(record.Specifications) > 0 {
		keys := make([]string, 0, len(record.Specifications))
		for key := range record.Specifications {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", key, record.Specifications[key]))
		}
		row["specifications"] = strings.Join(parts, "; ")
	}

	return row
}
