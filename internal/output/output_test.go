// internal/output/output_test.go
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/valpere/ShopScrapexter/internal/config"
	"github.com/valpere/ShopScrapexter/internal/extract"
	"github.com/valpere/ShopScrapexter/internal/platform"
)

func sampleRecords() []extract.ProductRecord {
	original := 29.99
	quantity := 12
	inStock := true

	return []extract.ProductRecord{
		{
			URL:           "https://www.amazon.com/dp/B000TEST01",
			Platform:      platform.Amazon,
			ExtractedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Title:         "Widget",
			Brand:         "Acme",
			SKU:           "B000TEST01",
			Price:         19.99,
			OriginalPrice: &original,
			Currency:      "USD",
			StockStatus:   extract.StockInStock,
			StockQuantity: &quantity,
			InStock:       &inStock,
			ShippingInfo:  "Free delivery by Thursday",
			FreeShipping:  true,
			DeliveryTime:  "2-3 days",
			Images:        []string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"},
			Variants:      []extract.Variant{{SKU: "V1", Available: true}},
			Reviews:       []extract.Review{{Author: "Alice", Rating: 5, Content: "ok"}},
			ReviewSummary: &extract.ReviewSummary{AverageRating: 4.3, Count: 10},
			Specifications: map[string]string{
				"Color":  "Black",
				"Weight": "1.2 kg",
			},
		},
		{
			URL:         "https://www.example.org/p",
			Platform:    platform.Generic,
			ExtractedAt: time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC),
			Title:       "Gadget",
			Price:       5,
			Currency:    "EUR",
			StockStatus: extract.StockUnknown,
		},
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONStreamWriter(&buf, false)

	if err := w.Write(sampleRecords()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var decoded []extract.ProductRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("got %d records, want 2", len(decoded))
	}
	if decoded[0].Title != "Widget" || decoded[0].Platform != platform.Amazon {
		t.Errorf("first record mangled: %+v", decoded[0])
	}
	if decoded[0].OriginalPrice == nil || *decoded[0].OriginalPrice != 29.99 {
		t.Error("original price lost in round trip")
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVStreamWriter(&buf)

	if err := w.Write(sampleRecords()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 records", len(rows))
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	for i, column := range header {
		index[column] = i
	}

	first := rows[1]
	if first[index["title"]] != "Widget" {
		t.Errorf("title = %q", first[index["title"]])
	}
	if first[index["price"]] != "19.99" {
		t.Errorf("price = %q", first[index["price"]])
	}
	if first[index["images"]] != "https://img.example.com/1.jpg|https://img.example.com/2.jpg" {
		t.Errorf("images = %q", first[index["images"]])
	}
	if first[index["specifications"]] != "Color: Black; Weight: 1.2 kg" {
		t.Errorf("specifications = %q", first[index["specifications"]])
	}
	if first[index["shipping_info"]] != "Free delivery by Thursday" {
		t.Errorf("shipping_info = %q", first[index["shipping_info"]])
	}
	if first[index["free_shipping"]] != "true" {
		t.Errorf("free_shipping = %q", first[index["free_shipping"]])
	}

	second := rows[2]
	if second[index["original_price"]] != "" {
		t.Errorf("missing original price should be empty, got %q", second[index["original_price"]])
	}
	if second[index["stock_status"]] != "unknown" {
		t.Errorf("stock status = %q", second[index["stock_status"]])
	}
}

func TestCSVWriter_HeaderWrittenOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVStreamWriter(&buf)

	records := sampleRecords()
	if err := w.Write(records[:1]); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := w.Write(records[1:]); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (header must not repeat)", len(rows))
	}
}

func TestExcelWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.xlsx")

	w, err := NewExcelWriter(path, "Products")
	if err != nil {
		t.Fatalf("NewExcelWriter failed: %v", err)
	}
	if err := w.Write(sampleRecords()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows("Products")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 records", len(rows))
	}
	if rows[0][0] != "url" {
		t.Errorf("first header cell = %q, want url", rows[0][0])
	}

	found := false
	for _, cell := range rows[1] {
		if cell == "Widget" {
			found = true
		}
	}
	if !found {
		t.Error("Widget row missing from sheet")
	}
}

func TestExcelWriter_RequiresPath(t *testing.T) {
	if _, err := NewExcelWriter("", "Products"); err == nil {
		t.Error("expected an error for a missing file path")
	}
}

func TestManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	m, err := NewManager(&config.OutputConfig{Format: "json", File: path, Pretty: true})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Write(sampleRecords()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if !strings.Contains(string(data), "Widget") {
		t.Error("output file missing record data")
	}
}

func TestManager_UnsupportedFormat(t *testing.T) {
	if _, err := NewManager(&config.OutputConfig{Format: "parquet"}); err == nil {
		t.Error("expected an error for an unsupported format")
	}
	if _, err := NewManager(nil); err == nil {
		t.Error("expected an error for nil configuration")
	}
}
