// internal/extract/stock_test.go
package extract

import (
	"testing"
)

func TestMapAvailability(t *testing.T) {
	tests := []struct {
		input    string
		expected StockStatus
	}{
		{"https://schema.org/InStock", StockInStock},
		{"http://schema.org/OutOfStock", StockOutOfStock},
		{"https://schema.org/PreOrder", StockPreorder},
		{"https://schema.org/LimitedAvailability", StockLow},
		{"https://schema.org/Discontinued", StockUnknown},
		{"", StockUnknown},
	}

	for _, tt := range tests {
		if got := mapAvailability(tt.input); got != tt.expected {
			t.Errorf("mapAvailability(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestExtractStock_StructuredData(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@type":"Product","name":"X","offers":{"price":"5","availability":"https://schema.org/OutOfStock"}}
	</script></head><body><p>add to cart</p></body></html>`

	e := newTestExtractor(t, html, "https://www.example.org/p")
	info := e.extractStock()

	if info.Status != StockOutOfStock {
		t.Errorf("status = %q, want %q", info.Status, StockOutOfStock)
	}
	if info.InStock == nil || *info.InStock {
		t.Error("InStock should be false for an out-of-stock offer")
	}
}

func TestExtractStock_KeywordScan(t *testing.T) {
	tests := []struct {
		body     string
		expected StockStatus
	}{
		{"<p>En stock, expédié sous 24h</p>", StockInStock},
		{"<p>Currently sold out</p>", StockOutOfStock},
		{"<p>Only few left, order soon</p>", StockLow},
	}

	for _, tt := range tests {
		e := newTestExtractor(t, "<html><body>"+tt.body+"</body></html>", "https://www.example.org/p")
		info := e.extractStock()
		if info.Status != tt.expected {
			t.Errorf("extractStock(%q) = %q, want %q", tt.body, info.Status, tt.expected)
		}
	}
}

func TestExtractStock_QuantityParsed(t *testing.T) {
	tests := []struct {
		body     string
		quantity int
		status   StockStatus
	}{
		{"<p>Hurry, only 3 left in stock</p>", 3, StockLow},
		{"<p>25 disponibles</p>", 25, StockInStock},
		{"<p>In stock - 150 available</p>", 150, StockInStock},
		{"<p>0 left</p>", 0, StockOutOfStock},
	}

	for _, tt := range tests {
		e := newTestExtractor(t, "<html><body>"+tt.body+"</body></html>", "https://www.example.org/p")
		info := e.extractStock()

		if info.Status != tt.status {
			t.Errorf("extractStock(%q) status = %q, want %q", tt.body, info.Status, tt.status)
		}
		if info.Quantity == nil {
			t.Errorf("extractStock(%q) quantity missing", tt.body)
			continue
		}
		if *info.Quantity != tt.quantity {
			t.Errorf("extractStock(%q) quantity = %d, want %d", tt.body, *info.Quantity, tt.quantity)
		}
		if info.InStock == nil || *info.InStock != (tt.quantity > 0) {
			t.Errorf("extractStock(%q) InStock = %v", tt.body, info.InStock)
		}
	}
}

func TestExtractStock_AddToCartFallback(t *testing.T) {
	html := `<html><body><button id="add-to-cart-button">Kosár</button></body></html>`
	e := newTestExtractor(t, html, "https://www.example.org/p")

	info := e.extractStock()
	if info.Status != StockInStock {
		t.Errorf("status = %q, want %q", info.Status, StockInStock)
	}
}

func TestExtractStock_DisabledAddToCart(t *testing.T) {
	html := `<html><body><button id="add-to-cart-button" disabled>Kosár</button></body></html>`
	e := newTestExtractor(t, html, "https://www.example.org/p")

	info := e.extractStock()
	if info.Status != StockUnknown {
		t.Errorf("status = %q, want %q", info.Status, StockUnknown)
	}
	if info.InStock != nil {
		t.Error("InStock should be unset when availability is unknown")
	}
}
