// internal/extract/price_test.go
package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1.234,56", 1234.56},
		{"19,99 €", 19.99},
		{"1,234.56 USD", 1234.56},
		{"$49.99", 49.99},
		{"£12.50", 12.5},
		{"1 234,56", 1234.56},
		{"2.599,00 EUR", 2599},
		{"1.234.567,89", 1234567.89},
		{"99", 99},
		{"0,00", 0},
		{"", 0},
		{"garbage", 0},
		{"price on request", 0},
	}

	for _, tt := range tests {
		if got := ParsePrice(tt.input); got != tt.expected {
			t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestDetectCurrency_ExplicitAttribute(t *testing.T) {
	html := `<html><body><span itemprop="priceCurrency" content="usd"></span>Price: 12 €</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	if got := DetectCurrency(doc); got != "USD" {
		t.Errorf("DetectCurrency = %q, want USD", got)
	}
}

func TestDetectCurrency_InvalidAttributeFallsBack(t *testing.T) {
	html := `<html><body><span itemprop="priceCurrency" content="bogus"></span><p>Only £12.50 today</p></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	if got := DetectCurrency(doc); got != "GBP" {
		t.Errorf("DetectCurrency = %q, want GBP", got)
	}
}

func TestDetectCurrency_TextScan(t *testing.T) {
	tests := []struct {
		body     string
		expected string
	}{
		{"<p>Buy now for $10</p>", "USD"},
		{"<p>Listed in USD only</p>", "USD"},
		{"<p>Just £5</p>", "GBP"},
		{"<p>Seulement 5 euros</p>", "EUR"},
	}

	for _, tt := range tests {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + tt.body + "</body></html>"))
		if err != nil {
			t.Fatalf("failed to parse HTML: %v", err)
		}
		if got := DetectCurrency(doc); got != tt.expected {
			t.Errorf("DetectCurrency(%q) = %q, want %q", tt.body, got, tt.expected)
		}
	}
}
