// internal/extract/price.go
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/currency"
)

var (
	currencySymbolRE = regexp.MustCompile(`[€$£¥₹₽]|\s`)
	currencyCodeRE   = regexp.MustCompile(`(?i)EUR|USD|GBP|CHF`)
	europeanPriceRE  = regexp.MustCompile(`^\d{1,3}([\s.]\d{3})*,\d{2}$`)
)

// ParsePrice normalizes heterogeneous price text to a numeric amount.
// Currency symbols, codes and whitespace are stripped, then the
// locale-specific separator layout is rewritten to a plain decimal.
// Unparseable input yields 0.
func ParsePrice(text string) float64 {
	clean := currencyCodeRE.ReplaceAllString(text, "")
	clean = currencySymbolRE.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return 0
	}

	switch {
	case europeanPriceRE.MatchString(clean):
		// European grouping: 1.234,56 or 1 234,56
		clean = strings.NewReplacer(".", "", " ", "").Replace(clean)
		clean = strings.Replace(clean, ",", ".", 1)
	case strings.Contains(clean, ",") && !strings.Contains(clean, "."):
		clean = strings.Replace(clean, ",", ".", 1)
	case strings.Contains(clean, ",") && strings.Contains(clean, "."):
		// Both separators present: the later one is the decimal mark,
		// the other groups thousands.
		if strings.LastIndex(clean, ".") > strings.LastIndex(clean, ",") {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		}
	}

	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return value
}

// DetectCurrency resolves the page currency, preferring an explicit
// currency attribute over scanning early page text for symbols. The
// text scan is a lossy heuristic: a page quoting a foreign price for
// comparison can mis-detect. Defaults to EUR.
func DetectCurrency(doc *goquery.Document) string {
	node := doc.Find(`[itemprop="priceCurrency"], [data-currency]`).First()
	if node.Length() > 0 {
		code, _ := node.Attr("content")
		if code == "" {
			code, _ = node.Attr("data-currency")
		}
		if normalized, ok := normalizeCurrencyCode(code); ok {
			return normalized
		}
	}

	pageText := doc.Find("body").Text()
	if len(pageText) > 5000 {
		pageText = pageText[:5000]
	}
	switch {
	case strings.Contains(pageText, "$") || strings.Contains(pageText, "USD"):
		return "USD"
	case strings.Contains(pageText, "£") || strings.Contains(pageText, "GBP"):
		return "GBP"
	default:
		return "EUR"
	}
}

// normalizeCurrencyCode validates a declared currency code against the
// ISO 4217 table, so a junk attribute value never leaks into records.
func normalizeCurrencyCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", false
	}
	return unit.String(), true
}
