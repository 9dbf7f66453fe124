// internal/extract/jsonld.go
//
// Embedded structured-data scanning. Product payloads arrive in wildly
// inconsistent shapes across platforms, so everything is parsed into
// loose maps and projected field-by-field; anything that does not
// conform is discarded.
package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// productPayloads returns every JSON-LD block on the page whose declared
// type is Product. A malformed block never aborts the scan.
func (e *Extractor) productPayloads(doc *goquery.Document) []map[string]interface{} {
	var payloads []map[string]interface{}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var raw interface{}
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			e.logger.WithField("error", err).Debug("skipping malformed JSON-LD block")
			return
		}
		for _, item := range asSlice(raw) {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if declaredType(m) == "Product" {
				payloads = append(payloads, m)
			}
		}
	})

	return payloads
}

// asSlice normalizes a decoded JSON value to a slice: arrays pass
// through, single objects become a one-element slice.
func asSlice(v interface{}) []interface{} {
	if arr, ok := v.([]interface{}); ok {
		return arr
	}
	return []interface{}{v}
}

// declaredType reads @type, which may be a string or an array of strings.
func declaredType(m map[string]interface{}) string {
	switch t := m["@type"].(type) {
	case string:
		return t
	case []interface{}:
		for _, v := range t {
			if s, ok := v.(string); ok && s == "Product" {
				return s
			}
		}
	}
	return ""
}

// looseString projects the first present, non-empty string among keys.
func looseString(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// looseFloat coerces a JSON number or numeric string to float64,
// returning 0 when the value does not conform.
func looseFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return 0
}

// looseInt coerces a JSON number or numeric string to int.
func looseInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// offersOf returns a product payload's offers as a slice of loose maps,
// whether the source embeds one offer object or an array of them.
func offersOf(m map[string]interface{}) []map[string]interface{} {
	var offers []map[string]interface{}
	for _, item := range asSlice(m["offers"]) {
		if offer, ok := item.(map[string]interface{}); ok {
			offers = append(offers, offer)
		}
	}
	return offers
}

// brandName handles brand declared either as a plain string or as a
// nested organization object.
func brandName(m map[string]interface{}) string {
	switch b := m["brand"].(type) {
	case string:
		return b
	case map[string]interface{}:
		return looseString(b, "name")
	}
	return ""
}

// availabilityString pulls the offer availability, e.g.
// "https://schema.org/InStock".
func availabilityString(offer map[string]interface{}) string {
	return looseString(offer, "availability")
}

// mapAvailability translates a schema.org availability string into a
// stock status.
func mapAvailability(availability string) StockStatus {
	lower := strings.ToLower(availability)
	switch {
	case strings.Contains(lower, "instock"):
		return StockInStock
	case strings.Contains(lower, "outofstock"):
		return StockOutOfStock
	case strings.Contains(lower, "preorder"):
		return StockPreorder
	case strings.Contains(lower, "limited"):
		return StockLow
	default:
		return StockUnknown
	}
}
