// internal/extract/variants.go
//
// Variant extraction. Structured-data offers win when present; failing
// that, each major platform buries its variant catalog in a different
// inline-script payload, so the sub-parsers below pattern-match the
// script text and JSON-decode only the matched substring. A parse
// failure in one script never stops the scan.
package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/valpere/ShopScrapexter/internal/platform"
)

var (
	amazonDimensionMapRE = regexp.MustCompile(`(?s)dimensionToAsinMap\s*[:=]\s*(\{.*?\})\s*[,;]`)
	aliSKUPriceListRE    = regexp.MustCompile(`(?s)"skuPriceList"\s*:\s*(\[.*?\])`)
	shopifyVariantsRE    = regexp.MustCompile(`(?s)"variants"\s*:\s*(\[.*?\])`)
)

const genericVariantSelectors = `select[name*="variant"], select[name*="size"], select[name*="color"]`

// extractVariants dispatches by platform after a structured-data
// attempt.
func (e *Extractor) extractVariants() []Variant {
	if variants := e.variantsFromStructuredData(); len(variants) > 0 {
		return variants
	}

	switch e.platform {
	case platform.Amazon:
		return e.amazonVariants()
	case platform.AliExpress:
		return e.aliExpressVariants()
	case platform.Shopify:
		return e.shopifyVariants()
	default:
		return e.genericVariants()
	}
}

// variantsFromStructuredData treats each declared offer as one variant.
// Availability defaults to true when the offer does not state it.
func (e *Extractor) variantsFromStructuredData() []Variant {
	var variants []Variant
	for _, item := range e.productPayloads(e.doc) {
		for i, offer := range offersOf(item) {
			sku := looseString(offer, "sku")
			if sku == "" {
				sku = fmt.Sprintf("variant-%d", i)
			}
			available := true
			if availability := availabilityString(offer); availability != "" {
				available = strings.Contains(availability, "InStock")
			}
			variants = append(variants, Variant{
				SKU:       sku,
				Price:     looseFloat(offer["price"]),
				Available: available,
				Options:   map[string]string{},
			})
		}
	}
	return variants
}

// amazonVariants reads the twister dimension map from inline scripts,
// falling back to the twister DOM rows.
func (e *Extractor) amazonVariants() []Variant {
	var variants []Variant

	e.doc.Find("script").Each(func(_ int, script *goquery.Selection) {
		m := amazonDimensionMapRE.FindStringSubmatch(script.Text())
		if m == nil {
			return
		}
		var dimensionMap map[string]interface{}
		if err := json.Unmarshal([]byte(m[1]), &dimensionMap); err != nil {
			e.logger.WithField("error", err).Debug("skipping unparseable dimension map")
			return
		}
		for key, asin := range dimensionMap {
			sku, ok := asin.(string)
			if !ok {
				continue
			}
			variants = append(variants, Variant{
				SKU:       sku,
				Title:     key,
				Options:   map[string]string{"variant": key},
				Available: true,
			})
		}
	})

	if len(variants) > 0 {
		return variants
	}

	e.doc.Find("#twister .a-row li[data-defaultasin]").Each(func(_ int, li *goquery.Selection) {
		sku, _ := li.Attr("data-defaultasin")
		if sku == "" {
			return
		}
		title, _ := li.Attr("title")
		image, _ := li.Find("img").First().Attr("src")
		variants = append(variants, Variant{
			SKU:       sku,
			Title:     title,
			Available: !li.HasClass("unavailable"),
			Image:     image,
		})
	})

	return variants
}

// aliExpressVariants parses the skuPriceList payload: one entry per
// SKU with its calculated price and remaining quantity.
func (e *Extractor) aliExpressVariants() []Variant {
	var variants []Variant

	e.doc.Find("script").Each(func(_ int, script *goquery.Selection) {
		m := aliSKUPriceListRE.FindStringSubmatch(script.Text())
		if m == nil {
			return
		}
		var skuList []map[string]interface{}
		if err := json.Unmarshal([]byte(m[1]), &skuList); err != nil {
			e.logger.WithField("error", err).Debug("skipping unparseable skuPriceList")
			return
		}
		for i, sku := range skuList {
			id := looseString(sku, "skuIdStr")
			if id == "" {
				id = numericID(sku["skuId"])
			}
			if id == "" {
				id = fmt.Sprintf("variant-%d", i)
			}
			variant := Variant{SKU: id}
			if val, ok := sku["skuVal"].(map[string]interface{}); ok {
				variant.Price = looseFloat(val["actSkuCalPrice"])
				if variant.Price == 0 {
					variant.Price = looseFloat(val["skuCalPrice"])
				}
				quantity, _ := looseInt(val["availQuantity"])
				variant.Stock = &quantity
				variant.Available = quantity > 0
			}
			variants = append(variants, variant)
		}
	})

	return variants
}

// shopifyVariants parses the variant array themes embed in inline
// product or analytics-meta JSON.
func (e *Extractor) shopifyVariants() []Variant {
	var variants []Variant

	e.doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		m := shopifyVariantsRE.FindStringSubmatch(script.Text())
		if m == nil {
			return true
		}
		var list []map[string]interface{}
		if err := json.Unmarshal([]byte(m[1]), &list); err != nil {
			e.logger.WithField("error", err).Debug("skipping unparseable variant payload")
			return true
		}
		for i, v := range list {
			sku := looseString(v, "sku")
			if sku == "" {
				sku = numericID(v["id"])
			}
			if sku == "" {
				sku = fmt.Sprintf("variant-%d", i)
			}
			available := true
			if b, ok := v["available"].(bool); ok {
				available = b
			}
			variant := Variant{
				SKU:       sku,
				Title:     looseString(v, "name", "title"),
				Price:     shopifyPrice(v["price"]),
				Available: available,
				Options:   map[string]string{},
			}
			for i, opt := range asSlice(v["options"]) {
				if s, ok := opt.(string); ok {
					variant.Options[fmt.Sprintf("option%d", i+1)] = s
				}
			}
			variants = append(variants, variant)
		}
		return len(variants) == 0
	})

	return variants
}

// numericID renders a JSON-decoded id as plain digits. Inline payloads
// carry ids as numbers, and the default float64 decoding prints ids
// past ~1e7 in scientific notation via %v. Empty when the id is absent.
func numericID(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}

// shopifyPrice normalizes a variant price: analytics-meta payloads
// carry integer cents, product JSON carries decimal strings.
func shopifyPrice(v interface{}) float64 {
	switch price := v.(type) {
	case float64:
		if price == math.Trunc(price) && price >= 100 {
			return price / 100
		}
		return price
	case string:
		return ParsePrice(price)
	}
	return 0
}

// genericVariants reads selectable option controls whose name suggests
// a variant dimension, one variant per enabled choice.
func (e *Extractor) genericVariants() []Variant {
	var variants []Variant

	e.doc.Find(genericVariantSelectors).Each(func(_ int, sel *goquery.Selection) {
		sel.Find("option:not([disabled])").Each(func(_ int, option *goquery.Selection) {
			value, _ := option.Attr("value")
			if value == "" {
				return
			}
			variants = append(variants, Variant{
				SKU:       value,
				Title:     cleanText(option.Text()),
				Available: true,
			})
		})
	})

	return variants
}
