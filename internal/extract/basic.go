// internal/extract/basic.go
package extract

import (
	"regexp"

	"github.com/valpere/ShopScrapexter/internal/platform"
)

// brandPrefixRE strips leading seller-page labels from brand text.
var brandPrefixRE = regexp.MustCompile(`(?i)^(par|by|marque|brand|visit)\s*`)

// URL patterns carrying a platform product identifier, used as the SKU
// of last resort when no source provides one.
var productIDPatterns = map[platform.Platform]*regexp.Regexp{
	platform.Amazon:     regexp.MustCompile(`(?i)/(?:dp|gp/product|gp/aw/d)/([A-Z0-9]{10})`),
	platform.AliExpress: regexp.MustCompile(`/item/(\d+)\.html`),
}

// extractBasicInfo resolves title, description, brand and identifiers
// through the tiered fallback chain: structured data, then social meta
// tags, then selector rules.
func (e *Extractor) extractBasicInfo() basicInfo {
	if info := e.basicFromStructuredData(); info.Title != "" {
		return e.withFallbackSKU(info)
	}
	if info := e.basicFromMetaTags(); info.Title != "" {
		return e.withFallbackSKU(info)
	}
	return e.withFallbackSKU(e.basicFromSelectors())
}

func (e *Extractor) basicFromStructuredData() basicInfo {
	for _, item := range e.productPayloads(e.doc) {
		return basicInfo{
			Title:       cleanText(looseString(item, "name")),
			Description: truncate(cleanText(looseString(item, "description")), MaxTextLength),
			Brand:       brandName(item),
			SKU:         looseString(item, "sku", "productID"),
			GTIN:        looseString(item, "gtin", "gtin13", "gtin12"),
			MPN:         looseString(item, "mpn"),
		}
	}
	return basicInfo{}
}

func (e *Extractor) basicFromMetaTags() basicInfo {
	return basicInfo{
		Title:       firstMeta(e.doc, "og:title", "twitter:title"),
		Description: truncate(firstMeta(e.doc, "og:description", "twitter:description", "description"), MaxTextLength),
	}
}

func (e *Extractor) basicFromSelectors() basicInfo {
	info := basicInfo{
		Title:       firstText(e.doc, e.rules.Title),
		Description: truncate(firstText(e.doc, e.rules.Description), MaxTextLength),
	}
	if brand := firstText(e.doc, e.rules.Brand); brand != "" {
		info.Brand = brandPrefixRE.ReplaceAllString(brand, "")
	}
	return info
}

// withFallbackSKU fills an empty SKU from the product identifier in the
// page URL, when the platform encodes one there.
func (e *Extractor) withFallbackSKU(info basicInfo) basicInfo {
	if info.SKU != "" {
		return info
	}
	if re, ok := productIDPatterns[e.platform]; ok {
		if m := re.FindStringSubmatch(e.url); m != nil {
			info.SKU = m[1]
		}
	}
	return info
}

// firstMeta reads the first non-empty content among meta properties,
// matching either the property or name attribute.
func firstMeta(doc finder, properties ...string) string {
	for _, prop := range properties {
		sel := `meta[property="` + prop + `"], meta[name="` + prop + `"]`
		if content, ok := doc.Find(sel).First().Attr("content"); ok && content != "" {
			return cleanText(content)
		}
	}
	return ""
}
