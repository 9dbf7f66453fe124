// internal/platform/platform.go
package platform

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Platform identifies the e-commerce site family a page belongs to.
// It selects which selector and parsing ruleset the extractors use.
type Platform string

const (
	AliExpress    Platform = "aliexpress"
	Amazon        Platform = "amazon"
	EBay          Platform = "ebay"
	Temu          Platform = "temu"
	Walmart       Platform = "walmart"
	Etsy          Platform = "etsy"
	Cdiscount     Platform = "cdiscount"
	Fnac          Platform = "fnac"
	Rakuten       Platform = "rakuten"
	Shein         Platform = "shein"
	Alibaba       Platform = "alibaba"
	Shopify       Platform = "shopify"
	Target        Platform = "target"
	BestBuy       Platform = "bestbuy"
	Newegg        Platform = "newegg"
	Banggood      Platform = "banggood"
	DHgate        Platform = "dhgate"
	Wish          Platform = "wish"
	CJDropship    Platform = "cjdropshipping"
	HomeDepot     Platform = "homedepot"
	Lowes         Platform = "lowes"
	Costco        Platform = "costco"
	Generic       Platform = "generic"
)

// hostEntry maps a platform to the hostname fragments that identify it.
// Table order is significant: the first matching fragment wins.
type hostEntry struct {
	platform  Platform
	fragments []string
}

var hostTable = []hostEntry{
	{AliExpress, []string{"aliexpress"}},
	{Amazon, []string{"amazon"}},
	{EBay, []string{"ebay"}},
	{Temu, []string{"temu"}},
	{Walmart, []string{"walmart"}},
	{Etsy, []string{"etsy"}},
	{Cdiscount, []string{"cdiscount"}},
	{Fnac, []string{"fnac"}},
	{Rakuten, []string{"rakuten"}},
	{Shein, []string{"shein"}},
	{Alibaba, []string{"alibaba", "1688"}},
	{Shopify, []string{"myshopify"}},
	{Target, []string{"target"}},
	{BestBuy, []string{"bestbuy"}},
	{Newegg, []string{"newegg"}},
	{Banggood, []string{"banggood"}},
	{DHgate, []string{"dhgate"}},
	{Wish, []string{"wish"}},
	{CJDropship, []string{"cjdropshipping"}},
	{HomeDepot, []string{"homedepot"}},
	{Lowes, []string{"lowes"}},
	{Costco, []string{"costco"}},
}

// Known returns every platform the detector can return, excluding Generic.
func Known() []Platform {
	platforms := make([]Platform, 0, len(hostTable))
	for _, entry := range hostTable {
		platforms = append(platforms, entry.platform)
	}
	return platforms
}

// IsKnown reports whether p is a platform the detector can return,
// including Generic.
func (p Platform) IsKnown() bool {
	if p == Generic {
		return true
	}
	for _, entry := range hostTable {
		if entry.platform == p {
			return true
		}
	}
	return false
}

// Detect classifies a page by its hostname, falling back to embedded
// Shopify storefront markers when the host is unrecognized. It always
// returns a value; pages that match nothing are Generic.
func Detect(host string, doc *goquery.Document) Platform {
	h := strings.ToLower(host)

	for _, entry := range hostTable {
		for _, fragment := range entry.fragments {
			if strings.Contains(h, fragment) {
				return entry.platform
			}
		}
	}

	if doc != nil && hasShopifyMarkers(doc) {
		return Shopify
	}

	return Generic
}

// hasShopifyMarkers checks for storefront traces Shopify leaves on any
// theme: the checkout API meta tag, the CDN stylesheet link, or the
// global Shopify object set up by inline theme scripts.
func hasShopifyMarkers(doc *goquery.Document) bool {
	if doc.Find(`meta[name="shopify-checkout-api-token"]`).Length() > 0 {
		return true
	}
	if doc.Find(`link[href*="cdn.shopify.com"]`).Length() > 0 {
		return true
	}

	found := false
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), "window.Shopify") {
			found = true
			return false
		}
		return true
	})
	return found
}
