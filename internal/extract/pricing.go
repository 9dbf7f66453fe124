// internal/extract/pricing.go
package extract

// originalPriceSelectors locate strike-through prices across platforms.
var originalPriceSelectors = []string{
	".a-text-strike", ".originalPrice", ".was-price", ".old-price", "del", "s.price",
}

// extractPricing resolves price, original price and currency, trying
// structured-data offers before selector rules.
func (e *Extractor) extractPricing() pricingInfo {
	if info, ok := e.pricingFromStructuredData(); ok {
		return info
	}
	return e.pricingFromSelectors()
}

func (e *Extractor) pricingFromStructuredData() (pricingInfo, bool) {
	for _, item := range e.productPayloads(e.doc) {
		offers := offersOf(item)
		if len(offers) == 0 {
			continue
		}
		offer := offers[0]

		info := pricingInfo{
			Price:    looseFloat(offer["price"]),
			Currency: "EUR",
		}
		if high := looseFloat(offer["highPrice"]); high > 0 {
			info.OriginalPrice = &high
		}
		if code, ok := normalizeCurrencyCode(looseString(offer, "priceCurrency")); ok {
			info.Currency = code
		}
		if info.Price > 0 {
			return info, true
		}
	}
	return pricingInfo{}, false
}

func (e *Extractor) pricingFromSelectors() pricingInfo {
	var price float64
	for _, sel := range e.rules.Price {
		node := e.doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		text := node.Text()
		if text == "" {
			text, _ = node.Attr("content")
		}
		if price = ParsePrice(text); price > 0 {
			break
		}
	}

	var originalPrice *float64
	for _, sel := range originalPriceSelectors {
		node := e.doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if op := ParsePrice(node.Text()); op > price {
			originalPrice = &op
			break
		}
	}

	return pricingInfo{
		Price:         price,
		OriginalPrice: originalPrice,
		Currency:      DetectCurrency(e.doc),
	}
}
