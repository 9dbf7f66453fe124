// internal/extract/stock.go
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// stockKeywords drive the visible-text fallback. Groups are scanned in
// order and the first group with a match wins, so an in-stock phrase
// anywhere in the scanned text takes precedence over out-of-stock
// wording.
var stockKeywords = []struct {
	status   StockStatus
	keywords []string
}{
	{StockInStock, []string{"en stock", "in stock", "disponible", "available", "add to cart"}},
	{StockOutOfStock, []string{"rupture", "out of stock", "épuisé", "unavailable", "sold out"}},
	{StockLow, []string{"limité", "limited", "few left", "plus que", "only"}},
}

// stockQuantityRE picks up explicit remaining-quantity phrases such as
// "only 3 left" or "5 disponibles".
var stockQuantityRE = regexp.MustCompile(`(\d+)\s*(?:en stock|left|disponible|available)`)

// lowStockThreshold is the quantity below which stock counts as low.
const lowStockThreshold = 10

const addToCartSelectors = `#add-to-cart-button, [data-testid="add-to-cart"], .add-to-cart`

// visibleTextBudget bounds the keyword scan to the top of the page.
const visibleTextBudget = 10000

// extractStock resolves availability from structured-data offers, then
// a bounded keyword scan of the visible text, then the state of the
// primary add-to-cart control.
func (e *Extractor) extractStock() stockInfo {
	for _, item := range e.productPayloads(e.doc) {
		offers := offersOf(item)
		if len(offers) == 0 {
			continue
		}
		availability := availabilityString(offers[0])
		inStock := strings.Contains(availability, "InStock")
		return stockInfo{
			Status:  mapAvailability(availability),
			InStock: &inStock,
		}
	}

	return e.stockFromPageText()
}

func (e *Extractor) stockFromPageText() stockInfo {
	pageText := strings.ToLower(e.doc.Find("body").Text())
	if len(pageText) > visibleTextBudget {
		pageText = pageText[:visibleTextBudget]
	}

	if m := stockQuantityRE.FindStringSubmatch(pageText); m != nil {
		if quantity, err := strconv.Atoi(m[1]); err == nil {
			inStock := quantity > 0
			info := stockInfo{Quantity: &quantity, InStock: &inStock}
			switch {
			case quantity == 0:
				info.Status = StockOutOfStock
			case quantity < lowStockThreshold:
				info.Status = StockLow
			default:
				info.Status = StockInStock
			}
			return info
		}
	}

	for _, entry := range stockKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(pageText, keyword) {
				inStock := entry.status != StockOutOfStock
				return stockInfo{Status: entry.status, InStock: &inStock}
			}
		}
	}

	button := e.doc.Find(addToCartSelectors).First()
	if button.Length() > 0 {
		if _, disabled := button.Attr("disabled"); !disabled {
			inStock := true
			return stockInfo{Status: StockInStock, InStock: &inStock}
		}
	}

	return stockInfo{Status: StockUnknown}
}
