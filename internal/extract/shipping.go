// internal/extract/shipping.go
package extract

import (
	"regexp"
)

var (
	freeShippingRE = regexp.MustCompile(`(?i)free|gratuit|livraison offerte|0[,.]00`)
	deliveryTimeRE = regexp.MustCompile(`(?i)(\d+)\s*[-à]\s*(\d+)\s*(jours?|days?|semaines?|weeks?)`)
)

const maxShippingTextLen = 500

// extractShipping reads the first matching shipping block and derives
// the free-shipping flag and a delivery-time range from its text.
func (e *Extractor) extractShipping() shippingInfo {
	var info shippingInfo

	for _, sel := range e.rules.Shipping {
		text := cleanText(e.doc.Find(sel).First().Text())
		if text == "" {
			continue
		}

		info.Info = truncate(text, maxShippingTextLen)
		info.FreeShipping = freeShippingRE.MatchString(info.Info)
		if m := deliveryTimeRE.FindString(info.Info); m != "" {
			info.DeliveryTime = m
		}
		break
	}

	if info.FreeShipping {
		zero := 0.0
		info.Cost = &zero
	}
	return info
}
