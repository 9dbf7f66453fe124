// internal/extract/specs.go
package extract

import (
	"github.com/PuerkitoBio/goquery"
)

// extractSpecifications reads tabular key/value rows. The first
// selector list that yields any rows wins outright: mixing rows from
// different page sections would blend unrelated specification schemas.
func (e *Extractor) extractSpecifications() map[string]string {
	specs := make(map[string]string)

	for _, sel := range e.rules.Specs {
		e.doc.Find(sel).Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td, th")
			if cells.Length() < 2 {
				return
			}
			key := cleanText(cells.Eq(0).Text())
			value := cleanText(cells.Eq(1).Text())
			if key == "" || value == "" {
				return
			}
			if len(key) >= MaxSpecKeyLen || len(value) >= MaxSpecValueLen {
				return
			}
			specs[key] = value
		})
		if len(specs) > 0 {
			break
		}
	}

	return specs
}
