// internal/extract/text.go
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// finder abstracts the goquery Find entry point so helpers work on
// documents and selections alike.
type finder interface {
	Find(selector string) *goquery.Selection
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// cleanText collapses whitespace runs to single spaces and trims.
func cleanText(text string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}

// truncate hard-caps a string at n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(string(runes)) > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

// cleanURL undoes the escaping commonly found in URLs harvested from
// inline script text.
func cleanURL(url string) string {
	url = strings.ReplaceAll(url, "\\u002F", "/")
	return strings.ReplaceAll(url, "\\", "")
}

// firstText returns the cleaned text of the first selector in the list
// that matches a non-empty element.
func firstText(doc finder, selectors []string) string {
	for _, sel := range selectors {
		node := doc.Find(sel).First()
		if text := cleanText(node.Text()); text != "" {
			return text
		}
	}
	return ""
}
