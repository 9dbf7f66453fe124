// internal/extract/images.go
//
// Image pipeline: canonicalize raw URLs to their highest-resolution CDN
// variant, then deduplicate on a stable path token. The dedup set is
// scoped to one extraction run and passed explicitly so state can never
// leak across documents.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/ShopScrapexter/internal/platform"
)

var (
	amazonSizeRE    = regexp.MustCompile(`\._[A-Z]{2}\d+_\.`)
	aliSizeRE       = regexp.MustCompile(`_\d+x\d+\w*\.`)
	shopifySizeRE   = regexp.MustCompile(`_(small|medium|large|grande|pico|icon)\.`)
	imageTokenRE    = regexp.MustCompile(`(?i)/([A-Z0-9]{10,})[._]`)
	amazonImageIDRE = regexp.MustCompile(`/I/([^.]+)`)

	aliImagePathListRE = regexp.MustCompile(`imagePathList["']?\s*:\s*\[([^\]]+)\]`)
	quotedStringRE     = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
)

// dedupSet records image identity keys seen within a single extraction
// run. It must be freshly initialized per run.
type dedupSet map[string]struct{}

func newDedupSet() dedupSet {
	return make(dedupSet)
}

// seen reports whether the URL's identity key was already recorded, and
// records it otherwise.
func (ds dedupSet) seen(url string) bool {
	key := imageKey(url)
	if _, dup := ds[key]; dup {
		return true
	}
	ds[key] = struct{}{}
	return false
}

// imageKey extracts a stable unique-looking path segment to use as the
// deduplication key, falling back to the final path segment.
func imageKey(url string) string {
	if m := imageTokenRE.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := amazonImageIDRE.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		return url[idx:]
	}
	return url
}

// CanonicalImageURL rewrites a raw image URL to its canonical form:
// highest-resolution CDN variant, query string stripped, https scheme.
// Returns "" for empty input.
func CanonicalImageURL(src string) string {
	if src == "" {
		return ""
	}

	switch {
	case strings.Contains(src, "amazon"):
		src = amazonSizeRE.ReplaceAllString(src, "._SL1500_.")
	case strings.Contains(src, "alicdn") || strings.Contains(src, "aliexpress"):
		src = aliSizeRE.ReplaceAllString(src, "_800x800.")
	case strings.Contains(src, "shopify"):
		src = shopifySizeRE.ReplaceAllString(src, "_1024x1024.")
	}

	// Query parameters carry cache busting and tracking, never identity.
	if idx := strings.Index(src, "?"); idx >= 0 {
		src = src[:idx]
	}

	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}

	return src
}

// extractImages collects gallery images from platform selectors, then
// structured data, then platform-specific inline script payloads.
func (e *Extractor) extractImages() []string {
	var images []string
	seen := newDedupSet()

	add := func(src string) {
		if src == "" || len(images) >= MaxImages {
			return
		}
		canonical := CanonicalImageURL(src)
		if canonical == "" || seen.seen(canonical) {
			return
		}
		images = append(images, canonical)
	}

	for _, sel := range e.rules.Images {
		e.doc.Find(sel).Each(func(_ int, img *goquery.Selection) {
			add(imageSource(img))
		})
	}

	for _, item := range e.productPayloads(e.doc) {
		for _, entry := range asSlice(item["image"]) {
			switch img := entry.(type) {
			case string:
				add(img)
			case map[string]interface{}:
				add(looseString(img, "url"))
			}
		}
	}

	e.scriptImages(add)

	filtered := images[:0]
	for _, url := range images {
		if strings.Contains(url, "http") {
			filtered = append(filtered, url)
		}
	}
	if len(filtered) > MaxImages {
		filtered = filtered[:MaxImages]
	}
	return filtered
}

// imageSource picks the best source attribute for an img element,
// preferring the high-resolution data attributes some galleries use
// over the (often thumbnailed) src.
func imageSource(img *goquery.Selection) string {
	for _, attr := range []string{"data-old-hires", "data-a-hires", "data-src", "src"} {
		if src, ok := img.Attr(attr); ok && src != "" {
			return src
		}
	}
	return ""
}

// scriptImages harvests gallery URLs that platforms keep in inline
// script payloads rather than the DOM. Currently AliExpress, whose
// imagePathList carries the full-size gallery.
func (e *Extractor) scriptImages(add func(string)) {
	if e.platform != platform.AliExpress {
		return
	}
	e.doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		m := aliImagePathListRE.FindStringSubmatch(s.Text())
		if m == nil {
			return
		}
		for _, quoted := range quotedStringRE.FindAllStringSubmatch(m[1], -1) {
			add(cleanURL(quoted[1]))
		}
	})
}
