// internal/extract/images_test.go
package extract

import (
	"fmt"
	"strings"
	"testing"
)

func TestCanonicalImageURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"query string stripped",
			"https://cdn.example.com/products/abc.jpg?v=12345&cache=no",
			"https://cdn.example.com/products/abc.jpg",
		},
		{
			"scheme-relative forced to https",
			"//cdn.example.com/x.jpg",
			"https://cdn.example.com/x.jpg",
		},
		{
			"amazon thumbnail upgraded",
			"https://m.media-amazon.com/images/I/71abcDEF123._AC160_.jpg",
			"https://m.media-amazon.com/images/I/71abcDEF123._SL1500_.jpg",
		},
		{
			"aliexpress size token upgraded",
			"https://ae01.alicdn.com/kf/photo_220x220q90.jpg",
			"https://ae01.alicdn.com/kf/photo_800x800.jpg",
		},
		{
			"shopify size suffix upgraded",
			"https://cdn.shopify.com/s/files/1/item_small.jpg",
			"https://cdn.shopify.com/s/files/1/item_1024x1024.jpg",
		},
		{
			"empty input",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalImageURL(tt.input); got != tt.expected {
				t.Errorf("CanonicalImageURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDedupSet_QueryStringVariants(t *testing.T) {
	seen := newDedupSet()

	first := CanonicalImageURL("https://cdn.example.com/img/A1B2C3D4E5F6.jpg?v=1")
	second := CanonicalImageURL("https://cdn.example.com/img/A1B2C3D4E5F6.jpg?v=2")

	if seen.seen(first) {
		t.Fatal("first occurrence must not be reported as duplicate")
	}
	if !seen.seen(second) {
		t.Fatal("query-string variant must deduplicate to one entry")
	}
}

func TestDedupSet_FreshPerRun(t *testing.T) {
	url := CanonicalImageURL("https://cdn.example.com/img/A1B2C3D4E5F6.jpg")

	run1 := newDedupSet()
	run2 := newDedupSet()

	if run1.seen(url) {
		t.Fatal("first run should not see the URL")
	}
	if run2.seen(url) {
		t.Fatal("a fresh dedup set must not remember previous runs")
	}
}

func TestImageKey_FallsBackToLastSegment(t *testing.T) {
	key := imageKey("https://cdn.example.com/a/b/tiny.jpg")
	if key != "/tiny.jpg" {
		t.Errorf("imageKey = %q, want /tiny.jpg", key)
	}
}

func TestExtractImages_CapAndDedup(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><body><div class="product-gallery">`)
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, `<img src="https://cdn.example.com/products/IMAGEID%04dXX.jpg">`, i)
	}
	// Duplicate of the first image with a cache-busting query.
	b.WriteString(`<img src="https://cdn.example.com/products/IMAGEID0000XX.jpg?v=9">`)
	b.WriteString(`</div></body></html>`)

	e := newTestExtractor(t, b.String(), "https://www.example.org/p/1")
	images := e.extractImages()

	if len(images) != MaxImages {
		t.Fatalf("got %d images, want cap of %d", len(images), MaxImages)
	}
	seen := make(map[string]bool)
	for _, url := range images {
		if seen[url] {
			t.Fatalf("duplicate image in output: %s", url)
		}
		seen[url] = true
		if !strings.Contains(url, "http") {
			t.Fatalf("image without scheme in output: %s", url)
		}
	}
}

func TestExtractImages_StructuredData(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@type":"Product","name":"X","image":["https://cdn.example.com/img/STRUCTURED01.jpg","//cdn.example.com/img/STRUCTURED02.jpg"]}
	</script></head><body></body></html>`

	e := newTestExtractor(t, html, "https://www.example.org/p/1")
	images := e.extractImages()

	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}
	if images[1] != "https://cdn.example.com/img/STRUCTURED02.jpg" {
		t.Errorf("scheme-relative structured image not normalized: %s", images[1])
	}
}

func TestExtractImages_HighResAttributePreferred(t *testing.T) {
	html := `<html><body><div class="product-gallery">
	<img data-old-hires="https://cdn.example.com/img/FULLSIZE0001.jpg" src="https://cdn.example.com/img/THUMBNAIL001.jpg">
	</div></body></html>`

	e := newTestExtractor(t, html, "https://www.example.org/p/1")
	images := e.extractImages()

	if len(images) != 1 || images[0] != "https://cdn.example.com/img/FULLSIZE0001.jpg" {
		t.Fatalf("expected high-res attribute to win, got %v", images)
	}
}
