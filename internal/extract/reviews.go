// internal/extract/reviews.go
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const anonymousAuthor = "Anonymous"

var ratingTokenRE = regexp.MustCompile(`(\d[.,]?\d?)`)

// reviewSummarySelectors locate the page-level rating widget.
var (
	summaryRatingSelectors = []string{
		`[data-hook="rating-out-of-text"]`, "#acrPopover .a-icon-alt", `[itemprop="ratingValue"]`,
	}
	summaryCountSelectors = []string{
		"#acrCustomerReviewText", `[itemprop="reviewCount"]`,
	}
)

// extractReviews reads up to limit reviews from the platform's review
// container. An absent container is a valid state, not an error.
func (e *Extractor) extractReviews(limit int) []Review {
	if limit <= 0 {
		limit = DefaultReviewLimit
	}

	var reviews []Review
	sel := e.rules.Reviews

	container := e.doc.Find(sel.Container).First()
	if container.Length() == 0 {
		return reviews
	}

	container.Find(sel.Item).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if len(reviews) >= limit {
			return false
		}

		content := cleanText(item.Find(sel.Content).First().Text())
		ratingEl := item.Find(sel.Rating).First()
		if content == "" && ratingEl.Length() == 0 {
			return true
		}

		author := cleanText(item.Find(sel.Author).First().Text())
		if author == "" {
			author = anonymousAuthor
		}

		reviews = append(reviews, Review{
			Author:   author,
			Rating:   parseRating(ratingEl),
			Content:  truncate(content, MaxTextLength),
			Date:     cleanText(item.Find(sel.Date).First().Text()),
			Verified: item.Find(sel.Verified).Length() > 0,
			Images:   reviewImages(item),
		})
		return true
	})

	return reviews
}

// parseRating reads the first numeric token from a rating element's
// text or accessibility label, clamped to [1,5]. Defaults to 5 when no
// token is found.
func parseRating(el *goquery.Selection) float64 {
	if el == nil || el.Length() == 0 {
		return 5
	}
	text := el.Text()
	if strings.TrimSpace(text) == "" {
		text, _ = el.Attr("aria-label")
	}
	m := ratingTokenRE.FindStringSubmatch(text)
	if m == nil {
		return 5
	}
	value, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 5
	}
	return clampRating(value)
}

func clampRating(value float64) float64 {
	if value < 1 {
		return 1
	}
	if value > 5 {
		return 5
	}
	return value
}

// reviewImages collects up to MaxReviewImages photos attached to one
// review, excluding avatars.
func reviewImages(item *goquery.Selection) []string {
	var images []string
	item.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		if src != "" && strings.Contains(src, "http") && !strings.Contains(src, "avatar") {
			images = append(images, src)
		}
		return len(images) < MaxReviewImages
	})
	return images
}

// extractReviewSummary reads the page-level average rating and review
// count widget, when the platform renders one.
func (e *Extractor) extractReviewSummary() *ReviewSummary {
	ratingText := firstText(e.doc, summaryRatingSelectors)
	if ratingText == "" {
		return nil
	}
	m := ratingTokenRE.FindStringSubmatch(ratingText)
	if m == nil {
		return nil
	}
	rating, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return nil
	}

	summary := &ReviewSummary{AverageRating: clampRating(rating)}
	if countText := firstText(e.doc, summaryCountSelectors); countText != "" {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, countText)
		if count, err := strconv.Atoi(digits); err == nil {
			summary.Count = count
		}
	}
	return summary
}
