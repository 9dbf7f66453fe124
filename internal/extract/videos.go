// internal/extract/videos.go
package extract

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// videoPatterns match video URLs embedded in inline script payloads:
// known key names plus direct media literals.
var videoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"videoUrl"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"video_url"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"playUrl"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`https?://[^"'\s]+\.mp4[^"'\s]*`),
	regexp.MustCompile(`https?://[^"'\s]+\.m3u8[^"'\s]*`),
}

var (
	videoExcludeRE   = regexp.MustCompile(`(?i)analytics|tracking|pixel|ads\.|\.gif$|\.png$`)
	videoExtensionRE = regexp.MustCompile(`(?i)\.(mp4|webm|m3u8|mov)`)
	videoKeywordRE   = regexp.MustCompile(`(?i)video|player`)
)

const videoFrameSelectors = `iframe[src*="video"], iframe[src*="player"], iframe[src*="youtube"]`

// extractVideos collects product videos from media elements, inline
// script payloads and embedded player frames into one deduplicated,
// capped list.
func (e *Extractor) extractVideos() []string {
	var videos []string
	seen := make(map[string]struct{})

	add := func(url string) {
		if url == "" || len(videos) >= MaxVideos {
			return
		}
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		videos = append(videos, url)
	}

	e.doc.Find("video source, video").Each(func(_ int, el *goquery.Selection) {
		src, _ := el.Attr("src")
		if src == "" {
			src, _ = el.Find("source").First().Attr("src")
		}
		if isValidVideoURL(src) {
			add(src)
		}
	})

	e.doc.Find("script").Each(func(_ int, script *goquery.Selection) {
		content := script.Text()
		for _, pattern := range videoPatterns {
			for _, match := range pattern.FindAllStringSubmatch(content, -1) {
				url := match[0]
				if len(match) > 1 {
					url = match[1]
				}
				if isValidVideoURL(url) {
					add(cleanURL(url))
				}
			}
		}
	})

	e.doc.Find(videoFrameSelectors).Each(func(_ int, frame *goquery.Selection) {
		if src, ok := frame.Attr("src"); ok {
			add(src)
		}
	})

	return videos
}

// isValidVideoURL rejects analytics, tracking and static-image URLs,
// and requires either a known video extension or a player keyword.
func isValidVideoURL(url string) bool {
	if url == "" {
		return false
	}
	if videoExcludeRE.MatchString(url) {
		return false
	}
	return videoExtensionRE.MatchString(url) || videoKeywordRE.MatchString(url)
}
