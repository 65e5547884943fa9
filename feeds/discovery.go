package feeds

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

const (
	discoveryTimeout   = 10 * time.Second
	discoveryBodyLimit = 500_000
	discoveryUserAgent = "TeletextNews/1.0"
)

// DiscoveredFeed is a feed link advertised by an HTML page.
type DiscoveredFeed struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// DiscoverFeeds fetches an HTML page and returns the RSS/Atom alternate
// links it advertises. Relative hrefs are resolved against the page URL.
// Any failure yields an empty list; discovery is strictly best-effort.
func DiscoverFeeds(pageURL string) []DiscoveredFeed {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return []DiscoveredFeed{}
	}
	req.Header.Set("User-Agent", discoveryUserAgent)

	client := &http.Client{Timeout: discoveryTimeout}
	resp, err := client.Do(req)
	if err != nil {
		log.WithFields(log.Fields{"url": pageURL, "error": err}).Info("Feed discovery fetch failed")
		return []DiscoveredFeed{}
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, discoveryBodyLimit))
	if err != nil {
		return []DiscoveredFeed{}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return []DiscoveredFeed{}
	}

	var found []DiscoveredFeed
	doc.Find("link").Each(func(_ int, sel *goquery.Selection) {
		if strings.ToLower(sel.AttrOr("rel", "")) != "alternate" {
			return
		}
		linkType := strings.ToLower(sel.AttrOr("type", ""))
		if linkType != "application/rss+xml" && linkType != "application/atom+xml" {
			return
		}
		href := sel.AttrOr("href", "")
		if href == "" {
			return
		}
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			resolved, err := base.Parse(href)
			if err != nil {
				return
			}
			href = resolved.String()
		}
		found = append(found, DiscoveredFeed{
			URL:   href,
			Title: sel.AttrOr("title", href),
		})
	})

	if found == nil {
		found = []DiscoveredFeed{}
	}
	return found
}
